package main

import (
	"fmt"
	"os"

	apperrors "go-ocr-benchmark/internal/errors"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(apperrors.GetExitCode(err))
	}
}
