package repository

import "errors"

var (
	// ErrSummaryNotFound indicates no summary exists for the engine
	ErrSummaryNotFound = errors.New("summary not found")

	// ErrComparisonNotFound indicates no comparison has been stored
	ErrComparisonNotFound = errors.New("comparison not found")

	// ErrRepositoryUnavailable indicates the repository is unavailable
	ErrRepositoryUnavailable = errors.New("repository unavailable")
)
