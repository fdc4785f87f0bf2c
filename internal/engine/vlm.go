package engine

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"go-ocr-benchmark/internal/config"
	"go-ocr-benchmark/internal/logger"
	"go-ocr-benchmark/pkg/models"
	"go-ocr-benchmark/pkg/validation"
)

const defaultPrompt = "Please look at this image carefully and extract the exact text/code " +
	"shown in the image. This appears to be an alphanumeric code or product number. " +
	"Please provide ONLY the exact text you see, without any additional explanation " +
	"or formatting. The text typically consists of letters, numbers, and may include " +
	"symbols like # or ."

// alphanumericPattern extracts candidate codes from a model response.
var alphanumericPattern = regexp.MustCompile(`[A-Z0-9]+[#.\-A-Z0-9]*`)

// explanationPrefixes are chatty lead-ins models produce despite the prompt.
var explanationPrefixes = []string{
	"The text shown in the image is:",
	"The code in the image is:",
	"The text appears to be:",
	"I can see:",
	"The image shows:",
	"The alphanumeric code is:",
	"The product number is:",
	"Looking at this image, I can see:",
}

// VLMEngine recognizes text with a multimodal model served over an
// OpenAI-compatible chat API, such as a local LM Studio server. The HTTP
// client holds a persistent connection reused across calls; connection loss
// surfaces as a per-call failure, never a global abort.
type VLMEngine struct {
	completions openai.ChatCompletionService
	fetcher     ImageFetcher

	model       string
	prompt      string
	temperature float64
	maxTokens   int64
}

// NewVLMEngine creates a vision-model engine from its options. Recognized
// options: model, base_url, api_key, prompt, temperature, max_tokens.
func NewVLMEngine(opts config.EngineOptions, fetcher ImageFetcher) (*VLMEngine, error) {
	baseURL := opts.String("base_url", "http://localhost:1234/v1")
	if err := validation.NewURLValidator().ValidateURL(baseURL); err != nil {
		return nil, fmt.Errorf("base_url: %w", err)
	}

	clientOpts := []option.RequestOption{
		option.WithBaseURL(baseURL),
	}
	if key := opts.String("api_key", "lm-studio"); key != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(key))
	}

	return &VLMEngine{
		completions: openai.NewChatCompletionService(clientOpts...),
		fetcher:     fetcher,
		model:       opts.String("model", "qwen/qwen2.5-vl-7b"),
		prompt:      opts.String("prompt", defaultPrompt),
		temperature: opts.Float("temperature", 0.1),
		maxTokens:   int64(opts.Int("max_tokens", 50)),
	}, nil
}

func (e *VLMEngine) Name() string { return "vlm" }

// Recognize sends one image to the vision model and post-processes the
// response into a bare code.
func (e *VLMEngine) Recognize(ctx context.Context, imagePath string) (outcome models.RecognitionOutcome) {
	started := time.Now()
	defer recoverToOutcome(e.Name(), imagePath, started, &outcome)

	data, err := e.fetcher.Fetch(ctx, imagePath)
	if err != nil {
		return failedOutcome(imagePath, fmt.Sprintf("fetch image: %v", err), started)
	}

	dataURL := "data:" + mimeTypeFor(imagePath) + ";base64," +
		base64.StdEncoding.EncodeToString(data)

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(e.prompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: dataURL,
		}),
	}

	completion, err := e.completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       e.model,
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(parts)},
		Temperature: openai.Float(e.temperature),
		MaxTokens:   openai.Int(e.maxTokens),
	})
	if err != nil {
		if ctx.Err() != nil {
			return failedOutcome(imagePath, "timeout", started)
		}
		return failedOutcome(imagePath, fmt.Sprintf("chat completion: %v", err), started)
	}

	if len(completion.Choices) == 0 {
		return failedOutcome(imagePath, "empty completion", started)
	}

	raw := completion.Choices[0].Message.Content
	cleaned := cleanResponse(raw)

	logger.WithFields(map[string]interface{}{
		"engine":  e.Name(),
		"image":   imagePath,
		"raw":     raw,
		"cleaned": cleaned,
	}).Debug("Recognition complete")

	return successOutcome(imagePath, cleaned, started)
}

// Close is a no-op; the underlying HTTP client needs no teardown.
func (e *VLMEngine) Close() error { return nil }

// cleanResponse distills a chatty model reply into the code it names:
// strip explanation prefixes and quotes, keep the first line, then take
// the longest alphanumeric-pattern match of the uppercased remainder.
func cleanResponse(response string) string {
	cleaned := strings.TrimSpace(response)
	if cleaned == "" {
		return ""
	}

	for _, prefix := range explanationPrefixes {
		if len(cleaned) >= len(prefix) && strings.EqualFold(cleaned[:len(prefix)], prefix) {
			cleaned = strings.TrimSpace(cleaned[len(prefix):])
		}
	}

	cleaned = strings.Trim(cleaned, "\"'`")

	if idx := strings.IndexByte(cleaned, '\n'); idx >= 0 {
		cleaned = strings.TrimSpace(cleaned[:idx])
	}

	matches := alphanumericPattern.FindAllString(strings.ToUpper(cleaned), -1)
	if len(matches) > 0 {
		longest := matches[0]
		for _, m := range matches[1:] {
			if len(m) > len(longest) {
				longest = m
			}
		}
		return longest
	}

	return cleaned
}

func mimeTypeFor(imagePath string) string {
	switch strings.ToLower(filepath.Ext(imagePath)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
