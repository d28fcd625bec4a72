package nlu

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"stockbot/pkg"

	"github.com/bytedance/sonic"
)

// MaxCandidateLength bounds a single entity candidate coming off the wire.
const MaxCandidateLength = 500

// ErrMissingTopIntent marks a recognition result that violates the input
// contract: a turn must never proceed with a guessed intent.
var ErrMissingTopIntent = errors.New("recognition result has no top intent")

// Recognizer is the external natural-language recognizer boundary. The
// core only consumes its output contract; it never parses language.
type Recognizer interface {
	Recognize(ctx context.Context, utterance string) (*pkg.RecognitionResult, error)
}

// ValidateResult checks the recognizer output shape once, at the
// boundary, so business logic downstream can traverse it freely.
func ValidateResult(result *pkg.RecognitionResult) error {
	if result == nil || strings.TrimSpace(result.TopIntent) == "" {
		return ErrMissingTopIntent
	}
	for key, candidates := range result.Entities {
		if !utf8.ValidString(key) {
			return fmt.Errorf("entity key contains invalid UTF-8")
		}
		for _, c := range candidates {
			if len(c.Text) > MaxCandidateLength {
				return fmt.Errorf("entity %q candidate too long: %d bytes (max %d)", key, len(c.Text), MaxCandidateLength)
			}
			if !utf8.ValidString(c.Text) {
				return fmt.Errorf("entity %q candidate contains invalid UTF-8", key)
			}
		}
	}
	return nil
}

// recognizeRequest is the wire request to the recognizer endpoint.
type recognizeRequest struct {
	Query string `json:"query"`
}

// HTTPRecognizer talks to the external recognizer over HTTP.
type HTTPRecognizer struct {
	url    string
	apiKey string
	client *http.Client
}

// NewHTTPRecognizer creates a recognizer client from configuration.
func NewHTTPRecognizer(config pkg.RecognizerConfig) (*HTTPRecognizer, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("recognizer URL is required")
	}
	timeout := time.Duration(config.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPRecognizer{
		url:    config.URL,
		apiKey: config.APIKey,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Recognize posts the utterance and decodes the ranked intent plus the
// entity candidate map. The shape is validated here once.
func (r *HTTPRecognizer) Recognize(ctx context.Context, utterance string) (*pkg.RecognitionResult, error) {
	body, err := sonic.Marshal(recognizeRequest{Query: utterance})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recognizer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build recognizer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recognizer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recognizer returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read recognizer response: %w", err)
	}

	var result pkg.RecognitionResult
	if err := sonic.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode recognizer response: %w", err)
	}

	if err := ValidateResult(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
