package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"sterna-backend/internal/metrics"
)

const (
	geminiModel = "gemini-2.5-flash"

	fallbackReply = "I apologize, but I couldn't generate a response at this time."
)

// contentGenerator is the slice of *genai.GenerativeModel the service uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiService turns a rendered prompt into one assistant reply. Each call
// is a single attempt; there is no retry and no client-side timeout.
type GeminiService struct {
	client  *genai.Client
	model   contentGenerator
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewGeminiService(apiKey string, m *metrics.Metrics, logger *slog.Logger) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiService{
		client:  client,
		model:   client.GenerativeModel(geminiModel),
		metrics: m,
		logger:  logger,
	}, nil
}

func (s *GeminiService) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// Complete sends prompt to the model with default generation parameters.
// Any failure is logged and collapsed into ErrGenerationFailed; an empty
// result yields the fixed fallback reply.
func (s *GeminiService) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		s.logger.Error("gemini completion failed",
			"model", geminiModel,
			"prompt_chars", len(prompt),
			"error", err,
		)
		s.observe(metrics.OutcomeError, start)
		return "", ErrGenerationFailed
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			s.logger.Warn("gemini candidate did not stop cleanly",
				"candidate", i,
				"finish_reason", cand.FinishReason,
			)
		}
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		s.logger.Warn("gemini returned empty text, using fallback reply", "model", geminiModel)
		s.observe(metrics.OutcomeFallback, start)
		return fallbackReply, nil
	}

	s.observe(metrics.OutcomeSuccess, start)
	return text, nil
}

func (s *GeminiService) observe(outcome string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveCompletion(outcome, time.Since(start))
	}
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
