package provider

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"anoa.com/vxrank/pkg/apperror"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Media is an inline attachment sent alongside a prompt.
type Media struct {
	Data     []byte
	MIMEType string
}

// LLMProvider is the AI collaborator. Its answers are untrusted text; the
// caller turns them into typed verdicts.
type LLMProvider interface {
	// GenerateText answers a text-only prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)

	// GenerateWithMedia answers a prompt about an attached clip.
	GenerateWithMedia(ctx context.Context, prompt string, media Media) (string, error)

	Close()
}

// GeminiProvider implements LLMProvider on Google Gemini.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.4)

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

func (g *GeminiProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, genai.Text(prompt))
}

func (g *GeminiProvider) GenerateWithMedia(ctx context.Context, prompt string, media Media) (string, error) {
	return g.generate(ctx, genai.Blob{MIMEType: media.MIMEType, Data: media.Data}, genai.Text(prompt))
}

func (g *GeminiProvider) generate(ctx context.Context, parts ...genai.Part) (string, error) {
	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", ClassifyError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no response from LLM", apperror.ErrAIUnavailable)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: no text content in response", apperror.ErrAIUnavailable)
	}
	return sb.String(), nil
}

func (g *GeminiProvider) Close() {
	g.client.Close()
}

// ClassifyError maps a provider failure to ErrAIQuotaExceeded when the
// provider signals exhausted quota, and to ErrAIUnavailable otherwise.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, apperror.ErrAIQuotaExceeded) || errors.Is(err, apperror.ErrAIUnavailable) {
		return err
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) && gErr.Code == http.StatusTooManyRequests {
		log.Printf("⚠️ Gemini quota exceeded: %v", err)
		return fmt.Errorf("%w: %v", apperror.ErrAIQuotaExceeded, err)
	}

	msg := err.Error()
	if strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "Quota exceeded") {
		log.Printf("⚠️ Gemini quota exceeded: %v", err)
		return fmt.Errorf("%w: %v", apperror.ErrAIQuotaExceeded, err)
	}

	log.Printf("❌ Gemini call failed: %v", err)
	return fmt.Errorf("%w: %v", apperror.ErrAIUnavailable, err)
}
