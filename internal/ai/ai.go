package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/01moynul/herbal-storefront/internal/models"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var ErrEmptyResponse = errors.New("model returned no text")

// Copywriter drafts product copy with Gemini.
type Copywriter struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewCopywriter initializes the Gemini client.
func NewCopywriter(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Copywriter, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &Copywriter{client: client, model: model, logger: logger.With("component", "ai")}, nil
}

func (c *Copywriter) Close() error {
	return c.client.Close()
}

// ProductDescription returns a draft description and the tokens it cost.
func (c *Copywriter) ProductDescription(ctx context.Context, p *models.Product, category, notes string) (string, int, error) {
	// 1. Configure the model
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.7)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}

	// 2. Ask for the copy
	res, err := model.GenerateContent(ctx, genai.Text(BuildDescriptionPrompt(p, category, notes)))
	if err != nil {
		return "", 0, fmt.Errorf("error generating description: %w", err)
	}

	// 3. Count tokens and pull out the text
	tokens := 0
	if res.UsageMetadata != nil {
		tokens = int(res.UsageMetadata.TotalTokenCount)
	}
	text := extractText(res)
	if text == "" {
		return "", tokens, ErrEmptyResponse
	}
	c.logger.Info("product description generated", "product_id", p.ID, "tokens", tokens)
	return text, tokens, nil
}

const systemInstruction = `You write product copy for an online herbal store.
Rules: plain text, two short paragraphs, no medical claims, no prices, no markdown.`

// BuildDescriptionPrompt describes the product to the model.
func BuildDescriptionPrompt(p *models.Product, category, notes string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product name: %s\n", p.Name)
	if category != "" {
		fmt.Fprintf(&b, "Category: %s\n", category)
	}
	if d := strings.TrimSpace(p.Description); d != "" {
		fmt.Fprintf(&b, "Current description: %s\n", d)
	}
	if n := strings.TrimSpace(notes); n != "" {
		fmt.Fprintf(&b, "Notes from the merchant: %s\n", n)
	}
	b.WriteString("Write the product description.")
	return b.String()
}

func extractText(res *genai.GenerateContentResponse) string {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return ""
	}
	var parts []string
	for _, part := range res.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			parts = append(parts, string(t))
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}
