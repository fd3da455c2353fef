package receipt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/Aanshikesh/PennyPilot/internal/models"
)

const defaultModelName = "gemini-2.5-flash"

// Fields are the values extracted from a receipt image. Any field the model
// could not read is left at its zero value; an empty Fields is a valid result
// for an image that contains no readable receipt data.
type Fields struct {
	Amount       float64    `json:"amount,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	Description  string     `json:"description,omitempty"`
	Category     string     `json:"category,omitempty"`
	MerchantName string     `json:"merchantName,omitempty"`
}

// Scanner extracts transaction fields from a receipt image.
type Scanner interface {
	Scan(ctx context.Context, imageData []byte, mimeType string) (*Fields, error)
}

// GeminiScanner sends the receipt image to Gemini and parses the model's
// strict-JSON response. Extraction failures (model errors, unparseable
// output) are reported as models.ErrExtractionFailed so the handler can map
// them to a client error rather than a server fault.
type GeminiScanner struct {
	client *genai.Client
	model  string
}

func NewGeminiScanner(ctx context.Context) (*GeminiScanner, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiScanner{client: client, model: defaultModelName}, nil
}

const scanPrompt = "You are a receipt parser.\n\n" +
	"Task:\n" +
	"- Read the attached receipt image and extract the fields below.\n" +
	"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
	"- Output a single JSON object.\n\n" +
	"The object may have these fields (omit any you cannot determine):\n" +
	"- \"amount\": number, the receipt total\n" +
	"- \"date\": string, ISO format \"YYYY-MM-DD\"\n" +
	"- \"description\": string, a short summary of the purchase\n" +
	"- \"category\": string, a spending category such as \"groceries\" or \"dining\"\n" +
	"- \"merchantName\": string\n\n" +
	"If the image is not a receipt or nothing is readable, return {}.\n" +
	"Return ONLY valid raw JSON.\n" +
	"Do NOT wrap the response in code fences.\n" +
	"Do NOT use ```json or any Markdown.\n" +
	"Output must begin with \"{\" and end with \"}\".\n"

func (s *GeminiScanner) Scan(ctx context.Context, imageData []byte, mimeType string) (*Fields, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: scanPrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     imageData,
					},
				},
			},
		},
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: generate content: %v", models.ErrExtractionFailed, err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("%w: empty response from model", models.ErrExtractionFailed)
	}
	return parseReceiptFields(rawText)
}

// parseReceiptFields decodes the model's response into Fields. Kept separate
// from Scan so the parsing path is testable without a live model.
func parseReceiptFields(raw string) (*Fields, error) {
	clean := cleanModelJSON(raw)

	var payload struct {
		Amount       float64 `json:"amount"`
		Date         string  `json:"date"`
		Description  string  `json:"description"`
		Category     string  `json:"category"`
		MerchantName string  `json:"merchantName"`
	}
	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		return nil, fmt.Errorf("%w: unmarshal response: %v", models.ErrExtractionFailed, err)
	}

	fields := &Fields{
		Amount:       payload.Amount,
		Description:  payload.Description,
		Category:     payload.Category,
		MerchantName: payload.MerchantName,
	}
	if payload.Date != "" {
		d, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: bad date %q", models.ErrExtractionFailed, payload.Date)
		}
		fields.Date = &d
	}
	return fields, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk if the model
// ignored the formatting instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// Keep only from the first '{' to the last '}' if there's extra text.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}
