package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/Domenick1991/guestportal/config"
	"google.golang.org/genai"
)

var (
	ErrNotConfigured = errors.New("AI email generation is not configured")
	ErrEmptyResponse = errors.New("empty response from model")
)

// ConfirmationInput describes the booking the email is written for. RoomType
// holds every booked room type joined with ", ".
type ConfirmationInput struct {
	HotelName       string `json:"hotelName"`
	GuestFirstName  string `json:"guestFirstName"`
	GuestLastName   string `json:"guestLastName"`
	CheckInDate     string `json:"checkInDate"`
	CheckOutDate    string `json:"checkOutDate"`
	RoomType        string `json:"roomType"`
	BookingID       string `json:"bookingId"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

type ConfirmationEmail struct {
	Subject string `json:"emailSubject"`
	Body    string `json:"emailBody"`
}

// ContentGenerator is the part of the Gemini client the generator needs.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Generator struct {
	models      ContentGenerator
	model       string
	temperature float32
}

var confirmationPrompt = template.Must(template.New("confirmation").Parse(`You are an AI assistant specialized in generating personalized booking confirmation emails for hotels.

Based on the following booking details, create a confirmation email with a warm and welcoming tone.
Include a subject line and the email body in HTML format.

Booking Details:
Hotel Name: {{.HotelName}}
Guest Name: {{.GuestFirstName}} {{.GuestLastName}}
Check-in Date: {{.CheckInDate}}
Check-out Date: {{.CheckOutDate}}
Room Type: {{.RoomType}}
Booking ID: {{.BookingID}}
Special Requests: {{if .SpecialRequests}}{{.SpecialRequests}}{{else}}none{{end}}

Email should include:
- A thank you message for choosing the hotel.
- Booking details summary.
- Information about hotel amenities.
- Contact information for any inquiries.
- A friendly and professional closing.

Return ONLY valid JSON in this format:
{"emailSubject": string, "emailBody": string}
`))

// NewGenerator creates a Gemini backed generator. It returns
// ErrNotConfigured when no API key is set.
func NewGenerator(ctx context.Context, cfg config.AIConfig) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return NewGeneratorWithModels(client.Models, cfg.Model, cfg.Temperature), nil
}

func NewGeneratorWithModels(models ContentGenerator, model string, temperature float32) *Generator {
	return &Generator{models: models, model: model, temperature: temperature}
}

// GenerateConfirmation asks the model for one confirmation email. There is no
// retry; callers decide what a failure means.
func (g *Generator) GenerateConfirmation(ctx context.Context, input ConfirmationInput) (*ConfirmationEmail, error) {
	var prompt bytes.Buffer
	if err := confirmationPrompt.Execute(&prompt, input); err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	cfg := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	if g.temperature > 0 {
		cfg.Temperature = genai.Ptr(g.temperature)
	}

	result, err := g.models.GenerateContent(ctx, g.model, []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt.String()}}},
	}, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate confirmation email: %w", err)
	}

	text := responseText(result)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	var out ConfirmationEmail
	if err := json.Unmarshal([]byte(extractJSONFromMarkdown(text)), &out); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	if out.Subject == "" || out.Body == "" {
		return nil, ErrEmptyResponse
	}
	return &out, nil
}

func responseText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}

// extractJSONFromMarkdown strips a surrounding ``` or ```json fence.
func extractJSONFromMarkdown(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") {
		return text
	}

	text = strings.TrimSuffix(text, "```")
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	return strings.TrimSpace(text)
}
