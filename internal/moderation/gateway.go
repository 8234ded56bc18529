package moderation

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const moderationModel = "gemini-2.0-flash"

// ErrUnavailable is returned when no provider client is configured. Callers
// decide the failure policy: listing moderation fails open, ID verification
// fails closed.
var ErrUnavailable = errors.New("moderation provider unavailable")

// Verdict is the classifier's answer for a piece of marketplace content.
type Verdict struct {
	Safe        bool   `json:"safe"`
	Reason      string `json:"reason"`
	DetectedPII bool   `json:"detected_pii"`
	IsBot       bool   `json:"is_bot"`
}

// IDCheck is the provider's judgement of an uploaded ID card image.
type IDCheck struct {
	IsIDCard   bool    `json:"is_id_card"`
	Confidence float64 `json:"confidence"`
}

// Gateway wraps the Gemini client behind the three operations the
// marketplace needs. All methods return explicit errors; no failure policy
// is buried here.
type Gateway struct {
	client *genai.Client
}

// New builds a gateway. An empty API key yields a gateway whose methods
// return ErrUnavailable.
func New(ctx context.Context, apiKey string) (*Gateway, error) {
	if apiKey == "" {
		return &Gateway{}, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &Gateway{client: client}, nil
}

// Moderate classifies listing content. The prompt and response schema follow
// the marketplace policy: PII, scams, inappropriate content, bot patterns.
func (g *Gateway) Moderate(ctx context.Context, content string) (Verdict, error) {
	if g.client == nil {
		return Verdict{}, ErrUnavailable
	}

	prompt := fmt.Sprintf(`Analyze the following content for a marketplace app called Huslr.
Check for:
1. Personal information (phone numbers, email addresses, physical addresses).
2. Scams, fraudulent offers, or suspicious "get rich quick" schemes.
3. Inappropriate, offensive, or illegal content.
4. Bot-like behavior (repetitive patterns, nonsensical text).

Content: %q`, content)

	temperature := float32(0.2)
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"safe":         {Type: genai.TypeBoolean},
				"reason":       {Type: genai.TypeString},
				"detected_pii": {Type: genai.TypeBoolean},
				"is_bot":       {Type: genai.TypeBoolean},
			},
			Required: []string{"safe", "reason", "detected_pii", "is_bot"},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, moderationModel, genai.Text(prompt), config)
	if err != nil {
		return Verdict{}, fmt.Errorf("moderation request: %w", err)
	}

	var verdict Verdict
	if err := json.Unmarshal([]byte(ExtractJSON(collectPartsText(resp))), &verdict); err != nil {
		return Verdict{}, fmt.Errorf("parsing moderation response: %w", err)
	}
	return verdict, nil
}

// VerifyIDImage asks the provider whether the uploaded image is a government
// ID card. The input may carry a data-URL header, which is stripped.
func (g *Gateway) VerifyIDImage(ctx context.Context, imageBase64 string) (IDCheck, error) {
	if g.client == nil {
		return IDCheck{}, ErrUnavailable
	}

	raw := imageBase64
	if idx := strings.LastIndex(raw, ","); idx >= 0 {
		raw = raw[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return IDCheck{}, fmt.Errorf("decoding image: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText("Analyze this image. Is it a government-issued ID card? Check for the characteristic layout, official seals, and identification number format (even if blurred). Return JSON."),
			genai.NewPartFromBytes(data, "image/jpeg"),
		}, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"is_id_card": {Type: genai.TypeBoolean},
				"confidence": {Type: genai.TypeNumber},
			},
			Required: []string{"is_id_card", "confidence"},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, moderationModel, contents, config)
	if err != nil {
		return IDCheck{}, fmt.Errorf("verification request: %w", err)
	}

	var check IDCheck
	if err := json.Unmarshal([]byte(ExtractJSON(collectPartsText(resp))), &check); err != nil {
		return IDCheck{}, fmt.Errorf("parsing verification response: %w", err)
	}
	return check, nil
}

const assistantInstruction = "You are the Huslr AI Assistant. Huslr is a local marketplace for tasks (services) and rentals. Key info: 5% commission on transactions, users must be verified, payments are in Rupees (₹). Be helpful, concise, and professional."

// Chat answers a help-assistant question in the marketplace persona.
func (g *Gateway) Chat(ctx context.Context, message string) (string, error) {
	if g.client == nil {
		return "", ErrUnavailable
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(assistantInstruction, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, moderationModel, genai.Text(message), config)
	if err != nil {
		return "", fmt.Errorf("assistant request: %w", err)
	}

	reply := collectPartsText(resp)
	if reply == "" {
		return "", errors.New("empty assistant response")
	}
	return reply, nil
}

// collectPartsText concatenates text parts from a response.
func collectPartsText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}
