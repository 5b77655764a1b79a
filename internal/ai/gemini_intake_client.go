package ai

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"google.golang.org/genai"
)

type IntakeClient struct {
	model      string
	httpClient *http.Client
}

func NewIntakeClient(httpClient *http.Client) *IntakeClient {
	model := os.Getenv("GEMINI_INTAKE_MODEL")
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &IntakeClient{model: model, httpClient: httpClient}
}

// Parse sends the guest's free-text query to Gemini and returns the
// structured intake fields.
func (c *IntakeClient) Parse(ctx context.Context, query string) (*IntakeFields, error) {
	start := time.Now()
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		log.Printf("[intake] stage=client_init err=%v", err)
		return nil, err
	}

	prompt := `You turn a free-text space rental query into structured fields.
Return ONLY a JSON object, no prose, no code fence, with these keys:
spaceType (string), purpose (string), capacity (integer, 0 if unknown),
location (string), date (string, YYYY-MM-DD or empty), timeSlot (string).
Use empty strings for anything the query does not say.`

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromText(fmt.Sprintf("Query: %s", query)),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	temp := float32(0)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	res, err := client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		log.Printf("[intake] stage=gemini_fail model=%s err=%v", c.model, err)
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	rawText := res.Text()
	fields, err := ParseIntake(rawText)
	if err != nil {
		log.Printf("[intake] stage=parse_fail len=%d err=%v", len(rawText), err)
		return nil, err
	}
	log.Printf("[intake] stage=parse_ok model=%s totalMs=%d", c.model, time.Since(start).Milliseconds())
	return fields, nil
}
