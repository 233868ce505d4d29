package ai

import (
	"context"
	"encoding/json"
	"regexp"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/zapcampaign/zapcampaign/pkg/errors"
)

// jsonObjectPattern grabs the first {...} block so fenced or prefixed
// model output still parses.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// Client wraps a Gemini generative model for structured JSON prompts.
type Client struct {
	genai *genai.Client
	model *genai.GenerativeModel
	log   *logrus.Entry
}

// NewClient connects to Gemini with the given API key and model name.
func NewClient(ctx context.Context, apiKey, model string, log *logrus.Entry) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New(errors.KindValidation, "gemini api key is not configured")
	}
	gc, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, errors.Wrap(err, errors.KindInternal, "create gemini client")
	}
	return &Client{
		genai: gc,
		model: gc.GenerativeModel(model),
		log:   log,
	}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.genai.Close()
}

// GenerateJSON runs the prompt and unmarshals the model's JSON reply
// into out, tolerating markdown fences around the object.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, out any) error {
	text, err := c.generateText(ctx, prompt)
	if err != nil {
		return err
	}
	return decodeJSON(text, out)
}

func (c *Client) generateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", errors.Wrap(err, errors.KindInternal, "gemini generate content")
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New(errors.KindEmptyResult, "gemini returned no candidates")
	}
	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}
	return text, nil
}

func decodeJSON(text string, out any) error {
	raw := jsonObjectPattern.FindString(text)
	if raw == "" {
		raw = text
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return errors.Wrap(err, errors.KindInternal, "parse gemini JSON response")
	}
	return nil
}
