// Package ai wraps the Gemini vision API for the case wizard's tooth
// detection step.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/dentiq/dentiq/pkg/smile"
)

// ToothDetector locates tooth bounding boxes on a clinical photo.
type ToothDetector interface {
	DetectTeeth(ctx context.Context, imageData []byte, mimeType string) ([]smile.ToothBox, error)
}

const detectPrompt = `You are analyzing a frontal dental photograph.
Detect every visible anterior tooth and return ONLY a JSON array of bounding
boxes, one object per tooth, with fields "x", "y", "width", "height" as
percentages (0-100) of the image dimensions, where x and y are the box
center. No prose, no markdown.`

const detectAttempts = 3

type GeminiDetector struct {
	client    *genai.Client
	modelName string
}

// NewGeminiDetector creates a detector backed by the Gemini API.
func NewGeminiDetector(ctx context.Context, apiKey, modelName string) (*GeminiDetector, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiDetector{client: client, modelName: modelName}, nil
}

func (g *GeminiDetector) Close() error {
	return g.client.Close()
}

// DetectTeeth sends the photo to Gemini and parses the reply into tooth
// boxes. Transient API failures are retried with backoff; a reply that does
// not parse as bounding boxes is retried too, since the model occasionally
// wraps the JSON in prose.
func (g *GeminiDetector) DetectTeeth(ctx context.Context, imageData []byte, mimeType string) ([]smile.ToothBox, error) {
	format := strings.TrimPrefix(mimeType, "image/")
	model := g.client.GenerativeModel(g.modelName)

	boxes, err := retry.DoWithData(
		func() ([]smile.ToothBox, error) {
			res, err := model.GenerateContent(ctx, genai.Text(detectPrompt), genai.ImageData(format, imageData))
			if err != nil {
				return nil, err
			}
			if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
				return nil, errors.New("empty response from model")
			}
			text, ok := res.Candidates[0].Content.Parts[0].(genai.Text)
			if !ok {
				return nil, errors.New("unexpected response part type")
			}
			return ParseToothBoxes(string(text))
		},
		retry.Context(ctx),
		retry.Attempts(detectAttempts),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("detect teeth: %w", err)
	}
	return boxes, nil
}

// ParseToothBoxes extracts a JSON array of bounding boxes from model output,
// tolerating markdown code fences and surrounding prose.
func ParseToothBoxes(text string) ([]smile.ToothBox, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in model output")
	}

	var boxes []smile.ToothBox
	if err := json.Unmarshal([]byte(text[start:end+1]), &boxes); err != nil {
		return nil, fmt.Errorf("parse bounding boxes: %w", err)
	}

	for _, b := range boxes {
		if b.X < 0 || b.X > 100 || b.Y < 0 || b.Y > 100 || b.Width < 0 || b.Height < 0 {
			return nil, fmt.Errorf("bounding box out of range: %+v", b)
		}
	}
	return boxes, nil
}
