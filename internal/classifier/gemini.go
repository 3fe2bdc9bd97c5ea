package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
)

const promptTemplate = `Analyze the following customer complaint and rate its urgency/priority.
You must respond with EXACTLY ONE WORD from this list: low, medium, high, critical.
Do not include any other text, punctuation, formatting, or explanation.

Title: %s
Description: %s`

// GeminiClassifier calls the Gemini generateContent endpoint to rate urgency.
type GeminiClassifier struct {
	cfg    config.ClassifierConfig
	client *http.Client
	logger *zap.Logger
}

// NewGeminiClassifier constructs the classifier with the configured deadline.
// A hang in the external call would otherwise stall complaint creation.
func NewGeminiClassifier(cfg config.ClassifierConfig, logger *zap.Logger) *GeminiClassifier {
	return &GeminiClassifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
		logger: logger,
	}
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Classify asks the model for a single-word priority rating. Out-of-vocabulary
// responses are reported as errors so callers apply the medium default.
func (g *GeminiClassifier) Classify(ctx context.Context, title, description string) (domain.ComplaintPriority, error) {
	if g.cfg.APIKey == "" {
		return "", fmt.Errorf("classifier API key not configured")
	}

	payload := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: fmt.Sprintf(promptTemplate, title, description)}}}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal classifier request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout())
	defer cancel()

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.cfg.BaseURL, g.cfg.Model, g.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("classifier request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var parsed generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode classifier response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("classifier returned no candidates")
	}

	raw := parsed.Candidates[0].Content.Parts[0].Text
	priority, ok := NormalizePriority(raw)
	if !ok {
		g.logger.Warn("unexpected classifier response", zap.String("response", raw))
		return "", fmt.Errorf("classifier response %q outside vocabulary", raw)
	}
	return priority, nil
}
