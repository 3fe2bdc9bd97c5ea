package classifier_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/classifier"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
)

func TestNormalizePriority(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.ComplaintPriority
		ok   bool
	}{
		{"low", domain.PriorityLow, true},
		{"medium", domain.PriorityMedium, true},
		{"high", domain.PriorityHigh, true},
		{"critical", domain.PriorityCritical, true},
		{"CRITICAL ", domain.PriorityCritical, true},
		{"  High\n", domain.PriorityHigh, true},
		{"urgent", "", false},
		{"medium priority", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := classifier.NormalizePriority(tc.raw)
		assert.Equalf(t, tc.ok, ok, "NormalizePriority(%q)", tc.raw)
		if tc.ok {
			assert.Equal(t, tc.want, got)
		}
	}
}

func candidateResponse(text string) string {
	body, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"parts": []map[string]string{{"text": text}},
			},
		}},
	})
	return string(body)
}

func newGemini(baseURL string) *classifier.GeminiClassifier {
	cfg := config.ClassifierConfig{
		APIKey:         "test-key",
		Model:          "gemini-1.5-flash",
		BaseURL:        baseURL,
		TimeoutSeconds: 5,
	}
	return classifier.NewGeminiClassifier(cfg, zap.NewNop())
}

func TestGeminiClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-1.5-flash:generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		fmt.Fprint(w, candidateResponse("high"))
	}))
	defer srv.Close()

	priority, err := newGemini(srv.URL).Classify(context.Background(), "Outage", "Service is down")

	assert.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, priority)
}

func TestGeminiClassify_NormalizesCaseAndWhitespace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, candidateResponse(" Critical\n"))
	}))
	defer srv.Close()

	priority, err := newGemini(srv.URL).Classify(context.Background(), "Breach", "Data exposed")

	assert.NoError(t, err)
	assert.Equal(t, domain.PriorityCritical, priority)
}

func TestGeminiClassify_OutOfVocabularyErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, candidateResponse("somewhat important, I'd say"))
	}))
	defer srv.Close()

	_, err := newGemini(srv.URL).Classify(context.Background(), "Noise", "Loud fans")

	assert.Error(t, err)
}

func TestGeminiClassify_UpstreamErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newGemini(srv.URL).Classify(context.Background(), "Noise", "Loud fans")

	assert.Error(t, err)
}

func TestGeminiClassify_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[]}`)
	}))
	defer srv.Close()

	_, err := newGemini(srv.URL).Classify(context.Background(), "Noise", "Loud fans")

	assert.Error(t, err)
}

func TestGeminiClassify_MissingAPIKey(t *testing.T) {
	cfg := config.ClassifierConfig{Model: "gemini-1.5-flash", BaseURL: "http://unused", TimeoutSeconds: 5}
	_, err := classifier.NewGeminiClassifier(cfg, zap.NewNop()).Classify(context.Background(), "a", "b")

	assert.Error(t, err)
}
