package classifier_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/classifier"
	"github.com/spec-kit/complaint-service/internal/domain"
)

type stubClassifier struct {
	priority domain.ComplaintPriority
	err      error
	calls    int
}

func (s *stubClassifier) Classify(ctx context.Context, title, description string) (domain.ComplaintPriority, error) {
	s.calls++
	return s.priority, s.err
}

// A nil client disables caching entirely and delegates straight through.
func TestCachedClassifier_DisabledDelegates(t *testing.T) {
	inner := &stubClassifier{priority: domain.PriorityHigh}
	cached := classifier.NewCachedClassifier(inner, nil, 0, zap.NewNop())

	priority, err := cached.Classify(context.Background(), "Outage", "Service down")

	assert.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, priority)
	assert.Equal(t, 1, inner.calls)

	_, err = cached.Classify(context.Background(), "Outage", "Service down")
	assert.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}
