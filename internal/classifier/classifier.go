package classifier

import (
	"context"
	"strings"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// PriorityClassifier rates a complaint's urgency from its text. Implementations
// may fail; callers absorb any failure into the medium default rather than
// failing the enclosing request.
type PriorityClassifier interface {
	Classify(ctx context.Context, title, description string) (domain.ComplaintPriority, error)
}

// NormalizePriority maps a raw classifier response onto the priority
// vocabulary. Responses arrive with arbitrary casing and whitespace.
func NormalizePriority(raw string) (domain.ComplaintPriority, bool) {
	p := domain.ComplaintPriority(strings.ToLower(strings.TrimSpace(raw)))
	if domain.ValidPriority(p) {
		return p, true
	}
	return "", false
}
