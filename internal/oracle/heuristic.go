package oracle

import (
	"context"
	"strings"

	"github.com/nmarceau/devine/internal/model"
)

// heuristicProvider is a trivial keyword stand-in used when the generative
// backend is unselected or unavailable. It never faults.
type heuristicProvider struct{}

// Name returns the provider name
func (p *heuristicProvider) Name() string {
	return "heuristic"
}

// Answer affirms questions about men, denies everything else
func (p *heuristicProvider) Answer(_ context.Context, question string, _ model.SubjectProfile) (string, error) {
	if strings.Contains(strings.ToLower(question), "homme") {
		return "oui", nil
	}
	return "non", nil
}
