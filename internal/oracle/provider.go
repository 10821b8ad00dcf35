package oracle

import (
	"context"
	"fmt"
	"strings"

	"github.com/nmarceau/devine/internal/model"
)

// Answer sentinels. The oracle contract never raises past this boundary: the
// caller always receives text, and neither sentinel contains oui/non, so the
// normalizer classifies both as UNKNOWN.
const (
	SentinelUnsupported = "modèle non supporté"
	SentinelFault       = "Erreur de réponse"
)

// Provider answers one yes/no question about a subject. Implementations may
// fault; the Oracle wrapper absorbs that.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Answer returns the raw natural-language reply
	Answer(ctx context.Context, question string, profile model.SubjectProfile) (string, error)
}

// Oracle dispatches questions to the provider recorded in the session. It is
// total: unknown backends and provider faults both come back as sentinel text.
type Oracle struct {
	providers map[model.Backend]Provider
	replyCap  int
}

// New builds an oracle with both backend strategies wired: the generative
// chat-completion provider as primary and the heuristic stand-in as secondary.
func New(cfg model.OracleConfig, promptTemplate string) *Oracle {
	replyCap := cfg.ReplyCap
	if replyCap <= 0 {
		replyCap = 50
	}

	return &Oracle{
		providers: map[model.Backend]Provider{
			model.BackendPrimary:   newGenerativeProvider(cfg, promptTemplate),
			model.BackendSecondary: &heuristicProvider{},
		},
		replyCap: replyCap,
	}
}

// Ask consults the selected backend and returns its raw reply, capped to the
// configured prefix length as a defense against run-on generation.
func (o *Oracle) Ask(ctx context.Context, backend model.Backend, question string, profile model.SubjectProfile) string {
	provider, ok := o.providers[backend]
	if !ok {
		return SentinelUnsupported
	}

	raw, err := provider.Answer(ctx, question, profile)
	if err != nil {
		return SentinelFault
	}

	raw = strings.TrimSpace(raw)
	if runes := []rune(raw); len(runes) > o.replyCap {
		raw = string(runes[:o.replyCap])
	}
	return raw
}

// defaultPromptTemplate instructs strict oui/non/je-ne-sais-pas replies and
// forbids revealing the name. Compliance is probabilistic, which is why
// Normalize has to be defensive.
const defaultPromptTemplate = `
Rôle: Vous connaissez la célébrité suivante: %s
Informations: %s

Règles strictes:
1. Répondez uniquement par 'oui' ou 'non'
2. Ne révélez jamais le nom directement
3. Si incertain, répondez 'Je ne sais pas'

Question: %s
Réponse:
`

// BuildPrompt renders the oracle instructions for one question
func BuildPrompt(template string, question string, profile model.SubjectProfile) string {
	if template == "" {
		template = defaultPromptTemplate
	}

	name := profile.Name
	if name == "" {
		name = "Inconnu"
	}
	summary := profile.Summary
	if summary == "" {
		summary = "Aucune information"
	}

	return fmt.Sprintf(template, name, summary, question)
}
