package game

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/nmarceau/devine/internal/model"
	"github.com/nmarceau/devine/internal/oracle"
)

// User-visible transcript text
const (
	NoSessionNotice    = "⚠️ Commencez une nouvelle partie d'abord !"
	StartFailureNotice = "❌ Impossible de démarrer une nouvelle partie"

	// SystemSpeaker marks transcript entries produced by the game itself
	// rather than by a player question
	SystemSpeaker = "Système"

	forfeitQuestion = "J'abandonne"

	renderedAffirm  = "✅ OUI"
	renderedDeny    = "❌ NON"
	renderedUnknown = "🤷 Je ne peux pas répondre"
)

// Picker draws a subject and resolves its profile (implemented by
// *subject.Picker)
type Picker interface {
	SelectRandomSubject(ctx context.Context, category string, maxDepth int) (string, error)
	LoadProfile(ctx context.Context, name string) (model.SubjectProfile, error)
}

// Asker consults the backend recorded in the session (implemented by
// *oracle.Oracle). Always returns text, never faults.
type Asker interface {
	Ask(ctx context.Context, backend model.Backend, question string, profile model.SubjectProfile) string
}

// Game sequences subject selection, question handling, and forfeits. It holds
// no session state of its own: the session value is threaded through every
// entry point and returned, and the caller stores it between calls. A nil
// *model.Session means no game is active.
type Game struct {
	picker Picker
	oracle Asker
}

// New creates a game over the given collaborators
func New(picker Picker, oracle Asker) *Game {
	return &Game{
		picker: picker,
		oracle: oracle,
	}
}

// Start draws a random subject from the category and opens a fresh session
// with an empty transcript and the chosen backend recorded. A failed draw or
// a drawn subject whose profile cannot be resolved both yield
// model.ErrNotFound without retrying another candidate.
func (g *Game) Start(ctx context.Context, category string, maxDepth int, backend model.Backend) (*model.Session, error) {
	name, err := g.picker.SelectRandomSubject(ctx, category, maxDepth)
	if err != nil {
		return nil, model.ErrNotFound
	}

	profile, err := g.picker.LoadProfile(ctx, name)
	if err != nil {
		return nil, model.ErrNotFound
	}

	return &model.Session{
		Profile: profile,
		Backend: backend,
	}, nil
}

// HandleQuestion advances the session by one player question and returns the
// next session value (nil once the game ends) plus the transcript entries the
// front-end should render. Order matters: guard, input normalization, direct
// name match, then oracle consultation.
func (g *Game) HandleQuestion(ctx context.Context, s *model.Session, raw string) (*model.Session, []model.TranscriptEntry) {
	if s == nil {
		return nil, []model.TranscriptEntry{{Question: SystemSpeaker, Answer: NoSessionNotice}}
	}

	clean := normalizeQuestion(raw)
	if clean == "" {
		// Not counted as a turn
		return s, nil
	}

	// A question naming the subject wins immediately and never reaches the
	// oracle, which could otherwise contradict the match.
	if s.Profile.Name != "" && strings.Contains(clean, strings.ToLower(s.Profile.Name)) {
		entry := model.TranscriptEntry{
			Question: raw,
			Answer:   fmt.Sprintf("🎉 Bravo ! Vous avez trouvé : %s", s.Profile.Name),
		}
		s.Transcript = append(s.Transcript, entry)
		return nil, []model.TranscriptEntry{entry}
	}

	rawAnswer := g.oracle.Ask(ctx, s.Backend, clean, s.Profile)
	entry := model.TranscriptEntry{
		Question: raw,
		Answer:   renderLabel(oracle.Normalize(rawAnswer)),
	}
	s.Transcript = append(s.Transcript, entry)
	return s, []model.TranscriptEntry{entry}
}

// Forfeit reveals the subject and ends the session unconditionally. Calling
// it without an active session is a no-op, any number of times.
func (g *Game) Forfeit(s *model.Session) (*model.Session, []model.TranscriptEntry) {
	if s == nil {
		return nil, nil
	}

	entry := model.TranscriptEntry{
		Question: forfeitQuestion,
		Answer:   fmt.Sprintf("🔍 La réponse était : %s\n🌐 %s", s.Profile.Name, s.Profile.URL),
	}
	s.Transcript = append(s.Transcript, entry)
	return nil, []model.TranscriptEntry{entry}
}

var punctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)

// normalizeQuestion strips punctuation, collapses whitespace, and lower-cases
func normalizeQuestion(raw string) string {
	cleaned := punctuation.ReplaceAllString(raw, "")
	return strings.ToLower(strings.Join(strings.Fields(cleaned), " "))
}

func renderLabel(label model.AnswerLabel) string {
	switch label {
	case model.AnswerAffirm:
		return renderedAffirm
	case model.AnswerDeny:
		return renderedDeny
	default:
		return renderedUnknown
	}
}
