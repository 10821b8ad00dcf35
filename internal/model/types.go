package model

// SubjectProfile is the resolved record for the celebrity the player must guess.
// Built once at session start and immutable for the session's lifetime.
type SubjectProfile struct {
	Name    string `json:"name"`    // Canonical page title
	Summary string `json:"summary"` // Lead extract, capped at Config.Game.SummaryCap
	URL     string `json:"url"`     // Canonical page URL, shown on forfeit
}

// AnswerLabel is the bounded alphabet every oracle reply is normalized into
type AnswerLabel string

const (
	AnswerAffirm  AnswerLabel = "affirm"  // Reply contained "oui"
	AnswerDeny    AnswerLabel = "deny"    // Reply contained "non"
	AnswerUnknown AnswerLabel = "unknown" // Anything else, including error sentinels
)

// Backend selects the oracle strategy for a session
type Backend string

const (
	BackendPrimary   Backend = "primary"   // Generative chat-completion backend
	BackendSecondary Backend = "secondary" // Heuristic keyword stand-in
)

// ParseBackend maps a user-facing selector to a Backend. Unrecognized values
// pass through so the oracle factory can degrade to its sentinel provider
// instead of failing (spec'd behavior: unsupported models answer, not error).
func ParseBackend(s string) Backend {
	switch s {
	case "primary", "openai", "gemini":
		return BackendPrimary
	case "secondary", "heuristic", "claude":
		return BackendSecondary
	default:
		return Backend(s)
	}
}

// TranscriptEntry is one question/answer pair as shown to the player.
// The transcript is append-only and chronological.
type TranscriptEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Session is the state of one game. It is a value threaded through the game
// entry points and returned; the caller owns storage between calls. A nil
// *Session means no game is active.
type Session struct {
	Profile    SubjectProfile    `json:"profile"`
	Backend    Backend           `json:"backend"`
	Transcript []TranscriptEntry `json:"transcript"`
}
