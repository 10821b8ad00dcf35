package model

import (
	"errors"
	"time"
)

// ErrNotFound is returned when the category, subject, or candidate pool cannot
// be resolved. Adapter transport faults are absorbed and reported as this too:
// the game core never sees a raw fault (fail-closed).
var ErrNotFound = errors.New("not found")

// Config is the full runtime configuration
type Config struct {
	Wiki   WikiConfig   `yaml:"wiki"`
	Oracle OracleConfig `yaml:"oracle"`
	Game   GameConfig   `yaml:"game"`
	Cache  CacheConfig  `yaml:"cache"`
}

// WikiConfig configures the knowledge-base client
type WikiConfig struct {
	// Language selects the wiki instance, e.g. "fr" -> fr.wikipedia.org
	Language string `yaml:"language"`

	// BaseURL overrides the API endpoint (tests, mirrors). Empty = derive from Language.
	BaseURL string `yaml:"base_url,omitempty"`

	UserAgent    string        `yaml:"user_agent"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`

	// RequestsPerSecond throttles API calls; CheckRobots gates them on robots.txt
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	RobotsCheck       bool    `yaml:"robots_check"`
}

// OracleConfig configures the question-answering backends
type OracleConfig struct {
	// Backend: "primary" (generative) or "secondary" (heuristic stand-in)
	Backend string `yaml:"backend"`

	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`

	Timeout time.Duration `yaml:"timeout"`

	// ReplyCap bounds the raw reply prefix the normalizer inspects
	ReplyCap int `yaml:"reply_cap"`
}

// GameConfig configures subject selection and session behavior
type GameConfig struct {
	// Category is the root of the candidate pool
	Category string `yaml:"category"`

	// MaxDepth bounds the category descent; 0 = direct leaves only
	MaxDepth int `yaml:"max_depth"`

	// SummaryCap hard-caps the profile summary length in characters
	SummaryCap int `yaml:"summary_cap"`

	// PromptTemplate overrides the built-in oracle instructions (fmt template
	// with name, summary, question). Empty = default.
	PromptTemplate string `yaml:"prompt_template,omitempty"`
}

// CacheConfig configures the wiki response cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// DefaultConfig returns sensible defaults matching the original game
func DefaultConfig() Config {
	return Config{
		Wiki: WikiConfig{
			Language:          "fr",
			UserAgent:         "Devine/0.1 (+https://github.com/nmarceau/devine)",
			Timeout:           30 * time.Second,
			MaxBodyBytes:      2_000_000,
			RequestsPerSecond: 5,
			RobotsCheck:       true,
		},
		Oracle: OracleConfig{
			Backend:  "primary",
			Model:    "gpt-4o-mini",
			Timeout:  30 * time.Second,
			ReplyCap: 50,
		},
		Game: GameConfig{
			Category:   "Catégorie:Personnalité masculine",
			MaxDepth:   1,
			SummaryCap: 2000,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     15 * time.Minute,
		},
	}
}
