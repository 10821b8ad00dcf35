package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nmarceau/devine/internal/game"
	"github.com/nmarceau/devine/internal/model"
	"github.com/nmarceau/devine/internal/oracle"
	"github.com/nmarceau/devine/internal/subject"
	"github.com/nmarceau/devine/internal/wiki"
	"github.com/spf13/cobra"
)

var (
	category    string
	maxDepth    int
	backendName string
	language    string
	oracleModel string
	oracleURL   string
	wikiTimeout time.Duration
	noCache     bool
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start an interactive game",
	Long: `Play starts a game session: a celebrity is drawn at random from the
configured Wikipedia category and you ask yes/no questions to find them.

During play:
  /reveal  give up and reveal the answer
  /new     abandon the current game and draw a new celebrity
  /quit    exit

Example:
  devine play
  devine play --category "Catégorie:Acteur français" --depth 2
  devine play --backend secondary`,
	Args: cobra.ExactArgs(0),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	// Subject selection flags
	playCmd.Flags().StringVar(&category, "category", "", "root category of the candidate pool (default from config)")
	playCmd.Flags().IntVar(&maxDepth, "depth", -1, "category traversal depth bound, 0 = direct members only (default from config)")
	playCmd.Flags().StringVar(&language, "lang", "", "wiki language, e.g. fr, en (default from config)")

	// Oracle flags
	playCmd.Flags().StringVar(&backendName, "backend", "", "oracle backend (primary, secondary)")
	playCmd.Flags().StringVar(&oracleModel, "model", "", "generative oracle model name")
	playCmd.Flags().StringVar(&oracleURL, "oracle-url", "", "OpenAI-compatible endpoint override")

	// HTTP flags
	playCmd.Flags().DurationVar(&wikiTimeout, "timeout", 0, "wiki request timeout")
	playCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable wiki response cache")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg := model.DefaultConfig()

	// Flags override defaults
	if category != "" {
		cfg.Game.Category = category
	}
	if maxDepth >= 0 {
		cfg.Game.MaxDepth = maxDepth
	}
	if language != "" {
		cfg.Wiki.Language = language
	}
	if backendName != "" {
		cfg.Oracle.Backend = backendName
	}
	if oracleModel != "" {
		cfg.Oracle.Model = oracleModel
	}
	if oracleURL != "" {
		cfg.Oracle.BaseURL = oracleURL
	}
	if wikiTimeout > 0 {
		cfg.Wiki.Timeout = wikiTimeout
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	backend := model.ParseBackend(cfg.Oracle.Backend)
	if backend == model.BackendPrimary {
		cfg.Oracle.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Oracle.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set (or use --backend secondary)")
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Category: %s (depth %d)\n", cfg.Game.Category, cfg.Game.MaxDepth)
		fmt.Fprintf(os.Stderr, "Wiki: %s\n", cfg.Wiki.Language)
		fmt.Fprintf(os.Stderr, "Backend: %s\n", backend)
		fmt.Fprintln(os.Stderr)
	}

	client := wiki.NewClient(cfg.Wiki, cfg.Cache)
	picker := subject.NewPicker(client, cfg.Game.SummaryCap)
	asker := oracle.New(cfg.Oracle, cfg.Game.PromptTemplate)
	g := game.New(picker, asker)

	ctx := cmd.Context()

	fmt.Println("🕵️ Devine la célébrité ! Posez vos questions (oui/non).")
	fmt.Println("Commandes : /reveal (abandonner), /new (nouvelle partie), /quit")
	fmt.Println()

	session := startSession(ctx, g, cfg, backend)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "/quit":
			return nil
		case "/new":
			// Starting a game always discards prior session state
			session = startSession(ctx, g, cfg, backend)
		case "/reveal":
			var delta []model.TranscriptEntry
			session, delta = g.Forfeit(session)
			if delta == nil {
				fmt.Println(game.NoSessionNotice)
			}
			render(delta)
		default:
			var delta []model.TranscriptEntry
			session, delta = g.HandleQuestion(ctx, session, line)
			render(delta)
			if session == nil && len(delta) > 0 && delta[0].Question != game.SystemSpeaker {
				fmt.Println("Tapez /new pour rejouer.")
			}
		}

		fmt.Print("> ")
	}

	return scanner.Err()
}

// startSession opens a session, reporting failure as a notice and an absent
// session rather than an error: the player can retry with /new.
func startSession(ctx context.Context, g *game.Game, cfg model.Config, backend model.Backend) *model.Session {
	session, err := g.Start(ctx, cfg.Game.Category, cfg.Game.MaxDepth, backend)
	if err != nil {
		fmt.Println(game.StartFailureNotice)
		return nil
	}
	fmt.Println("🚀 Nouvelle partie ! La célébrité est choisie.")
	return session
}

func render(delta []model.TranscriptEntry) {
	for _, entry := range delta {
		fmt.Println(entry.Answer)
	}
}
