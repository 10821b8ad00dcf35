package subject

import (
	"context"
	"math/rand"

	"github.com/nmarceau/devine/internal/model"
	"github.com/nmarceau/devine/internal/wiki"
)

// Source is the knowledge-base contract the picker draws from.
// Implemented by *wiki.Client.
type Source interface {
	CategoryMembers(ctx context.Context, title string) ([]wiki.Member, error)
	PageProfile(ctx context.Context, title string) (model.SubjectProfile, error)
}

// Picker selects random subjects from a category hierarchy and resolves
// their profiles.
type Picker struct {
	source     Source
	summaryCap int

	// Overridable for deterministic tests
	intn func(n int) int
}

// NewPicker creates a picker over the given knowledge base. summaryCap bounds
// profile summaries in characters; <=0 means the default of 2000.
func NewPicker(source Source, summaryCap int) *Picker {
	if summaryCap <= 0 {
		summaryCap = 2000
	}
	return &Picker{
		source:     source,
		summaryCap: summaryCap,
		intn:       rand.Intn,
	}
}

// SelectRandomSubject draws one leaf subject uniformly from the category and
// its sub-categories, descending at most maxDepth levels below it (0 = direct
// leaves only). An unknown category, an empty pool, or any lookup fault along
// the way yields model.ErrNotFound: traversal is fail-closed, a partial pool
// gathered before a fault is never drawn from.
func (p *Picker) SelectRandomSubject(ctx context.Context, category string, maxDepth int) (string, error) {
	visited := map[string]bool{}
	pool, err := p.collect(ctx, category, maxDepth, visited)
	if err != nil {
		return "", model.ErrNotFound
	}
	if len(pool) == 0 {
		return "", model.ErrNotFound
	}
	return pool[p.intn(len(pool))], nil
}

// collect gathers leaf members of a category, recursing into sub-categories
// while depth budget remains. Revisited categories stop the descent rather
// than erroring, so a cyclic hierarchy still terminates.
func (p *Picker) collect(ctx context.Context, category string, depth int, visited map[string]bool) ([]string, error) {
	if visited[category] {
		return nil, nil
	}
	visited[category] = true

	members, err := p.source.CategoryMembers(ctx, category)
	if err != nil {
		return nil, err
	}

	var pool []string
	for _, m := range members {
		switch {
		case m.IsCategory():
			if depth > 0 {
				sub, err := p.collect(ctx, m.Title, depth-1, visited)
				if err != nil {
					return nil, err
				}
				pool = append(pool, sub...)
			}
		case m.Namespace == wiki.NamespaceArticle:
			pool = append(pool, m.Title)
		}
	}

	return pool, nil
}

// LoadProfile resolves a drawn subject into its session profile, capping the
// summary length. A subject whose page cannot be resolved (stale listing,
// deleted page) yields model.ErrNotFound.
func (p *Picker) LoadProfile(ctx context.Context, name string) (model.SubjectProfile, error) {
	profile, err := p.source.PageProfile(ctx, name)
	if err != nil {
		return model.SubjectProfile{}, model.ErrNotFound
	}

	if runes := []rune(profile.Summary); len(runes) > p.summaryCap {
		profile.Summary = string(runes[:p.summaryCap])
	}

	return profile, nil
}
