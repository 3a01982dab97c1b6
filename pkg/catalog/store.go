package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/smith3v/trade-prompts/pkg/logger"
)

// Store owns the in-memory collections. Every command persists the whole
// changed collection before committing it, so a failed write leaves the
// store as it was.
type Store struct {
	mu        sync.Mutex
	repo      Repository
	now       func() time.Time
	sanitizer *bluemonday.Policy

	prompts   []Prompt
	suggested []Prompt
	topics    []Topic
	seq       int
}

type Option func(*Store)

// WithClock replaces time.Now for dates and topic ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithSuggested replaces the built-in suggested templates.
func WithSuggested(prompts []Prompt) Option {
	return func(s *Store) {
		s.suggested = clonePrompts(prompts)
	}
}

// NewStore loads the collections from repo, falling back to the seed data
// for anything missing or unreadable.
func NewStore(ctx context.Context, repo Repository, opts ...Option) (*Store, error) {
	s := &Store{
		repo:      repo,
		now:       time.Now,
		sanitizer: bluemonday.UGCPolicy(),
		suggested: SeedSuggested(),
	}
	for _, opt := range opts {
		opt(s)
	}

	snap, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	if snap.HasPrompts {
		s.prompts = normalizePrompts(snap.Prompts)
	} else {
		logger.Info("using seed prompts")
		s.prompts = SeedPrompts()
	}
	if snap.HasTopics {
		s.topics = make([]Topic, 0, len(snap.Topics))
		for _, topic := range snap.Topics {
			topic.Content = s.sanitizer.Sanitize(topic.Content)
			s.topics = append(s.topics, topic)
		}
	} else {
		logger.Info("using seed education topics")
		s.topics = SeedTopics()
	}
	s.seq = max(snap.Sequence, maxPromptID(s.prompts))

	logger.Debug("catalog loaded", "prompts", len(s.prompts), "topics", len(s.topics), "sequence", s.seq)
	return s, nil
}

func normalizePrompts(prompts []Prompt) []Prompt {
	out := make([]Prompt, 0, len(prompts))
	for _, p := range prompts {
		if p.Tags == nil {
			p.Tags = []string{}
		}
		out = append(out, p)
	}
	return out
}

func maxPromptID(prompts []Prompt) int {
	highest := 0
	for _, p := range prompts {
		highest = max(highest, p.ID)
	}
	return highest
}

func clonePrompts(prompts []Prompt) []Prompt {
	out := make([]Prompt, len(prompts))
	for i, p := range prompts {
		out[i] = p.clone()
	}
	return out
}

func (s *Store) today() string {
	return formatDate(s.now())
}

// Prompts returns a copy of the owned collection in stored order.
func (s *Store) Prompts() []Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePrompts(s.prompts)
}

// SuggestedPrompts returns a copy of the suggested templates.
func (s *Store) SuggestedPrompts() []Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePrompts(s.suggested)
}

func (s *Store) Prompt(id int) (Prompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return Prompt{}, false
	}
	return s.prompts[idx].clone(), true
}

func (s *Store) SuggestedPrompt(id int) (Prompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.suggestedIndexOf(id)
	if idx < 0 {
		return Prompt{}, false
	}
	return s.suggested[idx].clone(), true
}

// Lookup resolves ref in its identity space.
func (s *Store) Lookup(ref PromptRef) (Prompt, bool) {
	if ref.Source == SourceSuggested {
		return s.SuggestedPrompt(ref.ID)
	}
	return s.Prompt(ref.ID)
}

func (s *Store) indexOf(id int) int {
	for i, p := range s.prompts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) suggestedIndexOf(id int) int {
	for i, p := range s.suggested {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// shadowIndex finds the owned copy of a suggested template. An explicit link
// wins, then the first owned record with the same title.
func (s *Store) shadowIndex(prompts []Prompt, suggested Prompt) int {
	for i, p := range prompts {
		if p.SuggestedID == suggested.ID {
			return i
		}
	}
	for i, p := range prompts {
		if p.Title == suggested.Title {
			return i
		}
	}
	return -1
}

// nextID reserves an id above every id ever issued.
func (s *Store) nextID(prompts []Prompt, seq int) int {
	return max(seq, maxPromptID(prompts)) + 1
}

func (s *Store) commitPrompts(ctx context.Context, prompts []Prompt, seq int) error {
	if err := s.repo.SavePrompts(ctx, prompts, seq); err != nil {
		logger.Error("failed to persist prompts", "error", err)
		return err
	}
	s.prompts = prompts
	s.seq = seq
	return nil
}

func (s *Store) commitTopics(ctx context.Context, topics []Topic) error {
	if err := s.repo.SaveTopics(ctx, topics); err != nil {
		logger.Error("failed to persist topics", "error", err)
		return err
	}
	s.topics = topics
	return nil
}
