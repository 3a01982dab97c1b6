package catalog

import (
	"strings"

	"github.com/smith3v/trade-prompts/pkg/instrument"
)

type Category string

const (
	CategoryMine      Category = "my-prompts"
	CategoryFavorites Category = "favorites"
	CategorySuggested Category = "suggested"
	CategoryEducation Category = "education"
)

// Categories lists the selectable categories in display order.
var Categories = []Category{CategoryMine, CategoryFavorites, CategorySuggested, CategoryEducation}

// ParseCategory maps user input to a category, reporting false for unknown
// values.
func ParseCategory(value string) (Category, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, c := range Categories {
		if string(c) == value {
			return c, true
		}
	}
	return CategoryMine, false
}

// View is the user's current selection.
type View struct {
	Category   Category
	Search     string
	Instrument string
	Topic      string
}

// Entry is one visible prompt rendered for the selected instrument.
type Entry struct {
	Prompt Prompt
	Ref    PromptRef
	Title  string
	Text   string
	// Adopted is the owned copy of a suggested template, if one exists.
	Adopted *Prompt
}

// CanAdd reports whether the entry offers "add to mine".
func (e Entry) CanAdd() bool {
	return e.Ref.Source == SourceSuggested && e.Adopted == nil
}

// Target is the record favorite, edit and delete act on.
func (e Entry) Target() PromptRef {
	if e.Adopted != nil {
		return Owned(e.Adopted.ID)
	}
	return e.Ref
}

func (e Entry) IsFavorite() bool {
	if e.Ref.Source == SourceSuggested {
		return e.Adopted != nil && e.Adopted.IsFavorite
	}
	return e.Prompt.IsFavorite
}

// UsageCount is the usage of the record Target points at. Suggested
// templates without an owned copy report 0.
func (e Entry) UsageCount() int {
	if e.Adopted != nil {
		return e.Adopted.UsageCount
	}
	if e.Ref.Source == SourceSuggested {
		return 0
	}
	return e.Prompt.UsageCount
}

// Visible returns the prompts shown for view, in stored order.
func (s *Store) Visible(view View) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbol := instrument.OrDefault(view.Instrument)

	var base []Prompt
	source := SourceOwned
	switch view.Category {
	case CategoryFavorites:
		for _, p := range s.prompts {
			if p.IsFavorite {
				base = append(base, p)
			}
		}
	case CategorySuggested:
		base = s.suggested
		source = SourceSuggested
	default:
		base = s.prompts
	}

	entries := make([]Entry, 0, len(base))
	for _, p := range base {
		if !matchesSearch(p, view.Search) {
			continue
		}
		entry := Entry{
			Prompt: p.clone(),
			Ref:    PromptRef{Source: source, ID: p.ID},
			Title:  instrument.RenderTitle(p.Title, symbol),
			Text:   instrument.Render(p.Description, symbol),
		}
		if source == SourceSuggested {
			if idx := s.shadowIndex(s.prompts, p); idx >= 0 {
				adopted := s.prompts[idx].clone()
				entry.Adopted = &adopted
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

func matchesSearch(p Prompt, search string) bool {
	if search == "" {
		return true
	}
	term := strings.ToLower(search)
	if strings.Contains(strings.ToLower(p.Title), term) || strings.Contains(strings.ToLower(p.Description), term) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// Counts holds the badge number of every category.
type Counts struct {
	Mine      int
	Favorites int
	Suggested int
	Education int
}

func (c Counts) For(category Category) int {
	switch category {
	case CategoryFavorites:
		return c.Favorites
	case CategorySuggested:
		return c.Suggested
	case CategoryEducation:
		return c.Education
	default:
		return c.Mine
	}
}

func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := Counts{
		Mine:      len(s.prompts),
		Suggested: len(s.suggested),
		Education: len(s.topics),
	}
	for _, p := range s.prompts {
		if p.IsFavorite {
			c.Favorites++
		}
	}
	return c
}

// Available is the number of prompts visible for view.
func (s *Store) Available(view View) int {
	return len(s.Visible(view))
}
