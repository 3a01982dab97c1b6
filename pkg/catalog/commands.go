package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/smith3v/trade-prompts/pkg/clipboard"
	"github.com/smith3v/trade-prompts/pkg/instrument"
	"github.com/smith3v/trade-prompts/pkg/logger"
)

func validatePrompt(fields PromptFields) error {
	if strings.TrimSpace(fields.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(fields.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	return nil
}

func category(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultCategory
	}
	return value
}

// ToggleFavorite flips the favorite flag of an owned prompt. For a suggested
// template it flips the owned copy, creating a favorite copy when none
// exists yet. The record that changed is returned.
func (s *Store) ToggleFavorite(ctx context.Context, ref PromptRef) (Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prompts := clonePrompts(s.prompts)
	seq := s.seq
	today := s.today()

	idx := -1
	switch ref.Source {
	case SourceSuggested:
		sIdx := s.suggestedIndexOf(ref.ID)
		if sIdx < 0 {
			return Prompt{}, fmt.Errorf("suggested prompt %d: %w", ref.ID, ErrNotFound)
		}
		suggested := s.suggested[sIdx]
		idx = s.shadowIndex(prompts, suggested)
		if idx < 0 {
			adopted := s.adopt(suggested, prompts, seq, true)
			seq = adopted.ID
			prompts = append(prompts, adopted)
			if err := s.commitPrompts(ctx, prompts, seq); err != nil {
				return Prompt{}, err
			}
			logger.Info("suggested prompt added as favorite", "suggested_id", suggested.ID, "id", adopted.ID)
			return adopted.clone(), nil
		}
	default:
		idx = s.indexOf(ref.ID)
		if idx < 0 {
			return Prompt{}, fmt.Errorf("prompt %d: %w", ref.ID, ErrNotFound)
		}
	}

	prompts[idx].IsFavorite = !prompts[idx].IsFavorite
	prompts[idx].UpdatedAt = today
	if err := s.commitPrompts(ctx, prompts, seq); err != nil {
		return Prompt{}, err
	}
	logger.Debug("prompt favorite toggled", "id", prompts[idx].ID, "favorite", prompts[idx].IsFavorite)
	return prompts[idx].clone(), nil
}

// adopt builds the owned copy of a suggested template with a fresh id.
func (s *Store) adopt(suggested Prompt, prompts []Prompt, seq int, favorite bool) Prompt {
	today := s.today()
	adopted := suggested.clone()
	adopted.ID = s.nextID(prompts, seq)
	adopted.SuggestedID = suggested.ID
	adopted.IsFavorite = favorite
	adopted.UsageCount = 0
	adopted.CreatedAt = today
	adopted.UpdatedAt = today
	return adopted
}

// CreatePrompt appends a new owned prompt.
func (s *Store) CreatePrompt(ctx context.Context, fields PromptFields) (Prompt, error) {
	if err := validatePrompt(fields); err != nil {
		return Prompt{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	prompts := clonePrompts(s.prompts)
	prompt := Prompt{
		ID:          s.nextID(prompts, s.seq),
		Title:       strings.TrimSpace(fields.Title),
		Category:    category(fields.Category),
		Description: strings.TrimSpace(fields.Description),
		Tags:        ParseTags(fields.Tags),
		CreatedAt:   today,
		UpdatedAt:   today,
	}
	prompts = append(prompts, prompt)
	if err := s.commitPrompts(ctx, prompts, prompt.ID); err != nil {
		return Prompt{}, err
	}
	logger.Info("prompt created", "id", prompt.ID, "title", prompt.Title)
	return prompt.clone(), nil
}

// UpdatePrompt replaces the editable fields of an owned prompt. Identity,
// creation date, favorite flag and usage are kept.
func (s *Store) UpdatePrompt(ctx context.Context, id int, fields PromptFields) (Prompt, error) {
	if err := validatePrompt(fields); err != nil {
		return Prompt{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Prompt{}, fmt.Errorf("prompt %d: %w", id, ErrNotFound)
	}
	prompts := clonePrompts(s.prompts)
	p := &prompts[idx]
	p.Title = strings.TrimSpace(fields.Title)
	p.Category = category(fields.Category)
	p.Description = strings.TrimSpace(fields.Description)
	p.Tags = ParseTags(fields.Tags)
	p.UpdatedAt = s.today()
	if err := s.commitPrompts(ctx, prompts, s.seq); err != nil {
		return Prompt{}, err
	}
	logger.Info("prompt updated", "id", id)
	return p.clone(), nil
}

// DeletePrompt removes an owned prompt. It reports false, without error, when
// no prompt has that id.
func (s *Store) DeletePrompt(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	prompts := make([]Prompt, 0, len(s.prompts)-1)
	prompts = append(prompts, clonePrompts(s.prompts[:idx])...)
	prompts = append(prompts, clonePrompts(s.prompts[idx+1:])...)
	if err := s.commitPrompts(ctx, prompts, s.seq); err != nil {
		return false, err
	}
	logger.Info("prompt deleted", "id", id)
	return true, nil
}

type CopyResult struct {
	Text   string
	Prompt Prompt
	// Counted is set when the copy bumped an owned prompt's usage.
	Counted bool
}

// CopyPrompt renders the prompt for symbol and hands it to w. Clipboard
// failures are logged and do not fail the copy. Only owned prompts track
// usage.
func (s *Store) CopyPrompt(ctx context.Context, ref PromptRef, symbol string, w clipboard.Writer) (CopyResult, error) {
	source, ok := s.Lookup(ref)
	if !ok {
		return CopyResult{}, fmt.Errorf("%s prompt %d: %w", ref.Source, ref.ID, ErrNotFound)
	}

	result := CopyResult{
		Text:   instrument.Render(source.Description, instrument.OrDefault(symbol)),
		Prompt: source,
	}
	if w != nil {
		if err := w.WriteText(ctx, result.Text); err != nil {
			logger.Warn("failed to write prompt to clipboard", "id", ref.ID, "error", err)
		}
	}
	if ref.Source == SourceSuggested {
		return result, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(ref.ID)
	if idx < 0 {
		// Deleted while the clipboard was written.
		return result, nil
	}
	prompts := clonePrompts(s.prompts)
	prompts[idx].UsageCount++
	prompts[idx].UpdatedAt = s.today()
	if err := s.commitPrompts(ctx, prompts, s.seq); err != nil {
		return result, err
	}
	result.Prompt = prompts[idx].clone()
	result.Counted = true
	logger.Debug("prompt copied", "id", ref.ID, "usage", prompts[idx].UsageCount)
	return result, nil
}

// AddSuggested adopts a suggested template into the owned collection.
func (s *Store) AddSuggested(ctx context.Context, suggestedID int) (Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sIdx := s.suggestedIndexOf(suggestedID)
	if sIdx < 0 {
		return Prompt{}, fmt.Errorf("suggested prompt %d: %w", suggestedID, ErrNotFound)
	}
	suggested := s.suggested[sIdx]
	if s.shadowIndex(s.prompts, suggested) >= 0 {
		return Prompt{}, fmt.Errorf("%q: %w", suggested.Title, ErrDuplicate)
	}

	prompts := clonePrompts(s.prompts)
	adopted := s.adopt(suggested, prompts, s.seq, false)
	prompts = append(prompts, adopted)
	if err := s.commitPrompts(ctx, prompts, adopted.ID); err != nil {
		return Prompt{}, err
	}
	logger.Info("suggested prompt added", "suggested_id", suggestedID, "id", adopted.ID)
	return adopted.clone(), nil
}

// AdoptionState reports how a suggested template relates to the owned
// collection.
func (s *Store) AdoptionState(suggestedID int) AdoptionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	sIdx := s.suggestedIndexOf(suggestedID)
	if sIdx < 0 {
		return NotAdopted
	}
	idx := s.shadowIndex(s.prompts, s.suggested[sIdx])
	switch {
	case idx < 0:
		return NotAdopted
	case s.prompts[idx].IsFavorite:
		return AdoptedFavorite
	default:
		return AdoptedNotFavorite
	}
}

// ImportPrompts appends every valid prompt whose title is not taken yet, in
// a single write.
func (s *Store) ImportPrompts(ctx context.Context, batch []PromptFields) (imported, skipped int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	prompts := clonePrompts(s.prompts)
	seq := s.seq
	titles := make(map[string]struct{}, len(prompts))
	for _, p := range prompts {
		titles[p.Title] = struct{}{}
	}

	for _, fields := range batch {
		title := strings.TrimSpace(fields.Title)
		if validatePrompt(fields) != nil {
			skipped++
			continue
		}
		if _, ok := titles[title]; ok {
			skipped++
			continue
		}
		seq = s.nextID(prompts, seq)
		prompts = append(prompts, Prompt{
			ID:          seq,
			Title:       title,
			Category:    category(fields.Category),
			Description: strings.TrimSpace(fields.Description),
			Tags:        ParseTags(fields.Tags),
			CreatedAt:   today,
			UpdatedAt:   today,
		})
		titles[title] = struct{}{}
		imported++
	}

	if imported == 0 {
		return 0, skipped, nil
	}
	if err := s.commitPrompts(ctx, prompts, seq); err != nil {
		return 0, len(batch), err
	}
	logger.Info("prompts imported", "imported", imported, "skipped", skipped)
	return imported, skipped, nil
}
