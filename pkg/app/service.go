// Package app runs catalog commands against the local store and mirrors the
// results to the remote tables when a remote is configured.
package app

import (
	"context"
	"errors"

	"github.com/smith3v/trade-prompts/pkg/catalog"
	"github.com/smith3v/trade-prompts/pkg/clipboard"
	"github.com/smith3v/trade-prompts/pkg/db"
	"github.com/smith3v/trade-prompts/pkg/instrument"
	"github.com/smith3v/trade-prompts/pkg/logger"
)

type Options struct {
	// Remote is nil when the remote store is disabled.
	Remote            *db.Remote
	OwnerID           string
	DefaultInstrument string
}

// Service is the single entry point used by every surface. The local store
// is the source of truth. A remote failure is returned wrapped in
// db.ErrRemote after the local change has been committed.
type Service struct {
	store      *catalog.Store
	remote     *db.Remote
	owner      string
	instrument string
}

func NewService(store *catalog.Store, opts Options) *Service {
	return &Service{
		store:      store,
		remote:     opts.Remote,
		owner:      opts.OwnerID,
		instrument: instrument.OrDefault(opts.DefaultInstrument),
	}
}

func (s *Service) Store() *catalog.Store {
	return s.store
}

// DefaultInstrument is the instrument used when a caller has none selected.
func (s *Service) DefaultInstrument() string {
	return s.instrument
}

func (s *Service) RemoteEnabled() bool {
	return s.remote != nil
}

// ownerID prefers the signed-in account over the configured owner.
func (s *Service) ownerID(ctx context.Context) string {
	if s.remote != nil {
		if user, err := s.remote.CurrentUser(ctx); err == nil {
			return user.ID
		}
	}
	return s.owner
}

func (s *Service) Visible(view catalog.View) []catalog.Entry {
	if view.Instrument == "" {
		view.Instrument = s.instrument
	}
	return s.store.Visible(view)
}

func (s *Service) Counts() catalog.Counts {
	return s.store.Counts()
}

func (s *Service) ToggleFavorite(ctx context.Context, ref catalog.PromptRef) (catalog.Prompt, error) {
	prompt, err := s.store.ToggleFavorite(ctx, ref)
	if err != nil {
		return prompt, err
	}
	return prompt, s.mirrorPrompt(ctx, prompt)
}

func (s *Service) CreatePrompt(ctx context.Context, fields catalog.PromptFields) (catalog.Prompt, error) {
	prompt, err := s.store.CreatePrompt(ctx, fields)
	if err != nil {
		return prompt, err
	}
	return prompt, s.mirrorPrompt(ctx, prompt)
}

func (s *Service) UpdatePrompt(ctx context.Context, id int, fields catalog.PromptFields) (catalog.Prompt, error) {
	prompt, err := s.store.UpdatePrompt(ctx, id, fields)
	if err != nil {
		return prompt, err
	}
	return prompt, s.mirrorPrompt(ctx, prompt)
}

func (s *Service) DeletePrompt(ctx context.Context, id int) (bool, error) {
	deleted, err := s.store.DeletePrompt(ctx, id)
	if err != nil || !deleted || s.remote == nil {
		return deleted, err
	}
	remote, err := s.remote.FindPromptByLocalID(ctx, s.ownerID(ctx), id)
	if errors.Is(err, db.ErrRemoteNotFound) {
		return true, nil
	}
	if err != nil {
		return true, err
	}
	return true, s.remote.DeletePrompt(ctx, remote.ID)
}

func (s *Service) AddSuggested(ctx context.Context, suggestedID int) (catalog.Prompt, error) {
	prompt, err := s.store.AddSuggested(ctx, suggestedID)
	if err != nil {
		return prompt, err
	}
	return prompt, s.mirrorPrompt(ctx, prompt)
}

// CopyPrompt renders the prompt into w. Counted copies bump the remote usage
// counter and are recorded in the remote history.
func (s *Service) CopyPrompt(ctx context.Context, ref catalog.PromptRef, symbol string, w clipboard.Writer) (catalog.CopyResult, error) {
	if symbol == "" {
		symbol = s.instrument
	}
	result, err := s.store.CopyPrompt(ctx, ref, symbol, w)
	if err != nil || !result.Counted || s.remote == nil {
		return result, err
	}

	owner := s.ownerID(ctx)
	remote, err := s.remote.FindPromptByLocalID(ctx, owner, result.Prompt.ID)
	switch {
	case errors.Is(err, db.ErrRemoteNotFound):
		remote, err = s.remote.InsertPrompt(ctx, toUserPrompt(owner, result.Prompt, symbol))
		if err != nil {
			return result, err
		}
	case err != nil:
		return result, err
	default:
		if _, err := s.remote.IncrementUsage(ctx, remote.ID); err != nil {
			return result, err
		}
	}
	_, err = s.remote.AddHistory(ctx, db.PromptHistory{
		UserID:         owner,
		PromptID:       remote.ID,
		InstrumentUsed: symbol,
	})
	return result, err
}

// ImportPrompts adds the batch locally and pushes the whole collection to the
// remote.
func (s *Service) ImportPrompts(ctx context.Context, batch []catalog.PromptFields) (imported, skipped int, err error) {
	imported, skipped, err = s.store.ImportPrompts(ctx, batch)
	if err != nil || imported == 0 {
		return imported, skipped, err
	}
	return imported, skipped, s.SyncPrompts(ctx)
}

// SyncPrompts upserts every owned prompt into the remote table.
func (s *Service) SyncPrompts(ctx context.Context) error {
	if s.remote == nil {
		return nil
	}
	var errs []error
	for _, prompt := range s.store.Prompts() {
		if err := s.mirrorPrompt(ctx, prompt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Service) mirrorPrompt(ctx context.Context, prompt catalog.Prompt) error {
	if s.remote == nil {
		return nil
	}
	owner := s.ownerID(ctx)
	remote, err := s.remote.FindPromptByLocalID(ctx, owner, prompt.ID)
	if errors.Is(err, db.ErrRemoteNotFound) {
		_, err = s.remote.InsertPrompt(ctx, toUserPrompt(owner, prompt, s.instrument))
		return err
	}
	if err != nil {
		return err
	}
	_, err = s.remote.UpdatePrompt(ctx, remote.ID, toPromptUpdate(prompt))
	if err == nil {
		logger.Debug("prompt mirrored", "id", prompt.ID, "remote_id", remote.ID)
	}
	return err
}

func toUserPrompt(owner string, prompt catalog.Prompt, symbol string) db.UserPrompt {
	return db.UserPrompt{
		UserID:      owner,
		LocalID:     prompt.ID,
		SuggestedID: prompt.SuggestedID,
		Title:       prompt.Title,
		PromptText:  prompt.Description,
		Instrument:  symbol,
		Category:    prompt.Category,
		Tags:        append([]string{}, prompt.Tags...),
		UsageCount:  prompt.UsageCount,
		IsFavorite:  prompt.IsFavorite,
	}
}

func toPromptUpdate(prompt catalog.Prompt) db.PromptUpdate {
	return db.PromptUpdate{
		Title:      &prompt.Title,
		PromptText: &prompt.Description,
		Category:   &prompt.Category,
		Tags:       append([]string{}, prompt.Tags...),
		SetTags:    true,
		IsFavorite: &prompt.IsFavorite,
		UsageCount: &prompt.UsageCount,
	}
}
