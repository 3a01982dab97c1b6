package app

import (
	"context"
	"fmt"

	"github.com/smith3v/trade-prompts/pkg/catalog"
	"github.com/smith3v/trade-prompts/pkg/config"
	"github.com/smith3v/trade-prompts/pkg/db"
	"github.com/smith3v/trade-prompts/pkg/logger"
	"github.com/smith3v/trade-prompts/pkg/slot"
)

// Open wires the local slot, the catalog store and, when enabled, the remote
// database described by cfg. The returned close function releases the slot.
func Open(ctx context.Context, cfg config.Config) (*Service, func() error, error) {
	local, err := slot.Open(ctx, cfg.Local, cfg.Logging.GormLevel)
	if err != nil {
		return nil, nil, err
	}

	store, err := catalog.NewStore(ctx, catalog.NewSlotRepository(local))
	if err != nil {
		local.Close()
		return nil, nil, err
	}

	opts := Options{
		OwnerID:           cfg.Catalog.OwnerID,
		DefaultInstrument: cfg.Catalog.DefaultInstrument,
	}
	if cfg.Database.Enabled {
		if err := db.InitDB(cfg.Database, cfg.Logging.GormLevel); err != nil {
			local.Close()
			return nil, nil, fmt.Errorf("%w: %w", db.ErrRemote, err)
		}
		opts.Remote = db.NewRemote(db.DB)
		logger.Info("remote store enabled", "driver", cfg.Database.Driver)
	}

	logger.Info("catalog ready", "backend", cfg.Local.Backend, "owner", cfg.Catalog.OwnerID)
	return NewService(store, opts), local.Close, nil
}
