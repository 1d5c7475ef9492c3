package ports

import (
	"context"

	"github.com/arkade-os/ledgerkit/internal/core/domain"
)

type RepoManager interface {
	Events() domain.EventRepository
	Coins() domain.CoinRepository
	// Compact reclaims space of the underlying coin store.
	Compact(ctx context.Context) error
	Close()
}
