package ports

import "github.com/arkade-os/ledgerkit/internal/core/domain"

// Telemetry records node activity.
type Telemetry interface {
	ObserveEvents(events []domain.Event)
	SetBlockHeight(height uint32)
}
