package http

import (
	"time"

	"github.com/samirrijal/siara/internal/core/ports"
	"github.com/samirrijal/siara/internal/core/usecases"
)

// Dependencies holds all services needed by the bridge handlers.
type Dependencies struct {
	Reports *usecases.ReportService
	Picks   ports.PickStore

	// CollaboratorTimeout bounds report store reads per feed request.
	// Zero means no extra bound beyond the request itself.
	CollaboratorTimeout time.Duration

	// ExposeMetrics mounts GET /metrics.
	ExposeMetrics bool
}
