package api

import (
	"context"

	"github.com/vytor/flashstudy/internal/metrics"
	"github.com/vytor/flashstudy/internal/services"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires the HTTP surface to the services.
type Server struct {
	AuthService        services.AuthService
	CardService        services.CardService
	QuizService        services.QuizService
	StatsService       services.StatsService
	ProfileService     services.ProfileService
	LeaderboardService services.LeaderboardService

	Metrics *metrics.Metrics
	DB      Pinger

	// LoginRatePerMinute bounds /login and /register per client. Zero
	// disables the limit.
	LoginRatePerMinute int
}
