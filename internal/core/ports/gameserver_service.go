package ports

import (
	"context"

	"github.com/rdfz3d/campus-api/internal/core/domain"
)

// CreateGameServerInput carries the fields for a new game-server entry.
type CreateGameServerInput struct {
	Name         string
	Address      string
	Description  string
	Detail       string
	ReporterHost string
}

// GameServerView is a directory entry joined with its live status. Admin-only
// fields (reporter host) are populated only when the reader is privileged.
type GameServerView struct {
	Server       *domain.GameServer
	Status       domain.ServerStatus
	ReporterHost string
}

// GameServerService manages the game-server directory and admits status
// reports into the liveness tracker.
type GameServerService interface {
	Create(ctx context.Context, creator *domain.Account, input CreateGameServerInput) (*GameServerView, error)
	List(ctx context.Context, reader *domain.Account, skip, limit int64) ([]*GameServerView, error)
	Get(ctx context.Context, reader *domain.Account, id int64) (*GameServerView, error)
	Update(ctx context.Context, actor *domain.Account, id int64, update domain.GameServerUpdate) (*GameServerView, error)

	// Report admits a status report pushed by a game server. The caller's
	// user agent and remote host are checked against the admission rules
	// before the report reaches the tracker.
	Report(ctx context.Context, id int64, userAgent, remoteHost string, status domain.ServerStatus) error
}
