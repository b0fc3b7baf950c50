package ports

import (
	"context"

	"github.com/rdfz3d/campus-api/internal/core/domain"
)

// GameServerRepository defines persistence for the game-server directory.
// FindByID returns (nil, nil) when the server does not exist.
type GameServerRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.GameServer, error)
	List(ctx context.Context, skip, limit int64) ([]*domain.GameServer, error)
	Create(ctx context.Context, server *domain.GameServer) (*domain.GameServer, error)
	Update(ctx context.Context, id int64, update domain.GameServerUpdate) (*domain.GameServer, error)
}
