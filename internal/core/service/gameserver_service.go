package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rdfz3d/campus-api/internal/core/domain"
	"github.com/rdfz3d/campus-api/internal/core/ports"
)

// ReporterAgentPrefix is the User-Agent prefix game-server clients identify
// themselves with when pushing status reports.
const ReporterAgentPrefix = "Rdfz3D HTTP Client"

// GameServerService manages the game-server directory and feeds admitted
// status reports into the liveness tracker.
type GameServerService struct {
	repo    ports.GameServerRepository
	tracker *StatusTracker
	log     zerolog.Logger
}

func NewGameServerService(repo ports.GameServerRepository, tracker *StatusTracker, log zerolog.Logger) *GameServerService {
	return &GameServerService{repo: repo, tracker: tracker, log: log}
}

// Create registers a new game server. The creator, when present, becomes its
// admin.
func (s *GameServerService) Create(ctx context.Context, creator *domain.Account, input ports.CreateGameServerInput) (*ports.GameServerView, error) {
	server := &domain.GameServer{
		Name:         input.Name,
		Address:      input.Address,
		Description:  input.Description,
		Detail:       input.Detail,
		ReporterHost: input.ReporterHost,
	}
	if creator != nil {
		server.AdminID = creator.ID
	}

	created, err := s.repo.Create(ctx, server)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("server_id", created.ID).Str("name", created.Name).Msg("game server registered")
	return s.view(created, creator), nil
}

// List returns directory entries with their live status attached.
func (s *GameServerService) List(ctx context.Context, reader *domain.Account, skip, limit int64) ([]*ports.GameServerView, error) {
	servers, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	views := make([]*ports.GameServerView, 0, len(servers))
	for _, server := range servers {
		views = append(views, s.view(server, reader))
	}
	return views, nil
}

// Get returns one directory entry with its live status.
func (s *GameServerService) Get(ctx context.Context, reader *domain.Account, id int64) (*ports.GameServerView, error) {
	server, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if server == nil {
		return nil, domain.ErrServerNotFound
	}
	return s.view(server, reader), nil
}

// Update mutates a directory entry. Only the owning admin or a superuser may
// update a server.
func (s *GameServerService) Update(ctx context.Context, actor *domain.Account, id int64, update domain.GameServerUpdate) (*ports.GameServerView, error) {
	server, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if server == nil {
		return nil, domain.ErrServerNotFound
	}
	if actor == nil || (!actor.IsSuperuser && server.AdminID != actor.ID) {
		return nil, domain.ErrForbidden
	}

	updated, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("server_id", id).Msg("game server updated")
	return s.view(updated, actor), nil
}

// Report admits a status report. The pushing client must identify itself
// with the game-server User-Agent and call from the server's registered
// reporter host; admitted reports go straight into the tracker.
func (s *GameServerService) Report(ctx context.Context, id int64, userAgent, remoteHost string, status domain.ServerStatus) error {
	server, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if server == nil {
		return domain.ErrServerNotFound
	}
	if !strings.HasPrefix(userAgent, ReporterAgentPrefix) {
		return domain.ErrReporterUnauthorized
	}
	if remoteHost != server.ReporterHost {
		return domain.ErrReporterHostMismatch
	}
	if !status.State.Valid() {
		status.State = domain.StateStopped
	}

	s.tracker.Report(id, status)
	s.log.Debug().Int64("server_id", id).Str("state", string(status.State)).Int("players", status.PlayerCount).Msg("status report")
	return nil
}

// view joins a directory entry with its live status; the reporter host is
// disclosed only to superusers and the owning admin.
func (s *GameServerService) view(server *domain.GameServer, reader *domain.Account) *ports.GameServerView {
	v := &ports.GameServerView{
		Server: server,
		Status: s.tracker.Status(server.ID),
	}
	if reader != nil && (reader.IsSuperuser || (server.AdminID != "" && server.AdminID == reader.ID)) {
		v.ReporterHost = server.ReporterHost
	}
	return v
}
