package service

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rdfz3d/campus-api/internal/core/domain"
	"github.com/rdfz3d/campus-api/internal/core/ports"
)

type stubServerRepo struct {
	mu      sync.Mutex
	nextID  int64
	servers map[int64]*domain.GameServer
}

func newStubServerRepo() *stubServerRepo {
	return &stubServerRepo{nextID: 1, servers: make(map[int64]*domain.GameServer)}
}

func cloneServer(s *domain.GameServer) *domain.GameServer {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

func (r *stubServerRepo) FindByID(_ context.Context, id int64) (*domain.GameServer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneServer(r.servers[id]), nil
}

func (r *stubServerRepo) List(_ context.Context, skip, limit int64) ([]*domain.GameServer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.GameServer, 0, len(r.servers))
	for id := int64(1); id < r.nextID; id++ {
		if s, ok := r.servers[id]; ok {
			out = append(out, cloneServer(s))
		}
	}
	if skip >= int64(len(out)) {
		return nil, nil
	}
	out = out[skip:]
	if limit > 0 && limit < int64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubServerRepo) Create(_ context.Context, server *domain.GameServer) (*domain.GameServer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.servers {
		if s.Name == server.Name {
			return nil, &domain.ServerExistsError{Field: "name"}
		}
		if s.Address == server.Address {
			return nil, &domain.ServerExistsError{Field: "address"}
		}
	}
	created := cloneServer(server)
	created.ID = r.nextID
	r.nextID++
	r.servers[created.ID] = cloneServer(created)
	return created, nil
}

func (r *stubServerRepo) Update(_ context.Context, id int64, update domain.GameServerUpdate) (*domain.GameServer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.servers[id]
	if !ok {
		return nil, domain.ErrServerNotFound
	}
	if update.Name != nil {
		s.Name = *update.Name
	}
	if update.Address != nil {
		s.Address = *update.Address
	}
	if update.Description != nil {
		s.Description = *update.Description
	}
	if update.Detail != nil {
		s.Detail = *update.Detail
	}
	if update.ReporterHost != nil {
		s.ReporterHost = *update.ReporterHost
	}
	return cloneServer(s), nil
}

func newGameServerFixture(t *testing.T) (*GameServerService, *stubServerRepo, *StatusTracker) {
	t.Helper()
	repo := newStubServerRepo()
	tracker := NewStatusTracker(0)
	svc := NewGameServerService(repo, tracker, zerolog.Nop())
	return svc, repo, tracker
}

func admin() *domain.Account {
	return &domain.Account{ID: "01H000000000000000000ADMIN", Username: "admin", IsActive: true, IsVerified: true}
}

func TestReport_AdmissionChecks(t *testing.T) {
	svc, _, tracker := newGameServerFixture(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, admin(), ports.CreateGameServerInput{
		Name: "lobby", Address: "play.example.com", ReporterHost: "10.0.0.5",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := view.Server.ID
	status := domain.ServerStatus{State: domain.StateRunning, PlayerCount: 3}

	if err := svc.Report(ctx, 999, "Rdfz3D HTTP Client/1.0", "10.0.0.5", status); err != domain.ErrServerNotFound {
		t.Fatalf("unknown server: expected ErrServerNotFound, got %v", err)
	}
	if err := svc.Report(ctx, id, "curl/8.0", "10.0.0.5", status); err != domain.ErrReporterUnauthorized {
		t.Fatalf("bad agent: expected ErrReporterUnauthorized, got %v", err)
	}
	if err := svc.Report(ctx, id, "Rdfz3D HTTP Client/1.0", "10.9.9.9", status); err != domain.ErrReporterHostMismatch {
		t.Fatalf("bad host: expected ErrReporterHostMismatch, got %v", err)
	}

	if err := svc.Report(ctx, id, "Rdfz3D HTTP Client/1.0", "10.0.0.5", status); err != nil {
		t.Fatalf("Report: %v", err)
	}
	if got := tracker.Status(id); got.State != domain.StateRunning || got.PlayerCount != 3 {
		t.Fatalf("report did not reach the tracker: %+v", got)
	}
}

func TestGet_AttachesLiveStatusAndHidesReporterHost(t *testing.T) {
	svc, _, tracker := newGameServerFixture(t)
	ctx := context.Background()
	owner := admin()

	view, err := svc.Create(ctx, owner, ports.CreateGameServerInput{
		Name: "survival", Address: "s.example.com", ReporterHost: "10.0.0.6",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := view.Server.ID
	tracker.Report(id, domain.ServerStatus{State: domain.StateActivity, PlayerCount: 12})

	// Anonymous reader: status visible, reporter host hidden.
	got, err := svc.Get(ctx, nil, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status.State != domain.StateActivity || got.Status.PlayerCount != 12 {
		t.Fatalf("expected live status, got %+v", got.Status)
	}
	if got.ReporterHost != "" {
		t.Fatalf("reporter host must be hidden from anonymous readers")
	}

	// Owning admin sees the reporter host.
	got, err = svc.Get(ctx, owner, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ReporterHost != "10.0.0.6" {
		t.Fatalf("owner should see reporter host, got %q", got.ReporterHost)
	}

	// Superuser sees it too.
	su := &domain.Account{ID: "01H00000000000000000000SUP", IsSuperuser: true}
	got, err = svc.Get(ctx, su, id)
	if err != nil || got.ReporterHost != "10.0.0.6" {
		t.Fatalf("superuser should see reporter host, got %q (%v)", got.ReporterHost, err)
	}
}

func TestUpdate_RequiresOwnerOrSuperuser(t *testing.T) {
	svc, _, _ := newGameServerFixture(t)
	ctx := context.Background()
	owner := admin()

	view, err := svc.Create(ctx, owner, ports.CreateGameServerInput{
		Name: "creative", Address: "c.example.com", ReporterHost: "10.0.0.7",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	stranger := &domain.Account{ID: "01H0000000000000000STRANGE", IsActive: true}
	desc := "new description"
	if _, err := svc.Update(ctx, stranger, view.Server.ID, domain.GameServerUpdate{Description: &desc}); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	updated, err := svc.Update(ctx, owner, view.Server.ID, domain.GameServerUpdate{Description: &desc})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Server.Description != desc {
		t.Fatalf("description not updated: %q", updated.Server.Description)
	}
}
