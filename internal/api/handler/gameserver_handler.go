package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rdfz3d/campus-api/internal/api/metrics"
	"github.com/rdfz3d/campus-api/internal/core/domain"
	"github.com/rdfz3d/campus-api/internal/core/ports"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// GameServerHandler exposes the game-server directory and the status-report
// ingestion endpoint.
type GameServerHandler struct {
	servers ports.GameServerService
}

func NewGameServerHandler(servers ports.GameServerService) *GameServerHandler {
	return &GameServerHandler{servers: servers}
}

// Create handles POST /game-server. Requires a verified account; the creator
// becomes the server's admin.
func (h *GameServerHandler) Create(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req createServerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.servers.Create(c.Request().Context(), account, ports.CreateGameServerInput{
		Name:         req.Name,
		Address:      req.Address,
		Description:  req.Description,
		Detail:       req.Detail,
		ReporterHost: req.ReporterHost,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toServerResponse(view))
}

// List handles GET /game-server with skip/limit paging.
func (h *GameServerHandler) List(c echo.Context) error {
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	if skip < 0 {
		skip = 0
	}
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	views, err := h.servers.List(c.Request().Context(), optionalAccount(c), skip, limit)
	if err != nil {
		return err
	}

	resp := serverListResponse{Servers: make([]serverResponse, 0, len(views))}
	for _, view := range views {
		resp.Servers = append(resp.Servers, toServerResponse(view))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /game-server/:id.
func (h *GameServerHandler) Get(c echo.Context) error {
	id, err := serverID(c)
	if err != nil {
		return err
	}

	view, err := h.servers.Get(c.Request().Context(), optionalAccount(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toServerResponse(view))
}

// Update handles PATCH /game-server/:id. Restricted to the owning admin or a
// superuser; the service enforces that.
func (h *GameServerHandler) Update(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := serverID(c)
	if err != nil {
		return err
	}

	var req updateServerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	view, err := h.servers.Update(c.Request().Context(), account, id, domain.GameServerUpdate{
		Name:         req.Name,
		Address:      req.Address,
		Description:  req.Description,
		Detail:       req.Detail,
		ReporterHost: req.ReporterHost,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toServerResponse(view))
}

// Report handles POST /game-server/:id/report — status pushes from the game
// servers themselves. Admission is by user agent and caller host, not by
// bearer token.
func (h *GameServerHandler) Report(c echo.Context) error {
	id, err := serverID(c)
	if err != nil {
		return err
	}

	var req statusReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	state := domain.ServerState(req.State)
	if !state.Valid() {
		state = domain.StateStopped
	}
	status := domain.ServerStatus{State: state, PlayerCount: req.PlayerCount}

	err = h.servers.Report(c.Request().Context(), id, c.Request().UserAgent(), c.RealIP(), status)
	if err != nil {
		metrics.StatusReportsTotal.WithLabelValues("rejected").Inc()
		return err
	}

	metrics.StatusReportsTotal.WithLabelValues(string(state)).Inc()
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "report accepted"})
}

func serverID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid server id")
	}
	return id, nil
}
