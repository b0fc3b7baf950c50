package handler

import (
	"time"

	"github.com/rdfz3d/campus-api/internal/core/domain"
	"github.com/rdfz3d/campus-api/internal/core/ports"
)

type createServerRequest struct {
	Name         string `json:"name"          validate:"required"`
	Address      string `json:"address"       validate:"required"`
	Description  string `json:"description"`
	Detail       string `json:"detail"`
	ReporterHost string `json:"reporter_host"`
}

type updateServerRequest struct {
	Name         *string `json:"name"`
	Address      *string `json:"address"`
	Description  *string `json:"description"`
	Detail       *string `json:"detail"`
	ReporterHost *string `json:"reporter_host"`
}

type statusReportRequest struct {
	State       string `json:"state"        validate:"required"`
	PlayerCount int    `json:"player_count" validate:"gte=0"`
}

type serverResponse struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	Address      string              `json:"address"`
	Description  string              `json:"description"`
	Detail       string              `json:"detail,omitempty"`
	Admin        string              `json:"admin,omitempty"`
	ReporterHost string              `json:"reporter_host,omitempty"`
	Status       domain.ServerStatus `json:"status"`
	CreatedAt    string              `json:"created_at"`
	UpdatedAt    string              `json:"updated_at"`
}

type serverListResponse struct {
	Servers []serverResponse `json:"servers"`
}

// toServerResponse flattens a service view into the wire shape. The reporter
// host is populated by the service only for privileged readers.
func toServerResponse(view *ports.GameServerView) serverResponse {
	s := view.Server
	return serverResponse{
		ID:           s.ID,
		Name:         s.Name,
		Address:      s.Address,
		Description:  s.Description,
		Detail:       s.Detail,
		Admin:        s.AdminID,
		ReporterHost: view.ReporterHost,
		Status:       view.Status,
		CreatedAt:    s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
