package domain

import "time"

// GameServer is a registered game-server entry in the directory. Name and
// address are unique. ReporterHost is the only host allowed to push status
// reports for this server and is never disclosed to regular users.
type GameServer struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Description  string    `json:"description"`
	Detail       string    `json:"detail,omitempty"`
	AdminID      string    `json:"admin,omitempty"`
	ReporterHost string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GameServerUpdate carries mutable game-server fields; nil means unchanged.
type GameServerUpdate struct {
	Name         *string
	Address      *string
	Description  *string
	Detail       *string
	ReporterHost *string
}
