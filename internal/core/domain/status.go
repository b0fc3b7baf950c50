package domain

import "time"

// ServerState is the state last reported by a game server.
type ServerState string

const (
	StateStopped     ServerState = "stopped"
	StateRunning     ServerState = "running"
	StateMaintenance ServerState = "maintenance"
	StateActivity    ServerState = "activity"
)

// Valid reports whether s is one of the known states.
func (s ServerState) Valid() bool {
	switch s {
	case StateStopped, StateRunning, StateMaintenance, StateActivity:
		return true
	}
	return false
}

// ServerStatus is the last known liveness report for a game server. A zero
// LastUpdated means no report has been received (or the last one went stale).
type ServerStatus struct {
	State       ServerState `json:"state"`
	PlayerCount int         `json:"player_count"`
	LastUpdated time.Time   `json:"last_updated,omitzero"`
}

// StoppedStatus is the synthesized status returned for servers that have no
// fresh report on record.
func StoppedStatus() ServerStatus {
	return ServerStatus{State: StateStopped}
}
