package domain

import "time"

// ConnectedClient mirrors a peer the events gateway reports as connected.
// The gateway owns the truth; we only replay its snapshot and deltas.
type ConnectedClient struct {
	SocketID    string     `json:"socketId"`
	UserID      string     `json:"userId"`
	MesaID      string     `json:"mesaId,omitempty"`
	SesionID    string     `json:"sesionId,omitempty"`
	ConnectedAt *time.Time `json:"timestamp,omitempty"`
}
