package events

import "time"

// Evento emitido quando um membro entra (ou reentra) no grupo.
type MemberJoined struct {
	MemberID   string    `json:"member_id"`
	TelegramID int64     `json:"telegram_id"`
	Username   string    `json:"username,omitempty"`
	GroupID    string    `json:"group_id"`
	Status     string    `json:"status"` // "trial" | "ativo"
	Rejoin     bool      `json:"rejoin"`
	JoinedAt   time.Time `json:"joined_at"`
}
