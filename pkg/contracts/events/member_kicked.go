package events

import "time"

// Evento emitido quando um membro é removido do grupo (sweep de trial expirado
// ou ação administrativa). Consumido pela camada de notificação/transporte.
type MemberKicked struct {
	MemberID   string    `json:"member_id"`
	TelegramID int64     `json:"telegram_id"`
	GroupID    string    `json:"group_id"`
	Reason     string    `json:"reason"` // "TRIAL_EXPIRED" | "DELINQUENT" | "ADMIN"
	KickedAt   time.Time `json:"kicked_at"`
}
