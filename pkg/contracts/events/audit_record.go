package events

import "time"

// Registro de auditoria publicado a cada mudança de odds/link/status.
// Best-effort: falha de publicação nunca falha a operação primária.
type AuditRecord struct {
	Entity   string    `json:"entity"` // "member" | "suggested_bet"
	EntityID string    `json:"entity_id"`
	Field    string    `json:"field"`
	OldValue string    `json:"old_value"`
	NewValue string    `json:"new_value"`
	Actor    string    `json:"actor"`
	Ts       time.Time `json:"ts"`
}
