package events

import "time"

// Evento publicado pelo posting-worker quando uma aposta sugerida é enviada
// ao grupo. Marca o estado terminal "posted".
type BetPosted struct {
	BetID    string    `json:"bet_id"`
	GroupID  string    `json:"group_id"`
	Fixture  string    `json:"fixture"`
	Odds     *float64  `json:"odds,omitempty"`
	DeepLink string    `json:"deep_link"`
	PostedAt time.Time `json:"posted_at"`
}
