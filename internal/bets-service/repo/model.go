package repo

import "time"

// SuggestedBet é a linha persistida no Postgres (tabela suggested_bets).
type SuggestedBet struct {
	ID              string
	GroupID         string
	Fixture         string
	KickoffTime     time.Time
	Odds            *float64
	DeepLink        *string
	BetStatus       string
	Eligibility     string
	ManualPromotion bool
	PostedAt        *time.Time
	DistributedAt   *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// GroupSchedule é a agenda de postagem de um grupo: slots "HH:MM" ordenados
// mais a flag de habilitação. Entrada só de leitura pro scheduler.
type GroupSchedule struct {
	GroupID string
	Enabled bool
	Slots   []string
}
