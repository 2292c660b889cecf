package dto

import (
	"time"

	"github.com/radieske/bet-community-platform/internal/betstatus"
)

type BetView struct {
	ID              string     `json:"id"`
	GroupID         string     `json:"group_id"`
	Fixture         string     `json:"fixture"`
	KickoffTime     time.Time  `json:"kickoff_time"`
	Odds            *float64   `json:"odds,omitempty"`
	DeepLink        string     `json:"deep_link,omitempty"`
	BetStatus       string     `json:"bet_status"`
	Eligibility     string     `json:"eligibility"`
	ManualPromotion bool       `json:"manual_promotion"`
	PostedAt        *time.Time `json:"posted_at,omitempty"`
}

func NewBetView(b betstatus.Bet) BetView {
	return BetView{
		ID:              b.ID,
		GroupID:         b.GroupID,
		Fixture:         b.Fixture,
		KickoffTime:     b.KickoffTime,
		Odds:            b.Odds,
		DeepLink:        b.DeepLink,
		BetStatus:       string(b.Status),
		Eligibility:     string(b.Eligibility),
		ManualPromotion: b.ManualPromotion,
		PostedAt:        b.PostedAt,
	}
}

// UpdateResponse é o resultado de uma operação unitária sobre uma aposta.
type UpdateResponse struct {
	Bet      BetView `json:"bet"`
	Promoted bool    `json:"promoted"`
	Skipped  bool    `json:"skipped"`
	OldValue string  `json:"old_value"`
	NewValue string  `json:"new_value"`
}

type BatchError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BatchResponse é o resultado por-item de uma operação em lote: uma falha de
// item não derruba o lote.
type BatchResponse struct {
	Updated  int          `json:"updated"`
	Promoted int          `json:"promoted"`
	Skipped  int          `json:"skipped"`
	Failed   int          `json:"failed"`
	Errors   []BatchError `json:"errors,omitempty"`
}

type QueueIssueView struct {
	BetID  string `json:"bet_id"`
	Reason string `json:"reason"`
}

type QueueResponse struct {
	Sendable []BetView        `json:"sendable"`
	Issues   []QueueIssueView `json:"issues,omitempty"`
}

type NextPostResponse struct {
	Slot         string    `json:"slot"`
	At           time.Time `json:"at"`
	RemainingSec int64     `json:"remaining_sec"`
}
