package dto

import (
	"time"

	"github.com/radieske/bet-community-platform/internal/membership"
)

// PaymentWebhook é o payload já normalizado pelo adaptador do provedor de
// pagamento (o parse do formato proprietário fica fora deste serviço).
type PaymentWebhook struct {
	Event      string     `json:"event"` // "purchase_approved" | "subscription_canceled"
	TelegramID int64      `json:"telegram_id"`
	GroupID    string     `json:"group_id"`
	PeriodEnd  *time.Time `json:"period_end,omitempty"` // fim do ciclo cobrado
}

// ChatEvent é o evento normalizado do transporte de chat.
type ChatEvent struct {
	Type       string `json:"type"` // "member_joined"
	TelegramID int64  `json:"telegram_id"`
	Username   string `json:"username,omitempty"`
	GroupID    string `json:"group_id"`
}

type MemberView struct {
	ID                 string     `json:"id"`
	TelegramID         int64      `json:"telegram_id"`
	Username           string     `json:"username,omitempty"`
	GroupID            string     `json:"group_id"`
	Status             string     `json:"status"`
	TrialStartedAt     time.Time  `json:"trial_started_at"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at,omitempty"`
	KickedAt           *time.Time `json:"kicked_at,omitempty"`
	JoinedGroupAt      *time.Time `json:"joined_group_at,omitempty"`
}

func NewMemberView(m membership.Member) MemberView {
	return MemberView{
		ID:                 m.ID,
		TelegramID:         m.TelegramID,
		Username:           m.Username,
		GroupID:            m.GroupID,
		Status:             string(m.Status),
		TrialStartedAt:     m.TrialStartedAt,
		SubscriptionEndsAt: m.SubscriptionEndsAt,
		KickedAt:           m.KickedAt,
		JoinedGroupAt:      m.JoinedGroupAt,
	}
}

// JoinResponse devolve a decisão de entrada: negada fora da janela de graça,
// o cliente encaminha o usuário pro checkout.
type JoinResponse struct {
	Member   MemberView `json:"member"`
	Allowed  bool       `json:"allowed"`
	Reason   string     `json:"reason,omitempty"`
	Created  bool       `json:"created"`
	Rejoined bool       `json:"rejoined"`
}

type SetupStartRequest struct {
	Phone   string `json:"phone"`
	GroupID string `json:"group_id"`
}

type SetupStartResponse struct {
	Token string `json:"token"`
}

type SetupVerifyRequest struct {
	Token string `json:"token"`
	Code  string `json:"code"`
}
