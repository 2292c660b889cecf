package membership

import (
	"time"
)

// Member é a visão do engine sobre um membro. Uma linha por (TelegramID, GroupID).
// O engine é puro: as transições recebem e devolvem valores; leitura e escrita
// da linha ficam com o chamador (read-before-write em cada handler).
type Member struct {
	ID                 string
	TelegramID         int64
	Username           string
	GroupID            string
	Status             Status
	PriorStatus        Status // tier a restaurar numa reentrada; vazio = trial
	TrialStartedAt     time.Time
	SubscriptionEndsAt *time.Time
	KickedAt           *time.Time
	JoinedGroupAt      *time.Time
}

// Parâmetros de negócio com defaults do produto. Cada grupo pode configurar
// o próprio trial; a janela de reentrada é global.
const (
	DefaultTrialDays        = 7
	DefaultRejoinGraceHours = 24
)

// NewTrialMember cria o membro na primeira entrada verificada no grupo.
func NewTrialMember(telegramID int64, username, groupID string, now time.Time) Member {
	return Member{
		TelegramID:     telegramID,
		Username:       username,
		GroupID:        groupID,
		Status:         StatusTrial,
		TrialStartedAt: now,
		JoinedGroupAt:  &now,
	}
}

// ApplyPurchaseApproved processa um pagamento aprovado: ativa o membro,
// estende o fim da assinatura conforme o período cobrado e limpa o kick.
func ApplyPurchaseApproved(m Member, periodEnd time.Time) Member {
	m.Status = StatusActive
	m.PriorStatus = ""
	if m.SubscriptionEndsAt == nil || periodEnd.After(*m.SubscriptionEndsAt) {
		m.SubscriptionEndsAt = &periodEnd
	}
	m.KickedAt = nil
	return m
}

// ApplySubscriptionCanceled marca inadimplência. Não remove na hora: a remoção
// é um job agendado à parte, o que dá o período de graça ao membro.
func ApplySubscriptionCanceled(m Member) Member {
	m.Status = StatusDelinquent
	return m
}

// TrialExpired é o predicado do sweep periódico de expiração de trial.
func TrialExpired(m Member, trialDays int, now time.Time) bool {
	if m.Status != StatusTrial {
		return false
	}
	return now.Sub(m.TrialStartedAt) >= time.Duration(trialDays)*24*time.Hour
}

// Kick remove o membro do grupo. Idempotente: sweep e webhook podem disputar o
// mesmo membro, então re-kickar um removido devolve o kickedAt existente sem
// mutação (changed=false).
func Kick(m Member, now time.Time) (Member, bool) {
	if m.Status == StatusRemoved && m.KickedAt != nil {
		return m, false
	}
	m.PriorStatus = m.Status
	m.Status = StatusRemoved
	m.KickedAt = &now
	return m, true
}

// RejoinDecision é o resultado de CanRejoin. Reason só é preenchido quando
// Allowed=false e distingue janela expirada de inconsistência de dados.
type RejoinDecision struct {
	Allowed bool
	Reason  string
}

const (
	ReasonRejoinWindowExpired  = "REJOIN_WINDOW_EXPIRED"
	ReasonMissingKickTimestamp = "MISSING_KICK_TIMESTAMP"
)

// CanRejoin decide se um membro pode reentrar no grupo.
//   - Sem kick prévio (status != removido): entrada trivialmente permitida.
//   - Dentro da janela de graça: permitido, nos mesmos termos de antes.
//   - Fora da janela: negado, o chamador encaminha pro checkout externo.
//   - removido sem kickedAt é inconsistência de dados: falha fechado, nunca
//     reativa silenciosamente.
func CanRejoin(m Member, graceHours int, now time.Time) RejoinDecision {
	if m.Status != StatusRemoved {
		return RejoinDecision{Allowed: true}
	}
	if m.KickedAt == nil {
		return RejoinDecision{Allowed: false, Reason: ReasonMissingKickTimestamp}
	}
	if now.Sub(*m.KickedAt) < time.Duration(graceHours)*time.Hour {
		return RejoinDecision{Allowed: true}
	}
	return RejoinDecision{Allowed: false, Reason: ReasonRejoinWindowExpired}
}

// Reactivate reentra o membro nos termos anteriores à remoção: restaura o tier
// pré-kick (trial se não havia período pago ativo), limpa o kick e atualiza a
// entrada no grupo. SubscriptionEndsAt não é resetado. Só deve ser chamado
// após CanRejoin permitir.
func Reactivate(m Member, now time.Time) Member {
	prior := m.PriorStatus
	if prior == "" || prior == StatusRemoved {
		prior = StatusTrial
	}
	m.Status = prior
	m.PriorStatus = ""
	m.KickedAt = nil
	m.JoinedGroupAt = &now
	return m
}
