package betstatus

import (
	"fmt"
	"time"

	"github.com/radieske/bet-community-platform/internal/shared/apperr"
)

// MinOdds é o piso de odd para uma aposta entrar em "ready" sem promoção manual.
const MinOdds = 1.60

// Bet é a visão do engine sobre uma aposta sugerida. O engine é puro: nunca
// toca banco; quem chama lê a linha imediatamente antes e grava depois.
type Bet struct {
	ID              string
	GroupID         string
	Fixture         string
	KickoffTime     time.Time
	Odds            *float64
	DeepLink        string
	Status          Status
	Eligibility     Eligibility
	ManualPromotion bool
	PostedAt        *time.Time
	DistributedAt   *time.Time
}

// HasSufficientOdds aplica a regra de odd mínima. Promoção manual dispensa o
// piso por completo; odds == 0 conta como presente-porém-insuficiente.
func HasSufficientOdds(odds *float64, manualPromotion bool) bool {
	if odds == nil {
		return false
	}
	return *odds >= MinOdds || manualPromotion
}

// Derive recalcula o status de uma aposta a partir de odds, link e promoção.
// "posted" é terminal: nenhum chamador consegue sair dele por aqui — só o job
// de postagem marca posted, e nada sobrescreve depois.
func Derive(current Status, odds *float64, deepLink string, manualPromotion bool) Status {
	if current == StatusPosted {
		return StatusPosted
	}

	hasOdds := HasSufficientOdds(odds, manualPromotion)
	hasLink := deepLink != ""

	switch {
	case hasOdds && hasLink:
		return StatusReady
	case hasOdds && !hasLink:
		return StatusPendingLink
	case !hasOdds && hasLink:
		return StatusPendingOdds
	default:
		return StatusGenerated
	}
}

// CheckPromote valida a promoção manual de uma aposta.
// Uma aposta com eligibility "removida" sempre pode ser re-promovida (volta à
// fila), mesmo que os guards de primeira promoção a bloqueassem.
func CheckPromote(b Bet) error {
	if b.DeepLink == "" {
		return fmt.Errorf("promover aposta %s sem link: %w", b.ID, apperr.ErrValidation)
	}
	if b.Eligibility == EligibilityRemoved {
		return nil
	}
	if b.Status == StatusPosted {
		return fmt.Errorf("aposta %s já postada: %w", b.ID, apperr.ErrConflict)
	}
	if b.ManualPromotion {
		return fmt.Errorf("aposta %s: %w", b.ID, apperr.ErrAlreadyPromoted)
	}
	return nil
}

// ApplyPromote aplica a promoção: restaura elegibilidade, liga a flag manual e
// recalcula o status com o piso de odd dispensado.
func ApplyPromote(b Bet) Bet {
	b.Eligibility = EligibilityEligible
	b.ManualPromotion = true
	b.Status = Derive(b.Status, b.Odds, b.DeepLink, true)
	return b
}

// CheckRemove valida a retirada manual: só faz sentido sobre uma aposta "ready".
func CheckRemove(b Bet) error {
	if b.Status != StatusReady {
		return fmt.Errorf("remover aposta %s com status %s: %w", b.ID, b.Status, apperr.ErrConflict)
	}
	return nil
}

// ApplyRemove desliga a promoção manual e recalcula: a aposta recua para
// pending_link/pending_odds/generated em vez de desaparecer.
func ApplyRemove(b Bet) Bet {
	b.ManualPromotion = false
	b.Status = Derive(b.Status, b.Odds, b.DeepLink, false)
	return b
}
