package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/radieske/bet-community-platform/internal/betstatus"
	"github.com/radieske/bet-community-platform/internal/timeutil"
)

// NextSlot é o próximo horário de postagem de um grupo.
type NextSlot struct {
	At        time.Time
	Remaining time.Duration
	Slot      string // "HH:MM" original do slot escolhido
}

// NextPostTime escolhe o primeiro slot estritamente depois do minuto-do-dia
// atual, no fuso civil do negócio. Se nenhum resta hoje, devolve o primeiro
// slot de amanhã com Remaining atravessando a meia-noite (aritmética de
// wraparound, não subtração ingênua).
func NextPostTime(slots []string, now time.Time, loc *time.Location) (NextSlot, error) {
	if len(slots) == 0 {
		return NextSlot{}, fmt.Errorf("agenda sem slots")
	}

	type slot struct {
		raw    string
		minute int
	}
	parsed := make([]slot, 0, len(slots))
	for _, s := range slots {
		m, err := timeutil.ParseSlot(s)
		if err != nil {
			return NextSlot{}, err
		}
		parsed = append(parsed, slot{raw: s, minute: m})
	}
	sort.Slice(parsed, func(i, j int) bool { return parsed[i].minute < parsed[j].minute })

	nowMin := timeutil.MinuteOfDay(now, loc)
	for _, s := range parsed {
		if s.minute > nowMin {
			at := timeutil.AtMinuteOfDay(now, s.minute, loc)
			return NextSlot{At: at, Remaining: at.Sub(now), Slot: s.raw}, nil
		}
	}

	// nenhum slot resta hoje: primeiro slot do dia seguinte
	first := parsed[0]
	at := timeutil.AtMinuteOfDay(now, first.minute, loc).AddDate(0, 0, 1)
	return NextSlot{At: at, Remaining: at.Sub(now), Slot: first.raw}, nil
}

// QueueIssue explica por que um item da fila não está pronto pra envio
// imediato. Itens com problema são reportados, nunca descartados em silêncio.
type QueueIssue struct {
	BetID  string
	Reason string
}

// FilterQueue separa as apostas candidatas entre enviáveis agora e itens com
// diagnóstico. O pré-filtro de SQL já garante eligibility/link; aqui valem as
// regras estritas: kickoff no futuro e odd suficiente (ou promoção manual).
func FilterQueue(bets []betstatus.Bet, now time.Time) (sendable []betstatus.Bet, issues []QueueIssue) {
	for _, b := range bets {
		switch {
		case b.Status == betstatus.StatusPosted:
			issues = append(issues, QueueIssue{BetID: b.ID, Reason: "já postada"})
		case b.DeepLink == "":
			issues = append(issues, QueueIssue{BetID: b.ID, Reason: "sem link de afiliado"})
		case !b.KickoffTime.After(now):
			issues = append(issues, QueueIssue{BetID: b.ID, Reason: "partida já iniciada ou encerrada"})
		case !betstatus.HasSufficientOdds(b.Odds, b.ManualPromotion):
			if b.Odds == nil {
				issues = append(issues, QueueIssue{BetID: b.ID, Reason: "sem odd registrada"})
			} else {
				issues = append(issues, QueueIssue{BetID: b.ID,
					Reason: fmt.Sprintf("odd %.2f abaixo do mínimo %.2f", *b.Odds, betstatus.MinOdds)})
			}
		default:
			sendable = append(sendable, b)
		}
	}
	return sendable, issues
}
