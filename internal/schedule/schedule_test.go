package schedule

import (
	"testing"
	"time"

	"github.com/radieske/bet-community-platform/internal/betstatus"
)

var loc = time.FixedZone("BRT", -3*3600)

func at(h, m int) time.Time {
	return time.Date(2025, 3, 10, h, m, 0, 0, loc)
}

func TestNextPostTimeSameDay(t *testing.T) {
	slots := []string{"22:00", "10:00", "15:00"} // fora de ordem de propósito

	got, err := NextPostTime(slots, at(9, 0), loc)
	if err != nil {
		t.Fatal(err)
	}
	if got.Slot != "10:00" {
		t.Fatalf("slot = %s, esperado 10:00", got.Slot)
	}
	if want := time.Hour; got.Remaining != want {
		t.Fatalf("remaining = %v, esperado %v", got.Remaining, want)
	}
}

func TestNextPostTimeStrictlyLater(t *testing.T) {
	// exatamente em cima do slot: o slot atual não conta, vai pro próximo
	got, err := NextPostTime([]string{"10:00", "15:00"}, at(10, 0), loc)
	if err != nil {
		t.Fatal(err)
	}
	if got.Slot != "15:00" {
		t.Fatalf("slot = %s, esperado 15:00", got.Slot)
	}
}

func TestNextPostTimeWrapsMidnight(t *testing.T) {
	got, err := NextPostTime([]string{"10:00", "15:00", "22:00"}, at(23, 0), loc)
	if err != nil {
		t.Fatal(err)
	}
	if got.Slot != "10:00" {
		t.Fatalf("slot = %s, esperado 10:00 de amanhã", got.Slot)
	}
	wantAt := time.Date(2025, 3, 11, 10, 0, 0, 0, loc)
	if !got.At.Equal(wantAt) {
		t.Fatalf("at = %v, esperado %v", got.At, wantAt)
	}
	if want := 11 * time.Hour; got.Remaining != want {
		t.Fatalf("remaining atravessando a meia-noite = %v, esperado %v", got.Remaining, want)
	}
}

func TestNextPostTimeErrors(t *testing.T) {
	if _, err := NextPostTime(nil, at(9, 0), loc); err == nil {
		t.Fatal("agenda vazia: esperado erro")
	}
	if _, err := NextPostTime([]string{"25:00"}, at(9, 0), loc); err == nil {
		t.Fatal("slot inválido: esperado erro")
	}
}

func f(v float64) *float64 { return &v }

func TestFilterQueue(t *testing.T) {
	now := at(12, 0)
	kickoffFuture := at(16, 0)
	kickoffPast := at(11, 0)

	bets := []betstatus.Bet{
		{ID: "ok", Odds: f(1.85), DeepLink: "https://aff.example/1", Status: betstatus.StatusReady, KickoffTime: kickoffFuture},
		{ID: "odd-baixa", Odds: f(1.40), DeepLink: "https://aff.example/2", Status: betstatus.StatusPendingOdds, KickoffTime: kickoffFuture},
		{ID: "promovida", Odds: f(1.40), DeepLink: "https://aff.example/3", ManualPromotion: true, Status: betstatus.StatusReady, KickoffTime: kickoffFuture},
		{ID: "sem-odd", DeepLink: "https://aff.example/4", Status: betstatus.StatusPendingOdds, KickoffTime: kickoffFuture},
		{ID: "comecou", Odds: f(2.00), DeepLink: "https://aff.example/5", Status: betstatus.StatusReady, KickoffTime: kickoffPast},
		{ID: "postada", Odds: f(2.00), DeepLink: "https://aff.example/6", Status: betstatus.StatusPosted, KickoffTime: kickoffFuture},
	}

	sendable, issues := FilterQueue(bets, now)

	wantSend := map[string]bool{"ok": true, "promovida": true}
	if len(sendable) != len(wantSend) {
		t.Fatalf("sendable = %d itens, esperado %d (%+v)", len(sendable), len(wantSend), sendable)
	}
	for _, b := range sendable {
		if !wantSend[b.ID] {
			t.Fatalf("item inesperado na fila: %s", b.ID)
		}
	}

	reasons := map[string]string{}
	for _, i := range issues {
		reasons[i.BetID] = i.Reason
	}
	for _, id := range []string{"odd-baixa", "sem-odd", "comecou", "postada"} {
		if reasons[id] == "" {
			t.Fatalf("item %s sem diagnóstico: %+v", id, issues)
		}
	}
}
