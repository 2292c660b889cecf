package posting

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/bet-community-platform/internal/bets-service/repo"
	"github.com/radieske/bet-community-platform/internal/betstatus"
	"github.com/radieske/bet-community-platform/pkg/contracts/events"
)

type fakeStore struct {
	scheds  []repo.GroupSchedule
	queue   map[string][]betstatus.Bet
	posted  []string
	markErr error
	already map[string]bool
}

func (f *fakeStore) ListEnabledSchedules(_ context.Context) ([]repo.GroupSchedule, error) {
	return f.scheds, nil
}

func (f *fakeStore) SelectPostingQueue(_ context.Context, groupID string, _ time.Time) ([]betstatus.Bet, error) {
	return f.queue[groupID], nil
}

func (f *fakeStore) MarkPosted(_ context.Context, _, id string, _ time.Time) (bool, error) {
	if f.markErr != nil {
		return false, f.markErr
	}
	if f.already[id] {
		return false, nil
	}
	f.posted = append(f.posted, id)
	return true, nil
}

type fakePub struct {
	events []events.BetPosted
	err    error
}

func (f *fakePub) PublishBetPosted(_ context.Context, e events.BetPosted) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, e)
	return nil
}

func at(t *testing.T, loc *time.Location, hhmm string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("15:04", hhmm, loc)
	if err != nil {
		t.Fatalf("hora inválida %q: %v", hhmm, err)
	}
	return time.Date(2025, 6, 10, parsed.Hour(), parsed.Minute(), 0, 0, loc)
}

func readyBet(id string, odds float64, kickoff time.Time) betstatus.Bet {
	return betstatus.Bet{
		ID:          id,
		GroupID:     "g1",
		Fixture:     "Flamengo x Palmeiras",
		KickoffTime: kickoff,
		Odds:        &odds,
		DeepLink:    "https://bet.example/x",
		Status:      betstatus.StatusReady,
		Eligibility: betstatus.EligibilityEligible,
	}
}

func TestTickPostaNoSlot(t *testing.T) {
	loc, _ := time.LoadLocation("America/Sao_Paulo")
	now := at(t, loc, "10:00")
	kickoff := now.Add(3 * time.Hour)

	store := &fakeStore{
		scheds: []repo.GroupSchedule{{GroupID: "g1", Enabled: true, Slots: []string{"10:00", "16:00"}}},
		queue:  map[string][]betstatus.Bet{"g1": {readyBet("b1", 1.85, kickoff), readyBet("b2", 2.10, kickoff)}},
	}
	pub := &fakePub{}
	p := &Poster{Log: zap.NewNop(), Store: store, Pub: pub, Loc: loc, Interval: time.Minute}

	p.Tick(context.Background(), now)

	if len(store.posted) != 2 {
		t.Fatalf("posted = %v, esperava b1 e b2", store.posted)
	}
	if len(pub.events) != 2 || pub.events[0].BetID != "b1" {
		t.Fatalf("eventos publicados = %+v", pub.events)
	}
}

func TestTickForaDoSlotNaoPosta(t *testing.T) {
	loc, _ := time.LoadLocation("America/Sao_Paulo")
	now := at(t, loc, "10:01")

	store := &fakeStore{
		scheds: []repo.GroupSchedule{{GroupID: "g1", Enabled: true, Slots: []string{"10:00"}}},
		queue:  map[string][]betstatus.Bet{"g1": {readyBet("b1", 1.85, now.Add(time.Hour))}},
	}
	p := &Poster{Log: zap.NewNop(), Store: store, Pub: &fakePub{}, Loc: loc, Interval: time.Minute}

	p.Tick(context.Background(), now)

	if len(store.posted) != 0 {
		t.Fatalf("posted = %v, não deveria postar fora do slot", store.posted)
	}
}

func TestTickNaoDisparaDuasVezesNoMesmoMinuto(t *testing.T) {
	loc, _ := time.LoadLocation("America/Sao_Paulo")
	now := at(t, loc, "10:00")

	store := &fakeStore{
		scheds: []repo.GroupSchedule{{GroupID: "g1", Enabled: true, Slots: []string{"10:00"}}},
		queue:  map[string][]betstatus.Bet{"g1": {readyBet("b1", 1.85, now.Add(time.Hour))}},
	}
	pub := &fakePub{}
	p := &Poster{Log: zap.NewNop(), Store: store, Pub: pub, Loc: loc, Interval: time.Minute}

	p.Tick(context.Background(), now)
	p.Tick(context.Background(), now.Add(20*time.Second))

	if len(pub.events) != 1 {
		t.Fatalf("eventos = %d, o mesmo slot não pode disparar duas vezes", len(pub.events))
	}
}

func TestTickFiltraFilaEContinua(t *testing.T) {
	loc, _ := time.LoadLocation("America/Sao_Paulo")
	now := at(t, loc, "16:00")

	passada := readyBet("b-passada", 1.85, now.Add(-time.Hour))
	ok := readyBet("b-ok", 1.85, now.Add(time.Hour))
	store := &fakeStore{
		scheds: []repo.GroupSchedule{{GroupID: "g1", Enabled: true, Slots: []string{"16:00"}}},
		queue:  map[string][]betstatus.Bet{"g1": {passada, ok}},
	}
	pub := &fakePub{}
	issues := 0
	p := &Poster{
		Log: zap.NewNop(), Store: store, Pub: pub, Loc: loc, Interval: time.Minute,
		OnIssue: func() { issues++ },
	}

	p.Tick(context.Background(), now)

	if len(store.posted) != 1 || store.posted[0] != "b-ok" {
		t.Fatalf("posted = %v, só b-ok deveria sair", store.posted)
	}
	if issues != 1 {
		t.Fatalf("issues = %d, o kickoff passado deveria contar", issues)
	}
}

func TestTickMarkCondicionalNaoRepublica(t *testing.T) {
	loc, _ := time.LoadLocation("America/Sao_Paulo")
	now := at(t, loc, "10:00")

	store := &fakeStore{
		scheds:  []repo.GroupSchedule{{GroupID: "g1", Enabled: true, Slots: []string{"10:00"}}},
		queue:   map[string][]betstatus.Bet{"g1": {readyBet("b1", 1.85, now.Add(time.Hour))}},
		already: map[string]bool{"b1": true},
	}
	pub := &fakePub{}
	p := &Poster{Log: zap.NewNop(), Store: store, Pub: pub, Loc: loc, Interval: time.Minute}

	p.Tick(context.Background(), now)

	if len(pub.events) != 0 {
		t.Fatalf("eventos = %+v, aposta já marcada por outro worker não reenvia", pub.events)
	}
}

func TestTickErroNoMarkContaENaoPara(t *testing.T) {
	loc, _ := time.LoadLocation("America/Sao_Paulo")
	now := at(t, loc, "10:00")

	store := &fakeStore{
		scheds:  []repo.GroupSchedule{{GroupID: "g1", Enabled: true, Slots: []string{"10:00"}}},
		queue:   map[string][]betstatus.Bet{"g1": {readyBet("b1", 1.85, now.Add(time.Hour))}},
		markErr: errors.New("conexão caiu"),
	}
	var stages []string
	p := &Poster{
		Log: zap.NewNop(), Store: store, Pub: &fakePub{}, Loc: loc, Interval: time.Minute,
		OnError: func(stage string) { stages = append(stages, stage) },
	}

	p.Tick(context.Background(), now)

	if len(stages) != 1 || stages[0] != "mark" {
		t.Fatalf("stages = %v", stages)
	}
}
