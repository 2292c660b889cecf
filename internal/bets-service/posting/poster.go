package posting

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/bet-community-platform/internal/bets-service/repo"
	"github.com/radieske/bet-community-platform/internal/betstatus"
	"github.com/radieske/bet-community-platform/internal/schedule"
	"github.com/radieske/bet-community-platform/internal/timeutil"
	"github.com/radieske/bet-community-platform/pkg/contracts/events"
)

// PostStore é o recorte de persistência do job de postagem.
type PostStore interface {
	ListEnabledSchedules(ctx context.Context) ([]repo.GroupSchedule, error)
	SelectPostingQueue(ctx context.Context, groupID string, now time.Time) ([]betstatus.Bet, error)
	MarkPosted(ctx context.Context, groupID, id string, now time.Time) (bool, error)
}

// PostPublisher emite bet_posted pro transporte que faz o envio real.
type PostPublisher interface {
	PublishBetPosted(ctx context.Context, e events.BetPosted) error
}

// Poster é o job agendado de postagem: a cada tick confere, por grupo, se o
// minuto atual é um slot da agenda; num slot, drena a fila enviável e marca
// cada aposta como postada. É o ÚNICO caminho que grava "posted" — o engine
// de status nunca o faz, e a marcação é condicional, então dois workers no
// mesmo slot produzem no máximo um envio por aposta.
type Poster struct {
	Log      *zap.Logger
	Store    PostStore
	Pub      PostPublisher
	Loc      *time.Location
	Interval time.Duration

	OnTick   func()       // métricas (counter++)
	OnPosted func()       // métricas
	OnIssue  func()       // métricas
	OnError  func(string) // métricas por fase

	// lastFired evita disparo duplo no mesmo slot quando o tick roda mais de
	// uma vez dentro do mesmo minuto. Estado local do worker, nada além disso:
	// a proteção real contra duplicidade é o MarkPosted condicional.
	lastFired map[string]int
}

// Run roda o loop de ticks até o contexto encerrar.
func (p *Poster) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		p.Tick(ctx, time.Now())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Tick processa um instante: percorre as agendas habilitadas e drena a fila
// dos grupos cujo slot coincide com o minuto atual.
func (p *Poster) Tick(ctx context.Context, now time.Time) {
	if p.OnTick != nil {
		p.OnTick()
	}
	if p.lastFired == nil {
		p.lastFired = map[string]int{}
	}

	scheds, err := p.Store.ListEnabledSchedules(ctx)
	if err != nil {
		p.Log.Warn("posting: list agendas", zap.Error(err))
		if p.OnError != nil {
			p.OnError("list_schedules")
		}
		return
	}

	nowMin := timeutil.MinuteOfDay(now, p.Loc)
	for _, sched := range scheds {
		if ctx.Err() != nil {
			return
		}
		if !slotMatches(sched.Slots, nowMin) {
			continue
		}
		if p.lastFired[sched.GroupID] == dayMinuteKey(now, p.Loc) {
			continue
		}
		p.lastFired[sched.GroupID] = dayMinuteKey(now, p.Loc)

		p.drainGroup(ctx, sched.GroupID, now)
	}
}

func (p *Poster) drainGroup(ctx context.Context, groupID string, now time.Time) {
	bets, err := p.Store.SelectPostingQueue(ctx, groupID, now)
	if err != nil {
		p.Log.Warn("posting: select fila", zap.String("group_id", groupID), zap.Error(err))
		if p.OnError != nil {
			p.OnError("select")
		}
		return
	}

	sendable, issues := schedule.FilterQueue(bets, now)
	for _, issue := range issues {
		if p.OnIssue != nil {
			p.OnIssue()
		}
		p.Log.Info("posting: aposta fora do envio",
			zap.String("group_id", groupID),
			zap.String("bet_id", issue.BetID),
			zap.String("reason", issue.Reason),
		)
	}
	if len(sendable) == 0 {
		p.Log.Info("posting: slot sem apostas enviáveis",
			zap.String("group_id", groupID),
			zap.Int("issues", len(issues)),
		)
		return
	}

	for _, b := range sendable {
		if ctx.Err() != nil {
			return
		}

		marked, err := p.Store.MarkPosted(ctx, groupID, b.ID, now)
		if err != nil {
			p.Log.Warn("posting: mark posted", zap.String("bet_id", b.ID), zap.Error(err))
			if p.OnError != nil {
				p.OnError("mark")
			}
			continue
		}
		if !marked {
			// outro worker chegou antes; nada a reenviar
			continue
		}

		if p.Pub != nil {
			if err := p.Pub.PublishBetPosted(ctx, events.BetPosted{
				BetID:    b.ID,
				GroupID:  groupID,
				Fixture:  b.Fixture,
				Odds:     b.Odds,
				DeepLink: b.DeepLink,
				PostedAt: now,
			}); err != nil {
				p.Log.Warn("posting: publish bet_posted", zap.String("bet_id", b.ID), zap.Error(err))
				if p.OnError != nil {
					p.OnError("publish")
				}
			}
		}
		if p.OnPosted != nil {
			p.OnPosted()
		}
	}
}

func dayMinuteKey(t time.Time, loc *time.Location) int {
	lt := t.In(loc)
	return lt.YearDay()*10000 + timeutil.MinuteOfDay(t, loc)
}

func slotMatches(slots []string, nowMin int) bool {
	for _, s := range slots {
		if m, err := timeutil.ParseSlot(s); err == nil && m == nowMin {
			return true
		}
	}
	return false
}
