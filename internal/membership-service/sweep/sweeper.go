package sweep

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/bet-community-platform/internal/membership"
	"github.com/radieske/bet-community-platform/internal/membership-service/repo"
)

// SweepStore é o recorte de persistência usado pela varredura.
type SweepStore interface {
	ListGroups(ctx context.Context) ([]repo.Group, error)
	SelectTrialExpired(ctx context.Context, groupID string, trialDays int, now time.Time) ([]membership.Member, error)
}

// Kicker executa a remoção de um membro. Na prática é o processor.
type Kicker interface {
	KickMember(ctx context.Context, memberID, reason string) (membership.Member, bool, error)
}

// Sweeper roda a varredura periódica de trial expirado: seleciona os membros
// vencidos por grupo e kicka um a um. Interrompível entre membros — nenhuma
// transação atravessa a varredura; uma passada parcial se corrige no próximo
// tick porque o predicado e o kick são idempotentes.
type Sweeper struct {
	Log              *zap.Logger
	Store            SweepStore
	Kicker           Kicker
	Interval         time.Duration
	DefaultTrialDays int

	OnSwept  func()       // métricas (counter++)
	OnKicked func()       // métricas
	OnError  func(string) // métricas por fase
}

// Run executa a varredura a cada Interval até o contexto encerrar.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		s.RunOnce(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce varre todos os grupos uma vez. Erros são contabilizados e logados;
// a varredura segue pro próximo item.
func (s *Sweeper) RunOnce(ctx context.Context) {
	now := time.Now()

	groups, err := s.Store.ListGroups(ctx)
	if err != nil {
		s.Log.Warn("sweep: list grupos", zap.Error(err))
		if s.OnError != nil {
			s.OnError("list_groups")
		}
		return
	}

	for _, g := range groups {
		trialDays := g.TrialDays
		if trialDays <= 0 {
			trialDays = s.DefaultTrialDays
		}

		members, err := s.Store.SelectTrialExpired(ctx, g.ID, trialDays, now)
		if err != nil {
			s.Log.Warn("sweep: select trial expirado", zap.String("group_id", g.ID), zap.Error(err))
			if s.OnError != nil {
				s.OnError("select")
			}
			continue
		}

		for _, m := range members {
			if ctx.Err() != nil {
				return
			}
			if s.OnSwept != nil {
				s.OnSwept()
			}

			// KickMember relê a linha antes de decidir; a seleção acima é só
			// candidatura, então corrida com webhook de pagamento é inócua
			_, changed, err := s.Kicker.KickMember(ctx, m.ID, "TRIAL_EXPIRED")
			if err != nil {
				s.Log.Warn("sweep: kick falhou",
					zap.String("member_id", m.ID),
					zap.String("group_id", g.ID),
					zap.Error(err),
				)
				if s.OnError != nil {
					s.OnError("kick")
				}
				continue
			}
			if changed {
				if s.OnKicked != nil {
					s.OnKicked()
				}
				s.Log.Info("membro removido por trial expirado",
					zap.String("member_id", m.ID),
					zap.String("group_id", g.ID),
				)
			}
		}
	}
}
