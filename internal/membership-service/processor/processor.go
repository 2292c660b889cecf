package processor

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/bet-community-platform/internal/membership"
	"github.com/radieske/bet-community-platform/internal/shared/apperr"
	"github.com/radieske/bet-community-platform/pkg/contracts/events"
)

// MemberStore é o contrato de persistência consumido pelo processor.
type MemberStore interface {
	GetByTelegram(ctx context.Context, telegramID int64, groupID string) (membership.Member, error)
	Get(ctx context.Context, id string) (membership.Member, error)
	Create(ctx context.Context, m membership.Member) (membership.Member, error)
	Update(ctx context.Context, m membership.Member) error
}

// EventPublisher emite os eventos de membership pro transporte externo.
type EventPublisher interface {
	PublishMemberJoined(ctx context.Context, e events.MemberJoined) error
	PublishMemberKicked(ctx context.Context, e events.MemberKicked) error
}

// Processor traduz eventos externos (webhook de pagamento, eventos do chat,
// sweeps) em transições do engine de membership. Cada mutação relê a linha
// imediatamente antes de decidir e não escreve quando nada muda: webhook,
// sweep e ação de admin podem correr sobre o mesmo membro.
type Processor struct {
	log        *zap.Logger
	store      MemberStore
	events     EventPublisher
	graceHours int
	now        func() time.Time
}

func New(log *zap.Logger, store MemberStore, ev EventPublisher, graceHours int) *Processor {
	if graceHours <= 0 {
		graceHours = membership.DefaultRejoinGraceHours
	}
	return &Processor{log: log, store: store, events: ev, graceHours: graceHours, now: time.Now}
}

// HandlePurchaseApproved processa o webhook de pagamento aprovado.
func (p *Processor) HandlePurchaseApproved(ctx context.Context, telegramID int64, groupID string, periodEnd time.Time) (membership.Member, error) {
	m, err := p.store.GetByTelegram(ctx, telegramID, groupID)
	if err != nil {
		return membership.Member{}, err
	}

	nm := membership.ApplyPurchaseApproved(m, periodEnd)
	if nm == m {
		return m, nil
	}
	if err := p.store.Update(ctx, nm); err != nil {
		return membership.Member{}, err
	}

	p.log.Info("assinatura ativada",
		zap.Int64("telegram_id", telegramID),
		zap.String("group_id", groupID),
		zap.Timep("subscription_ends_at", nm.SubscriptionEndsAt),
	)
	return nm, nil
}

// HandleSubscriptionCanceled marca inadimplência; a remoção em si fica com o
// job agendado, dando o período de graça.
func (p *Processor) HandleSubscriptionCanceled(ctx context.Context, telegramID int64, groupID string) (membership.Member, error) {
	m, err := p.store.GetByTelegram(ctx, telegramID, groupID)
	if err != nil {
		return membership.Member{}, err
	}

	nm := membership.ApplySubscriptionCanceled(m)
	if nm == m {
		return m, nil
	}
	if err := p.store.Update(ctx, nm); err != nil {
		return membership.Member{}, err
	}

	p.log.Info("assinatura cancelada, membro inadimplente",
		zap.Int64("telegram_id", telegramID),
		zap.String("group_id", groupID),
	)
	return nm, nil
}

// JoinResult descreve o desfecho de um evento de entrada no grupo.
type JoinResult struct {
	Member   membership.Member
	Created  bool
	Rejoined bool
	Decision membership.RejoinDecision
}

// HandleMemberJoined processa a entrada verificada de um usuário no grupo:
// membro novo nasce em trial; removido dentro da janela volta nos termos
// antigos; fora da janela a decisão sai negada e o chamador encaminha pro
// checkout, sem reativação automática.
func (p *Processor) HandleMemberJoined(ctx context.Context, telegramID int64, username, groupID string) (JoinResult, error) {
	now := p.now()

	m, err := p.store.GetByTelegram(ctx, telegramID, groupID)
	if errors.Is(err, apperr.ErrNotFound) {
		created, cerr := p.store.Create(ctx, membership.NewTrialMember(telegramID, username, groupID, now))
		if cerr != nil {
			return JoinResult{}, cerr
		}
		p.publishJoined(ctx, created, false)
		return JoinResult{Member: created, Created: true, Decision: membership.RejoinDecision{Allowed: true}}, nil
	}
	if err != nil {
		return JoinResult{}, err
	}

	decision := membership.CanRejoin(m, p.graceHours, now)
	if !decision.Allowed {
		p.log.Warn("reentrada negada",
			zap.Int64("telegram_id", telegramID),
			zap.String("group_id", groupID),
			zap.String("reason", decision.Reason),
		)
		return JoinResult{Member: m, Decision: decision}, nil
	}

	if m.Status != membership.StatusRemoved {
		// já dentro: entrada sem kick prévio não muda estado
		return JoinResult{Member: m, Decision: decision}, nil
	}

	nm := membership.Reactivate(m, now)
	nm.Username = username
	if err := p.store.Update(ctx, nm); err != nil {
		return JoinResult{}, err
	}
	p.publishJoined(ctx, nm, true)

	return JoinResult{Member: nm, Rejoined: true, Decision: decision}, nil
}

// KickMember remove um membro (sweep de trial, inadimplência ou admin).
// Idempotente: re-kick de um removido não escreve nem publica de novo.
func (p *Processor) KickMember(ctx context.Context, memberID, reason string) (membership.Member, bool, error) {
	m, err := p.store.Get(ctx, memberID)
	if err != nil {
		return membership.Member{}, false, err
	}

	nm, changed := membership.Kick(m, p.now())
	if !changed {
		return nm, false, nil
	}
	if err := p.store.Update(ctx, nm); err != nil {
		return membership.Member{}, false, err
	}

	if p.events != nil {
		if perr := p.events.PublishMemberKicked(ctx, events.MemberKicked{
			MemberID:   nm.ID,
			TelegramID: nm.TelegramID,
			GroupID:    nm.GroupID,
			Reason:     reason,
			KickedAt:   *nm.KickedAt,
		}); perr != nil {
			p.log.Warn("publish member_kicked", zap.String("member_id", nm.ID), zap.Error(perr))
		}
	}

	return nm, true, nil
}

func (p *Processor) publishJoined(ctx context.Context, m membership.Member, rejoin bool) {
	if p.events == nil {
		return
	}
	joinedAt := p.now()
	if m.JoinedGroupAt != nil {
		joinedAt = *m.JoinedGroupAt
	}
	if err := p.events.PublishMemberJoined(ctx, events.MemberJoined{
		MemberID:   m.ID,
		TelegramID: m.TelegramID,
		Username:   m.Username,
		GroupID:    m.GroupID,
		Status:     string(m.Status),
		Rejoin:     rejoin,
		JoinedAt:   joinedAt,
	}); err != nil {
		p.log.Warn("publish member_joined", zap.String("member_id", m.ID), zap.Error(err))
	}
}
