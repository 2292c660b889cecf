package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/bet-community-platform/internal/bets-service/dto"
	"github.com/radieske/bet-community-platform/internal/bets-service/repo"
	"github.com/radieske/bet-community-platform/internal/betstatus"
	"github.com/radieske/bet-community-platform/internal/schedule"
	"github.com/radieske/bet-community-platform/internal/shared/apperr"
	"github.com/radieske/bet-community-platform/pkg/contracts/events"
)

// MaxBatchSize limita as operações em lote do admin.
const MaxBatchSize = 50

// BetStore é o contrato de persistência consumido pelo serviço.
type BetStore interface {
	Get(ctx context.Context, groupID, id string) (betstatus.Bet, error)
	Update(ctx context.Context, b betstatus.Bet) error
	SelectPostingQueue(ctx context.Context, groupID string, now time.Time) ([]betstatus.Bet, error)
	GetSchedule(ctx context.Context, groupID string) (repo.GroupSchedule, error)
}

// AuditSink recebe registros de mudança. Fire-and-forget.
type AuditSink interface {
	Record(rec events.AuditRecord)
}

// OddsCache guarda a odd corrente por aposta (não-autoritativo).
type OddsCache interface {
	SetCurrent(ctx context.Context, betID string, odds float64) error
}

// Service implementa as ações administrativas sobre apostas sugeridas.
// Cada mutação relê a linha imediatamente antes de decidir (read-before-write)
// e vira no-op quando o valor derivado é igual ao armazenado — essas operações
// chegam tanto unitárias quanto em lotes de até 50 itens.
type Service struct {
	log   *zap.Logger
	store BetStore
	audit AuditSink
	cache OddsCache
	loc   *time.Location
	now   func() time.Time
}

func New(log *zap.Logger, store BetStore, audit AuditSink, cache OddsCache, loc *time.Location) *Service {
	return &Service{log: log, store: store, audit: audit, cache: cache, loc: loc, now: time.Now}
}

func fmtOdds(o *float64) string {
	if o == nil {
		return ""
	}
	return strconv.FormatFloat(*o, 'f', -1, 64)
}

func (s *Service) record(entity, id, field, oldV, newV, actor string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(events.AuditRecord{
		Entity:   entity,
		EntityID: id,
		Field:    field,
		OldValue: oldV,
		NewValue: newV,
		Actor:    actor,
		Ts:       s.now(),
	})
}

// UpdateOdds atualiza a odd de uma aposta e rederiva o status.
func (s *Service) UpdateOdds(ctx context.Context, groupID, id string, odds float64, actor string) (dto.UpdateResponse, error) {
	if odds <= 0 {
		return dto.UpdateResponse{}, fmt.Errorf("odd %v não positiva: %w", odds, apperr.ErrValidation)
	}

	b, err := s.store.Get(ctx, groupID, id)
	if err != nil {
		return dto.UpdateResponse{}, err
	}

	oldVal := fmtOdds(b.Odds)
	newStatus := betstatus.Derive(b.Status, &odds, b.DeepLink, b.ManualPromotion)
	if b.Odds != nil && *b.Odds == odds && newStatus == b.Status {
		return dto.UpdateResponse{Bet: dto.NewBetView(b), Skipped: true, OldValue: oldVal, NewValue: oldVal}, nil
	}

	b.Odds = &odds
	b.Status = newStatus
	if err := s.store.Update(ctx, b); err != nil {
		return dto.UpdateResponse{}, err
	}

	s.record("suggested_bet", b.ID, "odds", oldVal, fmtOdds(b.Odds), actor)
	if s.cache != nil {
		if err := s.cache.SetCurrent(ctx, b.ID, odds); err != nil {
			s.log.Warn("odds cache set", zap.String("bet_id", b.ID), zap.Error(err))
		}
	}

	return dto.UpdateResponse{Bet: dto.NewBetView(b), OldValue: oldVal, NewValue: fmtOdds(b.Odds)}, nil
}

// UpdateLink atribui o link de afiliado de uma aposta e rederiva o status.
func (s *Service) UpdateLink(ctx context.Context, groupID, id, deepLink, actor string) (dto.UpdateResponse, error) {
	if err := validateLink(deepLink); err != nil {
		return dto.UpdateResponse{}, err
	}

	b, err := s.store.Get(ctx, groupID, id)
	if err != nil {
		return dto.UpdateResponse{}, err
	}

	oldVal := b.DeepLink
	newStatus := betstatus.Derive(b.Status, b.Odds, deepLink, b.ManualPromotion)
	if b.DeepLink == deepLink && newStatus == b.Status {
		return dto.UpdateResponse{Bet: dto.NewBetView(b), Skipped: true, OldValue: oldVal, NewValue: oldVal}, nil
	}

	b.DeepLink = deepLink
	b.Status = newStatus
	if err := s.store.Update(ctx, b); err != nil {
		return dto.UpdateResponse{}, err
	}

	s.record("suggested_bet", b.ID, "deep_link", oldVal, deepLink, actor)

	return dto.UpdateResponse{Bet: dto.NewBetView(b), OldValue: oldVal, NewValue: deepLink}, nil
}

// Promote aplica a promoção manual: elegibilidade restaurada, piso de odd
// dispensado. Re-promover uma aposta "removida" sempre é permitido.
func (s *Service) Promote(ctx context.Context, groupID, id, actor string) (dto.UpdateResponse, error) {
	b, err := s.store.Get(ctx, groupID, id)
	if err != nil {
		return dto.UpdateResponse{}, err
	}

	if err := betstatus.CheckPromote(b); err != nil {
		return dto.UpdateResponse{}, err
	}

	oldStatus := string(b.Status)
	nb := betstatus.ApplyPromote(b)
	if nb == b {
		return dto.UpdateResponse{Bet: dto.NewBetView(b), Promoted: true, Skipped: true, OldValue: oldStatus, NewValue: oldStatus}, nil
	}

	if err := s.store.Update(ctx, nb); err != nil {
		return dto.UpdateResponse{}, err
	}

	s.record("suggested_bet", nb.ID, "status", oldStatus, string(nb.Status), actor)

	return dto.UpdateResponse{Bet: dto.NewBetView(nb), Promoted: true, OldValue: oldStatus, NewValue: string(nb.Status)}, nil
}

// Remove desfaz a promoção de uma aposta "ready": ela recua pro status
// derivado sem a flag manual em vez de sumir da base.
func (s *Service) Remove(ctx context.Context, groupID, id, actor string) (dto.UpdateResponse, error) {
	b, err := s.store.Get(ctx, groupID, id)
	if err != nil {
		return dto.UpdateResponse{}, err
	}

	if err := betstatus.CheckRemove(b); err != nil {
		return dto.UpdateResponse{}, err
	}

	oldStatus := string(b.Status)
	nb := betstatus.ApplyRemove(b)
	nb.Eligibility = betstatus.EligibilityRemoved
	if nb == b {
		return dto.UpdateResponse{Bet: dto.NewBetView(b), Skipped: true, OldValue: oldStatus, NewValue: oldStatus}, nil
	}

	if err := s.store.Update(ctx, nb); err != nil {
		return dto.UpdateResponse{}, err
	}

	s.record("suggested_bet", nb.ID, "status", oldStatus, string(nb.Status), actor)

	return dto.UpdateResponse{Bet: dto.NewBetView(nb), OldValue: oldStatus, NewValue: string(nb.Status)}, nil
}

// BulkUpdateOdds processa até MaxBatchSize itens estritamente em sequência.
// Erro de item vai pra lista de errors e o lote continua; só má-formação do
// lote em si (tamanho, ids duplicados) derruba a chamada.
func (s *Service) BulkUpdateOdds(ctx context.Context, groupID string, items []dto.BulkOddsItem, actor string) (dto.BatchResponse, error) {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	if err := validateBatch(ids); err != nil {
		return dto.BatchResponse{}, err
	}

	var out dto.BatchResponse
	for _, it := range items {
		res, err := s.UpdateOdds(ctx, groupID, it.ID, it.Odds, actor)
		collect(&out, it.ID, res, err)
	}
	return out, nil
}

// BulkAssignLinks atribui links em lote, com o mesmo isolamento por item.
func (s *Service) BulkAssignLinks(ctx context.Context, groupID string, items []dto.BulkLinkItem, actor string) (dto.BatchResponse, error) {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	if err := validateBatch(ids); err != nil {
		return dto.BatchResponse{}, err
	}

	var out dto.BatchResponse
	for _, it := range items {
		res, err := s.UpdateLink(ctx, groupID, it.ID, it.DeepLink, actor)
		collect(&out, it.ID, res, err)
	}
	return out, nil
}

func collect(out *dto.BatchResponse, id string, res dto.UpdateResponse, err error) {
	switch {
	case err != nil:
		out.Failed++
		out.Errors = append(out.Errors, dto.BatchError{ID: id, Error: apperr.Code(err)})
	case res.Skipped:
		out.Skipped++
	case res.Promoted:
		out.Promoted++
		out.Updated++
	default:
		out.Updated++
	}
}

// PostingQueue devolve a fila de postagem do grupo: itens enviáveis agora e,
// separados, os que falham na regra estrita com o motivo de cada um.
func (s *Service) PostingQueue(ctx context.Context, groupID string) (dto.QueueResponse, error) {
	now := s.now()
	bets, err := s.store.SelectPostingQueue(ctx, groupID, now)
	if err != nil {
		return dto.QueueResponse{}, err
	}

	sendable, issues := schedule.FilterQueue(bets, now)

	resp := dto.QueueResponse{}
	for _, b := range sendable {
		resp.Sendable = append(resp.Sendable, dto.NewBetView(b))
	}
	for _, i := range issues {
		resp.Issues = append(resp.Issues, dto.QueueIssueView{BetID: i.BetID, Reason: i.Reason})
	}
	return resp, nil
}

// NextPost calcula o próximo slot de postagem do grupo no fuso do negócio.
func (s *Service) NextPost(ctx context.Context, groupID string) (dto.NextPostResponse, error) {
	sched, err := s.store.GetSchedule(ctx, groupID)
	if err != nil {
		return dto.NextPostResponse{}, err
	}
	if !sched.Enabled || len(sched.Slots) == 0 {
		return dto.NextPostResponse{}, fmt.Errorf("agenda do grupo %s desabilitada: %w", groupID, apperr.ErrConflict)
	}

	next, err := schedule.NextPostTime(sched.Slots, s.now(), s.loc)
	if err != nil {
		return dto.NextPostResponse{}, fmt.Errorf("agenda do grupo %s: %w: %v", groupID, apperr.ErrValidation, err)
	}

	return dto.NextPostResponse{
		Slot:         next.Slot,
		At:           next.At,
		RemainingSec: int64(next.Remaining.Seconds()),
	}, nil
}

func validateLink(link string) error {
	if link == "" {
		return fmt.Errorf("link vazio: %w", apperr.ErrValidation)
	}
	u, err := url.ParseRequestURI(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("link %q malformado: %w", link, apperr.ErrValidation)
	}
	return nil
}

func validateBatch(ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("lote vazio: %w", apperr.ErrValidation)
	}
	if len(ids) > MaxBatchSize {
		return fmt.Errorf("lote com %d itens excede o limite de %d: %w", len(ids), MaxBatchSize, apperr.ErrValidation)
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("item sem id: %w", apperr.ErrValidation)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("id duplicado %s no lote: %w", id, apperr.ErrValidation)
		}
		seen[id] = struct{}{}
	}
	return nil
}
