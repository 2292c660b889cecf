package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/bet-community-platform/internal/membership"
	"github.com/radieske/bet-community-platform/internal/shared/apperr"
)

// Postgres implementa a persistência de membros. Uma linha por
// (telegram_id, group_id); toda mutação é de linha única.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

const memberColumns = `
	id, telegram_id, username, group_id, status, prior_status,
	trial_started_at, subscription_ends_at, kicked_at, joined_group_at`

func scanMember(row interface{ Scan(...any) error }) (membership.Member, error) {
	var (
		m        membership.Member
		status   string
		prior    sql.NullString
		username sql.NullString
	)
	err := row.Scan(&m.ID, &m.TelegramID, &username, &m.GroupID, &status, &prior,
		&m.TrialStartedAt, &m.SubscriptionEndsAt, &m.KickedAt, &m.JoinedGroupAt)
	if err != nil {
		return membership.Member{}, err
	}
	m.Username = username.String
	m.Status = membership.Status(status)
	if prior.Valid {
		m.PriorStatus = membership.Status(prior.String)
	}
	return m, nil
}

// GetByTelegram localiza o membro pelo par (telegramId, groupId).
func (p *Postgres) GetByTelegram(ctx context.Context, telegramID int64, groupID string) (membership.Member, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT `+memberColumns+`
		FROM members WHERE telegram_id=$1 AND group_id=$2`, telegramID, groupID)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return membership.Member{}, fmt.Errorf("membro tg=%d grupo=%s: %w", telegramID, groupID, apperr.ErrNotFound)
	}
	if err != nil {
		return membership.Member{}, fmt.Errorf("get membro tg=%d: %w: %v", telegramID, apperr.ErrDB, err)
	}
	return m, nil
}

// Get localiza o membro pelo id interno.
func (p *Postgres) Get(ctx context.Context, id string) (membership.Member, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT `+memberColumns+`
		FROM members WHERE id=$1`, id)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return membership.Member{}, fmt.Errorf("membro %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return membership.Member{}, fmt.Errorf("get membro %s: %w: %v", id, apperr.ErrDB, err)
	}
	return m, nil
}

// Create insere o membro na primeira entrada verificada (status trial).
func (p *Postgres) Create(ctx context.Context, m membership.Member) (membership.Member, error) {
	m.ID = uuid.NewString()
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO members
		  (id, telegram_id, username, group_id, status, trial_started_at, joined_group_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		m.ID, m.TelegramID, m.Username, m.GroupID, string(m.Status), m.TrialStartedAt, m.JoinedGroupAt)
	if err != nil {
		return membership.Member{}, fmt.Errorf("create membro tg=%d: %w: %v", m.TelegramID, apperr.ErrDB, err)
	}
	return m, nil
}

// Update grava os campos mutáveis de um membro.
func (p *Postgres) Update(ctx context.Context, m membership.Member) error {
	var prior any
	if m.PriorStatus != "" {
		prior = string(m.PriorStatus)
	}
	res, err := p.db.ExecContext(ctx, `
		UPDATE members
		SET status=$2, prior_status=$3, subscription_ends_at=$4,
		    kicked_at=$5, joined_group_at=$6, username=$7, updated_at=now()
		WHERE id=$1`,
		m.ID, string(m.Status), prior, m.SubscriptionEndsAt, m.KickedAt, m.JoinedGroupAt, m.Username)
	if err != nil {
		return fmt.Errorf("update membro %s: %w: %v", m.ID, apperr.ErrDB, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("membro %s: %w", m.ID, apperr.ErrNotFound)
	}
	return nil
}

// SelectTrialExpired retorna os membros em trial vencido de um grupo,
// candidatos ao kick do sweep periódico.
func (p *Postgres) SelectTrialExpired(ctx context.Context, groupID string, trialDays int, now time.Time) ([]membership.Member, error) {
	cutoff := now.Add(-time.Duration(trialDays) * 24 * time.Hour)
	rows, err := p.db.QueryContext(ctx, `
		SELECT `+memberColumns+`
		FROM members
		WHERE group_id=$1 AND status='trial' AND trial_started_at <= $2
		ORDER BY trial_started_at ASC`, groupID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("sweep grupo %s: %w: %v", groupID, apperr.ErrDB, err)
	}
	defer rows.Close()

	var out []membership.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sweep grupo %s: %w: %v", groupID, apperr.ErrDB, err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListGroups retorna os grupos com a duração de trial de cada um.
func (p *Postgres) ListGroups(ctx context.Context) ([]Group, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, name, trial_days FROM groups ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list grupos: %w: %v", apperr.ErrDB, err)
	}
	defer rows.Close()

	var out []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.TrialDays); err != nil {
			return nil, fmt.Errorf("scan grupos: %w: %v", apperr.ErrDB, err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
