package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/radieske/bet-community-platform/internal/betstatus"
	"github.com/radieske/bet-community-platform/internal/shared/apperr"
)

// Postgres implementa a persistência de apostas sugeridas e das agendas de
// postagem. Toda mutação é de linha única; o engine decide, o repo grava.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

const betColumns = `
	id, group_id, fixture, kickoff_time, odds, deep_link,
	bet_status, eligibility, manual_promotion, posted_at, distributed_at`

func scanBet(row interface{ Scan(...any) error }) (betstatus.Bet, error) {
	var (
		b        betstatus.Bet
		status   string
		elig     string
		deepLink sql.NullString
		odds     sql.NullFloat64
	)
	err := row.Scan(&b.ID, &b.GroupID, &b.Fixture, &b.KickoffTime, &odds, &deepLink,
		&status, &elig, &b.ManualPromotion, &b.PostedAt, &b.DistributedAt)
	if err != nil {
		return betstatus.Bet{}, err
	}
	if odds.Valid {
		v := odds.Float64
		b.Odds = &v
	}
	if deepLink.Valid {
		b.DeepLink = deepLink.String
	}
	b.Status = betstatus.Status(status)
	b.Eligibility = betstatus.Eligibility(elig)
	return b, nil
}

// Get carrega uma aposta escopada pelo grupo. Fora do escopo = NOT_FOUND.
func (p *Postgres) Get(ctx context.Context, groupID, id string) (betstatus.Bet, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT `+betColumns+`
		FROM suggested_bets WHERE id=$1 AND group_id=$2`, id, groupID)
	b, err := scanBet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return betstatus.Bet{}, fmt.Errorf("aposta %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return betstatus.Bet{}, fmt.Errorf("get aposta %s: %w: %v", id, apperr.ErrDB, err)
	}
	return b, nil
}

// Update grava os campos mutáveis de uma aposta. Nunca toca posted_at: marcar
// posted é exclusividade de MarkPosted.
func (p *Postgres) Update(ctx context.Context, b betstatus.Bet) error {
	var deepLink any
	if b.DeepLink != "" {
		deepLink = b.DeepLink
	}
	res, err := p.db.ExecContext(ctx, `
		UPDATE suggested_bets
		SET odds=$3, deep_link=$4, bet_status=$5, eligibility=$6,
		    manual_promotion=$7, updated_at=now()
		WHERE id=$1 AND group_id=$2`,
		b.ID, b.GroupID, b.Odds, deepLink, string(b.Status), string(b.Eligibility), b.ManualPromotion)
	if err != nil {
		return fmt.Errorf("update aposta %s: %w: %v", b.ID, apperr.ErrDB, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("aposta %s: %w", b.ID, apperr.ErrNotFound)
	}
	return nil
}

// MarkPosted marca a aposta como postada. Condicional no status: uma aposta já
// postada não é re-marcada (retorna false), então dois workers disputando o
// mesmo slot produzem no máximo um envio.
func (p *Postgres) MarkPosted(ctx context.Context, groupID, id string, now time.Time) (bool, error) {
	res, err := p.db.ExecContext(ctx, `
		UPDATE suggested_bets
		SET bet_status='posted', posted_at=$3, distributed_at=$3, updated_at=now()
		WHERE id=$1 AND group_id=$2 AND bet_status <> 'posted'`,
		id, groupID, now)
	if err != nil {
		return false, fmt.Errorf("mark posted %s: %w: %v", id, apperr.ErrDB, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SelectPostingQueue retorna as candidatas à fila de postagem: elegíveis, com
// link, não postadas e com kickoff no futuro. O corte fino (odd mínima) é do
// filtro puro em schedule.FilterQueue.
func (p *Postgres) SelectPostingQueue(ctx context.Context, groupID string, now time.Time) ([]betstatus.Bet, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT `+betColumns+`
		FROM suggested_bets
		WHERE group_id=$1
		  AND eligibility='elegivel'
		  AND deep_link IS NOT NULL
		  AND bet_status <> 'posted'
		  AND kickoff_time > $2
		ORDER BY kickoff_time ASC`, groupID, now)
	if err != nil {
		return nil, fmt.Errorf("select fila grupo %s: %w: %v", groupID, apperr.ErrDB, err)
	}
	defer rows.Close()

	var out []betstatus.Bet
	for rows.Next() {
		b, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fila grupo %s: %w: %v", groupID, apperr.ErrDB, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetSchedule carrega a agenda de um grupo (slots ordenados por horário).
func (p *Postgres) GetSchedule(ctx context.Context, groupID string) (GroupSchedule, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT slot_time, enabled FROM group_schedules
		WHERE group_id=$1 ORDER BY slot_time ASC`, groupID)
	if err != nil {
		return GroupSchedule{}, fmt.Errorf("get agenda grupo %s: %w: %v", groupID, apperr.ErrDB, err)
	}
	defer rows.Close()

	sched := GroupSchedule{GroupID: groupID}
	found := false
	for rows.Next() {
		var slot string
		var enabled bool
		if err := rows.Scan(&slot, &enabled); err != nil {
			return GroupSchedule{}, fmt.Errorf("scan agenda grupo %s: %w: %v", groupID, apperr.ErrDB, err)
		}
		found = true
		sched.Enabled = sched.Enabled || enabled
		if enabled {
			sched.Slots = append(sched.Slots, slot)
		}
	}
	if err := rows.Err(); err != nil {
		return GroupSchedule{}, fmt.Errorf("agenda grupo %s: %w: %v", groupID, apperr.ErrDB, err)
	}
	if !found {
		return GroupSchedule{}, fmt.Errorf("agenda grupo %s: %w", groupID, apperr.ErrNotFound)
	}
	return sched, nil
}

// ListEnabledSchedules retorna as agendas habilitadas de todos os grupos,
// consumidas pelo posting-worker a cada tick.
func (p *Postgres) ListEnabledSchedules(ctx context.Context) ([]GroupSchedule, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT group_id, slot_time FROM group_schedules
		WHERE enabled ORDER BY group_id, slot_time ASC`)
	if err != nil {
		return nil, fmt.Errorf("list agendas: %w: %v", apperr.ErrDB, err)
	}
	defer rows.Close()

	byGroup := map[string]*GroupSchedule{}
	var order []string
	for rows.Next() {
		var groupID, slot string
		if err := rows.Scan(&groupID, &slot); err != nil {
			return nil, fmt.Errorf("scan agendas: %w: %v", apperr.ErrDB, err)
		}
		s, ok := byGroup[groupID]
		if !ok {
			s = &GroupSchedule{GroupID: groupID, Enabled: true}
			byGroup[groupID] = s
			order = append(order, groupID)
		}
		s.Slots = append(s.Slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("agendas: %w: %v", apperr.ErrDB, err)
	}

	out := make([]GroupSchedule, 0, len(order))
	for _, g := range order {
		out = append(out, *byGroup[g])
	}
	return out, nil
}
