package sow

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rcm/rcm/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const sowCols = `id, company_id, client_id, name, status, start_date, end_date, monthly_volume,
	aging_weight, payer_weight, denial_weight, floating_pool_pct, daily_cap_per_employee,
	sla_trigger_days, sla_warning_days, created_at, updated_at`

func (r *repoPG) scanSOW(row pgx.Row) (*SOW, error) {
	var s SOW
	err := row.Scan(&s.ID, &s.CompanyID, &s.ClientID, &s.Name, &s.Status, &s.StartDate, &s.EndDate, &s.MonthlyVolume,
		&s.Allocation.AgingWeight, &s.Allocation.PayerWeight, &s.Allocation.DenialWeight,
		&s.Allocation.FloatingPoolPct, &s.Allocation.DailyCapPerEmployee,
		&s.SLA.TriggerDays, &s.SLA.WarningDays, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *repoPG) Create(ctx context.Context, s *SOW) error {
	s.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO sow (id, company_id, client_id, name, status, start_date, end_date, monthly_volume,
			aging_weight, payer_weight, denial_weight, floating_pool_pct, daily_cap_per_employee,
			sla_trigger_days, sla_warning_days)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		s.ID, s.CompanyID, s.ClientID, s.Name, s.Status, s.StartDate, s.EndDate, s.MonthlyVolume,
		s.Allocation.AgingWeight, s.Allocation.PayerWeight, s.Allocation.DenialWeight,
		s.Allocation.FloatingPoolPct, s.Allocation.DailyCapPerEmployee,
		s.SLA.TriggerDays, s.SLA.WarningDays)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*SOW, error) {
	return r.scanSOW(r.conn(ctx).QueryRow(ctx, `SELECT `+sowCols+` FROM sow WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, s *SOW) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE sow SET name=$2, status=$3, start_date=$4, end_date=$5, monthly_volume=$6,
			aging_weight=$7, payer_weight=$8, denial_weight=$9, floating_pool_pct=$10,
			daily_cap_per_employee=$11, sla_trigger_days=$12, sla_warning_days=$13, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.Name, s.Status, s.StartDate, s.EndDate, s.MonthlyVolume,
		s.Allocation.AgingWeight, s.Allocation.PayerWeight, s.Allocation.DenialWeight,
		s.Allocation.FloatingPoolPct, s.Allocation.DailyCapPerEmployee,
		s.SLA.TriggerDays, s.SLA.WarningDays)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM sow WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*SOW, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM sow WHERE client_id = $1`, clientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+sowCols+` FROM sow WHERE client_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, clientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*SOW
	for rows.Next() {
		s, err := r.scanSOW(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, nil
}

func (r *repoPG) VerifyScope(ctx context.Context, sowID, clientID, companyID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM sow WHERE id = $1 AND client_id = $2 AND company_id = $3)`,
		sowID, clientID, companyID).Scan(&exists)
	return exists, err
}
