package claim

import (
	"context"
	"errors"
	"fmt"

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

const claimCols = `id, company_id, client_id, sow_id, patient_id, claim_number, status,
	service_date, gross_charges, payer_name, notes, created_by, created_at, updated_at`

func (r *repoPG) scanClaim(row pgx.Row) (*Claim, error) {
	var cl Claim
	err := row.Scan(&cl.ID, &cl.CompanyID, &cl.ClientID, &cl.SOWID, &cl.PatientID, &cl.ClaimNumber,
		&cl.Status, &cl.ServiceDate, &cl.GrossCharges, &cl.PayerName, &cl.Notes, &cl.CreatedBy,
		&cl.CreatedAt, &cl.UpdatedAt)
	return &cl, err
}

func (r *repoPG) insertClaim(ctx context.Context, q queryable, cl *Claim) error {
	cl.ID = uuid.New()
	_, err := q.Exec(ctx, `
		INSERT INTO claim (id, company_id, client_id, sow_id, patient_id, claim_number, status,
			service_date, gross_charges, payer_name, notes, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		cl.ID, cl.CompanyID, cl.ClientID, cl.SOWID, cl.PatientID, cl.ClaimNumber, cl.Status,
		cl.ServiceDate, cl.GrossCharges, cl.PayerName, cl.Notes, cl.CreatedBy)
	if err != nil {
		return err
	}
	for i, p := range cl.Procedures {
		cl.Procedures[i].ClaimID = cl.ID
		cl.Procedures[i].Sequence = i + 1
		if _, err := q.Exec(ctx, `
			INSERT INTO claim_procedure (claim_id, sequence, cpt_code, charge_amount)
			VALUES ($1,$2,$3,$4)`,
			cl.ID, i+1, p.CPTCode, p.ChargeAmount); err != nil {
			return err
		}
	}
	for i, d := range cl.Diagnoses {
		cl.Diagnoses[i].ClaimID = cl.ID
		cl.Diagnoses[i].Sequence = i + 1
		if _, err := q.Exec(ctx, `
			INSERT INTO claim_diagnosis (claim_id, sequence, icd_code)
			VALUES ($1,$2,$3)`,
			cl.ID, i+1, d.ICDCode); err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) Create(ctx context.Context, cl *Claim) error {
	return r.insertClaim(ctx, r.conn(ctx), cl)
}

func (r *repoPG) loadChildren(ctx context.Context, cl *Claim) error {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT claim_id, sequence, cpt_code, charge_amount FROM claim_procedure WHERE claim_id = $1 ORDER BY sequence`, cl.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var p Procedure
		if err := rows.Scan(&p.ClaimID, &p.Sequence, &p.CPTCode, &p.ChargeAmount); err != nil {
			return err
		}
		cl.Procedures = append(cl.Procedures, p)
	}

	drows, err := r.conn(ctx).Query(ctx,
		`SELECT claim_id, sequence, icd_code FROM claim_diagnosis WHERE claim_id = $1 ORDER BY sequence`, cl.ID)
	if err != nil {
		return err
	}
	defer drows.Close()
	for drows.Next() {
		var d Diagnosis
		if err := drows.Scan(&d.ClaimID, &d.Sequence, &d.ICDCode); err != nil {
			return err
		}
		cl.Diagnoses = append(cl.Diagnoses, d)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Claim, error) {
	cl, err := r.scanClaim(r.conn(ctx).QueryRow(ctx, `SELECT `+claimCols+` FROM claim WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, cl); err != nil {
		return nil, err
	}
	return cl, nil
}

func (r *repoPG) Update(ctx context.Context, cl *Claim) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE claim SET claim_number=$2, status=$3, service_date=$4, gross_charges=$5,
			payer_name=$6, notes=$7, updated_at=NOW()
		WHERE id = $1`,
		cl.ID, cl.ClaimNumber, cl.Status, cl.ServiceDate, cl.GrossCharges, cl.PayerName, cl.Notes)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM claim WHERE id = $1`, id)
	return err
}

func (r *repoPG) list(ctx context.Context, where string, id uuid.UUID, limit, offset int) ([]*Claim, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM claim WHERE `+where+` = $1`, id).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+claimCols+` FROM claim WHERE `+where+` = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		id, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Claim
	for rows.Next() {
		cl, err := r.scanClaim(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, cl)
	}
	return items, total, nil
}

func (r *repoPG) ListBySOW(ctx context.Context, sowID uuid.UUID, limit, offset int) ([]*Claim, int, error) {
	return r.list(ctx, "sow_id", sowID, limit, offset)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Claim, int, error) {
	return r.list(ctx, "patient_id", patientID, limit, offset)
}

// InsertManyUnordered commits drafts one at a time. Each draft runs in
// its own savepoint-free insert: a constraint violation fails only that
// draft, while anything that is not a database rejection (lost
// connection, cancelled context) aborts the batch so the caller can
// report an infrastructure failure instead of blaming rows.
func (r *repoPG) InsertManyUnordered(ctx context.Context, drafts []Draft) (int, []RowFailure, error) {
	q := r.conn(ctx)
	inserted := 0
	var failures []RowFailure
	for _, d := range drafts {
		if err := r.insertClaim(ctx, q, d.Claim); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				failures = append(failures, RowFailure{
					Row:     d.Row,
					Message: fmt.Sprintf("claim rejected: %s", pgErr.Message),
				})
				continue
			}
			return inserted, failures, err
		}
		inserted++
	}
	return inserted, failures, nil
}
