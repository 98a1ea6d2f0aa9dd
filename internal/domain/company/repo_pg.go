package company

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

type companyRepoPG struct{ pool *pgxpool.Pool }

func NewCompanyRepoPG(pool *pgxpool.Pool) CompanyRepository {
	return &companyRepoPG{pool: pool}
}

func (r *companyRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const companyCols = `id, name, contact_email, active, created_at, updated_at`

func (r *companyRepoPG) scanCompany(row pgx.Row) (*Company, error) {
	var co Company
	err := row.Scan(&co.ID, &co.Name, &co.ContactEmail, &co.Active, &co.CreatedAt, &co.UpdatedAt)
	return &co, err
}

func (r *companyRepoPG) Create(ctx context.Context, co *Company) error {
	co.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO company (id, name, contact_email, active)
		VALUES ($1,$2,$3,$4)`,
		co.ID, co.Name, co.ContactEmail, co.Active)
	return err
}

func (r *companyRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	return r.scanCompany(r.conn(ctx).QueryRow(ctx, `SELECT `+companyCols+` FROM company WHERE id = $1`, id))
}

func (r *companyRepoPG) Update(ctx context.Context, co *Company) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE company SET name=$2, contact_email=$3, active=$4, updated_at=NOW()
		WHERE id = $1`,
		co.ID, co.Name, co.ContactEmail, co.Active)
	return err
}

func (r *companyRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM company WHERE id = $1`, id)
	return err
}

func (r *companyRepoPG) List(ctx context.Context, limit, offset int) ([]*Company, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM company`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+companyCols+` FROM company ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Company
	for rows.Next() {
		co, err := r.scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, co)
	}
	return items, total, nil
}

type employeeRepoPG struct{ pool *pgxpool.Pool }

func NewEmployeeRepoPG(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepoPG{pool: pool}
}

func (r *employeeRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const employeeCols = `id, company_id, name, email, role, active, created_at, updated_at`

func (r *employeeRepoPG) scanEmployee(row pgx.Row) (*Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.CompanyID, &e.Name, &e.Email, &e.Role, &e.Active, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *employeeRepoPG) Create(ctx context.Context, e *Employee) error {
	e.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO employee (id, company_id, name, email, role, active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		e.ID, e.CompanyID, e.Name, e.Email, e.Role, e.Active)
	return err
}

func (r *employeeRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Employee, error) {
	return r.scanEmployee(r.conn(ctx).QueryRow(ctx, `SELECT `+employeeCols+` FROM employee WHERE id = $1`, id))
}

func (r *employeeRepoPG) Update(ctx context.Context, e *Employee) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE employee SET name=$2, email=$3, role=$4, active=$5, updated_at=NOW()
		WHERE id = $1`,
		e.ID, e.Name, e.Email, e.Role, e.Active)
	return err
}

func (r *employeeRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM employee WHERE id = $1`, id)
	return err
}

func (r *employeeRepoPG) ListByCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*Employee, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM employee WHERE company_id = $1`, companyID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+employeeCols+` FROM employee WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, companyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Employee
	for rows.Next() {
		e, err := r.scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, nil
}
