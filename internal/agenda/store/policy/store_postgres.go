package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"ajanda/internal/agenda/dates"
	"ajanda/internal/agenda/models"
	id "ajanda/pkg/domain"
	"ajanda/pkg/platform/sentinel"
	txcontext "ajanda/pkg/platform/tx"
)

// Postgres implements Store over database/sql. The agenda query joins the
// customer, company and product display fields the normalizer needs, so one
// round-trip serves a whole fetch cycle.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed policy store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const policyColumns = `
	p.id, p.policy_no, p.status, p.type, COALESCE(ip.name_tr, ''),
	p.start_date, p.end_date, p.premium, COALESCE(p.commission, 0),
	COALESCE(p.description, ''), p.is_acknowledged,
	COALESCE(p.customer_id::text, ''), COALESCE(c.full_name, ''), COALESCE(c.phone, ''),
	COALESCE(p.company_id::text, ''), COALESCE(sc.name, ''), p.created_at`

const policyJoins = `
	FROM policies p
	LEFT JOIN customers c ON c.id = p.customer_id
	LEFT JOIN settings_companies sc ON sc.id = p.company_id
	LEFT JOIN insurance_products ip ON ip.id = p.product_id`

func (s *Postgres) Query(ctx context.Context, f Filter) ([]models.Policy, error) {
	var (
		where []string
		args  []any
	)
	if len(f.StatusIn) > 0 {
		statuses := make([]string, 0, len(f.StatusIn))
		for _, st := range f.StatusIn {
			statuses = append(statuses, string(st))
		}
		args = append(args, pq.Array(statuses))
		where = append(where, fmt.Sprintf("p.status = ANY($%d)", len(args)))
	}
	if !f.EndDateFrom.IsZero() {
		args = append(args, f.EndDateFrom.Format(dates.DateLayout))
		where = append(where, fmt.Sprintf("p.end_date >= $%d", len(args)))
	}

	query := "SELECT" + policyColumns + policyJoins
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.end_date ASC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query policies: %w", err)
	}
	defer rows.Close()

	var out []models.Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate policies: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPolicy(row rowScanner) (models.Policy, error) {
	var (
		p                     models.Policy
		rawID, custID, compID string
		status                string
	)
	err := row.Scan(
		&rawID, &p.PolicyNo, &status, &p.Type, &p.ProductName,
		&p.StartDate, &p.EndDate, &p.Premium, &p.Commission,
		&p.Description, &p.IsAcknowledged,
		&custID, &p.CustomerName, &p.CustomerPhone,
		&compID, &p.CompanyName, &p.CreatedAt,
	)
	if err != nil {
		return models.Policy{}, fmt.Errorf("scan policy: %w", err)
	}
	p.Status = models.PolicyStatus(status)

	// DATE columns decode as midnight UTC; the agenda compares local
	// calendar days, so the term dates are rebased onto the local zone.
	p.StartDate = dates.AsLocalDay(p.StartDate)
	p.EndDate = dates.AsLocalDay(p.EndDate)

	parsedID, err := id.ParsePolicyID(rawID)
	if err != nil {
		return models.Policy{}, fmt.Errorf("policy row id: %w", err)
	}
	p.ID = parsedID
	if custID != "" {
		if cid, err := id.ParseCustomerID(custID); err == nil {
			p.CustomerID = cid
		}
	}
	if compID != "" {
		if cid, err := id.ParseCompanyID(compID); err == nil {
			p.CompanyID = cid
		}
	}
	return p, nil
}

func (s *Postgres) GetByID(ctx context.Context, policyID id.PolicyID) (*models.Policy, error) {
	query := "SELECT" + policyColumns + policyJoins + " WHERE p.id = $1"
	p, err := scanPolicy(s.db.QueryRowContext(ctx, query, policyID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Postgres) Insert(ctx context.Context, p models.Policy) (id.PolicyID, error) {
	return s.insert(ctx, s.execer(ctx), p)
}

func (s *Postgres) insert(ctx context.Context, exec dbExecutor, p models.Policy) (id.PolicyID, error) {
	var customerID, companyID any
	if !p.CustomerID.IsNil() {
		customerID = p.CustomerID.String()
	}
	if !p.CompanyID.IsNil() {
		companyID = p.CompanyID.String()
	}

	var rawID string
	err := exec.QueryRowContext(ctx, `
		INSERT INTO policies (
			policy_no, status, type, start_date, end_date,
			premium, commission, description, is_acknowledged,
			customer_id, company_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		p.PolicyNo, string(p.Status), p.Type,
		p.StartDate.Format(dates.DateLayout), p.EndDate.Format(dates.DateLayout),
		p.Premium, p.Commission, p.Description, p.IsAcknowledged,
		customerID, companyID,
	).Scan(&rawID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return id.PolicyID{}, sentinel.ErrConflict
		}
		return id.PolicyID{}, fmt.Errorf("insert policy: %w", err)
	}
	return id.ParsePolicyID(rawID)
}

func (s *Postgres) Update(ctx context.Context, policyID id.PolicyID, update models.PolicyUpdate) error {
	return s.update(ctx, s.execer(ctx), policyID, update)
}

func (s *Postgres) update(ctx context.Context, exec dbExecutor, policyID id.PolicyID, update models.PolicyUpdate) error {
	var (
		sets []string
		args []any
	)
	if update.Status != nil {
		args = append(args, string(*update.Status))
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if update.IsAcknowledged != nil {
		args = append(args, *update.IsAcknowledged)
		sets = append(sets, fmt.Sprintf("is_acknowledged = $%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, policyID.String())

	res, err := exec.ExecContext(ctx,
		fmt.Sprintf("UPDATE policies SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args)),
		args...,
	)
	if err != nil {
		return fmt.Errorf("update policy: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update policy rows: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Renew marks the predecessor and inserts the successor in one transaction.
func (s *Postgres) Renew(ctx context.Context, policyID id.PolicyID, mark models.PolicyUpdate, successor models.Policy) (id.PolicyID, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return id.PolicyID{}, fmt.Errorf("begin renewal tx: %w", err)
	}
	defer dbTx.Rollback() //nolint:errcheck // no-op after commit

	if err := s.update(ctx, dbTx, policyID, mark); err != nil {
		return id.PolicyID{}, err
	}
	successorID, err := s.insert(ctx, dbTx, successor)
	if err != nil {
		return id.PolicyID{}, err
	}
	if err := dbTx.Commit(); err != nil {
		return id.PolicyID{}, fmt.Errorf("commit renewal tx: %w", err)
	}
	return successorID, nil
}
