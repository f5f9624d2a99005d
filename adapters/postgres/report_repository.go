package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"edakit/domain/core"
	"edakit/domain/report"
	"edakit/internal/errors"
	"edakit/internal/migration"
	"edakit/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// runPayload stores a whole run in a JSONB column
type runPayload report.Run

// Value implements driver.Valuer
func (p runPayload) Value() (driver.Value, error) {
	return json.Marshal(report.Run(p))
}

// Scan implements sql.Scanner
func (p *runPayload) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported payload type %T", value)
	}
	var run report.Run
	if err := json.Unmarshal(bytes, &run); err != nil {
		return err
	}
	*p = runPayload(run)
	return nil
}

type runRow struct {
	ID        string     `db:"id"`
	Dataset   string     `db:"dataset"`
	Target    string     `db:"target"`
	Payload   runPayload `db:"payload"`
	CreatedAt time.Time  `db:"created_at"`
}

func (r runRow) toRun() *report.Run {
	run := report.Run(r.Payload)
	run.ID = core.RunID(r.ID)
	run.Dataset = r.Dataset
	run.Target = r.Target
	run.CreatedAt = r.CreatedAt
	return &run
}

// ReportRepositoryImpl implements ports.ReportRepository for PostgreSQL
type ReportRepositoryImpl struct {
	db *sqlx.DB
}

// NewReportRepository creates a new PostgreSQL report repository
func NewReportRepository(db *sqlx.DB) ports.ReportRepository {
	return &ReportRepositoryImpl{db: db}
}

// Open connects to PostgreSQL and verifies the connection
func Open(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	return db, nil
}

// Migrate creates the schema the repository needs
func Migrate(ctx context.Context, db *sqlx.DB) error {
	return migration.NewRunner().Run(ctx, db)
}

// Save inserts a run, replacing any run stored under the same id
func (r *ReportRepositoryImpl) Save(ctx context.Context, run *report.Run) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO eda_runs (id, dataset, target, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET dataset = EXCLUDED.dataset, target = EXCLUDED.target, payload = EXCLUDED.payload
	`, run.ID.String(), run.Dataset, run.Target, runPayload(*run), run.CreatedAt)
	if err != nil {
		return errors.DatabaseError("failed to save report run", err)
	}
	return nil
}

// GetByID retrieves a run by id
func (r *ReportRepositoryImpl) GetByID(ctx context.Context, id core.RunID) (*report.Run, error) {
	var row runRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, dataset, target, payload, created_at
		FROM eda_runs
		WHERE id = $1
	`, id.String())
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, core.NewRunNotFoundError(id.String())
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to load report run", err)
	}
	return row.toRun(), nil
}

// List returns up to limit runs, newest first
func (r *ReportRepositoryImpl) List(ctx context.Context, limit int) ([]*report.Run, error) {
	query := `
		SELECT id, dataset, target, payload, created_at
		FROM eda_runs
		ORDER BY created_at DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	var rows []runRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.DatabaseError("failed to list report runs", err)
	}

	runs := make([]*report.Run, len(rows))
	for i, row := range rows {
		runs[i] = row.toRun()
	}
	return runs, nil
}
