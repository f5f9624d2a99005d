package ports

import (
	"context"

	"edakit/domain/core"
	"edakit/domain/report"
)

// ReportRepository persists analysis runs
type ReportRepository interface {
	Save(ctx context.Context, run *report.Run) error
	// GetByID returns core.ErrRunNotFound (wrapped) when no run has the id.
	GetByID(ctx context.Context, id core.RunID) (*report.Run, error)
	// List returns the most recent runs first.
	List(ctx context.Context, limit int) ([]*report.Run, error)
}
