package testkit

import (
	"context"

	"edakit/domain/core"
	"edakit/domain/report"

	"github.com/stretchr/testify/mock"
)

// MockReportRepository is a testify mock of ports.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Save(ctx context.Context, run *report.Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockReportRepository) GetByID(ctx context.Context, id core.RunID) (*report.Run, error) {
	args := m.Called(ctx, id)
	run, _ := args.Get(0).(*report.Run)
	return run, args.Error(1)
}

func (m *MockReportRepository) List(ctx context.Context, limit int) ([]*report.Run, error) {
	args := m.Called(ctx, limit)
	runs, _ := args.Get(0).([]*report.Run)
	return runs, args.Error(1)
}
