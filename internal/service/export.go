package service

import (
	"context"
	"fmt"

	"github.com/towtrack/backend/internal/domain"
	"github.com/towtrack/backend/internal/repo"
)

// ExportService assembles the flat trip report used by the CSV/XLSX/JSON
// export endpoint. It applies the same access scoping as trip listing:
// drivers export only their own trips.
type ExportService struct {
	trips repo.TripRepo
}

// NewExportService constructs an ExportService backed by the provided TripRepo.
func NewExportService(trips repo.TripRepo) *ExportService {
	return &ExportService{trips: trips}
}

// Report returns one row per trip matching the filter as scoped to the
// actor, newest trip first. Always returns a non-nil slice.
func (s *ExportService) Report(ctx context.Context, actor domain.Actor, f domain.TripFilter) ([]domain.TripReportRow, error) {
	rows, err := s.trips.ListReport(ctx, f.ScopedTo(actor))
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Report: %w", err)
	}
	if rows == nil {
		rows = []domain.TripReportRow{}
	}
	return rows, nil
}
