package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/export"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
)

// ReportingService produces the flat ticket statistics.
type ReportingService struct {
	reports    *repository.ReportRepo
	exportPath string
	log        *zap.Logger
}

// NewReportingService writes exports to the fixed exportPath.
func NewReportingService(reports *repository.ReportRepo, exportPath string, log *zap.Logger) *ReportingService {
	return &ReportingService{reports: reports, exportPath: exportPath, log: log}
}

// ExportPath is where ExportTicketReport writes.
func (s *ReportingService) ExportPath() string { return s.exportPath }

// TicketReport returns one row per ticket whose user and session both still
// exist, ordered by ticket ID.
func (s *ReportingService) TicketReport(ctx context.Context) ([]model.TicketReportRow, error) {
	rows, err := s.reports.TicketRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("ticket report: %w", err)
	}
	return rows, nil
}

// ExportResult describes a written report file.
type ExportResult struct {
	Path string `json:"path"`
	Rows int    `json:"rows"`
}

// ExportTicketReport writes the ticket report to the export path.
func (s *ReportingService) ExportTicketReport(ctx context.Context) (ExportResult, error) {
	rows, err := s.TicketReport(ctx)
	if err != nil {
		return ExportResult{}, err
	}
	if err := export.WriteTicketsXLSX(s.exportPath, rows); err != nil {
		return ExportResult{}, fmt.Errorf("write export: %w", err)
	}
	s.log.Info("ticket report exported", zap.String("path", s.exportPath), zap.Int("rows", len(rows)))
	return ExportResult{Path: s.exportPath, Rows: len(rows)}, nil
}
