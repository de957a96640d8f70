package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/sundiag/backoffice-api/internal/email"
	"github.com/sundiag/backoffice-api/internal/model"
	"github.com/sundiag/backoffice-api/internal/repository"
	"github.com/sundiag/backoffice-api/pkg/errors"
	"github.com/sundiag/backoffice-api/pkg/export"
	"github.com/sundiag/backoffice-api/pkg/format"
)

type Service struct {
	reports repository.ReportAPI
	mailer  email.Service
}

func NewService(reports repository.ReportAPI, mailer email.Service) *Service {
	return &Service{reports: reports, mailer: mailer}
}

// deriveRows resolves the two computed columns of a raw MIS row: the test
// list parsed out of the packed names string and the turnaround between
// registration and dispatch.
func deriveRows(rows []model.MISRow) []model.TATRow {
	out := make([]model.TATRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.TATRow{
			MISRow: r,
			Tests:  format.SplitTestNames(r.TestNames),
			TAT:    format.Elapsed(r.RegisteredAt, r.DispatchedAt),
		})
	}
	return out
}

// groupByPatient collapses rows sharing a patient id and age into one
// parent group. Row order within a group follows the feed.
func groupByPatient(rows []model.TATRow) []model.PatientGroup {
	var groups []model.PatientGroup
	index := make(map[string]int)

	for _, r := range rows {
		key := fmt.Sprintf("%s|%d", r.PatientID, r.Age)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, model.PatientGroup{
				PatientID:   r.PatientID,
				PatientName: r.PatientName,
				Age:         r.Age,
			})
		}
		groups[i].Rows = append(groups[i].Rows, r)
		groups[i].Tests = append(groups[i].Tests, r.Tests...)
	}
	return groups
}

// MIS returns the consolidated test feed for a date with derived columns.
func (s *Service) MIS(ctx context.Context, date string) ([]model.TATRow, error) {
	if strings.TrimSpace(date) == "" {
		return nil, errors.NewBadRequest("date is required", nil)
	}
	rows, err := s.reports.MISRows(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch MIS rows: %w", err)
	}
	return deriveRows(rows), nil
}

// PatientTAT groups the date's feed by patient identity for the nested
// turnaround view.
func (s *Service) PatientTAT(ctx context.Context, date string) ([]model.PatientGroup, error) {
	rows, err := s.MIS(ctx, date)
	if err != nil {
		return nil, err
	}
	return groupByPatient(rows), nil
}

// OverallReport returns one patient's full history with derived columns.
func (s *Service) OverallReport(ctx context.Context, patientID string) ([]model.TATRow, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, errors.NewBadRequest("patient id is required", nil)
	}
	rows, err := s.reports.OverallReportRows(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch overall report: %w", err)
	}
	return deriveRows(rows), nil
}

// SalesVisits groups field-visit logs per salesperson. Both filters are
// optional; the upstream feed applies them.
func (s *Service) SalesVisits(ctx context.Context, salesperson, month string) ([]model.SalesVisitGroup, error) {
	logs, err := s.reports.SalesVisitLogs(ctx, salesperson, month)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sales visit logs: %w", err)
	}

	var groups []model.SalesVisitGroup
	index := make(map[string]int)
	for _, l := range logs {
		i, ok := index[l.Salesperson]
		if !ok {
			i = len(groups)
			index[l.Salesperson] = i
			groups = append(groups, model.SalesVisitGroup{Salesperson: l.Salesperson})
		}
		groups[i].Visits = append(groups[i].Visits, l)
		groups[i].VisitCount++
	}
	return groups, nil
}

// SalesMappings lists the referrer-to-salesperson account ownership table.
func (s *Service) SalesMappings(ctx context.Context) ([]model.SalesMapping, error) {
	mappings, err := s.reports.SalesMappings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sales mappings: %w", err)
	}
	return mappings, nil
}

// Logistics groups a date's pickup runs per runner.
func (s *Service) Logistics(ctx context.Context, date string) ([]model.LogisticsGroup, error) {
	if strings.TrimSpace(date) == "" {
		return nil, errors.NewBadRequest("date is required", nil)
	}
	entries, err := s.reports.LogisticsEntries(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logistics entries: %w", err)
	}

	var groups []model.LogisticsGroup
	index := make(map[string]int)
	for _, e := range entries {
		i, ok := index[e.Runner]
		if !ok {
			i = len(groups)
			index[e.Runner] = i
			groups = append(groups, model.LogisticsGroup{Runner: e.Runner})
		}
		groups[i].Entries = append(groups[i].Entries, e)
		groups[i].TotalPickups += e.Pickups
	}
	return groups, nil
}

// MISSheet flattens the derived feed into a tabular sheet for export.
func MISSheet(date string, rows []model.TATRow) *export.Sheet {
	sheet := &export.Sheet{
		Name:    "MIS " + date,
		Headers: []string{"Patient ID", "Patient", "Age", "Referrer", "Tests", "Registered", "Dispatched", "TAT"},
	}
	for _, r := range rows {
		sheet.Rows = append(sheet.Rows, []interface{}{
			r.PatientID, r.PatientName, r.Age, r.Referrer,
			strings.Join(r.Tests, ", "), r.RegisteredAt, r.DispatchedAt, r.TAT,
		})
	}
	return sheet
}

// ExportMIS renders the date's feed as xlsx or csv.
func (s *Service) ExportMIS(ctx context.Context, date, fileFormat string) ([]byte, string, error) {
	rows, err := s.MIS(ctx, date)
	if err != nil {
		return nil, "", err
	}

	sheet := MISSheet(date, rows)
	switch fileFormat {
	case "csv":
		data, err := export.CSV(sheet)
		return data, "text/csv", err
	case "", "xlsx":
		data, err := export.XLSX(sheet)
		return data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", err
	default:
		return nil, "", errors.NewBadRequest(fmt.Sprintf("unsupported export format %q", fileFormat), nil)
	}
}

// EmailMIS exports the date's feed as xlsx and mails it.
func (s *Service) EmailMIS(ctx context.Context, date string, to []string) error {
	if len(to) == 0 {
		return errors.NewBadRequest("at least one recipient is required", nil)
	}

	data, contentType, err := s.ExportMIS(ctx, date, "xlsx")
	if err != nil {
		return err
	}

	subject := "MIS report " + date
	body := fmt.Sprintf("<p>Attached: consolidated MIS report for %s.</p>", date)
	return s.mailer.Send(to, subject, body, email.Attachment{
		Filename:    fmt.Sprintf("mis-%s.xlsx", date),
		ContentType: contentType,
		Data:        data,
	})
}
