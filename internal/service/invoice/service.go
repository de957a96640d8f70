package invoice

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sundiag/backoffice-api/internal/model"
	"github.com/sundiag/backoffice-api/internal/repository"
	"github.com/sundiag/backoffice-api/internal/service/audit"
	"github.com/sundiag/backoffice-api/pkg/errors"
	"github.com/sundiag/backoffice-api/pkg/export"
)

// ErrMixedDates blocks a selection that would span two different-dated
// records of the same patient identity.
var ErrMixedDates = errors.NewConflict("cannot select records of the same patient across different dates", nil)

type Service struct {
	patients repository.PatientAPI
	auditor  *audit.Service
	labName  string
}

func NewService(patients repository.PatientAPI, auditor *audit.Service, labName string) *Service {
	return &Service{patients: patients, auditor: auditor, labName: labName}
}

// Rows fetches the patient rows backing the workspace for one date.
func (s *Service) Rows(ctx context.Context, date string) ([]*model.Patient, error) {
	rows, err := s.patients.PatientsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patient rows: %w", err)
	}
	return rows, nil
}

// Selection is the workspace state after a toggle: the expanded id set and
// the recomputed running total.
type Selection struct {
	Selected []string `json:"selected"`
	Total    string   `json:"total"`
}

// Toggle applies one row toggle against the date's rows.
func (s *Service) Toggle(ctx context.Context, date string, selected []string, toggleID string) (*Selection, error) {
	rows, err := s.Rows(ctx, date)
	if err != nil {
		return nil, err
	}

	next, err := ExpandSelection(rows, selected, toggleID)
	if err != nil {
		return nil, err
	}
	return &Selection{
		Selected: next,
		Total:    Totals(rows, next).StringFixed(2),
	}, nil
}

// SplitTestsByID resolves the patient from the date's rows, then spreads the
// amount across their active tests.
func (s *Service) SplitTestsByID(ctx context.Context, date, patientID string, amount decimal.Decimal) (*model.CreditUpdate, error) {
	rows, err := s.Rows(ctx, date)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if r.ID == patientID {
			return s.SplitAcrossTests(ctx, amount, r)
		}
	}
	return nil, errors.NewNotFound("patient row", nil)
}

// PDF renders the selection for one date.
func (s *Service) PDF(ctx context.Context, date string, selected []string, subheader string) ([]byte, error) {
	rows, err := s.Rows(ctx, date)
	if err != nil {
		return nil, err
	}
	return s.ExportPDF(rows, selected, subheader)
}

// ExpandSelection applies one toggle to the current selection. Selecting a
// row pulls in every row sharing the same identity and date; an identity
// already selected under another date blocks the toggle.
func ExpandSelection(rows []*model.Patient, selected []string, toggleID string) ([]string, error) {
	byID := make(map[string]*model.Patient, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}

	toggled, ok := byID[toggleID]
	if !ok {
		return nil, errors.NewNotFound("patient row", nil)
	}

	selectedSet := make(map[string]bool, len(selected))
	for _, id := range selected {
		selectedSet[id] = true
	}

	// Deselect: drop every row of the same identity+date.
	if selectedSet[toggleID] {
		var next []string
		for _, id := range selected {
			r := byID[id]
			if r != nil && r.Name == toggled.Name && r.Date == toggled.Date {
				continue
			}
			next = append(next, id)
		}
		return next, nil
	}

	// Guard: same identity, different date, already selected.
	for id := range selectedSet {
		r := byID[id]
		if r != nil && r.Name == toggled.Name && r.Date != toggled.Date {
			return nil, ErrMixedDates
		}
	}

	next := append([]string{}, selected...)
	for _, r := range rows {
		if r.Name == toggled.Name && r.Date == toggled.Date && !selectedSet[r.ID] {
			next = append(next, r.ID)
		}
	}
	return next, nil
}

// Totals recomputes the running total over the selection set.
func Totals(rows []*model.Patient, selected []string) decimal.Decimal {
	selectedSet := make(map[string]bool, len(selected))
	for _, id := range selected {
		selectedSet[id] = true
	}

	sum := decimal.Zero
	for _, r := range rows {
		if selectedSet[r.ID] {
			sum = sum.Add(r.TotalAmount)
		}
	}
	return sum.Round(2)
}

// EqualShare divides an amount evenly across n recipients, two decimals.
func EqualShare(amount decimal.Decimal, n int) (decimal.Decimal, error) {
	if n <= 0 {
		return decimal.Zero, errors.NewBadRequest("nothing selected to split across", nil)
	}
	return amount.Div(decimal.NewFromInt(int64(n))).Round(2), nil
}

// SplitOutcome reports one record's write in a batch. Batches are never
// transactional: every write is attempted independently and failures are
// reported per record.
type SplitOutcome struct {
	PatientID string `json:"patient_id"`
	Error     string `json:"error,omitempty"`
}

// SplitAcrossPatients applies an equal share of the credit amount to each
// selected patient, one PATCH per record, no rollback on partial failure.
func (s *Service) SplitAcrossPatients(ctx context.Context, amount decimal.Decimal, patientIDs []string) ([]SplitOutcome, error) {
	share, err := EqualShare(amount, len(patientIDs))
	if err != nil {
		return nil, err
	}

	outcomes := make([]SplitOutcome, 0, len(patientIDs))
	for _, id := range patientIDs {
		outcome := SplitOutcome{PatientID: id}
		upd := &model.CreditUpdate{CreditAmount: share}
		if _, err := s.patients.PatchCredit(ctx, id, upd); err != nil {
			outcome.Error = err.Error()
		} else {
			s.auditor.Log(ctx, "backoffice", "update", "patient_credit", id, upd)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// SplitAcrossTests spreads the credit amount evenly over one patient's
// active tests in a single credit PATCH.
func (s *Service) SplitAcrossTests(ctx context.Context, amount decimal.Decimal, patient *model.Patient) (*model.CreditUpdate, error) {
	var names []string
	for _, t := range patient.Tests {
		if !t.Cancelled {
			names = append(names, t.Name)
		}
	}

	share, err := EqualShare(amount, len(names))
	if err != nil {
		return nil, err
	}

	upd := &model.CreditUpdate{
		CreditAmount: amount.Round(2),
		TestCredits:  make(map[string]decimal.Decimal, len(names)),
	}
	for _, name := range names {
		upd.TestCredits[name] = share
	}

	if _, err := s.patients.PatchCredit(ctx, patient.ID, upd); err != nil {
		return nil, fmt.Errorf("failed to patch credit split: %w", err)
	}
	s.auditor.Log(ctx, "backoffice", "update", "patient_credit", patient.ID, upd)
	return upd, nil
}

// ExportPDF renders one invoice section per selected patient. Nothing is
// persisted; the document is built from the rows as they stand.
func (s *Service) ExportPDF(rows []*model.Patient, selected []string, subheader string) ([]byte, error) {
	selectedSet := make(map[string]bool, len(selected))
	for _, id := range selected {
		selectedSet[id] = true
	}

	doc := &export.InvoiceDoc{
		Header:    s.labName,
		Subheader: subheader,
	}
	grand := decimal.Zero
	for _, r := range rows {
		if !selectedSet[r.ID] {
			continue
		}

		section := export.InvoiceSection{
			Title: fmt.Sprintf("%s (%s)", r.Name, r.Date),
			Total: r.TotalAmount.StringFixed(2),
		}
		for _, t := range r.Tests {
			if t.Cancelled {
				continue
			}
			section.Lines = append(section.Lines, [2]string{t.Name, t.Amount.StringFixed(2)})
		}
		doc.Sections = append(doc.Sections, section)
		grand = grand.Add(r.TotalAmount)
	}

	if len(doc.Sections) == 0 {
		return nil, errors.NewBadRequest("nothing selected to export", nil)
	}
	doc.GrandTotal = grand.StringFixed(2)
	return export.InvoicePDF(doc)
}
