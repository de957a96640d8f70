package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sundiag/backoffice-api/internal/config"
	"github.com/sundiag/backoffice-api/internal/model"
	"github.com/sundiag/backoffice-api/internal/repository"
	"github.com/sundiag/backoffice-api/internal/service/audit"
	"github.com/sundiag/backoffice-api/pkg/errors"
	"github.com/sundiag/backoffice-api/pkg/export"
	"github.com/sundiag/backoffice-api/pkg/format"
)

type Service struct {
	patients repository.PatientAPI
	catalog  repository.CatalogAPI
	auditor  *audit.Service
	cfg      config.BillingConfig
}

func NewService(patients repository.PatientAPI, catalog repository.CatalogAPI, auditor *audit.Service, cfg config.BillingConfig) *Service {
	return &Service{
		patients: patients,
		catalog:  catalog,
		auditor:  auditor,
		cfg:      cfg,
	}
}

// ListPatients fetches the patients registered on a date. Malformed test
// arrays already degraded to empty during decode.
func (s *Service) ListPatients(ctx context.Context, date string) ([]*model.Patient, error) {
	if strings.TrimSpace(date) == "" {
		return nil, errors.NewBadRequest("date is required", nil)
	}
	patients, err := s.patients.PatientsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

// LookupTest resolves a typed query against the catalog. An exact shortcut
// alias match short-circuits the normal prefix filtering.
func (s *Service) LookupTest(ctx context.Context, query string) ([]model.TestCatalogEntry, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	entries, err := s.catalog.ListTestEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch test catalog: %w", err)
	}

	for _, e := range entries {
		if e.Shortcut != "" && strings.EqualFold(e.Shortcut, query) {
			return []model.TestCatalogEntry{e}, nil
		}
	}

	q := strings.ToLower(query)
	var matches []model.TestCatalogEntry
	for _, e := range entries {
		if strings.HasPrefix(strings.ToLower(e.Name), q) {
			matches = append(matches, e)
		}
	}
	return matches, nil
}

// PriceFor picks the price tier for the patient's segment: the B2B tier for
// B2B accounts, the retail tier for Walk-in and Home Collection.
func PriceFor(entry *model.TestCatalogEntry, segment model.Segment) (decimal.Decimal, error) {
	switch segment {
	case model.SegmentB2B:
		return entry.PriceB2B, nil
	case model.SegmentWalkIn, model.SegmentHomeCollection:
		return entry.PriceRetail, nil
	default:
		return decimal.Zero, errors.NewBadRequest(fmt.Sprintf("unrecognized segment %q", segment), nil)
	}
}

// ApplyDiscount interprets the discount input: a trailing "%" deducts that
// percentage of the subtotal, anything else is a flat deduction. The result
// never drops below zero.
func ApplyDiscount(subtotal decimal.Decimal, input string) (decimal.Decimal, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return subtotal.Round(2), nil
	}

	var total decimal.Decimal
	if strings.HasSuffix(input, "%") {
		pct, err := decimal.NewFromString(strings.TrimSpace(strings.TrimSuffix(input, "%")))
		if err != nil {
			return decimal.Zero, errors.NewBadRequest("invalid discount percentage", err)
		}
		total = subtotal.Mul(decimal.NewFromInt(100).Sub(pct)).Div(decimal.NewFromInt(100))
	} else {
		flat, err := decimal.NewFromString(input)
		if err != nil {
			return decimal.Zero, errors.NewBadRequest("invalid discount amount", err)
		}
		total = subtotal.Sub(flat)
	}

	if total.IsNegative() {
		total = decimal.Zero
	}
	return total.Round(2), nil
}

// Subtotal sums the non-cancelled test amounts.
func Subtotal(tests []model.TestLineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range tests {
		if t.Cancelled {
			continue
		}
		sum = sum.Add(t.Amount)
	}
	return sum
}

// Remaining computes the deferred balance of a partial payment, floored at
// zero and fixed to two decimals for display.
func Remaining(total, paidNow decimal.Decimal) decimal.Decimal {
	remaining := total.Sub(paidNow)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return remaining.Round(2)
}

// PartialInput is the secondary payment captured for a split payment.
type PartialInput struct {
	Method  string          `json:"method" binding:"required"`
	PaidNow decimal.Decimal `json:"paid_now"`
}

// SaveRequest is one billing session ready to persist.
type SaveRequest struct {
	Tests         []model.TestLineItem `json:"tests"`
	DiscountInput string               `json:"discount"`
	PaymentMethod string               `json:"payment_method"`
	Partial       *PartialInput        `json:"partial,omitempty"`
	Employee      string               `json:"employee,omitempty"`
}

// SaveResult returns the updated record plus the reloaded patient list, the
// post-mutation refetch the workspace always does.
type SaveResult struct {
	Blocked  string           `json:"blocked,omitempty"`
	Updated  *model.Patient   `json:"updated,omitempty"`
	Patients []*model.Patient `json:"patients,omitempty"`
}

// Save validates and persists a billing session via one PATCH, then reloads
// the patient list. A session without tests or a payment method is blocked
// with a message, not failed.
func (s *Service) Save(ctx context.Context, patientID, date string, req *SaveRequest) (*SaveResult, error) {
	if len(req.Tests) == 0 || req.PaymentMethod == "" {
		return &SaveResult{Blocked: "select at least one test and a payment method before saving"}, nil
	}

	subtotal := Subtotal(req.Tests)
	total, err := ApplyDiscount(subtotal, req.DiscountInput)
	if err != nil {
		return nil, err
	}

	upd := &model.BillingUpdate{
		Tests:         req.Tests,
		TotalAmount:   total,
		PaymentMethod: req.PaymentMethod,
	}

	switch req.PaymentMethod {
	case model.PaymentCredit:
		// full amount goes on credit
		upd.CreditAmount = total
	case model.PaymentPartial:
		if req.Partial == nil || req.Partial.Method == "" {
			return nil, errors.NewBadRequest("partial payment requires a secondary method and paid-now amount", nil)
		}
		remaining := Remaining(total, req.Partial.PaidNow)
		upd.CreditAmount = remaining
		upd.Partial = &model.PartialPayment{
			Method:    req.Partial.Method,
			PaidNow:   req.Partial.PaidNow,
			Remaining: remaining,
		}
	}

	updated, err := s.patients.PatchBilling(ctx, patientID, upd)
	if err != nil {
		return nil, fmt.Errorf("failed to save billing: %w", err)
	}

	s.auditor.Log(ctx, "backoffice", "update", "patient_billing", patientID, upd)

	patients, err := s.patients.PatientsByDate(ctx, date)
	if err != nil {
		// the save landed; the reload is best-effort
		return &SaveResult{Updated: updated}, nil
	}
	return &SaveResult{Updated: updated, Patients: patients}, nil
}

// Receipt renders the printable receipt for a billed patient.
func (s *Service) Receipt(patient *model.Patient) ([]byte, error) {
	lines := make([]export.ReceiptLine, 0, len(patient.Tests))
	for _, t := range patient.Tests {
		if t.Cancelled {
			continue
		}
		lines = append(lines, export.ReceiptLine{
			Name:      t.Name,
			Container: t.Container,
			Amount:    t.Amount.StringFixed(2),
		})
	}

	return export.Receipt(&export.ReceiptData{
		HeaderImage:   s.cfg.ReceiptHeaderImage,
		LabName:       s.cfg.LabName,
		LabAddress:    s.cfg.LabAddress,
		PatientName:   patient.Name,
		PatientID:     patient.ID,
		Date:          patient.Date,
		Lines:         lines,
		Total:         patient.TotalAmount.StringFixed(2),
		TotalInWords:  format.AmountInWords(patient.TotalAmount),
		PaymentMethod: patient.PaymentMethod,
		Employee:      patient.Employee,
	})
}
