package repository

import (
	"context"
	"time"

	"github.com/sundiag/backoffice-api/internal/model"
)

// The lab core API owns all persistence and domain computation. These
// interfaces are the only surface the services depend on; internal/labapi
// implements them over HTTP.

type IntakeAPI interface {
	CreateIntakeRecord(ctx context.Context, rec *model.IntakeRecord) (*model.IntakeRecord, error)
	LastReferrerCode(ctx context.Context) (string, error)
}

type ReferrerAPI interface {
	ListClinicalNames(ctx context.Context) ([]model.ClinicalName, error)
}

type PatientAPI interface {
	PatientsByDate(ctx context.Context, date string) ([]*model.Patient, error)
	PatchBilling(ctx context.Context, patientID string, upd *model.BillingUpdate) (*model.Patient, error)
	PatchCredit(ctx context.Context, patientID string, upd *model.CreditUpdate) (*model.Patient, error)
}

type CatalogAPI interface {
	CreateTestEntry(ctx context.Context, entry *model.TestCatalogEntry) (*model.TestCatalogEntry, error)
	ListTestEntries(ctx context.Context) ([]model.TestCatalogEntry, error)
}

type ReportAPI interface {
	MISRows(ctx context.Context, date string) ([]model.MISRow, error)
	OverallReportRows(ctx context.Context, patientID string) ([]model.MISRow, error)
	SalesVisitLogs(ctx context.Context, salesperson, month string) ([]model.SalesVisitLog, error)
	SalesMappings(ctx context.Context) ([]model.SalesMapping, error)
	LogisticsEntries(ctx context.Context, date string) ([]model.LogisticsEntry, error)
}

type RefundAPI interface {
	SearchRefundCandidates(ctx context.Context, patientID, date string) ([]*model.Patient, error)
	GenerateRefundOTP(ctx context.Context, email string, summary *model.RefundSummary) (string, error)
	ProcessRefund(ctx context.Context, patientID string, testNames []string, email, otp string) (string, error)
}

// AuditRepository stores the operational audit trail locally.
type AuditRepository interface {
	Create(ctx context.Context, log *model.AuditLog) error
	List(ctx context.Context, entityType string, since time.Time) ([]*model.AuditLog, error)
}
