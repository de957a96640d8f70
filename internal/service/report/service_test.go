package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sundiag/backoffice-api/internal/email"
	"github.com/sundiag/backoffice-api/internal/model"
)

type fakeReportAPI struct {
	mis       []model.MISRow
	overall   []model.MISRow
	visits    []model.SalesVisitLog
	mappings  []model.SalesMapping
	logistics []model.LogisticsEntry
}

func (f *fakeReportAPI) MISRows(_ context.Context, _ string) ([]model.MISRow, error) {
	return f.mis, nil
}

func (f *fakeReportAPI) OverallReportRows(_ context.Context, _ string) ([]model.MISRow, error) {
	return f.overall, nil
}

func (f *fakeReportAPI) SalesVisitLogs(_ context.Context, _, _ string) ([]model.SalesVisitLog, error) {
	return f.visits, nil
}

func (f *fakeReportAPI) SalesMappings(_ context.Context) ([]model.SalesMapping, error) {
	return f.mappings, nil
}

func (f *fakeReportAPI) LogisticsEntries(_ context.Context, _ string) ([]model.LogisticsEntry, error) {
	return f.logistics, nil
}

type fakeMailer struct {
	to          []string
	subject     string
	attachments []email.Attachment
}

func (f *fakeMailer) Send(to []string, subject, _ string, attachments ...email.Attachment) error {
	f.to = to
	f.subject = subject
	f.attachments = attachments
	return nil
}

func TestMISDerivesTestsAndTAT(t *testing.T) {
	api := &fakeReportAPI{mis: []model.MISRow{
		{
			PatientID:    "P1",
			PatientName:  "Asha Patil",
			TestNames:    "CBC, LFT (SGOT - SGPT), KFT",
			RegisteredAt: "2024-01-01T08:00:00Z",
			DispatchedAt: "2024-01-01T10:05:09Z",
		},
		{
			PatientID:    "P2",
			PatientName:  "Ravi Kumar",
			TestNames:    "TSH",
			RegisteredAt: "2024-01-01T09:00:00Z",
		},
	}}
	svc := NewService(api, &fakeMailer{})

	rows, err := svc.MIS(context.Background(), "2024-01-01")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"CBC", "LFT (SGOT - SGPT)", "KFT"}, rows[0].Tests)
	assert.Equal(t, "02H:05M:09S", rows[0].TAT)
	assert.Equal(t, "Pending", rows[1].TAT)

	_, err = svc.MIS(context.Background(), "")
	assert.Error(t, err)
}

func TestPatientTATGroupsByIdentity(t *testing.T) {
	api := &fakeReportAPI{mis: []model.MISRow{
		{PatientID: "P1", PatientName: "Asha Patil", Age: 34, TestNames: "CBC"},
		{PatientID: "P1", PatientName: "Asha Patil", Age: 34, TestNames: "TSH"},
		{PatientID: "P1", PatientName: "Asha Patil", Age: 35, TestNames: "KFT"},
		{PatientID: "P2", PatientName: "Ravi Kumar", Age: 50, TestNames: "LFT"},
	}}
	svc := NewService(api, &fakeMailer{})

	groups, err := svc.PatientTAT(context.Background(), "2024-01-01")
	require.NoError(t, err)
	require.Len(t, groups, 3)

	assert.Equal(t, []string{"CBC", "TSH"}, groups[0].Tests)
	assert.Len(t, groups[0].Rows, 2)
	// same id but different age stays a separate group
	assert.Equal(t, 35, groups[1].Age)
	assert.Equal(t, "P2", groups[2].PatientID)
}

func TestSalesVisitsGrouping(t *testing.T) {
	api := &fakeReportAPI{visits: []model.SalesVisitLog{
		{Salesperson: "N. Joshi", ClientName: "City Clinic"},
		{Salesperson: "P. Shah", ClientName: "Apex Hospital"},
		{Salesperson: "N. Joshi", ClientName: "Dr. Rao"},
	}}
	svc := NewService(api, &fakeMailer{})

	groups, err := svc.SalesVisits(context.Background(), "", "2024-01")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, 2, groups[0].VisitCount)
	assert.Equal(t, 1, groups[1].VisitCount)
}

func TestLogisticsGrouping(t *testing.T) {
	api := &fakeReportAPI{logistics: []model.LogisticsEntry{
		{Runner: "S. Pawar", Pickups: 4},
		{Runner: "S. Pawar", Pickups: 3},
		{Runner: "M. Khan", Pickups: 5},
	}}
	svc := NewService(api, &fakeMailer{})

	groups, err := svc.Logistics(context.Background(), "2024-01-01")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, 7, groups[0].TotalPickups)
	assert.Equal(t, 5, groups[1].TotalPickups)
}

func TestExportMIS(t *testing.T) {
	api := &fakeReportAPI{mis: []model.MISRow{{PatientID: "P1", TestNames: "CBC"}}}
	svc := NewService(api, &fakeMailer{})

	data, contentType, err := svc.ExportMIS(context.Background(), "2024-01-01", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, string(data), "Patient ID")

	data, _, err = svc.ExportMIS(context.Background(), "2024-01-01", "xlsx")
	require.NoError(t, err)
	assert.Equal(t, "PK", string(data[:2]))

	_, _, err = svc.ExportMIS(context.Background(), "2024-01-01", "docx")
	assert.Error(t, err)
}

func TestEmailMIS(t *testing.T) {
	mailer := &fakeMailer{}
	api := &fakeReportAPI{mis: []model.MISRow{{PatientID: "P1", TestNames: "CBC"}}}
	svc := NewService(api, mailer)

	err := svc.EmailMIS(context.Background(), "2024-01-01", []string{"ops@sundiag.example"})
	require.NoError(t, err)
	assert.Equal(t, "MIS report 2024-01-01", mailer.subject)
	require.Len(t, mailer.attachments, 1)
	assert.Equal(t, "mis-2024-01-01.xlsx", mailer.attachments[0].Filename)

	err = svc.EmailMIS(context.Background(), "2024-01-01", nil)
	assert.Error(t, err)
}
