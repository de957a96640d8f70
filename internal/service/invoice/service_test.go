package invoice

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sundiag/backoffice-api/internal/model"
)

type fakePatientAPI struct {
	credits map[string]*model.CreditUpdate
	failFor map[string]bool
}

func newFakePatientAPI() *fakePatientAPI {
	return &fakePatientAPI{
		credits: make(map[string]*model.CreditUpdate),
		failFor: make(map[string]bool),
	}
}

func (f *fakePatientAPI) PatientsByDate(_ context.Context, _ string) ([]*model.Patient, error) {
	return nil, nil
}

func (f *fakePatientAPI) PatchBilling(_ context.Context, id string, _ *model.BillingUpdate) (*model.Patient, error) {
	return &model.Patient{ID: id}, nil
}

func (f *fakePatientAPI) PatchCredit(_ context.Context, id string, upd *model.CreditUpdate) (*model.Patient, error) {
	if f.failFor[id] {
		return nil, fmt.Errorf("lab api unavailable")
	}
	f.credits[id] = upd
	return &model.Patient{ID: id}, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleRows() []*model.Patient {
	return []*model.Patient{
		{ID: "A1", Name: "Asha Patil", Date: "2024-01-01", TotalAmount: dec("100")},
		{ID: "A2", Name: "Asha Patil", Date: "2024-01-01", TotalAmount: dec("200")},
		{ID: "A3", Name: "Asha Patil", Date: "2024-01-05", TotalAmount: dec("300")},
		{ID: "B1", Name: "Ravi Kumar", Date: "2024-01-01", TotalAmount: dec("400")},
	}
}

func TestExpandSelectionPullsInSameIdentityAndDate(t *testing.T) {
	rows := sampleRows()

	sel, err := ExpandSelection(rows, nil, "A1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A1", "A2"}, sel)

	// other identities are independent
	sel, err = ExpandSelection(rows, sel, "B1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A1", "A2", "B1"}, sel)
}

func TestExpandSelectionBlocksMixedDates(t *testing.T) {
	rows := sampleRows()

	sel, err := ExpandSelection(rows, nil, "A1")
	require.NoError(t, err)

	_, err = ExpandSelection(rows, sel, "A3")
	assert.ErrorIs(t, err, ErrMixedDates)
}

func TestExpandSelectionDeselectDropsGroup(t *testing.T) {
	rows := sampleRows()

	sel, err := ExpandSelection(rows, nil, "A1")
	require.NoError(t, err)
	sel, err = ExpandSelection(rows, sel, "B1")
	require.NoError(t, err)

	sel, err = ExpandSelection(rows, sel, "A2")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"B1"}, sel)
}

func TestTotals(t *testing.T) {
	rows := sampleRows()
	total := Totals(rows, []string{"A1", "A2", "B1"})
	assert.Equal(t, "700.00", total.StringFixed(2))
}

func TestSplitAcrossPatients(t *testing.T) {
	api := newFakePatientAPI()
	svc := NewService(api, nil, "Sun Diagnostics")

	outcomes, err := svc.SplitAcrossPatients(context.Background(), dec("300"), []string{"A1", "A2", "B1"})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	for _, o := range outcomes {
		assert.Empty(t, o.Error)
		assert.Equal(t, "100.00", api.credits[o.PatientID].CreditAmount.StringFixed(2))
	}
}

func TestSplitAcrossPatientsPartialFailureContinues(t *testing.T) {
	api := newFakePatientAPI()
	api.failFor["A2"] = true
	svc := NewService(api, nil, "Sun Diagnostics")

	outcomes, err := svc.SplitAcrossPatients(context.Background(), dec("300"), []string{"A1", "A2", "B1"})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.Empty(t, outcomes[0].Error)
	assert.NotEmpty(t, outcomes[1].Error)
	assert.Empty(t, outcomes[2].Error)

	// the successes stuck, nothing was rolled back
	assert.Contains(t, api.credits, "A1")
	assert.NotContains(t, api.credits, "A2")
	assert.Contains(t, api.credits, "B1")
}

func TestSplitAcrossTests(t *testing.T) {
	api := newFakePatientAPI()
	svc := NewService(api, nil, "Sun Diagnostics")

	patient := &model.Patient{
		ID: "A1",
		Tests: model.TestList{
			{Name: "CBC", Amount: dec("350")},
			{Name: "TSH", Amount: dec("250")},
			{Name: "LFT", Amount: dec("400")},
			{Name: "KFT", Amount: dec("300")},
			{Name: "Old", Amount: dec("100"), Cancelled: true},
		},
	}

	upd, err := svc.SplitAcrossTests(context.Background(), dec("100"), patient)
	require.NoError(t, err)
	require.Len(t, upd.TestCredits, 4)
	for _, name := range []string{"CBC", "TSH", "LFT", "KFT"} {
		assert.Equal(t, "25.00", upd.TestCredits[name].StringFixed(2))
	}
	assert.NotContains(t, upd.TestCredits, "Old")
}

func TestEqualShareRejectsEmpty(t *testing.T) {
	_, err := EqualShare(dec("100"), 0)
	assert.Error(t, err)
}

func TestExportPDF(t *testing.T) {
	svc := NewService(newFakePatientAPI(), nil, "Sun Diagnostics")
	rows := sampleRows()
	rows[0].Tests = model.TestList{{Name: "CBC", Amount: dec("100")}}

	data, err := svc.ExportPDF(rows, []string{"A1", "B1"}, "Invoice - January 2024")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))

	_, err = svc.ExportPDF(rows, nil, "")
	assert.Error(t, err)
}
