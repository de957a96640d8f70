package billing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sundiag/backoffice-api/internal/config"
	"github.com/sundiag/backoffice-api/internal/model"
)

type fakePatientAPI struct {
	patients []*model.Patient
	patched  []*model.BillingUpdate
}

func (f *fakePatientAPI) PatientsByDate(_ context.Context, _ string) ([]*model.Patient, error) {
	return f.patients, nil
}

func (f *fakePatientAPI) PatchBilling(_ context.Context, id string, upd *model.BillingUpdate) (*model.Patient, error) {
	f.patched = append(f.patched, upd)
	return &model.Patient{ID: id, Tests: upd.Tests, TotalAmount: upd.TotalAmount}, nil
}

func (f *fakePatientAPI) PatchCredit(_ context.Context, id string, _ *model.CreditUpdate) (*model.Patient, error) {
	return &model.Patient{ID: id}, nil
}

type fakeCatalogAPI struct {
	entries []model.TestCatalogEntry
}

func (f *fakeCatalogAPI) CreateTestEntry(_ context.Context, e *model.TestCatalogEntry) (*model.TestCatalogEntry, error) {
	return e, nil
}

func (f *fakeCatalogAPI) ListTestEntries(_ context.Context) ([]model.TestCatalogEntry, error) {
	return f.entries, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestApplyDiscount(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		input    string
		want     string
	}{
		{"percentage", "1000", "10%", "900"},
		{"flat", "1000", "150", "850"},
		{"empty input keeps subtotal", "1000", "", "1000"},
		{"flat larger than subtotal floors at zero", "100", "250", "0"},
		{"over hundred percent floors at zero", "100", "150%", "0"},
		{"percentage with spaces", "200", " 50% ", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyDiscount(dec(tt.subtotal), tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.want)), "got %s want %s", got, tt.want)
		})
	}

	_, err := ApplyDiscount(dec("100"), "abc")
	assert.Error(t, err)
	_, err = ApplyDiscount(dec("100"), "abc%")
	assert.Error(t, err)
}

func TestPriceFor(t *testing.T) {
	entry := &model.TestCatalogEntry{PriceRetail: dec("500"), PriceB2B: dec("350")}

	p, err := PriceFor(entry, model.SegmentB2B)
	require.NoError(t, err)
	assert.True(t, p.Equal(dec("350")))

	p, err = PriceFor(entry, model.SegmentWalkIn)
	require.NoError(t, err)
	assert.True(t, p.Equal(dec("500")))

	p, err = PriceFor(entry, model.SegmentHomeCollection)
	require.NoError(t, err)
	assert.True(t, p.Equal(dec("500")))

	_, err = PriceFor(entry, model.Segment("Corporate"))
	assert.Error(t, err)
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, "300.00", Remaining(dec("1000"), dec("700")).StringFixed(2))
	assert.Equal(t, "0.00", Remaining(dec("500"), dec("700")).StringFixed(2))
	assert.Equal(t, "333.33", Remaining(dec("1000"), dec("666.67")).StringFixed(2))
}

func TestLookupTestShortcutShortCircuits(t *testing.T) {
	catalog := &fakeCatalogAPI{entries: []model.TestCatalogEntry{
		{Name: "Complete Blood Count", Shortcut: "CBC"},
		{Name: "CBC Advanced Panel"},
		{Name: "Thyroid Profile", Shortcut: "TSH"},
	}}
	svc := NewService(&fakePatientAPI{}, catalog, nil, config.BillingConfig{})

	// alias match wins even though a name also prefix-matches
	matches, err := svc.LookupTest(context.Background(), "cbc")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Complete Blood Count", matches[0].Name)

	// no alias: normal prefix filtering
	matches, err = svc.LookupTest(context.Background(), "thy")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Thyroid Profile", matches[0].Name)

	matches, err = svc.LookupTest(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, matches)
}

func TestSaveBlockedWithoutTestsOrMethod(t *testing.T) {
	api := &fakePatientAPI{}
	svc := NewService(api, &fakeCatalogAPI{}, nil, config.BillingConfig{})

	res, err := svc.Save(context.Background(), "P1", "2024-01-01", &SaveRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Blocked)
	assert.Empty(t, api.patched)

	res, err = svc.Save(context.Background(), "P1", "2024-01-01", &SaveRequest{
		Tests: []model.TestLineItem{{Name: "CBC", Amount: dec("350")}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Blocked)
	assert.Empty(t, api.patched)
}

func TestSaveCreditAutofillsFullTotal(t *testing.T) {
	api := &fakePatientAPI{}
	svc := NewService(api, &fakeCatalogAPI{}, nil, config.BillingConfig{})

	_, err := svc.Save(context.Background(), "P1", "2024-01-01", &SaveRequest{
		Tests:         []model.TestLineItem{{Name: "CBC", Amount: dec("350")}, {Name: "TSH", Amount: dec("650")}},
		PaymentMethod: model.PaymentCredit,
	})
	require.NoError(t, err)
	require.Len(t, api.patched, 1)
	assert.True(t, api.patched[0].CreditAmount.Equal(dec("1000")))
}

func TestSavePartialPayment(t *testing.T) {
	api := &fakePatientAPI{}
	svc := NewService(api, &fakeCatalogAPI{}, nil, config.BillingConfig{})

	// missing secondary method is a hard validation error
	_, err := svc.Save(context.Background(), "P1", "2024-01-01", &SaveRequest{
		Tests:         []model.TestLineItem{{Name: "CBC", Amount: dec("1000")}},
		PaymentMethod: model.PaymentPartial,
	})
	require.Error(t, err)

	_, err = svc.Save(context.Background(), "P1", "2024-01-01", &SaveRequest{
		Tests:         []model.TestLineItem{{Name: "CBC", Amount: dec("1000")}},
		PaymentMethod: model.PaymentPartial,
		Partial:       &PartialInput{Method: model.PaymentCash, PaidNow: dec("700")},
	})
	require.NoError(t, err)
	require.Len(t, api.patched, 1)

	upd := api.patched[0]
	assert.Equal(t, "300.00", upd.CreditAmount.StringFixed(2))
	require.NotNil(t, upd.Partial)
	assert.Equal(t, "300.00", upd.Partial.Remaining.StringFixed(2))
	assert.Equal(t, model.PaymentCash, upd.Partial.Method)
}

func TestSaveAppliesDiscountAndSkipsCancelled(t *testing.T) {
	api := &fakePatientAPI{}
	svc := NewService(api, &fakeCatalogAPI{}, nil, config.BillingConfig{})

	_, err := svc.Save(context.Background(), "P1", "2024-01-01", &SaveRequest{
		Tests: []model.TestLineItem{
			{Name: "CBC", Amount: dec("600")},
			{Name: "TSH", Amount: dec("400")},
			{Name: "LFT", Amount: dec("999"), Cancelled: true},
		},
		DiscountInput: "10%",
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)
	require.Len(t, api.patched, 1)
	assert.Equal(t, "900.00", api.patched[0].TotalAmount.StringFixed(2))
}

func TestReceipt(t *testing.T) {
	svc := NewService(&fakePatientAPI{}, &fakeCatalogAPI{}, nil, config.BillingConfig{
		LabName: "Sun Diagnostics",
	})

	html, err := svc.Receipt(&model.Patient{
		ID:            "P1",
		Name:          "Asha Patil",
		Date:          "2024-01-01",
		TotalAmount:   dec("1234"),
		PaymentMethod: model.PaymentCash,
		Employee:      "R. Deshmukh",
		Tests: model.TestList{
			{Name: "CBC", Container: "EDTA", Amount: dec("350")},
			{Name: "Old", Amount: dec("100"), Cancelled: true},
		},
	})
	require.NoError(t, err)

	out := string(html)
	assert.Contains(t, out, "Rupees One Thousand Two Hundred Thirty Four Only")
	assert.Contains(t, out, "CBC")
	assert.NotContains(t, out, "Old")
}
