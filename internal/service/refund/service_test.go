package refund

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sundiag/backoffice-api/internal/config"
	"github.com/sundiag/backoffice-api/internal/model"
)

type fakeRefundAPI struct {
	patients     []*model.Patient
	otpEmail     string
	otpSummary   *model.RefundSummary
	processCalls int
	processOTP   string
	failOTP      bool
	failProcess  bool
}

func (f *fakeRefundAPI) SearchRefundCandidates(_ context.Context, _, _ string) ([]*model.Patient, error) {
	return f.patients, nil
}

func (f *fakeRefundAPI) GenerateRefundOTP(_ context.Context, email string, summary *model.RefundSummary) (string, error) {
	if f.failOTP {
		return "", assert.AnError
	}
	f.otpEmail = email
	f.otpSummary = summary
	return "otp sent", nil
}

func (f *fakeRefundAPI) ProcessRefund(_ context.Context, _ string, _ []string, _, otp string) (string, error) {
	if f.failProcess {
		return "", assert.AnError
	}
	f.processCalls++
	f.processOTP = otp
	return "refund processed", nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testConfig() config.RefundConfig {
	return config.RefundConfig{Authorizers: []model.Authorizer{
		{Name: "Dr. S. Rao", Email: "rao@sundiag.example"},
		{Name: "A. Mehta", Email: "mehta@sundiag.example"},
	}}
}

func fivePatients() []*model.Patient {
	return []*model.Patient{
		{ID: "P1", Name: "Asha Patil", Tests: model.TestList{
			{Name: "CBC", Amount: dec("350")},
			{Name: "TSH", Amount: dec("250")},
		}},
		{ID: "P2", Name: "Asha Patil", Tests: model.TestList{
			{Name: "LFT", Amount: dec("400")},
			{Name: "KFT", Amount: dec("300")},
			{Name: "Old", Amount: dec("100"), Cancelled: true},
		}},
		{ID: "P3", Name: "Asha Patil", Tests: model.TestList{
			{Name: "Lipid Profile", Amount: dec("600")},
		}},
	}
}

func searchedSession(t *testing.T, svc *Service) *Session {
	t.Helper()
	session := svc.Start()
	session, err := svc.Search(context.Background(), session.ID.String(), "MRN-1001", "2024-01-01")
	require.NoError(t, err)
	return session
}

func TestSearchRequiresBothFields(t *testing.T) {
	svc := NewService(&fakeRefundAPI{}, nil, testConfig())
	session := svc.Start()

	_, err := svc.Search(context.Background(), session.ID.String(), "", "2024-01-01")
	assert.Error(t, err)
	_, err = svc.Search(context.Background(), session.ID.String(), "MRN-1001", "")
	assert.Error(t, err)

	got, err := svc.Get(session.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.RefundIdle, got.State)
}

func TestSearchEmptyResultIsStillSearched(t *testing.T) {
	svc := NewService(&fakeRefundAPI{}, nil, testConfig())
	session := searchedSession(t, svc)

	assert.Equal(t, model.RefundSearched, session.State)
	assert.NotEmpty(t, session.Message)
}

func TestToggleAndSelectionState(t *testing.T) {
	svc := NewService(&fakeRefundAPI{patients: fivePatients()}, nil, testConfig())
	session := searchedSession(t, svc)

	session, err := svc.ToggleTest(session.ID.String(), "P1", "CBC")
	require.NoError(t, err)
	assert.Equal(t, model.RefundTestsSelected, session.State)

	session, err = svc.ToggleTest(session.ID.String(), "P1", "CBC")
	require.NoError(t, err)
	assert.Equal(t, model.RefundSearched, session.State)
	assert.Empty(t, session.Selected)
}

func TestSelectAllSpansAllPatients(t *testing.T) {
	svc := NewService(&fakeRefundAPI{patients: fivePatients()}, nil, testConfig())
	session := searchedSession(t, svc)

	// a partial selection first, then select-all must cover everything
	_, err := svc.ToggleTest(session.ID.String(), "P1", "CBC")
	require.NoError(t, err)
	_, err = svc.ToggleTest(session.ID.String(), "P2", "LFT")
	require.NoError(t, err)

	session, err = svc.SelectAll(session.ID.String())
	require.NoError(t, err)

	// five active tests across three records; the cancelled one stays out
	assert.Len(t, session.Selected, 5)
	assert.True(t, session.Selected["P3|Lipid Profile"])
	assert.False(t, session.Selected["P2|Old"])
}

func TestChooseAuthorizerValidatesAgainstConfig(t *testing.T) {
	svc := NewService(&fakeRefundAPI{patients: fivePatients()}, nil, testConfig())
	session := searchedSession(t, svc)
	_, err := svc.ToggleTest(session.ID.String(), "P1", "CBC")
	require.NoError(t, err)

	_, err = svc.ChooseAuthorizer(session.ID.String(), "Nobody")
	assert.Error(t, err)

	session, err = svc.ChooseAuthorizer(session.ID.String(), "Dr. S. Rao")
	require.NoError(t, err)
	assert.Equal(t, "Dr. S. Rao", session.Authorizer)
}

func TestSendOTPGates(t *testing.T) {
	api := &fakeRefundAPI{patients: fivePatients()}
	svc := NewService(api, nil, testConfig())
	session := searchedSession(t, svc)
	id := session.ID.String()

	// no selection yet
	_, err := svc.SendOTP(context.Background(), id)
	assert.Error(t, err)

	_, err = svc.ToggleTest(id, "P1", "CBC")
	require.NoError(t, err)

	// no authorizer yet
	_, err = svc.SendOTP(context.Background(), id)
	assert.Error(t, err)

	_, err = svc.ChooseAuthorizer(id, "Dr. S. Rao")
	require.NoError(t, err)

	// no reason yet
	_, err = svc.SendOTP(context.Background(), id)
	assert.Error(t, err)

	_, err = svc.SetReason(id, "wrong test ordered")
	require.NoError(t, err)

	session, err = svc.SendOTP(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.RefundOtpSent, session.State)
	assert.True(t, session.OtpSent)
	assert.Equal(t, "rao@sundiag.example", api.otpEmail)
	require.NotNil(t, api.otpSummary)
	assert.Equal(t, []string{"CBC"}, api.otpSummary.TestNames)
	assert.Equal(t, "350.00", api.otpSummary.Amount)
	assert.Equal(t, "wrong test ordered", api.otpSummary.Reason)
}

func TestSwitchingAuthorizerInvalidatesOTP(t *testing.T) {
	api := &fakeRefundAPI{patients: fivePatients()}
	svc := NewService(api, nil, testConfig())
	session := searchedSession(t, svc)
	id := session.ID.String()

	_, err := svc.ToggleTest(id, "P1", "CBC")
	require.NoError(t, err)
	_, err = svc.ChooseAuthorizer(id, "Dr. S. Rao")
	require.NoError(t, err)
	_, err = svc.SetReason(id, "duplicate billing")
	require.NoError(t, err)
	_, err = svc.SendOTP(context.Background(), id)
	require.NoError(t, err)

	session, err = svc.ChooseAuthorizer(id, "A. Mehta")
	require.NoError(t, err)
	assert.False(t, session.OtpSent)
	assert.Equal(t, model.RefundTestsSelected, session.State)

	// re-choosing the same authorizer does not invalidate
	_, err = svc.SendOTP(context.Background(), id)
	require.NoError(t, err)
	session, err = svc.ChooseAuthorizer(id, "A. Mehta")
	require.NoError(t, err)
	assert.True(t, session.OtpSent)
}

func TestVerifyProcessesAndResets(t *testing.T) {
	api := &fakeRefundAPI{patients: fivePatients()}
	svc := NewService(api, nil, testConfig())
	session := searchedSession(t, svc)
	id := session.ID.String()

	_, err := svc.ToggleTest(id, "P1", "CBC")
	require.NoError(t, err)
	_, err = svc.ChooseAuthorizer(id, "Dr. S. Rao")
	require.NoError(t, err)
	_, err = svc.SetReason(id, "sample lost")
	require.NoError(t, err)
	_, err = svc.SendOTP(context.Background(), id)
	require.NoError(t, err)

	// empty otp never advances
	_, err = svc.Verify(context.Background(), id, "")
	assert.Error(t, err)
	got, _ := svc.Get(id)
	assert.Equal(t, model.RefundOtpSent, got.State)

	session, err = svc.Verify(context.Background(), id, "123456")
	require.NoError(t, err)
	assert.Equal(t, model.RefundRefunded, session.State)
	assert.Empty(t, session.Selected)
	assert.Equal(t, 1, api.processCalls)
	assert.Equal(t, "123456", api.processOTP)
}

func TestFailuresNeverAdvanceState(t *testing.T) {
	api := &fakeRefundAPI{patients: fivePatients(), failOTP: true}
	svc := NewService(api, nil, testConfig())
	session := searchedSession(t, svc)
	id := session.ID.String()

	_, err := svc.ToggleTest(id, "P1", "CBC")
	require.NoError(t, err)
	_, err = svc.ChooseAuthorizer(id, "Dr. S. Rao")
	require.NoError(t, err)
	_, err = svc.SetReason(id, "sample lost")
	require.NoError(t, err)

	_, err = svc.SendOTP(context.Background(), id)
	require.Error(t, err)
	got, _ := svc.Get(id)
	assert.Equal(t, model.RefundTestsSelected, got.State)
	assert.False(t, got.OtpSent)

	api.failOTP = false
	_, err = svc.SendOTP(context.Background(), id)
	require.NoError(t, err)

	api.failProcess = true
	_, err = svc.Verify(context.Background(), id, "000000")
	require.Error(t, err)
	got, _ = svc.Get(id)
	assert.Equal(t, model.RefundOtpSent, got.State)
}
