package labapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sundiag/backoffice-api/internal/model"
)

// SearchRefundCandidates looks up a patient's records for a date. An empty
// result is a valid outcome, not an error.
func (c *Client) SearchRefundCandidates(ctx context.Context, patientID, date string) ([]*model.Patient, error) {
	var out struct {
		Patients []*model.Patient `json:"patients"`
	}
	path := "/api/refunds/search/?patient_id=" + url.QueryEscape(patientID) + "&date=" + url.QueryEscape(date)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Patients, nil
}

// GenerateRefundOTP asks the lab core to mail an OTP to the authorizer. The
// OTP secret and expiry stay server-owned.
func (c *Client) GenerateRefundOTP(ctx context.Context, email string, summary *model.RefundSummary) (string, error) {
	body := struct {
		Email   string               `json:"email"`
		Summary *model.RefundSummary `json:"summary"`
	}{Email: email, Summary: summary}

	var out struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/refunds/otp/", body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// ProcessRefund submits the user-entered OTP for verification and, on
// success, applies the refund server-side.
func (c *Client) ProcessRefund(ctx context.Context, patientID string, testNames []string, email, otp string) (string, error) {
	body := struct {
		PatientID string   `json:"patient_id"`
		TestNames []string `json:"test_names"`
		Email     string   `json:"email"`
		OTP       string   `json:"otp"`
	}{PatientID: patientID, TestNames: testNames, Email: email, OTP: otp}

	var out struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/refunds/process/", body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
