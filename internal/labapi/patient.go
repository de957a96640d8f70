package labapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sundiag/backoffice-api/internal/model"
)

// PatientsByDate lists the patients registered on a date. Test arrays decode
// through model.TestList, which tolerates the JSON-string encoding older
// records carry.
func (c *Client) PatientsByDate(ctx context.Context, date string) ([]*model.Patient, error) {
	var out []*model.Patient
	path := "/api/patients/?date=" + url.QueryEscape(date)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PatchBilling persists one billing session in a single PATCH.
func (c *Client) PatchBilling(ctx context.Context, patientID string, upd *model.BillingUpdate) (*model.Patient, error) {
	var out model.Patient
	path := "/api/patients/" + url.PathEscape(patientID) + "/"
	if err := c.doJSON(ctx, http.MethodPatch, path, upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PatchCredit updates a patient's credit amount and per-test split. Callers
// issue one call per record; batches are never transactional.
func (c *Client) PatchCredit(ctx context.Context, patientID string, upd *model.CreditUpdate) (*model.Patient, error) {
	var out model.Patient
	path := "/api/patients/" + url.PathEscape(patientID) + "/credit/"
	if err := c.doJSON(ctx, http.MethodPatch, path, upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
