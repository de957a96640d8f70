package labapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/sundiag/backoffice-api/internal/model"
	"github.com/sundiag/backoffice-api/pkg/errors"
)

// DefaultReferrerCode is used when no referrer exists yet.
const DefaultReferrerCode = "SD0000"

// CreateIntakeRecord posts the accumulated wizard record as one multipart
// request, attachment included when present.
func (c *Client) CreateIntakeRecord(ctx context.Context, rec *model.IntakeRecord) (*model.IntakeRecord, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":             rec.Name,
		"type":             rec.Type,
		"segment":          rec.Segment,
		"contact_person":   rec.ContactPerson,
		"phone":            rec.Phone,
		"email":            rec.Email,
		"address":          rec.Address,
		"city":             rec.City,
		"billing_type":     rec.BillingType,
		"credit_term_days": strconv.Itoa(rec.CreditTermDays),
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}

	if len(rec.Attachment) > 0 {
		fw, err := mw.CreateFormFile("attachment", rec.AttachmentName)
		if err != nil {
			return nil, fmt.Errorf("failed to create attachment part: %w", err)
		}
		if _, err := fw.Write(rec.Attachment); err != nil {
			return nil, fmt.Errorf("failed to write attachment: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	var created model.IntakeRecord
	err := c.cb.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/referrers/", &buf)
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())

		resp, err := c.http.Do(req)
		if err != nil {
			return errors.NewUnavailable("lab API unreachable", err)
		}
		defer resp.Body.Close()

		if err := checkStatus(resp); err != nil {
			return err
		}
		return json.NewDecoder(resp.Body).Decode(&created)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// LastReferrerCode fetches the most recently assigned referrer code, falling
// back to the default when none exists.
func (c *Client) LastReferrerCode(ctx context.Context) (string, error) {
	var out struct {
		ReferrerCode string `json:"referrerCode"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/referrers/last-code/", nil, &out); err != nil {
		if appErr, ok := errors.AsAppError(err); ok && appErr.Code == errors.ErrNotFound {
			return DefaultReferrerCode, nil
		}
		return "", err
	}
	if out.ReferrerCode == "" {
		return DefaultReferrerCode, nil
	}
	return out.ReferrerCode, nil
}

// ListClinicalNames returns the referrer lookup list.
func (c *Client) ListClinicalNames(ctx context.Context) ([]model.ClinicalName, error) {
	var out []model.ClinicalName
	if err := c.doJSON(ctx, http.MethodGet, "/api/clinical-names/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
