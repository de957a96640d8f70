package labapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sundiag/backoffice-api/internal/model"
)

func (c *Client) MISRows(ctx context.Context, date string) ([]model.MISRow, error) {
	var out []model.MISRow
	path := "/api/reports/mis/?date=" + url.QueryEscape(date)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) OverallReportRows(ctx context.Context, patientID string) ([]model.MISRow, error) {
	var out []model.MISRow
	path := "/api/reports/overall/?patient_id=" + url.QueryEscape(patientID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SalesVisitLogs(ctx context.Context, salesperson, month string) ([]model.SalesVisitLog, error) {
	q := url.Values{}
	if salesperson != "" {
		q.Set("salesperson", salesperson)
	}
	if month != "" {
		q.Set("month", month)
	}
	path := "/api/sales/visit-logs/"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out []model.SalesVisitLog
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SalesMappings(ctx context.Context) ([]model.SalesMapping, error) {
	var out []model.SalesMapping
	if err := c.doJSON(ctx, http.MethodGet, "/api/sales/mappings/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) LogisticsEntries(ctx context.Context, date string) ([]model.LogisticsEntry, error) {
	var out []model.LogisticsEntry
	path := "/api/logistics/?date=" + url.QueryEscape(date)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
