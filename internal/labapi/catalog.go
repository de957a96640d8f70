package labapi

import (
	"context"
	"net/http"

	"github.com/sundiag/backoffice-api/internal/model"
)

// CreateTestEntry posts a catalog entry with its parameter sub-records as one
// nested payload.
func (c *Client) CreateTestEntry(ctx context.Context, entry *model.TestCatalogEntry) (*model.TestCatalogEntry, error) {
	var out model.TestCatalogEntry
	if err := c.doJSON(ctx, http.MethodPost, "/api/tests/", entry, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTestEntries returns the full test catalog for billing lookups.
func (c *Client) ListTestEntries(ctx context.Context) ([]model.TestCatalogEntry, error) {
	var out []model.TestCatalogEntry
	if err := c.doJSON(ctx, http.MethodGet, "/api/tests/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
