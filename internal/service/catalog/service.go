package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sundiag/backoffice-api/internal/model"
	"github.com/sundiag/backoffice-api/internal/repository"
	"github.com/sundiag/backoffice-api/internal/service/audit"
	"github.com/sundiag/backoffice-api/pkg/errors"
)

type Service struct {
	catalog repository.CatalogAPI
	auditor *audit.Service
}

func NewService(catalog repository.CatalogAPI, auditor *audit.Service) *Service {
	return &Service{catalog: catalog, auditor: auditor}
}

// CreateRequest carries a new catalog entry. Parameters arrive as the
// editor's repeatable rows; blank rows are tolerated and dropped.
type CreateRequest struct {
	Name           string            `json:"name" binding:"required"`
	Shortcut       string            `json:"shortcut"`
	Department     string            `json:"department"`
	Method         string            `json:"method"`
	Container      string            `json:"container"`
	SpecimenType   string            `json:"specimen_type"`
	ReferenceRange string            `json:"reference_range"`
	Units          string            `json:"units"`
	PriceRetail    string            `json:"price_retail"`
	PriceB2B       string            `json:"price_b2b"`
	Parameters     []model.Parameter `json:"parameters"`
}

// Create validates and persists a catalog entry, then returns it so the
// editor can reset to a single empty parameter row.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*model.TestCatalogEntry, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.NewBadRequest("test name is required", nil)
	}

	priceRetail, err := parsePrice(req.PriceRetail, "retail")
	if err != nil {
		return nil, err
	}
	priceB2B, err := parsePrice(req.PriceB2B, "b2b")
	if err != nil {
		return nil, err
	}

	entry := &model.TestCatalogEntry{
		Name:           strings.TrimSpace(req.Name),
		Shortcut:       strings.TrimSpace(req.Shortcut),
		Department:     req.Department,
		Method:         req.Method,
		Container:      req.Container,
		SpecimenType:   req.SpecimenType,
		ReferenceRange: req.ReferenceRange,
		Units:          req.Units,
		PriceRetail:    priceRetail,
		PriceB2B:       priceB2B,
		Parameters:     prunedParameters(req.Parameters),
	}

	created, err := s.catalog.CreateTestEntry(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to create test entry: %w", err)
	}

	s.auditor.Log(ctx, "backoffice", "create", "test_catalog_entry", created.ID, created)
	return created, nil
}

// List fetches the full catalog.
func (s *Service) List(ctx context.Context) ([]model.TestCatalogEntry, error) {
	entries, err := s.catalog.ListTestEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list test entries: %w", err)
	}
	return entries, nil
}

func parsePrice(input, tier string) (decimal.Decimal, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return decimal.Zero, nil
	}
	price, err := decimal.NewFromString(input)
	if err != nil {
		return decimal.Zero, errors.NewBadRequest(fmt.Sprintf("invalid %s price", tier), err)
	}
	if price.IsNegative() {
		return decimal.Zero, errors.NewBadRequest(fmt.Sprintf("%s price cannot be negative", tier), nil)
	}
	return price, nil
}

func prunedParameters(params []model.Parameter) []model.Parameter {
	var kept []model.Parameter
	for _, p := range params {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}
