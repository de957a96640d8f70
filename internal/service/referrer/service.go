package referrer

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/sundiag/backoffice-api/internal/model"
	"github.com/sundiag/backoffice-api/internal/repository"
	"github.com/sundiag/backoffice-api/pkg/errors"
)

const (
	listCacheKey = "clinical_names"
	listCacheTTL = 5 * time.Minute
)

// Validation outcomes for the typeahead contract. Empty text and unmatched
// text are distinct errors so callers can show different messages.
var (
	ErrRequired         = errors.NewBadRequest("clinical name is required", nil)
	ErrInvalidSelection = errors.NewBadRequest("clinical name must match an existing entry", nil)
)

type Service struct {
	api   repository.ReferrerAPI
	cache *gocache.Cache
}

func NewService(api repository.ReferrerAPI) *Service {
	return &Service{
		api:   api,
		cache: gocache.New(listCacheTTL, 10*time.Minute),
	}
}

func (s *Service) list(ctx context.Context) ([]model.ClinicalName, error) {
	if v, ok := s.cache.Get(listCacheKey); ok {
		return v.([]model.ClinicalName), nil
	}

	names, err := s.api.ListClinicalNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch clinical names: %w", err)
	}
	s.cache.Set(listCacheKey, names, gocache.DefaultExpiration)
	return names, nil
}

// Suggest filters the lookup list by case-insensitive substring match.
// An empty query returns the whole list.
func (s *Service) Suggest(ctx context.Context, query string) ([]model.ClinicalName, error) {
	names, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return names, nil
	}

	q := strings.ToLower(query)
	var matches []model.ClinicalName
	for _, n := range names {
		if strings.Contains(strings.ToLower(n.ClinicalName), q) {
			matches = append(matches, n)
		}
	}
	return matches, nil
}

// Validate enforces the selection contract: when enabled, the text must
// exactly match one list entry (case-insensitive). Disabled means an empty
// selection with no error, since the field clears itself when switched off.
func (s *Service) Validate(ctx context.Context, text string, enabled bool) (*model.ReferrerSelection, error) {
	if !enabled {
		return nil, nil
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrRequired
	}

	names, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	for _, n := range names {
		if strings.EqualFold(n.ClinicalName, text) {
			return &model.ReferrerSelection{
				ReferrerCode: n.ReferrerCode,
				SalesMapping: n.SalesMapping,
				Location:     n.Location,
			}, nil
		}
	}
	return nil, ErrInvalidSelection
}
