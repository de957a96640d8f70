package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sundiag/backoffice-api/internal/model"
)

type fakeCatalogAPI struct {
	created []*model.TestCatalogEntry
}

func (f *fakeCatalogAPI) CreateTestEntry(_ context.Context, e *model.TestCatalogEntry) (*model.TestCatalogEntry, error) {
	e.ID = "T-1"
	f.created = append(f.created, e)
	return e, nil
}

func (f *fakeCatalogAPI) ListTestEntries(_ context.Context) ([]model.TestCatalogEntry, error) {
	return nil, nil
}

func TestCreateRequiresName(t *testing.T) {
	svc := NewService(&fakeCatalogAPI{}, nil)

	_, err := svc.Create(context.Background(), &CreateRequest{Name: "   "})
	assert.Error(t, err)
}

func TestCreateParsesPricesAndPrunesBlankParameters(t *testing.T) {
	api := &fakeCatalogAPI{}
	svc := NewService(api, nil)

	created, err := svc.Create(context.Background(), &CreateRequest{
		Name:        "Complete Blood Count",
		Shortcut:    "CBC",
		PriceRetail: "500",
		PriceB2B:    "350.50",
		Parameters: []model.Parameter{
			{Name: "Hemoglobin", Unit: "g/dL"},
			{Name: "   "},
			{Name: "WBC Count", Unit: "cells/mcL"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "T-1", created.ID)
	assert.Equal(t, "500", created.PriceRetail.String())
	assert.Equal(t, "350.5", created.PriceB2B.String())
	require.Len(t, created.Parameters, 2)
	assert.Equal(t, "Hemoglobin", created.Parameters[0].Name)
	assert.Equal(t, "WBC Count", created.Parameters[1].Name)
}

func TestCreateRejectsBadPrices(t *testing.T) {
	svc := NewService(&fakeCatalogAPI{}, nil)

	_, err := svc.Create(context.Background(), &CreateRequest{Name: "CBC", PriceRetail: "abc"})
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), &CreateRequest{Name: "CBC", PriceB2B: "-10"})
	assert.Error(t, err)
}

func TestCreateAllowsEmptyPrices(t *testing.T) {
	api := &fakeCatalogAPI{}
	svc := NewService(api, nil)

	created, err := svc.Create(context.Background(), &CreateRequest{Name: "CBC"})
	require.NoError(t, err)
	assert.True(t, created.PriceRetail.IsZero())
	assert.True(t, created.PriceB2B.IsZero())
}
