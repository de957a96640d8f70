package model

import "github.com/shopspring/decimal"

// Parameter is one repeatable sub-record of a catalog entry.
type Parameter struct {
	Name           string `json:"name"`
	Department     string `json:"department"`
	Method         string `json:"method"`
	Unit           string `json:"unit"`
	ReferenceRange string `json:"reference_range"`
}

// TestCatalogEntry is a lab test definition with its two price tiers.
type TestCatalogEntry struct {
	ID             string          `json:"id,omitempty"`
	Name           string          `json:"name"`
	Shortcut       string          `json:"shortcut"`
	Department     string          `json:"department"`
	Method         string          `json:"method"`
	Container      string          `json:"container"`
	SpecimenType   string          `json:"specimen_type"`
	ReferenceRange string          `json:"reference_range"`
	Units          string          `json:"units"`
	PriceRetail    decimal.Decimal `json:"price_retail"`
	PriceB2B       decimal.Decimal `json:"price_b2b"`
	Parameters     []Parameter     `json:"parameters,omitempty"`
}
