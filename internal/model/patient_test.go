package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestListDecode(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNames []string
	}{
		{
			"native list",
			`{"tests": [{"name": "CBC", "amount": "350"}, {"name": "TSH", "amount": "500"}]}`,
			[]string{"CBC", "TSH"},
		},
		{
			"json-encoded string",
			`{"tests": "[{\"name\": \"CBC\", \"amount\": \"350\"}]"}`,
			[]string{"CBC"},
		},
		{
			"malformed string degrades to empty",
			`{"tests": "not json at all"}`,
			nil,
		},
		{
			"wrong type degrades to empty",
			`{"tests": 42}`,
			nil,
		},
		{
			"null degrades to empty",
			`{"tests": null}`,
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Patient
			require.NoError(t, json.Unmarshal([]byte(tt.input), &p))
			var names []string
			for _, item := range p.Tests {
				names = append(names, item.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}
