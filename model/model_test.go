package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name    string
		raw     interface{}
		want    string
		wantErr bool
	}{
		{name: "float", raw: 100.456, want: "100.46"},
		{name: "integer float", raw: float64(50), want: "50"},
		{name: "string", raw: "12.345", want: "12.35"},
		{name: "json number", raw: json.Number("99.999"), want: "100"},
		{name: "int", raw: 7, want: "7"},
		{name: "negative", raw: -3.125, want: "-3.13"},
		{name: "non numeric string", raw: "not-a-number", wantErr: true},
		{name: "missing", raw: nil, wantErr: true},
		{name: "bool", raw: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAmount(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			want, _ := decimal.NewFromString(tt.want)
			assert.True(t, want.Equal(got), "want %s, got %s", want, got)
		})
	}
}

func TestGenerateUUIDWithSuffix(t *testing.T) {
	id := GenerateUUIDWithSuffix("txn")
	assert.Contains(t, id, "txn_")
	assert.NotEqual(t, id, GenerateUUIDWithSuffix("txn"))
}
