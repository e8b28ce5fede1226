package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Amount
	}{
		{name: "number", raw: `1500.5`, want: 1500.5},
		{name: "numeric string", raw: `"1000"`, want: 1000},
		{name: "grouped string", raw: `" 1,250.75 "`, want: 1250.75},
		{name: "empty string", raw: `""`, want: 0},
		{name: "null", raw: `null`, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Amount
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAmountUnmarshalRejectsText(t *testing.T) {
	var got Amount
	assert.Error(t, json.Unmarshal([]byte(`"ألف"`), &got))
	assert.Error(t, json.Unmarshal([]byte(`true`), &got))
}

func TestContractDecodesStringValue(t *testing.T) {
	var c Contract
	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"title":"عقد بيع","value":"1000"}`), &c))
	assert.Equal(t, 1000.0, c.Value.Float64())

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"value":1000`)
}
