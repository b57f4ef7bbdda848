package luatable

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueJSON(t *testing.T) {
	tests := []struct {
		name string
		val  Value
		json string
	}{
		{"Nil", Nil(), `null`},
		{"Bool", Bool(true), `true`},
		{"Number", Number(42), `42`},
		{"String", String("hi"), `"hi"`},
		{"EmptyArray", Array(), `[]`},
		{"Array", Array(Number(1), String("x")), `[1,"x"]`},
		{"Map", Map(map[string]Value{"a": Number(1)}), `{"a":1}`},
		{
			"Nested",
			Map(map[string]Value{"items": Array(Map(map[string]Value{"price": Number(45)}))}),
			`{"items":[{"price":45}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := json.Marshal(tt.val)
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(encoded))

			var decoded Value
			require.NoError(t, json.Unmarshal(encoded, &decoded))
			assert.Equal(t, tt.val, decoded)
		})
	}
}
