package luatable

import (
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeGlobal(t *testing.T) {
	src := []byte(`
OtherAddonDB = { unrelated = true }
ScribeyDB = { version = "1.2.0", count = 3 }
`)
	val, err := DecodeGlobal(src, "ScribeyDB")
	require.NoError(t, err)
	assert.Equal(t, Map(map[string]Value{
		"version": String("1.2.0"),
		"count":   Number(3),
	}), val)
}

func TestDecodeGlobal_NotFound(t *testing.T) {
	src := []byte(`OtherAddonDB = {}`)
	_, err := DecodeGlobal(src, "ScribeyDB")
	assert.ErrorIs(t, err, ErrGlobalNotFound)
}

// TestDecodeGlobal_FirstMatchWins pins the duplicate-assignment rule: only
// the first assignment to the requested name is used, even when a later one
// would yield a different value.
func TestDecodeGlobal_FirstMatchWins(t *testing.T) {
	src := []byte(`
ScribeyDB = { generation = 1 }
ScribeyDB = { generation = 2 }
`)
	val, err := DecodeGlobal(src, "ScribeyDB")
	require.NoError(t, err)
	gen, ok := val.Field("generation")
	require.True(t, ok)
	assert.Equal(t, Number(1), gen)
}

// TestDecodeGlobal_RoundTrip checks that encoding an arbitrary value tree as
// table-literal text and decoding it again reproduces the tree, modulo the
// one documented normalization: empty maps decode as empty arrays.
func TestDecodeGlobal_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		val  Value
		want Value // defaults to val when zero
	}{
		{name: "Scalars", val: Array(Nil(), Bool(true), Bool(false), Number(42), Number(-2.5), String("hi"))},
		{name: "EscapedString", val: String("line\nquote\"slash\\")},
		{
			name: "NestedMap",
			val: Map(map[string]Value{
				"characters": Map(map[string]Value{
					"Foo-Bar": Map(map[string]Value{
						"level":       Number(60),
						"professions": Array(String("Tailoring"), String("Enchanting")),
					}),
				}),
				"count": Number(1),
			}),
		},
		{name: "EmptyArray", val: Array()},
		{
			name: "EmptyMapNormalizes",
			val:  Map(map[string]Value{}),
			want: Array(),
		},
		{
			name: "NestedEmptyMapNormalizes",
			val:  Map(map[string]Value{"empty": Map(map[string]Value{})}),
			want: Map(map[string]Value{"empty": Array()}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "RoundTripDB = " + encodeValue(tt.val)
			got, err := DecodeGlobal([]byte(src), "RoundTripDB")
			require.NoError(t, err, "source: %s", src)

			want := tt.want
			if want.Kind == KindNil && tt.val.Kind != KindNil {
				want = tt.val
			}
			assert.Equal(t, want, got, "source: %s", src)
		})
	}
}

// encodeValue renders a Value as table-literal text, the inverse of decoding.
// Map keys are emitted sorted so failures are reproducible.
func encodeValue(v Value) string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNumber:
		return FormatNumber(v.Number)
	case KindString:
		return strconv.Quote(v.Str)
	case KindArray:
		parts := make([]string, 0, len(v.Array))
		for _, elem := range v.Array {
			parts = append(parts, encodeValue(elem))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindMap:
		keys := make([]string, 0, len(v.Map))
		for key := range v.Map {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, "["+strconv.Quote(key)+"] = "+encodeValue(v.Map[key]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "nil"
	}
}
