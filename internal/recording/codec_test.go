package recording

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldTopLevel(t *testing.T) {
	line := `{"type":"header","version":1,"w":800,"h":600}`

	raw, ok := Field(line, "type")
	require.True(t, ok)
	assert.Equal(t, `"header"`, raw)

	raw, ok = Field(line, "w")
	require.True(t, ok)
	assert.Equal(t, "800", raw)

	_, ok = Field(line, "missing")
	assert.False(t, ok)
}

func TestFieldIgnoresNestedKeys(t *testing.T) {
	// "x" appears inside the entities array; only the top-level "t" and
	// "entities" are fields of this record.
	line := `{"type":"keyframe","t":2.5,"entities":[{"id":"Player#a","x":400,"y":300,"rt":"CUSTOM"}]}`

	_, ok := Field(line, "x")
	assert.False(t, ok)

	raw, ok := Field(line, "t")
	require.True(t, ok)
	assert.Equal(t, "2.5", raw)

	raw, ok = Field(line, "entities")
	require.True(t, ok)
	assert.Equal(t, `[{"id":"Player#a","x":400,"y":300,"rt":"CUSTOM"}]`, raw)
}

func TestFieldQuotedValues(t *testing.T) {
	// Commas and braces inside quoted strings must not terminate the value.
	line := `{"type":"spawn","id":"Enemy#a,b{c}","x":1,"y":2}`

	raw, ok := Field(line, "id")
	require.True(t, ok)
	assert.Equal(t, `"Enemy#a,b{c}"`, raw)
	assert.Equal(t, "Enemy#a,b{c}", StripQuotes(raw))

	raw, ok = Field(line, "x")
	require.True(t, ok)
	assert.Equal(t, "1", raw)
}

func TestExtractArray(t *testing.T) {
	raw := `[{"id":"a","color":[1,0,0,1]},{"id":"b"}]`

	body, ok := ExtractArray(raw, 0)
	require.True(t, ok)
	assert.Equal(t, `{"id":"a","color":[1,0,0,1]},{"id":"b"}`, body)

	_, ok = ExtractArray("no array", 0)
	assert.False(t, ok)

	_, ok = ExtractArray("[1,2", 0)
	assert.False(t, ok)
}

func TestSplitTopLevel(t *testing.T) {
	parts := SplitTopLevel(`{"id":"a","color":[1,0,0,1]},{"id":"b"},3`)
	require.Len(t, parts, 3)
	assert.Equal(t, `{"id":"a","color":[1,0,0,1]}`, parts[0])
	assert.Equal(t, `{"id":"b"}`, parts[1])
	assert.Equal(t, "3", parts[2])

	assert.Nil(t, SplitTopLevel(""))
	assert.Nil(t, SplitTopLevel("   "))
	assert.Equal(t, []string{"7"}, SplitTopLevel("7"))
}

func TestFormatQuantized(t *testing.T) {
	tests := []struct {
		v        float64
		decimals int
		want     string
	}{
		{100.0, 3, "100"},
		{0.5, 3, "0.5"},
		{2.500, 3, "2.5"},
		{1.23456, 3, "1.235"},
		{-42.1, 3, "-42.1"},
		{0, 3, "0"},
		{3.14159, 0, "3"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatQuantized(tt.v, tt.decimals), "v=%v", tt.v)
	}
}

func TestQuantizedRoundTrip(t *testing.T) {
	// A quantized value parses back within half a unit of the last digit.
	values := []float64{0, 0.125, 399.9997, -17.3333, 123456.789}
	for _, v := range values {
		s := FormatQuantized(v, 3)
		got, err := ParseFloat(s)
		require.NoError(t, err)
		assert.InDelta(t, v, got, 0.0005, "v=%v s=%q", v, s)
	}
}
