package roster

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAddSpecs(t *testing.T) {
	specs := ParseAddSpecs("Alpha, Beta 2, My Long Bot, Gamma 0, ,")
	require.Len(t, specs, 4)

	require.Equal(t, AddSpec{Raw: "Alpha", Name: "Alpha"}, specs[0])
	require.Equal(t, AddSpec{Raw: "Beta 2", Name: "Beta", Index: 2, HasIndex: true}, specs[1])
	// a multi-word name without a numeric tail stays intact
	require.Equal(t, AddSpec{Raw: "My Long Bot", Name: "My Long Bot"}, specs[2])
	require.Equal(t, AddSpec{Raw: "Gamma 0", Name: "Gamma", Index: 0, HasIndex: true}, specs[3])
}

func TestParseRemoveTokens(t *testing.T) {
	tokens := ParseRemoveTokens("1, 2-4, 5..7, x, 3-, -2")
	require.Len(t, tokens, 6)

	require.Equal(t, RemoveToken{Raw: "1", Start: 1, End: 1, Parsed: true}, tokens[0])
	require.Equal(t, RemoveToken{Raw: "2-4", Start: 2, End: 4, Parsed: true}, tokens[1])
	require.Equal(t, RemoveToken{Raw: "5..7", Start: 5, End: 7, Parsed: true}, tokens[2])
	require.False(t, tokens[3].Parsed)
	require.False(t, tokens[4].Parsed)
	require.False(t, tokens[5].Parsed)
}
