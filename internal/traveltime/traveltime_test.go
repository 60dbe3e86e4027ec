package traveltime

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "travel.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleCSV = `,Alpha,Beta,Gamma
Alpha,-,5,12
Beta,5,-,7
Gamma,12,7,-
`

func TestLoad(t *testing.T) {
	m, err := Load(writeCSV(t, sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, m.Stations())
	assert.Equal(t, 6, m.Pairs())

	v, ok := m.Duration("Alpha", "Gamma")
	require.True(t, ok)
	assert.Equal(t, 12.0, v)
}

func TestLoadDropsMissingAndNegative(t *testing.T) {
	m, err := Load(writeCSV(t, `,Alpha,Beta,Gamma
Alpha,-,-,12
Beta,,-,bogus
Gamma,-3,7,-
`))
	require.NoError(t, err)
	// Usable cells: Alpha->Gamma and Gamma->Beta only.
	assert.Equal(t, 2, m.Pairs())

	_, ok := m.Duration("Alpha", "Beta")
	assert.False(t, ok)
	_, ok = m.Duration("Gamma", "Alpha")
	assert.True(t, ok, "reverse lookup should find Alpha->Gamma")
}

func TestLoadReverseFallback(t *testing.T) {
	m, err := Load(writeCSV(t, `,Alpha,Beta,Gamma
Alpha,-,5,-
Beta,-,-,7
Gamma,-,-,-
`))
	require.NoError(t, err)
	v, ok := m.Duration("Beta", "Alpha")
	require.True(t, ok)
	assert.Equal(t, 5.0, v)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	var dataErr *DataError
	require.ErrorAs(t, err, &dataErr)
}

func TestLoadBadSchema(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"too few stations", ",Alpha\nAlpha,-\n"},
		{"ragged rows", sampleCSV + "Delta,1\n"},
		{"unnamed row", ",Alpha,Beta,Gamma\n,1,2,3\nBeta,1,-,2\nGamma,1,2,-\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeCSV(t, tc.content))
			var dataErr *DataError
			require.ErrorAs(t, err, &dataErr)
		})
	}
}

func TestDurations(t *testing.T) {
	m, err := Load(writeCSV(t, sampleCSV))
	require.NoError(t, err)
	pairs := [][2]string{
		{"Alpha", "Beta"},
		{"Gamma", "Alpha"},
		{"Alpha", "Nowhere"},
	}
	out, missing := m.Durations(pairs)
	assert.Equal(t, []float64{5, 12, 0}, out)
	assert.Equal(t, 1, missing)
}

func TestNearest(t *testing.T) {
	m, err := Load(writeCSV(t, sampleCSV))
	require.NoError(t, err)

	name, dur, ok := m.Nearest("Gamma")
	require.True(t, ok)
	assert.Equal(t, "Beta", name)
	assert.Equal(t, 7.0, dur)

	_, _, ok = m.Nearest("Nowhere")
	assert.False(t, ok)
}
