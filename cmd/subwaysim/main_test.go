package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMatrix = `,Finch,Eglinton,Bloor-Yonge,Union
Finch,-,10,17,26
Eglinton,10,-,7,16
Bloor-Yonge,17,7,-,9
Union,26,16,9,-
`

func writeTestMatrix(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "travel.csv")
	require.NoError(t, os.WriteFile(path, []byte(testMatrix), 0o644))
	return path
}

func TestRunSimulation(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	var stdout bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{
		"--config", filepath.Join(t.TempDir(), "config.toml"),
		"--data", writeTestMatrix(t),
		"--out", outDir,
		"--people", "200",
		"--sweep-max", "5",
	})
	require.NoError(t, cmd.Execute())

	report := stdout.String()
	assert.Contains(t, report, "=== Simulation Report ===")
	assert.Contains(t, report, "Passengers generated: 200")
	assert.Contains(t, report, "Interval sweep")

	for _, name := range []string{
		"passengers.csv",
		"arrivals.png",
		"wait_vs_interval.png",
		"demand_vs_interval.png",
		"travel_vs_wait.png",
	} {
		info, err := os.Stat(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0), name)
	}
}

func TestRunSimulationConfigFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[simulation]\npeople = 25\n"), 0o644))

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{
		"--config", configPath,
		"--data", writeTestMatrix(t),
		"--out", filepath.Join(dir, "out"),
		"--sweep-max", "3",
	})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "Passengers generated: 25")
}

func TestRunSimulationMissingData(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{
		"--config", filepath.Join(t.TempDir(), "config.toml"),
		"--data", filepath.Join(t.TempDir(), "nope.csv"),
		"--out", filepath.Join(t.TempDir(), "out"),
	})
	require.Error(t, cmd.Execute())
}

func TestRunSimulationRejectsBadInterval(t *testing.T) {
	for _, interval := range []string{"0", "-5"} {
		cmd := newRootCmd()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))
		cmd.SetArgs([]string{
			"--config", filepath.Join(t.TempDir(), "config.toml"),
			"--data", writeTestMatrix(t),
			"--out", filepath.Join(t.TempDir(), "out"),
			"--interval", interval,
		})
		require.Error(t, cmd.Execute(), "interval %s", interval)
	}
}

func TestStationsCmd(t *testing.T) {
	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"stations", "--data", writeTestMatrix(t)})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "Finch\nEglinton\nBloor-Yonge\nUnion\n", stdout.String())
}
