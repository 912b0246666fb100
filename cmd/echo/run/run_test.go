package run

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testdataScenarios = []string{
	"../../../pkg/scenario/testdata/authorized_echo.yaml",
	"../../../pkg/scenario/testdata/vending_machine.yaml",
}

const mismatchScenario = `name: mismatch
accounts:
  - name: scratch
    owner: echo
    lamports: 1
    size: 2
transactions:
  - name: echo expected to fail
    expect_error: AccountDataTooSmall
    instructions:
      - echo:
          buffer: scratch
          data_hex: "0102"
`

func withFlags(t *testing.T, ledger string, parallel int) {
	t.Helper()
	prevLedger, prevParallelism := ledgerDir, parallelism
	ledgerDir, parallelism = ledger, parallel
	t.Cleanup(func() {
		ledgerDir, parallelism = prevLedger, prevParallelism
	})
}

func writeScenario(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestRunAll_Testdata(t *testing.T) {
	withFlags(t, "", 2)

	reports, err := runAll(testdataScenarios)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "authorized echo lifecycle", reports[0].Name)
	assert.Equal(t, "vending machine", reports[1].Name)

	var out bytes.Buffer
	assert.False(t, writeReports(&out, reports, false))
	assert.Contains(t, out.String(), "scenario: authorized echo lifecycle")
	assert.Contains(t, out.String(), "scenario: vending machine")
	assert.Contains(t, out.String(), "delta hash: ")
	assert.Contains(t, out.String(), "    Program log: Instruction: Echo")
	assert.NotContains(t, out.String(), "[UNEXPECTED]")

	var metrics bytes.Buffer
	writeMetrics(&metrics)
	assert.Contains(t, metrics.String(), "echo_instructions_total")
}

func TestRunAll_Unexpected(t *testing.T) {
	withFlags(t, "", 1)

	reports, err := runAll([]string{writeScenario(t, mismatchScenario)})
	require.NoError(t, err)

	var out bytes.Buffer
	assert.True(t, writeReports(&out, reports, false))
	assert.Contains(t, out.String(), "tx echo expected to fail: ok [UNEXPECTED]")
	assert.NotContains(t, out.String(), "\x1b[31m")

	out.Reset()
	assert.True(t, writeReports(&out, reports, true))
	assert.Contains(t, out.String(), "\x1b[31m[UNEXPECTED]\x1b[0m")
}

func TestRunAll_Ledger(t *testing.T) {
	withFlags(t, t.TempDir(), 1)

	// the second pass finds the buffer created by the first in the ledger
	reports, err := runAll([]string{testdataScenarios[0], testdataScenarios[0]})
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.False(t, reports[0].Failed())
	assert.True(t, reports[1].Failed())

	var out bytes.Buffer
	assert.True(t, writeReports(&out, reports, false))
	assert.Contains(t, out.String(), "[UNEXPECTED]")
}

func TestRunAll_MissingFile(t *testing.T) {
	withFlags(t, "", 1)

	_, err := runAll([]string{filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}
