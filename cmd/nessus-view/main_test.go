package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/nessus-flatten/nessus-flatten/internal/extract"
	"github.com/nessus-flatten/nessus-flatten/internal/tui/browser"
)

const report = `<NessusClientData_v2><Report name="scan" xmlns:cm="http://www.nessus.org/cm">
<ReportHost name="web01">
  <ReportItem pluginID="21156" severity="3" pluginName="Windows Compliance Checks">
    <cm:compliance-check-name>Password Policy</cm:compliance-check-name>
    <cm:compliance-result>FAILED</cm:compliance-result>
  </ReportItem>
  <ReportItem pluginID="10000" severity="4" pluginName="OpenSSH Multiple Vulnerabilities">
    <cvss_base_score>9.8</cvss_base_score>
    <cve>CVE-2023-38408</cve>
  </ReportItem>
</ReportHost>
</Report></NessusClientData_v2>`

func writeReport(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan.nessus")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// capture records the model handed to the program instead of starting it.
type capture struct {
	model browser.Model
	calls int
}

func (c *capture) start(_ context.Context, m tea.Model) error {
	c.calls++
	c.model = m.(browser.Model)
	return nil
}

func TestRun_BuildsEveryTab(t *testing.T) {
	in := writeReport(t, report)
	var c capture
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"--variant", "patches", in}, &stdout, &stderr, c.start)
	require.Equal(t, 0, code, stdout.String())
	require.Equal(t, 1, c.calls)
	require.Equal(t, extract.VariantPatches, c.model.Active())

	updated, _ := c.model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	view := updated.View()
	require.Contains(t, view, "compliance (1)")
	require.Contains(t, view, "general (1)")
	require.Contains(t, view, "patches (2)")
	require.Contains(t, view, "OpenSSH Multiple Vulnerabilities")
}

func TestRun_ExtractorErrorStaysOnTab(t *testing.T) {
	in := writeReport(t, `<Report><ReportHost name="a"><ReportItem pluginID="1" severity="high"/></ReportHost></Report>`)
	var c capture
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{in}, &stdout, &stderr, c.start)
	require.Equal(t, 0, code)
	require.Equal(t, 1, c.calls)
	require.Contains(t, stderr.String(), "extraction failed")

	updated, _ := c.model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	require.Contains(t, updated.View(), "invalid severity")
}

func TestRun_Errors(t *testing.T) {
	in := writeReport(t, report)
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no args", nil, 1},
		{"bad variant", []string{"--variant", "bogus", in}, 1},
		{"missing file", []string{filepath.Join(t.TempDir(), "missing.nessus")}, 2},
		{"unknown flag", []string{"--bogus", in}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c capture
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args, &stdout, &stderr, c.start)
			require.Equal(t, tt.code, code)
			require.Zero(t, c.calls, "browser must not start")
		})
	}
}

func TestRun_Version(t *testing.T) {
	var c capture
	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run(context.Background(), []string{"--version"}, &stdout, &stderr, c.start))
	require.Contains(t, stdout.String(), "nessus-flatten")
	require.Zero(t, c.calls)
}
