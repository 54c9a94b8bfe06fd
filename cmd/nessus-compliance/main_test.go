package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const report = `<?xml version="1.0" ?>
<NessusClientData_v2>
<Report name="scan" xmlns:cm="http://www.nessus.org/cm">
<ReportHost name="host1">
  <ReportItem pluginID="21156" severity="3" pluginName="Windows Compliance Checks">
    <cm:compliance-check-name>Password Policy</cm:compliance-check-name>
    <cm:compliance-result>FAILED</cm:compliance-result>
  </ReportItem>
</ReportHost>
<ReportHost name="host2">
  <ReportItem pluginID="21156" severity="3" pluginName="Windows Compliance Checks">
    <cm:compliance-check-name>Password Policy</cm:compliance-check-name>
    <cm:compliance-result>FAILED</cm:compliance-result>
  </ReportItem>
</ReportHost>
</Report>
</NessusClientData_v2>`

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "scan.nessus")
	out := filepath.Join(dir, "compliance.csv")
	require.NoError(t, os.WriteFile(in, []byte(report), 0o600))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{in, out}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	require.Equal(t, "Results written to "+out+"\n", stdout.String())

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t,
		"Title,Policy Description,Setting on Host,Recommended Setting,Affected Hosts\r\n"+
			"Password Policy,,,,host1; host2\r\n",
		string(got))
}

func TestRun_Usage(t *testing.T) {
	for _, args := range [][]string{nil, {"only-one"}, {"a", "b", "c"}} {
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), args, &stdout, &stderr)
		require.Equal(t, 1, code)
		require.Contains(t, stdout.String(), "Usage: nessus-compliance")
	}
}

func TestRun_ParseError(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(),
		[]string{filepath.Join(dir, "missing.nessus"), filepath.Join(dir, "out.csv")},
		&stdout, &stderr)
	require.Equal(t, 2, code)
	require.Contains(t, stdout.String(), "An error occurred: ")

	_, err := os.Stat(filepath.Join(dir, "out.csv"))
	require.True(t, os.IsNotExist(err), "no output expected when parsing fails")
}

func TestRun_IOError(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "scan.nessus")
	require.NoError(t, os.WriteFile(in, []byte(report), 0o600))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{in, filepath.Join(dir, "nope", "out.csv")}, &stdout, &stderr)
	require.Equal(t, 3, code)
	require.Contains(t, stdout.String(), "An error occurred: ")
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run(context.Background(), []string{"--version"}, &stdout, &stderr))
	require.Contains(t, stdout.String(), "nessus-flatten")
}
