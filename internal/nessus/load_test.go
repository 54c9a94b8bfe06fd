package nessus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nessus-flatten/nessus-flatten/internal/failure"
)

const sampleReport = `<?xml version="1.0" ?>
<NessusClientData_v2>
  <Report name="weekly" xmlns:cm="http://www.nessus.org/cm">
    <ReportHost name="host1">
      <HostProperties><tag name="host-ip">10.0.0.1</tag></HostProperties>
      <ReportItem port="0" pluginID="21156" severity="3" pluginName="Unix Compliance Checks">
        <cm:compliance-check-name>Password Policy</cm:compliance-check-name>
        <cm:compliance-result>FAILED</cm:compliance-result>
        <cm:compliance-info>Minimum length</cm:compliance-info>
      </ReportItem>
      <ReportItem pluginID="12345" severity="2" pluginName="SSL Weak Cipher">
        <plugin_output>  RC4 offered  </plugin_output>
        <cvss_base_score>5.0</cvss_base_score>
        <cve>CVE-2013-2566</cve>
        <cve>CVE-2015-2808</cve>
      </ReportItem>
    </ReportHost>
    <ReportHost name="host2">
      <ReportItem pluginID="10287"/>
    </ReportHost>
  </Report>
</NessusClientData_v2>`

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan.nessus")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	doc, err := Load(writeFile(t, sampleReport))
	require.NoError(t, err)

	require.Len(t, doc.Reports, 1)
	require.Equal(t, "weekly", doc.Reports[0].Name)

	hosts := doc.Hosts()
	require.Len(t, hosts, 2)
	require.Equal(t, "host1", hosts[0].Name)
	require.Equal(t, "host2", hosts[1].Name)

	nHosts, nItems := doc.Stats()
	require.Equal(t, 2, nHosts)
	require.Equal(t, 3, nItems)
}

func TestReportItemAccessors(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleReport))
	require.NoError(t, err)
	items := doc.Hosts()[0].Items

	t.Run("compliance_fields", func(t *testing.T) {
		it := items[0]
		require.Equal(t, PluginCompliance, it.PluginID())
		require.Equal(t, "FAILED", it.TextOr(ComplianceNamespace, "compliance-result", ""))
		require.Equal(t, "Password Policy", it.TextOr(ComplianceNamespace, "compliance-check-name", ""))
		require.Equal(t, "", it.TextOr(ComplianceNamespace, "compliance-actual-value", ""))

		// the unqualified name does not match a namespaced element
		_, ok := it.Text("", "compliance-result")
		require.False(t, ok)
	})

	t.Run("vulnerability_fields", func(t *testing.T) {
		it := items[1]
		sev, err := it.Severity()
		require.NoError(t, err)
		require.Equal(t, 2, sev)
		require.Equal(t, "SSL Weak Cipher", it.AttrOr("pluginName", "Unknown"))
		require.Equal(t, "  RC4 offered  ", it.TextOr("", "plugin_output", ""))
		require.Equal(t, "5.0", it.TextOr("", "cvss_base_score", "N/A"))
		require.Equal(t, []string{"CVE-2013-2566", "CVE-2015-2808"}, it.Texts("", "cve"))
	})

	t.Run("missing_fields_fall_back", func(t *testing.T) {
		it := doc.Hosts()[1].Items[0]
		sev, err := it.Severity()
		require.NoError(t, err)
		require.Equal(t, 0, sev)
		require.Equal(t, "Unknown", it.AttrOr("pluginName", "Unknown"))
		require.Equal(t, "N/A", it.TextOr("", "cvss_base_score", "N/A"))
		require.Empty(t, it.Texts("", "cve"))
	})
}

func TestSeverityMalformed(t *testing.T) {
	doc, err := Decode(strings.NewReader(`<Report><ReportHost name="a"><ReportItem pluginID="1" severity="high"/></ReportHost></Report>`))
	require.NoError(t, err)
	_, err = doc.Hosts()[0].Items[0].Severity()
	require.Error(t, err)
	require.Contains(t, err.Error(), `"high"`)
}

func TestDecodeBareReportRoot(t *testing.T) {
	doc, err := Decode(strings.NewReader(`<Report name="r"><ReportHost name="a"><ReportItem pluginID="1"/></ReportHost></Report>`))
	require.NoError(t, err)
	require.Len(t, doc.Reports, 1)
	require.Equal(t, "r", doc.Reports[0].Name)
	require.Equal(t, "a", doc.Hosts()[0].Name)
}

func TestDecodeLatin1(t *testing.T) {
	body := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>" +
		"<Report><ReportHost name=\"caf\xe9\"></ReportHost></Report>"
	doc, err := Decode(strings.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, "café", doc.Hosts()[0].Name)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing_file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.nessus"))
		require.Error(t, err)
		require.Equal(t, failure.KindParse, failure.KindOf(err))
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := Load(writeFile(t, `<NessusClientData_v2><Report>`))
		require.Error(t, err)
		require.Equal(t, failure.KindParse, failure.KindOf(err))
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Load(writeFile(t, ""))
		require.Error(t, err)
		require.Equal(t, failure.KindParse, failure.KindOf(err))
	})

	t.Run("trailing_junk", func(t *testing.T) {
		_, err := Load(writeFile(t, `<Report></Report><Report></Report>`))
		require.Error(t, err)
		require.Equal(t, failure.KindParse, failure.KindOf(err))
	})
}
