package report

import (
	"io"
	"sort"
	"strconv"

	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs a human-readable summary of the report.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) Writer {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write renders report as Markdown.
func (w *MarkdownWriter) Write(report *Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeManifest(md, report)
	w.writeGateway(md, report)
	w.writeCSP(md, report)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *Report) {
	md.H1("Relay Diagnostics")
	md.PlainText("")

	rows := [][]string{
		{"Time", report.Time},
		{"Manifest", checkStatus(report.Manifest.OK)},
		{"Gateway", checkStatus(report.Gateway.OK)},
	}
	if report.CSP != nil {
		rows = append(rows, []string{"CSP", cspStatus(report.CSP.Found())})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Check", "Result"},
		Rows:   rows,
	})
	md.PlainText("")

	if report.Failed() {
		md.Warningf("Diagnostics failed: manifest or gateway check did not pass.")
	} else {
		md.Tip("Manifest and gateway checks passed.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeManifest(md *markdown.Markdown, report *Report) {
	md.H2("Manifest")
	md.PlainText("")

	if !report.Manifest.OK {
		md.PlainText("`" + report.Target.ManifestPath + "`: " + report.Manifest.Error)
		md.PlainText("")
		return
	}

	summary := report.Manifest.Summary
	md.Table(markdown.TableSet{
		Header: []string{"Field", "Value"},
		Rows: [][]string{
			{"Path", "`" + report.Target.ManifestPath + "`"},
			{"Name", summary.Name},
			{"Version", summary.Version},
			{"Manifest version", summary.ManifestVersion},
		},
	})
	md.PlainText("")

	if len(summary.ContentScripts) > 0 {
		md.PlainText("Content scripts:")
		md.PlainText("")
		md.BulletList(summary.ContentScripts...)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeGateway(md *markdown.Markdown, report *Report) {
	md.H2("Gateway")
	md.PlainText("")
	md.PlainText("URL: `" + report.Target.GatewayURL + "`")
	md.PlainText("")

	if !report.Gateway.OK {
		md.Cautionf("Gateway not reachable: %s", report.Gateway.Error)
		md.PlainText("")
		return
	}

	md.PlainText("Status: " + strconv.Itoa(report.Gateway.Status))
	md.PlainText("")

	if len(report.Gateway.Headers) == 0 {
		return
	}
	names := make([]string, 0, len(report.Gateway.Headers))
	for name := range report.Gateway.Headers {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, len(names))
	for i, name := range names {
		rows[i] = []string{name, report.Gateway.Headers[name]}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Header", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeCSP(md *markdown.Markdown, report *Report) {
	if report.CSP == nil {
		return
	}
	csp := report.CSP

	md.H2("Content-Security-Policy")
	md.PlainText("")
	md.PlainText("URL: `" + report.Target.TestURL + "`")
	md.PlainText("")

	switch {
	case csp.Error != "":
		md.Cautionf("Request failed: %s", csp.Error)
	case !csp.Found():
		md.Note("No CSP header detected. The page might still declare one in a meta tag.")
	default:
		md.PlainText("Header `" + csp.Header + "`:")
		md.PlainText("")
		md.PlainText("`" + csp.CSP + "`")
		if len(csp.Issues) > 0 {
			md.PlainText("")
			md.BulletList(csp.Issues...)
		}
	}
	md.PlainText("")
}

func checkStatus(ok bool) string {
	if ok {
		return "✅ ok"
	}
	return "❌ failed"
}

func cspStatus(found bool) string {
	if found {
		return "✅ found"
	}
	return "⚠️ not found"
}
