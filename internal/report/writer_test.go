package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/khanhnv2901/relay-diag/internal/checker"
	"github.com/khanhnv2901/relay-diag/internal/manifest"
)

func sampleReport(t *testing.T, withCSP bool) *Report {
	t.Helper()
	parsed, err := manifest.Parse([]byte(`{"name":"x","version":"1.0","content_scripts":[{"js":["a.js","b.js"]}]}`))
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}

	r := New(time.Date(2026, 10, 16, 8, 30, 0, 123000000, time.UTC), Target{
		ManifestPath: "./manifest.json",
		GatewayURL:   "http://127.0.0.1:9229",
		TestURL:      "https://example.com",
	})
	r.Manifest = parsed
	r.Gateway = checker.GatewayResult{OK: true, Status: 200, Headers: map[string]string{"server": "relay"}}
	if withCSP {
		ok := true
		r.CSP = &checker.CSPResult{OK: &ok, CSP: "default-src 'self' <x>", Header: checker.HeaderCSP}
	}
	return r
}

func TestFormatTime(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	got := FormatTime(time.Date(2026, 10, 16, 15, 30, 0, 5000000, loc))
	if got != "2026-10-16T08:30:00.005Z" {
		t.Errorf("FormatTime = %q", got)
	}
}

func TestMarshal_OmitsCSPWithoutTestURL(t *testing.T) {
	data, err := Marshal(sampleReport(t, false))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := doc["csp"]; ok {
		t.Errorf("csp key must be absent, got %s", doc["csp"])
	}
	for _, key := range []string{"time", "manifest", "gateway"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if len(doc) != 3 {
		t.Errorf("expected exactly 3 keys, got %d", len(doc))
	}
}

func TestMarshal_InvalidUTF8ManifestStaysValid(t *testing.T) {
	r := sampleReport(t, false)
	parsed, err := manifest.Parse([]byte("{\"name\":\"bad \xc3\x28 name\",\"description\":\"\xff\"}"))
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	r.Manifest = parsed

	data, err := Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !utf8.Valid(data) {
		t.Fatalf("report is not valid UTF-8:\n%q", data)
	}

	var doc struct {
		Manifest struct {
			Parsed map[string]string `json:"parsed"`
		} `json:"manifest"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Manifest.Parsed["description"] != "\uFFFD" {
		t.Errorf("description = %q", doc.Manifest.Parsed["description"])
	}
}

func TestMarshal_Shape(t *testing.T) {
	data, err := Marshal(sampleReport(t, true))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	text := string(data)

	if !strings.HasPrefix(text, "{\n  \"time\": \"2026-10-16T08:30:00.123Z\",\n  \"manifest\": {\n    \"ok\": true,\n    \"parsed\": {\n      \"name\": \"x\",") {
		t.Errorf("unexpected layout:\n%s", text)
	}
	if !strings.Contains(text, `"csp": "default-src 'self' <x>"`) {
		t.Errorf("policy should be written without HTML escaping:\n%s", text)
	}
	if strings.Contains(text, `"error"`) {
		t.Errorf("successful checks should not carry error keys:\n%s", text)
	}
}

func TestMarshal_NotApplicableCSPIsNull(t *testing.T) {
	r := sampleReport(t, false)
	r.CSP = &checker.CSPResult{}

	data, err := Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Contains(data, []byte(`"csp": {
    "ok": null
  }`)) {
		t.Errorf("expected ok null, got:\n%s", data)
	}
}

func TestWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), 10000), 0o644); err != nil {
		t.Fatal(err)
	}

	r := sampleReport(t, false)
	if err := WriteFile(path, r, NewJSONWriter); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := Marshal(r)
	if !bytes.Equal(got, want) {
		t.Errorf("file content mismatch:\n%s", got)
	}
}

func TestWriteFile_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "report.json")
	if err := WriteFile(path, sampleReport(t, false), NewJSONWriter); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("report not created: %v", err)
	}
}

func TestWriteFile_Error(t *testing.T) {
	dir := t.TempDir()
	// A directory cannot be opened for writing.
	if err := WriteFile(dir, sampleReport(t, false), NewJSONWriter); err == nil {
		t.Fatal("expected error writing to a directory")
	}
}

func TestMarkdownWriter(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Report)
		want    []string
		notWant []string
	}{
		{
			name:    "passing run",
			mutate:  func(r *Report) {},
			want:    []string{"# Relay Diagnostics", "## Manifest", "a.js", "## Gateway", "Status: 200", "server", "## Content-Security-Policy", "default-src 'self'"},
			notWant: []string{"Diagnostics failed"},
		},
		{
			name: "failed gateway",
			mutate: func(r *Report) {
				r.Gateway = checker.GatewayResult{OK: false, Error: "timeout"}
				r.CSP = nil
			},
			want:    []string{"Diagnostics failed", "Gateway not reachable: timeout"},
			notWant: []string{"## Content-Security-Policy"},
		},
		{
			name: "failed manifest",
			mutate: func(r *Report) {
				r.Manifest = manifest.Result{OK: false, Error: "read manifest: missing"}
			},
			want: []string{"read manifest: missing", "Diagnostics failed"},
		},
		{
			name: "csp absent",
			mutate: func(r *Report) {
				ok := false
				r.CSP = &checker.CSPResult{OK: &ok}
			},
			want: []string{"No CSP header detected", "not found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := sampleReport(t, true)
			tt.mutate(r)

			var buf bytes.Buffer
			if _, err := NewMarkdownWriter(&buf).Write(r); err != nil {
				t.Fatalf("write markdown: %v", err)
			}
			out := buf.String()

			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("markdown missing %q:\n%s", want, out)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(out, notWant) {
					t.Errorf("markdown should not contain %q:\n%s", notWant, out)
				}
			}
		})
	}
}

func TestReport_Failed(t *testing.T) {
	r := sampleReport(t, true)
	if r.Failed() {
		t.Fatal("passing report reported as failed")
	}

	notFound := false
	r.CSP = &checker.CSPResult{OK: &notFound}
	if r.Failed() {
		t.Error("CSP failure must not fail the run")
	}

	r.Gateway.OK = false
	if !r.Failed() || !r.GatewayFailed() {
		t.Error("gateway failure should fail the run")
	}

	r.Gateway.OK = true
	r.Manifest.OK = false
	if !r.Failed() || !r.ManifestFailed() {
		t.Error("manifest failure should fail the run")
	}
}
