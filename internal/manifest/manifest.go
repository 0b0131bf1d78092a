// Package manifest reads and summarizes browser-extension manifest files.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/khanhnv2901/relay-diag/internal/console"
	"go.uber.org/zap"
)

// undefinedPlaceholder is printed for summary fields the manifest omits.
const undefinedPlaceholder = "undefined"

// Result is the outcome of a manifest check. Parsed is set when OK is true,
// Error when it is false.
type Result struct {
	OK      bool            `json:"ok"`
	Parsed  json.RawMessage `json:"parsed,omitempty"`
	Error   string          `json:"error,omitempty"`
	Summary Summary         `json:"-"`
}

// Summary holds the manifest fields surfaced to operators.
type Summary struct {
	Name            string
	Version         string
	ManifestVersion string
	ContentScripts  []string

	// ContentScriptEntries counts content_scripts elements, with or without js.
	ContentScriptEntries int
}

// Checker validates that a manifest file exists and holds JSON.
type Checker struct {
	Printer console.Printer
	Logger  *zap.SugaredLogger
}

// Check reads path and parses it. Failures are reported in the Result.
func (c *Checker) Check(path string) Result {
	printer := c.printer()
	printer.Headingf("Checking manifest: %s", path)

	result, err := Load(path)
	if err != nil {
		printer.Errorf("  manifest parse error: %s", err)
		c.debugw("manifest check failed", "path", path, "error", err)
		return Result{OK: false, Error: err.Error()}
	}

	printer.Successf("  manifest parsed OK. name=%s version=%s", result.Summary.Name, result.Summary.Version)
	if result.Summary.ContentScriptEntries > 0 {
		printer.Infof("  content_scripts present: %s", strings.Join(result.Summary.ContentScripts, ", "))
	}
	c.debugw("manifest check passed", "path", path, "bytes", len(result.Parsed))

	return result
}

// Load reads and parses the manifest at path without printing anything.
func Load(path string) (Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(raw)
}

// Parse validates raw as JSON and extracts its summary.
func Parse(raw []byte) (Result, error) {
	normalized, err := normalizeJSON(raw)
	if err != nil {
		return Result{}, fmt.Errorf("parse manifest: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(normalized))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return Result{}, fmt.Errorf("parse manifest: %w", err)
	}

	return Result{
		OK:      true,
		Parsed:  json.RawMessage(normalized),
		Summary: summarize(doc),
	}, nil
}

func summarize(doc interface{}) Summary {
	fields, _ := doc.(map[string]interface{})
	entries, _ := fields["content_scripts"].([]interface{})

	return Summary{
		Name:            displayField(fields, "name"),
		Version:         displayField(fields, "version"),
		ManifestVersion: displayField(fields, "manifest_version"),
		ContentScripts:  contentScripts(fields["content_scripts"]),

		ContentScriptEntries: len(entries),
	}
}

func displayField(fields map[string]interface{}, key string) string {
	value, ok := fields[key]
	if !ok {
		return undefinedPlaceholder
	}
	return displayValue(value)
}

func displayValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(encoded)
	}
}

// contentScripts flattens the js entries of every content_scripts element.
func contentScripts(value interface{}) []string {
	entries, ok := value.([]interface{})
	if !ok {
		return nil
	}

	var scripts []string
	for _, entry := range entries {
		script, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		switch js := script["js"].(type) {
		case []interface{}:
			for _, file := range js {
				scripts = append(scripts, displayValue(file))
			}
		case string:
			scripts = append(scripts, js)
		}
	}
	return scripts
}

func (c *Checker) printer() console.Printer {
	if c.Printer == nil {
		return console.Discard()
	}
	return c.Printer
}

func (c *Checker) debugw(msg string, keysAndValues ...interface{}) {
	if c.Logger == nil {
		return
	}
	c.Logger.Debugw(msg, keysAndValues...)
}
