package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/weavr/pkg/model"
)

const orderModel = `{"eventModel": {"slices": [{
	"id": "S1",
	"commands": [{"id": "C1", "title": "Place Order", "type": "COMMAND",
		"dependencies": [{"id": "SC1", "type": "INBOUND", "elementType": "SCREEN"}]}],
	"events": [{"id": "E1", "title": "Order Placed", "type": "DOMAIN_EVENT",
		"dependencies": [{"id": "C1", "type": "INBOUND", "elementType": "COMMAND"}]}],
	"readmodels": [{"id": "RM1", "title": "Orders", "type": "READ_MODEL"}],
	"screens": [{"id": "SC1", "title": "Cart", "type": "SCREEN"}]
}]}}`

// sandbox runs each test in an empty working directory with config and
// cache lookups confined to it, and captures status output.
func sandbox(t *testing.T) (dir string, out *bytes.Buffer) {
	t.Helper()
	dir = t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("WEAVR_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	out = &bytes.Buffer{}
	old := stdout
	stdout = out
	t.Cleanup(func() { stdout = old })
	return dir, out
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFixDefaultPaths(t *testing.T) {
	_, out := sandbox(t)
	writeFile(t, "weavr-self-model.json", orderModel)

	if err := execute(t, "fix"); err != nil {
		t.Fatalf("fix: %v", err)
	}
	if !strings.Contains(out.String(), "Fixed 2 dependencies") {
		t.Errorf("output = %q", out.String())
	}

	doc, err := model.ReadDocumentFile("weavr-model.json")
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(doc.Layout) != 4 {
		t.Errorf("layout has %d entries, want 4", len(doc.Layout))
	}
}

func TestFixFlags(t *testing.T) {
	dir, _ := sandbox(t)
	writeFile(t, "in.json", orderModel)
	out := filepath.Join(dir, "build", "fixed.yaml")

	if err := execute(t, "fix", "--no-cache", "-i", "in.json", "-o", out); err != nil {
		t.Fatalf("fix: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "layout:") {
		t.Errorf("output is not YAML with a layout:\n%s", data)
	}
}

func TestFixPreconditions(t *testing.T) {
	tests := []struct {
		name  string
		input string // empty: no input file
		want  string
	}{
		{"missing input", "", "not found"},
		{"no slices", `{"eventModel": {"slices": []}}`, "no slices found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out := sandbox(t)
			if tt.input != "" {
				writeFile(t, "weavr-self-model.json", tt.input)
			}

			if err := execute(t, "fix", "--no-cache"); err != nil {
				t.Fatalf("precondition should not fail the command: %v", err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
			if _, err := os.Stat("weavr-model.json"); !os.IsNotExist(err) {
				t.Error("no output should be written")
			}
		})
	}
}

func TestFixMalformed(t *testing.T) {
	sandbox(t)
	writeFile(t, "weavr-self-model.json", `{"eventModel": {"slices": [{"id": "S1", "events": [{"id": "E1"}]}]}}`)

	if err := execute(t, "fix", "--no-cache"); err == nil {
		t.Fatal("malformed element should fail the command")
	}
	if _, err := os.Stat("weavr-model.json"); !os.IsNotExist(err) {
		t.Error("no output should be written")
	}
}

func TestFixRejectsUnknownExtension(t *testing.T) {
	sandbox(t)
	if err := execute(t, "fix", "-i", "model.txt"); err == nil {
		t.Error("expected an error for a .txt input")
	}
}

func TestAuditCommand(t *testing.T) {
	_, out := sandbox(t)
	writeFile(t, "weavr-self-model.json", orderModel)

	if err := execute(t, "audit"); err != nil {
		t.Fatalf("audit: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Found 1 violations:",
		"[S1] READ_MODEL 'Orders' (RM1) missing EVENT parent.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestAuditClean(t *testing.T) {
	_, out := sandbox(t)
	writeFile(t, "model.json", `{"eventModel": {"slices": [{"id": "S1", "screens": [{"id": "SC1", "title": "Cart", "type": "SCREEN"}]}]}}`)

	if err := execute(t, "audit", "--no-cache", "-i", "model.json"); err != nil {
		t.Fatalf("audit: %v", err)
	}
	if !strings.Contains(out.String(), "No pattern violations found!") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRenderDOT(t *testing.T) {
	sandbox(t)
	writeFile(t, "weavr-self-model.json", orderModel)

	// An unfixed model is fixed in memory; the input stays untouched.
	if err := execute(t, "render", "--no-cache", "-i", "weavr-self-model.json", "-f", "dot", "-o", "out/diagram"); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(filepath.Join("out", "diagram.dot"))
	if err != nil {
		t.Fatalf("read diagram: %v", err)
	}
	if !strings.Contains(string(data), `"SC1" -> "C1"`) {
		t.Errorf("diagram:\n%s", data)
	}
	in, _ := os.ReadFile("weavr-self-model.json")
	if string(in) != orderModel {
		t.Error("render modified its input")
	}
}

func TestRenderInvalidFormat(t *testing.T) {
	sandbox(t)
	if err := execute(t, "render", "-f", "png"); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"dot", []string{"dot"}},
		{"dot, svg", []string{"dot", "svg"}},
		{"dot,,svg,", []string{"dot", "svg"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.in)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfigFile(t *testing.T) {
	dir, _ := sandbox(t)
	writeFile(t, "model.json", orderModel)
	writeFile(t, "weavr.toml", `
[paths]
input = "model.json"
output = "fixed.json"

[layout.columns]
READMODEL = 900

[cache]
backend = "none"
`)

	if err := execute(t, "fix"); err != nil {
		t.Fatalf("fix: %v", err)
	}
	doc, err := model.ReadDocumentFile(filepath.Join(dir, "fixed.json"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if x := doc.Layout["RM1"].X; x != 900 {
		t.Errorf("RM1 x = %d, want 900", x)
	}
	if _, err := os.Stat(filepath.Join(dir, "cache")); !os.IsNotExist(err) {
		t.Error("cache backend none should not create a cache directory")
	}
}
