package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderNeverLosesContent(t *testing.T) {
	md := "# Findings\n\nArkel.ai is headquartered in Paris."
	out := Render(md)
	if !strings.Contains(out, "Arkel.ai is headquartered in Paris.") {
		t.Errorf("rendered output lost report text:\n%s", out)
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	path, err := Save(dir, "sess-1", "# Report\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "sess-1.md" {
		t.Errorf("unexpected report path %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if string(data) != "# Report\n" {
		t.Errorf("unexpected report content %q", data)
	}
}
