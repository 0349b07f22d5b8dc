package main

import (
	"strings"
	"testing"
)

func TestRenderTableRightAlignsColumn(t *testing.T) {
	out := renderTable([]string{"NAME", "N"}, [][]string{{"x", "1"}, {"y", "10"}}, 2)
	if !strings.Contains(out, "│  1 │") {
		t.Fatalf("expected right-aligned count cell, got:\n%s", out)
	}
	if !strings.Contains(out, "│ 10 │") {
		t.Fatalf("expected wide count cell, got:\n%s", out)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"only"}})
	if !strings.Contains(out, "only") {
		t.Fatalf("expected row value, got:\n%s", out)
	}
	if strings.Contains(out, "<nil>") {
		t.Fatalf("short rows must pad with empty cells, got:\n%s", out)
	}
}

func TestRenderTableEmptyHeaders(t *testing.T) {
	if out := renderTable(nil, nil); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}
