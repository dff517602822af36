package commons

import (
	"strings"
	"testing"
)

func TestBuildPastureUnderOptimum(t *testing.T) {
	pasture := BuildPasture(30, 40, 2)
	if pasture.Overgrazed {
		t.Fatal("expected a green pasture")
	}
	if got := pasture.Cows(ColorGreen); got != 30 {
		t.Fatalf("expected 30 green cows, got %d", got)
	}
	lines := pasture.Lines()
	want := []string{
		strings.Repeat("C", 20),
		strings.Repeat("C", 10) + strings.Repeat(".", 10),
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %v", len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: got %q want %q", i, lines[i], want[i])
		}
	}
}

func TestBuildPastureBlankLinesForMissingHerds(t *testing.T) {
	pasture := BuildPasture(5, 80, 4)
	lines := pasture.Lines()
	if len(lines) != 4 {
		t.Fatalf("expected one line per farmer, got %d: %v", len(lines), lines)
	}
	if lines[0] != "CCCCC"+strings.Repeat(".", 15) {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	for _, line := range lines[1:] {
		if line != strings.Repeat(".", 20) {
			t.Fatalf("expected blank line, got %q", line)
		}
	}
}

func TestBuildPastureExactOptimum(t *testing.T) {
	pasture := BuildPasture(40, 40, 2)
	if pasture.Overgrazed {
		t.Fatal("optimum is not overgrazed")
	}
	lines := pasture.Lines()
	if len(lines) != 2 || lines[1] != strings.Repeat("C", 20) {
		t.Fatalf("unexpected lines %v", lines)
	}
}

func TestBuildPastureOvergrazed(t *testing.T) {
	pasture := BuildPasture(65, 40, 2)
	if !pasture.Overgrazed {
		t.Fatal("expected overgrazed pasture")
	}
	if got := pasture.Cows(ColorGreen); got != 40 {
		t.Fatalf("expected 40 green cows, got %d", got)
	}
	if got := pasture.Cows(ColorGrey); got != 25 {
		t.Fatalf("expected 25 grey cows, got %d", got)
	}
	lines := pasture.Lines()
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %v", lines)
	}
	if lines[2] != strings.Repeat("X", 20) || lines[3] != "XXXXX" {
		t.Fatalf("unexpected grey lines %v", lines[2:])
	}
}

func TestBuildPastureEmpty(t *testing.T) {
	pasture := BuildPasture(0, 20, 1)
	lines := pasture.Lines()
	if len(lines) != 1 || lines[0] != strings.Repeat(".", 20) {
		t.Fatalf("expected one blank line, got %v", lines)
	}
}
