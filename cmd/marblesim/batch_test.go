package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/marblesim/internal/storage"
)

func TestSweepCommand(t *testing.T) {
	out, err := execute(t, "sweep", "--log-level", "off", "--time", "0.3",
		"--param", "friction", "--min", "0.9", "--max", "1", "--steps", "3")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "FRICTION") || !strings.Contains(out, "0.9500") {
		t.Errorf("unexpected sweep output:\n%s", out)
	}
}

func TestTuneCommand(t *testing.T) {
	out, err := execute(t, "tune", "--log-level", "off", "--time", "0.3",
		"--grid", "restitution=0.2,0.8", "--metric", "max_speed")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "best max_speed") || !strings.Contains(out, "restitution") {
		t.Errorf("unexpected tune output:\n%s", out)
	}

	if _, err := execute(t, "tune", "--log-level", "off", "--grid", "mass=1,2"); err == nil {
		t.Error("expected error for unknown grid parameter")
	}
}

func TestMonteCarloCommand(t *testing.T) {
	out, err := execute(t, "montecarlo", "--log-level", "off", "--time", "0.3", "--trials", "4")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "contained: 4") {
		t.Errorf("unexpected montecarlo output:\n%s", out)
	}
}

func TestScenarioAndSVG(t *testing.T) {
	data := t.TempDir()
	path := filepath.Join(data, "scenario.yaml")
	err := os.WriteFile(path, []byte(`
name: demo
steps:
  - name: sticky
    preset: sticky
    duration: 0.3
  - duration: 0.2
    params:
      restitution: 0.1
`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "scenario", path, "--data", data, "--log-level", "off")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "sticky: sticky_") || !strings.Contains(out, "demo-2: demo-2_") {
		t.Errorf("unexpected scenario output:\n%s", out)
	}

	runs, err := storage.New(data).List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}

	svg, err := execute(t, "export-svg", runs[0].ID, "--data", data, "--log-level", "off")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(svg, "<path") {
		t.Errorf("trajectory svg has no path:\n%s", svg)
	}

	file := filepath.Join(data, "frame.svg")
	if _, err := execute(t, "export-svg", runs[0].ID, "--data", data, "--log-level", "off", "--canvas", "-o", file); err != nil {
		t.Fatal(err)
	}
	body, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "<circle") {
		t.Error("canvas svg has no dots")
	}
}
