package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/marblesim/internal/marble"
	"github.com/san-kum/marblesim/internal/viz"
)

func TestTrajectorySVG(t *testing.T) {
	states := []marble.State{{X: 60, Y: 10}, {X: 120, Y: 20}}
	bounds := marble.NewBounds(200, 100, 40)

	var buf bytes.Buffer
	err := TrajectorySVG(&buf, states, bounds, TrajectoryOptions{Width: 400, Radius: 40})
	if err != nil {
		t.Fatal(err)
	}
	svg := buf.String()

	for _, want := range []string{
		`width="400" height="200"`,
		`d="M200.0,100.0 L320.0,120.0"`,
		`<circle cx="320.0" cy="120.0" r="80.0"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q:\n%s", want, svg)
		}
	}
}

func TestTrajectorySVGErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := TrajectorySVG(&buf, nil, marble.Bounds{}, TrajectoryOptions{}); err == nil {
		t.Error("expected error for no states")
	}
	if err := TrajectorySVG(&buf, []marble.State{{}}, marble.Bounds{}, TrajectoryOptions{}); err == nil {
		t.Error("expected error for degenerate viewport")
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(1, 2)
	svg := CanvasToSVG(c, 10, "#fff")
	if strings.Count(svg, "<circle") != 1 {
		t.Errorf("expected one dot:\n%s", svg)
	}
	if !strings.Contains(svg, `cx="15.0" cy="25.0"`) {
		t.Errorf("dot misplaced:\n%s", svg)
	}
	if CanvasToSVG(nil, 1, "#fff") != "" {
		t.Error("nil canvas should give empty output")
	}
}
