package badge

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/deepsweep-ai/deepsweep/internal/model"
)

func TestColorFor(t *testing.T) {
	tests := []struct {
		grade model.Grade
		want  string
	}{
		{model.GradeA, "brightgreen"},
		{model.GradeB, "green"},
		{model.GradeC, "yellow"},
		{model.GradeD, "orange"},
		{model.GradeF, "red"},
	}
	for _, tt := range tests {
		if got := ColorFor(tt.grade); got != tt.want {
			t.Errorf("ColorFor(%s) = %q, want %q", tt.grade, got, tt.want)
		}
	}
}

func TestShieldsJSON(t *testing.T) {
	result := model.Result{Score: 85, Grade: model.GradeB}
	out := ShieldsJSON("deepsweep", result)

	var decoded struct {
		SchemaVersion int    `json:"schemaVersion"`
		Label         string `json:"label"`
		Message       string `json:"message"`
		Color         string `json:"color"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid shields JSON: %v", err)
	}
	if decoded.SchemaVersion != 1 {
		t.Errorf("schemaVersion = %d, want 1", decoded.SchemaVersion)
	}
	if decoded.Label != "deepsweep" {
		t.Errorf("label = %q", decoded.Label)
	}
	if decoded.Message != "B (85/100)" {
		t.Errorf("message = %q, want B (85/100)", decoded.Message)
	}
	if decoded.Color != "green" {
		t.Errorf("color = %q, want green", decoded.Color)
	}
}

func TestRenderSVG(t *testing.T) {
	result := model.Result{Score: 40, Grade: model.GradeF}
	svg := RenderSVG("deepsweep", result, StyleFlat)

	if !strings.HasPrefix(svg, "<svg") {
		t.Fatal("output is not an SVG document")
	}
	if !strings.Contains(svg, "F (40/100)") {
		t.Fatalf("SVG missing grade message:\n%s", svg)
	}
	if !strings.Contains(svg, "#e05d44") {
		t.Fatal("grade F badge should use the red hex color")
	}
	if !strings.Contains(svg, `rx="3"`) {
		t.Fatal("flat style should round corners")
	}
}

func TestRenderSVGFlatSquare(t *testing.T) {
	svg := RenderSVG("deepsweep", model.Result{Score: 100, Grade: model.GradeA}, StyleFlatSquare)
	if !strings.Contains(svg, `rx="0"`) {
		t.Fatal("flat-square style should not round corners")
	}
}

func TestParseStyle(t *testing.T) {
	if ParseStyle("flat-square") != StyleFlatSquare {
		t.Error("flat-square not recognized")
	}
	if ParseStyle("") != StyleFlat || ParseStyle("bogus") != StyleFlat {
		t.Error("default style should be flat")
	}
}
