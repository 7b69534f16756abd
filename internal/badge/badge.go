// Package badge turns a scan grade into an embeddable status badge, either
// as shields.io endpoint JSON or as a self-contained SVG. Only the grade and
// score reach the badge; finding details never do.
package badge

import (
	"encoding/json"
	"fmt"

	"github.com/deepsweep-ai/deepsweep/internal/model"
)

// Style controls the badge visual style.
type Style string

const (
	StyleFlat       Style = "flat"
	StyleFlatSquare Style = "flat-square"
)

// ParseStyle parses a style string, defaulting to flat.
func ParseStyle(s string) Style {
	if s == "flat-square" {
		return StyleFlatSquare
	}
	return StyleFlat
}

// ColorFor maps a grade to its shields.io color name.
func ColorFor(grade model.Grade) string {
	switch grade {
	case model.GradeA:
		return "brightgreen"
	case model.GradeB:
		return "green"
	case model.GradeC:
		return "yellow"
	case model.GradeD:
		return "orange"
	default:
		return "red"
	}
}

// Message formats the badge message, e.g. "A (95/100)".
func Message(result model.Result) string {
	return fmt.Sprintf("%s (%d/100)", result.Grade, result.Score)
}

type shieldsEndpoint struct {
	SchemaVersion int    `json:"schemaVersion"`
	Label         string `json:"label"`
	Message       string `json:"message"`
	Color         string `json:"color"`
}

// ShieldsJSON returns a shields.io endpoint JSON document for the result.
func ShieldsJSON(label string, result model.Result) string {
	data := shieldsEndpoint{
		SchemaVersion: 1,
		Label:         label,
		Message:       Message(result),
		Color:         ColorFor(result.Grade),
	}
	b, _ := json.MarshalIndent(data, "", "  ")
	return string(b)
}

// hexForColor maps color names to hex values used in the badge.
var hexForColor = map[string]string{
	"brightgreen": "#4c1",
	"green":       "#97ca00",
	"yellow":      "#dfb317",
	"orange":      "#fe7d37",
	"red":         "#e05d44",
}

// RenderSVG generates a self-contained SVG badge string for the result.
func RenderSVG(label string, result model.Result, style Style) string {
	message := Message(result)
	hex, ok := hexForColor[ColorFor(result.Grade)]
	if !ok {
		hex = "#9f9f9f"
	}

	labelWidth := float64(len(label))*6.5 + 10
	messageWidth := float64(len(message))*6.5 + 10
	totalWidth := labelWidth + messageWidth

	rx := 3
	if style == StyleFlatSquare {
		rx = 0
	}

	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="20">
  <linearGradient id="b" x2="0" y2="100%%">
    <stop offset="0" stop-color="#bbb" stop-opacity=".1"/>
    <stop offset="1" stop-opacity=".1"/>
  </linearGradient>
  <clipPath id="a">
    <rect width="%.0f" height="20" rx="%d" fill="#fff"/>
  </clipPath>
  <g clip-path="url(#a)">
    <path fill="#555" d="M0 0h%.0fv20H0z"/>
    <path fill="%s" d="M%.0f 0h%.0fv20H%.0fz"/>
    <path fill="url(#b)" d="M0 0h%.0fv20H0z"/>
  </g>
  <g fill="#fff" text-anchor="middle" font-family="DejaVu Sans,Verdana,Geneva,sans-serif" font-size="11">
    <text x="%.1f" y="15" fill="#010101" fill-opacity=".3">%s</text>
    <text x="%.1f" y="14">%s</text>
    <text x="%.1f" y="15" fill="#010101" fill-opacity=".3">%s</text>
    <text x="%.1f" y="14">%s</text>
  </g>
</svg>`,
		totalWidth,
		totalWidth,
		rx,
		labelWidth,
		hex,
		labelWidth, messageWidth, labelWidth,
		totalWidth,
		labelWidth/2, label,
		labelWidth/2, label,
		labelWidth+messageWidth/2, message,
		labelWidth+messageWidth/2, message,
	)
}
