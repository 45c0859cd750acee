// Package chart turns category scores into bar and radar chart data.
package chart

import (
	"math"
	"strings"

	"github.com/HendryAvila/tgt/internal/assessment"
)

// DefaultWidth is the bar length, in cells, of a 100% score.
const DefaultWidth = 20

// Bar is one row of the bar chart.
type Bar struct {
	Category assessment.Category `json:"category"`
	Value    float64             `json:"value"`
	Filled   int                 `json:"filled"`
	Width    int                 `json:"width"`
}

// String renders the bar with unicode block characters.
func (b Bar) String() string {
	return strings.Repeat("█", b.Filled) + strings.Repeat("░", b.Width-b.Filled)
}

// Bars returns one bar per score, in the order given. Values are clamped
// to [0,100] and width defaults to DefaultWidth when not positive.
func Bars(scores []assessment.CategoryScore, width int) []Bar {
	if width <= 0 {
		width = DefaultWidth
	}
	bars := make([]Bar, 0, len(scores))
	for _, s := range scores {
		v := clamp(s.Normalized)
		bars = append(bars, Bar{
			Category: s.Category,
			Value:    v,
			Filled:   int(math.Round(v / 100 * float64(width))),
			Width:    width,
		})
	}
	return bars
}

// Point is one vertex of the radar polygon.
type Point struct {
	Category assessment.Category `json:"category"`
	Angle    float64             `json:"angle"`
	Value    float64             `json:"value"`
	X        float64             `json:"x"`
	Y        float64             `json:"y"`
}

// RadarChart is the polar plot of the scores. Points has one more entry
// than there are categories: the first vertex is repeated to close the
// polygon.
type RadarChart struct {
	Points []Point `json:"points"`
	Ticks  []int   `json:"ticks"`
}

// Ticks are the radial gridline labels.
var Ticks = []int{0, 20, 40, 60, 80, 100}

// Radar places score i at angle i/n*2π with radius equal to the score.
func Radar(scores []assessment.CategoryScore) RadarChart {
	n := len(scores)
	rc := RadarChart{Ticks: append([]int(nil), Ticks...)}
	if n == 0 {
		return rc
	}

	rc.Points = make([]Point, 0, n+1)
	for i, s := range scores {
		angle := float64(i) / float64(n) * 2 * math.Pi
		v := clamp(s.Normalized)
		rc.Points = append(rc.Points, Point{
			Category: s.Category,
			Angle:    angle,
			Value:    v,
			X:        v * math.Cos(angle),
			Y:        v * math.Sin(angle),
		})
	}
	rc.Points = append(rc.Points, rc.Points[0])
	return rc
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
