package rendering

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/interview-partner/internal/types"
)

// DefaultRadarSize is the width and height of the radar SVG in pixels.
const DefaultRadarSize = 320

// radarRings are the grid levels drawn behind the score polygon.
var radarRings = []float64{20, 40, 60, 80, 100}

// RadarAxis is one spoke of the chart.
type RadarAxis struct {
	Label string
	Score int // 0..100
}

// Point is an SVG coordinate.
type Point struct {
	X float64
	Y float64
}

// RadarLabel is an axis caption placed outside the outer ring.
type RadarLabel struct {
	Text   string
	Score  int
	X      float64
	Y      float64
	Anchor string // SVG text-anchor
}

// RadarGeometry is everything needed to draw the chart.
type RadarGeometry struct {
	Size     float64
	Center   Point
	Radius   float64
	Rings    []string // polygon point lists, innermost first
	Spokes   []Point  // outer end of each spoke
	Polygon  string   // score polygon point list
	Vertices []Point
	Labels   []RadarLabel
}

// RadarChart lays out a radar chart of size x size pixels. The first axis
// points straight up and the rest follow clockwise. Scores are clamped to [0, 100].
func RadarChart(axes []RadarAxis, size float64) RadarGeometry {
	if size <= 0 {
		size = DefaultRadarSize
	}
	center := Point{X: size / 2, Y: size / 2}
	// leave room for labels
	radius := size * 0.34

	g := RadarGeometry{Size: size, Center: center, Radius: radius}
	n := len(axes)
	if n < 3 {
		return g
	}

	for _, level := range radarRings {
		pts := make([]Point, n)
		for i := range axes {
			pts[i] = polar(center, radius*level/100, angle(i, n))
		}
		g.Rings = append(g.Rings, points(pts))
	}

	g.Spokes = make([]Point, n)
	g.Vertices = make([]Point, n)
	g.Labels = make([]RadarLabel, n)
	for i, axis := range axes {
		a := angle(i, n)
		score := min(max(axis.Score, 0), 100)
		g.Spokes[i] = polar(center, radius, a)
		g.Vertices[i] = polar(center, radius*float64(score)/100, a)

		lp := polar(center, radius+18, a)
		g.Labels[i] = RadarLabel{
			Text:   axis.Label,
			Score:  score,
			X:      lp.X,
			Y:      lp.Y,
			Anchor: anchor(lp.X, center.X),
		}
	}
	g.Polygon = points(g.Vertices)
	return g
}

// BreakdownAxes maps a speech score breakdown onto radar axes.
func BreakdownAxes(b types.ScoreBreakdown) []RadarAxis {
	return []RadarAxis{
		{Label: "Communication", Score: b.Communication},
		{Label: "Confidence", Score: b.Confidence},
		{Label: "Technical", Score: b.Technical},
		{Label: "Pace", Score: b.Pace},
		{Label: "Filler Words", Score: b.FillerWords},
	}
}

// CategoryAxes maps report category scores onto radar axes.
func CategoryAxes(c types.CategoryScores) []RadarAxis {
	return []RadarAxis{
		{Label: "Technical Skills", Score: c.TechnicalSkills},
		{Label: "Communication", Score: c.Communication},
		{Label: "Problem Solving", Score: c.ProblemSolving},
		{Label: "Cultural Fit", Score: c.CulturalFit},
		{Label: "Leadership", Score: c.LeadershipPotential},
	}
}

func angle(i, n int) float64 {
	return -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
}

func polar(c Point, r, a float64) Point {
	return Point{X: round1(c.X + r*math.Cos(a)), Y: round1(c.Y + r*math.Sin(a))}
}

func round1(v float64) float64 {
	v = math.Round(v*10) / 10
	if v == 0 {
		return 0 // no negative zero
	}
	return v
}

func anchor(x, cx float64) string {
	switch {
	case math.Abs(x-cx) < 1:
		return "middle"
	case x < cx:
		return "end"
	default:
		return "start"
	}
}

func points(pts []Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}
