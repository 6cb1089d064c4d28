package site

import (
	"fmt"
	"strconv"

	"github.com/okian/gridiron/internal/domain/model"
)

// Chart geometry in SVG user units.
const (
	chartWidth  = 720
	chartHeight = 260
	padLeft     = 44
	padRight    = 16
	padTop      = 12
	padBottom   = 32
)

func viewBox() string { return fmt.Sprintf("0 0 %d %d", chartWidth, chartHeight) }

type gridLine struct {
	Y      string
	LabelY string
	Label  string
}

func gridLines() []gridLine {
	ticks := []float64{0, 0.25, 0.5, 0.75, 1}
	out := make([]gridLine, len(ticks))
	for i, t := range ticks {
		y := yPos(t)
		out[i] = gridLine{Y: coord(y), LabelY: coord(y + 4), Label: strconv.FormatFloat(t, 'f', -1, 64)}
	}
	return out
}

// marker is one play on the x axis. Long drives label only the first and
// last play.
type marker struct {
	X         string
	Y         string
	Label     string
	WP        string
	ShowLabel bool
	HasWP     bool
}

func markers(series []model.WPPoint) []marker {
	out := make([]marker, len(series))
	for i, pt := range series {
		m := marker{
			X:         coord(xPos(i, len(series))),
			Label:     strconv.Itoa(pt.Sequence),
			ShowLabel: i == 0 || i == len(series)-1 || len(series) <= 12,
		}
		if pt.WP != nil {
			m.Y, m.WP, m.HasWP = coord(yPos(*pt.WP)), number(pt.WP, 3), true
		}
		out[i] = m
	}
	return out
}

// segments groups consecutive points that have a win probability.
func segments(series []model.WPPoint) [][]string {
	var out [][]string
	var cur []string
	for i, pt := range series {
		if pt.WP == nil {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, coord(xPos(i, len(series)))+","+coord(yPos(*pt.WP)))
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func xPos(i, n int) float64 {
	span := float64(chartWidth - padLeft - padRight)
	if n <= 1 {
		return float64(padLeft) + span/2
	}
	return float64(padLeft) + span*float64(i)/float64(n-1)
}

func yPos(wp float64) float64 {
	span := float64(chartHeight - padTop - padBottom)
	return float64(padTop) + span*(1-wp)
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
