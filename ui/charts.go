package ui

import (
	"fmt"
	"html/template"
	"math"
	"strings"

	"beqc/domain/qc"
	"beqc/domain/survey"
)

// Server-rendered SVG charts. Pages stay self-contained; no client
// charting runtime involved.

const (
	chartWidth  = 640
	chartLeft   = 30.0
	chartRight  = 610.0
	colorBand   = "#d0ebff"
	colorMedian = "#1971c2"
	colorOK     = "#2f9e44"
	colorBad    = "#e03131"
	colorBar    = "#4dabf7"
	colorOver   = "#f08c00"
	colorNone   = "#adb5bd"
)

// rangeChart draws the acceptance band with the reported value placed
// on it
func rangeChart(band qc.Band, actual float64, flag qc.Flag) template.HTML {
	lo := math.Min(band.Low, actual)
	hi := math.Max(band.Up, actual)
	span := hi - lo
	if span <= 0 {
		span = math.Max(math.Abs(hi), 1)
	}
	pad := span * 0.08
	lo -= pad
	hi += pad

	x := func(v float64) float64 {
		return chartLeft + (v-lo)/(hi-lo)*(chartRight-chartLeft)
	}

	dotColor := colorOK
	if flag.OutOfRange() {
		dotColor = colorBad
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg viewBox="0 0 %d 110" class="chart" role="img" aria-label="acceptance range">`, chartWidth)
	fmt.Fprintf(&b, `<line x1="%.1f" y1="55" x2="%.1f" y2="55" stroke="#ced4da" stroke-width="2"/>`, chartLeft, chartRight)
	fmt.Fprintf(&b, `<rect x="%.1f" y="40" width="%.1f" height="30" rx="4" fill="%s"/>`, x(band.Low), x(band.Up)-x(band.Low), colorBand)
	fmt.Fprintf(&b, `<line x1="%.1f" y1="34" x2="%.1f" y2="76" stroke="%s" stroke-width="2"/>`, x(band.Median), x(band.Median), colorMedian)
	fmt.Fprintf(&b, `<circle cx="%.1f" cy="55" r="7" fill="%s"/>`, x(actual), dotColor)
	fmt.Fprintf(&b, `<text x="%.1f" y="24" text-anchor="middle" class="chart-value">%s</text>`, x(actual), chartNum(actual))
	fmt.Fprintf(&b, `<text x="%.1f" y="92" text-anchor="middle" class="chart-tick">%s</text>`, x(band.Low), chartNum(band.Low))
	fmt.Fprintf(&b, `<text x="%.1f" y="92" text-anchor="middle" class="chart-tick">%s</text>`, x(band.Median), chartNum(band.Median))
	fmt.Fprintf(&b, `<text x="%.1f" y="92" text-anchor="middle" class="chart-tick">%s</text>`, x(band.Up), chartNum(band.Up))
	b.WriteString(`</svg>`)
	return template.HTML(b.String())
}

// inputBarChart draws the submitted numeric inputs as horizontal bars
func inputBarChart(target survey.Target, values survey.NumMap) template.HTML {
	features := target.Features()
	maxVal := 0.0
	for _, f := range features {
		if v := values[f]; v > maxVal {
			maxVal = v
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	rowHeight := 34
	height := rowHeight*len(features) + 16
	barStart := 190.0
	barSpan := 380.0

	var b strings.Builder
	fmt.Fprintf(&b, `<svg viewBox="0 0 %d %d" class="chart" role="img" aria-label="submitted values">`, chartWidth, height)
	for i, f := range features {
		v := values[f]
		y := i*rowHeight + 10
		w := v / maxVal * barSpan
		fmt.Fprintf(&b, `<text x="%.1f" y="%d" text-anchor="end" class="chart-tick">%s</text>`, barStart-8, y+15, template.HTMLEscapeString(f))
		fmt.Fprintf(&b, `<rect x="%.1f" y="%d" width="%.1f" height="20" rx="3" fill="%s"/>`, barStart, y, math.Max(w, 1.5), colorBar)
		fmt.Fprintf(&b, `<text x="%.1f" y="%d" class="chart-value">%s</text>`, barStart+math.Max(w, 1.5)+8, y+15, chartNum(v))
	}
	b.WriteString(`</svg>`)
	return template.HTML(b.String())
}

// summaryChart draws the flag counts as one proportional stacked bar
func summaryChart(summary qc.FlagSummary) template.HTML {
	total := summary.Total()
	if total == 0 {
		return ""
	}

	segments := []struct {
		label string
		count int
		color string
	}{
		{"Below", summary.Under, colorBad},
		{"Within", summary.Within, colorOK},
		{"Above", summary.Over, colorOver},
		{"Not scored", summary.Unscored, colorNone},
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg viewBox="0 0 %d 84" class="chart" role="img" aria-label="flag summary">`, chartWidth)
	x := chartLeft
	for _, seg := range segments {
		if seg.count == 0 {
			continue
		}
		w := float64(seg.count) / float64(total) * (chartRight - chartLeft)
		fmt.Fprintf(&b, `<rect x="%.1f" y="16" width="%.1f" height="30" fill="%s"/>`, x, w, seg.color)
		if w > 34 {
			fmt.Fprintf(&b, `<text x="%.1f" y="36" text-anchor="middle" class="chart-seg">%d</text>`, x+w/2, seg.count)
		}
		x += w
	}
	legendX := chartLeft
	for _, seg := range segments {
		fmt.Fprintf(&b, `<rect x="%.1f" y="60" width="12" height="12" fill="%s"/>`, legendX, seg.color)
		fmt.Fprintf(&b, `<text x="%.1f" y="70" class="chart-tick">%s (%d)</text>`, legendX+17, seg.label, seg.count)
		legendX += float64(len(seg.label))*7 + 70
	}
	b.WriteString(`</svg>`)
	return template.HTML(b.String())
}

// chartNum keeps tick labels short across the magnitudes survey values
// span
func chartNum(v float64) string {
	av := math.Abs(v)
	switch {
	case av >= 1_000_000:
		return fmt.Sprintf("%.2fM", v/1_000_000)
	case av >= 10_000:
		return fmt.Sprintf("%.1fk", v/1000)
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
