package ui

// HelpLine lists the keyboard controls every host understands.
const HelpLine = "space pause  enter run  n step  r reset  s shuffle  h overlay  q quit"

const (
	panelMargin    = 8
	panelPadding   = 6
	lineHeight     = 16
	headerBaseline = 12
)

// Layout is the placement of an overlay panel.
type Layout struct {
	X, Y          int
	Width, Height int
	// Baselines holds the text baseline y of each line.
	Baselines []int
}

// Measure lays out lines in a panel sized to the widest one. width reports
// the pixel width of a rendered line.
func Measure(lines []string, width func(string) int) Layout {
	l := Layout{X: panelMargin, Y: panelMargin}
	widest := 0
	for _, s := range lines {
		if w := width(s); w > widest {
			widest = w
		}
	}
	l.Width = widest + 2*panelPadding
	l.Height = len(lines)*lineHeight + 2*panelPadding - (lineHeight - headerBaseline)
	l.Baselines = make([]int, len(lines))
	for i := range lines {
		l.Baselines[i] = l.Y + panelPadding + headerBaseline + i*lineHeight
	}
	return l
}
