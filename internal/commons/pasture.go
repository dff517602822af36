package commons

import "strings"

// PastureWidth is the number of cow slots on one line of the picture. One line
// is the optimal herd of a single farmer.
const PastureWidth = 2 * ExternalityCoefficient

const (
	ColorGreen = "green"
	ColorGrey  = "grey"
)

const (
	SegmentTenCows   = "ten_cows"
	SegmentCow       = "cow"
	SegmentBlank     = "blank"
	SegmentBlankLine = "blank_line"
)

// PastureSegment is a run of identical icons. A SegmentTenCows icon covers ten
// slots, a SegmentBlankLine covers a whole line, the others one slot each.
type PastureSegment struct {
	Kind  string `json:"kind"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

type Pasture struct {
	Overgrazed bool             `json:"overgrazed"`
	Segments   []PastureSegment `json:"segments"`
}

// BuildPasture lays out totalUnits cows. The green area is sized to the
// collective optimum; cows beyond it are drawn grey.
func BuildPasture(totalUnits, optimalUnits, farmers int) Pasture {
	var pasture Pasture
	if totalUnits < 0 {
		totalUnits = 0
	}
	tens := totalUnits / 10
	ones := totalUnits % 10
	fullLines := tens / 2
	if tens%2 == 1 {
		ones += 10
	}
	blanks := PastureWidth - ones
	if ones == 0 {
		blanks = 0
	}

	if totalUnits <= optimalUnits {
		partLines := 1
		if blanks == 0 {
			partLines = 0
		}
		blankLines := farmers - (fullLines + partLines)
		if blankLines < 0 {
			blankLines = 0
		}
		pasture.add(SegmentTenCows, ColorGreen, fullLines*2)
		pasture.add(SegmentCow, ColorGreen, ones)
		pasture.add(SegmentBlank, ColorGreen, blanks)
		pasture.add(SegmentBlankLine, ColorGreen, blankLines)
		return pasture
	}

	pasture.Overgrazed = true
	pasture.add(SegmentTenCows, ColorGreen, farmers*2)
	pasture.add(SegmentTenCows, ColorGrey, (fullLines-farmers)*2)
	pasture.add(SegmentCow, ColorGrey, ones)
	return pasture
}

func (p *Pasture) add(kind, color string, count int) {
	if count <= 0 {
		return
	}
	p.Segments = append(p.Segments, PastureSegment{Kind: kind, Color: color, Count: count})
}

// Cows counts the cow icons of the given color, in cows.
func (p Pasture) Cows(color string) int {
	total := 0
	for _, segment := range p.Segments {
		if segment.Color != color {
			continue
		}
		switch segment.Kind {
		case SegmentTenCows:
			total += segment.Count * 10
		case SegmentCow:
			total += segment.Count
		}
	}
	return total
}

// Lines renders the picture as text, one string per pasture line: 'C' is a
// green cow, 'X' a grey cow and '.' open grass.
func (p Pasture) Lines() []string {
	var cells strings.Builder
	for _, segment := range p.Segments {
		var cell string
		width := 1
		switch segment.Kind {
		case SegmentTenCows:
			width = 10
			cell = "C"
		case SegmentCow:
			cell = "C"
		case SegmentBlank:
			cell = "."
		case SegmentBlankLine:
			width = PastureWidth
			cell = "."
		}
		if segment.Color == ColorGrey && cell == "C" {
			cell = "X"
		}
		cells.WriteString(strings.Repeat(cell, width*segment.Count))
	}
	flat := cells.String()
	var lines []string
	for len(flat) > PastureWidth {
		lines = append(lines, flat[:PastureWidth])
		flat = flat[PastureWidth:]
	}
	if flat != "" {
		lines = append(lines, flat)
	}
	return lines
}
