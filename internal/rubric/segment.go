package rubric

import "strings"

// Segment groups contiguous table rows of a document into blocks, in
// document order. A line is a table row iff its trimmed form starts with
// '|'. Separator rows stay inside their block.
func Segment(document string) []TableBlock {
	var blocks []TableBlock
	var current TableBlock

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, current)
			current = nil
		}
	}

	for _, line := range strings.Split(document, "\n") {
		row := strings.TrimSpace(line)
		if strings.HasPrefix(row, "|") {
			current = append(current, row)
			continue
		}
		flush()
	}
	flush()

	return blocks
}

// IsSeparatorRow reports whether a row is a markdown alignment row made of
// '|', '-', ':' and whitespace only.
func IsSeparatorRow(row string) bool {
	if strings.TrimSpace(row) == "" {
		return false
	}
	for _, r := range row {
		switch r {
		case '|', '-', ':', ' ', '\t', '\r':
		default:
			return false
		}
	}
	return true
}

// Text returns the block's rows joined by newlines.
func (b TableBlock) Text() string {
	return strings.Join(b, "\n")
}

// DataRows returns the rows that carry data: separator rows and the header
// rows above the first separator are dropped.
func (b TableBlock) DataRows() []string {
	header := 0
	for i, row := range b {
		if IsSeparatorRow(row) {
			header = i
			break
		}
	}

	rows := make([]string, 0, len(b))
	for i, row := range b {
		if i < header || IsSeparatorRow(row) {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// SplitCells splits a table row on '|', trims every cell and drops empty
// leading and trailing cells. Interior empty cells are kept.
func SplitCells(row string) []string {
	parts := strings.Split(row, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}

	start, end := 0, len(cells)
	for start < end && cells[start] == "" {
		start++
	}
	for end > start && cells[end-1] == "" {
		end--
	}
	return cells[start:end]
}
