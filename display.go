package reshape

import (
	"fmt"
	"strings"
	"sync"
)

// DisplayConfig controls how DataFrames and Series render as text. Frames
// larger than MaxRows or MaxCols show head and tail slices around an
// ellipsis marker.
type DisplayConfig struct {
	MaxRows        int
	MaxCols        int
	MaxColWidth    int
	MinColWidth    int
	FloatPrecision int
	ShowDTypes     bool
	ShowShape      bool
	TableStyle     string // "rounded" or "ascii"
}

// DefaultDisplayConfig returns the default display configuration.
func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		MaxRows:        10,
		MaxCols:        10,
		MaxColWidth:    25,
		MinColWidth:    8,
		FloatPrecision: 4,
		ShowDTypes:     true,
		ShowShape:      true,
		TableStyle:     "rounded",
	}
}

var (
	globalDisplayConfig = DefaultDisplayConfig()
	displayConfigMu     sync.RWMutex
)

// SetDisplayConfig sets the global display configuration.
func SetDisplayConfig(cfg DisplayConfig) {
	displayConfigMu.Lock()
	defer displayConfigMu.Unlock()
	globalDisplayConfig = cfg
}

// GetDisplayConfig returns the current global display configuration.
func GetDisplayConfig() DisplayConfig {
	displayConfigMu.RLock()
	defer displayConfigMu.RUnlock()
	return globalDisplayConfig
}

type tableChars struct {
	topLeft, topRight, bottomLeft, bottomRight string
	horizontal, vertical                       string
	topT, bottomT, leftT, rightT, cross        string
}

var tableStyles = map[string]tableChars{
	"rounded": {
		topLeft: "╭", topRight: "╮", bottomLeft: "╰", bottomRight: "╯",
		horizontal: "─", vertical: "│",
		topT: "┬", bottomT: "┴", leftT: "├", rightT: "┤", cross: "┼",
	},
	"ascii": {
		topLeft: "+", topRight: "+", bottomLeft: "+", bottomRight: "+",
		horizontal: "-", vertical: "|",
		topT: "+", bottomT: "+", leftT: "+", rightT: "+", cross: "+",
	},
}

func styleChars(style string) tableChars {
	if c, ok := tableStyles[style]; ok {
		return c
	}
	return tableStyles["rounded"]
}

const displayEllipsis = "…"

// headTailIndices returns all indices when n fits in max, otherwise the head
// and tail halves separated by a -1 ellipsis marker.
func headTailIndices(n, max int) []int {
	if n <= max {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	head := max / 2
	tail := max - head
	out := make([]int, 0, max+1)
	for i := 0; i < head; i++ {
		out = append(out, i)
	}
	out = append(out, -1)
	for i := n - tail; i < n; i++ {
		out = append(out, i)
	}
	return out
}

// columnTypeLabel renders a column's type for the header row, including the
// element type for list columns.
func columnTypeLabel(s *Series) string {
	if s.DType().IsNested() {
		return NewListType(s.ListElementType()).String()
	}
	return s.DType().String()
}

// formatDisplayValue renders one cell. Missing is "null", floats honor the
// configured precision, list cells render their elements in brackets.
func formatDisplayValue(val interface{}, cfg DisplayConfig) string {
	switch v := val.(type) {
	case nil:
		return "null"
	case float64:
		return fmt.Sprintf("%.*f", cfg.FloatPrecision, v)
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case *Series:
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = formatDisplayValue(v.Get(i), cfg)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func clipCell(s string, width int) string {
	if len(s) > width {
		return s[:width-3] + "..."
	}
	return s
}

func writeRule(sb *strings.Builder, left, join, right string, chars tableChars, widths []int) {
	sb.WriteString(left)
	for i, w := range widths {
		if i > 0 {
			sb.WriteString(join)
		}
		sb.WriteString(strings.Repeat(chars.horizontal, w+2))
	}
	sb.WriteString(right)
	sb.WriteString("\n")
}

func writeCellRow(sb *strings.Builder, chars tableChars, cells []string, widths []int, rightAlign bool) {
	sb.WriteString(chars.vertical)
	for i, cell := range cells {
		cell = clipCell(cell, widths[i])
		if rightAlign {
			fmt.Fprintf(sb, " %*s ", widths[i], cell)
		} else {
			fmt.Fprintf(sb, " %-*s ", widths[i], cell)
		}
		sb.WriteString(chars.vertical)
	}
	sb.WriteString("\n")
}

// String formats the DataFrame with the global display configuration.
func (df *DataFrame) String() string {
	return df.StringWithConfig(GetDisplayConfig())
}

// StringWithConfig formats the DataFrame using the provided configuration.
func (df *DataFrame) StringWithConfig(cfg DisplayConfig) string {
	if df.Height() == 0 || df.Width() == 0 {
		return "DataFrame(empty)"
	}

	rows := headTailIndices(df.Height(), cfg.MaxRows)
	cols := headTailIndices(df.Width(), cfg.MaxCols)

	header := make([]string, len(cols))
	dtypes := make([]string, len(cols))
	for i, c := range cols {
		if c == -1 {
			header[i] = displayEllipsis
			dtypes[i] = "---"
			continue
		}
		header[i] = df.Column(c).Name()
		dtypes[i] = columnTypeLabel(df.Column(c))
	}

	lines := make([][]string, len(rows))
	for r, row := range rows {
		line := make([]string, len(cols))
		for i, c := range cols {
			if row == -1 || c == -1 {
				line[i] = displayEllipsis
			} else {
				line[i] = formatDisplayValue(df.Column(c).Get(row), cfg)
			}
		}
		lines[r] = line
	}

	widths := make([]int, len(cols))
	for i, c := range cols {
		if c == -1 {
			widths[i] = len(displayEllipsis)
			continue
		}
		w := len(header[i])
		if cfg.ShowDTypes && len(dtypes[i]) > w {
			w = len(dtypes[i])
		}
		for _, line := range lines {
			if len(line[i]) > w {
				w = len(line[i])
			}
		}
		if w < cfg.MinColWidth {
			w = cfg.MinColWidth
		}
		if w > cfg.MaxColWidth {
			w = cfg.MaxColWidth
		}
		widths[i] = w
	}

	chars := styleChars(cfg.TableStyle)
	var sb strings.Builder
	if cfg.ShowShape {
		fmt.Fprintf(&sb, "shape: (%d, %d)\n", df.Height(), df.Width())
	}
	writeRule(&sb, chars.topLeft, chars.topT, chars.topRight, chars, widths)
	writeCellRow(&sb, chars, header, widths, false)
	if cfg.ShowDTypes {
		writeCellRow(&sb, chars, dtypes, widths, false)
	}
	writeRule(&sb, chars.leftT, chars.cross, chars.rightT, chars, widths)
	for _, line := range lines {
		writeCellRow(&sb, chars, line, widths, true)
	}
	writeRule(&sb, chars.bottomLeft, chars.bottomT, chars.bottomRight, chars, widths)
	return strings.TrimSuffix(sb.String(), "\n")
}

// String formats the Series with the global display configuration.
func (s *Series) String() string {
	return SeriesStringWithConfig(s, GetDisplayConfig())
}

// SeriesStringWithConfig formats the Series using the provided configuration.
func SeriesStringWithConfig(s *Series, cfg DisplayConfig) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Series: '%s' (%s)\nlength: %d\n", s.Name(), columnTypeLabel(s), s.Len())
	if s.Len() == 0 {
		sb.WriteString("[]")
		return sb.String()
	}

	rows := headTailIndices(s.Len(), cfg.MaxRows)
	lines := make([][]string, len(rows))
	for i, idx := range rows {
		if idx == -1 {
			lines[i] = []string{displayEllipsis, displayEllipsis}
		} else {
			lines[i] = []string{fmt.Sprintf("%d", idx), formatDisplayValue(s.Get(idx), cfg)}
		}
	}

	widths := []int{len(displayEllipsis), cfg.MinColWidth}
	for _, line := range lines {
		if len(line[0]) > widths[0] {
			widths[0] = len(line[0])
		}
		if len(line[1]) > widths[1] {
			widths[1] = len(line[1])
		}
	}
	if widths[1] > cfg.MaxColWidth {
		widths[1] = cfg.MaxColWidth
	}

	chars := styleChars(cfg.TableStyle)
	writeRule(&sb, chars.topLeft, chars.topT, chars.topRight, chars, widths)
	for _, line := range lines {
		writeCellRow(&sb, chars, line, widths, true)
	}
	writeRule(&sb, chars.bottomLeft, chars.bottomT, chars.bottomRight, chars, widths)
	return strings.TrimSuffix(sb.String(), "\n")
}
