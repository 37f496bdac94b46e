package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Color table files as described at
// http://www.grlevelx.com/manuals/color_tables/files_color_table.htm

var (
	ErrEmptyTable = errors.New("no color entries found")
	ErrTokenCount = errors.New("unexpected number of color components")
	ErrValue      = errors.New("data value is not finite")
)

type RGB struct {
	Red   int
	Green int
	Blue  int
}

type ColorEntry struct {
	Value float64
	Red   int
	Green int
	Blue  int

	// End is the second color of a gradient-pair line, nil otherwise.
	End *RGB

	Tag  string
	Line int
}

type ColorTable struct {
	Product string
	Units   string
	Entries []ColorEntry
}

// Values returns the data value of every entry in table order.
func (t *ColorTable) Values() []float64 {
	values := make([]float64, len(t.Entries))
	for i, e := range t.Entries {
		values[i] = e.Value
	}
	return values
}

// Min returns the smallest value, or NaN for a table without entries.
func (t *ColorTable) Min() float64 {
	if len(t.Entries) == 0 {
		return math.NaN()
	}
	return t.Entries[0].Value
}

// Max returns the largest value, or NaN for a table without entries.
func (t *ColorTable) Max() float64 {
	if len(t.Entries) == 0 {
		return math.NaN()
	}
	return t.Entries[len(t.Entries)-1].Value
}

type ParseError struct {
	Path string
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	path := e.Path
	if path == "" {
		path = "<input>"
	}
	return fmt.Sprintf("%s:%d: %v (%q)", path, e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func Parse(path string) (*ColorTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening color table: %w", err)
	}
	defer file.Close()

	table, err := parse(file, path)
	if err != nil {
		return nil, err
	}
	Logger().Debug("parsed color table", "path", path, "entries", len(table.Entries))
	return table, nil
}

func ParseReader(r io.Reader) (*ColorTable, error) {
	return parse(r, "")
}

func parse(r io.Reader, path string) (*ColorTable, error) {
	fold := cases.Fold()
	table := &ColorTable{}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}

		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			Logger().Debug("skipping line without tag", "line", lineNo)
			continue
		}
		tag := strings.TrimSpace(fold.String(line[:colon]))
		rest := strings.TrimSpace(line[colon+1:])

		switch {
		case strings.Contains(tag, "color"):
		case tag == "product":
			table.Product = rest
			continue
		case tag == "units":
			table.Units = rest
			continue
		default:
			Logger().Debug("skipping line", "line", lineNo, "tag", tag)
			continue
		}

		entry, err := parseEntry(tag, strings.Fields(rest))
		if err != nil {
			return nil, &ParseError{Path: path, Line: lineNo, Text: line, Err: err}
		}
		entry.Line = lineNo
		table.Entries = append(table.Entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading color table: %w", err)
	}

	if len(table.Entries) == 0 {
		return nil, ErrEmptyTable
	}

	slices.SortStableFunc(table.Entries, func(a, b ColorEntry) int {
		switch {
		case a.Value < b.Value:
			return -1
		case a.Value > b.Value:
			return 1
		}
		return 0
	})

	return table, nil
}

func parseEntry(tag string, values []string) (ColorEntry, error) {
	if len(values) == 0 {
		return ColorEntry{}, ErrTokenCount
	}

	// Remove alpha values for Color4 and SolidColor4
	if strings.Contains(tag, "color4") {
		switch len(values) {
		case 9:
			values = slices.Delete(values, 4, 5)
			values = values[:len(values)-1]
		case 5:
			values = slices.Delete(values, 4, 5)
		}
	}

	value, err := strconv.ParseFloat(values[0], 64)
	if err != nil {
		return ColorEntry{}, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ColorEntry{}, fmt.Errorf("%w: %s", ErrValue, values[0])
	}

	components := values[1:]
	switch len(components) {
	case 3, 4, 6:
	default:
		return ColorEntry{}, fmt.Errorf("%w: %d", ErrTokenCount, len(components))
	}

	first, err := parseRGB(components[:3])
	if err != nil {
		return ColorEntry{}, err
	}

	entry := ColorEntry{
		Value: value,
		Red:   first.Red,
		Green: first.Green,
		Blue:  first.Blue,
		Tag:   tag,
	}

	if len(components) == 6 {
		end, err := parseRGB(components[3:])
		if err != nil {
			return ColorEntry{}, err
		}
		entry.End = &end
	}

	return entry, nil
}

func parseRGB(fields []string) (RGB, error) {
	var c [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return RGB{}, err
		}
		c[i] = v
	}
	return RGB{Red: c[0], Green: c[1], Blue: c[2]}, nil
}
