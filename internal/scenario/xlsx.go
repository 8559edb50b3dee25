package scenario

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/eugenenazirov/boxpack/internal/packer"
)

const boxKind = "box"

// loadXLSX reads the first sheet of a workbook. The header row must name
// width, height and weight columns; count and kind are optional. A row whose
// kind is "box" declares the container, every other row is an item.
func loadXLSX(path string) (part, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return part{}, fmt.Errorf("open workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return part{}, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return part{}, fmt.Errorf("%w: empty sheet", ErrMissingColumn)
	}

	cols := headerIndex(rows[0])
	for _, name := range []string{"width", "height", "weight"} {
		if _, ok := cols[name]; !ok {
			return part{}, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	var (
		box   *packer.Box
		specs []itemSpec
	)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		line := i + 2
		width, err := intCell(row, cols["width"], line)
		if err != nil {
			return part{}, err
		}
		height, err := intCell(row, cols["height"], line)
		if err != nil {
			return part{}, err
		}
		weight, err := intCell(row, cols["weight"], line)
		if err != nil {
			return part{}, err
		}

		if idx, ok := cols["kind"]; ok && strings.EqualFold(cell(row, idx), boxKind) {
			box = &packer.Box{Width: width, Height: height, Weight: weight}
			continue
		}

		count := 1
		if idx, ok := cols["count"]; ok && cell(row, idx) != "" {
			if count, err = intCell(row, idx, line); err != nil {
				return part{}, err
			}
		}
		specs = append(specs, itemSpec{Width: width, Height: height, Weight: weight, Count: count})
	}

	return part{box: box, items: expand(specs)}, nil
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func intCell(row []string, idx, line int) (int, error) {
	raw := cell(row, idx)
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("row %d: invalid integer %q", line, raw)
	}
	return value, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
