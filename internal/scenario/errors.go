package scenario

import "errors"

var (
	// ErrInvalidScenario is returned when a box or item fails validation.
	ErrInvalidScenario = errors.New("invalid scenario")
	// ErrUnsupportedFormat is returned for files that are neither YAML nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported scenario file format")
	// ErrNoScenarioFiles is returned when a directory holds no scenario files.
	ErrNoScenarioFiles = errors.New("no scenario files found")
	// ErrMissingColumn is returned when a spreadsheet lacks a required header.
	ErrMissingColumn = errors.New("missing required column")
)
