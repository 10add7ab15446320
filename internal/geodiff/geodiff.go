// Package geodiff reads the CSV summaries geodiff writes when comparing a DEM
// against a reference dataset.
//
// A summary starts with "#" comment lines, some of which carry statistics in
// "<label>: <value>" form, followed by one data line per compared point:
//
//	# Max difference:       12.41
//	# Min difference:       -3.07
//	# Mean difference:      1.23
//	# StdDev of difference: 0.88
//	-49.1, 69.2, 0.51
//	...
package geodiff

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"flightsummary/internal/services"
)

// Field names recognised in the comment header, in match priority order.
const (
	FieldMax      = "Max"
	FieldMin      = "Min"
	FieldMean     = "Mean"
	FieldStdDev   = "StdDev"
	FieldNumDiffs = "NumDiffs"
)

var keywords = []string{FieldMax, FieldMin, FieldMean, FieldStdDev}

// Result holds the statistics of one diff summary.
type Result struct {
	Max      float64
	Min      float64
	Mean     float64
	StdDev   float64
	NumDiffs int

	found map[string]bool
}

// Has reports whether the header carried the named statistic.
func (r Result) Has(field string) bool {
	if field == FieldNumDiffs {
		return true
	}
	return r.found[field]
}

// Fields returns the statistics present in the file keyed by field name.
// NumDiffs is always included.
func (r Result) Fields() map[string]float64 {
	out := map[string]float64{FieldNumDiffs: float64(r.NumDiffs)}
	values := map[string]float64{FieldMax: r.Max, FieldMin: r.Min, FieldMean: r.Mean, FieldStdDev: r.StdDev}
	for name, value := range values {
		if r.found[name] {
			out[name] = value
		}
	}
	return out
}

// Read parses the summary at path. A missing file wraps services.ErrNotFound;
// a summary without a Mean wraps services.ErrValidation.
func Read(path string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, services.MissingArtifact("geodiff", "read", path)
		}
		return Result{}, services.Wrap(services.ErrValidation, "geodiff", "read", path, err)
	}
	defer file.Close()

	result, err := Parse(file)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	if !result.Has(FieldMean) {
		return Result{}, services.Wrap(services.ErrValidation, "geodiff", "read", fmt.Sprintf("%s has no %s field", path, FieldMean), nil)
	}
	return result, nil
}

// Parse reads a summary from r. Unlike Read it does not require a Mean.
func Parse(r io.Reader) (Result, error) {
	result := Result{found: make(map[string]bool, len(keywords))}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	inHeader := true
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if inHeader && strings.HasPrefix(line, "#") {
			if err := result.applyHeader(line); err != nil {
				return Result{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			continue
		}
		inHeader = false
		if strings.TrimSpace(line) == "" {
			continue
		}
		result.NumDiffs++
	}
	if err := scanner.Err(); err != nil {
		return Result{}, services.Wrap(services.ErrValidation, "geodiff", "scan", "", err)
	}
	return result, nil
}

func (r *Result) applyHeader(line string) error {
	for _, keyword := range keywords {
		if !strings.Contains(line, keyword) {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) != 2 {
			return services.Wrap(services.ErrMalformed, "geodiff", "parse", fmt.Sprintf("expected one ':' in %q", line), nil)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return services.Wrap(services.ErrMalformed, "geodiff", "parse", fmt.Sprintf("%s value in %q", keyword, line), err)
		}
		switch keyword {
		case FieldMax:
			r.Max = value
		case FieldMin:
			r.Min = value
		case FieldMean:
			r.Mean = value
		case FieldStdDev:
			r.StdDev = value
		}
		r.found[keyword] = true
		return nil
	}
	return nil
}
