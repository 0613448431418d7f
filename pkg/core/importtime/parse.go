package importtime

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/pyimporttime/pkg/errors"
)

const (
	// Label prefixes every timing line.
	Label = "import time:"

	// IndentWidth is the number of spaces per nesting level.
	IndentWidth = 2

	headerMarker = "self [us]"
	maxLineSize  = 1 << 20
)

// maxMicros is the largest microsecond count representable as a time.Duration.
const maxMicros = math.MaxInt64 / int64(time.Microsecond)

// Parse parses trace text into records, preserving input order.
func Parse(text string) ([]Record, error) {
	return Decode(strings.NewReader(text))
}

// Decode reads a trace from r and returns its records in input order.
// The first malformed or inconsistent line aborts decoding.
func Decode(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		records []Record
		indents []int
		lineNo  int
	)
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		rest, ok := strings.CutPrefix(line, Label)
		if !ok || strings.Contains(rest, headerMarker) {
			continue
		}

		rec, indent, err := parseLine(rest, lineNo, raw)
		if err != nil {
			return nil, err
		}
		if len(indents) > 0 && (indent-indents[0])%IndentWidth != 0 {
			return nil, errors.AtLine(errors.ErrCodeMalformedLine, lineNo, raw,
				"indentation of %d spaces is not aligned to %d-space levels", indent, IndentWidth)
		}
		records = append(records, rec)
		indents = append(indents, indent)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read trace")
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeNoRecords, "no import time records found")
	}

	baseline := indents[0]
	for _, in := range indents[1:] {
		baseline = min(baseline, in)
	}
	for i := range records {
		records[i].Depth = (indents[i] - baseline) / IndentWidth
	}
	return records, nil
}

// parseLine parses the fields following the label. It returns the record
// (without depth) and the raw indentation of the name.
func parseLine(rest string, lineNo int, raw string) (Record, int, error) {
	fields := strings.SplitN(rest, "|", 3)
	if len(fields) != 3 {
		return Record{}, 0, errors.AtLine(errors.ErrCodeMalformedLine, lineNo, raw,
			"expected 3 fields separated by '|', got %d", len(fields))
	}

	self, err := parseMicros(fields[0], "self time", lineNo, raw)
	if err != nil {
		return Record{}, 0, err
	}
	cum, err := parseMicros(fields[1], "cumulative time", lineNo, raw)
	if err != nil {
		return Record{}, 0, err
	}

	nameField := strings.TrimRight(fields[2], " \t")
	name := strings.TrimLeft(nameField, " ")
	indent := len(nameField) - len(name)
	if strings.HasPrefix(name, "\t") {
		return Record{}, 0, errors.AtLine(errors.ErrCodeMalformedLine, lineNo, raw,
			"indentation must use spaces")
	}
	if name == "" {
		return Record{}, 0, errors.AtLine(errors.ErrCodeMalformedLine, lineNo, raw, "empty module name")
	}
	if cum < self {
		return Record{}, 0, errors.AtLine(errors.ErrCodeInconsistentRecord, lineNo, raw,
			"cumulative time %dus is less than self time %dus for %s",
			cum.Microseconds(), self.Microseconds(), name)
	}

	return Record{
		Name:       name,
		Self:       self,
		Cumulative: cum,
		Line:       lineNo,
	}, indent, nil
}

func parseMicros(field, what string, lineNo int, raw string) (time.Duration, error) {
	s := strings.TrimSpace(field)
	if s == "" {
		return 0, errors.AtLine(errors.ErrCodeMalformedLine, lineNo, raw, "missing %s", what)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return 0, errors.AtLine(errors.ErrCodeMalformedLine, lineNo, raw, "%s %q is out of range", what, s)
		}
		return 0, errors.AtLine(errors.ErrCodeMalformedLine, lineNo, raw, "%s %q is not a number", what, s)
	}
	if n < 0 {
		return 0, errors.AtLine(errors.ErrCodeMalformedLine, lineNo, raw, "%s %d is negative", what, n)
	}
	if n > maxMicros {
		return 0, errors.AtLine(errors.ErrCodeMalformedLine, lineNo, raw, "%s %q is out of range", what, s)
	}
	return time.Duration(n) * time.Microsecond, nil
}
