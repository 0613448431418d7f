package importtime

import (
	"fmt"
	"time"
)

// Record is one parsed line of an import time trace.
type Record struct {
	Name       string        // Fully qualified module name
	Self       time.Duration // Time spent in the module body
	Cumulative time.Duration // Self time plus all nested imports
	Depth      int           // Nesting level, 0 for top-level imports
	Line       int           // 1-based line in the source text, 0 if synthetic
}

// String formats the record the way the interpreter prints it.
func (r Record) String() string {
	return fmt.Sprintf("%s %9d | %10d | %*s%s",
		Label, r.Self.Microseconds(), r.Cumulative.Microseconds(), r.Depth*IndentWidth, "", r.Name)
}

// Format renders records back into trace text, one line per record.
func Format(records []Record) string {
	var b []byte
	for _, r := range records {
		b = append(b, r.String()...)
		b = append(b, '\n')
	}
	return string(b)
}
