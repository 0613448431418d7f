package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/matzehuels/pyimporttime/pkg/core/importtime"
	"github.com/matzehuels/pyimporttime/pkg/core/tree"
	"github.com/matzehuels/pyimporttime/pkg/errors"
)

// =============================================================================
// Trace - Flat Record Serialization
// =============================================================================

// Trace is the serialization format for parsed import time records.
// Records keep their input order.
type Trace struct {
	TotalUS int64    `json:"total_us"`
	Records []Record `json:"records"`
}

// Record is one serialized trace line.
type Record struct {
	Name         string `json:"name"`
	SelfUS       int64  `json:"self_us"`
	CumulativeUS int64  `json:"cumulative_us"`
	Depth        int    `json:"depth"`
	Line         int    `json:"line,omitempty"`
}

// FromRecords converts parsed records to their serialization format.
// The total is the sum of the top-level cumulative times.
func FromRecords(records []importtime.Record) Trace {
	out := Trace{Records: make([]Record, len(records))}
	for i, r := range records {
		out.Records[i] = Record{
			Name:         r.Name,
			SelfUS:       micros(r.Self),
			CumulativeUS: micros(r.Cumulative),
			Depth:        r.Depth,
			Line:         r.Line,
		}
		if r.Depth == 0 {
			out.TotalUS += micros(r.Cumulative)
		}
	}
	return out
}

// ToRecords converts a serialized trace back to records.
func (t Trace) ToRecords() []importtime.Record {
	out := make([]importtime.Record, len(t.Records))
	for i, r := range t.Records {
		out[i] = importtime.Record{
			Name:       r.Name,
			Self:       fromMicros(r.SelfUS),
			Cumulative: fromMicros(r.CumulativeUS),
			Depth:      r.Depth,
			Line:       r.Line,
		}
	}
	return out
}

// MarshalTrace serializes records to pretty-printed JSON bytes.
func MarshalTrace(records []importtime.Record) ([]byte, error) {
	return json.MarshalIndent(FromRecords(records), "", "  ")
}

// ReadTrace decodes a JSON trace from an io.Reader. Both the flat Trace and
// the nested Modules shape are accepted; nested input is flattened back into
// trace order.
func ReadTrace(r io.Reader) ([]importtime.Record, error) {
	var doc struct {
		Records json.RawMessage `json:"records"`
		Imports json.RawMessage `json:"imports"`
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode JSON trace")
	}

	switch {
	case doc.Records != nil:
		var t Trace
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode JSON trace")
		}
		return t.ToRecords(), nil
	case doc.Imports != nil:
		var m Modules
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode JSON import tree")
		}
		return m.ToRecords(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, `JSON input has neither "records" nor "imports"`)
}

// WriteTraceFile writes records as a JSON trace file.
func WriteTraceFile(records []importtime.Record, path string) error {
	data, err := MarshalTrace(records)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadTraceFile reads records from a JSON trace file.
func ReadTraceFile(path string) ([]importtime.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTrace(f)
}

// =============================================================================
// Modules - Nested Tree Serialization
// =============================================================================

// Modules is the nested serialization of an import tree.
type Modules struct {
	TotalUS int64    `json:"total_us"`
	Count   int      `json:"count"`
	Imports []Module `json:"imports"`
}

// Module is one node of the nested tree.
type Module struct {
	Name         string   `json:"name"`
	SelfUS       int64    `json:"self_us"`
	CumulativeUS int64    `json:"cumulative_us"`
	Percent      float64  `json:"percent"`
	Line         int      `json:"line,omitempty"`
	Imports      []Module `json:"imports,omitempty"`
}

// FromTree converts an import tree to its nested serialization.
func FromTree(t *tree.Tree) Modules {
	var convert func(ids []tree.NodeID) []Module
	convert = func(ids []tree.NodeID) []Module {
		if len(ids) == 0 {
			return nil
		}
		out := make([]Module, len(ids))
		for i, id := range ids {
			n, _ := t.Node(id)
			out[i] = Module{
				Name:         n.Name,
				SelfUS:       micros(n.Self),
				CumulativeUS: micros(n.Cumulative),
				Percent:      round2(t.Percent(id)),
				Line:         n.Line,
				Imports:      convert(n.Children),
			}
		}
		return out
	}
	return Modules{
		TotalUS: micros(t.Total()),
		Count:   t.Len(),
		Imports: convert(t.Root().Children),
	}
}

// ToRecords flattens the nested tree into records in trace order, where every
// module follows the imports it triggered.
func (m Modules) ToRecords() []importtime.Record {
	out := make([]importtime.Record, 0, m.Count)
	var walk func(mods []Module, depth int)
	walk = func(mods []Module, depth int) {
		for _, mod := range mods {
			walk(mod.Imports, depth+1)
			out = append(out, importtime.Record{
				Name:       mod.Name,
				Self:       fromMicros(mod.SelfUS),
				Cumulative: fromMicros(mod.CumulativeUS),
				Depth:      depth,
				Line:       mod.Line,
			})
		}
	}
	walk(m.Imports, 0)
	return out
}

// MarshalModules serializes an import tree to nested, pretty-printed JSON.
func MarshalModules(t *tree.Tree) ([]byte, error) {
	return json.MarshalIndent(FromTree(t), "", "  ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
