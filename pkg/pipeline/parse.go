package pipeline

import (
	"github.com/matzehuels/pyimporttime/pkg/cache"
	"github.com/matzehuels/pyimporttime/pkg/core/importtime"
	"github.com/matzehuels/pyimporttime/pkg/core/tree"
	"github.com/matzehuels/pyimporttime/pkg/graph"
)

// Parse reads `-X importtime` output and rebuilds the import tree.
//
// Errors carry the 1-based line number of the offending record; see
// errors.LineOf. No partial tree is returned on failure.
func Parse(trace string) ([]importtime.Record, *tree.Tree, error) {
	records, err := importtime.Parse(trace)
	if err != nil {
		return nil, nil, err
	}
	t, err := tree.Build(records)
	if err != nil {
		return nil, nil, err
	}
	return records, t, nil
}

// TraceHash returns the content hash of a tree's records.
// Two traces that differ only in ignored lines (headers, interpreter
// output) hash the same.
func TraceHash(t *tree.Tree) string {
	data, err := graph.MarshalTrace(t.Records())
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
