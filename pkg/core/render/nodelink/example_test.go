package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/pyimporttime/pkg/core/importtime"
	"github.com/matzehuels/pyimporttime/pkg/core/render/nodelink"
	"github.com/matzehuels/pyimporttime/pkg/core/tree"
)

func ExampleToDOT() {
	records, _ := importtime.Parse(`import time: self [us] | cumulative | imported package
import time:       120 |        120 |   _io
import time:       200 |        320 | io
`)
	t, _ := tree.Build(records)

	dot := nodelink.ToDOT(t, nodelink.Options{})
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// n1 -> n2;
}
