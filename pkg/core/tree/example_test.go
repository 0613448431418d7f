package tree_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/pyimporttime/pkg/core/importtime"
	"github.com/matzehuels/pyimporttime/pkg/core/tree"
)

func ExampleBuild() {
	records, _ := importtime.Parse(`import time:   100 |   100 |   a
import time:    50 |    50 |     b
import time:    30 |   180 |   c
`)
	t, err := tree.Build(records)
	if err != nil {
		panic(err)
	}
	t.Walk(func(n *tree.Node) bool {
		fmt.Printf("%s%s %v (slack %v)\n", strings.Repeat("  ", n.Depth), n.Name, n.Cumulative, t.Slack(n.ID))
		return true
	})
	fmt.Println("total", t.Total())
	// Output:
	// a 100µs (slack 100µs)
	// c 180µs (slack 130µs)
	//   b 50µs (slack 50µs)
	// total 280µs
}
