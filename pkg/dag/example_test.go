package dag_test

import (
	"fmt"

	"github.com/pomtree/pomtree/pkg/dag"
)

func ExampleDAG() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "org.example:app", Meta: dag.Metadata{"version": "1.0"}})
	_ = g.AddNode(dag.Node{ID: "org.slf4j:slf4j-api", Meta: dag.Metadata{"version": "2.0.13"}})
	_ = g.AddEdge(dag.Edge{From: "org.example:app", To: "org.slf4j:slf4j-api"})

	for _, n := range g.Nodes() {
		fmt.Printf("%s %v\n", n.ID, n.Meta["version"])
	}
	fmt.Println(g.Validate() == nil)
	// Output:
	// org.example:app 1.0
	// org.slf4j:slf4j-api 2.0.13
	// true
}
