package dag

import (
	"github.com/pomtree/pomtree/pkg/pom"
)

// FromPom projects a resolved model into a dependency graph. Nodes are
// keyed by group:artifact and carry version/scope metadata; edges follow
// resolved dependency descriptors. Shared winners converge on one node, so
// the projection of a conflict-resolved tree is a DAG even when multiple
// paths request the same artifact.
func FromPom(root *pom.Pom) *DAG {
	g := New()
	visited := make(map[string]bool)
	addPomNode(g, root)
	project(g, root, visited)
	return g
}

func project(g *DAG, p *pom.Pom, visited map[string]bool) {
	id := p.GA().String()
	if visited[id] {
		return
	}
	visited[id] = true

	for _, dep := range p.Dependencies {
		depID := dep.GA().String()
		if _, ok := g.Node(depID); !ok {
			meta := Metadata{"version": dep.Version}
			if dep.RequestedVersion != "" && dep.RequestedVersion != dep.Version {
				meta["requested"] = dep.RequestedVersion
			}
			if dep.ScopeName != "" && dep.ScopeName != "compile" {
				meta["scope"] = dep.ScopeName
			}
			_ = g.AddNode(Node{ID: depID, Meta: meta})
		}
		_ = g.AddEdge(Edge{From: id, To: depID})
		if dep.Model != nil {
			project(g, dep.Model, visited)
		}
	}

	// Inherited dependencies come from the parent chain.
	for anc := p.Parent; anc != nil; anc = anc.Parent {
		for _, dep := range anc.Dependencies {
			depID := dep.GA().String()
			if _, ok := g.Node(depID); !ok {
				_ = g.AddNode(Node{ID: depID, Meta: Metadata{"version": dep.Version, "inherited": true}})
			}
			_ = g.AddEdge(Edge{From: id, To: depID})
			if dep.Model != nil {
				project(g, dep.Model, visited)
			}
		}
	}
}

func addPomNode(g *DAG, p *pom.Pom) {
	meta := Metadata{"version": p.Version, "root": true}
	if p.Packaging != "" {
		meta["packaging"] = p.Packaging
	}
	_ = g.AddNode(Node{ID: p.GA().String(), Meta: meta})
}
