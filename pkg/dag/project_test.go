package dag

import (
	"testing"

	"github.com/pomtree/pomtree/pkg/pom"
)

func TestFromPom(t *testing.T) {
	shared := &pom.Pom{GroupID: "x", ArtifactID: "y", Version: "2.0"}
	b := &pom.Pom{
		GroupID: "g", ArtifactID: "b", Version: "1.0",
		Dependencies: []*pom.Dependency{
			{GroupID: "x", ArtifactID: "y", Version: "2.0", RequestedVersion: "1.0", ScopeName: "compile", Model: shared},
		},
	}
	root := &pom.Pom{
		GroupID: "g", ArtifactID: "a", Version: "1",
		Dependencies: []*pom.Dependency{
			{GroupID: "g", ArtifactID: "b", Version: "1.0", RequestedVersion: "1.0", ScopeName: "compile", Model: b},
			{GroupID: "x", ArtifactID: "y", Version: "2.0", RequestedVersion: "2.0", ScopeName: "compile", Model: shared},
		},
	}

	g := FromPom(root)

	if g.Len() != 3 {
		t.Fatalf("nodes = %d, want 3 (shared winner collapses)", g.Len())
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}

	n, ok := g.Node("x:y")
	if !ok {
		t.Fatal("node x:y missing")
	}
	if n.Meta["version"] != "2.0" {
		t.Errorf("version meta = %v, want 2.0", n.Meta["version"])
	}
	if n.Meta["requested"] != "1.0" {
		t.Errorf("requested meta = %v, want 1.0", n.Meta["requested"])
	}

	children := g.Children("g:a")
	if len(children) != 2 {
		t.Fatalf("children of root = %v", children)
	}
	if children[0] != "g:b" || children[1] != "x:y" {
		t.Errorf("children order = %v, want first-seen order", children)
	}
}

func TestFromPomInheritedDependencies(t *testing.T) {
	parent := &pom.Pom{
		GroupID: "g", ArtifactID: "parent", Version: "1",
		Dependencies: []*pom.Dependency{
			{GroupID: "x", ArtifactID: "y", Version: "1.0", ScopeName: "compile"},
		},
	}
	root := &pom.Pom{GroupID: "g", ArtifactID: "a", Version: "1", Parent: parent}

	g := FromPom(root)
	n, ok := g.Node("x:y")
	if !ok {
		t.Fatal("inherited dependency missing from graph")
	}
	if n.Meta["inherited"] != true {
		t.Error("inherited marker missing")
	}
}
