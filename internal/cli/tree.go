package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pomtree/pomtree/pkg/dag"
	pkgio "github.com/pomtree/pomtree/pkg/io"
	"github.com/pomtree/pomtree/pkg/pom"
)

// newTreeCmd creates the tree command: print the resolved dependency tree.
func newTreeCmd() *cobra.Command {
	opts := resolveOpts{}
	var jsonOut string
	var interactive bool

	cmd := &cobra.Command{
		Use:   "tree <pom.xml|groupId:artifactId:version>",
		Short: "Print the resolved dependency tree",
		Long: `Print the transitive dependency tree of a resolved POM, in the style of
mvn dependency:tree. Artifacts already printed elsewhere in the tree are
marked with (*); a dependency whose declared version text (such as a
property placeholder) differs from the chosen version shows that text
alongside it. A dependency reused from an earlier conflict winner shows
the winner's version only.

Examples:
  pomtree tree pom.xml
  pomtree tree com.google.guava:guava:33.0.0-jre
  pomtree tree pom.xml --interactive
  pomtree tree pom.xml --json graph.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			model, warnings, err := runResolve(ctx, &opts, args[0])
			if err != nil {
				return err
			}

			if jsonOut != "" {
				g := dag.FromPom(model)
				if err := pkgio.ExportJSON(g, jsonOut); err != nil {
					return err
				}
				printSuccess("Exported %s", StyleHighlight.Render(model.Coordinates()))
				printFile(jsonOut)
				printWarnings(warnings)
				return nil
			}

			if interactive {
				m := newTreeModel(model)
				_, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
				return err
			}

			printTree(model)
			printWarnings(warnings)
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&jsonOut, "json", "", "export the dependency graph as JSON instead of printing")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the tree interactively")
	return cmd
}

// printTree renders the dependency tree with box-drawing glyphs. Each
// artifact's subtree is expanded once; repeats are marked with (*).
func printTree(model *pom.Pom) {
	fmt.Println(StyleTitle.Render(model.Coordinates()))
	seen := map[string]bool{model.GA().String(): true}
	printChildren(model.Dependencies, "", seen)
}

func printChildren(deps []*pom.Dependency, prefix string, seen map[string]bool) {
	for i, dep := range deps {
		last := i == len(deps)-1
		glyph, childPrefix := "├── ", prefix+"│   "
		if last {
			glyph, childPrefix = "└── ", prefix+"    "
		}

		fmt.Println(prefix + StyleDim.Render(glyph) + formatDep(dep, seen))
		if seen[dep.GA().String()] {
			continue
		}
		seen[dep.GA().String()] = true
		if dep.Model != nil {
			printChildren(dep.Model.Dependencies, childPrefix, seen)
		}
	}
}

func formatDep(dep *pom.Dependency, seen map[string]bool) string {
	var b strings.Builder
	b.WriteString(StyleValue.Render(dep.GA().String()))
	b.WriteString(":")
	if dep.RequestedVersion != "" && dep.RequestedVersion != dep.Version {
		b.WriteString(styleConflict.Render(dep.Version))
		b.WriteString(StyleDim.Render(fmt.Sprintf(" (requested %s)", dep.RequestedVersion)))
	} else {
		b.WriteString(styleVersion.Render(dep.Version))
	}
	if dep.ScopeName != "" && dep.ScopeName != "compile" {
		b.WriteString(styleScope.Render(" [" + dep.ScopeName + "]"))
	}
	if seen[dep.GA().String()] {
		b.WriteString(StyleDim.Render(" (*)"))
	}
	return b.String()
}
