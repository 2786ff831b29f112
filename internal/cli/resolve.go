package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pomtree/pomtree/pkg/dag"
	"github.com/pomtree/pomtree/pkg/pom"
)

// newResolveCmd creates the resolve command: run the full pipeline on a
// pom.xml file or a coordinate and report the effective model.
func newResolveCmd() *cobra.Command {
	opts := resolveOpts{}
	var output string

	cmd := &cobra.Command{
		Use:   "resolve <pom.xml|groupId:artifactId:version>",
		Short: "Resolve a POM into its effective model",
		Long: `Resolve a raw POM into its effective model: coordinates normalized,
properties substituted, dependency management composed (including BOM
imports), and the transitive dependency graph built.

Examples:
  pomtree resolve pom.xml
  pomtree resolve org.apache.commons:commons-lang3:3.14.0
  pomtree resolve pom.xml -P ci --settings corp-settings.toml
  pomtree resolve pom.xml -o model.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prog := newProgress(loggerFromContext(ctx))

			model, warnings, err := runResolve(ctx, &opts, args[0])
			if err != nil {
				return err
			}
			g := dag.FromPom(model)
			prog.done(fmt.Sprintf("Resolved %s", model.Coordinates()))

			if output != "" {
				data, err := json.MarshalIndent(model, "", "  ")
				if err != nil {
					return err
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return err
				}
				printSuccess("Resolved %s", StyleHighlight.Render(model.Coordinates()))
				printFile(output)
			} else {
				printModelSummary(model)
			}
			printStats(g.Len(), len(g.Edges()), len(warnings))
			printWarnings(warnings)
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the resolved model as JSON to a file")
	return cmd
}

func printModelSummary(model *pom.Pom) {
	fmt.Println(StyleTitle.Render(model.Coordinates()))
	if model.Packaging != "" {
		printKeyValue("packaging", model.Packaging)
	}
	var chain []string
	for p := model.Parent; p != nil; p = p.Parent {
		chain = append(chain, p.Coordinates())
	}
	if len(chain) > 0 {
		printKeyValue("parents", strings.Join(chain, " "+iconArrow+" "))
	}
	if n := len(model.DependencyManagement); n > 0 {
		printKeyValue("managed", fmt.Sprintf("%d entries", n))
	}
	if len(model.Licenses) > 0 {
		var names []string
		for _, lic := range model.Licenses {
			names = append(names, lic.Name)
		}
		printKeyValue("licenses", strings.Join(names, ", "))
	}
}
