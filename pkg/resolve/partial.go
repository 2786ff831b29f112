package resolve

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/pomtree/pomtree/pkg/pom"
)

// partialPom is the intermediate resolution state for one POM: concrete
// coordinates (never containing "${"), a link to the parent partial, the
// repositories declared locally, and the override maps computed against
// the ambient effective context.
//
// Two partials with equal fingerprints (the six-tuple of coordinates,
// parent, property overrides, and dependency overrides) must resolve to
// identical models, which is what makes the memoization in the resolver
// sound. The fingerprint is only taken after the override maps are
// finalized.
type partialPom struct {
	raw *pom.RawPom

	groupID    string
	artifactID string
	version    string

	parent *partialPom

	// repositories declared by this POM level, evaluated and rewritten.
	repositories []pom.Repository

	// properties is the POM's own declared (profile-flattened) property set.
	properties map[string]string

	// propertyOverrides holds keys whose effective value differs from the
	// locally declared one; dependencyOverrides holds the ambient managed
	// descriptor governing each of this POM's direct dependencies.
	propertyOverrides   map[string]string
	dependencyOverrides map[pom.GroupArtifact]pom.ManagedDependency

	// management collects the entries this level contributed to the
	// composed table, in composition order.
	management []pom.ManagedDependency

	// env resolves process-scope property overrides.
	env func(string) (string, bool)

	finalized   bool
	fingerprint string
}

func (p *partialPom) coordinates() string {
	return p.groupID + ":" + p.artifactID + ":" + p.version
}

// lookup implements the property view of §4.1: reserved coordinate tokens,
// then process-scope overrides, then the override map, then the POM's own
// properties, then the parent chain. First hit wins.
func (p *partialPom) lookup(key string) (string, bool) {
	switch key {
	case "groupId", "project.groupId", "pom.groupId":
		return p.groupID, true
	case "artifactId", "project.artifactId", "pom.artifactId":
		return p.artifactID, true
	case "version", "project.version", "pom.version":
		return p.version, true
	case "project.parent.groupId":
		if p.parent != nil {
			return p.parent.groupID, true
		}
		return "", false
	case "project.parent.artifactId":
		if p.parent != nil {
			return p.parent.artifactID, true
		}
		return "", false
	case "project.parent.version":
		if p.parent != nil {
			return p.parent.version, true
		}
		return "", false
	}
	if p.env != nil {
		if v, ok := p.env(key); ok {
			return v, true
		}
	}
	if v, ok := p.propertyOverrides[key]; ok {
		return v, true
	}
	if v, ok := p.properties[key]; ok {
		return v, true
	}
	if p.parent != nil {
		return p.parent.lookup(key)
	}
	return "", false
}

// value evaluates placeholders in v against this partial's property view.
// Unresolvable placeholders are left intact.
func (p *partialPom) value(v string) string {
	return Evaluate(v, p.lookup)
}

// requiredValue is like value but reports ok=false when the result is
// absent or still carries a placeholder.
func (p *partialPom) requiredValue(v string) (string, bool) {
	out := p.value(v)
	if unresolved(out) {
		return out, false
	}
	return out, true
}

// effectiveRepositories returns the repositories declared in this POM and
// its ancestors, child before parent, de-duplicated preserving first
// occurrence.
func (p *partialPom) effectiveRepositories() []pom.Repository {
	var repos []pom.Repository
	for cur := p; cur != nil; cur = cur.parent {
		repos = append(repos, cur.repositories...)
	}
	return pom.DedupeRepositories(repos)
}

// Fingerprint returns the structural identity of this partial. It must not
// be called before the override maps are finalized; the resolver enforces
// this by finalizing the whole chain before building.
func (p *partialPom) Fingerprint() string {
	if p.fingerprint != "" {
		return p.fingerprint
	}
	h := sha256.New()
	fmt.Fprintf(h, "%s:%s:%s\n", p.groupID, p.artifactID, p.version)
	if p.parent != nil {
		io.WriteString(h, p.parent.Fingerprint())
		io.WriteString(h, "\n")
	}
	for _, k := range sortedKeys(p.propertyOverrides) {
		fmt.Fprintf(h, "p|%s=%s\n", k, p.propertyOverrides[k])
	}
	for _, ga := range sortedGAs(p.dependencyOverrides) {
		md := p.dependencyOverrides[ga]
		fmt.Fprintf(h, "d|%s=%s|%s|%s|%v\n", ga, md.Version, md.ScopeName, md.Classifier, md.Exclusions)
	}
	p.fingerprint = hex.EncodeToString(h.Sum(nil))
	return p.fingerprint
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func sortedGAs(m map[pom.GroupArtifact]pom.ManagedDependency) []pom.GroupArtifact {
	gas := make([]pom.GroupArtifact, 0, len(m))
	for ga := range m {
		gas = append(gas, ga)
	}
	slices.SortFunc(gas, func(a, b pom.GroupArtifact) int {
		return strings.Compare(a.String(), b.String())
	})
	return gas
}
