package resolve

import (
	"context"

	"github.com/pomtree/pomtree/pkg/errors"
	"github.com/pomtree/pomtree/pkg/pom"
)

// processDependencies composes the direct dependency list for one POM
// level, in source order, in two phases. The first phase resolves every
// entry's coordinates and performs conflict resolution: a slot already
// holding a winner for the (groupId, artifactId, scope) key reuses that
// descriptor, and its version beats any newly requested one, while new
// slots record this POM's request. Only then does the second phase recurse into
// the freshly won dependencies, so a POM's own direct versions are all
// claimed before any transitive definition can compete (nearest definition
// wins).
//
// Recursion uses a context that inherits only the winners map; properties
// and managed tables are strictly per-POM-tree.
func (r *Resolver) processDependencies(ctx context.Context, p *partialPom, ec *effectiveContext) []*pom.Dependency {
	var out []*pom.Dependency
	var fresh []*pom.Dependency
	for _, rawDep := range p.raw.ActiveDependencies(r.sctx.ActiveProfiles) {
		group := p.value(rawDep.GroupID)
		artifact := p.value(rawDep.ArtifactID)
		if unresolved(group) || unresolved(artifact) {
			// Contract: unresolvable group/artifact skips the entry silently.
			continue
		}
		ga := pom.GroupArtifact{Group: group, Artifact: artifact}
		md, hasManaged := ec.managedFor(ga)

		scopeToken := p.value(rawDep.Scope)
		var scope pom.Scope
		if scopeToken == "" && hasManaged {
			scope = md.Scope
		} else {
			scope = pom.ParseScope(scopeToken)
		}
		if scope == pom.ScopeInvalid || scope == pom.ScopeImport {
			continue
		}
		if rawDep.IsOptional() && !r.opts.ResolveOptional {
			continue
		}

		requested := p.value(rawDep.Version)
		if requested == "" && hasManaged {
			requested = md.Version
		}
		if unresolved(requested) {
			r.sctx.Report(errors.New(errors.ErrCodeUnresolvedProperty,
				"unable to determine version for dependency %s in %s", ga, p.coordinates()))
			continue
		}

		key := dependencyKey{ga: ga, scope: scope}
		if win, ok := ec.winner(key); ok {
			out = append(out, win)
			continue
		}

		exclusions := evalExclusions(p, rawDep.Exclusions)
		if len(exclusions) == 0 && hasManaged {
			exclusions = md.Exclusions
		}

		dep := &pom.Dependency{
			GroupID:          group,
			ArtifactID:       artifact,
			Version:          requested,
			RequestedVersion: rawVersion(rawDep.Version, requested),
			Scope:            scope,
			ScopeName:        scope.String(),
			Type:             depType(rawDep.Type),
			Classifier:       p.value(rawDep.Classifier),
			Optional:         rawDep.IsOptional(),
			Exclusions:       exclusions,
		}
		ec.setWinner(key, dep)
		out = append(out, dep)
		fresh = append(fresh, dep)
	}

	for _, dep := range fresh {
		rawChild, err := r.downloader.Download(ctx, dep.GroupID, dep.ArtifactID, dep.Version, "", p.raw,
			downloadRepositories(&r.sctx, p.effectiveRepositories()))
		if err != nil {
			r.sctx.Report(errors.Wrap(errors.ErrCodeDownload, err,
				"downloading %s:%s of %s", dep.GA(), dep.Version, p.coordinates()))
		}
		if rawChild != nil {
			dep.Model = r.resolvePom(ctx, rawChild, ec.forDependency())
		}
	}

	return out
}

// rawVersion keeps the literal requested text when the POM declared one,
// falling back to the effective (managed) version otherwise.
func rawVersion(declared, effective string) string {
	if declared != "" {
		return declared
	}
	return effective
}

func depType(t string) string {
	if t == "" {
		return "jar"
	}
	return t
}
