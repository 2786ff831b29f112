package resolve

import (
	"context"
	"strings"

	"github.com/pomtree/pomtree/pkg/errors"
	"github.com/pomtree/pomtree/pkg/pom"
)

// completeDependencyManagement folds this level's managed dependencies into
// the effective context. Entries come in two shapes: scope=import BOM
// references, which are resolved with a fresh context and folded in, and
// plain definitions. Both insert first-write-wins, so entries already
// claimed by a descendant level keep the descendant's descriptor.
func (r *Resolver) completeDependencyManagement(ctx context.Context, p *partialPom, ec *effectiveContext) {
	for _, rawDep := range p.raw.ActiveDependencyManagement(r.sctx.ActiveProfiles) {
		group, gok := p.requiredValue(rawDep.GroupID)
		artifact, aok := p.requiredValue(rawDep.ArtifactID)
		if !gok || !aok {
			r.sctx.Report(errors.New(errors.ErrCodeUnresolvedProperty,
				"unable to resolve managed dependency coordinates %s:%s in %s",
				rawDep.GroupID, rawDep.ArtifactID, p.coordinates()))
			continue
		}

		if strings.EqualFold(strings.TrimSpace(rawDep.Type), "pom") && pom.ParseScope(rawDep.Scope) == pom.ScopeImport {
			r.importBom(ctx, p, ec, group, artifact, rawDep)
			continue
		}

		scopeToken := p.value(rawDep.Scope)
		scope := pom.ParseScope(scopeToken)
		if scope == pom.ScopeInvalid || scope == pom.ScopeImport {
			r.sctx.Report(errors.New(errors.ErrCodeInvalidScope,
				"invalid scope %q for managed dependency %s:%s in %s",
				scopeToken, group, artifact, p.coordinates()))
			continue
		}

		md := pom.ManagedDependency{
			GroupID:          group,
			ArtifactID:       artifact,
			Version:          p.value(rawDep.Version),
			RequestedVersion: rawDep.Version,
			Scope:            scope,
			ScopeName:        scope.String(),
			Classifier:       p.value(rawDep.Classifier),
			Exclusions:       evalExclusions(p, rawDep.Exclusions),
			Kind:             pom.ManagedDefined,
		}
		if ec.setManaged(md) {
			p.management = append(p.management, md)
		}
	}

	// Record the ambient managed descriptor governing each of this POM's
	// direct dependencies; together with the property overrides this makes
	// the partial's fingerprint capture everything that can vary between
	// reachings of the same raw POM.
	for _, rawDep := range p.raw.ActiveDependencies(r.sctx.ActiveProfiles) {
		group := p.value(rawDep.GroupID)
		artifact := p.value(rawDep.ArtifactID)
		if unresolved(group) || unresolved(artifact) {
			continue
		}
		ga := pom.GroupArtifact{Group: group, Artifact: artifact}
		if md, ok := ec.managedFor(ga); ok {
			if p.dependencyOverrides == nil {
				p.dependencyOverrides = make(map[pom.GroupArtifact]pom.ManagedDependency)
			}
			p.dependencyOverrides[ga] = md
		}
	}
}

// importBom downloads and fully resolves a scope=import BOM with a fresh
// effective context; imports inherit neither the caller's properties nor
// its managed table. The BOM's composed dependency-management entries (its
// own level first, then its ancestors') are then folded into the caller,
// first-write-wins, in the order the BOM was encountered.
func (r *Resolver) importBom(ctx context.Context, p *partialPom, ec *effectiveContext, group, artifact string, rawDep pom.RawDependency) {
	version, ok := p.requiredValue(rawDep.Version)
	if rawDep.Version == "" || !ok {
		r.sctx.Report(errors.New(errors.ErrCodeMissingBomVersion,
			"managed dependency %s:%s has scope import but no resolvable version in %s",
			group, artifact, p.coordinates()))
		return
	}

	rawBom, err := r.downloader.Download(ctx, group, artifact, version, "", p.raw,
		downloadRepositories(&r.sctx, p.effectiveRepositories()))
	if err != nil {
		r.sctx.Report(errors.Wrap(errors.ErrCodeDownload, err,
			"downloading BOM %s:%s:%s imported by %s", group, artifact, version, p.coordinates()))
		return
	}
	if rawBom == nil {
		r.sctx.Report(errors.New(errors.ErrCodeNotFound,
			"BOM %s:%s:%s imported by %s not found", group, artifact, version, p.coordinates()))
		return
	}

	imported := r.resolvePom(ctx, rawBom, ec.forImport())
	if imported == nil {
		r.sctx.Report(errors.New(errors.ErrCodeInvalidPom,
			"unable to resolve BOM %s:%s:%s imported by %s", group, artifact, version, p.coordinates()))
		return
	}

	bom := imported.Coordinates()
	for m := imported; m != nil; m = m.Parent {
		for _, md := range m.DependencyManagement {
			entry := md
			entry.Kind = pom.ManagedImported
			entry.Bom = bom
			if ec.setManaged(entry) {
				p.management = append(p.management, entry)
			}
		}
	}
}

// evalExclusions evaluates exclusion coordinates against the partial's
// property view, dropping entries that stay unresolved.
func evalExclusions(p *partialPom, raw []pom.RawExclusion) []pom.GroupArtifact {
	var out []pom.GroupArtifact
	for _, ex := range raw {
		group := p.value(ex.GroupID)
		artifact := p.value(ex.ArtifactID)
		if unresolved(group) || unresolved(artifact) {
			continue
		}
		out = append(out, pom.GroupArtifact{Group: group, Artifact: artifact})
	}
	return out
}
