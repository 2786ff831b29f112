package resolve

import (
	"context"
	"io"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pomtree/pomtree/pkg/errors"
	"github.com/pomtree/pomtree/pkg/observability"
	"github.com/pomtree/pomtree/pkg/pom"
	"github.com/pomtree/pomtree/pkg/settings"
)

// Downloader fetches raw POMs on behalf of the resolver. Implementations
// may return (nil, error) for artifacts that cannot be found; the resolver
// tolerates absence and continues with a best-effort result.
//
// relativePath is a hint for file-system lookups of the including POM's
// parent; containing, when non-nil, is the POM that triggered the fetch.
type Downloader interface {
	Download(ctx context.Context, group, artifact, version, relativePath string, containing *pom.RawPom, repos []pom.Repository) (*pom.RawPom, error)
}

// Options configures resolver behavior.
type Options struct {
	// ResolveOptional keeps <optional>true</optional> dependencies and
	// resolves them. Off by default; optional dependencies are then left
	// out of every dependency list, the root's direct ones included.
	ResolveOptional bool

	// LookupEnv resolves process-scope property overrides. Defaults to
	// os.LookupEnv; tests inject their own to avoid mutating the process.
	LookupEnv func(string) (string, bool)

	// Logger receives debug traces. Defaults to a discarding logger.
	Logger *log.Logger
}

func (o Options) withDefaults() Options {
	if o.LookupEnv == nil {
		o.LookupEnv = os.LookupEnv
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Resolver resolves raw POMs into immutable models, memoizing resolved
// sub-problems by structural fingerprint for its lifetime.
//
// A Resolver is single-threaded cooperative: it must not be shared across
// goroutines without external synchronization.
type Resolver struct {
	downloader Downloader
	sctx       settings.Context
	opts       Options

	// memo maps partial fingerprints to resolved models.
	memo map[string]*pom.Pom
}

// New creates a Resolver that fetches through d under the given execution
// context.
func New(d Downloader, sctx settings.Context, opts Options) *Resolver {
	return &Resolver{
		downloader: d,
		sctx:       sctx,
		opts:       opts.withDefaults(),
		memo:       make(map[string]*pom.Pom),
	}
}

// Resolve fully resolves raw. It returns an error only when the root POM
// itself is unresolvable (bad coordinates, parent cycle with no viable
// prefix); every other problem is reported to the execution context's
// OnError sink and the model is best-effort.
func (r *Resolver) Resolve(ctx context.Context, raw *pom.RawPom) (*pom.Pom, error) {
	start := time.Now()
	observability.Resolver().OnResolveStart(ctx, raw.Coordinates())

	model := r.resolvePom(ctx, raw, newEffectiveContext())

	var err error
	if model == nil {
		err = errors.New(errors.ErrCodeInvalidPom, "unable to resolve %s", raw.Coordinates())
	}
	observability.Resolver().OnResolveComplete(ctx, raw.Coordinates(), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return model, nil
}

// FingerprintOf returns the structural fingerprint under which model was
// memoized, or "" when the model was not produced by this resolver. Stores
// use it to key persisted models.
func (r *Resolver) FingerprintOf(model *pom.Pom) string {
	for fp, m := range r.memo {
		if m == model {
			return fp
		}
	}
	return ""
}

// resolvePom runs the full pipeline for one POM tree inside ec.
func (r *Resolver) resolvePom(ctx context.Context, raw *pom.RawPom, ec *effectiveContext) *pom.Pom {
	partial := r.walkParents(ctx, raw, ec, nil)
	return r.complete(ctx, partial, ec)
}

// walkParents normalizes coordinates, resolves repositories, and recurses
// into the parent chain, folding each level's active properties into the
// effective context with first-write-wins semantics. visited carries the
// g:a:v coordinates on the path from the root call for cycle detection.
func (r *Resolver) walkParents(ctx context.Context, raw *pom.RawPom, ec *effectiveContext, visited []string) *partialPom {
	if raw == nil {
		return nil
	}

	for k, v := range raw.ActiveProperties(r.sctx.ActiveProfiles) {
		ec.setProperty(k, v)
	}

	pref := r.evalParentRef(raw, ec)
	groupID, artifactID, version, ok := r.normalizeCoordinates(raw, pref, ec)
	if !ok {
		return nil
	}

	coordinates := groupID + ":" + artifactID + ":" + version
	// With "->" indicating a "has parent" relationship, visited is used to
	// detect cycles like A -> B -> A and cut them off early with a clearer,
	// more actionable error than unbounded recursion.
	if slices.Contains(visited, coordinates) {
		r.sctx.Report(errors.New(errors.ErrCodeParentCycle,
			"cycle in parent poms detected: %s is its own parent by way of %v", coordinates, visited))
		return nil
	}
	visited = append(visited, coordinates)

	// Repository order for fetching the parent: user settings first, then
	// the repositories declared in this POM, then central (appended by the
	// downloader).
	var pomRepos []pom.Repository
	for _, rawRepo := range raw.ActiveRepositories(r.sctx.ActiveProfiles) {
		repo, ok := resolveRepository(rawRepo, r.opts.LookupEnv, ec.properties, &r.sctx)
		if !ok {
			continue
		}
		pomRepos = append(pomRepos, repo)
	}
	pomRepos = pom.DedupeRepositories(pomRepos)

	var parent *partialPom
	if pref != nil {
		// Maven's default parent lookup location when no relativePath is
		// declared.
		relPath := raw.Parent.RelativePath
		if relPath == "" {
			relPath = "../pom.xml"
		}
		rawParent, err := r.downloader.Download(ctx, pref.group, pref.artifact, pref.version,
			relPath, raw, downloadRepositories(&r.sctx, pomRepos))
		if err != nil {
			r.sctx.Report(errors.Wrap(errors.ErrCodeDownload, err,
				"downloading parent %s:%s:%s of %s", pref.group, pref.artifact, pref.version, coordinates))
		}
		parent = r.walkParents(ctx, rawParent, ec, visited)
	}

	return &partialPom{
		raw:          raw,
		groupID:      groupID,
		artifactID:   artifactID,
		version:      version,
		parent:       parent,
		repositories: pomRepos,
		properties:   raw.ActiveProperties(r.sctx.ActiveProfiles),
		env:          r.opts.LookupEnv,
	}
}

// parentRef is the evaluated <parent> reference of the POM being walked.
type parentRef struct {
	group, artifact, version string
}

// evalParentRef evaluates the parent reference coordinates against the
// effective properties. Returns nil when the POM declares no parent.
func (r *Resolver) evalParentRef(raw *pom.RawPom, ec *effectiveContext) *parentRef {
	if raw.Parent == nil {
		return nil
	}
	return &parentRef{
		group:    evalProps(raw.Parent.GroupID, r.opts.LookupEnv, ec.properties),
		artifact: evalProps(raw.Parent.ArtifactID, r.opts.LookupEnv, ec.properties),
		version:  evalProps(raw.Parent.Version, r.opts.LookupEnv, ec.properties),
	}
}

// normalizeCoordinates computes the concrete (groupId, artifactId, version)
// triple for raw, inheriting group and version from the parent reference
// when absent. Reserved project.parent.* placeholders resolve against the
// parent reference of the partial being built, not the ambient context.
// Each field that is absent or still carries a placeholder after
// evaluation is reported; any failure drops the POM.
func (r *Resolver) normalizeCoordinates(raw *pom.RawPom, parent *parentRef, ec *effectiveContext) (groupID, artifactID, version string, ok bool) {
	env := r.opts.LookupEnv
	lookup := func(key string) (string, bool) {
		if parent != nil {
			switch key {
			case "project.parent.groupId", "parent.groupId":
				return parent.group, true
			case "project.parent.artifactId", "parent.artifactId":
				return parent.artifact, true
			case "project.parent.version", "parent.version":
				return parent.version, true
			}
		}
		if env != nil {
			if v, hit := env(key); hit {
				return v, true
			}
		}
		v, hit := ec.properties[key]
		return v, hit
	}

	artifactID = Evaluate(raw.ArtifactID, lookup)
	groupID = Evaluate(raw.GroupID, lookup)
	if groupID == "" && parent != nil {
		groupID = parent.group
	}
	version = Evaluate(raw.Version, lookup)
	if version == "" && parent != nil {
		version = parent.version
	}

	ok = true
	if unresolved(artifactID) {
		r.sctx.Report(errors.New(errors.ErrCodeInvalidCoordinate,
			"unable to resolve artifact ID for raw pom [%s]", raw.Coordinates()))
		ok = false
	}
	if unresolved(groupID) {
		r.sctx.Report(errors.New(errors.ErrCodeInvalidCoordinate,
			"unable to resolve group ID for raw pom [%s]", raw.Coordinates()))
		ok = false
	}
	if unresolved(version) {
		r.sctx.Report(errors.New(errors.ErrCodeInvalidCoordinate,
			"unable to resolve version for raw pom [%s]", raw.Coordinates()))
		ok = false
	}
	return groupID, artifactID, version, ok
}

// complete finalizes the override maps for every level of the chain,
// child before parent, so first-write-wins composition yields child-wins
// precedence. It then assembles models bottom-up through the memo cache.
func (r *Resolver) complete(ctx context.Context, partial *partialPom, ec *effectiveContext) *pom.Pom {
	if partial == nil {
		return nil
	}
	for p := partial; p != nil; p = p.parent {
		if p.finalized {
			continue
		}
		r.completeProperties(p, ec)
		r.completeDependencyManagement(ctx, p, ec)
		p.finalized = true
	}
	return r.build(ctx, partial, ec)
}

// completeProperties records, for every placeholder name the raw POM
// references, the effective value when it differs from the locally
// declared one.
func (r *Resolver) completeProperties(p *partialPom, ec *effectiveContext) {
	overrides := make(map[string]string)
	for _, name := range p.raw.PropertyPlaceholderNames() {
		effective, ok := ec.property(name)
		if !ok {
			continue
		}
		if own, declared := p.properties[name]; !declared || own != effective {
			overrides[name] = effective
		}
	}
	if len(overrides) > 0 {
		p.propertyOverrides = overrides
	}
}

// build assembles the immutable model for partial, serving structurally
// equivalent partials from the memo cache. At this point every component
// of the fingerprint is finalized.
func (r *Resolver) build(ctx context.Context, partial *partialPom, ec *effectiveContext) *pom.Pom {
	if partial == nil {
		return nil
	}
	if cached, ok := r.memo[partial.Fingerprint()]; ok {
		r.opts.Logger.Debug("resolver cache hit", "pom", partial.coordinates())
		observability.Cache().OnCacheHit(ctx, "model")
		return cached
	}
	observability.Cache().OnCacheMiss(ctx, "model")

	parent := r.build(ctx, partial.parent, ec)
	licenses := r.processLicenses(partial)
	dependencies := r.processDependencies(ctx, partial, ec)

	raw := partial.raw
	model := &pom.Pom{
		ID:                   pom.NewID(),
		GroupID:              partial.groupID,
		ArtifactID:           partial.artifactID,
		Version:              partial.version,
		SnapshotVersion:      raw.SnapshotVersion,
		Name:                 partial.value(raw.Name),
		Description:          partial.value(raw.Description),
		Packaging:            partial.value(raw.Packaging),
		Parent:               parent,
		Dependencies:         dependencies,
		DependencyManagement: slices.Clone(partial.management),
		Licenses:             licenses,
		Repositories:         slices.Clone(partial.repositories),
		Properties:           partial.properties,
		PropertyOverrides:    partial.propertyOverrides,
	}
	r.memo[partial.Fingerprint()] = model
	return model
}

func (r *Resolver) processLicenses(p *partialPom) []pom.License {
	var licenses []pom.License
	for _, raw := range p.raw.Licenses {
		name := p.value(raw.Name)
		if name == "" {
			continue
		}
		licenses = append(licenses, pom.License{Name: name, URL: p.value(raw.URL)})
	}
	return licenses
}
