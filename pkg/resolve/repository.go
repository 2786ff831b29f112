package resolve

import (
	"net/url"
	"strings"

	"github.com/pomtree/pomtree/pkg/errors"
	"github.com/pomtree/pomtree/pkg/pom"
	"github.com/pomtree/pomtree/pkg/settings"
)

// resolveRepository turns one raw repository entry into an effective
// repository: the URL is evaluated against props, validated, then rewritten
// by the mirror map and the credential map, in that order. Malformed
// entries are reported and dropped.
func resolveRepository(raw pom.RawRepository, env func(string) (string, bool), props map[string]string, sctx *settings.Context) (pom.Repository, bool) {
	rawURL := evalProps(raw.URL, env, props)
	if unresolved(rawURL) {
		sctx.Report(errors.New(errors.ErrCodeInvalidRepository, "invalid repository URL %q", raw.URL))
		return pom.Repository{}, false
	}
	rawURL = strings.TrimSpace(rawURL)
	parsed, err := url.Parse(rawURL)
	if err != nil || !parsed.IsAbs() {
		sctx.Report(errors.New(errors.ErrCodeInvalidRepository, "invalid repository URL %q", rawURL))
		return pom.Repository{}, false
	}

	repo := pom.Repository{
		ID:        raw.ID,
		URL:       rawURL,
		Releases:  raw.Releases.On(true),
		Snapshots: raw.Snapshots.On(false),
	}
	repo = settings.ApplyMirrors(sctx.Mirrors, repo)
	repo = settings.ApplyCredentials(sctx.Credentials, repo)
	return repo, true
}

// downloadRepositories is the effective repository order for fetching on
// behalf of a POM: user-settings repositories first, then the repositories
// declared in the POM chain (child before parent), de-duplicated. The
// downloader appends the well-known central repository itself.
func downloadRepositories(sctx *settings.Context, pomRepos []pom.Repository) []pom.Repository {
	repos := make([]pom.Repository, 0, len(sctx.Repositories)+len(pomRepos))
	repos = append(repos, sctx.Repositories...)
	repos = append(repos, pomRepos...)
	return pom.DedupeRepositories(repos)
}
