// Package downloader fetches raw POMs from Maven repositories.
//
// The HTTP downloader walks the effective repository list in order
// (user-settings repositories, then POM-declared ones, then Maven
// Central) and returns the first hit. Responses are cached on disk through
// [httputil.Cache], transient failures are retried with backoff, and
// reactor-style parent lookups are attempted on the filesystem first when
// the including POM came from a file and carries a relativePath hint.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pomtree/pomtree/pkg/httputil"
	"github.com/pomtree/pomtree/pkg/observability"
	"github.com/pomtree/pomtree/pkg/pom"
)

// Sentinel errors for downloader outcomes.
var (
	// ErrNotFound is returned when no repository in the effective list has
	// the requested POM.
	ErrNotFound = errors.New("pom not found")

	// ErrNetwork is returned for HTTP failures (timeouts, 5xx, etc.).
	ErrNetwork = errors.New("network error")
)

// HTTP downloads POMs over HTTP(S) with caching and retries.
// All methods are safe for concurrent use.
type HTTP struct {
	client  *http.Client
	cache   *httputil.Cache
	logger  *log.Logger
	central pom.Repository
}

// NewHTTP creates a downloader backed by cache. The cache may be nil, in
// which case every call goes to the network. A nil logger discards traces.
func NewHTTP(cache *httputil.Cache, logger *log.Logger) *HTTP {
	if cache != nil {
		cache = cache.Namespace("pom:")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &HTTP{
		client:  &http.Client{Timeout: 30 * time.Second},
		cache:   cache,
		logger:  logger,
		central: pom.Central,
	}
}

// WithCentral replaces the terminal fallback repository. Tests point it at
// a local server; air-gapped deployments point it at their proxy.
func (d *HTTP) WithCentral(repo pom.Repository) *HTTP {
	d.central = repo
	return d
}

// cachedPom is the on-disk cache entry: the raw document plus its origin.
type cachedPom struct {
	XML    []byte `json:"xml"`
	Origin string `json:"origin"`
}

// Download implements the resolver's Downloader contract. The repository
// order of repos is preserved; the well-known central repository is
// appended as the terminal fallback.
func (d *HTTP) Download(ctx context.Context, group, artifact, version, relativePath string, containing *pom.RawPom, repos []pom.Repository) (*pom.RawPom, error) {
	if group == "" || artifact == "" || version == "" {
		return nil, fmt.Errorf("incomplete coordinates %s:%s:%s", group, artifact, version)
	}

	if raw := d.fromFilesystem(group, artifact, version, relativePath, containing); raw != nil {
		return raw, nil
	}

	key := group + ":" + artifact + ":" + version
	if d.cache != nil {
		var entry cachedPom
		if ok, _ := d.cache.Get(key, &entry); ok {
			observability.Cache().OnCacheHit(ctx, "pom")
			raw, err := pom.Parse(entry.XML)
			if err == nil {
				raw.Origin = entry.Origin
				return raw, nil
			}
		} else {
			observability.Cache().OnCacheMiss(ctx, "pom")
		}
	}

	snapshot := strings.HasSuffix(version, "-SNAPSHOT")
	var lastErr error
	for _, repo := range pom.DedupeRepositories(append(slices.Clone(repos), d.central)) {
		if snapshot && !repo.Snapshots {
			continue
		}
		if !snapshot && !repo.Releases {
			continue
		}

		u := pomURL(repo, group, artifact, version)
		start := time.Now()
		data, err := d.fetch(ctx, u, repo)
		observability.Resolver().OnDownload(ctx, key, repo.ID, time.Since(start), err)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				lastErr = err
				d.logger.Debug("pom fetch failed", "url", u, "err", err)
			}
			continue
		}

		raw, err := pom.Parse(data)
		if err != nil {
			lastErr = fmt.Errorf("decoding %s: %w", u, err)
			continue
		}
		raw.Origin = u
		if d.cache != nil {
			_ = d.cache.Set(key, cachedPom{XML: data, Origin: u})
			observability.Cache().OnCacheSet(ctx, "pom", len(data))
		}
		return raw, nil
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
}

// fromFilesystem attempts a reactor lookup relative to the including POM's
// file. Maven tries <relativePath> before touching any repository; the
// resolver passes ../pom.xml for parents that rely on the default. The hit
// only counts when the coordinates match.
func (d *HTTP) fromFilesystem(group, artifact, version, relativePath string, containing *pom.RawPom) *pom.RawPom {
	if relativePath == "" || containing == nil || containing.Origin == "" || strings.Contains(containing.Origin, "://") {
		return nil
	}

	path := filepath.Join(filepath.Dir(containing.Origin), relativePath)
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, "pom.xml")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	raw, err := pom.Parse(data)
	if err != nil {
		d.logger.Debug("ignoring unparseable relative pom", "path", path, "err", err)
		return nil
	}
	if raw.GroupID != "" && raw.GroupID != group {
		return nil
	}
	if raw.ArtifactID != artifact {
		return nil
	}
	if raw.Version != "" && raw.Version != version {
		return nil
	}
	raw.Origin = path
	return raw
}

func (d *HTTP) fetch(ctx context.Context, pomURL string, repo pom.Repository) ([]byte, error) {
	var data []byte
	err := httputil.DefaultPolicy.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pomURL, nil)
		if err != nil {
			return err
		}
		if repo.Username != "" {
			req.SetBasicAuth(repo.Username, repo.Password)
		}

		resp, err := d.client.Do(req)
		if err != nil {
			return httputil.Transient(fmt.Errorf("%w: %v", ErrNetwork, err))
		}
		defer resp.Body.Close()

		if err := checkStatus(resp.StatusCode); err != nil {
			return err
		}
		data, err = io.ReadAll(resp.Body)
		return err
	})
	return data, err
}

// checkStatus maps repository responses onto the downloader's error
// classes: absence stays ErrNotFound (so the next repository is tried),
// server-side failures are transient ErrNetwork, everything else is a
// plain ErrNetwork.
func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return httputil.Transient(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// pomURL builds the repository path for an artifact's POM:
// <base>/<group dots as slashes>/<artifact>/<version>/<artifact>-<version>.pom
func pomURL(repo pom.Repository, group, artifact, version string) string {
	groupPath := strings.ReplaceAll(group, ".", "/")
	base := strings.TrimSuffix(repo.URL, "/")
	return fmt.Sprintf("%s/%s/%s/%s/%s-%s.pom", base, groupPath, artifact, version, artifact, version)
}

// FetchCoordinate downloads and parses the POM for a bare coordinate
// string ("group:artifact:version"), used by surfaces that start from a
// coordinate rather than a local file.
func (d *HTTP) FetchCoordinate(ctx context.Context, coordinate string, repos []pom.Repository) (*pom.RawPom, error) {
	ga, version, err := pom.ParseCoordinate(coordinate)
	if err != nil {
		return nil, err
	}
	if version == "" {
		return nil, fmt.Errorf("coordinate %q has no version (expected groupId:artifactId:version)", coordinate)
	}
	return d.Download(ctx, ga.Group, ga.Artifact, version, "", nil, repos)
}
