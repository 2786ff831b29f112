package downloader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pomtree/pomtree/pkg/httputil"
	"github.com/pomtree/pomtree/pkg/pom"
)

const commonsPom = `<project>
	<groupId>org.example</groupId>
	<artifactId>widget</artifactId>
	<version>1.0</version>
</project>`

func repoServer(t *testing.T, paths map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if body, ok := paths[r.URL.Path]; ok {
			_, _ = w.Write([]byte(body))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDownload(t *testing.T) {
	srv := repoServer(t, map[string]string{
		"/org/example/widget/1.0/widget-1.0.pom": commonsPom,
	})

	d := NewHTTP(nil, nil).WithCentral(pom.Repository{ID: "central", URL: srv.URL, Releases: true})
	repos := []pom.Repository{{ID: "test", URL: srv.URL, Releases: true}}
	raw, err := d.Download(context.Background(), "org.example", "widget", "1.0", "", nil, repos)
	if err != nil {
		t.Fatalf("Download error: %v", err)
	}

	if raw.ArtifactID != "widget" {
		t.Errorf("ArtifactID = %q", raw.ArtifactID)
	}
	if raw.Origin == "" {
		t.Error("Origin should record the source URL")
	}
}

func TestDownloadNotFound(t *testing.T) {
	srv := repoServer(t, nil)

	d := NewHTTP(nil, nil).WithCentral(pom.Repository{ID: "central", URL: srv.URL, Releases: true})
	repos := []pom.Repository{{ID: "test", URL: srv.URL, Releases: true}}
	_, err := d.Download(context.Background(), "org.example", "missing", "1.0", "", nil, repos)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDownloadRepositoryOrder(t *testing.T) {
	// The first repository wins even when a later one also has the POM.
	first := repoServer(t, map[string]string{
		"/org/example/widget/1.0/widget-1.0.pom": commonsPom,
	})
	var secondHit bool
	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondHit = true
		_, _ = w.Write([]byte(commonsPom))
	}))
	t.Cleanup(second.Close)

	d := NewHTTP(nil, nil).WithCentral(pom.Repository{ID: "central", URL: first.URL, Releases: true})
	repos := []pom.Repository{
		{ID: "first", URL: first.URL, Releases: true},
		{ID: "second", URL: second.URL, Releases: true},
	}
	raw, err := d.Download(context.Background(), "org.example", "widget", "1.0", "", nil, repos)
	if err != nil {
		t.Fatalf("Download error: %v", err)
	}
	if raw == nil || secondHit {
		t.Error("first repository should have served the POM")
	}
}

func TestDownloadSkipsSnapshotDisabledRepos(t *testing.T) {
	var releaseRepoHit bool
	releasesOnly := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		releaseRepoHit = true
		http.NotFound(w, r)
	}))
	t.Cleanup(releasesOnly.Close)

	d := NewHTTP(nil, nil).WithCentral(pom.Repository{ID: "central", URL: releasesOnly.URL, Releases: true})
	repos := []pom.Repository{{ID: "releases", URL: releasesOnly.URL, Releases: true, Snapshots: false}}
	_, err := d.Download(context.Background(), "org.example", "widget", "1.0-SNAPSHOT", "", nil, repos)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if releaseRepoHit {
		t.Error("snapshot fetch must skip releases-only repositories")
	}
}

func TestDownloadUsesCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(commonsPom))
	}))
	t.Cleanup(srv.Close)

	cache, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	d := NewHTTP(cache, nil).WithCentral(pom.Repository{ID: "central", URL: srv.URL, Releases: true})
	repos := []pom.Repository{{ID: "test", URL: srv.URL, Releases: true}}

	for range 2 {
		if _, err := d.Download(context.Background(), "org.example", "widget", "1.0", "", nil, repos); err != nil {
			t.Fatalf("Download error: %v", err)
		}
	}
	if hits != 1 {
		t.Errorf("server hits = %d, want 1 (second served from cache)", hits)
	}
}

func TestDownloadRelativePath(t *testing.T) {
	dir := t.TempDir()
	parentDir := filepath.Join(dir, "parent")
	if err := os.MkdirAll(parentDir, 0o755); err != nil {
		t.Fatal(err)
	}
	parentPom := `<project>
		<groupId>org.example</groupId><artifactId>parent</artifactId><version>1.0</version>
	</project>`
	if err := os.WriteFile(filepath.Join(parentDir, "pom.xml"), []byte(parentPom), 0o644); err != nil {
		t.Fatal(err)
	}

	containing := &pom.RawPom{Origin: filepath.Join(dir, "child", "pom.xml")}
	d := NewHTTP(nil, nil).WithCentral(pom.Repository{ID: "central", URL: "http://127.0.0.1:1", Releases: true})
	raw, err := d.Download(context.Background(), "org.example", "parent", "1.0", "../parent", containing, nil)
	if err != nil {
		t.Fatalf("Download error: %v", err)
	}
	if raw.ArtifactID != "parent" {
		t.Errorf("ArtifactID = %q", raw.ArtifactID)
	}
}

func TestFetchCoordinate(t *testing.T) {
	srv := repoServer(t, map[string]string{
		"/org/example/widget/1.0/widget-1.0.pom": commonsPom,
	})

	d := NewHTTP(nil, nil).WithCentral(pom.Repository{ID: "central", URL: srv.URL, Releases: true})
	raw, err := d.FetchCoordinate(context.Background(), "org.example:widget:1.0",
		[]pom.Repository{{ID: "test", URL: srv.URL, Releases: true}})
	if err != nil {
		t.Fatalf("FetchCoordinate error: %v", err)
	}
	if raw.Coordinates() != "org.example:widget:1.0" {
		t.Errorf("coordinates = %q", raw.Coordinates())
	}

	if _, err := d.FetchCoordinate(context.Background(), "org.example:widget", nil); err == nil {
		t.Error("expected error for versionless coordinate")
	}
}
