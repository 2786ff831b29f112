package resolve

import (
	"context"
	"testing"

	"github.com/pomtree/pomtree/pkg/errors"
	"github.com/pomtree/pomtree/pkg/pom"
	"github.com/pomtree/pomtree/pkg/settings"
)

func TestRepositoryPrecedence(t *testing.T) {
	d := &fakeDownloader{poms: map[string]string{
		"com.example:parent:1": `<project>
			<groupId>com.example</groupId><artifactId>parent</artifactId><version>1</version>
			<repositories><repository>
				<id>parent-repo</id><url>https://parent.example.com</url>
			</repository></repositories>
		</project>`,
		"x:y:1.0": `<project><groupId>x</groupId><artifactId>y</artifactId><version>1.0</version></project>`,
	}}
	raw := mustParse(t, `<project>
		<parent><groupId>com.example</groupId><artifactId>parent</artifactId><version>1</version></parent>
		<artifactId>child</artifactId>
		<repositories><repository>
			<id>child-repo</id><url>https://child.example.com</url>
		</repository></repositories>
		<dependencies><dependency>
			<groupId>x</groupId><artifactId>y</artifactId><version>1.0</version>
		</dependency></dependencies>
	</project>`)

	sctx := settings.Context{
		Repositories: []pom.Repository{{ID: "user", URL: "https://user.example.com", Releases: true}},
	}
	r := newTestResolver(d, sctx)
	if _, err := r.Resolve(context.Background(), raw); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	// The dependency fetch sees user settings first, then the POM chain
	// child-before-parent. Central is the downloader's concern.
	repos := d.repos["x:y:1.0"]
	want := []string{"https://user.example.com", "https://child.example.com", "https://parent.example.com"}
	if len(repos) != len(want) {
		t.Fatalf("repositories = %d, want %d", len(repos), len(want))
	}
	for i, url := range want {
		if repos[i].URL != url {
			t.Errorf("repos[%d].URL = %q, want %q", i, repos[i].URL, url)
		}
	}
}

func TestMalformedRepositoryURLSkipped(t *testing.T) {
	raw := mustParse(t, `<project>
		<groupId>g</groupId><artifactId>a</artifactId><version>1</version>
		<repositories>
			<repository><id>bad</id><url>${undefined.url}</url></repository>
			<repository><id>relative</id><url>not-a-url</url></repository>
			<repository><id>good</id><url>https://good.example.com</url></repository>
		</repositories>
	</project>`)

	var sink errorSink
	r := newTestResolver(&fakeDownloader{}, settings.Context{OnError: sink.add})
	model, err := r.Resolve(context.Background(), raw)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	if got := sink.count(errors.ErrCodeInvalidRepository); got != 2 {
		t.Errorf("InvalidRepository reports = %d, want 2", got)
	}
	if len(model.Repositories) != 1 {
		t.Fatalf("repositories = %d, want 1", len(model.Repositories))
	}
	if model.Repositories[0].ID != "good" {
		t.Errorf("surviving repository = %q, want %q", model.Repositories[0].ID, "good")
	}
}

func TestRepositoryCredentialsApplied(t *testing.T) {
	d := &fakeDownloader{poms: map[string]string{
		"com.example:parent:1": `<project>
			<groupId>com.example</groupId><artifactId>parent</artifactId><version>1</version>
		</project>`,
	}}
	raw := mustParse(t, `<project>
		<parent><groupId>com.example</groupId><artifactId>parent</artifactId><version>1</version></parent>
		<artifactId>child</artifactId>
		<repositories><repository>
			<id>corp</id><url>https://repo.example.com</url>
		</repository></repositories>
	</project>`)

	sctx := settings.Context{
		Credentials: []settings.Credential{{ID: "corp", Username: "deploy", Password: "secret"}},
	}
	r := newTestResolver(d, sctx)
	if _, err := r.Resolve(context.Background(), raw); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	repos := d.repos["com.example:parent:1"]
	if len(repos) != 1 {
		t.Fatalf("repositories = %d, want 1", len(repos))
	}
	if repos[0].Username != "deploy" || repos[0].Password != "secret" {
		t.Errorf("credentials not applied: %+v", repos[0])
	}
}

func TestMirrorThenCredentialOrder(t *testing.T) {
	// Credentials key on the post-mirror repository ID, matching the fixed
	// mirror-then-credential rewrite order.
	d := &fakeDownloader{poms: map[string]string{
		"com.example:parent:1": `<project>
			<groupId>com.example</groupId><artifactId>parent</artifactId><version>1</version>
		</project>`,
	}}
	raw := mustParse(t, `<project>
		<parent><groupId>com.example</groupId><artifactId>parent</artifactId><version>1</version></parent>
		<artifactId>child</artifactId>
		<repositories><repository>
			<id>central</id><url>https://repo.example.com</url>
		</repository></repositories>
	</project>`)

	sctx := settings.Context{
		Mirrors:     []settings.Mirror{{ID: "mirror", URL: "https://mirror.example.com", MirrorOf: "*"}},
		Credentials: []settings.Credential{{ID: "mirror", Username: "u", Password: "p"}},
	}
	r := newTestResolver(d, sctx)
	if _, err := r.Resolve(context.Background(), raw); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	repos := d.repos["com.example:parent:1"]
	if len(repos) != 1 {
		t.Fatalf("repositories = %d, want 1", len(repos))
	}
	if repos[0].URL != "https://mirror.example.com" {
		t.Errorf("URL = %q, want mirror", repos[0].URL)
	}
	if repos[0].Username != "u" {
		t.Error("credentials should apply to the mirrored ID")
	}
}
