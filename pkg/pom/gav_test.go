package pom

import "testing"

func TestParseCoordinate(t *testing.T) {
	ga, version, err := ParseCoordinate("com.google.guava:guava:33.0.0-jre")
	if err != nil {
		t.Fatalf("ParseCoordinate error: %v", err)
	}
	if ga.Group != "com.google.guava" || ga.Artifact != "guava" {
		t.Errorf("ga = %+v", ga)
	}
	if version != "33.0.0-jre" {
		t.Errorf("version = %q", version)
	}

	ga, version, err = ParseCoordinate("org.slf4j:slf4j-api")
	if err != nil {
		t.Fatalf("ParseCoordinate error: %v", err)
	}
	if version != "" {
		t.Errorf("version = %q, want empty", version)
	}
	if ga.String() != "org.slf4j:slf4j-api" {
		t.Errorf("String() = %q", ga.String())
	}

	if _, _, err := ParseCoordinate("no-colon"); err == nil {
		t.Error("expected error for malformed coordinate")
	}
}

func TestParseScope(t *testing.T) {
	tests := map[string]Scope{
		"":         ScopeCompile,
		"compile":  ScopeCompile,
		"Provided": ScopeProvided,
		"runtime":  ScopeRuntime,
		"test":     ScopeTest,
		"system":   ScopeSystem,
		"import":   ScopeImport,
		"bogus":    ScopeInvalid,
	}
	for token, want := range tests {
		if got := ParseScope(token); got != want {
			t.Errorf("ParseScope(%q) = %v, want %v", token, got, want)
		}
	}
}

func TestDedupeRepositories(t *testing.T) {
	repos := DedupeRepositories([]Repository{
		{ID: "a", URL: "https://one.example.com"},
		{ID: "b", URL: "https://two.example.com"},
		{ID: "c", URL: "https://one.example.com"},
	})
	if len(repos) != 2 {
		t.Fatalf("len = %d, want 2", len(repos))
	}
	if repos[0].ID != "a" || repos[1].ID != "b" {
		t.Errorf("first occurrence should win: %+v", repos)
	}
}
