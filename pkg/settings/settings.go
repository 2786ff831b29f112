// Package settings carries the execution context for a resolution run:
// user-configured repositories, mirror rules, credentials, active profiles,
// and the error sink every non-fatal resolution problem is reported to.
//
// The context is an immutable handle. Components receive it by value at
// construction time and never mutate it; the OnError sink is a capability,
// not shared state.
//
// A context can be built in code or loaded from a TOML settings file
// (~/.config/pomtree/settings.toml by default):
//
//	active_profiles = ["ci"]
//
//	[[repository]]
//	id  = "corp"
//	url = "https://repo.example.com/maven2"
//	releases = true
//
//	[[mirror]]
//	id        = "corp-mirror"
//	url       = "https://mirror.example.com/maven2"
//	mirror_of = "*"
//
//	[[credential]]
//	id       = "corp"
//	username = "deploy"
//	password = "hunter2"
package settings

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/pomtree/pomtree/pkg/pom"
)

// Context is the execution context threaded through resolution.
// The zero value is usable: no repositories, no mirrors, errors discarded.
type Context struct {
	Repositories   []pom.Repository
	Mirrors        []Mirror
	Credentials    []Credential
	ActiveProfiles []string

	// OnError receives every non-fatal resolution problem. May be nil.
	OnError func(error)
}

// Report pushes err to the OnError sink, if one is configured.
func (c *Context) Report(err error) {
	if c != nil && c.OnError != nil && err != nil {
		c.OnError(err)
	}
}

// WithOnError returns a copy of the context using sink as the error sink.
func (c Context) WithOnError(sink func(error)) Context {
	c.OnError = sink
	return c
}

// Mirror redirects matching repositories to a replacement URL, following
// Maven's mirrorOf grammar: "*" matches everything, "external:*" matches
// non-localhost/non-file repositories, a comma list names repository IDs,
// and a "!id" element excludes one.
type Mirror struct {
	ID       string `toml:"id"`
	URL      string `toml:"url"`
	MirrorOf string `toml:"mirror_of"`
}

// Matches reports whether the mirror applies to the given repository.
func (m Mirror) Matches(repo pom.Repository) bool {
	spec := strings.TrimSpace(m.MirrorOf)
	if spec == "" {
		return false
	}
	matched := false
	for _, elem := range strings.Split(spec, ",") {
		elem = strings.TrimSpace(elem)
		switch {
		case elem == "":
		case strings.HasPrefix(elem, "!"):
			if elem[1:] == repo.ID {
				return false
			}
		case elem == "*":
			matched = true
		case elem == "external:*":
			if isExternal(repo.URL) {
				matched = true
			}
		case elem == repo.ID:
			matched = true
		}
	}
	return matched
}

func isExternal(url string) bool {
	lower := strings.ToLower(url)
	return !strings.HasPrefix(lower, "file:") &&
		!strings.Contains(lower, "localhost") &&
		!strings.Contains(lower, "127.0.0.1")
}

// ApplyMirrors rewrites repo through the first matching mirror. The mirror's ID
// and URL replace the repository's; policies are kept.
func ApplyMirrors(mirrors []Mirror, repo pom.Repository) pom.Repository {
	for _, m := range mirrors {
		if m.Matches(repo) {
			repo.ID = m.ID
			repo.URL = m.URL
			return repo
		}
	}
	return repo
}

// Credential attaches auth material to a repository by ID.
type Credential struct {
	ID       string `toml:"id"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// ApplyCredentials fills in the username/password of the first credential
// whose ID matches the repository.
func ApplyCredentials(creds []Credential, repo pom.Repository) pom.Repository {
	for _, c := range creds {
		if c.ID == repo.ID {
			repo.Username = c.Username
			repo.Password = c.Password
			return repo
		}
	}
	return repo
}

// fileSettings is the on-disk TOML shape.
type fileSettings struct {
	ActiveProfiles []string         `toml:"active_profiles"`
	Repositories   []pom.Repository `toml:"repository"`
	Mirrors        []Mirror         `toml:"mirror"`
	Credentials    []Credential     `toml:"credential"`
}

// DefaultPath returns the default settings file location,
// ~/.config/pomtree/settings.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pomtree", "settings.toml"), nil
}

// Load reads a settings file. A missing file is not an error; it yields the
// zero context so the CLI works without configuration.
func Load(path string) (Context, error) {
	var fs fileSettings
	if _, err := toml.DecodeFile(path, &fs); err != nil {
		if os.IsNotExist(err) {
			return Context{}, nil
		}
		return Context{}, err
	}
	return Context{
		Repositories:   fs.Repositories,
		Mirrors:        fs.Mirrors,
		Credentials:    fs.Credentials,
		ActiveProfiles: fs.ActiveProfiles,
	}, nil
}
