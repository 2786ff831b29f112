package pom

import (
	"fmt"
	"strings"
)

// GroupArtifact identifies an artifact independent of its version.
// It is the key type for managed-dependency tables and conflict resolution.
type GroupArtifact struct {
	Group    string
	Artifact string
}

// String returns the "groupId:artifactId" coordinate form.
func (ga GroupArtifact) String() string {
	return ga.Group + ":" + ga.Artifact
}

// ParseCoordinate splits a "groupId:artifactId" or "groupId:artifactId:version"
// coordinate. The version is empty when the two-part form is given.
func ParseCoordinate(coord string) (ga GroupArtifact, version string, err error) {
	parts := strings.Split(coord, ":")
	switch len(parts) {
	case 2:
		return GroupArtifact{Group: parts[0], Artifact: parts[1]}, "", nil
	case 3:
		return GroupArtifact{Group: parts[0], Artifact: parts[1]}, parts[2], nil
	default:
		return GroupArtifact{}, "", fmt.Errorf("invalid maven coordinate %q (expected groupId:artifactId[:version])", coord)
	}
}

// Scope is a Maven dependency scope.
type Scope int

const (
	// ScopeInvalid marks a scope token that is not part of the Maven scope
	// set. Entries carrying it are filtered out of composed tables.
	ScopeInvalid Scope = iota
	ScopeCompile
	ScopeProvided
	ScopeRuntime
	ScopeTest
	ScopeSystem
	// ScopeImport is only legal on dependency-management entries of type
	// "pom" and triggers BOM expansion.
	ScopeImport
)

var scopeNames = map[Scope]string{
	ScopeInvalid:  "invalid",
	ScopeCompile:  "compile",
	ScopeProvided: "provided",
	ScopeRuntime:  "runtime",
	ScopeTest:     "test",
	ScopeSystem:   "system",
	ScopeImport:   "import",
}

// String returns the lowercase scope token.
func (s Scope) String() string { return scopeNames[s] }

// ParseScope maps a scope token to its Scope. An empty token defaults to
// compile, per the POM reference. Unrecognized tokens map to ScopeInvalid.
func ParseScope(token string) Scope {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "", "compile":
		return ScopeCompile
	case "provided":
		return ScopeProvided
	case "runtime":
		return ScopeRuntime
	case "test":
		return ScopeTest
	case "system":
		return ScopeSystem
	case "import":
		return ScopeImport
	default:
		return ScopeInvalid
	}
}
