package pom

import (
	"github.com/google/uuid"
)

// Pom is the fully resolved, immutable project model. All coordinate
// fields are concrete (no placeholders), inherited values are filled in,
// and dependency versions reflect conflict resolution.
//
// A Pom must not be mutated after construction; it is shared freely across
// memoization tables, stores, and graph projections.
type Pom struct {
	// ID uniquely identifies this resolved model instance. Stores persist
	// it in string form, so it is excluded from document encoding here.
	ID uuid.UUID `json:"id" bson:"-"`

	GroupID         string `json:"groupId" bson:"groupId"`
	ArtifactID      string `json:"artifactId" bson:"artifactId"`
	Version         string `json:"version" bson:"version"`
	SnapshotVersion string `json:"snapshotVersion,omitempty" bson:"snapshotVersion,omitempty"`

	Name        string `json:"name,omitempty" bson:"name,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Packaging   string `json:"packaging,omitempty" bson:"packaging,omitempty"`

	Parent *Pom `json:"parent,omitempty" bson:"parent,omitempty"`

	// Dependencies are shared descriptors: when conflict resolution reuses
	// a winner, declaring POMs hold the same *Dependency.
	Dependencies         []*Dependency       `json:"dependencies,omitempty" bson:"dependencies,omitempty"`
	DependencyManagement []ManagedDependency `json:"dependencyManagement,omitempty" bson:"dependencyManagement,omitempty"`
	Licenses             []License           `json:"licenses,omitempty" bson:"licenses,omitempty"`
	Repositories         []Repository        `json:"repositories,omitempty" bson:"repositories,omitempty"`

	// Properties are the POM's own declared properties; PropertyOverrides
	// records keys whose effective value differs from the declared one or
	// that are not declared here (values from descendants or ancestors).
	Properties        map[string]string `json:"properties,omitempty" bson:"properties,omitempty"`
	PropertyOverrides map[string]string `json:"propertyOverrides,omitempty" bson:"propertyOverrides,omitempty"`
}

// NewID returns a fresh model identifier.
func NewID() uuid.UUID { return uuid.New() }

// GA returns the model's GroupArtifact key.
func (p *Pom) GA() GroupArtifact {
	return GroupArtifact{Group: p.GroupID, Artifact: p.ArtifactID}
}

// Coordinates returns the resolved "groupId:artifactId:version" triple.
func (p *Pom) Coordinates() string {
	return p.GroupID + ":" + p.ArtifactID + ":" + p.Version
}

// Dependency is a resolved dependency descriptor: the version actually
// chosen after conflict resolution, the version originally requested, and
// the transitively resolved model when one could be fetched. Descriptors
// are shared: every POM that converged on this winner references the same
// value, so they must not be mutated after resolution completes.
type Dependency struct {
	GroupID          string          `json:"groupId" bson:"groupId"`
	ArtifactID       string          `json:"artifactId" bson:"artifactId"`
	Version          string          `json:"version" bson:"version"`
	RequestedVersion string          `json:"requestedVersion,omitempty" bson:"requestedVersion,omitempty"`
	Scope            Scope           `json:"-" bson:"-"`
	ScopeName        string          `json:"scope,omitempty" bson:"scope,omitempty"`
	Type             string          `json:"type,omitempty" bson:"type,omitempty"`
	Classifier       string          `json:"classifier,omitempty" bson:"classifier,omitempty"`
	Optional         bool            `json:"optional,omitempty" bson:"optional,omitempty"`
	Exclusions       []GroupArtifact `json:"exclusions,omitempty" bson:"exclusions,omitempty"`

	// Model is the resolved POM of this dependency, nil when the descriptor
	// could not be fetched. Shared between declaring POMs that converged on
	// the same winner.
	Model *Pom `json:"-" bson:"-"`
}

// GA returns the dependency's GroupArtifact key.
func (d *Dependency) GA() GroupArtifact {
	return GroupArtifact{Group: d.GroupID, Artifact: d.ArtifactID}
}

// ManagedKind tags the origin of a dependency-management entry.
type ManagedKind int

const (
	// ManagedDefined marks an entry declared directly in a POM's
	// dependencyManagement section.
	ManagedDefined ManagedKind = iota
	// ManagedImported marks an entry contributed by a scope=import BOM.
	ManagedImported
)

func (k ManagedKind) String() string {
	if k == ManagedImported {
		return "imported"
	}
	return "defined"
}

// ManagedDependency is one dependency-management table entry. Kind
// distinguishes directly defined entries from those folded in by a BOM
// import; for imported entries Bom names the contributing BOM.
type ManagedDependency struct {
	GroupID          string          `json:"groupId" bson:"groupId"`
	ArtifactID       string          `json:"artifactId" bson:"artifactId"`
	Version          string          `json:"version" bson:"version"`
	RequestedVersion string          `json:"requestedVersion,omitempty" bson:"requestedVersion,omitempty"`
	Scope            Scope           `json:"-" bson:"-"`
	ScopeName        string          `json:"scope,omitempty" bson:"scope,omitempty"`
	Classifier       string          `json:"classifier,omitempty" bson:"classifier,omitempty"`
	Exclusions       []GroupArtifact `json:"exclusions,omitempty" bson:"exclusions,omitempty"`

	Kind ManagedKind `json:"kind" bson:"kind"`
	Bom  string      `json:"bom,omitempty" bson:"bom,omitempty"`
}

// GA returns the entry's GroupArtifact key.
func (m *ManagedDependency) GA() GroupArtifact {
	return GroupArtifact{Group: m.GroupID, Artifact: m.ArtifactID}
}

// License is a resolved license entry.
type License struct {
	Name string `json:"name" bson:"name"`
	URL  string `json:"url,omitempty" bson:"url,omitempty"`
}
