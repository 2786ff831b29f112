package pom

import (
	"encoding/xml"
	"slices"
	"strings"
)

// RawPom is the unresolved project descriptor decoded from a pom.xml file.
//
// String fields may contain ${...} property placeholders; nothing is
// evaluated at this layer. Profile-qualified configuration is flattened on
// demand through the Active* accessors.
//
// The zero value is not useful; use [Parse].
type RawPom struct {
	XMLName xml.Name `xml:"project"`

	Parent      *RawParent `xml:"parent"`
	GroupID     string     `xml:"groupId"`
	ArtifactID  string     `xml:"artifactId"`
	Version     string     `xml:"version"`
	Packaging   string     `xml:"packaging"`
	Name        string     `xml:"name"`
	Description string     `xml:"description"`
	URL         string     `xml:"url"`

	Properties           Properties      `xml:"properties"`
	Licenses             []RawLicense    `xml:"licenses>license"`
	Repositories         []RawRepository `xml:"repositories>repository"`
	Dependencies         []RawDependency `xml:"dependencies>dependency"`
	DependencyManagement []RawDependency `xml:"dependencyManagement>dependencies>dependency"`
	Profiles             []RawProfile    `xml:"profiles>profile"`

	// Origin records where the descriptor was loaded from (file path or
	// repository URL). It is set by the loader, not by the XML document.
	Origin string `xml:"-"`

	// SnapshotVersion is the timestamped version for -SNAPSHOT artifacts.
	// The downloader does not read repository metadata and never sets it.
	SnapshotVersion string `xml:"-"`
}

// RawParent is the <parent> reference of a POM.
type RawParent struct {
	GroupID      string `xml:"groupId"`
	ArtifactID   string `xml:"artifactId"`
	Version      string `xml:"version"`
	RelativePath string `xml:"relativePath"`
}

// RawLicense is a <license> entry.
type RawLicense struct {
	Name string `xml:"name"`
	URL  string `xml:"url"`
}

// RawRepository is a <repository> entry, before placeholder evaluation and
// mirror rewriting.
type RawRepository struct {
	ID        string               `xml:"id"`
	URL       string               `xml:"url"`
	Releases  *RawRepositoryPolicy `xml:"releases"`
	Snapshots *RawRepositoryPolicy `xml:"snapshots"`
}

// RawRepositoryPolicy holds the <releases>/<snapshots> toggle of a
// repository entry. Enabled is the literal document text; an absent element
// keeps the Maven default (releases on, snapshots off).
type RawRepositoryPolicy struct {
	Enabled string `xml:"enabled"`
}

// On reports whether the policy is enabled, using def when the element or
// its enabled flag is absent.
func (p *RawRepositoryPolicy) On(def bool) bool {
	if p == nil || strings.TrimSpace(p.Enabled) == "" {
		return def
	}
	return strings.EqualFold(strings.TrimSpace(p.Enabled), "true")
}

// RawDependency is a <dependency> entry from either the dependencies or the
// dependencyManagement section.
type RawDependency struct {
	GroupID    string         `xml:"groupId"`
	ArtifactID string         `xml:"artifactId"`
	Version    string         `xml:"version"`
	Classifier string         `xml:"classifier"`
	Type       string         `xml:"type"`
	Scope      string         `xml:"scope"`
	Optional   string         `xml:"optional"`
	Exclusions []RawExclusion `xml:"exclusions>exclusion"`
}

// IsOptional reports whether the entry is marked <optional>true</optional>.
func (d *RawDependency) IsOptional() bool {
	return strings.EqualFold(strings.TrimSpace(d.Optional), "true")
}

// RawExclusion is an <exclusion> entry on a dependency.
type RawExclusion struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
}

// RawProfile is a <profile> entry. Only explicit-name and active-by-default
// activation is handled here; property and JDK activation are the caller's
// concern.
type RawProfile struct {
	ID                   string          `xml:"id"`
	Activation           *RawActivation  `xml:"activation"`
	Properties           Properties      `xml:"properties"`
	Repositories         []RawRepository `xml:"repositories>repository"`
	Dependencies         []RawDependency `xml:"dependencies>dependency"`
	DependencyManagement []RawDependency `xml:"dependencyManagement>dependencies>dependency"`
}

// RawActivation holds the subset of <activation> the resolver honors.
type RawActivation struct {
	ActiveByDefault string `xml:"activeByDefault"`
}

// Properties decodes a free-form <properties> element into a string map.
type Properties map[string]string

// UnmarshalXML reads each child element as one key/value pair.
func (p *Properties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	m := make(map[string]string)
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var v string
			if err := d.DecodeElement(&v, &t); err != nil {
				return err
			}
			m[t.Name.Local] = strings.TrimSpace(v)
		case xml.EndElement:
			if t.Name == start.Name {
				*p = m
				return nil
			}
		}
	}
}

// Parse decodes a pom.xml document.
func Parse(data []byte) (*RawPom, error) {
	var raw RawPom
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return &raw, nil
}

// Coordinates returns the raw "groupId:artifactId:version" string, with
// placeholders intact. Intended for log and error messages.
func (r *RawPom) Coordinates() string {
	return r.GroupID + ":" + r.ArtifactID + ":" + r.Version
}

// IsSnapshot reports whether the declared version carries the -SNAPSHOT
// suffix.
func (r *RawPom) IsSnapshot() bool {
	return strings.HasSuffix(r.Version, "-SNAPSHOT")
}

func (r *RawPom) activeProfiles(names []string) []RawProfile {
	var active []RawProfile
	for _, prof := range r.Profiles {
		if prof.Activation != nil && strings.EqualFold(strings.TrimSpace(prof.Activation.ActiveByDefault), "true") {
			active = append(active, prof)
			continue
		}
		if prof.ID != "" && slices.Contains(names, prof.ID) {
			active = append(active, prof)
		}
	}
	return active
}

// ActiveProperties flattens the base properties with those of the selected
// profiles. Profile values override base values; later profiles override
// earlier ones, matching declaration order.
func (r *RawPom) ActiveProperties(profiles []string) map[string]string {
	merged := make(map[string]string, len(r.Properties))
	for k, v := range r.Properties {
		merged[k] = v
	}
	for _, prof := range r.activeProfiles(profiles) {
		for k, v := range prof.Properties {
			merged[k] = v
		}
	}
	return merged
}

// ActiveRepositories returns the base repositories followed by those of the
// selected profiles, in declaration order.
func (r *RawPom) ActiveRepositories(profiles []string) []RawRepository {
	repos := slices.Clone(r.Repositories)
	for _, prof := range r.activeProfiles(profiles) {
		repos = append(repos, prof.Repositories...)
	}
	return repos
}

// ActiveDependencies returns the base dependencies followed by those of the
// selected profiles, in declaration order.
func (r *RawPom) ActiveDependencies(profiles []string) []RawDependency {
	deps := slices.Clone(r.Dependencies)
	for _, prof := range r.activeProfiles(profiles) {
		deps = append(deps, prof.Dependencies...)
	}
	return deps
}

// ActiveDependencyManagement returns the base dependency-management entries
// followed by those of the selected profiles, in declaration order.
func (r *RawPom) ActiveDependencyManagement(profiles []string) []RawDependency {
	deps := slices.Clone(r.DependencyManagement)
	for _, prof := range r.activeProfiles(profiles) {
		deps = append(deps, prof.DependencyManagement...)
	}
	return deps
}

// PropertyPlaceholderNames collects the names of every ${...} placeholder
// referenced anywhere in the document, across all profiles.
func (r *RawPom) PropertyPlaceholderNames() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(s string) {
		for _, name := range placeholderNames(s) {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	add(r.GroupID)
	add(r.ArtifactID)
	add(r.Version)
	add(r.Name)
	add(r.Description)
	add(r.Packaging)
	add(r.URL)
	if r.Parent != nil {
		add(r.Parent.GroupID)
		add(r.Parent.ArtifactID)
		add(r.Parent.Version)
	}
	for _, v := range r.Properties {
		add(v)
	}
	for _, lic := range r.Licenses {
		add(lic.Name)
		add(lic.URL)
	}
	addDeps := func(deps []RawDependency) {
		for _, d := range deps {
			add(d.GroupID)
			add(d.ArtifactID)
			add(d.Version)
			add(d.Classifier)
			add(d.Scope)
		}
	}
	addRepos := func(repos []RawRepository) {
		for _, rep := range repos {
			add(rep.URL)
		}
	}
	addDeps(r.Dependencies)
	addDeps(r.DependencyManagement)
	addRepos(r.Repositories)
	for _, prof := range r.Profiles {
		for _, v := range prof.Properties {
			add(v)
		}
		addDeps(prof.Dependencies)
		addDeps(prof.DependencyManagement)
		addRepos(prof.Repositories)
	}
	return names
}

// placeholderNames extracts the key of each well-formed ${...} occurrence.
func placeholderNames(s string) []string {
	var names []string
	for {
		start := strings.Index(s, "${")
		if start < 0 {
			return names
		}
		end := strings.Index(s[start:], "}")
		if end < 0 {
			return names
		}
		names = append(names, s[start+2:start+end])
		s = s[start+end+1:]
	}
}
