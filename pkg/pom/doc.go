// Package pom defines the Maven project object model as seen by the
// resolver: the raw, unresolved descriptor decoded from pom.xml and the
// fully resolved, immutable model produced at the end of resolution.
//
// # Raw vs resolved
//
// [RawPom] is a faithful decoding of a pom.xml file. Coordinates, versions,
// and URLs may contain ${...} property placeholders, and configuration may
// be split across profiles. The ActiveProperties/ActiveRepositories/
// ActiveDependencies accessor family flattens the base configuration with
// the selected profiles in declaration order.
//
// [Pom] is the resolved counterpart: concrete coordinates, inherited
// values filled in, dependency versions chosen, and an immutable shape that
// is safe to cache and share.
//
// # Coordinates
//
// Artifacts are identified by "groupId:artifactId" ([GroupArtifact]) and
// projects by the full "groupId:artifactId:version" triple. Managed
// dependency tables and conflict resolution both key on GroupArtifact.
package pom
