package resolve

import (
	"github.com/pomtree/pomtree/pkg/pom"
)

// dependencyKey identifies a conflict-resolution slot: one winner per
// (groupId, artifactId) and scope.
type dependencyKey struct {
	ga    pom.GroupArtifact
	scope pom.Scope
}

// effectiveContext accumulates state for one resolution subtree: the
// effective properties seen so far, the composed managed-dependency table,
// and the conflict-resolution winners.
//
// Properties and managed entries are first-write-wins: an entry set by a
// child is never overwritten by an ancestor, which is how child-wins
// precedence falls out of the child-before-parent visitation order.
type effectiveContext struct {
	properties map[string]string
	managed    map[pom.GroupArtifact]pom.ManagedDependency
	resolved   map[dependencyKey]*pom.Dependency
}

func newEffectiveContext() *effectiveContext {
	return &effectiveContext{
		properties: make(map[string]string),
		managed:    make(map[pom.GroupArtifact]pom.ManagedDependency),
		resolved:   make(map[dependencyKey]*pom.Dependency),
	}
}

// setProperty records a property if the key has not been seen yet.
func (c *effectiveContext) setProperty(key, value string) {
	if _, ok := c.properties[key]; !ok {
		c.properties[key] = value
	}
}

func (c *effectiveContext) property(key string) (string, bool) {
	v, ok := c.properties[key]
	return v, ok
}

// setManaged records a managed dependency if its key has not been seen
// yet, reporting whether the entry was inserted.
func (c *effectiveContext) setManaged(md pom.ManagedDependency) bool {
	if _, ok := c.managed[md.GA()]; ok {
		return false
	}
	c.managed[md.GA()] = md
	return true
}

func (c *effectiveContext) managedFor(ga pom.GroupArtifact) (pom.ManagedDependency, bool) {
	md, ok := c.managed[ga]
	return md, ok
}

func (c *effectiveContext) winner(key dependencyKey) (*pom.Dependency, bool) {
	d, ok := c.resolved[key]
	return d, ok
}

func (c *effectiveContext) setWinner(key dependencyKey, d *pom.Dependency) {
	c.resolved[key] = d
}

// forDependency returns the context used when recursing into a direct
// dependency: fresh properties and managed table (those are strictly
// per-POM-tree), sharing only the conflict-resolution winners.
func (c *effectiveContext) forDependency() *effectiveContext {
	return &effectiveContext{
		properties: make(map[string]string),
		managed:    make(map[pom.GroupArtifact]pom.ManagedDependency),
		resolved:   c.resolved,
	}
}

// forImport returns the context used when resolving a scope=import BOM:
// entirely fresh. Imports inherit nothing from the caller; their managed
// table is folded back in afterwards.
func (c *effectiveContext) forImport() *effectiveContext {
	return newEffectiveContext()
}
