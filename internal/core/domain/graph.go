// Package domain contains the core domain models for build-configuration resolution.
package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Project is a node in the evaluation graph.
type Project struct {
	Name                InternedString
	EvaluationDependsOn []InternedString
}

// ProjectGraph orders projects so that every project is evaluated after the projects it depends on.
type ProjectGraph struct {
	projects        map[InternedString]Project
	evaluationOrder []InternedString
}

// NewProjectGraph creates a new empty ProjectGraph.
func NewProjectGraph() *ProjectGraph {
	return &ProjectGraph{
		projects: make(map[InternedString]Project),
	}
}

// AddProject adds a project to the graph.
// It returns an error if a project with the same name already exists.
func (g *ProjectGraph) AddProject(p *Project) error {
	if _, exists := g.projects[p.Name]; exists {
		return zerr.With(FieldError(ErrDuplicateProject, "projects.name"), "project", p.Name.String())
	}
	g.projects[p.Name] = *p
	return nil
}

// Validate checks for missing references and cycles using a depth-first topological sort.
// Roots and dependencies are visited in name order, so the resulting order is deterministic.
func (g *ProjectGraph) Validate() error {
	g.evaluationOrder = make([]InternedString, 0, len(g.projects))
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		project := g.projects[u]
		for _, dep := range sortedNames(project.EvaluationDependsOn) {
			if _, exists := g.projects[dep]; !exists {
				err := zerr.With(FieldError(ErrMissingDependency, "projects.evaluationDependsOn"), "project", u.String())
				return zerr.With(err, "dependency", dep.String())
			}
			if visited[dep] == 1 {
				return buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.evaluationOrder = append(g.evaluationOrder, u)
		return nil
	}

	names := make([]InternedString, 0, len(g.projects))
	for name := range g.projects {
		names = append(names, name)
	}
	for _, name := range sortedNames(names) {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func buildCycleError(path []InternedString, dep InternedString) error {
	start := slices.Index(path, dep)
	var b strings.Builder
	for _, node := range path[start:] {
		b.WriteString(node.String())
		b.WriteString(" -> ")
	}
	b.WriteString(dep.String())
	return zerr.With(FieldError(ErrCycleDetected, "projects.evaluationDependsOn"), "cycle", b.String())
}

// Walk returns an iterator that yields projects in evaluation order.
// It assumes Validate() has been called and returned nil.
func (g *ProjectGraph) Walk() iter.Seq[Project] {
	return func(yield func(Project) bool) {
		for _, name := range g.evaluationOrder {
			if !yield(g.projects[name]) {
				return
			}
		}
	}
}

func sortedNames(names []InternedString) []InternedString {
	sorted := slices.Clone(names)
	slices.SortFunc(sorted, func(a, b InternedString) int {
		return strings.Compare(a.String(), b.String())
	})
	return sorted
}
