// Package graph derives the class dependency graph from the Api model and
// partitions it into generation sets by reachability.
//
// Cycles are expected: every class can reach the universal base through
// generic methods, and the base reaches its dependents in turn. The graph is
// only used to compute reachability and is not retained after partitioning.
package graph

import (
	"sort"

	"github.com/teranos/enginebind/api"
	"github.com/teranos/enginebind/errors"
)

// Graph is an adjacency relation over class names.
type Graph struct {
	edges map[string]map[string]bool
}

// Build derives the graph: an edge A -> B whenever B is A's base, or a method
// of A takes or returns B (or an enum scoped to B). Primitive and builtin
// value types induce no edges. A method referencing a class missing from the
// model fails the whole build.
func Build(a *api.Api) (*Graph, error) {
	g := &Graph{edges: make(map[string]map[string]bool, a.Len())}

	for _, c := range a.Classes() {
		g.addNode(c.Name)
		if c.BaseClass != "" {
			g.addEdge(c.Name, c.BaseClass)
		}
		for _, m := range c.Methods {
			if err := g.addTypeEdge(a, c.Name, m.ReturnType); err != nil {
				return nil, errors.Wrapf(err, "return type of %s.%s", c.Name, m.Name)
			}
			for _, arg := range m.Arguments {
				if err := g.addTypeEdge(a, c.Name, arg.Type); err != nil {
					return nil, errors.Wrapf(err, "argument %s of %s.%s", arg.Name, c.Name, m.Name)
				}
			}
		}
	}

	return g, nil
}

func (g *Graph) addTypeEdge(a *api.Api, from, raw string) error {
	ref, err := a.ParseType(raw)
	if err != nil {
		return err
	}
	if to, ok := ref.ReferencedClass(); ok && to != from {
		g.addEdge(from, to)
	}
	return nil
}

func (g *Graph) addNode(name string) {
	if _, ok := g.edges[name]; !ok {
		g.edges[name] = make(map[string]bool)
	}
}

func (g *Graph) addEdge(from, to string) {
	g.addNode(from)
	g.addNode(to)
	g.edges[from][to] = true
}

// Has reports whether name is a node of the graph.
func (g *Graph) Has(name string) bool {
	_, ok := g.edges[name]
	return ok
}

// HasEdge reports whether from -> to is an edge.
func (g *Graph) HasEdge(from, to string) bool {
	return g.edges[from][to]
}

// Successors returns the direct dependencies of name, sorted.
func (g *Graph) Successors(name string) []string {
	out := make([]string, 0, len(g.edges[name]))
	for to := range g.edges[name] {
		out = append(out, to)
	}
	sort.Strings(out)
	return out
}

// Nodes returns every class name, sorted.
func (g *Graph) Nodes() []string {
	out := make([]string, 0, len(g.edges))
	for name := range g.edges {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, tos := range g.edges {
		n += len(tos)
	}
	return n
}
