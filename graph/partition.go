package graph

import (
	"sort"

	"github.com/teranos/enginebind/api"
	"github.com/teranos/enginebind/errors"
)

// Set is a set of class names. Membership is the contract; use Sorted for a
// stable order.
type Set map[string]bool

// NewSet builds a Set from names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = true
	}
	return s
}

// Contains reports membership. A nil Set contains nothing.
func (s Set) Contains(name string) bool { return s[name] }

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Equal reports whether both sets have the same members.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for n := range s {
		if !other[n] {
			return false
		}
	}
	return true
}

// SubsetOf reports whether every member of s is in other.
func (s Set) SubsetOf(other Set) bool {
	for n := range s {
		if !other[n] {
			return false
		}
	}
	return true
}

// Complement returns every class of a not in s.
func (s Set) Complement(a *api.Api) Set {
	out := make(Set)
	for _, n := range a.Names() {
		if !s[n] {
			out[n] = true
		}
	}
	return out
}

// Partition returns every class reachable from root by following edges,
// root included, minus alreadyBound. This is the root's strongly connected
// component together with everything it transitively depends on.
func Partition(g *Graph, root string, alreadyBound Set) (Set, error) {
	if !g.Has(root) {
		return nil, errors.UnknownClass(root, "partition root")
	}

	reached := Set{root: true}
	stack := []string{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for to := range g.edges[n] {
			if !reached[to] {
				reached[to] = true
				stack = append(stack, to)
			}
		}
	}

	for n := range alreadyBound {
		delete(reached, n)
	}
	return reached, nil
}

// StronglyConnectedComponents builds the graph for a and partitions it from
// root. It is the usual entry point for build tooling: the foundation library
// binds the returned set, an extension library binds its complement.
func StronglyConnectedComponents(a *api.Api, root string, alreadyBound Set) (Set, error) {
	g, err := Build(a)
	if err != nil {
		return nil, err
	}
	return Partition(g, root, alreadyBound)
}

// Components returns the strongly connected components of g using Tarjan's
// algorithm. Each component is sorted and the list is ordered by its first
// member, so the result is identical across runs.
func Components(g *Graph) [][]string {
	t := &tarjan{
		g:       g,
		index:   make(map[string]int),
		lowlink: make(map[string]int),
		onStack: make(map[string]bool),
	}
	for _, n := range g.Nodes() {
		if _, seen := t.index[n]; !seen {
			t.visit(n)
		}
	}
	for _, comp := range t.out {
		sort.Strings(comp)
	}
	sort.Slice(t.out, func(i, j int) bool { return t.out[i][0] < t.out[j][0] })
	return t.out
}

type tarjan struct {
	g       *Graph
	next    int
	index   map[string]int
	lowlink map[string]int
	onStack map[string]bool
	stack   []string
	out     [][]string
}

func (t *tarjan) visit(v string) {
	t.index[v] = t.next
	t.lowlink[v] = t.next
	t.next++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.g.Successors(v) {
		if _, seen := t.index[w]; !seen {
			t.visit(w)
			t.lowlink[v] = min(t.lowlink[v], t.lowlink[w])
		} else if t.onStack[w] {
			t.lowlink[v] = min(t.lowlink[v], t.index[w])
		}
	}

	if t.lowlink[v] == t.index[v] {
		var comp []string
		for {
			w := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		t.out = append(t.out, comp)
	}
}

// ComponentOf returns the strongly connected component containing name.
func ComponentOf(g *Graph, name string) []string {
	for _, comp := range Components(g) {
		for _, n := range comp {
			if n == name {
				return comp
			}
		}
	}
	return nil
}
