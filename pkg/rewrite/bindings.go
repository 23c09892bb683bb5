package rewrite

import (
	"github.com/Sumatoshi-tech/splice/pkg/binding"
	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

// newEnvironment binds every capture of m. A capture that matched several
// nodes becomes a list when they all hang off one parent field, otherwise
// a slice spanning them. $filename is bound to path unless the query
// captures that name itself.
func newEnvironment(m syntax.Match, path string) *Environment {
	env := &Environment{captures: make(map[string]binding.Binding, len(m.Captures)+1)}

	for _, c := range m.Captures {
		if _, done := env.captures[c.Name]; done {
			continue
		}

		env.captures[c.Name] = captureBinding(m.Get(c.Name))
	}

	if _, ok := env.captures[fileNameCapture]; !ok {
		env.captures[fileNameCapture] = binding.FromPath(path)
	}

	return env
}

func captureBinding(nodes []*syntax.Node) binding.Binding {
	if len(nodes) == 1 {
		return binding.FromNode(nodes[0])
	}

	first, last := nodes[0], nodes[len(nodes)-1]
	parent := first.Parent()

	if parent != nil && first.Field() != "" {
		shared := true

		for _, n := range nodes {
			if n.Parent() != parent || n.Field() != first.Field() {
				shared = false

				break
			}
		}

		if shared && len(parent.NamedChildrenByField(first.Field())) == len(nodes) {
			return binding.NewList(parent, first.Field())
		}
	}

	return binding.FromRange(first.Source(), syntax.NewByteRange(first.StartByte(), last.EndByte()))
}

// fieldBinding binds the children of node under field: an empty field
// when there are none, a list otherwise.
func fieldBinding(node *syntax.Node, field string) binding.Binding {
	if len(node.NamedChildrenByField(field)) == 0 {
		return binding.NewEmpty(node, field)
	}

	return binding.NewList(node, field)
}
