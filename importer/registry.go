package importer

import (
	"slices"

	"github.com/setanarut/metasprite/aseparser"
)

// Action runs the meta layers named "@Name(...)". Actions with a lower
// Priority run first; layers of equal priority run in document order.
type Action struct {
	Name     string
	Priority int
	Run      func(ctx *Context, layer *aseparser.Layer) error
}

// Registry maps action names to actions.
type Registry struct {
	actions map[string]Action
}

func NewRegistry(actions ...Action) *Registry {
	r := &Registry{actions: make(map[string]Action, len(actions))}
	for _, a := range actions {
		r.Register(a)
	}
	return r
}

// Register adds a, replacing any action with the same name.
func (r *Registry) Register(a Action) {
	r.actions[a.Name] = a
}

func (r *Registry) Lookup(name string) (Action, bool) {
	if r == nil {
		return Action{}, false
	}
	a, ok := r.actions[name]
	return a, ok
}

// Names returns the registered action names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

type boundLayer struct {
	layer  *aseparser.Layer
	action Action
	found  bool
}

// schedule pairs meta layers with their actions in execution order.
// Layers without an action sort with priority 0.
func (r *Registry) schedule(layers []*aseparser.Layer) []boundLayer {
	bound := make([]boundLayer, 0, len(layers))
	for _, l := range layers {
		a, ok := r.Lookup(l.ActionName)
		bound = append(bound, boundLayer{layer: l, action: a, found: ok})
	}
	slices.SortStableFunc(bound, func(a, b boundLayer) int {
		return a.action.Priority - b.action.Priority
	})
	return bound
}
