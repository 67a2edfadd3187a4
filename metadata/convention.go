package metadata

import (
	"slices"
	"sort"
)

// Phase orders conventions subscribed to the same event. Lower phases run
// first; conventions within a phase run in registration order.
type Phase int

// Well-known phases.
const (
	// PhaseDiscovery runs structural discovery such as key detection.
	PhaseDiscovery Phase = 100
	// PhaseHost runs the host's naming defaults, e.g. context set table names.
	PhaseHost Phase = 200
	// PhaseRewrite runs name rewriting conventions.
	PhaseRewrite Phase = 300
	// PhaseValidation runs checks that must observe final names.
	PhaseValidation Phase = 400
)

type registration struct {
	phase   Phase
	seq     int
	name    string
	handler Handler
	kinds   []EventKind
}

func (r registration) wants(k EventKind) bool {
	return len(r.kinds) == 0 || slices.Contains(r.kinds, k)
}

// ConventionSet is an ordered registry of conventions.
// A ConventionSet must not be modified while a model built on it dispatches.
type ConventionSet struct {
	regs []registration
}

// NewConventionSet returns an empty convention set.
func NewConventionSet() *ConventionSet {
	return &ConventionSet{}
}

// Add registers h under name at the given phase. The handler receives only the
// listed event kinds, or every kind when none is listed.
func (s *ConventionSet) Add(phase Phase, name string, h Handler, kinds ...EventKind) *ConventionSet {
	s.regs = append(s.regs, registration{
		phase:   phase,
		seq:     len(s.regs),
		name:    name,
		handler: h,
		kinds:   kinds,
	})
	sort.SliceStable(s.regs, func(i, j int) bool {
		if s.regs[i].phase != s.regs[j].phase {
			return s.regs[i].phase < s.regs[j].phase
		}
		return s.regs[i].seq < s.regs[j].seq
	})
	return s
}

// Names returns the names of the conventions receiving events of kind k, in
// delivery order.
func (s *ConventionSet) Names(k EventKind) []string {
	var names []string
	for _, r := range s.regs {
		if r.wants(k) {
			names = append(names, r.name)
		}
	}
	return names
}

// Has reports whether a convention with the given name is registered.
func (s *ConventionSet) Has(name string) bool {
	return slices.ContainsFunc(s.regs, func(r registration) bool { return r.name == name })
}

// Len returns the number of registered conventions.
func (s *ConventionSet) Len() int { return len(s.regs) }

func (s *ConventionSet) dispatch(m *Model, e Event) {
	k := e.Kind()
	for _, r := range s.regs {
		if r.wants(k) {
			e.Dispatch(m, r.handler)
		}
	}
}
