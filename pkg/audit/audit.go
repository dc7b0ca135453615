package audit

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/weavr/pkg/model"
)

// Violation is an element that lacks a required predecessor.
type Violation struct {
	SliceID   string
	ElementID string
	Title     string
	Type      model.InternalType
	Missing   string
}

// String formats the violation as a single report line.
func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s '%s' (%s) missing %s.", v.SliceID, v.Type, v.Title, v.ElementID, v.Missing)
}

// Report is the outcome of an audit run.
type Report struct {
	RunID      string
	Elements   int
	Violations []Violation
}

// Clean reports whether no violations were found.
func (r Report) Clean() bool { return len(r.Violations) == 0 }

// Lines returns the violations formatted in visitation order.
func (r Report) Lines() []string {
	out := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		out[i] = v.String()
	}
	return out
}

// Summary returns the header printed above the violation lines.
func (r Report) Summary() string {
	if r.Clean() {
		return "No pattern violations found!"
	}
	return fmt.Sprintf("Found %d violations:", len(r.Violations))
}

// Audit checks every element of g against [Rules] and returns the violations
// in visitation order. It never modifies g.
//
// Only INBOUND edges are consulted. An edge whose id is not an element of g
// does not satisfy a requirement, whatever its elementType says. Schema tags
// are lifted back to the internal vocabulary first, so normalized input is
// judged by the same table: an EVENT with context EXTERNAL counts as
// INTEGRATION_EVENT, any other EVENT as DOMAIN_EVENT.
func Audit(g *model.Graph) Report {
	rep := Report{RunID: uuid.NewString(), Elements: g.Len()}
	for _, el := range g.Elements() {
		rule, ok := RuleFor(el.InternalType())
		if !ok || satisfied(g, el, rule) {
			continue
		}
		sliceID, _, _ := g.SliceOf(el.ID)
		rep.Violations = append(rep.Violations, Violation{
			SliceID:   sliceID,
			ElementID: el.ID,
			Title:     el.Title,
			Type:      rule.Type,
			Missing:   rule.Description,
		})
	}
	return rep
}

func satisfied(g *model.Graph, el *model.Element, rule Rule) bool {
	for _, dep := range el.Inbound() {
		src, ok := g.Element(dep.ID)
		if !ok {
			continue
		}
		if slices.Contains(rule.Requires, model.InternalOf(dep.ElementType, src.Context)) {
			return true
		}
	}
	return false
}
