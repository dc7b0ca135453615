package audit

import (
	"slices"
	"testing"

	"github.com/matzehuels/weavr/pkg/model"
)

func in(id, elementType string) model.Dependency {
	return model.Dependency{ID: id, Type: model.Inbound, ElementType: elementType}
}

func mustGraph(t *testing.T, ss ...*model.Slice) *model.Graph {
	t.Helper()
	g, err := model.NewGraph(&model.Document{EventModel: &model.EventModel{Slices: ss}})
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	return g
}

func TestAuditScenarios(t *testing.T) {
	tests := []struct {
		name  string
		slice *model.Slice
		want  []string
	}{
		{
			name: "CommandWithoutParent",
			slice: &model.Slice{ID: "S1", Commands: []*model.Element{
				{ID: "C1", Title: "Place Order", Type: "COMMAND"},
			}},
			want: []string{"[S1] COMMAND 'Place Order' (C1) missing SCREEN or AUTOMATION parent."},
		},
		{
			name: "CommandWithScreen",
			slice: &model.Slice{
				ID:       "S1",
				Commands: []*model.Element{{ID: "C1", Title: "Place Order", Type: "COMMAND", Dependencies: []model.Dependency{in("SC1", "SCREEN")}}},
				Screens:  []*model.Element{{ID: "SC1", Title: "Cart", Type: "SCREEN"}},
			},
		},
		{
			name: "DanglingParent",
			slice: &model.Slice{ID: "S1", Commands: []*model.Element{
				{ID: "C1", Title: "Place Order", Type: "COMMAND", Dependencies: []model.Dependency{in("SC-gone", "SCREEN")}},
			}},
			want: []string{"[S1] COMMAND 'Place Order' (C1) missing SCREEN or AUTOMATION parent."},
		},
		{
			name: "WrongParentType",
			slice: &model.Slice{
				ID:       "S1",
				Commands: []*model.Element{{ID: "C1", Title: "Place Order", Type: "COMMAND"}},
				Events:   []*model.Element{{ID: "E1", Title: "Placed", Type: "DOMAIN_EVENT", Dependencies: []model.Dependency{in("C2", "SCREEN")}}},
				Screens:  []*model.Element{{ID: "C2", Title: "Cart", Type: "SCREEN"}},
			},
			want: []string{
				"[S1] COMMAND 'Place Order' (C1) missing SCREEN or AUTOMATION parent.",
				"[S1] DOMAIN_EVENT 'Placed' (E1) missing COMMAND parent.",
			},
		},
		{
			name: "OutboundEdgesIgnored",
			slice: &model.Slice{
				ID:       "S1",
				Commands: []*model.Element{{ID: "C1", Title: "Place Order", Type: "COMMAND"}},
				Screens: []*model.Element{{ID: "SC1", Title: "Cart", Type: "SCREEN", Dependencies: []model.Dependency{
					{ID: "C1", Type: model.Outbound, ElementType: "COMMAND"},
				}}},
			},
			want: []string{"[S1] COMMAND 'Place Order' (C1) missing SCREEN or AUTOMATION parent."},
		},
		{
			name: "EntryPointsHaveNoRule",
			slice: &model.Slice{
				ID:                "S1",
				Screens:           []*model.Element{{ID: "SC1", Title: "Cart", Type: "SCREEN"}},
				IntegrationEvents: []*model.Element{{ID: "IE1", Title: "Paid", Type: "INTEGRATION_EVENT"}},
			},
		},
		{
			name: "UnknownTypeHasNoRule",
			slice: &model.Slice{ID: "S1", Commands: []*model.Element{
				{ID: "X1", Title: "Sticky note", Type: "NOTE"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := Audit(mustGraph(t, tt.slice))
			if got := rep.Lines(); !slices.Equal(got, tt.want) {
				t.Errorf("Lines() = %q, want %q", got, tt.want)
			}
			if rep.Clean() != (len(tt.want) == 0) {
				t.Errorf("Clean() = %v with %d violations", rep.Clean(), len(rep.Violations))
			}
		})
	}
}

func TestAuditAllRules(t *testing.T) {
	bare := &model.Slice{
		ID:                "S1",
		Commands:          []*model.Element{{ID: "C1", Title: "c", Type: "COMMAND"}},
		Events:            []*model.Element{{ID: "E1", Title: "e", Type: "DOMAIN_EVENT"}},
		ReadModels:        []*model.Element{{ID: "R1", Title: "r", Type: "READ_MODEL"}},
		Screens:           []*model.Element{{ID: "SC1", Title: "s", Type: "SCREEN"}},
		Processors:        []*model.Element{{ID: "A1", Title: "a", Type: "AUTOMATION"}},
		IntegrationEvents: []*model.Element{{ID: "IE1", Title: "i", Type: "INTEGRATION_EVENT"}},
	}
	want := []string{
		"[S1] COMMAND 'c' (C1) missing SCREEN or AUTOMATION parent.",
		"[S1] DOMAIN_EVENT 'e' (E1) missing COMMAND parent.",
		"[S1] READ_MODEL 'r' (R1) missing EVENT parent.",
		"[S1] AUTOMATION 'a' (A1) missing EVENT or READ_MODEL parent.",
	}
	if got := Audit(mustGraph(t, bare)).Lines(); !slices.Equal(got, want) {
		t.Errorf("Lines() =\n%q\nwant\n%q", got, want)
	}
}

func TestAuditSatisfiedChain(t *testing.T) {
	s := &model.Slice{
		ID:         "S1",
		Commands:   []*model.Element{{ID: "C1", Title: "c", Type: "COMMAND", Dependencies: []model.Dependency{in("A1", "AUTOMATION")}}},
		Events:     []*model.Element{{ID: "E1", Title: "e", Type: "DOMAIN_EVENT", Dependencies: []model.Dependency{in("C1", "COMMAND")}}},
		ReadModels: []*model.Element{{ID: "R1", Title: "r", Type: "READ_MODEL", Dependencies: []model.Dependency{in("IE1", "INTEGRATION_EVENT")}}},
		Processors: []*model.Element{{ID: "A1", Title: "a", Type: "AUTOMATION", Dependencies: []model.Dependency{in("R1", "READ_MODEL")}}},
		IntegrationEvents: []*model.Element{{ID: "IE1", Title: "i", Type: "INTEGRATION_EVENT"}},
	}
	rep := Audit(mustGraph(t, s))
	if !rep.Clean() {
		t.Errorf("Audit() = %q, want clean", rep.Lines())
	}
	if rep.Summary() != "No pattern violations found!" {
		t.Errorf("Summary() = %q", rep.Summary())
	}
}

func TestAuditNormalizedInput(t *testing.T) {
	s := &model.Slice{
		ID: "S1",
		ReadModels: []*model.Element{
			{ID: "R1", Title: "from external", Type: "READMODEL", Dependencies: []model.Dependency{in("IE1", "EVENT")}},
			{ID: "R2", Title: "from command", Type: "READMODEL", Dependencies: []model.Dependency{in("C1", "COMMAND")}},
		},
		Events: []*model.Element{
			{ID: "E1", Title: "placed", Type: "EVENT", Dependencies: []model.Dependency{in("C1", "COMMAND")}},
		},
		Commands:          []*model.Element{{ID: "C1", Title: "place", Type: "COMMAND", Dependencies: []model.Dependency{in("SC1", "SCREEN")}}},
		Screens:           []*model.Element{{ID: "SC1", Title: "cart", Type: "SCREEN"}},
		IntegrationEvents: []*model.Element{{ID: "IE1", Title: "paid", Type: "EVENT", Context: model.ContextExternal}},
	}
	want := []string{"[S1] READ_MODEL 'from command' (R2) missing EVENT parent."}
	if got := Audit(mustGraph(t, s)).Lines(); !slices.Equal(got, want) {
		t.Errorf("Lines() = %q, want %q", got, want)
	}
}

func TestAuditVisitationOrder(t *testing.T) {
	s1 := &model.Slice{ID: "S1", Processors: []*model.Element{{ID: "A1", Title: "a", Type: "AUTOMATION"}}}
	s2 := &model.Slice{ID: "S2", Commands: []*model.Element{{ID: "C1", Title: "c", Type: "COMMAND"}}}

	rep := Audit(mustGraph(t, s1, s2))
	if len(rep.Violations) != 2 {
		t.Fatalf("got %d violations, want 2", len(rep.Violations))
	}
	if rep.Violations[0].ElementID != "A1" || rep.Violations[1].ElementID != "C1" {
		t.Errorf("order = %s, %s; want slice order A1, C1", rep.Violations[0].ElementID, rep.Violations[1].ElementID)
	}
	if rep.Summary() != "Found 2 violations:" {
		t.Errorf("Summary() = %q", rep.Summary())
	}
}

func TestAuditDoesNotModify(t *testing.T) {
	s := &model.Slice{ID: "S1", Commands: []*model.Element{
		{ID: "C1", Title: "c", Type: "COMMAND", Dependencies: []model.Dependency{in("SC1", "SCREEN")}},
	}}
	g := mustGraph(t, s)
	before := g.EdgeCount()
	Audit(g)
	if g.EdgeCount() != before || s.Commands[0].Type != "COMMAND" {
		t.Error("Audit() modified the graph")
	}
}

func TestAuditRunID(t *testing.T) {
	g := mustGraph(t, &model.Slice{ID: "S1"})
	a, b := Audit(g), Audit(g)
	if a.RunID == "" || a.RunID == b.RunID {
		t.Errorf("RunIDs %q and %q should be distinct and non-empty", a.RunID, b.RunID)
	}
}
