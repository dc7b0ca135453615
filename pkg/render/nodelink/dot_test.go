package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/weavr/pkg/model"
)

func testDocument() *model.Document {
	return &model.Document{
		EventModel: &model.EventModel{Slices: []*model.Slice{{
			ID: "checkout",
			Commands: []*model.Element{{
				ID: "C1", Title: "Place Order", Type: "COMMAND",
				Dependencies: []model.Dependency{
					{ID: "E1", Type: model.Outbound, ElementType: "EVENT", Title: "emits"},
					{ID: "GHOST", Type: model.Outbound, ElementType: "EVENT"},
				},
			}},
			Events: []*model.Element{{ID: "E1", Title: "Order Placed", Type: "EVENT"}},
			Screens: []*model.Element{{
				ID: "SC1", Title: "Cart", Type: "SCREEN",
				Dependencies: []model.Dependency{{ID: "C1", Type: model.Outbound, ElementType: "COMMAND"}},
			}},
			IntegrationEvents: []*model.Element{{ID: "IE1", Title: "Paid", Type: "EVENT", Context: model.ContextExternal}},
		}}},
		Layout: map[string]model.Placement{
			"C1": {X: 250, Y: 100, Height: 120, Type: "COMMAND", Title: "Place Order"},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testDocument(), Options{})

	for _, want := range []string{
		"digraph G {",
		`subgraph "cluster_0" {`,
		`label="checkout";`,
		`"C1" [label="Place Order", fillcolor="#a7c7e7", pos="250.00,-100.00!"];`,
		`"E1" [label="Order Placed", fillcolor="#ffb347"];`,
		`"IE1" [label="Paid", fillcolor="#fdfd96"];`,
		`"C1" -> "E1" [label="emits"];`,
		`"SC1" -> "C1";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "GHOST") {
		t.Error("edges to unknown ids should be omitted")
	}
}

func TestToDOTInboundEdges(t *testing.T) {
	doc := &model.Document{EventModel: &model.EventModel{Slices: []*model.Slice{{
		ID: "S1",
		Commands: []*model.Element{{
			ID: "C1", Title: "c", Type: "COMMAND",
			Dependencies: []model.Dependency{{ID: "SC1", Type: model.Inbound, ElementType: "SCREEN"}},
		}},
		Screens: []*model.Element{{
			ID: "SC1", Title: "s", Type: "SCREEN",
			Dependencies: []model.Dependency{{ID: "C1", Type: model.Outbound, ElementType: "COMMAND"}},
		}},
	}}}}

	dot := ToDOT(doc, Options{})
	if n := strings.Count(dot, `"SC1" -> "C1"`); n != 1 {
		t.Errorf("edge SC1 -> C1 appears %d times, want 1:\n%s", n, dot)
	}
}

func TestToDOTDetailedAndScale(t *testing.T) {
	dot := ToDOT(testDocument(), Options{Detailed: true, Scale: 2})

	if !strings.Contains(dot, `label="Place Order\nCOMMAND (C1)"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
	if !strings.Contains(dot, `label="Paid\nINTEGRATION_EVENT (IE1)"`) {
		t.Errorf("external event should be labeled INTEGRATION_EVENT:\n%s", dot)
	}
	if !strings.Contains(dot, `pos="125.00,-50.00!"`) {
		t.Errorf("scaled position missing:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.25" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.50 200.25" width="100" height="200">`
	if !strings.HasPrefix(out, want) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte("<svg><g/></svg>")
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should be returned unchanged")
	}
}
