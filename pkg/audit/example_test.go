package audit_test

import (
	"fmt"

	"github.com/matzehuels/weavr/pkg/audit"
	"github.com/matzehuels/weavr/pkg/model"
)

func ExampleAudit() {
	doc := &model.Document{EventModel: &model.EventModel{Slices: []*model.Slice{{
		ID: "checkout",
		Commands: []*model.Element{{ID: "C1", Title: "Place Order", Type: "COMMAND"}},
		Events: []*model.Element{{
			ID: "E1", Title: "Order Placed", Type: "DOMAIN_EVENT",
			Dependencies: []model.Dependency{{ID: "C1", Type: model.Inbound, ElementType: "COMMAND"}},
		}},
	}}}}

	g, _ := model.NewGraph(doc)
	rep := audit.Audit(g)

	fmt.Println(rep.Summary())
	for _, line := range rep.Lines() {
		fmt.Println(line)
	}
	// Output:
	// Found 1 violations:
	// [checkout] COMMAND 'Place Order' (C1) missing SCREEN or AUTOMATION parent.
}
