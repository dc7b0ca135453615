package audit

import "github.com/matzehuels/weavr/pkg/model"

// Rule requires an element of Type to have at least one INBOUND edge whose
// elementType is in Requires.
type Rule struct {
	Type        model.InternalType
	Requires    []model.InternalType
	Description string
}

// Rules is the fixed predecessor table. SCREEN and INTEGRATION_EVENT have no
// rule; they are valid entry points of a flow.
var Rules = []Rule{
	{
		Type:        model.InternalCommand,
		Requires:    []model.InternalType{model.InternalScreen, model.InternalAutomation},
		Description: "SCREEN or AUTOMATION parent",
	},
	{
		Type:        model.InternalDomainEvent,
		Requires:    []model.InternalType{model.InternalCommand},
		Description: "COMMAND parent",
	},
	{
		Type:        model.InternalReadModel,
		Requires:    []model.InternalType{model.InternalDomainEvent, model.InternalIntegrationEvent},
		Description: "EVENT parent",
	},
	{
		Type:        model.InternalAutomation,
		Requires:    []model.InternalType{model.InternalDomainEvent, model.InternalIntegrationEvent, model.InternalReadModel},
		Description: "EVENT or READ_MODEL parent",
	},
}

// RuleFor returns the rule for t, if any.
func RuleFor(t model.InternalType) (Rule, bool) {
	for _, r := range Rules {
		if r.Type == t {
			return r, true
		}
	}
	return Rule{}, false
}

