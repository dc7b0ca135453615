// Package audit checks event models against the predecessor rules of event
// modeling.
//
// Each element type except SCREEN and INTEGRATION_EVENT must be reachable
// from a suitable predecessor:
//
//	COMMAND       <- SCREEN or AUTOMATION
//	DOMAIN_EVENT  <- COMMAND
//	READ_MODEL    <- DOMAIN_EVENT or INTEGRATION_EVENT
//	AUTOMATION    <- DOMAIN_EVENT, INTEGRATION_EVENT or READ_MODEL
//
// The check reads INBOUND edges, so it is meant for models that have not yet
// been through the fix pipeline. Findings are data, not errors: [Audit]
// returns a [Report] and leaves the model untouched.
package audit
