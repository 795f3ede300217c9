// Package chatmodel defines the shared conversation types: the structured
// Decision produced by interpreting a completion-service response, and the
// content fragments returned by tool calls.
package chatmodel

import (
	"github.com/effective-security/toolchat/pkg/llmutils"
)

// Action is one tool invocation requested by a decision.
// Tool is resolved against the registry at dispatch time; Parameters are
// passed through to the provider without schema validation.
type Action struct {
	Tool       string         `json:"tool"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Reasoning  string         `json:"reasoning,omitempty" jsonschema:"description=why this tool helps"`
}

// Decision is the structured output for one user turn. The wire names match
// the prompt contract: the model replies with intent, an ordered list of
// actions and, when a required parameter cannot be filled from the input,
// a needs_user_input map of parameter name to clarification question.
type Decision struct {
	Intent        string            `json:"intent" jsonschema:"description=brief user goal"`
	Actions       []Action          `json:"actions"`
	MissingInputs map[string]string `json:"needs_user_input,omitempty" jsonschema:"description=questions to ask for missing required parameters"`
}

// NeedsClarification reports whether the decision left required inputs
// unresolved.
func (d *Decision) NeedsClarification() bool {
	return len(d.MissingInputs) > 0
}

// ToolNames returns the action tool names in dispatch order.
func (d *Decision) ToolNames() []string {
	if len(d.Actions) == 0 {
		return nil
	}
	names := make([]string, len(d.Actions))
	for i, a := range d.Actions {
		names[i] = a.Tool
	}
	return names
}

// String renders the decision as indented JSON, used for the transparency
// output emitted per turn.
func (d *Decision) String() string {
	return llmutils.ToJSONIndent(d)
}
