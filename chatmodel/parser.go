package chatmodel

import (
	"bytes"

	"github.com/bububa/ljson"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/pkg/llmutils"
)

// ErrFailedParseDecision is returned when the completion output carries no
// extractable JSON object, or the extracted object does not describe a
// decision. Callers must treat it as a recoverable per-turn failure.
var ErrFailedParseDecision = errors.New("failed to parse decision from completion output")

// DecisionParser converts raw completion-service output into a Decision.
// The model is not required to reply with bare JSON: the parser trims to the
// outermost braces and parses leniently, so surrounding prose and mildly
// malformed JSON are tolerated. No semantic validation of actions or missing
// inputs happens here; the orchestrator validates tool names at dispatch.
type DecisionParser struct {
	instructions string
}

// NewDecisionParser creates a parser and precomputes the prompt format
// instructions from the Decision schema.
func NewDecisionParser() *DecisionParser {
	var b bytes.Buffer
	b.WriteString("Reply with JSON in the following JSON schema:")
	b.WriteString(llmutils.BackticksJSON(llmutils.ToJSONIndent(decisionSchema())))
	b.WriteString("Make sure to return an instance of the JSON, not the schema itself.\n")
	b.WriteString("Use the exact field names as they are defined in the schema.\n")
	return &DecisionParser{
		instructions: b.String(),
	}
}

// Parse extracts the JSON object embedded in the completion output and
// unmarshals it into a Decision.
func (p *DecisionParser) Parse(raw string) (*Decision, error) {
	data := llmutils.ExtractJSONObject([]byte(raw))
	if data == nil {
		return nil, errors.WithMessage(ErrFailedParseDecision, "no JSON object in output")
	}
	var d Decision
	if err := ljson.Unmarshal(data, &d); err != nil {
		return nil, errors.WithMessage(ErrFailedParseDecision, err.Error())
	}
	return &d, nil
}

// GetFormatInstructions returns the schema block appended to every decision
// prompt.
func (p *DecisionParser) GetFormatInstructions() string {
	return p.instructions
}
