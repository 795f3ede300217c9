// Package llmutils provides helpers for dealing with free-text LLM output
// that is expected to carry a JSON payload.
package llmutils

import (
	"bytes"
	"encoding/json"
)

// ExtractJSONObject returns the substring between the first '{' and the
// last '}' of the input. LLMs routinely surround the payload with prose
// like "Here is the decision:" or trailing commentary; trimming to the
// outermost braces tolerates that without demanding strict formatting.
// Returns nil when no balanced object markers are present.
func ExtractJSONObject(bs []byte) []byte {
	start := bytes.IndexByte(bs, '{')
	if start == -1 {
		return nil
	}
	end := bytes.LastIndexByte(bs, '}')
	if end == -1 || end < start {
		return nil
	}
	return bs[start : end+1]
}

// ToJSON marshals the value, ignoring errors. Meant for prompt and log
// rendering where a best-effort string is always preferable to a failure.
func ToJSON(val any) string {
	js, _ := json.Marshal(val)
	return string(js)
}

// ToJSONIndent marshals the value with tab indentation, ignoring errors.
func ToJSONIndent(val any) string {
	js, _ := json.MarshalIndent(val, "", "\t")
	return string(js)
}

// BackticksJSON wraps a JSON string in a fenced markdown block for
// inclusion in prompts.
func BackticksJSON(js string) string {
	var b bytes.Buffer
	b.WriteString("\n```json\n")
	b.WriteString(js)
	b.WriteString("\n```\n")
	return b.String()
}
