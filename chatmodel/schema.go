package chatmodel

import (
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// decisionSchema reflects the Decision type into a single self-contained
// JSON schema: the root definition is hoisted and all $defs references are
// inlined, so the result can be pasted into a prompt verbatim.
func decisionSchema() *jsonschema.Schema {
	r := new(jsonschema.Reflector)
	full := r.ReflectFromType(reflect.TypeOf(Decision{}))

	rootID := strings.TrimPrefix(full.Ref, "#/$defs/")
	defs := make(map[string]*jsonschema.Schema)
	var root *jsonschema.Schema
	for name, def := range full.Definitions {
		if name == rootID {
			root = def
		} else {
			defs[name] = def
		}
	}
	if root == nil {
		return full
	}

	res := &jsonschema.Schema{
		Type:       root.Type,
		Properties: root.Properties,
		Required:   root.Required,
	}
	inlineRefs(res.Properties, defs)
	return res
}

func inlineRefs(props *orderedmap.OrderedMap[string, *jsonschema.Schema], defs map[string]*jsonschema.Schema) {
	if props == nil {
		return
	}
	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		child := pair.Value
		if child.Ref != "" {
			if def, ok := defs[strings.TrimPrefix(child.Ref, "#/$defs/")]; ok {
				pair.Value = def
				child = def
			}
		}
		if child.Items != nil && child.Items.Ref != "" {
			if def, ok := defs[strings.TrimPrefix(child.Items.Ref, "#/$defs/")]; ok {
				child.Items = def
			}
		}
		if child.Items != nil {
			inlineRefs(child.Items.Properties, defs)
		}
		inlineRefs(child.Properties, defs)
	}
}
