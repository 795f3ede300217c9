package llmutils_test

import (
	"testing"

	"github.com/effective-security/toolchat/pkg/llmutils"
	"github.com/stretchr/testify/assert"
)

func Test_ExtractJSONObject(t *testing.T) {
	payload := `{"intent": "weather", "actions": []}`

	assert.Equal(t, payload, string(llmutils.ExtractJSONObject([]byte(payload))))
	assert.Equal(t, payload,
		string(llmutils.ExtractJSONObject([]byte("Sure, here you go:\n"+payload+"\nLet me know if you need anything else."))))
	assert.Equal(t, payload,
		string(llmutils.ExtractJSONObject([]byte("```json\n"+payload+"\n```"))))

	// nested objects keep the outermost braces
	nested := `{"a": {"b": 1}}`
	assert.Equal(t, nested, string(llmutils.ExtractJSONObject([]byte("prefix "+nested))))

	assert.Nil(t, llmutils.ExtractJSONObject([]byte("no json here")))
	assert.Nil(t, llmutils.ExtractJSONObject([]byte("only open {")))
	assert.Nil(t, llmutils.ExtractJSONObject([]byte("} reversed {")))
}

func Test_ToJSON(t *testing.T) {
	assert.Equal(t, `{"city":"Paris"}`, llmutils.ToJSON(map[string]string{"city": "Paris"}))
	assert.Equal(t, "{\n\t\"city\": \"Paris\"\n}", llmutils.ToJSONIndent(map[string]string{"city": "Paris"}))
}

func Test_BackticksJSON(t *testing.T) {
	assert.Equal(t, "\n```json\n{}\n```\n", llmutils.BackticksJSON("{}"))
}
