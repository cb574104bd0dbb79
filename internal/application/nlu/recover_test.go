package nlu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartwms/wms-api/internal/application/nlu"
	"github.com/smartwms/wms-api/internal/domain/intent"
)

func TestRecover_CleanJSON(t *testing.T) {
	out := nlu.Recover(`{"action": "inbound", "entities": {"product_name": "노트북 컴퓨터", "quantity": 5}}`)
	require.False(t, out.Malformed)
	assert.Equal(t, intent.ActionInbound, out.Intent.Action)
	assert.Equal(t, "노트북 컴퓨터", out.Intent.Entities.ProductName)
	require.NotNil(t, out.Intent.Entities.Quantity)
	assert.Equal(t, 5, *out.Intent.Entities.Quantity)
}

func TestRecover_TruncatedClosingBrace(t *testing.T) {
	// The engine frequently cuts off before the final brace.
	out := nlu.Recover(`{"action":"unknown","entities":{}`)
	require.False(t, out.Malformed)
	assert.Equal(t, intent.ActionUnknown, out.Intent.Action)

	out = nlu.Recover(`{"action":"unknown"`)
	require.False(t, out.Malformed)
	assert.Equal(t, intent.ActionUnknown, out.Intent.Action)
}

func TestRecover_MarkdownFence(t *testing.T) {
	out := nlu.Recover("```json\n{\"action\": \"query_stock\", \"entities\": {\"all_stock\": true}}\n```")
	require.False(t, out.Malformed)
	assert.Equal(t, intent.ActionQueryStock, out.Intent.Action)
	assert.True(t, out.Intent.Entities.AllStock)
}

func TestRecover_ConversationalWrapper(t *testing.T) {
	// Second attempt: parse only the first-{ to last-} substring.
	out := nlu.Recover(`알겠습니다! 요청을 분석했습니다: {"action": "outbound", "entities": {"product_name": "무선 마우스", "quantity": 2}} 도움이 되었길 바랍니다.`)
	require.False(t, out.Malformed)
	assert.Equal(t, intent.ActionOutbound, out.Intent.Action)
	assert.Equal(t, "무선 마우스", out.Intent.Entities.ProductName)
}

func TestRecover_LenientGrammar(t *testing.T) {
	// Trailing commas and unquoted keys must parse.
	out := nlu.Recover(`{action: "query_inbound_history", entities: {limit: 5,},}`)
	require.False(t, out.Malformed)
	assert.Equal(t, intent.ActionQueryInboundHistory, out.Intent.Action)
	require.NotNil(t, out.Intent.Entities.Limit)
	assert.Equal(t, 5, *out.Intent.Entities.Limit)
}

func TestRecover_CoercesStringNumbersAndBools(t *testing.T) {
	out := nlu.Recover(`{"action": "inbound", "entities": {"product_name": "HDMI 케이블", "quantity": "3", "all_stock": "true"}}`)
	require.False(t, out.Malformed)
	require.NotNil(t, out.Intent.Entities.Quantity)
	assert.Equal(t, 3, *out.Intent.Entities.Quantity)
	assert.True(t, out.Intent.Entities.AllStock)
}

func TestRecover_UnknownActionString(t *testing.T) {
	out := nlu.Recover(`{"action": "self_destruct", "entities": {}}`)
	require.False(t, out.Malformed)
	assert.Equal(t, intent.ActionUnknown, out.Intent.Action)
}

func TestRecover_Malformed(t *testing.T) {
	// Brace-less identifier-style text trips a panic inside the json5
	// scanner; it must surface as Malformed like every other bad shape.
	for _, raw := range []string{
		"",
		"안녕하세요! 무엇을 도와드릴까요?",
		"action: inbound",
		"a: b",
		"inbound",
	} {
		out := nlu.Recover(raw)
		assert.True(t, out.Malformed, "raw %q must be malformed", raw)
		assert.Equal(t, intent.ActionUnknown, out.Intent.Action)
	}
}
