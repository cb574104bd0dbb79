package nlu

import (
	"strconv"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"

	"github.com/smartwms/wms-api/internal/domain/intent"
)

// ParseOutcome is the explicit result of response recovery: either a
// recovered candidate intent or Malformed. No error is raised for bad model
// output; the caller degrades Malformed to the unknown action.
type ParseOutcome struct {
	Intent    intent.Intent
	Malformed bool
}

// rawPayload is the JSON-like shape the completion engine is instructed to
// produce. Entity values arrive untyped because the engine routinely emits
// numbers as strings and booleans as words.
type rawPayload struct {
	Action   string         `json:"action"`
	Entities map[string]any `json:"entities"`
}

// Recover repairs and parses raw completion-engine text into a candidate
// intent. Recovery is capped at two parse attempts:
//
//  1. Balance braces (the engine often truncates the closing brace), strip
//     any markdown fence, and parse the whole string leniently.
//  2. On failure, retry the lenient parse on the substring from the first
//     '{' to the last '}' only.
//
// The lenient grammar is JSON5, a superset of strict JSON tolerating
// trailing commas and unquoted keys, matching what the engine produces when
// it almost gets it right.
func Recover(raw string) ParseOutcome {
	candidate := balanceBraces(strings.TrimSpace(raw))
	candidate = stripFences(candidate)

	if out, ok := tryParse(candidate); ok {
		return out
	}

	start := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if start != -1 && end > start {
		if out, ok := tryParse(stripFences(candidate[start : end+1])); ok {
			return out
		}
	}

	return ParseOutcome{Intent: intent.Unknown(), Malformed: true}
}

// balanceBraces appends the deficit of closing braces when the engine
// truncated its output mid-object.
func balanceBraces(s string) string {
	deficit := strings.Count(s, "{") - strings.Count(s, "}")
	if deficit > 0 {
		s += strings.Repeat("}", deficit)
	}
	return s
}

// stripFences removes a wrapping markdown code block (```json ... ```).
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func tryParse(candidate string) (out ParseOutcome, ok bool) {
	if candidate == "" {
		return ParseOutcome{}, false
	}
	// The json5 scanner panics on some brace-less inputs (e.g. bare
	// "action: inbound"). Any engine text reaches this point, so a panic
	// here counts as a parse failure.
	defer func() {
		if r := recover(); r != nil {
			out, ok = ParseOutcome{}, false
		}
	}()
	var payload rawPayload
	if err := json5.Unmarshal([]byte(candidate), &payload); err != nil {
		return ParseOutcome{}, false
	}
	return ParseOutcome{Intent: toIntent(payload)}, true
}

func toIntent(p rawPayload) intent.Intent {
	out := intent.Intent{Action: intent.ParseAction(p.Action)}
	for key, val := range p.Entities {
		switch key {
		case "product_name":
			out.Entities.ProductName = strings.TrimSpace(asString(val))
		case "location_code":
			out.Entities.LocationCode = strings.ToUpper(strings.TrimSpace(asString(val)))
		case "quantity":
			if n, ok := asInt(val); ok {
				out.Entities.Quantity = intent.IntPtr(n)
			}
		case "limit":
			if n, ok := asInt(val); ok {
				out.Entities.Limit = intent.IntPtr(n)
			}
		case "all_stock":
			out.Entities.AllStock = asBool(val)
		}
	}
	return out
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(strings.TrimSpace(b), "true")
	default:
		return false
	}
}
