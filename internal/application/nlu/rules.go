package nlu

import (
	"regexp"
	"strings"

	"github.com/smartwms/wms-api/internal/domain/intent"
)

// The correction rules are the actual arbiter of action classification: the
// completion engine's structured output cannot be trusted, so a fixed chain
// of pure rewrite functions enforces the domain keyword semantics over
// whatever candidate the engine produced.

// utterance precomputes the two views the rules match against: the raw text
// and a compact form with all whitespace removed, so keyword combinations
// match with or without spacing (출고 내역 / 출고내역).
type utterance struct {
	raw     string
	compact string
}

var wsRe = regexp.MustCompile(`\s+`)

func newUtterance(raw string) utterance {
	return utterance{raw: raw, compact: wsRe.ReplaceAllString(raw, "")}
}

// rule rewrites a candidate intent. stop short-circuits the remaining chain;
// only the all-stock rule uses it.
type rule func(in intent.Intent, u utterance) (out intent.Intent, stop bool)

var ruleChain = []rule{
	ruleAllStock,
	ruleForceOutbound,
	ruleForceInbound,
	ruleOutboundHistory,
	ruleStockQuery,
	ruleInboundHistory,
	ruleBackfillMovement,
	ruleLocationItems,
	ruleStockProductName,
}

// ApplyRules runs the ordered correction chain over a candidate intent and
// the (preprocessed) utterance. Each rule is a pure function; later rules
// may override earlier ones.
func ApplyRules(in intent.Intent, raw string) intent.Intent {
	u := newUtterance(raw)
	for _, r := range ruleChain {
		var stop bool
		in, stop = r(in, u)
		if stop {
			break
		}
	}
	return in
}

var (
	allStockRe        = regexp.MustCompile(`전체\s*재고(\s*현황)?`)
	outboundHistoryRe = regexp.MustCompile(`출고.*(현황|내역|목록|리스트|이력)|(현황|내역|목록|리스트|이력).*출고`)
	inboundHistoryRe  = regexp.MustCompile(`입고.*(현황|내역|목록|리스트|이력)|(현황|내역|목록|리스트|이력).*입고`)
	stockQueryRe      = regexp.MustCompile(`재고.*(현황|내역|목록|리스트|이력|조회)|(현황|내역|목록|리스트|이력|조회).*재고`)
	movementSlotRe    = regexp.MustCompile(`(.+?)\s*(\d+)\s*(?:개|대|박스|(?i:box|ea))?\s*(?:입고|출고)?`)
	locationCodeRe    = regexp.MustCompile(`(?i)([A-Za-z]\d{2}-\d{2}|[A-Za-z]-\d{2}-\d{2})`)
	itemKeywordRe     = regexp.MustCompile(`재고|현황|조회|품목|아이템|(?i:item)`)
	stockNameRe       = regexp.MustCompile(`([가-힣A-Za-z0-9_\- ]+?)\s*(재고현황조회|재고 조회|재고현황|재고|현황|조회)`)
)

// genericStockTerms are product-name candidates that are really just query
// phrasing, never a product.
var genericStockTerms = map[string]struct{}{
	"재고":       {},
	"재고현황":     {},
	"현황":       {},
	"재고 조회":    {},
	"재고현황조회":   {},
	"전체":       {},
	"전체재고":     {},
	"전체 재고":    {},
	"전체 재고 현황": {},
}

func isGenericStockTerm(name string) bool {
	_, ok := genericStockTerms[strings.TrimSpace(name)]
	return ok
}

// ruleAllStock: "전체 재고(현황)" phrasing is always a whole-inventory query,
// regardless of what the engine claimed. Short-circuits the chain.
func ruleAllStock(in intent.Intent, u utterance) (intent.Intent, bool) {
	if allStockRe.MatchString(u.raw) || strings.HasPrefix(u.compact, "전체재고") {
		return intent.Intent{
			Action:   intent.ActionQueryStock,
			Entities: intent.Entities{AllStock: true},
		}, true
	}
	return in, false
}

// ruleForceOutbound: an 출고 keyword overrides any non-outbound action.
func ruleForceOutbound(in intent.Intent, u utterance) (intent.Intent, bool) {
	if strings.Contains(u.raw, "출고") && in.Action != intent.ActionOutbound {
		in.Action = intent.ActionOutbound
	}
	return in, false
}

// ruleForceInbound: an 입고 keyword overrides any non-inbound action.
func ruleForceInbound(in intent.Intent, u utterance) (intent.Intent, bool) {
	if strings.Contains(u.raw, "입고") && in.Action != intent.ActionInbound {
		in.Action = intent.ActionInbound
	}
	return in, false
}

// ruleOutboundHistory: 출고 combined with a history/list keyword, in either
// order, is a history query, not an outbound.
func ruleOutboundHistory(in intent.Intent, u utterance) (intent.Intent, bool) {
	if outboundHistoryRe.MatchString(u.compact) {
		in.Action = intent.ActionQueryOutboundHistory
		in.Entities.AllStock = false
	}
	return in, false
}

// ruleStockQuery: 재고 combined with a query/history/list keyword is a stock
// query. An absent or generic product name turns it into a whole-inventory
// query; a concrete name is kept and all_stock dropped.
func ruleStockQuery(in intent.Intent, u utterance) (intent.Intent, bool) {
	if !stockQueryRe.MatchString(u.compact) {
		return in, false
	}
	in.Action = intent.ActionQueryStock
	if in.Entities.ProductName == "" || isGenericStockTerm(in.Entities.ProductName) {
		in.Entities = intent.Entities{AllStock: true}
	} else {
		in.Entities.AllStock = false
	}
	return in, false
}

// ruleInboundHistory: 입고 combined with a history/list keyword.
func ruleInboundHistory(in intent.Intent, u utterance) (intent.Intent, bool) {
	if inboundHistoryRe.MatchString(u.compact) {
		in.Action = intent.ActionQueryInboundHistory
	}
	return in, false
}

// ruleBackfillMovement: for inbound/outbound with missing slots, extract
// "<name> <number>" from the utterance. Backfills absent slots only, never
// overwrites what the engine already produced.
func ruleBackfillMovement(in intent.Intent, u utterance) (intent.Intent, bool) {
	if in.Action != intent.ActionInbound && in.Action != intent.ActionOutbound {
		return in, false
	}
	if in.Entities.ProductName != "" && in.Entities.Quantity != nil {
		return in, false
	}
	m := movementSlotRe.FindStringSubmatch(u.raw)
	if m == nil {
		return in, false
	}
	if in.Entities.ProductName == "" {
		in.Entities.ProductName = strings.TrimSpace(m[1])
	}
	if in.Entities.Quantity == nil {
		if qty, ok := asInt(m[2]); ok {
			in.Entities.Quantity = intent.IntPtr(qty)
		}
	}
	return in, false
}

// ruleLocationItems: a location-code-shaped token together with an item
// keyword is a per-location query; the extracted code replaces all prior
// entities.
func ruleLocationItems(in intent.Intent, u utterance) (intent.Intent, bool) {
	code := locationCodeRe.FindString(u.raw)
	if code == "" || !itemKeywordRe.MatchString(u.raw) {
		return in, false
	}
	return intent.Intent{
		Action:   intent.ActionQueryLocationItems,
		Entities: intent.Entities{LocationCode: strings.ToUpper(code)},
	}, false
}

// ruleStockProductName: a stock query without a product name tries to take
// the noun phrase preceding the stock keyword, rejecting generic phrasing.
func ruleStockProductName(in intent.Intent, u utterance) (intent.Intent, bool) {
	if in.Action != intent.ActionQueryStock || in.Entities.ProductName != "" {
		return in, false
	}
	m := stockNameRe.FindStringSubmatch(u.raw)
	if m == nil {
		return in, false
	}
	name := strings.TrimSpace(m[1])
	if name == "" || isGenericStockTerm(name) {
		return in, false
	}
	in.Entities.ProductName = name
	in.Entities.AllStock = false
	return in, false
}
