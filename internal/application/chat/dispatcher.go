package chat

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/smartwms/wms-api/internal/application/auth"
	"github.com/smartwms/wms-api/internal/application/nlu"
	"github.com/smartwms/wms-api/internal/application/ports"
	"github.com/smartwms/wms-api/internal/application/session"
	"github.com/smartwms/wms-api/internal/application/warehouse"
	"github.com/smartwms/wms-api/internal/domain"
	"github.com/smartwms/wms-api/internal/domain/entity"
	"github.com/smartwms/wms-api/internal/domain/intent"
	"github.com/smartwms/wms-api/pkg/logger"
)

// locationReplyRe matches a location code given as the answer to the
// "which location" follow-up question.
var locationReplyRe = regexp.MustCompile(`(?i)\b([A-Z]-\d{2}-\d{2})\b`)

// Dispatcher turns a raw chat message into a warehouse operation and a
// Korean reply. It owns the full pipeline: preprocessing, completion,
// recovery, correction rules, the permission gate and execution.
type Dispatcher struct {
	engine   ports.CompletionEngine
	ledger   *warehouse.Ledger
	sessions *session.Store
	log      *logger.Logger
}

func NewDispatcher(engine ports.CompletionEngine, ledger *warehouse.Ledger, sessions *session.Store, log *logger.Logger) *Dispatcher {
	return &Dispatcher{engine: engine, ledger: ledger, sessions: sessions, log: log}
}

// Interpret handles one chat message for the session and returns the reply
// text. It never returns an error; failures become apologetic replies so
// the conversation keeps flowing.
func (d *Dispatcher) Interpret(ctx context.Context, sessionID string, role entity.Role, actor, message string) string {
	text := nlu.Preprocess(message)

	if pending, ok := d.sessions.Pending(sessionID); ok {
		return d.resumeInbound(ctx, sessionID, role, actor, pending, text)
	}

	raw, err := d.engine.Complete(ctx, text)
	in := intent.Unknown()
	if err != nil {
		d.log.Error().Err(err).Str("session", sessionID).Msg("completion failed")
		return msgEngineDown
	}
	outcome := nlu.Recover(raw)
	if outcome.Malformed {
		d.log.Warn().Str("session", sessionID).Str("raw", raw).Msg("unrecoverable model output")
	} else {
		in = outcome.Intent
	}
	in = nlu.ApplyRules(in, text)

	d.log.Debug().
		Str("session", sessionID).
		Str("action", string(in.Action)).
		Str("product", in.Entities.ProductName).
		Msg("command interpreted")

	if in.Action != intent.ActionUnknown && !auth.Permitted(role, in.Action) {
		d.log.Info().Str("role", string(role)).Str("action", string(in.Action)).Msg("command refused")
		return msgNoPermission
	}

	return d.execute(ctx, sessionID, actor, in)
}

// resumeInbound treats the message as the location answer of a pending
// inbound command.
func (d *Dispatcher) resumeInbound(ctx context.Context, sessionID string, role entity.Role, actor string, pending session.PendingInbound, text string) string {
	m := locationReplyRe.FindStringSubmatch(text)
	if m == nil {
		return msgAskLocReply
	}
	code := strings.ToUpper(m[1])

	location, err := d.ledger.FindLocationByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrLocationNotFound) {
			return msgLocationNotFoundAskWithExample(code)
		}
		d.log.Error().Err(err).Msg("location lookup failed")
		return msgInboundFailed(pending.ProductName, pending.Quantity)
	}

	if !auth.Permitted(role, intent.ActionInbound) {
		d.sessions.Clear(sessionID)
		return msgNoInboundPermission
	}

	_, _, err = d.ledger.Inbound(ctx, warehouse.InboundInput{
		ProductID:  pending.ProductID,
		Quantity:   pending.Quantity,
		LocationID: location.ID,
		Actor:      actor,
	})
	if err != nil {
		d.log.Error().Err(err).Msg("inbound failed")
		return msgInboundFailed(pending.ProductName, pending.Quantity)
	}
	d.sessions.Clear(sessionID)
	return msgInboundDone(pending.ProductName, pending.Quantity, location.Code)
}

func (d *Dispatcher) execute(ctx context.Context, sessionID, actor string, in intent.Intent) string {
	switch in.Action {
	case intent.ActionQueryStock:
		return d.queryStock(ctx, in.Entities)
	case intent.ActionQueryLocationItems:
		return d.queryLocationItems(ctx, in.Entities)
	case intent.ActionInbound:
		return d.inbound(ctx, sessionID, actor, in.Entities)
	case intent.ActionOutbound:
		return d.outbound(ctx, actor, in.Entities)
	case intent.ActionQueryInboundHistory:
		return d.inboundHistory(ctx, in.Entities)
	case intent.ActionQueryOutboundHistory:
		return d.outboundHistory(ctx, in.Entities)
	case intent.ActionUnknown:
		return msgUnknown
	default:
		return msgUnhandleable
	}
}

// queryStock favors a concrete product name over the all-stock flag; the
// correction rules may leave both set on generic utterances.
func (d *Dispatcher) queryStock(ctx context.Context, e intent.Entities) string {
	switch {
	case e.ProductName != "":
		product, err := d.ledger.FindProductByName(ctx, e.ProductName)
		if err != nil {
			return msgStockForProductMissing(e.ProductName)
		}
		summaries, err := d.ledger.CurrentStock(ctx, &product.ID)
		if err != nil || len(summaries) == 0 {
			return msgStockForProductMissing(e.ProductName)
		}
		header := "'" + e.ProductName + "'의 현재 재고는 다음과 같습니다:"
		return renderSummaries(header, summaries)
	case e.AllStock:
		summaries, err := d.ledger.CurrentStock(ctx, nil)
		if err != nil || len(summaries) == 0 {
			return msgNoStockAtAll
		}
		return renderSummaries("현재 모든 제품의 재고 현황입니다:", summaries)
	default:
		return msgAskWhichStock
	}
}

func (d *Dispatcher) queryLocationItems(ctx context.Context, e intent.Entities) string {
	if e.LocationCode == "" {
		return msgAskWhichLoc
	}
	_, items, err := d.ledger.LocationItems(ctx, e.LocationCode)
	if err != nil {
		if errors.Is(err, domain.ErrLocationNotFound) {
			return msgLocationNotFoundAsk(e.LocationCode)
		}
		d.log.Error().Err(err).Msg("location items query failed")
		return msgUnhandleable
	}
	return renderLocationItems(e.LocationCode, items)
}

func (d *Dispatcher) inbound(ctx context.Context, sessionID, actor string, e intent.Entities) string {
	if e.ProductName == "" || e.Quantity == nil {
		return msgAskInboundSlot
	}
	product, err := d.ledger.FindProductByName(ctx, e.ProductName)
	if err != nil {
		return msgProductNotFound(e.ProductName)
	}

	if e.LocationCode == "" {
		d.sessions.AwaitLocation(sessionID, session.PendingInbound{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    *e.Quantity,
		})
		return msgAwaitingLocation(product.Name, *e.Quantity)
	}

	location, err := d.ledger.FindLocationByCode(ctx, e.LocationCode)
	if err != nil {
		return msgLocationNotFoundRetype(e.LocationCode)
	}
	_, _, err = d.ledger.Inbound(ctx, warehouse.InboundInput{
		ProductID:  product.ID,
		Quantity:   *e.Quantity,
		LocationID: location.ID,
		Actor:      actor,
	})
	if err != nil {
		d.log.Error().Err(err).Msg("inbound failed")
		return msgInboundFailed(product.Name, *e.Quantity)
	}
	return msgInboundDone(product.Name, *e.Quantity, location.Code)
}

func (d *Dispatcher) outbound(ctx context.Context, actor string, e intent.Entities) string {
	if e.ProductName == "" || e.Quantity == nil {
		return msgAskOutbound
	}
	product, err := d.ledger.FindProductByName(ctx, e.ProductName)
	if err != nil {
		return msgOutboundProductNotFound(e.ProductName)
	}

	result, err := d.ledger.Outbound(ctx, warehouse.OutboundInput{
		ProductID: product.ID,
		Quantity:  *e.Quantity,
		Actor:     actor,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			onHand, terr := d.ledger.TotalOnHand(ctx, product.ID)
			if terr != nil {
				d.log.Error().Err(terr).Msg("on-hand lookup failed")
			}
			summaries, _ := d.ledger.CurrentStock(ctx, &product.ID)
			return msgInsufficient(product.Name, *e.Quantity, onHand, summaries)
		}
		d.log.Error().Err(err).Msg("outbound failed")
		return msgOutboundFailed(product.Name, *e.Quantity)
	}

	if result.Status == warehouse.StatusPartiallyReconciled {
		return msgOutboundPartial(product.Name, result.Requested, result.Deducted, result.PickingInstructions)
	}
	return msgOutboundDone(product.Name, *e.Quantity, result.PickingInstructions)
}

func (d *Dispatcher) inboundHistory(ctx context.Context, e intent.Entities) string {
	rows, err := d.ledger.RecentInbounds(ctx, e.Limit)
	if err != nil {
		d.log.Error().Err(err).Msg("inbound history query failed")
		return msgUnhandleable
	}
	if len(rows) == 0 {
		return msgNoInboundHistory
	}
	header := historyHeader("입고", len(rows))
	return renderHistory(header, "공급처", rows)
}

func (d *Dispatcher) outboundHistory(ctx context.Context, e intent.Entities) string {
	rows, err := d.ledger.RecentOutbounds(ctx, e.Limit)
	if err != nil {
		d.log.Error().Err(err).Msg("outbound history query failed")
		return msgUnhandleable
	}
	if len(rows) == 0 {
		return msgNoOutboundHistory
	}
	header := historyHeader("출고", len(rows))
	return renderHistory(header, "고객", rows)
}
