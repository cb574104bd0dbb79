package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/smartwms/wms-api/internal/application/warehouse"
	"github.com/smartwms/wms-api/internal/domain"
)

// FormResult is the outcome of a structured (non-conversational) command.
type FormResult struct {
	Message             string
	PickingInstructions []string
	Partial             bool
}

// FormInbound executes an inbound submitted through the structured API.
// Role checks happen in the HTTP layer; this only runs the ledger and
// shapes the reply.
func (d *Dispatcher) FormInbound(ctx context.Context, actor string, productID, quantity, locationID int) (*FormResult, error) {
	product, location, err := d.ledger.Inbound(ctx, warehouse.InboundInput{
		ProductID:  productID,
		Quantity:   quantity,
		LocationID: locationID,
		Actor:      actor,
	})
	if err != nil {
		return nil, err
	}
	return &FormResult{
		Message: fmt.Sprintf("'%s' %d개를 '%s' 로케이션에 성공적으로 입고 처리했습니다.", product.Name, quantity, location.Code),
	}, nil
}

// FormOutbound executes an outbound submitted through the structured API.
// On insufficient stock the returned error wraps ErrInsufficientStock and
// the detail message of the conversational channel.
func (d *Dispatcher) FormOutbound(ctx context.Context, actor string, productID, quantity int) (*FormResult, error) {
	result, err := d.ledger.Outbound(ctx, warehouse.OutboundInput{
		ProductID: productID,
		Quantity:  quantity,
		Actor:     actor,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			product, perr := d.ledger.ProductByID(ctx, productID)
			if perr != nil {
				return nil, err
			}
			onHand, _ := d.ledger.TotalOnHand(ctx, productID)
			summaries, _ := d.ledger.CurrentStock(ctx, &productID)
			return nil, fmt.Errorf("%w: %s", domain.ErrInsufficientStock,
				msgInsufficient(product.Name, quantity, onHand, summaries))
		}
		return nil, err
	}

	if result.Status == warehouse.StatusPartiallyReconciled {
		return &FormResult{
			Message: fmt.Sprintf("'%s' 출고가 일부만 처리되었습니다. 요청 수량 %d개 중 %d개를 출고했습니다.",
				result.ProductName, result.Requested, result.Deducted),
			PickingInstructions: result.PickingInstructions,
			Partial:             true,
		}, nil
	}
	return &FormResult{
		Message:             fmt.Sprintf("'%s' %d개를 성공적으로 출고 처리했습니다. 재고가 업데이트되었습니다.", result.ProductName, quantity),
		PickingInstructions: result.PickingInstructions,
	}, nil
}
