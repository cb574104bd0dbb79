package chat

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartwms/wms-api/internal/application/session"
	"github.com/smartwms/wms-api/internal/application/warehouse"
	"github.com/smartwms/wms-api/internal/domain"
	"github.com/smartwms/wms-api/internal/domain/entity"
	"github.com/smartwms/wms-api/internal/domain/repository"
	"github.com/smartwms/wms-api/pkg/logger"
)

// scriptedEngine returns canned completions keyed by the preprocessed
// utterance, simulating the language model.
type scriptedEngine struct {
	replies map[string]string
	err     error
}

func (s *scriptedEngine) Complete(_ context.Context, utterance string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if r, ok := s.replies[utterance]; ok {
		return r, nil
	}
	return `{"action": "unknown", "entities": {}}`, nil
}

// In-memory warehouse used behind the dispatcher.
type memWarehouse struct {
	products  []*entity.Product
	locations []*entity.Location
	stock     []*entity.StockEntry
	inbounds  []*entity.InboundRecord
	outbounds []*entity.OutboundRecord
	nextID    int
}

func (m *memWarehouse) id() int { m.nextID++; return m.nextID }

func (m *memWarehouse) product(id int) *entity.Product {
	for _, p := range m.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (m *memWarehouse) location(id int) *entity.Location {
	for _, l := range m.locations {
		if l.ID == id {
			return l
		}
	}
	return nil
}

func (m *memWarehouse) GetByID(_ context.Context, id int) (*entity.Product, error) {
	return m.product(id), nil
}

func (m *memWarehouse) FindByName(_ context.Context, name string) (*entity.Product, error) {
	needle := strings.ToLower(name)
	for _, p := range m.products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memWarehouse) List(_ context.Context) ([]*entity.Product, error) { return m.products, nil }

type memLocations struct{ w *memWarehouse }

func (m *memLocations) GetByID(_ context.Context, id int) (*entity.Location, error) {
	return m.w.location(id), nil
}

func (m *memLocations) GetByCode(_ context.Context, code string) (*entity.Location, error) {
	for _, l := range m.w.locations {
		if strings.EqualFold(l.Code, code) {
			return l, nil
		}
	}
	return nil, nil
}

func (m *memLocations) List(_ context.Context) ([]*entity.Location, error) {
	return m.w.locations, nil
}

func (m *memLocations) AddLoad(_ context.Context, locationID int, delta decimal.Decimal) error {
	l := m.w.location(locationID)
	if l == nil {
		return domain.ErrLocationNotFound
	}
	l.CurrentLoad = l.CurrentLoad.Add(delta)
	return nil
}

type memStock struct{ w *memWarehouse }

func (m *memStock) ListForUpdateByProduct(_ context.Context, productID int) ([]*entity.PickableStock, error) {
	var out []*entity.PickableStock
	for _, s := range m.w.stock {
		if s.ProductID != productID || s.Quantity <= 0 {
			continue
		}
		out = append(out, &entity.PickableStock{
			StockID:      s.ID,
			Quantity:     s.Quantity,
			LocationID:   s.LocationID,
			LocationCode: m.w.location(s.LocationID).Code,
			ProductName:  m.w.product(s.ProductID).Name,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LocationCode < out[j].LocationCode })
	return out, nil
}

func (m *memStock) IncrementOrInsert(_ context.Context, productID, locationID, qty int) error {
	for _, s := range m.w.stock {
		if s.ProductID == productID && s.LocationID == locationID && s.BatchNumber == nil {
			s.Quantity += qty
			s.LastUpdated = time.Now()
			return nil
		}
	}
	m.w.stock = append(m.w.stock, &entity.StockEntry{
		ID: m.w.id(), ProductID: productID, LocationID: locationID, Quantity: qty, LastUpdated: time.Now(),
	})
	return nil
}

func (m *memStock) Deduct(_ context.Context, stockID, qty int) error {
	for _, s := range m.w.stock {
		if s.ID == stockID {
			if s.Quantity < qty {
				return domain.ErrInsufficientStock
			}
			s.Quantity -= qty
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memStock) Summaries(_ context.Context, productID *int) ([]*entity.StockSummary, error) {
	type agg struct {
		total int
		codes []string
	}
	byProduct := map[int]*agg{}
	for _, s := range m.w.stock {
		if s.Quantity <= 0 || (productID != nil && s.ProductID != *productID) {
			continue
		}
		a := byProduct[s.ProductID]
		if a == nil {
			a = &agg{}
			byProduct[s.ProductID] = a
		}
		a.total += s.Quantity
		a.codes = append(a.codes, m.w.location(s.LocationID).Code)
	}
	var out []*entity.StockSummary
	for pid, a := range byProduct {
		sort.Strings(a.codes)
		out = append(out, &entity.StockSummary{
			ProductName:   m.w.product(pid).Name,
			TotalQuantity: a.total,
			Locations:     strings.Join(a.codes, ", "),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return out, nil
}

func (m *memStock) ItemsAtLocation(_ context.Context, locationID int) ([]*entity.LocationItem, error) {
	var out []*entity.LocationItem
	for _, s := range m.w.stock {
		if s.LocationID == locationID && s.Quantity > 0 {
			out = append(out, &entity.LocationItem{ProductName: m.w.product(s.ProductID).Name, Quantity: s.Quantity})
		}
	}
	return out, nil
}

func (m *memStock) TotalByProduct(_ context.Context, productID int) (int, error) {
	total := 0
	for _, s := range m.w.stock {
		if s.ProductID == productID {
			total += s.Quantity
		}
	}
	return total, nil
}

type memInbound struct{ w *memWarehouse }

func (m *memInbound) Create(_ context.Context, rec *entity.InboundRecord) error {
	rec.ID = m.w.id()
	m.w.inbounds = append(m.w.inbounds, rec)
	return nil
}

func (m *memInbound) Recent(_ context.Context, limit int) ([]*entity.MovementHistoryRow, error) {
	var out []*entity.MovementHistoryRow
	for i := len(m.w.inbounds) - 1; i >= 0 && len(out) < limit; i-- {
		r := m.w.inbounds[i]
		out = append(out, &entity.MovementHistoryRow{
			ProductName: m.w.product(r.ProductID).Name, Quantity: r.Quantity,
			OccurredAt: r.OccurredAt, Counterparty: r.Supplier,
		})
	}
	return out, nil
}

func (m *memInbound) TotalByProduct(_ context.Context, productID int) (int, error) {
	total := 0
	for _, r := range m.w.inbounds {
		if r.ProductID == productID {
			total += r.Quantity
		}
	}
	return total, nil
}

type memOutbound struct{ w *memWarehouse }

func (m *memOutbound) Create(_ context.Context, rec *entity.OutboundRecord) error {
	rec.ID = m.w.id()
	m.w.outbounds = append(m.w.outbounds, rec)
	return nil
}

func (m *memOutbound) Recent(_ context.Context, limit int) ([]*entity.MovementHistoryRow, error) {
	var out []*entity.MovementHistoryRow
	for i := len(m.w.outbounds) - 1; i >= 0 && len(out) < limit; i-- {
		r := m.w.outbounds[i]
		out = append(out, &entity.MovementHistoryRow{
			ProductName: m.w.product(r.ProductID).Name, Quantity: r.Quantity,
			OccurredAt: r.OccurredAt, Counterparty: r.Customer,
		})
	}
	return out, nil
}

func (m *memOutbound) TotalByProduct(_ context.Context, productID int) (int, error) {
	total := 0
	for _, r := range m.w.outbounds {
		if r.ProductID == productID {
			total += r.Quantity
		}
	}
	return total, nil
}

type memTx struct{ w *memWarehouse }

func (m *memTx) Run(_ context.Context, fn func(
	stock repository.StockRepository,
	locations repository.LocationRepository,
	inbound repository.InboundRepository,
	outbound repository.OutboundRepository,
) error) error {
	return fn(&memStock{m.w}, &memLocations{m.w}, &memInbound{m.w}, &memOutbound{m.w})
}

func newTestDispatcher(t *testing.T, engine *scriptedEngine) (*Dispatcher, *memWarehouse, *session.Store) {
	t.Helper()
	w := &memWarehouse{
		products: []*entity.Product{
			{ID: 1, Name: "노트북 컴퓨터", SKU: "NB-PRO-001", UnitPrice: decimal.RequireFromString("1500000.00")},
			{ID: 2, Name: "무선 마우스", SKU: "MS-WL-002", UnitPrice: decimal.RequireFromString("25000.00")},
			{ID: 3, Name: "HDMI 케이블", SKU: "CB-HD-004", UnitPrice: decimal.RequireFromString("12000.00")},
		},
		locations: []*entity.Location{
			{ID: 1, Code: "A-01-01", Capacity: decimal.RequireFromString("100000000")},
			{ID: 2, Code: "B-02-01", Capacity: decimal.RequireFromString("100000000")},
		},
		nextID: 100,
	}
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	ledger := warehouse.NewLedger(w, &memLocations{w}, &memStock{w}, &memInbound{w}, &memOutbound{w}, &memTx{w}, log)
	sessions := session.NewStore(30 * time.Minute)
	return NewDispatcher(engine, ledger, sessions, log), w, sessions
}

func TestInterpret_InboundSlotFillingFlow(t *testing.T) {
	engine := &scriptedEngine{replies: map[string]string{
		"노트북 5 입고해줘": `{"action": "inbound", "entities": {"product_name": "노트북", "quantity": 5}}`,
	}}
	d, w, sessions := newTestDispatcher(t, engine)
	ctx := context.Background()

	reply := d.Interpret(ctx, "sess-1", entity.RoleInboundManager, "inbound_user", "노트북 5개 입고해줘")
	assert.Equal(t, "알겠습니다. '노트북 컴퓨터' 5개를 입고 처리하겠습니다. 어느 로케이션에 보관하시겠습니까? (예: A-01-01)", reply)
	_, pendingOK := sessions.Pending("sess-1")
	assert.True(t, pendingOK)

	// Gibberish instead of a code keeps the question open.
	reply = d.Interpret(ctx, "sess-1", entity.RoleInboundManager, "inbound_user", "음 어디가 좋을까")
	assert.Equal(t, msgAskLocReply, reply)

	// Unknown location keeps the pending state.
	reply = d.Interpret(ctx, "sess-1", entity.RoleInboundManager, "inbound_user", "Z-99-99")
	assert.Contains(t, reply, "'Z-99-99'이라는 로케이션을 찾을 수 없습니다")
	_, pendingOK = sessions.Pending("sess-1")
	assert.True(t, pendingOK)

	reply = d.Interpret(ctx, "sess-1", entity.RoleInboundManager, "inbound_user", "a-01-01에 넣어줘")
	assert.Equal(t, "'노트북 컴퓨터' 5개를 'A-01-01' 로케이션에 성공적으로 입고 처리했습니다. 재고가 업데이트되었습니다.", reply)
	_, pendingOK = sessions.Pending("sess-1")
	assert.False(t, pendingOK)

	require.Len(t, w.inbounds, 1)
	assert.Equal(t, 5, w.inbounds[0].Quantity)
	assert.Equal(t, "inbound_user", w.inbounds[0].ReceivedBy)
	want := decimal.RequireFromString("7500000.00")
	assert.True(t, w.location(1).CurrentLoad.Equal(want))
}

func TestInterpret_PendingStateIsPerSession(t *testing.T) {
	engine := &scriptedEngine{replies: map[string]string{
		"마우스 3 입고": `{"action": "inbound", "entities": {"product_name": "마우스", "quantity": 3}}`,
	}}
	d, _, _ := newTestDispatcher(t, engine)
	ctx := context.Background()

	reply := d.Interpret(ctx, "sess-a", entity.RoleAdmin, "wmsadmin", "마우스 3개 입고")
	assert.Contains(t, reply, "어느 로케이션에 보관하시겠습니까?")

	// A different session saying a location code is not answering sess-a.
	reply = d.Interpret(ctx, "sess-b", entity.RoleAdmin, "wmsadmin", "A-01-01")
	assert.NotContains(t, reply, "성공적으로 입고")
}

func TestInterpret_PendingInboundRefusedForWrongRole(t *testing.T) {
	engine := &scriptedEngine{}
	d, w, sessions := newTestDispatcher(t, engine)
	ctx := context.Background()

	sessions.AwaitLocation("sess-1", session.PendingInbound{ProductID: 1, ProductName: "노트북 컴퓨터", Quantity: 2})

	reply := d.Interpret(ctx, "sess-1", entity.RoleOutboundManager, "outbound_user", "A-01-01")
	assert.Equal(t, msgNoInboundPermission, reply)
	assert.Empty(t, w.inbounds)
	_, pendingOK := sessions.Pending("sess-1")
	assert.False(t, pendingOK)
}

func TestInterpret_PermissionGate(t *testing.T) {
	engine := &scriptedEngine{replies: map[string]string{
		"노트북 2 출고": `{"action": "outbound", "entities": {"product_name": "노트북", "quantity": 2}}`,
	}}
	d, w, _ := newTestDispatcher(t, engine)
	ctx := context.Background()

	reply := d.Interpret(ctx, "sess-1", entity.RoleInboundManager, "inbound_user", "노트북 2개 출고")
	assert.Equal(t, msgNoPermission, reply)
	assert.Empty(t, w.outbounds)
}

func TestInterpret_OutboundWithPickingInstructions(t *testing.T) {
	engine := &scriptedEngine{replies: map[string]string{
		"마우스 12 출고해줘": `{"action": "outbound", "entities": {"product_name": "마우스", "quantity": 12}}`,
	}}
	d, w, _ := newTestDispatcher(t, engine)
	ctx := context.Background()

	seed := &memStock{w}
	require.NoError(t, seed.IncrementOrInsert(ctx, 2, 2, 4))
	require.NoError(t, seed.IncrementOrInsert(ctx, 2, 1, 10))

	reply := d.Interpret(ctx, "sess-1", entity.RoleOutboundManager, "outbound_user", "마우스 12개 출고해줘")
	assert.Contains(t, reply, "'무선 마우스' 12개를 성공적으로 출고 처리했습니다. 재고가 업데이트되었습니다.")
	assert.Contains(t, reply, "피킹 지시사항:")
	assert.Contains(t, reply, "- 'A-01-01' 로케이션에서 '무선 마우스' 10개를 피킹하세요.")
	assert.Contains(t, reply, "- 'B-02-01' 로케이션에서 '무선 마우스' 2개를 피킹하세요.")
	require.Len(t, w.outbounds, 1)
}

func TestInterpret_OutboundInsufficientStockDetail(t *testing.T) {
	engine := &scriptedEngine{replies: map[string]string{
		"마우스 50 출고": `{"action": "outbound", "entities": {"product_name": "마우스", "quantity": 50}}`,
	}}
	d, w, _ := newTestDispatcher(t, engine)
	ctx := context.Background()

	seed := &memStock{w}
	require.NoError(t, seed.IncrementOrInsert(ctx, 2, 1, 7))

	reply := d.Interpret(ctx, "sess-1", entity.RoleAllManager, "all_manager", "마우스 50개 출고")
	assert.Contains(t, reply, "'무선 마우스'의 재고가 부족합니다")
	assert.Contains(t, reply, "요청하신 수량은 50개이며, 현재 재고는 7개입니다")
	assert.Contains(t, reply, "A-01-01")
	assert.Empty(t, w.outbounds)
}

func TestInterpret_StockQueryByProductAndAll(t *testing.T) {
	engine := &scriptedEngine{replies: map[string]string{
		"노트북 재고 조회": `{"action": "query_stock", "entities": {"product_name": "노트북"}}`,
		"전체 재고 현황":  `{"action": "unknown", "entities": {}}`,
	}}
	d, w, _ := newTestDispatcher(t, engine)
	ctx := context.Background()

	seed := &memStock{w}
	require.NoError(t, seed.IncrementOrInsert(ctx, 1, 1, 3))
	require.NoError(t, seed.IncrementOrInsert(ctx, 2, 2, 8))

	reply := d.Interpret(ctx, "sess-1", entity.RoleInventoryManager, "inventory_user", "노트북 재고 조회")
	assert.Contains(t, reply, "'노트북'의 현재 재고는 다음과 같습니다:")
	assert.Contains(t, reply, "- 노트북 컴퓨터: 3개 (A-01-01)")

	// The correction rules force the all-stock path even when the model
	// output was useless.
	reply = d.Interpret(ctx, "sess-1", entity.RoleInventoryManager, "inventory_user", "전체 재고 현황")
	assert.Contains(t, reply, "현재 모든 제품의 재고 현황입니다:")
	assert.Contains(t, reply, "- 노트북 컴퓨터: 3개 (A-01-01)")
	assert.Contains(t, reply, "- 무선 마우스: 8개 (B-02-01)")
}

func TestInterpret_LocationItemsQuery(t *testing.T) {
	engine := &scriptedEngine{}
	d, w, _ := newTestDispatcher(t, engine)
	ctx := context.Background()

	seed := &memStock{w}
	require.NoError(t, seed.IncrementOrInsert(ctx, 1, 1, 3))

	// The location rule overrides the unknown completion.
	reply := d.Interpret(ctx, "sess-1", entity.RoleAdmin, "wmsadmin", "A-01-01 재고 조회")
	assert.Contains(t, reply, "'A-01-01' 로케이션에는 다음 제품들이 있습니다:")
	assert.Contains(t, reply, "- 노트북 컴퓨터: 3개")

	reply = d.Interpret(ctx, "sess-1", entity.RoleAdmin, "wmsadmin", "B-02-01 재고 조회")
	assert.Equal(t, "'B-02-01' 로케이션에는 현재 아무 제품도 보관되어 있지 않습니다.", reply)

	reply = d.Interpret(ctx, "sess-1", entity.RoleAdmin, "wmsadmin", "Z-09-09 재고 조회")
	assert.Contains(t, reply, "'Z-09-09'이라는 로케이션을 찾을 수 없습니다")
}

func TestInterpret_HistoryQueries(t *testing.T) {
	engine := &scriptedEngine{}
	d, w, _ := newTestDispatcher(t, engine)
	ctx := context.Background()

	reply := d.Interpret(ctx, "sess-1", entity.RoleInventoryManager, "inventory_user", "입고 내역 보여줘")
	assert.Equal(t, msgNoInboundHistory, reply)

	now := time.Date(2025, 7, 1, 14, 30, 0, 0, time.UTC)
	ib := &memInbound{w}
	require.NoError(t, ib.Create(ctx, &entity.InboundRecord{ProductID: 1, Quantity: 5, OccurredAt: now, Supplier: "AI_WMS"}))

	reply = d.Interpret(ctx, "sess-1", entity.RoleInventoryManager, "inventory_user", "입고 내역 보여줘")
	assert.Contains(t, reply, "최신 입고 기록 1건입니다:")
	assert.Contains(t, reply, "- 노트북 컴퓨터 5개 (2025-07-01 14:30, 공급처: AI_WMS)")

	reply = d.Interpret(ctx, "sess-1", entity.RoleInventoryManager, "inventory_user", "출고 이력 조회")
	assert.Equal(t, msgNoOutboundHistory, reply)
}

func TestInterpret_MalformedCompletionFallsBackToRules(t *testing.T) {
	engine := &scriptedEngine{replies: map[string]string{
		"노트북 5 입고": "죄송하지만 JSON을 만들 수 없었어요",
	}}
	d, _, sessions := newTestDispatcher(t, engine)
	ctx := context.Background()

	// The backfill rule still recognizes the command from the utterance.
	reply := d.Interpret(ctx, "sess-1", entity.RoleAdmin, "wmsadmin", "노트북 5개 입고")
	assert.Contains(t, reply, "'노트북 컴퓨터' 5개를 입고 처리하겠습니다")
	_, ok := sessions.Pending("sess-1")
	assert.True(t, ok)
}

func TestInterpret_EngineFailureApologizes(t *testing.T) {
	engine := &scriptedEngine{err: context.DeadlineExceeded}
	d, _, _ := newTestDispatcher(t, engine)

	reply := d.Interpret(context.Background(), "sess-1", entity.RoleAdmin, "wmsadmin", "노트북 재고")
	assert.Equal(t, msgEngineDown, reply)
}

func TestInterpret_UnknownNeverGated(t *testing.T) {
	engine := &scriptedEngine{}
	d, _, _ := newTestDispatcher(t, engine)

	reply := d.Interpret(context.Background(), "sess-1", entity.RoleDefault, "guest", "안녕하세요")
	assert.Equal(t, msgUnknown, reply)
}

func TestInterpret_ProductNotFound(t *testing.T) {
	engine := &scriptedEngine{replies: map[string]string{
		"드론 2 입고": `{"action": "inbound", "entities": {"product_name": "드론", "quantity": 2}}`,
		"드론 2 출고": `{"action": "outbound", "entities": {"product_name": "드론", "quantity": 2}}`,
	}}
	d, _, _ := newTestDispatcher(t, engine)
	ctx := context.Background()

	reply := d.Interpret(ctx, "sess-1", entity.RoleAdmin, "wmsadmin", "드론 2개 입고")
	assert.Equal(t, "'드론'이라는 제품을 찾을 수 없습니다. 제품명을 다시 확인해 주세요.", reply)

	reply = d.Interpret(ctx, "sess-1", entity.RoleAdmin, "wmsadmin", "드론 2개 출고")
	assert.Contains(t, reply, "'드론'이라는 제품을 찾을 수 없습니다. 정확한 제품명을 알려주시거나")
}

func TestFormInbound(t *testing.T) {
	d, w, _ := newTestDispatcher(t, &scriptedEngine{})
	ctx := context.Background()

	res, err := d.FormInbound(ctx, "wmsadmin", 1, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, "'노트북 컴퓨터' 5개를 'A-01-01' 로케이션에 성공적으로 입고 처리했습니다.", res.Message)
	require.Len(t, w.inbounds, 1)

	_, err = d.FormInbound(ctx, "wmsadmin", 99, 5, 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestFormOutbound(t *testing.T) {
	d, w, _ := newTestDispatcher(t, &scriptedEngine{})
	ctx := context.Background()

	seed := &memStock{w}
	require.NoError(t, seed.IncrementOrInsert(ctx, 2, 1, 10))

	res, err := d.FormOutbound(ctx, "wmsadmin", 2, 4)
	require.NoError(t, err)
	assert.False(t, res.Partial)
	assert.Contains(t, res.Message, "'무선 마우스' 4개를 성공적으로 출고 처리했습니다")
	require.Len(t, res.PickingInstructions, 1)

	_, err = d.FormOutbound(ctx, "wmsadmin", 2, 100)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "재고가 부족합니다")
}
