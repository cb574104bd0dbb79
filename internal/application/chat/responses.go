package chat

import (
	"fmt"
	"strings"

	"github.com/smartwms/wms-api/internal/domain/entity"
)

// Canned Korean replies of the conversational channel. Kept verbatim so the
// assistant keeps its established voice.
const (
	msgEngineDown = "죄송합니다. AI 모델 처리 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."

	msgNoPermission        = "죄송합니다. 이 명령을 실행할 권한이 없습니다. 귀하의 역할에 맞는 명령을 사용해주세요."
	msgNoInboundPermission = "죄송합니다. 이 명령을 실행할 권한이 없습니다. 귀하의 역할은 입고 관리자가 아닙니다."

	msgNoStockAtAll   = "현재 재고 정보가 없습니다. 입고된 제품이 없거나 데이터베이스에 문제가 있을 수 있습니다."
	msgAskWhichStock  = "어떤 재고 정보를 조회하시겠습니까? 제품명을 알려주시거나 '전체 재고'라고 말씀해주세요."
	msgAskWhichLoc    = "어떤 로케이션의 제품을 조회하시겠습니까? 로케이션 코드를 알려주세요. (예: A-01-01)"
	msgAskInboundSlot = "어떤 제품을 몇 개 입고하시겠습니까? (예: 노트북 5개)"
	msgAskOutbound    = "어떤 제품을 몇 개 출고하시겠습니까? (예: 노트북 2개)"
	msgAskLocReply    = "로케이션 코드를 명확히 알려주세요. (예: A-01-01)"

	msgNoInboundHistory  = "최신 입고 기록이 없습니다."
	msgNoOutboundHistory = "최신 출고 기록이 없습니다."

	msgUnknown      = "죄송합니다. 요청하신 내용을 정확히 이해하지 못했습니다. 입고, 출고, 재고 조회 또는 로케이션별 제품 조회와 같은 WMS 관련 명령으로 다시 말씀해 주시겠어요?"
	msgUnhandleable = "죄송합니다. 요청하신 작업을 처리할 수 없습니다. 다른 명령을 내려주시겠어요?"
)

func msgStockForProductMissing(name string) string {
	return fmt.Sprintf("'%s'의 재고 정보가 없습니다. 제품명이 정확한지 확인해 주세요.", name)
}

func msgProductNotFound(name string) string {
	return fmt.Sprintf("'%s'이라는 제품을 찾을 수 없습니다. 제품명을 다시 확인해 주세요.", name)
}

func msgOutboundProductNotFound(name string) string {
	return fmt.Sprintf("죄송합니다. '%s'이라는 제품을 찾을 수 없습니다. 정확한 제품명을 알려주시거나, 먼저 제품 등록을 요청해주세요.", name)
}

func msgLocationNotFoundAsk(code string) string {
	return fmt.Sprintf("죄송합니다. '%s'이라는 로케이션을 찾을 수 없습니다. 정확한 로케이션 코드를 알려주시겠어요?", code)
}

func msgLocationNotFoundAskWithExample(code string) string {
	return fmt.Sprintf("죄송합니다. '%s'이라는 로케이션을 찾을 수 없습니다. 정확한 로케이션 코드를 알려주시겠어요? (예: A-01-01)", code)
}

func msgLocationNotFoundRetype(code string) string {
	return fmt.Sprintf("'%s'이라는 로케이션을 찾을 수 없습니다. 정확한 로케이션 코드를 입력해 주세요. (예: A-01-01)", code)
}

func msgInboundDone(product string, qty int, location string) string {
	return fmt.Sprintf("'%s' %d개를 '%s' 로케이션에 성공적으로 입고 처리했습니다. 재고가 업데이트되었습니다.", product, qty, location)
}

func msgInboundFailed(product string, qty int) string {
	return fmt.Sprintf("'%s' %d개 입고 중 오류가 발생했습니다. 다시 시도해주세요.", product, qty)
}

func msgOutboundFailed(product string, qty int) string {
	return fmt.Sprintf("'%s' %d개 출고 중 오류가 발생했습니다. 다시 시도해주세요.", product, qty)
}

func msgAwaitingLocation(product string, qty int) string {
	return fmt.Sprintf("알겠습니다. '%s' %d개를 입고 처리하겠습니다. 어느 로케이션에 보관하시겠습니까? (예: A-01-01)", product, qty)
}

func msgOutboundDone(product string, qty int, instructions []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "'%s' %d개를 성공적으로 출고 처리했습니다. 재고가 업데이트되었습니다.\n\n피킹 지시사항:\n", product, qty)
	for _, ins := range instructions {
		fmt.Fprintf(&b, "- %s\n", ins)
	}
	return b.String()
}

func msgOutboundPartial(product string, requested, deducted int, instructions []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "'%s' 출고가 일부만 처리되었습니다. 요청 수량 %d개 중 %d개를 출고했습니다. 나머지는 재고 확인 후 다시 요청해주세요.\n\n피킹 지시사항:\n",
		product, requested, deducted)
	for _, ins := range instructions {
		fmt.Fprintf(&b, "- %s\n", ins)
	}
	return b.String()
}

func msgInsufficient(product string, requested, onHand int, summaries []*entity.StockSummary) string {
	detail := "재고 위치를 확인해주세요."
	if len(summaries) > 0 {
		parts := make([]string, 0, len(summaries))
		for _, s := range summaries {
			parts = append(parts, fmt.Sprintf("현재 %s은 총 %d개 있으며, 다음 위치에 있습니다: %s.", s.ProductName, s.TotalQuantity, s.Locations))
		}
		detail = strings.Join(parts, " ")
	}
	return fmt.Sprintf("죄송합니다. '%s'의 재고가 부족합니다. 요청하신 수량은 %d개이며, 현재 재고는 %d개입니다. %s",
		product, requested, onHand, detail)
}

func renderSummaries(header string, summaries []*entity.StockSummary) string {
	lines := []string{header}
	for _, s := range summaries {
		locText := "(위치 미지정)"
		if s.Locations != "" {
			locText = fmt.Sprintf("(%s)", s.Locations)
		}
		lines = append(lines, fmt.Sprintf("- %s: %d개 %s", s.ProductName, s.TotalQuantity, locText))
	}
	return strings.Join(lines, "\n")
}

func renderLocationItems(code string, items []*entity.LocationItem) string {
	if len(items) == 0 {
		return fmt.Sprintf("'%s' 로케이션에는 현재 아무 제품도 보관되어 있지 않습니다.", code)
	}
	lines := []string{fmt.Sprintf("'%s' 로케이션에는 다음 제품들이 있습니다:", code)}
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("- %s: %d개", it.ProductName, it.Quantity))
	}
	return strings.Join(lines, "\n")
}

func historyHeader(kind string, n int) string {
	return fmt.Sprintf("최신 %s 기록 %d건입니다:", kind, n)
}

func renderHistory(header, counterpartyLabel string, rows []*entity.MovementHistoryRow) string {
	lines := []string{header}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("- %s %d개 (%s, %s: %s)",
			r.ProductName, r.Quantity, r.OccurredAt.Format("2006-01-02 15:04"), counterpartyLabel, r.Counterparty))
	}
	return strings.Join(lines, "\n")
}
