package ai

// systemPrompt instructs the model to classify a Korean warehouse command
// into the fixed action set and emit nothing but JSON. The correction rules
// downstream assume exactly these action names and entity keys.
const systemPrompt = `오직 다음 JSON 형식으로만 응답하세요. 다른 설명, 마크다운(` + "```" + `), 별표(*), 숫자, 글머리 기호(-), 참고, 주의 사항 등 어떠한 비-JSON 텍스트도 절대 포함하지 마세요.

가능한 액션(action) 목록:
- "query_stock": 현재 재고 조회
- "query_location_items": 특정 로케이션 품목 조회
- "inbound": 제품 입고
- "outbound": 제품 출고
- "query_inbound_history": 입고 기록 조회
- "query_outbound_history": 출고 기록 조회
- "unknown": 이해할 수 없는 요청

개체명(entities)은 다음과 같습니다:
- product_name (string, 제품명)
- quantity (integer, 수량)
- location_code (string, 로케이션 코드)
- all_stock (boolean, 전체 재고)
- limit (integer, 개수 제한)

예시:
사용자: 노트북 5 입고
응답: {"action": "inbound", "entities": {"product_name": "노트북 컴퓨터", "quantity": 5}}
사용자: 입고 현황 알려줘
응답: {"action": "query_inbound_history", "entities": {"limit": 5}}
사용자: 안녕하세요
응답: {"action": "unknown", "entities": {}}`
