package events

import (
	"time"
)

// EventType 이벤트 타입 정의
type EventType string

const (
	RecommendationServed   EventType = "recommendation.served"
	RecommendationFallback EventType = "recommendation.fallback_used"
	ChatOpened             EventType = "chat.opened"
	ChatReplyServed        EventType = "chat.reply_served"
	GarageAnalyzed         EventType = "garage.analyzed"
)

const (
	Source  = "car-advisor-api"
	Version = "1"
)

// BaseEvent 모든 이벤트의 기본 구조
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
	SessionID string    `json:"session_id"`
}

// RecommendationServedEvent 추천 결과가 정상적으로 제공되었을 때
type RecommendationServedEvent struct {
	BaseEvent
	EngineType   string   `json:"engine_type"`
	BodyStyle    string   `json:"body_style"`
	SeatCount    int      `json:"seat_count"`
	Features     []string `json:"features"`
	ResultCount  int      `json:"result_count"`
	TopVehicleID string   `json:"top_vehicle_id,omitempty"`
	TopScore     int      `json:"top_score,omitempty"`
}

// RecommendationFallbackEvent 외부 추천 API 실패로 기본 목록을 제공했을 때
type RecommendationFallbackEvent struct {
	BaseEvent
	Kind       string `json:"kind"`
	StatusCode int    `json:"status_code,omitempty"`
	Reason     string `json:"reason"`
}

// ChatOpenedEvent 결과 카드에서 채팅을 시작했을 때
type ChatOpenedEvent struct {
	BaseEvent
	VehicleID   string `json:"vehicle_id"`
	VehicleName string `json:"vehicle_name"`
}

// ChatReplyServedEvent 어시스턴트 응답 한 건. Degraded 는 상위 티어 실패 후의 응답
type ChatReplyServedEvent struct {
	BaseEvent
	VehicleID string `json:"vehicle_id"`
	Tier      string `json:"tier"`
	Degraded  bool   `json:"degraded"`
}

// GarageAnalyzedEvent 사고 분석 요청 한 건
type GarageAnalyzedEvent struct {
	BaseEvent
	Mode          string `json:"mode"`
	Success       bool   `json:"success"`
	SeverityLevel string `json:"severity_level,omitempty"`
	GarageCount   int    `json:"garage_count"`
}

// Typed 는 모든 이벤트가 BaseEvent 임베딩으로 만족한다.
type Typed interface {
	Base() *BaseEvent
}

func (e *BaseEvent) Base() *BaseEvent { return e }
