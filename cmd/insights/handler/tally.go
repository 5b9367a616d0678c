package handler

import (
	"sort"
	"sync"
)

// Summary 는 집계 시점의 카운터 사본이다.
type Summary struct {
	RecommendationsServed int            `json:"recommendations_served"`
	EmptyResults          int            `json:"empty_results"`
	FallbacksByKind       map[string]int `json:"fallbacks_by_kind"`
	AverageTopScore       float64        `json:"average_top_score"`
	TopVehicles           []VehicleCount `json:"top_vehicles"`
	ChatsOpened           int            `json:"chats_opened"`
	ChatsByVehicle        map[string]int `json:"chats_by_vehicle"`
	RepliesByTier         map[string]int `json:"replies_by_tier"`
	DegradedReplies       int            `json:"degraded_replies"`
	GarageAnalyses        int            `json:"garage_analyses"`
	GarageFailures        int            `json:"garage_failures"`
	SeverityLevels        map[string]int `json:"severity_levels"`
}

type VehicleCount struct {
	VehicleID string `json:"vehicle_id"`
	Count     int    `json:"count"`
}

// Tally 는 이벤트 스트림에서 운영 지표를 누적한다. 동시 호출에 안전하다.
type Tally struct {
	mu sync.Mutex

	served, empty   int
	topScoreSum     int
	topScoreSamples int
	fallbacks       map[string]int
	topVehicles     map[string]int
	chatsOpened     int
	opened          map[string]int
	replies         map[string]int
	degraded        int
	garage, garageF int
	severity        map[string]int
	seen            map[string]struct{}
}

func NewTally() *Tally {
	return &Tally{
		fallbacks:   map[string]int{},
		topVehicles: map[string]int{},
		opened:      map[string]int{},
		replies:     map[string]int{},
		severity:    map[string]int{},
		seen:        map[string]struct{}{},
	}
}

// maxSeen 을 넘으면 중복 확인용 ID 집합을 비운다. 재전달은 보통 직후에 일어난다.
const maxSeen = 100_000

// markSeen 은 이미 집계한 이벤트 ID 면 false 를 반환한다. 재전달 중복 방지용.
func (t *Tally) markSeen(id string) bool {
	if id == "" {
		return true
	}
	if _, ok := t.seen[id]; ok {
		return false
	}
	if len(t.seen) >= maxSeen {
		t.seen = map[string]struct{}{}
	}
	t.seen[id] = struct{}{}
	return true
}

// Summary 는 상위 차량을 5개까지 포함한 사본을 반환한다.
func (t *Tally) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Summary{
		RecommendationsServed: t.served,
		EmptyResults:          t.empty,
		FallbacksByKind:       copyCounts(t.fallbacks),
		ChatsOpened:           t.chatsOpened,
		ChatsByVehicle:        copyCounts(t.opened),
		RepliesByTier:         copyCounts(t.replies),
		DegradedReplies:       t.degraded,
		GarageAnalyses:        t.garage,
		GarageFailures:        t.garageF,
		SeverityLevels:        copyCounts(t.severity),
	}
	if t.topScoreSamples > 0 {
		s.AverageTopScore = float64(t.topScoreSum) / float64(t.topScoreSamples)
	}
	for id, n := range t.topVehicles {
		s.TopVehicles = append(s.TopVehicles, VehicleCount{VehicleID: id, Count: n})
	}
	sort.Slice(s.TopVehicles, func(i, j int) bool {
		if s.TopVehicles[i].Count != s.TopVehicles[j].Count {
			return s.TopVehicles[i].Count > s.TopVehicles[j].Count
		}
		return s.TopVehicles[i].VehicleID < s.TopVehicles[j].VehicleID
	})
	if len(s.TopVehicles) > 5 {
		s.TopVehicles = s.TopVehicles[:5]
	}
	return s
}

func copyCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
