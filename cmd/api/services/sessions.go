package services

import (
	"sync"
	"time"

	"car-advisor/chat"
	"car-advisor/recommend"
	"car-advisor/wizard"
)

// BrowsingSession 은 쿠키 하나에 대응하는 위저드/결과/채팅 상태다.
// wizard 와 results 는 mu 로 보호하며, Simulator 는 자체 락을 가진다.
// mu 를 잡은 채로 외부 API 를 호출하지 않는다.
type BrowsingSession struct {
	ID   string
	Chat *chat.Simulator

	mu           sync.Mutex
	wizard       *wizard.Controller
	results      []recommend.Result
	fallbackUsed bool
	lastSeen     time.Time
}

// SessionRegistry 는 메모리에 브라우징 세션을 보관한다. idleTTL 동안 접근이 없으면 정리된다.
type SessionRegistry struct {
	newSimulator func() *chat.Simulator
	idleTTL      time.Duration
	now          func() time.Time

	mu        sync.Mutex
	sessions  map[string]*BrowsingSession
	lastSweep time.Time
}

func NewSessionRegistry(newSimulator func() *chat.Simulator, idleTTL time.Duration) *SessionRegistry {
	return &SessionRegistry{
		newSimulator: newSimulator,
		idleTTL:      idleTTL,
		now:          time.Now,
		sessions:     map[string]*BrowsingSession{},
	}
}

// Get 은 세션을 반환하며 없으면 새로 만든다.
func (r *SessionRegistry) Get(id string) *BrowsingSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)

	s, ok := r.sessions[id]
	if !ok {
		s = &BrowsingSession{
			ID:     id,
			Chat:   r.newSimulator(),
			wizard: wizard.NewController(),
		}
		r.sessions[id] = s
	}
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
	return s
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// sweepLocked 는 최대 1분에 한 번 만료된 세션을 제거한다.
func (r *SessionRegistry) sweepLocked(now time.Time) {
	if r.idleTTL <= 0 || now.Sub(r.lastSweep) < time.Minute {
		return
	}
	r.lastSweep = now
	for id, s := range r.sessions {
		s.mu.Lock()
		idle := now.Sub(s.lastSeen)
		s.mu.Unlock()
		if idle > r.idleTTL {
			s.Chat.Close()
			delete(r.sessions, id)
		}
	}
}

func (s *BrowsingSession) setResults(results []recommend.Result, fallback bool) {
	s.results = results
	s.fallbackUsed = fallback
}

// findVehicle 는 현재 세션 결과에서 차량을 찾는다. 결과가 없으면 기본 목록에서 찾는다.
func (s *BrowsingSession) findVehicle(id string) (recommend.Result, bool) {
	s.mu.Lock()
	results := s.results
	s.mu.Unlock()
	if r, ok := recommend.Find(results, id); ok {
		return r, true
	}
	return recommend.Find(recommend.Fallback(), id)
}
