package services

import (
	"context"

	"car-advisor/internal/logger"
	"car-advisor/recommend"
)

type RecommendationService struct {
	sessions *SessionRegistry
	gateway  Recommender
}

func NewRecommendationService(sessions *SessionRegistry, gateway Recommender) *RecommendationService {
	return &RecommendationService{sessions: sessions, gateway: gateway}
}

// Current 는 세션의 마지막 결과를 다시 보여준다. 메모리에 없으면 스냅샷 저장소에서 복원한다.
// 복원은 외부 추천 API 를 다시 호출하지 않는다.
func (s *RecommendationService) Current(ctx context.Context, sessionID string) (recommend.View, *ServiceError) {
	sess := s.sessions.Get(sessionID)

	sess.mu.Lock()
	results, fallback := sess.results, sess.fallbackUsed
	sess.mu.Unlock()

	if results != nil {
		if fallback {
			return recommend.PresentFallback(), nil
		}
		return recommend.Present(results), nil
	}

	snap, err := s.gateway.Last(ctx, sessionID)
	if err != nil {
		logger.WarnWithFields("failed to load recommendation snapshot", logger.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return recommend.View{}, errNoRecommendations
	}
	if snap == nil {
		return recommend.View{}, errNoRecommendations
	}

	sess.mu.Lock()
	if sess.results == nil {
		sess.setResults(snap.Results, snap.FallbackUsed)
	}
	sess.mu.Unlock()
	return recommend.Present(snap.Results), nil
}
