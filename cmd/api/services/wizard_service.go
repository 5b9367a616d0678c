package services

import (
	"context"
	"errors"

	"car-advisor/cmd/api/dto"
	"car-advisor/internal/logger"
	"car-advisor/events"
	"car-advisor/recommend"
	"car-advisor/wizard"
)

// Recommender 는 추천 게이트웨이다. *recommend.Gateway 가 구현한다.
type Recommender interface {
	Recommend(ctx context.Context, sessionKey string, sel wizard.Selection) ([]recommend.Result, error)
	Last(ctx context.Context, sessionKey string) (*recommend.Snapshot, error)
}

type WizardService struct {
	sessions  *SessionRegistry
	gateway   Recommender
	publisher *events.Publisher
}

func NewWizardService(sessions *SessionRegistry, gateway Recommender, publisher *events.Publisher) *WizardService {
	return &WizardService{sessions: sessions, gateway: gateway, publisher: publisher}
}

func (s *WizardService) State(sessionID string) dto.WizardStateDTO {
	sess := s.sessions.Get(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return wizardState(sess.wizard)
}

// Prefill 은 아직 아무것도 고르지 않은 위저드에 저장된 선호 조건을 채운다.
func (s *WizardService) Prefill(sessionID string, sel wizard.Selection) {
	sess := s.sessions.Get(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !isEmptySelection(sess.wizard.Selection()) {
		return
	}
	_ = sess.wizard.Edit(func(cur *wizard.Selection) {
		cur.SetEngineType(string(sel.EngineType))
		cur.SetBodyStyle(string(sel.BodyStyle))
		cur.SetFeatures(sel.Features)
		cur.SetSeatCount(sel.SeatCount)
	})
}

func (s *WizardService) UpdateSelection(sessionID string, patch dto.SelectionPatchDTO) (dto.WizardStateDTO, *ServiceError) {
	return s.mutate(sessionID, func(c *wizard.Controller) error {
		return c.Edit(func(sel *wizard.Selection) {
			if patch.EngineType != nil {
				sel.SetEngineType(*patch.EngineType)
			}
			if patch.BodyStyle != nil {
				sel.SetBodyStyle(*patch.BodyStyle)
			}
			if patch.Features != nil {
				sel.SetFeatures(*patch.Features)
			}
			if patch.ToggleFeature != nil {
				sel.ToggleFeature(*patch.ToggleFeature)
			}
			if patch.SeatCount != nil {
				sel.SetSeatCount(*patch.SeatCount)
			}
		})
	})
}

func (s *WizardService) Advance(sessionID string) (dto.WizardStateDTO, *ServiceError) {
	return s.mutate(sessionID, func(c *wizard.Controller) error { return c.Advance() })
}

func (s *WizardService) Retreat(sessionID string) dto.WizardStateDTO {
	st, _ := s.mutate(sessionID, func(c *wizard.Controller) error {
		c.Retreat()
		return nil
	})
	return st
}

// JumpTo 는 이미 지나온 단계로만 이동한다. 앞 단계로의 점프는 무시되고 현재 상태를 그대로 반환한다.
func (s *WizardService) JumpTo(sessionID string, step int) (dto.WizardStateDTO, *ServiceError) {
	if !wizard.Step(step).Valid() {
		return s.State(sessionID), errUnknownStep
	}
	return s.mutate(sessionID, func(c *wizard.Controller) error {
		c.JumpTo(wizard.Step(step))
		return nil
	})
}

func (s *WizardService) Reset(sessionID string) dto.WizardStateDTO {
	sess := s.sessions.Get(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.wizard.Reset()
	sess.setResults(nil, false)
	return wizardState(sess.wizard)
}

// Submit 은 전체 선택을 검증하고 추천 API 를 정확히 한 번 호출한다.
// 외부 호출이 실패하면 기본 목록으로 대체하므로 에러는 검증/상태 문제에서만 반환된다.
// 호출 도중 사용자가 다른 단계로 이동했다면 결과를 버리고 submission_abandoned 를 반환한다.
func (s *WizardService) Submit(ctx context.Context, sessionID string) (dto.SubmitResponseDTO, wizard.Selection, *ServiceError) {
	sess := s.sessions.Get(sessionID)

	sess.mu.Lock()
	ticket, sel, err := sess.wizard.BeginSubmit()
	if err != nil {
		st := wizardState(sess.wizard)
		sess.mu.Unlock()
		return dto.SubmitResponseDTO{Wizard: st}, wizard.Selection{}, normalizeError(err)
	}
	sess.mu.Unlock()

	results, recErr := s.gateway.Recommend(ctx, sessionID, sel)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.wizard.Resolve(ticket); err != nil {
		logger.InfoWithFields("discarding recommendations for abandoned submission", logger.Fields{"session_id": sessionID})
		return dto.SubmitResponseDTO{Wizard: wizardState(sess.wizard)}, sel, normalizeError(err)
	}

	var view recommend.View
	if recErr != nil {
		view = recommend.PresentFallback()
		sess.setResults(recommend.Fallback(), true)
		s.publisher.Emit(sessionID, events.RecommendationFallback, fallbackEvent(recErr))
	} else {
		view = recommend.Present(results)
		sess.setResults(results, false)
		s.publisher.Emit(sessionID, events.RecommendationServed, servedEvent(sel, view))
	}
	return dto.SubmitResponseDTO{Wizard: wizardState(sess.wizard), Recommendations: view}, sel, nil
}

func (s *WizardService) mutate(sessionID string, fn func(*wizard.Controller) error) (dto.WizardStateDTO, *ServiceError) {
	sess := s.sessions.Get(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	err := fn(sess.wizard)
	return wizardState(sess.wizard), normalizeError(err)
}

func wizardState(c *wizard.Controller) dto.WizardStateDTO {
	st := c.State()
	steps := make([]dto.WizardStepDTO, 0, len(wizard.Steps))
	for _, step := range wizard.Steps {
		steps = append(steps, dto.WizardStepDTO{
			Step:        int(step),
			Title:       step.Title(),
			Description: step.Description(),
			Field:       string(step.Field()),
			Reachable:   step <= st.Step,
			Current:     step == st.Step,
		})
	}
	return dto.WizardStateDTO{
		Step:       int(st.Step),
		TotalSteps: len(wizard.Steps),
		Phase:      st.Phase,
		Selection:  st.Selection,
		FieldError: st.LastError,
		Steps:      steps,
		Options: dto.WizardOptionsDTO{
			EngineTypes: wizard.EngineTypes,
			BodyStyles:  wizard.BodyStyles,
			Features:    wizard.FeatureCatalog,
			SeatCounts:  wizard.SeatOptions,
		},
	}
}

func isEmptySelection(sel wizard.Selection) bool {
	return sel.EngineType == "" && sel.BodyStyle == "" && len(sel.Features) == 0 && sel.SeatCount == 0
}

func servedEvent(sel wizard.Selection, view recommend.View) *events.RecommendationServedEvent {
	ev := &events.RecommendationServedEvent{
		EngineType:  string(sel.EngineType),
		BodyStyle:   string(sel.BodyStyle),
		SeatCount:   sel.SeatCount,
		Features:    sel.Features,
		ResultCount: len(view.Cards),
	}
	if len(view.Cards) > 0 {
		ev.TopVehicleID = view.Cards[0].ID
		ev.TopScore = view.Cards[0].MatchScore
	}
	return ev
}

func fallbackEvent(err error) *events.RecommendationFallbackEvent {
	ev := &events.RecommendationFallbackEvent{Reason: err.Error()}
	var rerr *recommend.Error
	if errors.As(err, &rerr) {
		ev.Kind = string(rerr.Kind)
		ev.StatusCode = rerr.StatusCode
	}
	return ev
}
