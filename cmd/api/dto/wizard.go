package dto

import (
	"car-advisor/recommend"
	"car-advisor/wizard"
)

type WizardStepDTO struct {
	Step        int    `json:"step" example:"1"`
	Title       string `json:"title" example:"Engine Type"`
	Description string `json:"description" example:"Select your preferred engine type"`
	Field       string `json:"field" example:"engine_type"`
	Reachable   bool   `json:"reachable"`
	Current     bool   `json:"current"`
}

// WizardOptionsDTO 는 각 단계에서 고를 수 있는 값 목록이다.
type WizardOptionsDTO struct {
	EngineTypes []wizard.EngineType `json:"engine_types"`
	BodyStyles  []wizard.BodyStyle  `json:"body_styles"`
	Features    []string            `json:"features"`
	SeatCounts  []int               `json:"seat_counts"`
}

type WizardStateDTO struct {
	Step       int                `json:"step" example:"2"`
	TotalSteps int                `json:"total_steps" example:"4"`
	Phase      wizard.Phase       `json:"phase" example:"editing"`
	Selection  wizard.Selection   `json:"selection"`
	FieldError *wizard.FieldError `json:"field_error,omitempty"`
	Steps      []WizardStepDTO    `json:"steps"`
	Options    WizardOptionsDTO   `json:"options"`
}

// SelectionPatchDTO 는 부분 수정이다. nil 필드는 변경하지 않는다.
type SelectionPatchDTO struct {
	EngineType    *string   `json:"engine_type,omitempty" example:"Hybrid"`
	BodyStyle     *string   `json:"body_style,omitempty" example:"SUV"`
	Features      *[]string `json:"features,omitempty"`
	ToggleFeature *string   `json:"toggle_feature,omitempty" example:"sunroof"`
	SeatCount     *int      `json:"seat_count,omitempty" example:"5"`
}

type JumpRequestDTO struct {
	Step int `json:"step" binding:"required" example:"1"`
}

// SubmitResponseDTO 는 제출 결과다. 외부 API 실패 시에도 200 이며 recommendations.fallback_used 가 true 가 된다.
type SubmitResponseDTO struct {
	Wizard          WizardStateDTO `json:"wizard"`
	Recommendations recommend.View `json:"recommendations"`
}
