package dto

// ErrorResponseDTO는 공통 에러 응답 형식을 통일하기 위한 DTO이다.
// success 는 항상 false 이며, 필드 검증 실패일 때만 field/message 가 채워진다.
type ErrorResponseDTO struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"invalid_selection"`
	Field   string `json:"field,omitempty" example:"engine_type"`
	Message string `json:"message,omitempty" example:"Please select an engine type"`
}

// MessageResponseDTO는 단순 메시지 응답 형식을 통일하기 위한 DTO이다.
type MessageResponseDTO struct {
	Message string `json:"message" example:"ok"`
}
