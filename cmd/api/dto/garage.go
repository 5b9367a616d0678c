package dto

type GarageQueryRequestDTO struct {
	Query string `json:"query" form:"query" example:"Someone reversed into my front bumper"`
}
