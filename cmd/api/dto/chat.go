package dto

import "car-advisor/chat"

type OpenChatRequestDTO struct {
	VehicleID string `json:"vehicle_id" form:"vehicle_id" example:"mercedes-benz-c300-sedan"`
}

type SendMessageRequestDTO struct {
	Text string `json:"text" example:"How much does it cost?"`
}

type SendMessageResponseDTO struct {
	Reply   chat.Message `json:"reply"`
	Session chat.Session `json:"session"`
}
