package services

import (
	"context"
	"errors"

	"car-advisor/chat"
	"car-advisor/cmd/api/dto"
	"car-advisor/events"
	"car-advisor/recommend"
)

type ChatService struct {
	sessions  *SessionRegistry
	publisher *events.Publisher
}

func NewChatService(sessions *SessionRegistry, publisher *events.Publisher) *ChatService {
	return &ChatService{sessions: sessions, publisher: publisher}
}

// VehicleFromResult 는 추천 카드에서 채팅에 필요한 필드만 옮긴다.
func VehicleFromResult(r recommend.Result) chat.Vehicle {
	return chat.Vehicle{
		ID:           r.ID,
		Name:         r.VehicleName,
		PriceDisplay: r.PriceDisplay,
		EngineType:   r.EngineType,
		BodyStyle:    r.BodyStyle,
		SeatCount:    r.SeatCount,
		Features:     append([]string(nil), r.Features...),
	}
}

// Open 은 결과 카드의 차량으로 채팅을 시작한다. 기존 대화는 버려진다.
func (s *ChatService) Open(ctx context.Context, sessionID, vehicleID string) (chat.Session, *ServiceError) {
	sess := s.sessions.Get(sessionID)
	result, ok := sess.findVehicle(vehicleID)
	if !ok {
		return chat.Session{}, errVehicleNotFound
	}
	vehicle := VehicleFromResult(result)

	out, err := sess.Chat.Open(ctx, vehicle)
	if err != nil {
		return out, normalizeError(err)
	}
	s.publisher.Emit(sessionID, events.ChatOpened, &events.ChatOpenedEvent{VehicleID: vehicle.ID, VehicleName: vehicle.Name})
	return out, nil
}

// Send 는 사용자 메시지를 추가하고 어시스턴트 응답 한 건을 기다린다.
// 모든 응답 티어가 실패해도 사과 메시지가 대화에 남으므로 200 으로 응답한다.
func (s *ChatService) Send(ctx context.Context, sessionID, text string) (dto.SendMessageResponseDTO, *ServiceError) {
	sess := s.sessions.Get(sessionID)
	vehicleID := ""
	if v := sess.Chat.Snapshot().Vehicle; v != nil {
		vehicleID = v.ID
	}

	msg, err := sess.Chat.Send(ctx, text)
	if err != nil && !errors.Is(err, chat.ErrNoResponder) {
		return dto.SendMessageResponseDTO{Session: sess.Chat.Snapshot()}, normalizeError(err)
	}

	tier := msg.Tier
	if err != nil {
		tier = "none"
	}
	s.publisher.Emit(sessionID, events.ChatReplyServed, &events.ChatReplyServedEvent{
		VehicleID: vehicleID,
		Tier:      tier,
		Degraded:  err != nil || msg.Notice != "",
	})
	return dto.SendMessageResponseDTO{Reply: msg, Session: sess.Chat.Snapshot()}, nil
}

func (s *ChatService) Get(sessionID string) chat.Session {
	return s.sessions.Get(sessionID).Chat.Snapshot()
}

func (s *ChatService) Close(sessionID string) chat.Session {
	sess := s.sessions.Get(sessionID)
	sess.Chat.Close()
	return sess.Chat.Snapshot()
}
