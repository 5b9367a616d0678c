package services

import (
	"context"

	"car-advisor/internal/logger"
	"car-advisor/events"
	"car-advisor/garage"
)

type GarageService struct {
	analysis  *garage.Service
	publisher *events.Publisher
}

func NewGarageService(analyzer garage.Analyzer, publisher *events.Publisher) *GarageService {
	return &GarageService{analysis: garage.NewService(analyzer), publisher: publisher}
}

// AnalyzeQuery 는 사고 설명 텍스트를 분석한다. 실패도 결과 본문으로 전달된다.
func (s *GarageService) AnalyzeQuery(ctx context.Context, sessionID, query string) garage.Analysis {
	out := s.analysis.AnalyzeQuery(ctx, query)
	s.record(sessionID, "query", out)
	return out
}

func (s *GarageService) AnalyzeImage(ctx context.Context, sessionID string, img garage.Image) garage.Analysis {
	out := s.analysis.AnalyzeImage(ctx, img)
	s.record(sessionID, "image", out)
	return out
}

func (s *GarageService) record(sessionID, mode string, out garage.Analysis) {
	if !out.Success {
		logger.WarnWithFields("accident analysis failed", logger.Fields{
			"session_id": sessionID,
			"mode":       mode,
			"error":      out.Error,
		})
	}
	s.publisher.Emit(sessionID, events.GarageAnalyzed, &events.GarageAnalyzedEvent{
		Mode:          mode,
		Success:       out.Success,
		SeverityLevel: string(out.SeverityLevel),
		GarageCount:   len(out.RecommendedGarages),
	})
}
