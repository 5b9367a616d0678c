package router

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"car-advisor/cmd/api/handlers"
	"car-advisor/cmd/api/middleware"
	"car-advisor/cmd/api/services"
	_ "car-advisor/docs"
)

// Services 는 라우트가 사용하는 서비스 묶음이다.
type Services struct {
	Wizard          *services.WizardService
	Recommendations *services.RecommendationService
	Chat            *services.ChatService
	Garage          *services.GarageService
}

type Options struct {
	SecureCookies bool
	SlowRequest   time.Duration
}

func New(svc Services, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestTrace(), middleware.SlowRequestLogger(opts.SlowRequest))

	r.GET("/health", handlers.HealthHandler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1", middleware.Session(opts.SecureCookies))
	{
		wz := api.Group("/wizard")
		wz.GET("", handlers.GetWizardHandler(svc.Wizard))
		wz.PATCH("/selection", handlers.UpdateSelectionHandler(svc.Wizard))
		wz.POST("/advance", handlers.AdvanceWizardHandler(svc.Wizard))
		wz.POST("/retreat", handlers.RetreatWizardHandler(svc.Wizard))
		wz.POST("/jump", handlers.JumpWizardHandler(svc.Wizard))
		wz.POST("/reset", handlers.ResetWizardHandler(svc.Wizard))
		wz.POST("/submit", handlers.SubmitWizardHandler(svc.Wizard))

		api.GET("/recommendations", handlers.GetRecommendationsHandler(svc.Recommendations))

		ch := api.Group("/chat")
		ch.GET("", handlers.GetChatHandler(svc.Chat))
		ch.DELETE("", handlers.CloseChatHandler(svc.Chat))
		ch.POST("/open", handlers.OpenChatHandler(svc.Chat))
		ch.POST("/messages", handlers.SendChatMessageHandler(svc.Chat))

		gr := api.Group("/garage")
		gr.POST("/query", handlers.AnalyzeAccidentQueryHandler(svc.Garage))
		gr.POST("/image", handlers.AnalyzeAccidentImageHandler(svc.Garage))
	}

	return r
}
