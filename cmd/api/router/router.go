package router

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/SaisandeepKv/vernon-clinic-sub000/booking"
	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/handlers"
	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/metrics"
	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/middleware"
	"github.com/SaisandeepKv/vernon-clinic-sub000/cmd/api/services"
	_ "github.com/SaisandeepKv/vernon-clinic-sub000/docs"
)

type Deps struct {
	Chat     *services.ChatService
	Leads    *services.LeadService
	Analysis *services.AnalysisService
	Metrics  *metrics.Metrics

	RateLimit      middleware.RateLimitConfig
	RecordsBackend string
	ModelProvider  string
	// PingRecords 는 /health 에서 records 저장소 상태를 확인한다. nil 이면 생략.
	PingRecords func(context.Context) error
}

var registerOnce sync.Once

// registerValidations 는 폼 DTO 의 binding 태그가 쓰는 name/phone/location 을
// gin 의 전역 validator 에 한 번만 등록한다.
func registerValidations() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if err := booking.RegisterValidations(v); err != nil {
			panic(err)
		}
	})
}

func New(d Deps) *gin.Engine {
	registerValidations()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestTrace(), middleware.Metrics(d.Metrics))

	r.GET("/health", handlers.HealthHandler(d.RecordsBackend, d.ModelProvider, d.PingRecords))
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		// 모델을 호출하는 엔드포인트만 IP 별로 제한한다.
		limited := api.Group("", middleware.RateLimit(d.RateLimit, d.Metrics))
		limited.POST("/chat", handlers.ChatHandler(d.Chat))
		limited.POST("/analyze-skin", handlers.AnalyzeSkinHandler(d.Analysis))

		api.POST("/booking", handlers.BookingHandler(d.Leads))
		api.POST("/callback", handlers.CallbackHandler(d.Leads))
	}

	return r
}
