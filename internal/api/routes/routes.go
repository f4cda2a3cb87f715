package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/skillsync/internal/api/handlers"
	"github.com/yoockh/skillsync/internal/api/middleware"
	"github.com/yoockh/skillsync/internal/api/response"
)

type Deps struct {
	Interview *handlers.InterviewHandler
	WS        *handlers.WSHandler

	JWT            middleware.JWTConfig
	CreateLimiter  *middleware.RateLimiter // optional
	Logger         *logrus.Logger
	AllowedOrigins []string
}

// NewRouter builds the engine with the global middleware stack and all
// routes registered.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(cors.New(corsConfig(d.AllowedOrigins)))

	RegisterRoutes(r, d)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	health := func(c *gin.Context) {
		response.OK(c, http.StatusOK, gin.H{"message": "SkillSync interview API is running"})
	}
	r.GET("/", health)
	r.GET("/ping", func(c *gin.Context) {
		response.OK(c, http.StatusOK, gin.H{"message": "pong"})
	})

	api := r.Group("/api/interview")
	api.Use(middleware.JWTAuth(d.JWT))

	create := []gin.HandlerFunc{d.Interview.Create}
	if d.CreateLimiter != nil {
		create = append([]gin.HandlerFunc{d.CreateLimiter.Middleware()}, create...)
	}
	api.POST("/session", create...)
	api.GET("/session/:id", d.Interview.Get)
	api.PUT("/session/:id/start", d.Interview.Start)
	api.PUT("/session/:id/answer/:questionId", d.Interview.SubmitAnswer)
	if d.Interview.SpeechEnabled() {
		api.POST("/session/:id/answer/:questionId/audio", d.Interview.SubmitAudioAnswer)
	}
	api.PUT("/session/:id/complete", d.Interview.Complete)
	api.PUT("/session/:id/abandon", d.Interview.Abandon)

	api.GET("/history", d.Interview.History)
	api.GET("/analytics", d.Interview.Analytics)

	if d.WS != nil {
		api.GET("/ws/session/:id", d.WS.SessionEvents)
	}
}
