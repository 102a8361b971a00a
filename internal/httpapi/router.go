package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/insure-assist/insure-assist/internal/chat"
	"github.com/insure-assist/insure-assist/internal/common"
	"github.com/insure-assist/insure-assist/internal/config"
	"github.com/insure-assist/insure-assist/internal/httpapi/handlers"
	"github.com/insure-assist/insure-assist/internal/httpapi/middleware"
	"github.com/insure-assist/insure-assist/internal/rag"
	"github.com/insure-assist/insure-assist/internal/store/rabbitmq"
	"github.com/insure-assist/insure-assist/internal/store/redisstore"
)

func NewRouter(db *gorm.DB, cfg config.Config, rds *redisstore.Store, events *rabbitmq.Publisher, retriever *rag.Engine, llm chat.Generator) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	h := handlers.NewHandler(db, cfg, rds, events, retriever, llm)

	r.GET("/health", h.Ping)

	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)

	r.GET("/products", h.ListProducts)

	// optional auth: anonymous plan browsing, owner-only policy data
	optional := r.Group("/")
	optional.Use(middleware.AuthOptional(cfg.JWTSecret))
	optional.POST("/chat", h.Chat)
	optional.GET("/policy/:policy_number", h.GetPolicy)

	authed := r.Group("/")
	authed.Use(middleware.AuthRequired(cfg.JWTSecret))
	authed.POST("/logout", h.Logout)
	authed.GET("/profile", h.GetProfile)
	authed.PUT("/profile", h.UpdateProfile)
	authed.POST("/change-password", h.ChangePassword)
	authed.POST("/buy-policy", h.BuyPolicy)
	authed.POST("/upload-data", h.UploadData)

	return r
}
