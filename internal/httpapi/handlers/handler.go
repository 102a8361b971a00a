package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/insure-assist/insure-assist/internal/catalog"
	"github.com/insure-assist/insure-assist/internal/chat"
	"github.com/insure-assist/insure-assist/internal/config"
	"github.com/insure-assist/insure-assist/internal/httpapi/middleware"
	"github.com/insure-assist/insure-assist/internal/models"
	"github.com/insure-assist/insure-assist/internal/policy"
	"github.com/insure-assist/insure-assist/internal/purchase"
	"github.com/insure-assist/insure-assist/internal/rag"
	"github.com/insure-assist/insure-assist/internal/store/rabbitmq"
	"github.com/insure-assist/insure-assist/internal/store/redisstore"
)

type Handler struct {
	DB        *gorm.DB
	Cfg       config.Config
	Redis     *redisstore.Store
	Events    *rabbitmq.Publisher
	Policies  *policy.Repo
	Catalog   *catalog.Repo
	Purchaser *purchase.Engine
	Retriever *rag.Engine
	ChatSvc   *chat.Service
}

func NewHandler(db *gorm.DB, cfg config.Config, rds *redisstore.Store, events *rabbitmq.Publisher, retriever *rag.Engine, llm chat.Generator) *Handler {
	policies := policy.NewRepo(db)
	catalogRepo := catalog.NewRepo(db)
	purchaser := purchase.NewEngine(policies, catalogRepo, cfg.PolicyNumberMaxAttempts)
	chatSvc := chat.NewService(policies, catalogRepo, purchaser, retriever, llm)

	return &Handler{
		DB:        db,
		Cfg:       cfg,
		Redis:     rds,
		Events:    events,
		Policies:  policies,
		Catalog:   catalogRepo,
		Purchaser: purchaser,
		Retriever: retriever,
		ChatSvc:   chatSvc,
	}
}

func (h *Handler) Ping(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}

func userIDFromContext(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}

// currentUser loads the authenticated user record, or nil for anonymous
// requests on optional-auth routes.
func (h *Handler) currentUser(c *gin.Context) (*models.User, error) {
	uid, ok := userIDFromContext(c)
	if !ok {
		return nil, nil
	}
	var user models.User
	if err := h.DB.First(&user, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
