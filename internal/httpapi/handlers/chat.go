package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/insure-assist/insure-assist/internal/common"
)

type chatReq struct {
	Message      string `json:"message" binding:"required"`
	PolicyNumber string `json:"policy_number"`
}

// Chat runs one conversational turn. Authentication is optional: anonymous
// callers can browse plans and ask general questions.
func (h *Handler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid chat payload")
		return
	}

	user, err := h.currentUser(c)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}

	result, err := h.ChatSvc.Respond(c.Request.Context(), req.Message, user, req.PolicyNumber)
	if err != nil {
		log.Printf("chat: respond failed: %v", err)
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to process chat turn")
		return
	}

	if user != nil && h.Redis != nil {
		entry := fmt.Sprintf("user: %s\nassistant: %s", req.Message, result.Response)
		if err := h.Redis.AppendChatTurn(c.Request.Context(), user.ID, entry); err != nil {
			log.Printf("chat: caching history failed: %v", err)
		}
	}

	common.OK(c, result)
}
