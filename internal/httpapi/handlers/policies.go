package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/insure-assist/insure-assist/internal/common"
	"github.com/insure-assist/insure-assist/internal/policy"
	"github.com/insure-assist/insure-assist/internal/purchase"
	"github.com/insure-assist/insure-assist/internal/store/rabbitmq"
)

func (h *Handler) ListProducts(c *gin.Context) {
	views, err := h.Catalog.ListCatalog(c.Request.Context())
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	common.OK(c, gin.H{"products": views})
}

type buyPolicyReq struct {
	ProductCode string   `json:"product_code" binding:"required,min=3,max=64"`
	AddonCodes  []string `json:"addon_codes"`
}

func (h *Handler) BuyPolicy(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "authentication required")
		return
	}

	var req buyPolicyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid purchase payload")
		return
	}

	purchased, err := h.Purchaser.Buy(c.Request.Context(), uid, req.ProductCode, req.AddonCodes)
	if err != nil {
		var invalidAddons *purchase.InvalidAddonError
		switch {
		case errors.Is(err, purchase.ErrInvalidProduct), errors.As(err, &invalidAddons):
			common.Fail(c, http.StatusBadRequest, 10030, err.Error())
		case errors.Is(err, purchase.ErrNumberExhausted):
			common.Fail(c, http.StatusInternalServerError, 50030, "could not allocate a policy number")
		default:
			common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		}
		return
	}

	h.publishPurchased(c, purchased, req.ProductCode)

	common.OK(c, gin.H{
		"message": "policy purchased successfully",
		"policy":  purchased,
	})
}

// publishPurchased emits a purchase event. Best effort: a broker outage
// never fails the purchase that already committed.
func (h *Handler) publishPurchased(c *gin.Context, purchased policy.SerializedPolicy, productCode string) {
	if h.Events == nil {
		return
	}
	event := rabbitmq.PolicyPurchasedEvent{
		EventID:       uuid.NewString(),
		PolicyNumber:  purchased.PolicyNumber,
		UserID:        purchased.UserID,
		ProductCode:   productCode,
		InsuranceType: purchased.InsuranceType,
		Premium:       purchased.Premium,
		PurchasedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.Events.PublishPolicyPurchased(c.Request.Context(), event); err != nil {
		log.Printf("purchase: publishing event for %s failed: %v", purchased.PolicyNumber, err)
	}
}

// GetPolicy looks up one policy. Authentication is optional, but an
// authenticated caller may only read their own policy.
func (h *Handler) GetPolicy(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}

	found, err := h.Policies.FindByNumber(c.Request.Context(), c.Param("policy_number"))
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	if found == nil {
		common.Fail(c, http.StatusNotFound, 40410, "policy not found")
		return
	}
	if user != nil && found.UserID != user.ID {
		common.Fail(c, http.StatusForbidden, 40310, "policy does not belong to this user")
		return
	}

	common.OK(c, policy.Serialize(found))
}
