package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lastcall/sms-backend/internal/services"
)

// CouponHandler handles coupon redemption HTTP requests
type CouponHandler struct {
	couponService *services.CouponService
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(couponService *services.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

// RedeemCouponRequest carries the code shown at the bar
type RedeemCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// RedeemCoupon handles POST /accounts/:accountId/coupons/redeem
func (h *CouponHandler) RedeemCoupon(c *gin.Context) {
	accountID, err := primitive.ObjectIDFromHex(c.Param("accountId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID format"})
		return
	}

	var request RedeemCouponRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	coupon, err := h.couponService.Redeem(c.Request.Context(), accountID, request.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, coupon)
}
