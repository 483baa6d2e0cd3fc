package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/api/middleware"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/domain"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/service"
	"github.com/shopspring/decimal"
)

// ShipmentHandler serves the shipment-scoped bidding endpoints: listing the
// competing bids, bid analytics, and auto-accept configuration.
type ShipmentHandler struct {
	bidSvc       *service.BidService
	shipmentSvc  *service.ShipmentService
	analyticsSvc *service.AnalyticsService
}

// NewShipmentHandler creates a ShipmentHandler.
func NewShipmentHandler(bidSvc *service.BidService, shipmentSvc *service.ShipmentService, analyticsSvc *service.AnalyticsService) *ShipmentHandler {
	return &ShipmentHandler{bidSvc: bidSvc, shipmentSvc: shipmentSvc, analyticsSvc: analyticsSvc}
}

// GetShipmentBids godoc
// GET /api/shipments/:id/bids [JWT]
func (h *ShipmentHandler) GetShipmentBids(c *gin.Context) {
	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_SHIPMENT_ID", "invalid shipment id")
		return
	}

	bids, err := h.bidSvc.GetShipmentBids(c.Request.Context(), shipmentID)
	if err != nil {
		if errors.Is(err, domain.ErrShipmentNotFound) {
			respondError(c, http.StatusNotFound, "ERR_SHIPMENT_NOT_FOUND", err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "could not fetch bids")
		return
	}
	responses := make([]domain.BidResponse, 0, len(bids))
	for _, b := range bids {
		responses = append(responses, b.ToResponse())
	}
	respondSuccess(c, http.StatusOK, responses)
}

// GetBidAnalytics godoc
// GET /api/shipments/:id/analytics [public]
func (h *ShipmentHandler) GetBidAnalytics(c *gin.Context) {
	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_SHIPMENT_ID", "invalid shipment id")
		return
	}

	analytics, err := h.analyticsSvc.GetBidAnalytics(c.Request.Context(), shipmentID)
	if err != nil {
		if errors.Is(err, domain.ErrShipmentNotFound) {
			respondError(c, http.StatusNotFound, "ERR_SHIPMENT_NOT_FOUND", err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "could not compute analytics")
		return
	}
	respondSuccess(c, http.StatusOK, analytics)
}

// ConfigureAutoAccept godoc
// PUT /api/shipments/:id/auto-accept [JWT, shipper]
// Body: {"enabled":true,"price_threshold":"50000","min_rating":4.5,"max_delivery_days":5}
func (h *ShipmentHandler) ConfigureAutoAccept(c *gin.Context) {
	userID := middleware.GetUserID(c)

	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_SHIPMENT_ID", "invalid shipment id")
		return
	}

	var body struct {
		Enabled         bool     `json:"enabled"`
		PriceThreshold  *string  `json:"price_threshold"`
		MinRating       *float64 `json:"min_rating"`
		MaxDeliveryDays *int     `json:"max_delivery_days"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}

	var threshold *decimal.Decimal
	if body.PriceThreshold != nil {
		t, err := decimal.NewFromString(*body.PriceThreshold)
		if err != nil {
			respondError(c, http.StatusBadRequest, "ERR_INVALID_AMOUNT", "price_threshold must be a whole-number string")
			return
		}
		threshold = &t
	}

	rules := domain.AutoAcceptRules{
		Enabled:         body.Enabled,
		PriceThreshold:  threshold,
		MinRating:       body.MinRating,
		MaxDeliveryDays: body.MaxDeliveryDays,
	}

	shipment, err := h.shipmentSvc.ConfigureAutoAccept(c.Request.Context(), shipmentID, userID, rules)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrShipmentNotFound):
			respondError(c, http.StatusNotFound, "ERR_SHIPMENT_NOT_FOUND", err.Error())
		case errors.Is(err, domain.ErrForbidden):
			respondError(c, http.StatusForbidden, "ERR_FORBIDDEN", "this shipment does not belong to you")
		case errors.Is(err, domain.ErrInvalidAutoAcceptRules):
			respondError(c, http.StatusBadRequest, "ERR_INVALID_RULES", err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "could not update auto-accept rules")
		}
		return
	}
	respondSuccess(c, http.StatusOK, shipment)
}
