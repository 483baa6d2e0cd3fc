package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/api/middleware"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/domain"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/service"
	"github.com/shopspring/decimal"
)

// BidHandler serves bid submission, transition, and carrier query endpoints.
type BidHandler struct {
	bidSvc        *service.BidService
	transitionSvc *service.TransitionService
}

// NewBidHandler creates a BidHandler.
func NewBidHandler(bidSvc *service.BidService, transitionSvc *service.TransitionService) *BidHandler {
	return &BidHandler{bidSvc: bidSvc, transitionSvc: transitionSvc}
}

// SubmitBid godoc
// POST /api/shipments/:id/bids [JWT, transporter]
// Body: {"bid_amount":"45000","bid_breakdown":{...},"estimated_delivery_date":"2026-09-03T00:00:00Z","bid_message":"..."}
func (h *BidHandler) SubmitBid(c *gin.Context) {
	userID := middleware.GetUserID(c)

	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_SHIPMENT_ID", "invalid shipment id")
		return
	}

	var body struct {
		BidAmount             string              `json:"bid_amount" binding:"required"`
		Breakdown             domain.BidBreakdown `json:"bid_breakdown"`
		EstimatedDeliveryDate *time.Time          `json:"estimated_delivery_date"`
		BidMessage            string              `json:"bid_message"`
		AutoBidEnabled        bool                `json:"auto_bid_enabled"`
		MaxAutoBidAmount      *string             `json:"max_auto_bid_amount"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}

	amount, err := decimal.NewFromString(body.BidAmount)
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_AMOUNT", "bid_amount must be a whole-number string")
		return
	}
	var maxAutoBid *decimal.Decimal
	if body.MaxAutoBidAmount != nil {
		m, err := decimal.NewFromString(*body.MaxAutoBidAmount)
		if err != nil {
			respondError(c, http.StatusBadRequest, "ERR_INVALID_AMOUNT", "max_auto_bid_amount must be a whole-number string")
			return
		}
		maxAutoBid = &m
	}

	req := domain.SubmitBidRequest{
		ShipmentID:            shipmentID,
		TransporterUserID:     userID,
		Amount:                amount,
		Breakdown:             body.Breakdown,
		EstimatedDeliveryDate: body.EstimatedDeliveryDate,
		Message:               body.BidMessage,
		AutoBidEnabled:        body.AutoBidEnabled,
		MaxAutoBidAmount:      maxAutoBid,
	}

	bid, err := h.bidSvc.SubmitBid(c.Request.Context(), req)
	if err != nil {
		var tooHigh *domain.BidTooHighError
		switch {
		case errors.As(err, &tooHigh):
			respondErrorWithDetails(c, http.StatusUnprocessableEntity, "ERR_BID_TOO_HIGH", tooHigh.Error(), gin.H{
				"current_lowest":   tooHigh.CurrentLowest,
				"required_ceiling": tooHigh.RequiredCeiling,
			})
		case errors.Is(err, domain.ErrInvalidBidAmount):
			respondError(c, http.StatusBadRequest, "ERR_INVALID_AMOUNT", err.Error())
		case errors.Is(err, domain.ErrInvalidBidBreakdown):
			respondError(c, http.StatusBadRequest, "ERR_INVALID_BREAKDOWN", err.Error())
		case errors.Is(err, domain.ErrAuctionClosed):
			respondError(c, http.StatusConflict, "ERR_AUCTION_CLOSED", err.Error())
		case errors.Is(err, domain.ErrAuctionExpired):
			respondError(c, http.StatusConflict, "ERR_AUCTION_EXPIRED", err.Error())
		case errors.Is(err, domain.ErrShipmentNotFound):
			respondError(c, http.StatusNotFound, "ERR_SHIPMENT_NOT_FOUND", err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "could not submit bid")
		}
		return
	}
	respondSuccess(c, http.StatusCreated, bid.ToResponse())
}

// AwardBid godoc
// POST /api/bids/:id/award [JWT, shipper]
func (h *BidHandler) AwardBid(c *gin.Context) {
	userID := middleware.GetUserID(c)

	bidID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_BID_ID", "invalid bid id")
		return
	}

	bid, err := h.transitionSvc.AwardBid(c.Request.Context(), bidID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBidNotFound):
			respondError(c, http.StatusNotFound, "ERR_BID_NOT_FOUND", err.Error())
		case errors.Is(err, domain.ErrBidNotActive):
			respondError(c, http.StatusConflict, "ERR_BID_NOT_ACTIVE", err.Error())
		case errors.Is(err, domain.ErrAuctionClosed):
			respondError(c, http.StatusConflict, "ERR_AUCTION_CLOSED", err.Error())
		case errors.Is(err, domain.ErrForbidden):
			respondError(c, http.StatusForbidden, "ERR_FORBIDDEN", "this shipment does not belong to you")
		default:
			respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "could not award bid")
		}
		return
	}
	respondSuccess(c, http.StatusOK, bid.ToResponse())
}

// RejectBid godoc
// POST /api/bids/:id/reject [JWT, shipper]
// Body: {"reason":"optional feedback for the carrier"}
func (h *BidHandler) RejectBid(c *gin.Context) {
	userID := middleware.GetUserID(c)

	bidID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_BID_ID", "invalid bid id")
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body) // body is optional

	bid, err := h.transitionSvc.RejectBid(c.Request.Context(), bidID, userID, body.Reason)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBidNotFound):
			respondError(c, http.StatusNotFound, "ERR_BID_NOT_FOUND", err.Error())
		case errors.Is(err, domain.ErrBidNotActive):
			respondError(c, http.StatusConflict, "ERR_BID_NOT_ACTIVE", err.Error())
		case errors.Is(err, domain.ErrForbidden):
			respondError(c, http.StatusForbidden, "ERR_FORBIDDEN", "this shipment does not belong to you")
		default:
			respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "could not reject bid")
		}
		return
	}
	respondSuccess(c, http.StatusOK, bid.ToResponse())
}

// CounterOffer godoc
// POST /api/bids/:id/counter-offer [JWT, shipper]
// Body: {"amount":"90000","message":"optional note"}
func (h *BidHandler) CounterOffer(c *gin.Context) {
	userID := middleware.GetUserID(c)

	bidID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_BID_ID", "invalid bid id")
		return
	}

	var body struct {
		Amount  string `json:"amount" binding:"required"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}
	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_AMOUNT", "amount must be a whole-number string")
		return
	}

	counter, err := h.transitionSvc.CreateCounterOffer(c.Request.Context(), bidID, userID, amount, body.Message)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBidNotFound):
			respondError(c, http.StatusNotFound, "ERR_BID_NOT_FOUND", err.Error())
		case errors.Is(err, domain.ErrBidNotActive):
			respondError(c, http.StatusConflict, "ERR_BID_NOT_ACTIVE", err.Error())
		case errors.Is(err, domain.ErrAuctionClosed):
			respondError(c, http.StatusConflict, "ERR_AUCTION_CLOSED", err.Error())
		case errors.Is(err, domain.ErrInvalidBidAmount):
			respondError(c, http.StatusBadRequest, "ERR_INVALID_AMOUNT", err.Error())
		case errors.Is(err, domain.ErrForbidden):
			respondError(c, http.StatusForbidden, "ERR_FORBIDDEN", "this shipment does not belong to you")
		default:
			respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "could not create counter-offer")
		}
		return
	}
	respondSuccess(c, http.StatusCreated, counter.ToResponse())
}

// GetMyBids godoc
// GET /api/bids/my?status=active&page=1&limit=20 [JWT]
// Defaults to active bids; ?status=all returns every status.
func (h *BidHandler) GetMyBids(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, limit := parsePagination(c)
	offset := (page - 1) * limit

	status := domain.BidStatusActive
	switch s := c.DefaultQuery("status", "active"); s {
	case "all":
		status = ""
	case "active", "awarded", "outbid", "rejected":
		status = domain.BidStatus(s)
	default:
		respondError(c, http.StatusBadRequest, "ERR_INVALID_STATUS", "status must be one of active, awarded, outbid, rejected, all")
		return
	}

	bids, err := h.bidSvc.GetMyBids(c.Request.Context(), userID, status, limit, offset)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "could not fetch bids")
		return
	}
	responses := make([]domain.BidResponse, 0, len(bids))
	for _, b := range bids {
		responses = append(responses, b.ToResponse())
	}
	respondList(c, responses, len(responses), page, limit)
}

// GetBidHistory godoc
// GET /api/bids/:id/history [JWT]
func (h *BidHandler) GetBidHistory(c *gin.Context) {
	userID := middleware.GetUserID(c)

	bidID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_BID_ID", "invalid bid id")
		return
	}

	entries, err := h.bidSvc.GetBidHistory(c.Request.Context(), bidID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBidNotFound):
			respondError(c, http.StatusNotFound, "ERR_BID_NOT_FOUND", err.Error())
		case errors.Is(err, domain.ErrForbidden):
			respondError(c, http.StatusForbidden, "ERR_FORBIDDEN", "access denied")
		default:
			respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", "could not fetch bid history")
		}
		return
	}
	respondSuccess(c, http.StatusOK, entries)
}
