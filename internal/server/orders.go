package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Simon-Kral/Coderr/internal/authz"
	ordersapp "github.com/Simon-Kral/Coderr/internal/domains/orders/application"
	ordersdomain "github.com/Simon-Kral/Coderr/internal/domains/orders/domain"
	"github.com/Simon-Kral/Coderr/internal/shared/problems"
)

type createOrderRequest struct {
	OfferDetailID int64 `json:"offer_detail_id"`
}

type patchOrderRequest struct {
	Status string `json:"status"`
}

type orderResponse struct {
	ID                 int64     `json:"id"`
	CustomerUser       int64     `json:"customer_user"`
	BusinessUser       int64     `json:"business_user"`
	Title              string    `json:"title"`
	Revisions          int       `json:"revisions"`
	DeliveryTimeInDays int       `json:"delivery_time_in_days"`
	Price              float64   `json:"price"`
	Features           []string  `json:"features"`
	OfferType          string    `json:"offer_type"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (s *Server) handleListOrders(c *gin.Context) {
	if !s.authorize(c, authz.ResourceOrders, authz.ActionRead, nil) {
		return
	}
	actor := currentActor(c)
	orders, err := s.orders.ListFor(c.Request.Context(), actor.AccountID(), actor.Account.Admin)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	responses := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, toOrderResponse(order))
	}
	c.JSON(http.StatusOK, responses)
}

func (s *Server) handleCreateOrder(c *gin.Context) {
	if !s.authorize(c, authz.ResourceOrders, authz.ActionCreate, nil) {
		return
	}
	var payload createOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.responder.Respond(c, problems.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	created, err := s.orders.CreateOrder(c.Request.Context(), currentActor(c).AccountID(), payload.OfferDetailID)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(created))
}

func (s *Server) handleGetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := s.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	if !s.authorize(c, authz.ResourceOrders, authz.ActionRead, orderTarget(order)) {
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (s *Server) handlePatchOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	current, err := s.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	if !s.authorize(c, authz.ResourceOrders, authz.ActionPartialUpdate, orderTarget(current)) {
		return
	}
	var payload patchOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.responder.Respond(c, problems.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	updated, err := s.orders.UpdateStatus(c.Request.Context(), id, ordersdomain.Status(payload.Status))
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(updated))
}

func (s *Server) handleDeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	current, err := s.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	if !s.authorize(c, authz.ResourceOrders, authz.ActionDelete, orderTarget(current)) {
		return
	}
	if err := s.orders.Delete(c.Request.Context(), id); err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleOrderCount(c *gin.Context) {
	if !currentActor(c).Authenticated() {
		s.responder.Respond(c, problems.ErrForbidden)
		return
	}
	businessID, ok := parseIDParam(c, "pk")
	if !ok {
		return
	}
	count, err := s.orders.CountInProgress(c.Request.Context(), businessID)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_count": count})
}

func (s *Server) handleCompletedOrderCount(c *gin.Context) {
	if !currentActor(c).Authenticated() {
		s.responder.Respond(c, problems.ErrForbidden)
		return
	}
	businessID, ok := parseIDParam(c, "pk")
	if !ok {
		return
	}
	count, err := s.orders.CountCompleted(c.Request.Context(), businessID)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed_order_count": count})
}

// orderTarget resolves object ownership for the policy table. For orders the
// controlling account is the business side, not the customer who placed it.
func orderTarget(projection *ordersapp.OrderProjection) *authz.Target {
	return &authz.Target{OwnerID: projection.Entity.BusinessID}
}

func toOrderResponse(projection *ordersapp.OrderProjection) orderResponse {
	order := projection.Entity
	features := order.Features
	if features == nil {
		features = []string{}
	}
	return orderResponse{
		ID:                 order.ID,
		CustomerUser:       order.CustomerID,
		BusinessUser:       order.BusinessID,
		Title:              order.Title,
		Revisions:          order.Revisions,
		DeliveryTimeInDays: order.DeliveryTimeInDays,
		Price:              order.Price.InexactFloat64(),
		Features:           features,
		OfferType:          order.OfferType,
		Status:             string(order.Status),
		CreatedAt:          projection.Metadata.CreatedAt,
		UpdatedAt:          projection.Metadata.UpdatedAt,
	}
}
