package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Simon-Kral/Coderr/internal/authz"
	catalogtypes "github.com/Simon-Kral/Coderr/internal/domains/catalog/application/types"
	catalogdomain "github.com/Simon-Kral/Coderr/internal/domains/catalog/domain"
	catalogports "github.com/Simon-Kral/Coderr/internal/domains/catalog/ports"
	"github.com/Simon-Kral/Coderr/internal/shared/problems"
)

const idempotencyKeyHeader = "Idempotency-Key"

type offerDetailRequest struct {
	Title              string   `json:"title"`
	Revisions          int      `json:"revisions"`
	DeliveryTimeInDays int      `json:"delivery_time_in_days"`
	Price              float64  `json:"price"`
	Features           []string `json:"features"`
	OfferType          string   `json:"offer_type"`
}

type createOfferRequest struct {
	Title       string               `json:"title"`
	Image       string               `json:"image"`
	Description string               `json:"description"`
	Details     []offerDetailRequest `json:"details"`
}

type offerDetailPatchRequest struct {
	OfferType          string    `json:"offer_type"`
	Title              *string   `json:"title"`
	Revisions          *int      `json:"revisions"`
	DeliveryTimeInDays *int      `json:"delivery_time_in_days"`
	Price              *float64  `json:"price"`
	Features           *[]string `json:"features"`
}

type patchOfferRequest struct {
	Title       *string                   `json:"title"`
	Image       *string                   `json:"image"`
	Description *string                   `json:"description"`
	Details     []offerDetailPatchRequest `json:"details"`
}

type offerDetailResponse struct {
	ID                 int64    `json:"id"`
	Title              string   `json:"title"`
	Revisions          int      `json:"revisions"`
	DeliveryTimeInDays int      `json:"delivery_time_in_days"`
	Price              float64  `json:"price"`
	Features           []string `json:"features"`
	OfferType          string   `json:"offer_type"`
}

type userDetailsResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

type offerResponse struct {
	ID              int64                 `json:"id"`
	User            int64                 `json:"user"`
	Title           string                `json:"title"`
	Image           string                `json:"image"`
	Description     string                `json:"description"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Details         []offerDetailResponse `json:"details"`
	MinPrice        float64               `json:"min_price"`
	MinDeliveryTime int                   `json:"min_delivery_time"`
	UserDetails     *userDetailsResponse  `json:"user_details,omitempty"`
}

func (s *Server) handleListOffers(c *gin.Context) {
	if !s.authorize(c, authz.ResourceOffers, authz.ActionRead, nil) {
		return
	}
	filter, ok := s.parseOfferFilter(c)
	if !ok {
		return
	}
	offers, err := s.catalog.List(c.Request.Context(), filter)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	responses := make([]offerResponse, 0, len(offers))
	for _, offer := range offers {
		responses = append(responses, s.toOfferResponse(c, offer))
	}
	c.JSON(http.StatusOK, responses)
}

func (s *Server) parseOfferFilter(c *gin.Context) (catalogports.ListFilter, bool) {
	filter := catalogports.ListFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Ordering: catalogports.Ordering(strings.TrimSpace(c.Query("ordering"))),
	}
	if raw := strings.TrimSpace(c.Query("creator_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.responder.Respond(c, problems.ErrBadRequest.WithDetail("creator_id must be an integer"))
			return catalogports.ListFilter{}, false
		}
		filter.CreatorID = &id
	}
	if raw := strings.TrimSpace(c.Query("min_price")); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			s.responder.Respond(c, problems.ErrBadRequest.WithDetail("min_price must be a number"))
			return catalogports.ListFilter{}, false
		}
		filter.MinPrice = &price
	}
	if raw := strings.TrimSpace(c.Query("max_delivery_time")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			s.responder.Respond(c, problems.ErrBadRequest.WithDetail("max_delivery_time must be an integer"))
			return catalogports.ListFilter{}, false
		}
		filter.MaxDeliveryTime = &days
	}
	return filter, true
}

func (s *Server) handleCreateOffer(c *gin.Context) {
	if !s.authorize(c, authz.ResourceOffers, authz.ActionCreate, nil) {
		return
	}
	var payload createOfferRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.responder.Respond(c, problems.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	details := make([]catalogtypes.DetailInput, 0, len(payload.Details))
	for _, detail := range payload.Details {
		details = append(details, catalogtypes.DetailInput{
			Title:              detail.Title,
			Revisions:          detail.Revisions,
			DeliveryTimeInDays: detail.DeliveryTimeInDays,
			Price:              decimal.NewFromFloat(detail.Price),
			Features:           detail.Features,
			Tier:               catalogdomain.Tier(detail.OfferType),
		})
	}
	input := catalogtypes.CreateOfferInput{
		OwnerID:        currentActor(c).AccountID(),
		Title:          payload.Title,
		Image:          payload.Image,
		Description:    payload.Description,
		Details:        details,
		IdempotencyKey: strings.TrimSpace(c.GetHeader(idempotencyKeyHeader)),
	}
	created, err := s.createOffer(c, input)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.toOfferResponse(c, created))
}

func (s *Server) createOffer(c *gin.Context, input catalogtypes.CreateOfferInput) (*catalogtypes.OfferProjection, error) {
	if s.workflows != nil {
		return s.workflows.CreateOffer(c.Request.Context(), input)
	}
	return s.catalog.CreateOffer(c.Request.Context(), input)
}

func (s *Server) handleGetOffer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	offer, err := s.catalog.GetByID(c.Request.Context(), catalogtypes.OfferIdentifier{ID: id})
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	if !s.authorize(c, authz.ResourceOffers, authz.ActionRead, &authz.Target{OwnerID: offer.Offer.OwnerID}) {
		return
	}
	c.JSON(http.StatusOK, s.toOfferResponse(c, offer))
}

func (s *Server) handlePatchOffer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	current, err := s.catalog.GetByID(c.Request.Context(), catalogtypes.OfferIdentifier{ID: id})
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	if !s.authorize(c, authz.ResourceOffers, authz.ActionPartialUpdate, &authz.Target{OwnerID: current.Offer.OwnerID}) {
		return
	}
	var payload patchOfferRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.responder.Respond(c, problems.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	input := catalogtypes.UpdateOfferInput{
		ID:          id,
		Title:       payload.Title,
		Image:       payload.Image,
		Description: payload.Description,
	}
	for _, patch := range payload.Details {
		input.Details = append(input.Details, toDetailPatch(patch))
	}
	updated, err := s.catalog.UpdateOffer(c.Request.Context(), input)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.toOfferResponse(c, updated))
}

func (s *Server) handleDeleteOffer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	current, err := s.catalog.GetByID(c.Request.Context(), catalogtypes.OfferIdentifier{ID: id})
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	if !s.authorize(c, authz.ResourceOffers, authz.ActionDelete, &authz.Target{OwnerID: current.Offer.OwnerID}) {
		return
	}
	if err := s.catalog.Delete(c.Request.Context(), catalogtypes.OfferIdentifier{ID: id}); err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGetOfferDetail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	detail, ownerID, err := s.loadDetailWithOwner(c, id)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	if !s.authorize(c, authz.ResourceOfferDetail, authz.ActionRead, &authz.Target{OwnerID: ownerID}) {
		return
	}
	c.JSON(http.StatusOK, toDetailResponse(detail))
}

func (s *Server) handlePatchOfferDetail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	_, ownerID, err := s.loadDetailWithOwner(c, id)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	if !s.authorize(c, authz.ResourceOfferDetail, authz.ActionPartialUpdate, &authz.Target{OwnerID: ownerID}) {
		return
	}
	var payload offerDetailPatchRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.responder.Respond(c, problems.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	patch := toDetailPatch(payload)
	updated, err := s.catalog.UpdateDetail(c.Request.Context(), catalogtypes.UpdateDetailInput{
		ID:                 id,
		Title:              patch.Title,
		Revisions:          patch.Revisions,
		DeliveryTimeInDays: patch.DeliveryTimeInDays,
		Price:              patch.Price,
		Features:           patch.Features,
	})
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDetailResponse(updated))
}

func (s *Server) handleDeleteOfferDetail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	_, ownerID, err := s.loadDetailWithOwner(c, id)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	if !s.authorize(c, authz.ResourceOfferDetail, authz.ActionDelete, &authz.Target{OwnerID: ownerID}) {
		return
	}
	if err := s.catalog.DeleteDetail(c.Request.Context(), id); err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) loadDetailWithOwner(c *gin.Context, id int64) (*catalogdomain.OfferDetail, int64, error) {
	detail, err := s.catalog.GetDetail(c.Request.Context(), id)
	if err != nil {
		return nil, 0, err
	}
	offer, err := s.catalog.GetByID(c.Request.Context(), catalogtypes.OfferIdentifier{ID: detail.OfferID})
	if err != nil {
		return nil, 0, err
	}
	return detail, offer.Offer.OwnerID, nil
}

func toDetailPatch(payload offerDetailPatchRequest) catalogtypes.DetailPatch {
	patch := catalogtypes.DetailPatch{
		Tier:               catalogdomain.Tier(payload.OfferType),
		Title:              payload.Title,
		Revisions:          payload.Revisions,
		DeliveryTimeInDays: payload.DeliveryTimeInDays,
		Features:           payload.Features,
	}
	if payload.Price != nil {
		price := decimal.NewFromFloat(*payload.Price)
		patch.Price = &price
	}
	return patch
}

func toDetailResponse(detail *catalogdomain.OfferDetail) offerDetailResponse {
	features := detail.Features
	if features == nil {
		features = []string{}
	}
	return offerDetailResponse{
		ID:                 detail.ID,
		Title:              detail.Title,
		Revisions:          detail.Revisions,
		DeliveryTimeInDays: detail.DeliveryTimeInDays,
		Price:              detail.Price.InexactFloat64(),
		Features:           features,
		OfferType:          string(detail.Tier),
	}
}

// toOfferResponse renders an offer with its derived price/delivery floors.
// Read responses echo the requesting viewer's display block when a token was
// presented.
func (s *Server) toOfferResponse(c *gin.Context, projection *catalogtypes.OfferProjection) offerResponse {
	offer := projection.Offer
	details := make([]offerDetailResponse, 0, len(offer.Details))
	for i := range offer.Details {
		details = append(details, toDetailResponse(&offer.Details[i]))
	}
	response := offerResponse{
		ID:              offer.ID,
		User:            offer.OwnerID,
		Title:           offer.Title,
		Image:           offer.Image,
		Description:     offer.Description,
		CreatedAt:       projection.Metadata.CreatedAt,
		UpdatedAt:       projection.Metadata.UpdatedAt,
		Details:         details,
		MinPrice:        offer.MinPrice().InexactFloat64(),
		MinDeliveryTime: offer.MinDeliveryTime(),
	}
	if actor := currentActor(c); actor.Authenticated() {
		response.UserDetails = &userDetailsResponse{
			FirstName: actor.Account.FirstName,
			LastName:  actor.Account.LastName,
			Username:  actor.Account.Username,
		}
	}
	return response
}
