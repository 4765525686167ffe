package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Simon-Kral/Coderr/internal/authz"
	reviewsapp "github.com/Simon-Kral/Coderr/internal/domains/reviews/application"
	reviewsports "github.com/Simon-Kral/Coderr/internal/domains/reviews/ports"
	"github.com/Simon-Kral/Coderr/internal/shared/problems"
)

type createReviewRequest struct {
	BusinessUser int64  `json:"business_user"`
	Rating       int    `json:"rating"`
	Description  string `json:"description"`
}

type patchReviewRequest struct {
	Rating      *int    `json:"rating"`
	Description *string `json:"description"`
}

type reviewResponse struct {
	ID           int64     `json:"id"`
	BusinessUser int64     `json:"business_user"`
	Reviewer     int64     `json:"reviewer"`
	Rating       int       `json:"rating"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (s *Server) handleListReviews(c *gin.Context) {
	if !s.authorize(c, authz.ResourceReviews, authz.ActionRead, nil) {
		return
	}
	filter := reviewsports.ListFilter{
		Ordering: reviewsports.Ordering(strings.TrimSpace(c.Query("ordering"))),
	}
	if raw := strings.TrimSpace(c.Query("business_user_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.responder.Respond(c, problems.ErrBadRequest.WithDetail("business_user_id must be an integer"))
			return
		}
		filter.BusinessID = &id
	}
	if raw := strings.TrimSpace(c.Query("reviewer_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.responder.Respond(c, problems.ErrBadRequest.WithDetail("reviewer_id must be an integer"))
			return
		}
		filter.ReviewerID = &id
	}
	reviews, err := s.reviews.List(c.Request.Context(), filter)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	responses := make([]reviewResponse, 0, len(reviews))
	for _, review := range reviews {
		responses = append(responses, toReviewResponse(review))
	}
	c.JSON(http.StatusOK, responses)
}

func (s *Server) handleCreateReview(c *gin.Context) {
	if !s.authorize(c, authz.ResourceReviews, authz.ActionCreate, nil) {
		return
	}
	var payload createReviewRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.responder.Respond(c, problems.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	created, err := s.reviews.CreateReview(c.Request.Context(), currentActor(c).AccountID(), payload.BusinessUser, payload.Rating, payload.Description)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReviewResponse(created))
}

func (s *Server) handleGetReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	review, err := s.reviews.GetByID(c.Request.Context(), id)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	if !s.authorize(c, authz.ResourceReviews, authz.ActionRead, reviewTarget(review)) {
		return
	}
	c.JSON(http.StatusOK, toReviewResponse(review))
}

func (s *Server) handlePatchReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	current, err := s.reviews.GetByID(c.Request.Context(), id)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	if !s.authorize(c, authz.ResourceReviews, authz.ActionPartialUpdate, reviewTarget(current)) {
		return
	}
	var payload patchReviewRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.responder.Respond(c, problems.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	updated, err := s.reviews.UpdateReview(c.Request.Context(), id, payload.Rating, payload.Description)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReviewResponse(updated))
}

func (s *Server) handleDeleteReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	current, err := s.reviews.GetByID(c.Request.Context(), id)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	if !s.authorize(c, authz.ResourceReviews, authz.ActionDelete, reviewTarget(current)) {
		return
	}
	if err := s.reviews.DeleteReview(c.Request.Context(), id); err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleBaseInfo(c *gin.Context) {
	info, err := s.reporting.BaseInfo(c.Request.Context())
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"review_count":           info.ReviewCount,
		"average_rating":         info.AverageRating,
		"business_profile_count": info.BusinessProfileCount,
		"offer_count":            info.OfferCount,
	})
}

// reviewTarget resolves ownership to the reviewer who authored the review.
func reviewTarget(projection *reviewsapp.ReviewProjection) *authz.Target {
	return &authz.Target{OwnerID: projection.Entity.ReviewerID}
}

func toReviewResponse(projection *reviewsapp.ReviewProjection) reviewResponse {
	review := projection.Entity
	return reviewResponse{
		ID:           review.ID,
		BusinessUser: review.BusinessID,
		Reviewer:     review.ReviewerID,
		Rating:       review.Rating,
		Description:  review.Description,
		CreatedAt:    projection.Metadata.CreatedAt,
		UpdatedAt:    projection.Metadata.UpdatedAt,
	}
}
