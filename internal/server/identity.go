package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	identityapp "github.com/Simon-Kral/Coderr/internal/domains/identity/application"
	identitydomain "github.com/Simon-Kral/Coderr/internal/domains/identity/domain"
	identityports "github.com/Simon-Kral/Coderr/internal/domains/identity/ports"
	"github.com/Simon-Kral/Coderr/internal/shared/problems"
)

const (
	kindCustomer = identitydomain.KindCustomer
	kindBusiness = identitydomain.KindBusiness
)

type registrationRequest struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	RepeatedPassword string `json:"repeated_password"`
	Type             string `json:"type"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
	UserID   int64  `json:"user_id"`
}

type profileResponse struct {
	User         int64  `json:"user"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	File         string `json:"file"`
	Location     string `json:"location"`
	Tel          string `json:"tel"`
	Description  string `json:"description"`
	WorkingHours string `json:"working_hours"`
	Type         string `json:"type"`
	Email        string `json:"email"`
}

type profilePatchRequest struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Email        *string `json:"email"`
	File         *string `json:"file"`
	Location     *string `json:"location"`
	Tel          *string `json:"tel"`
	Description  *string `json:"description"`
	WorkingHours *string `json:"working_hours"`
}

func (s *Server) handleRegistration(c *gin.Context) {
	var payload registrationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.responder.Respond(c, problems.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	session, err := s.identity.Register(c.Request.Context(), identityapp.RegisterInput{
		Username:         payload.Username,
		Email:            payload.Email,
		Password:         payload.Password,
		RepeatedPassword: payload.RepeatedPassword,
		Kind:             identitydomain.ProfileKind(payload.Type),
	})
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSessionResponse(session))
}

func (s *Server) handleLogin(c *gin.Context) {
	var payload loginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.responder.Respond(c, problems.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	session, err := s.identity.Login(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(session))
}

func (s *Server) handleGetProfile(c *gin.Context) {
	if !currentActor(c).Authenticated() {
		s.responder.Respond(c, problems.ErrForbidden)
		return
	}
	accountID, ok := parseIDParam(c, "pk")
	if !ok {
		return
	}
	view, err := s.identity.GetProfile(c.Request.Context(), accountID)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(view))
}

func (s *Server) handlePatchProfile(c *gin.Context) {
	actor := currentActor(c)
	if !actor.Authenticated() {
		s.responder.Respond(c, problems.ErrForbidden)
		return
	}
	accountID, ok := parseIDParam(c, "pk")
	if !ok {
		return
	}
	if _, err := s.identity.GetProfile(c.Request.Context(), accountID); err != nil {
		s.responder.RespondError(c, err)
		return
	}
	// Only the profile owner or an admin may edit a profile.
	if accountID != actor.AccountID() && !actor.Account.Admin {
		s.responder.Respond(c, problems.ErrForbidden)
		return
	}
	var payload profilePatchRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.responder.Respond(c, problems.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	view, err := s.identity.UpdateProfile(c.Request.Context(), accountID, identityapp.UpdateProfileInput{
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		Email:        payload.Email,
		File:         payload.File,
		Location:     payload.Location,
		Tel:          payload.Tel,
		Description:  payload.Description,
		WorkingHours: payload.WorkingHours,
	})
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(view))
}

func (s *Server) handleListProfiles(kind identitydomain.ProfileKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentActor(c).Authenticated() {
			s.responder.Respond(c, problems.ErrForbidden)
			return
		}
		views, err := s.identity.ListProfiles(c.Request.Context(), kind)
		if err != nil {
			s.responder.RespondError(c, err)
			return
		}
		responses := make([]profileResponse, 0, len(views))
		for _, view := range views {
			responses = append(responses, toProfileResponse(view))
		}
		c.JSON(http.StatusOK, responses)
	}
}

func toSessionResponse(session *identityapp.Session) sessionResponse {
	return sessionResponse{
		Token:    session.Token,
		Username: session.Username,
		Email:    session.Email,
		UserID:   session.AccountID,
	}
}

func toProfileResponse(view *identityports.ProfileView) profileResponse {
	return profileResponse{
		User:         view.Account.ID,
		Username:     view.Account.Username,
		FirstName:    view.Account.FirstName,
		LastName:     view.Account.LastName,
		File:         view.Profile.File,
		Location:     view.Profile.Location,
		Tel:          view.Profile.Tel,
		Description:  view.Profile.Description,
		WorkingHours: view.Profile.WorkingHours,
		Type:         string(view.Profile.Kind),
		Email:        view.Account.Email,
	}
}
