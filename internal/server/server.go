// Package server exposes the marketplace HTTP API over gin. Handlers resolve
// the acting account through the token middleware, consult the authz policy
// table, and delegate to the bounded context services.
package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	catalogports "github.com/Simon-Kral/Coderr/internal/domains/catalog/ports"
	identityapp "github.com/Simon-Kral/Coderr/internal/domains/identity/application"
	ordersapp "github.com/Simon-Kral/Coderr/internal/domains/orders/application"
	reportingapp "github.com/Simon-Kral/Coderr/internal/domains/reporting/application"
	reviewsapp "github.com/Simon-Kral/Coderr/internal/domains/reviews/application"
	"github.com/Simon-Kral/Coderr/internal/shared/problems"
)

// Server bundles the context services behind the HTTP surface.
type Server struct {
	identity  *identityapp.Service
	catalog   catalogports.Service
	workflows catalogports.WorkflowOrchestrator
	orders    *ordersapp.Service
	reviews   *reviewsapp.Service
	reporting *reportingapp.Service

	responder *problems.Responder
	logger    *slog.Logger
}

// Option customizes the server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWorkflows routes offer creation through a durable orchestrator instead
// of calling the catalog service inline.
func WithWorkflows(workflows catalogports.WorkflowOrchestrator) Option {
	return func(s *Server) { s.workflows = workflows }
}

// New wires a server over the given context services.
func New(
	identity *identityapp.Service,
	catalog catalogports.Service,
	orders *ordersapp.Service,
	reviews *reviewsapp.Service,
	reporting *reportingapp.Service,
	opts ...Option,
) *Server {
	s := &Server{
		identity:  identity,
		catalog:   catalog,
		orders:    orders,
		reviews:   reviews,
		reporting: reporting,
		responder: newResponder(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the gin engine with all routes registered. Trailing slashes
// are part of the published paths, so redirects stay off.
func (s *Server) Router(middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)
	router.RedirectTrailingSlash = false
	router.Use(s.resolveActor())

	api := router.Group("/api")

	api.POST("/registration/", s.handleRegistration)
	api.POST("/login/", s.handleLogin)

	api.GET("/profile/:pk/", s.handleGetProfile)
	api.PATCH("/profile/:pk/", s.handlePatchProfile)
	api.GET("/profiles/customer/", s.handleListProfiles(kindCustomer))
	api.GET("/profiles/business/", s.handleListProfiles(kindBusiness))

	api.GET("/offers/", s.handleListOffers)
	api.POST("/offers/", s.handleCreateOffer)
	api.GET("/offers/:id/", s.handleGetOffer)
	api.PATCH("/offers/:id/", s.handlePatchOffer)
	api.PUT("/offers/:id/", s.handleFullUpdateForbidden)
	api.DELETE("/offers/:id/", s.handleDeleteOffer)

	api.GET("/offerdetails/:id/", s.handleGetOfferDetail)
	api.PATCH("/offerdetails/:id/", s.handlePatchOfferDetail)
	api.DELETE("/offerdetails/:id/", s.handleDeleteOfferDetail)

	api.GET("/orders/", s.handleListOrders)
	api.POST("/orders/", s.handleCreateOrder)
	api.GET("/orders/:id/", s.handleGetOrder)
	api.PATCH("/orders/:id/", s.handlePatchOrder)
	api.PUT("/orders/:id/", s.handleFullUpdateForbidden)
	api.DELETE("/orders/:id/", s.handleDeleteOrder)
	api.GET("/order-count/:pk/", s.handleOrderCount)
	api.GET("/completed-order-count/:pk/", s.handleCompletedOrderCount)

	api.GET("/reviews/", s.handleListReviews)
	api.POST("/reviews/", s.handleCreateReview)
	api.GET("/reviews/:id/", s.handleGetReview)
	api.PATCH("/reviews/:id/", s.handlePatchReview)
	api.PUT("/reviews/:id/", s.handleFullUpdateForbidden)
	api.DELETE("/reviews/:id/", s.handleDeleteReview)

	api.GET("/base-info/", s.handleBaseInfo)

	return router
}

// handleFullUpdateForbidden rejects PUT on resources whose policy blocks full
// replacement regardless of the actor.
func (s *Server) handleFullUpdateForbidden(c *gin.Context) {
	s.responder.Respond(c, problems.ErrForbidden.WithDetail("full updates are not supported, use PATCH"))
}
