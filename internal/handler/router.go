package handler

import (
	"net/http"

	"github.com/aidanjbailey/anidopt/internal/application"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services bundles what the router exposes.
type Services struct {
	Animals       *application.AnimalService
	Organisations *application.OrganisationService
	References    *application.ReferenceService
	Memberships   *application.MembershipService
	Ping          Pinger
	Metrics       http.Handler
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(s Services, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RecoveryMiddleware(log))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(log))

	NewHealthHandler(s.Ping, "anidopt").RegisterRoutes(router)
	if s.Metrics != nil {
		router.GET("/metrics", gin.WrapH(s.Metrics))
	}

	api := &router.RouterGroup
	NewAnimalHandler(s.Animals).RegisterRoutes(api)
	NewOrganisationHandler(s.Organisations).RegisterRoutes(api)
	NewReferenceHandler(s.References).RegisterRoutes(api)
	NewAdminReferenceHandler(s.References).RegisterRoutes(api)
	NewUserHandler(s.Memberships).RegisterRoutes(api)
	return router
}
