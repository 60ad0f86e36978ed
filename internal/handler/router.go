package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chelseasymphony/donations/internal/middleware"
)

type Routes struct {
	Health  *HealthHandler
	IPN     *IPNHandler
	Donate  *DonateHandler
	Events  *IPNEventHandler
	Metrics http.Handler
	APIDoc  []byte
}

// NewRouter mounts every configured handler. Nil handlers are skipped.
func NewRouter(r Routes) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger("/health", "/metrics"))
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	if r.Health != nil {
		router.GET("/health", r.Health.Health)
	}
	if r.Metrics != nil {
		router.GET("/metrics", gin.WrapH(r.Metrics))
	}
	if len(r.APIDoc) > 0 {
		SetupSwagger(router, r.APIDoc)
	}
	if r.IPN != nil {
		router.POST("/paypal/", r.IPN.Receive)
	}

	api := router.Group("/api/v1")
	{
		if r.Donate != nil {
			api.GET("/donate", r.Donate.Options)
			api.GET("/donations/adjust", r.Donate.Adjust)
		}
		if r.Events != nil {
			api.GET("/ipn-events", r.Events.List)
		}
	}

	return router
}
