// Package api exposes the development backend over HTTP and websocket.
package api

import (
	"net/http"

	"github.com/dmitrijs2005/reverseauction/internal/logging"
	"github.com/dmitrijs2005/reverseauction/internal/server/categories"
	"github.com/dmitrijs2005/reverseauction/internal/server/hub"
	"github.com/dmitrijs2005/reverseauction/internal/server/listings"
	"github.com/dmitrijs2005/reverseauction/internal/server/users"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	users      *users.Service
	listings   *listings.Service
	categories *categories.Service
	hub        *hub.Hub
	log        logging.Logger
}

func NewHandler(us *users.Service, ls *listings.Service, cs *categories.Service, h *hub.Hub, log logging.Logger) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	return &Handler{users: us, listings: ls, categories: cs, hub: h, log: log.With("module", "api")}
}

// NewRouter wires the REST routes under /api and the websocket at /ws.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(h.log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ws", h.authenticate(true), h.Realtime)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/me", h.authenticate(true), h.Me)
		auth.PUT("/profile", h.authenticate(true), h.UpdateProfile)

		admin := auth.Group("/users", h.authenticate(true), adminOnly)
		admin.GET("", h.ListUsers)
		admin.PUT("/:id/approve", h.ApproveUser)
		admin.PUT("/:id/reject", h.RejectUser)
	}

	ls := api.Group("/listings")
	{
		ls.GET("", h.authenticate(false), h.ListListings)
		ls.GET("/:id", h.authenticate(false), h.GetListing)

		member := ls.Group("", h.authenticate(true))
		member.GET("/user/mylistings", h.MyListings)
		member.GET("/user/mybids", h.MyBids)
		member.POST("", h.CreateListing)
		member.PUT("/:id", h.UpdateListing)
		member.DELETE("/:id", h.DeleteListing)
		member.PUT("/:id/cancel", h.CancelListing)
		member.PUT("/:id/complete", h.CompleteListing)
		member.POST("/:id/bid", h.PlaceBid)
		member.PUT("/:id/approve", adminOnly, h.ApproveListing)
	}

	cs := api.Group("/categories")
	{
		cs.GET("", h.ListCategories)
		cs.GET("/:id", h.GetCategory)

		admin := cs.Group("", h.authenticate(true), adminOnly)
		admin.POST("", h.CreateCategory)
		admin.PUT("/:id", h.UpdateCategory)
		admin.DELETE("/:id", h.DeleteCategory)
		admin.PATCH("/:id/toggle-status", h.ToggleCategory)
	}

	return r
}
