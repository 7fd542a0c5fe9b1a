package api

import (
	"net/http"

	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ListListings(c *gin.Context) {
	list, err := h.listings.List(c.Request.Context(), currentUser(c), c.Query("category"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetListing(c *gin.Context) {
	l, err := h.listings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) MyListings(c *gin.Context) {
	list, err := h.listings.Mine(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) MyBids(c *gin.Context) {
	list, err := h.listings.MyBids(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateListing(c *gin.Context) {
	var in models.ListingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	l, err := h.listings.Create(c.Request.Context(), currentUser(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (h *Handler) UpdateListing(c *gin.Context) {
	var in models.ListingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	l, err := h.listings.Update(c.Request.Context(), currentUser(c), c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) DeleteListing(c *gin.Context) {
	if err := h.listings.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "listing deleted"})
}

func (h *Handler) CancelListing(c *gin.Context) {
	l, err := h.listings.Cancel(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) CompleteListing(c *gin.Context) {
	var req models.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	l, err := h.listings.Complete(c.Request.Context(), currentUser(c), c.Param("id"), req.Accept)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) ApproveListing(c *gin.Context) {
	l, err := h.listings.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) PlaceBid(c *gin.Context) {
	var req models.BidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	resp, err := h.listings.PlaceBid(c.Request.Context(), currentUser(c), c.Param("id"), req.Price)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
