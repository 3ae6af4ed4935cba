package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler exposes the catalog service over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/entries", h.list)
	r.GET("/api/entry", h.get)
	r.GET("/api/health", h.health)
	r.POST("/api/reload", h.reload)
}

func (h *Handler) list(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.List())
}

func (h *Handler) get(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing id query param"})
		return
	}
	entry, err := h.svc.Get(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "entries": h.svc.Len()})
}

func (h *Handler) reload(c *gin.Context) {
	n := h.svc.Reload()
	c.JSON(http.StatusOK, gin.H{"ok": true, "entries": n})
}
