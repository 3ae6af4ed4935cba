package igproxy

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"quizzer-backend/catalog"
	"quizzer-backend/logging"
)

// allowedHosts are the only upstream domains the proxy will stream from.
var allowedHosts = []string{"instagram.com", "cdninstagram.com", "fbcdn.net"}

const userAgent = "Mozilla/5.0 (Clip Quizzer)"

// Handler streams an entry's attribution image through the backend so the
// client never talks to the upstream CDN directly.
type Handler struct {
	svc    *catalog.Service
	client *http.Client
	log    *logging.Logger
}

func NewHandler(svc *catalog.Service, log *logging.Logger) *Handler {
	return &Handler{
		svc:    svc,
		client: &http.Client{Timeout: 20 * time.Second},
		log:    log,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/profile-pic", h.profilePic)
}

func (h *Handler) profilePic(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing id query param"})
		return
	}

	entry, err := h.svc.Get(id)
	if err != nil || entry.IgMeta == nil || entry.IgMeta.ProfilePicURL == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile picture not found"})
		return
	}

	src := entry.IgMeta.ProfilePicURL
	if !AllowedHost(src) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Profile host not permitted"})
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, src, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Proxy failed"})
		return
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "image/*")

	upstream, err := h.client.Do(req)
	if err != nil {
		h.log.Error("profile pic fetch failed", "entry", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Proxy failed"})
		return
	}
	defer upstream.Body.Close()

	if upstream.StatusCode != http.StatusOK {
		c.JSON(upstream.StatusCode, gin.H{"error": "Failed to load image"})
		return
	}

	contentType := upstream.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	c.DataFromReader(http.StatusOK, upstream.ContentLength, contentType, upstream.Body, map[string]string{
		"Cache-Control": "public, max-age=86400",
	})
}

// AllowedHost reports whether the URL points at a known-safe image host:
// the domain itself or any subdomain of it.
func AllowedHost(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, safe := range allowedHosts {
		if host == safe || strings.HasSuffix(host, "."+safe) {
			return true
		}
	}
	return false
}
