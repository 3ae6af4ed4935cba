package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quizzer-backend/catalog"
	"quizzer-backend/logging"
)

// Handler exposes the quiz session engine over HTTP.
type Handler struct {
	store *Store
	svc   *catalog.Service
	log   *logging.Logger
}

func NewHandler(svc *catalog.Service, log *logging.Logger) *Handler {
	return &Handler{
		store: NewStore(catalogFetcher{svc: svc}, log),
		svc:   svc,
		log:   log,
	}
}

// catalogFetcher adapts the catalog service to the EntryFetcher interface.
type catalogFetcher struct {
	svc *catalog.Service
}

func (f catalogFetcher) Entry(_ context.Context, id string) (*catalog.Entry, error) {
	return f.svc.Get(id)
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/quiz", h.start)
	r.GET("/api/quiz/:id", h.view)
	r.POST("/api/quiz/:id/submit", h.submit)
	r.POST("/api/quiz/:id/next", h.next)
	r.POST("/api/quiz/:id/prev", h.prev)
	r.POST("/api/quiz/:id/back", h.back)
	r.POST("/api/quiz/:id/restart", h.restart)
	r.POST("/api/quiz/:id/explain", h.explain)
}

type startRequest struct {
	EntryIDs []string `json:"entry_ids"`
}

// start creates a session over the requested entries (all entries when the
// selection is empty) and runs it through loading.
func (h *Handler) start(c *gin.Context) {
	var req startRequest
	// An absent or empty body means "quiz on everything".
	_ = c.ShouldBindJSON(&req)
	ids := req.EntryIDs
	if len(ids) == 0 {
		for _, s := range h.svc.List() {
			ids = append(ids, s.ID)
		}
	}

	sess := h.store.Create(ids)
	if err := sess.Start(c.Request.Context()); err != nil {
		h.startError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.View())
}

func (h *Handler) startError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoEntries):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pick at least one entry to quiz on."})
	case errors.Is(err, ErrEmptyPool):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No quiz questions found in the selected entries."})
	case errors.Is(err, ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "Quiz is already loading."})
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
	default:
		h.log.Error("quiz start failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not start quiz."})
	}
}

func (h *Handler) session(c *gin.Context) (*Session, bool) {
	s, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	return s, true
}

func (h *Handler) view(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.View())
}

type submitRequest struct {
	Response any  `json:"response"`
	Skip     bool `json:"skip"`
}

func (h *Handler) submit(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if _, err := s.Submit(req.Response, req.Skip); err != nil {
		h.transitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.View())
}

func (h *Handler) next(c *gin.Context) { h.transition(c, (*Session).Next) }
func (h *Handler) prev(c *gin.Context) { h.transition(c, (*Session).Prev) }
func (h *Handler) back(c *gin.Context) { h.transition(c, (*Session).Back) }

func (h *Handler) explain(c *gin.Context) {
	h.transition(c, (*Session).RevealExplanation)
}

func (h *Handler) restart(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Start(c.Request.Context()); err != nil {
		h.startError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.View())
}

func (h *Handler) transition(c *gin.Context, move func(*Session) error) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := move(s); err != nil {
		h.transitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.View())
}

func (h *Handler) transitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotSubmittable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Answer is incomplete."})
	case errors.Is(err, ErrNotRunning), errors.Is(err, ErrNotFinished), errors.Is(err, ErrNotAnswered):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error("session transition failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
