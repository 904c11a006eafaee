package movies

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yagocr2/FilmWhere-sub000/internal/api/respond"
	"github.com/yagocr2/FilmWhere-sub000/internal/discovery"
)

type Handler struct {
	svc *discovery.Service
}

func NewHandler(svc *discovery.Service) *Handler {
	return &Handler{svc: svc}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func (h *Handler) respondList(c *gin.Context, results []discovery.MovieSummary, err error, page, pageSize int) {
	if err != nil {
		if errors.Is(err, discovery.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No movies found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load movies"})
		return
	}
	c.JSON(http.StatusOK, respond.NewPaged(results, int64(len(results)), page, pageSize))
}

// GET /api/movies/search?query=&page=
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}
	page := queryInt(c, "page", 1)

	results, err := h.svc.SearchByTitle(c.Request.Context(), query, page)
	h.respondList(c, results, err, page, 20)
}

// GET /api/movies/popular?page=&year=&cantidad=
func (h *Handler) Popular(c *gin.Context) {
	page := queryInt(c, "page", 1)
	year := queryInt(c, "year", 0)
	count := queryInt(c, "cantidad", 20)

	results, err := h.svc.Popular(c.Request.Context(), page, year, count)
	h.respondList(c, results, err, page, count)
}

// GET /api/movies/top-rated?page=
func (h *Handler) TopRated(c *gin.Context) {
	page := queryInt(c, "page", 1)

	results, err := h.svc.TopRated(c.Request.Context(), page)
	h.respondList(c, results, err, page, 20)
}

// GET /api/movies/genre/:name?cantidad=
func (h *Handler) ByGenre(c *gin.Context) {
	name := c.Param("name")
	count := queryInt(c, "cantidad", 10)

	results, err := h.svc.ByGenre(c.Request.Context(), name, count)
	h.respondList(c, results, err, 1, count)
}

// GET /api/movies/estrenos?year=&cantidad=
func (h *Handler) Recent(c *gin.Context) {
	year := queryInt(c, "year", 0)
	count := queryInt(c, "cantidad", 20)

	results, err := h.svc.Recent(c.Request.Context(), year, count)
	h.respondList(c, results, err, 1, count)
}

// GET /api/movies/:id
func (h *Handler) Detail(c *gin.Context) {
	detail, err := h.svc.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, discovery.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load movie"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// GET /api/movies/:id/platforms?country=
func (h *Handler) Platforms(c *gin.Context) {
	offers, err := h.svc.Platforms(c.Request.Context(), c.Param("id"), c.Query("country"))
	if err != nil {
		if errors.Is(err, discovery.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No availability found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load availability"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"platforms": offers})
}
