package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moviereview/movie-api/internal/movie"
	"github.com/moviereview/movie-api/internal/movie/service"
	"github.com/moviereview/movie-api/internal/validation"
)

// Validation chains for the movie routes.
var (
	movieID = validation.Field{In: validation.Param, Name: "id", Trim: true, Checks: []validation.Check{
		{Tag: "required", Message: "Movie ID is required"},
	}}
	title = validation.Field{In: validation.Body, Name: "title", Trim: true, Checks: []validation.Check{
		{Tag: "required", Message: "Title is required"},
		{Tag: "min=1,max=200", Message: "Title must be between 1 and 200 characters"},
	}}
	rating = validation.Field{In: validation.Body, Name: "rating", Checks: []validation.Check{
		{Tag: "required", Message: "Rating is required"},
		{Integer: true, Tag: "min=1,max=5", Message: "Rating must be an integer between 1 and 5"},
	}}
	minRating = validation.Field{In: validation.Query, Name: "minRating", Optional: true, Checks: []validation.Check{
		{Integer: true, Tag: "min=1,max=5", Message: "minRating must be an integer between 1 and 5"},
	}}
)

// RegisterMovieRoutes mounts the movie CRUD routes on rg. Backend failures
// are attached with c.Error and rendered by the error middleware.
func RegisterMovieRoutes(rg *gin.RouterGroup, svc service.Service) {
	h := &movieHandler{svc: svc}
	rg.GET("", validation.Rules(minRating), h.list)
	rg.GET("/:id", validation.Rules(movieID), h.get)
	rg.POST("", validation.Rules(title, rating), h.create)
	rg.PUT("/:id", validation.Rules(movieID, title, rating), h.replace)
	rg.DELETE("/:id", validation.Rules(movieID), h.delete)
}

type movieHandler struct {
	svc service.Service
}

func (h *movieHandler) list(c *gin.Context) {
	threshold, _ := validation.Int(c, "minRating")
	list, err := h.svc.List(c.Request.Context(), threshold)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *movieHandler) get(c *gin.Context) {
	m, err := h.svc.Get(c.Request.Context(), validation.String(c, "id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *movieHandler) create(c *gin.Context) {
	m, err := h.svc.Create(c.Request.Context(), input(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *movieHandler) replace(c *gin.Context) {
	m, err := h.svc.Replace(c.Request.Context(), validation.String(c, "id"), input(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *movieHandler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), validation.String(c, "id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func input(c *gin.Context) movie.Input {
	r, _ := validation.Int(c, "rating")
	return movie.Input{Title: validation.String(c, "title"), Rating: r}
}
