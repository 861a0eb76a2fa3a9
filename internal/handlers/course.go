package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/reefdive/apiserver/internal/services"
	"go.uber.org/zap"
)

// CourseHandler serves the public course catalog.
type CourseHandler struct {
	courseService *services.CourseService
	logger        *zap.Logger
}

// NewCourseHandler creates a CourseHandler.
func NewCourseHandler(courseService *services.CourseService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{courseService: courseService, logger: logger}
}

// CourseRouter registers the catalog routes on the given router.
func CourseRouter(r chi.Router, h *CourseHandler) {
	r.Get("/courses", h.List)
	r.Get("/courses/{id}", h.Get)
}

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.List(r.Context())
	if err != nil {
		writeInternal(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	course, err := h.courseService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "course not found")
		return
	}
	writeJSON(w, http.StatusOK, course)
}
