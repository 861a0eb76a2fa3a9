package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/reefdive/apiserver/internal/services"
	"github.com/reefdive/apiserver/internal/validation"
	"github.com/reefdive/apiserver/types"
	"go.uber.org/zap"
)

const bookingNotFound = "booking not found"

// BookingHandler provides HTTP handlers for bookings.
type BookingHandler struct {
	bookingService *services.BookingService
	validator      *validation.Validator
	logger         *zap.Logger
}

// NewBookingHandler creates a BookingHandler.
func NewBookingHandler(bookingService *services.BookingService, v *validation.Validator, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		validator:      v,
		logger:         logger,
	}
}

// BookingRouter registers booking routes on the given router.
func BookingRouter(r chi.Router, h *BookingHandler, authn *Authenticator) {
	r.With(authn.OptionalAuth).Post("/bookings", h.Create)
	r.Get("/bookings", h.List)
	r.Get("/bookings/{id}", h.Get)
	r.With(authn.RequireAuth).Put("/bookings/{id}/cancel", h.Cancel)
	r.With(authn.RequireAuth).Put("/bookings/{id}/status", h.UpdateStatus)
}

type CreateBookingRequest struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,emailshape"`
	Phone          string `json:"phone" validate:"required"`
	CourseID       string `json:"courseId" validate:"required"`
	PreferredDate  string `json:"preferredDate" validate:"required"`
	Experience     string `json:"experience"`
	MedicalCleared bool   `json:"medicalCleared"`
}

type CreateBookingResponse struct {
	Success   bool   `json:"success"`
	BookingID int    `json:"bookingId"`
	Message   string `json:"message"`
}

type UpdateStatusRequest struct {
	Status types.BookingStatus `json:"status" validate:"required"`
}

type BookingResponse struct {
	Success bool          `json:"success"`
	Booking types.Booking `json:"booking"`
}

// Create records a booking. A valid bearer token links it to the caller.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = h.validator.Sanitize(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.CourseID = strings.TrimSpace(req.CourseID)
	req.PreferredDate = strings.TrimSpace(req.PreferredDate)
	req.Experience = h.validator.Sanitize(req.Experience)
	if err := h.validator.Struct(req); err != nil {
		writeServiceError(w, r, h.logger, err, "")
		return
	}

	in := services.NewBooking{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		CourseID:       req.CourseID,
		PreferredDate:  req.PreferredDate,
		Experience:     req.Experience,
		MedicalCleared: req.MedicalCleared,
	}
	if claim, ok := ClaimFromContext(r.Context()); ok {
		in.UserID = &claim.UserID
	}

	booking, err := h.bookingService.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "course not found")
		return
	}

	writeJSON(w, http.StatusCreated, CreateBookingResponse{
		Success:   true,
		BookingID: booking.ID,
		Message:   "Booking created successfully",
	})
}

// List returns all bookings newest first, optionally filtered by ?status=.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	status := types.BookingStatus(r.URL.Query().Get("status"))
	bookings, err := h.bookingService.List(r.Context(), status)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "")
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, bookingNotFound)
		return
	}
	booking, err := h.bookingService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err, bookingNotFound)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// Cancel cancels a booking for its owner or for staff.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claim, ok := ClaimFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, bookingNotFound)
		return
	}

	booking, err := h.bookingService.Cancel(r.Context(), claim, id)
	if err != nil {
		writeServiceError(w, r, h.logger, err, bookingNotFound)
		return
	}
	writeJSON(w, http.StatusOK, BookingResponse{Success: true, Booking: booking})
}

// UpdateStatus sets the status of a booking. Staff only.
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claim, ok := ClaimFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, bookingNotFound)
		return
	}

	var req UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Status = types.BookingStatus(strings.TrimSpace(string(req.Status)))
	if err := h.validator.Struct(req); err != nil {
		writeServiceError(w, r, h.logger, err, "")
		return
	}

	booking, err := h.bookingService.UpdateStatus(r.Context(), claim, id, req.Status)
	if err != nil {
		writeServiceError(w, r, h.logger, err, bookingNotFound)
		return
	}
	writeJSON(w, http.StatusOK, BookingResponse{Success: true, Booking: booking})
}
