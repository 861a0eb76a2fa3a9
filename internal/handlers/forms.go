package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/reefdive/apiserver/internal/services"
	"github.com/reefdive/apiserver/internal/validation"
	"github.com/reefdive/apiserver/types"
	"go.uber.org/zap"
)

// FormHandler accepts the contact and medical questionnaire forms.
type FormHandler struct {
	contactService *services.ContactService
	medicalService *services.MedicalFormService
	validator      *validation.Validator
	logger         *zap.Logger
}

// NewFormHandler creates a FormHandler.
func NewFormHandler(
	contactService *services.ContactService,
	medicalService *services.MedicalFormService,
	v *validation.Validator,
	logger *zap.Logger,
) *FormHandler {
	return &FormHandler{
		contactService: contactService,
		medicalService: medicalService,
		validator:      v,
		logger:         logger,
	}
}

// FormRouter registers the public form routes on the given router.
func FormRouter(r chi.Router, h *FormHandler) {
	r.Post("/contact", h.SubmitContact)
	r.Post("/medical-form", h.SubmitMedicalForm)
}

type ContactRequest struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required"`
	Phone   *string `json:"phone"`
	Subject string  `json:"subject"`
	Message string  `json:"message" validate:"required"`
}

type ContactResponse struct {
	Success   bool   `json:"success"`
	InquiryID int    `json:"inquiryId"`
	Message   string `json:"message"`
}

type MedicalFormRequest struct {
	BookingID         bookingRef      `json:"bookingId" validate:"required"`
	Name              string          `json:"name" validate:"required"`
	Email             string          `json:"email" validate:"required"`
	MedicalAnswers    json.RawMessage `json:"medicalAnswers" validate:"required"`
	PhysicianApproval bool            `json:"physicianApproval"`
}

// bookingRef is a booking id sent as a JSON number or a numeric string.
type bookingRef int

func (b *bookingRef) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		*b = 0
		return nil
	}
	text := string(raw)
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return &validation.Error{Invalid: []string{"bookingId"}}
		}
	}
	id, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || id < 0 {
		return &validation.Error{Invalid: []string{"bookingId"}}
	}
	*b = bookingRef(id)
	return nil
}

type MedicalFormResponse struct {
	Success       bool   `json:"success"`
	MedicalFormID int    `json:"medicalFormId"`
	Message       string `json:"message"`
}

func (h *FormHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = h.validator.Sanitize(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = h.validator.Sanitize(req.Subject)
	req.Message = h.validator.Sanitize(req.Message)
	if req.Phone != nil && strings.TrimSpace(*req.Phone) == "" {
		req.Phone = nil
	}
	if err := h.validator.Struct(req); err != nil {
		writeServiceError(w, r, h.logger, err, "")
		return
	}

	inquiry, err := h.contactService.Submit(r.Context(), types.ContactInquiry{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		writeInternal(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, ContactResponse{
		Success:   true,
		InquiryID: inquiry.ID,
		Message:   "Thank you for your inquiry. We will get back to you soon.",
	})
}

// SubmitMedicalForm stores the questionnaire answers as sent.
func (h *FormHandler) SubmitMedicalForm(w http.ResponseWriter, r *http.Request) {
	var req MedicalFormRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = h.validator.Sanitize(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if bytes.Equal(bytes.TrimSpace(req.MedicalAnswers), []byte("null")) {
		req.MedicalAnswers = nil
	}
	if err := h.validator.Struct(req); err != nil {
		writeServiceError(w, r, h.logger, err, "")
		return
	}

	form, err := h.medicalService.Submit(r.Context(), types.MedicalForm{
		BookingID:         int(req.BookingID),
		Name:              req.Name,
		Email:             req.Email,
		MedicalAnswers:    req.MedicalAnswers,
		PhysicianApproval: req.PhysicianApproval,
	})
	if err != nil {
		writeInternal(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, MedicalFormResponse{
		Success:       true,
		MedicalFormID: form.ID,
		Message:       "Medical form submitted successfully",
	})
}
