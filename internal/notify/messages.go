package notify

import (
	"fmt"
	"strconv"

	"github.com/reefdive/apiserver/types"
)

// BookingConfirmation is sent to the customer after a booking is accepted.
func BookingConfirmation(b types.Booking) Notification {
	return Notification{
		Kind:    KindBookingConfirmation,
		To:      b.Email,
		Subject: fmt.Sprintf("Booking received: %s", b.CourseName),
		Body: fmt.Sprintf(
			"Hi %s,\n\nThanks for booking %s (%s) starting %s. Your booking number is %d.\n"+
				"We will confirm your slot shortly. Please complete the medical questionnaire before your first dive.\n",
			b.Name, b.CourseName, b.CoursePrice, b.PreferredDate, b.ID,
		),
		Data: map[string]string{
			"booking_id": strconv.Itoa(b.ID),
			"course_id":  b.CourseID,
		},
	}
}

// ContactInquiryReceived forwards a contact form to the school.
func ContactInquiryReceived(inquiry types.ContactInquiry, adminEmail string) Notification {
	phone := "-"
	if inquiry.Phone != nil && *inquiry.Phone != "" {
		phone = *inquiry.Phone
	}
	return Notification{
		Kind:    KindContactInquiry,
		To:      adminEmail,
		Subject: fmt.Sprintf("New inquiry: %s", inquiry.Subject),
		Body: fmt.Sprintf(
			"From: %s <%s>\nPhone: %s\n\n%s\n",
			inquiry.Name, inquiry.Email, phone, inquiry.Message,
		),
		Data: map[string]string{
			"inquiry_id": strconv.Itoa(inquiry.ID),
			"reply_to":   inquiry.Email,
		},
	}
}

// MedicalFormReceived acknowledges a medical questionnaire to the diver.
func MedicalFormReceived(form types.MedicalForm) Notification {
	return Notification{
		Kind:    KindMedicalForm,
		To:      form.Email,
		Subject: "Medical questionnaire received",
		Body: fmt.Sprintf(
			"Hi %s,\n\nWe received your medical questionnaire for booking %d.\n",
			form.Name, form.BookingID,
		),
		Data: map[string]string{
			"medical_form_id": strconv.Itoa(form.ID),
			"booking_id":      strconv.Itoa(form.BookingID),
		},
	}
}
