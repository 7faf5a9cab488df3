package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeRequestCreated  NotificationType = "purchase_request_created"
	NotificationTypeRequestApproved NotificationType = "purchase_request_approved"
	NotificationTypeRequestRejected NotificationType = "purchase_request_rejected"
)

// Notification is an in-app feed entry. ReferenceID points at the purchase
// request the entry is about.
type Notification struct {
	ID          uuid.UUID        `json:"id"`
	RecipientID uuid.UUID        `json:"recipientId"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	ReferenceID *uuid.UUID       `json:"referenceId,omitempty"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"created_at"`
}

type EmailNotificationRequest struct {
	To          string   `json:"to" validate:"required,email"`
	Subject     string   `json:"subject" validate:"required"`
	Content     string   `json:"content" validate:"required"`
	HTMLContent string   `json:"html_content,omitempty"`
	CC          []string `json:"cc,omitempty" validate:"omitempty,dive,email"`
	BCC         []string `json:"bcc,omitempty" validate:"omitempty,dive,email"`
}

const rejectionMarker = "was rejected: "

// RejectionMessage is the feed text recorded when a request is rejected.
func RejectionMessage(productName, reason string) string {
	return fmt.Sprintf("Your purchase request for %s %s%s", productName, rejectionMarker, reason)
}

// RejectionReasonFromMessage recovers the reason from a rejection feed entry.
// It takes the text after "was rejected: ", else after the first ": ".
func RejectionReasonFromMessage(message string) string {
	if _, reason, ok := strings.Cut(message, rejectionMarker); ok {
		return strings.TrimSpace(reason)
	}

	if _, reason, ok := strings.Cut(message, ": "); ok {
		return strings.TrimSpace(reason)
	}

	return ""
}
