package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCompleted RequestStatus = "completed"
)

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPending:  {RequestStatusApproved, RequestStatusRejected},
	RequestStatusApproved: {RequestStatusCompleted},
}

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected, RequestStatusCompleted:
		return true
	}

	return false
}

func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusRejected || s == RequestStatusCompleted
}

func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range requestTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// TransitionError reports a status change the lifecycle does not allow.
type TransitionError struct {
	From RequestStatus
	To   RequestStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("purchase request cannot move from %s to %s", e.From, e.To)
}

// Transition returns the next status or a *TransitionError.
func Transition(from, to RequestStatus) (RequestStatus, error) {
	if !from.CanTransitionTo(to) {
		return from, &TransitionError{From: from, To: to}
	}

	return to, nil
}

// ClientSummary is the client side of a purchase request as shown to admins.
type ClientSummary struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	DealerName string    `json:"dealerName,omitempty"`
	Region     string    `json:"region,omitempty"`
}

func (c ClientSummary) Identifier() uuid.UUID { return c.ID }

func (c ClientSummary) DisplayName() string { return c.Name }

type PurchaseRequest struct {
	ID              uuid.UUID          `json:"id"`
	Product         Ref[Product]       `json:"productId"`
	Client          Ref[ClientSummary] `json:"clientId"`
	Quantity        int64              `json:"quantity"`
	UnitPrice       decimal.Decimal    `json:"unitPrice"`
	Status          RequestStatus      `json:"status"`
	RejectionReason string             `json:"rejectionReason,omitempty"`
	ReviewedBy      *uuid.UUID         `json:"reviewedBy,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func (r PurchaseRequest) Total() decimal.Decimal {
	return r.UnitPrice.Mul(decimal.NewFromInt(r.Quantity))
}

func (r PurchaseRequest) SearchFields() []string {
	fields := make([]string, 0, 4)

	if p, ok := r.Product.Value(); ok {
		fields = append(fields, p.Name, p.SKU, p.Description)
	}

	if c, ok := r.Client.Value(); ok {
		fields = append(fields, c.Name, c.Email)
	}

	return fields
}

func (r PurchaseRequest) StatusKey() string {
	return string(r.Status)
}

func (r PurchaseRequest) FacetValue(name string) string {
	c, ok := r.Client.Value()
	if !ok {
		return ""
	}

	switch strings.ToLower(name) {
	case "dealer":
		return c.DealerName
	case "region":
		return c.Region
	}

	return ""
}

type CreatePurchaseRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int64     `json:"quantity" validate:"required,gt=0"`
}

type RejectPurchaseRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

type PurchaseRequestFilter struct {
	ClientID       *uuid.UUID
	OrganizationID *uuid.UUID
	Status         RequestStatus
}

type AdminProductChange struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	PreviousStock int64     `json:"previousStock"`
	NewStock      int64     `json:"newStock"`
}

type ClientProductChange struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	IsNew bool      `json:"isNew"`
	Stock int64     `json:"stock"`
}

// ApprovalResult describes both sides of the stock transfer an approval performed.
type ApprovalResult struct {
	AdminProduct  AdminProductChange  `json:"adminProduct"`
	ClientProduct ClientProductChange `json:"clientProduct"`
	Request       *PurchaseRequest    `json:"request"`
}
