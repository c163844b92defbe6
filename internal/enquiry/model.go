// Package enquiry stores contact-form messages and their back-office triage.
package enquiry

import "time"

type Status string

const (
	StatusNew     Status = "new"
	StatusRead    Status = "read"
	StatusReplied Status = "replied"
	StatusClosed  Status = "closed"
)

var Statuses = []Status{StatusNew, StatusRead, StatusReplied, StatusClosed}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type Enquiry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmitRequest payload of POST /api/contact.
// swagger:model SubmitEnquiryRequest
type SubmitRequest struct {
	Name    string `json:"name"    example:"Ada Lovelace"`
	Email   string `json:"email"   example:"ada@example.com"`
	Message string `json:"message" example:"Do you ship to Goa?"`
}

// UpdateStatusRequest payload of PUT /api/admin/enquiries/:id/status.
// swagger:model UpdateEnquiryStatusRequest
type UpdateStatusRequest struct {
	Status string `json:"status" example:"read"`
}
