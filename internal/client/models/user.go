package models

import "time"

type CompanyInfo struct {
	CompanyName string `json:"companyName,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	Phone       string `json:"phone,omitempty"`
	TaxNumber   string `json:"taxNumber,omitempty"`
	Description string `json:"description,omitempty"`
}

type User struct {
	ID              string       `json:"_id"`
	Name            string       `json:"name"`
	Email           string       `json:"email"`
	ProfilePicture  string       `json:"profilePicture,omitempty"`
	CompanyInfo     *CompanyInfo `json:"companyInfo,omitempty"`
	IsAdmin         bool         `json:"isAdmin"`
	IsApproved      bool         `json:"isApproved"`
	IsRejected      bool         `json:"isRejected"`
	RejectionReason string       `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// ApprovalState is the admin-managed account state.
type ApprovalState string

const (
	ApprovalPending  ApprovalState = "pending"
	ApprovalApproved ApprovalState = "approved"
	ApprovalRejected ApprovalState = "rejected"
)

func (u User) ApprovalState() ApprovalState {
	switch {
	case u.IsApproved:
		return ApprovalApproved
	case u.IsRejected:
		return ApprovalRejected
	default:
		return ApprovalPending
	}
}

// CanTransition reports whether an admin may move u into state to.
// pending -> approved | rejected, rejected -> approved; nothing else.
func (u User) CanTransition(to ApprovalState) bool {
	switch u.ApprovalState() {
	case ApprovalPending:
		return to == ApprovalApproved || to == ApprovalRejected
	case ApprovalRejected:
		return to == ApprovalApproved
	default:
		return false
	}
}
