package models

import (
	"errors"
	"strings"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrNoIdentity = errors.New("no identity in session")
)

// IdentityKind distinguishes the two login roles the portal knows about.
// Each kind is persisted under its own session key.
type IdentityKind string

const (
	KindEmployee IdentityKind = "employee"
	KindHRStaff  IdentityKind = "hr-staff"
)

// Identity is the logged-in person. The upstream API historically returned
// either a single full_name or separate name/surname fields depending on the
// role; both shapes are folded into this one struct and DisplayName picks
// whichever is present.
type Identity struct {
	ID         int64        `json:"id"`
	Kind       IdentityKind `json:"kind"`
	Name       string       `json:"name,omitempty"`
	Surname    string       `json:"surname,omitempty"`
	FullName   string       `json:"full_name,omitempty"`
	Department string       `json:"department"`
	Role       string       `json:"role,omitempty"`
}

// DisplayName derives a printable name from whichever fields the upstream
// populated.
func (i Identity) DisplayName() string {
	if i.FullName != "" {
		return i.FullName
	}
	return strings.TrimSpace(i.Name + " " + i.Surname)
}

// Peer is a colleague in the same department, as listed by the directory.
type Peer struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Role    string `json:"role"`
}

func (p Peer) DisplayName() string {
	return strings.TrimSpace(p.Name + " " + p.Surname)
}

// DirectMessage is one message of a two-person conversation. Records are
// append-only: once created they are never edited or deleted.
type DirectMessage struct {
	ID          int64  `json:"id"`
	SenderID    int64  `json:"sender_id"`
	ReceiverID  int64  `json:"receiver_id"`
	Message     string `json:"message"`
	MeetLink    string `json:"meet_link,omitempty"`
	MeetRemarks string `json:"meet_remarks,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// BroadcastMessage is a department-wide announcement, visible to everyone
// whose department matches. Append-only like DirectMessage.
type BroadcastMessage struct {
	ID         int64  `json:"id"`
	SenderID   int64  `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Department string `json:"department"`
	Message    string `json:"message"`
	CreatedAt  string `json:"created_at"`
}

// UnreadEntry is one row of the server-computed unread map: how many direct
// messages from SenderID the current identity has not read yet. The client
// never owns this value; every poll replaces the local projection.
type UnreadEntry struct {
	SenderID    int64 `json:"sender_id"`
	UnreadCount int   `json:"unreadCount"`
}

// Notification is a system notice addressed to one identity. The only
// client-side mutation is flipping IsRead via mark-as-read.
type Notification struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
	IsRead    bool   `json:"is_read"`
}

// Onboarding status codes as stored by the upstream.
const (
	OnboardingApproved = 1
	OnboardingPending  = 2
)

// OnboardingRecord is one onboarding submission under HR review.
type OnboardingRecord struct {
	ID         int64  `json:"id"`
	EmployeeID int64  `json:"employee_id"`
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	Department string `json:"department"`
	Email      string `json:"email"`
	Onboarded  int    `json:"onboarded"`
	CreatedAt  string `json:"created_at"`
}

// AttendanceRecord is one day's check-in/check-out pair for an employee.
type AttendanceRecord struct {
	ID         int64  `json:"id"`
	EmployeeID int64  `json:"employee_id"`
	Date       string `json:"date"`
	CheckIn    string `json:"check_in,omitempty"`
	CheckOut   string `json:"check_out,omitempty"`
	Status     string `json:"status,omitempty"`
}

// LeaveRequest is a leave application and its review state.
type LeaveRequest struct {
	ID         int64  `json:"id"`
	EmployeeID int64  `json:"employee_id"`
	Type       string `json:"type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason,omitempty"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at,omitempty"`
}
