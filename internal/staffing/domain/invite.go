package domain

import "time"

// Invite statuses. An invite only ever moves forward; rejection is reachable
// from every non-terminal state and expiry only from active.
const (
	StatusActive       = "active"
	StatusApplied      = "applied"
	StatusPendingAdmin = "pending_admin"
	StatusApproved     = "approved"
	StatusRejected     = "rejected"
	StatusExpired      = "expired"
)

// InviteTTL is how long a fresh invite link stays usable.
const InviteTTL = 7 * 24 * time.Hour

// StoreInvite is a staff-recruitment token. The Firestore document id IS the
// token, so possession of the link is possession of the invite.
type StoreInvite struct {
	ID      string `firestore:"-" json:"id"`
	StoreID string `firestore:"storeId" json:"store_id"`
	Role    string `firestore:"role" json:"role"`
	Status  string `firestore:"status" json:"status"`

	ApplicantUID   string `firestore:"applicantUid,omitempty" json:"applicant_uid,omitempty"`
	ApplicantName  string `firestore:"applicantName,omitempty" json:"applicant_name,omitempty"`
	ApplicantEmail string `firestore:"applicantEmail,omitempty" json:"applicant_email,omitempty"`
	ApplicantNote  string `firestore:"applicantNote,omitempty" json:"applicant_note,omitempty"`

	RejectionReason string `firestore:"rejectionReason,omitempty" json:"rejection_reason,omitempty"`

	CreatedAt  time.Time  `firestore:"createdAt,serverTimestamp" json:"created_at"`
	ExpiresAt  time.Time  `firestore:"expiresAt" json:"expires_at"`
	AppliedAt  *time.Time `firestore:"appliedAt,omitempty" json:"applied_at,omitempty"`
	ApprovedAt *time.Time `firestore:"approvedAt,omitempty" json:"approved_at,omitempty"`
	RejectedAt *time.Time `firestore:"rejectedAt,omitempty" json:"rejected_at,omitempty"`
}

// Expired reports whether an active invite's window has passed.
func (i *StoreInvite) Expired(now time.Time) bool {
	return i.Status == StatusActive && !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// IsTerminal reports whether no further transition is allowed.
func IsTerminal(status string) bool {
	switch status {
	case StatusApproved, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// CanTransition is the full transition matrix. Rejection is allowed from any
// non-terminal state; everything else is the single forward path.
func CanTransition(from, to string) bool {
	if to == StatusRejected {
		return !IsTerminal(from)
	}
	switch from {
	case StatusActive:
		return to == StatusApplied || to == StatusExpired
	case StatusApplied:
		return to == StatusPendingAdmin
	case StatusPendingAdmin:
		return to == StatusApproved
	}
	return false
}

// StaffRecord is the subordinate relationship written under the store at
// admin finalization, never before.
type StaffRecord struct {
	UID     string    `firestore:"uid" json:"uid"`
	Role    string    `firestore:"role" json:"role"`
	AddedAt time.Time `firestore:"addedAt,serverTimestamp" json:"added_at"`
}

// Applicant is the profile submitted with an application.
type Applicant struct {
	UID   string
	Name  string
	Email string
	Note  string
}
