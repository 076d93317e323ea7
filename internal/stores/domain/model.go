package domain

import "time"

// Store lifecycle status.
const (
	StatusDraft         = "draft"
	StatusPendingReview = "pending_review"
	StatusActive        = "active"
	StatusRejected      = "rejected"
	StatusSuspended     = "suspended"
)

// KYC verification status. A store reaches StatusActive only after
// KYCVerified, and only through the admin review path.
const (
	KYCPending   = "pending"
	KYCSubmitted = "submitted"
	KYCVerified  = "verified"
	KYCRejected  = "rejected"
)

// BankDetails is the payout account captured during onboarding.
type BankDetails struct {
	Name    string `firestore:"name" json:"name"`
	Account string `firestore:"account" json:"account"`
	IFSC    string `firestore:"ifsc" json:"ifsc"`
}

// KYCMedia is the uploaded identity material for one application.
type KYCMedia struct {
	VideoURL string `firestore:"videoUrl" json:"video_url"`
	DocURL   string `firestore:"docUrl" json:"doc_url"`
}

// Store is a vendor's shop.
type Store struct {
	ID      string `firestore:"-" json:"id"`
	OwnerID string `firestore:"ownerId" json:"owner_id"`
	Name    string `firestore:"name" json:"name"`
	Phone   string `firestore:"phone" json:"phone"`

	Status    string `firestore:"status" json:"status"`
	KYCStatus string `firestore:"kycStatus" json:"kyc_status"`

	Category    string       `firestore:"category,omitempty" json:"category,omitempty"`
	Address     string       `firestore:"address,omitempty" json:"address,omitempty"`
	City        string       `firestore:"city,omitempty" json:"city,omitempty"`
	Hours       string       `firestore:"hours,omitempty" json:"hours,omitempty"`
	Bank        *BankDetails `firestore:"bankDetails,omitempty" json:"bank_details,omitempty"`
	Description string       `firestore:"description,omitempty" json:"description,omitempty"`
	LogoURL     string       `firestore:"logoUrl,omitempty" json:"logo_url,omitempty"`
	BannerURL   string       `firestore:"bannerUrl,omitempty" json:"banner_url,omitempty"`

	KYC *KYCMedia `firestore:"kyc,omitempty" json:"kyc,omitempty"`
	// Legacy flat KYC fields written by early store applications. Folded
	// into KYC on read; never written anymore.
	LegacyKYCVideoURL string `firestore:"kycVideoUrl,omitempty" json:"-"`
	LegacyKYCDocURL   string `firestore:"kycDocUrl,omitempty" json:"-"`

	OnboardingStep int     `firestore:"onboardingStep" json:"onboarding_step"`
	CommissionRate float64 `firestore:"commissionRate" json:"commission_rate"`
	Rating         float64 `firestore:"rating" json:"rating"`
	ReviewCount    int     `firestore:"reviewCount" json:"review_count"`
	IsActive       bool    `firestore:"isActive" json:"is_active"`
	IsVisible      bool    `firestore:"isVisible" json:"is_visible"`

	RejectionReason  string   `firestore:"rejectionReason,omitempty" json:"rejection_reason,omitempty"`
	RejectionDetails []string `firestore:"rejectionDetails,omitempty" json:"rejection_details,omitempty"`

	CreatedAt   time.Time  `firestore:"createdAt,serverTimestamp" json:"created_at"`
	SubmittedAt *time.Time `firestore:"submittedAt,omitempty" json:"submitted_at,omitempty"`
	ApprovedAt  *time.Time `firestore:"approvedAt,omitempty" json:"approved_at,omitempty"`
	RejectedAt  *time.Time `firestore:"rejectedAt,omitempty" json:"rejected_at,omitempty"`
}

// Normalize default-fills optional legacy fields so callers always see the
// current document shape.
func (s *Store) Normalize() {
	if s.Status == "" {
		s.Status = StatusDraft
	}
	if s.KYCStatus == "" {
		s.KYCStatus = KYCPending
	}
	if s.KYC == nil && (s.LegacyKYCVideoURL != "" || s.LegacyKYCDocURL != "") {
		s.KYC = &KYCMedia{
			VideoURL: s.LegacyKYCVideoURL,
			DocURL:   s.LegacyKYCDocURL,
		}
	}
}

// HasKYCMedia reports whether both identity artifacts are present.
func (s *Store) HasKYCMedia() bool {
	return s.KYC != nil && s.KYC.VideoURL != "" && s.KYC.DocURL != ""
}
