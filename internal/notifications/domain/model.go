package domain

import "time"

// Notification types mirror the storefront's toast palette plus the
// marketplace-specific ones.
const (
	TypeInfo      = "info"
	TypeSuccess   = "success"
	TypeWarning   = "warning"
	TypeError     = "error"
	TypeOrder     = "order"
	TypeSystem    = "system"
	TypePromotion = "promotion"
)

// Broadcast audiences.
const (
	TargetAll      = "all"
	TargetVendors  = "vendors"
	TargetSpecific = "specific"
)

// Payload is the caller-supplied content of one notification.
type Payload struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Link    string `json:"link,omitempty"`
}

// Notification is one record in a user's feed.
type Notification struct {
	ID        string    `firestore:"-" json:"id"`
	Title     string    `firestore:"title" json:"title"`
	Message   string    `firestore:"message" json:"message"`
	Type      string    `firestore:"type" json:"type"`
	Link      string    `firestore:"link,omitempty" json:"link,omitempty"`
	IsRead    bool      `firestore:"isRead" json:"is_read"`
	CreatedAt time.Time `firestore:"createdAt,serverTimestamp" json:"created_at"`
}

// BroadcastAudit is the persisted record of one bulk dispatch.
type BroadcastAudit struct {
	ID             string    `json:"id"`
	Audience       string    `json:"audience"`
	RecipientCount int       `json:"recipient_count"`
	SenderUID      string    `json:"sender_uid"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Type           string    `json:"type"`
	CreatedAt      time.Time `json:"created_at"`
}
