package domain

import (
	"strings"
	"time"
)

// Event kinds accepted by the collector.
const (
	EventPageView = "page_view"
	EventCustom   = "custom"
	EventTheme    = "theme_change"
	EventCommerce = "commerce_change"
	EventCheckout = "checkout_step"
)

// DeviceInfo is the client-reported device fingerprint.
type DeviceInfo struct {
	Platform   string `firestore:"platform" json:"platform"`
	UserAgent  string `firestore:"userAgent" json:"user_agent"`
	ScreenSize string `firestore:"screenSize,omitempty" json:"screen_size,omitempty"`
	Language   string `firestore:"language,omitempty" json:"language,omitempty"`
}

// Preferences captures the visitor's UI choices.
type Preferences struct {
	Theme             string `firestore:"theme" json:"theme"`
	AnimationsEnabled bool   `firestore:"animationsEnabled" json:"animations_enabled"`
	Language          string `firestore:"language,omitempty" json:"language,omitempty"`
	Currency          string `firestore:"currency,omitempty" json:"currency,omitempty"`
}

// Ecommerce is the rolling shopping-state snapshot kept on the session.
type Ecommerce struct {
	CartItemCount int      `firestore:"cartItemCount" json:"cart_item_count"`
	CartTotal     float64  `firestore:"cartTotal" json:"cart_total"`
	WishlistCount int      `firestore:"wishlistCount" json:"wishlist_count"`
	CheckoutStep  int      `firestore:"checkoutStep" json:"checkout_step"`
	AbandonedCart bool     `firestore:"abandonedCart" json:"abandoned_cart"`
	Interests     []string `firestore:"interests,omitempty" json:"interests,omitempty"`
}

// PageVisit is one entry in the append-only activity log.
type PageVisit struct {
	Path      string `firestore:"path" json:"path"`
	Name      string `firestore:"name,omitempty" json:"name,omitempty"`
	Timestamp int64  `firestore:"timestamp" json:"timestamp"`
	Referrer  string `firestore:"referrer,omitempty" json:"referrer,omitempty"`
}

// SessionInit is the merge-written document base created on first contact.
type SessionInit struct {
	SessionID   string      `firestore:"sessionId"`
	Device      DeviceInfo  `firestore:"device"`
	Preferences Preferences `firestore:"preferences"`
	Ecommerce   Ecommerce   `firestore:"ecommerce"`
	Referrer    string      `firestore:"referrer,omitempty"`
}

// Event is what consumers publish to the collector. Exactly one of the
// kind-specific payloads is meaningful for a given Kind.
type Event struct {
	Kind      string
	UserID    string
	SessionID string
	At        time.Time

	// EventPageView
	Visit PageVisit

	// EventCustom / EventCheckout
	Name string
	Data map[string]any

	// EventTheme
	Preferences *Preferences

	// EventCommerce
	Ecommerce *Ecommerce
}

// ActivityRow is the Postgres timeseries projection of one event.
type ActivityRow struct {
	SessionID   string
	UserID      string
	Time        time.Time
	TimestampMs int64
	EventType   string
	Path        string
	Payload     map[string]any
}

// Row projects an event into its timeseries form.
func (e Event) Row() ActivityRow {
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	row := ActivityRow{
		SessionID:   e.SessionID,
		UserID:      e.UserID,
		Time:        at,
		TimestampMs: at.UnixMilli(),
		EventType:   e.Kind,
		Payload:     e.Data,
	}
	switch e.Kind {
	case EventPageView:
		row.Path = e.Visit.Path
	case EventCustom, EventCheckout:
		if row.Payload == nil {
			row.Payload = map[string]any{}
		}
		row.Payload["name"] = e.Name
	}
	return row
}

// InterestFromPath infers a category interest from a storefront path, empty
// when the path is not a category page.
func InterestFromPath(path string) string {
	const marker = "/category/"
	i := strings.LastIndex(path, marker)
	if i < 0 {
		return ""
	}
	rest := path[i+len(marker):]
	if j := strings.IndexAny(rest, "/?"); j >= 0 {
		return rest[:j]
	}
	return rest
}
