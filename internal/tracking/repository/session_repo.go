package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/aurashop/marketplace-backend/internal/tracking/domain"
)

// SessionRepository writes per-session behavior documents under
// users/{uid}/tracking_sessions/{sessionId}.
type SessionRepository struct {
	client *firestore.Client
}

func NewSessionRepository(client *firestore.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

func (r *SessionRepository) doc(uid, sessionID string) *firestore.DocumentRef {
	return r.client.Collection("users").Doc(uid).
		Collection("tracking_sessions").Doc(sessionID)
}

// Init merge-writes the session base so re-initializing an existing session
// never clobbers its accumulated activity.
func (r *SessionRepository) Init(ctx context.Context, uid string, init domain.SessionInit) error {
	data := map[string]any{
		"sessionId":   init.SessionID,
		"startTime":   firestore.ServerTimestamp,
		"lastActive":  firestore.ServerTimestamp,
		"device":      init.Device,
		"preferences": init.Preferences,
		"ecommerce":   init.Ecommerce,
		"referrer":    init.Referrer,
	}
	if _, err := r.doc(uid, init.SessionID).Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("init tracking session: %w", err)
	}
	return nil
}

// ApplyEvent folds one observed event into the session document.
func (r *SessionRepository) ApplyEvent(ctx context.Context, ev domain.Event) error {
	ref := r.doc(ev.UserID, ev.SessionID)
	updates := []firestore.Update{
		{Path: "lastActive", Value: firestore.ServerTimestamp},
	}

	switch ev.Kind {
	case domain.EventPageView:
		updates = append(updates,
			firestore.Update{Path: "activity_log", Value: firestore.ArrayUnion(ev.Visit)},
			firestore.Update{Path: "browsing.lastVisited", Value: ev.Visit.Path},
			firestore.Update{Path: "browsing.pagesVisited", Value: firestore.Increment(1)},
		)
		if interest := domain.InterestFromPath(ev.Visit.Path); interest != "" {
			updates = append(updates, firestore.Update{
				Path: "ecommerce.interests", Value: firestore.ArrayUnion(interest),
			})
		}
	case domain.EventCustom, domain.EventCheckout:
		entry := map[string]any{"name": ev.Name, "data": ev.Data, "timestamp": ev.At.UnixMilli()}
		updates = append(updates, firestore.Update{Path: "events", Value: firestore.ArrayUnion(entry)})
		if ev.Kind == domain.EventCheckout {
			if step, ok := ev.Data["step"]; ok {
				updates = append(updates, firestore.Update{Path: "ecommerce.checkoutStep", Value: step})
			}
		}
	case domain.EventTheme:
		if ev.Preferences == nil {
			return fmt.Errorf("theme event without preferences")
		}
		updates = append(updates,
			firestore.Update{Path: "preferences.theme", Value: ev.Preferences.Theme},
			firestore.Update{Path: "preferences.animationsEnabled", Value: ev.Preferences.AnimationsEnabled},
		)
	case domain.EventCommerce:
		if ev.Ecommerce == nil {
			return fmt.Errorf("commerce event without snapshot")
		}
		updates = append(updates,
			firestore.Update{Path: "ecommerce.cartItemCount", Value: ev.Ecommerce.CartItemCount},
			firestore.Update{Path: "ecommerce.cartTotal", Value: ev.Ecommerce.CartTotal},
			firestore.Update{Path: "ecommerce.wishlistCount", Value: ev.Ecommerce.WishlistCount},
			firestore.Update{Path: "ecommerce.abandonedCart", Value: ev.Ecommerce.CartItemCount > 0},
		)
	default:
		return fmt.Errorf("unknown tracking event kind %q", ev.Kind)
	}

	if _, err := ref.Update(ctx, updates); err != nil {
		return fmt.Errorf("apply tracking event: %w", err)
	}
	return nil
}
