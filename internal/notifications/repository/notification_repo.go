package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/aurashop/marketplace-backend/internal/notifications/domain"
)

// NotificationRepository manages per-user notification feeds under
// users/{uid}/notifications.
type NotificationRepository struct {
	db *firestore.Client
}

func NewNotificationRepository(db *firestore.Client) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) col(uid string) *firestore.CollectionRef {
	return r.db.Collection("users").Doc(uid).Collection("notifications")
}

// Send appends one unread record to the target user's feed.
func (r *NotificationRepository) Send(ctx context.Context, userID string, p domain.Payload) error {
	n := domain.Notification{
		Title:   p.Title,
		Message: p.Message,
		Type:    p.Type,
		Link:    p.Link,
		IsRead:  false,
	}
	if _, _, err := r.col(userID).Add(ctx, &n); err != nil {
		return fmt.Errorf("send notification to %s: %w", userID, err)
	}
	return nil
}

// List returns the newest limit records.
func (r *NotificationRepository) List(ctx context.Context, uid string, limit int) ([]domain.Notification, error) {
	it := r.col(uid).OrderBy("createdAt", firestore.Desc).Limit(limit).Documents(ctx)
	defer it.Stop()

	var out []domain.Notification
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate notifications: %w", err)
		}
		var n domain.Notification
		if err := snap.DataTo(&n); err != nil {
			return nil, fmt.Errorf("decode notification %s: %w", snap.Ref.ID, err)
		}
		n.ID = snap.Ref.ID
		out = append(out, n)
	}
	return out, nil
}

// MarkRead toggles one record in the caller's own feed.
func (r *NotificationRepository) MarkRead(ctx context.Context, uid, id string) error {
	if _, err := r.col(uid).Doc(id).Update(ctx, []firestore.Update{
		{Path: "isRead", Value: true},
	}); err != nil {
		return fmt.Errorf("mark notification %s read: %w", id, err)
	}
	return nil
}

// MarkAllRead batches every unread record of the caller into one atomic
// multi-write.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, uid string) (int, error) {
	it := r.col(uid).Where("isRead", "==", false).Documents(ctx)
	defer it.Stop()

	batch := r.db.Batch()
	updated := 0
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("iterate unread notifications: %w", err)
		}
		batch.Update(snap.Ref, []firestore.Update{{Path: "isRead", Value: true}})
		updated++
	}

	if updated == 0 {
		return 0, nil
	}
	if _, err := batch.Commit(ctx); err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return updated, nil
}
