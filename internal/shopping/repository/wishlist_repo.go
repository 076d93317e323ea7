package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// WishlistItem is one saved product in a user's wishlist subcollection.
type WishlistItem struct {
	ProductID string    `firestore:"-" json:"product_id"`
	Name      string    `firestore:"name" json:"name"`
	Price     float64   `firestore:"price" json:"price"`
	Image     string    `firestore:"image,omitempty" json:"image,omitempty"`
	AddedAt   time.Time `firestore:"addedAt,serverTimestamp" json:"added_at"`
}

// WishlistRepository manages the users/{uid}/wishlist subcollection.
type WishlistRepository struct {
	db *firestore.Client
}

func NewWishlistRepository(db *firestore.Client) *WishlistRepository {
	return &WishlistRepository{db: db}
}

func (r *WishlistRepository) col(uid string) *firestore.CollectionRef {
	return r.db.Collection("users").Doc(uid).Collection("wishlist")
}

func (r *WishlistRepository) Add(ctx context.Context, uid string, item WishlistItem) error {
	if _, err := r.col(uid).Doc(item.ProductID).Set(ctx, &item); err != nil {
		return fmt.Errorf("add wishlist item: %w", err)
	}
	return nil
}

func (r *WishlistRepository) Remove(ctx context.Context, uid, productID string) error {
	if _, err := r.col(uid).Doc(productID).Delete(ctx); err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	return nil
}

func (r *WishlistRepository) List(ctx context.Context, uid string) ([]WishlistItem, error) {
	it := r.col(uid).Documents(ctx)
	defer it.Stop()

	var out []WishlistItem
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate wishlist: %w", err)
		}
		var item WishlistItem
		if err := snap.DataTo(&item); err != nil {
			return nil, fmt.Errorf("decode wishlist item %s: %w", snap.Ref.ID, err)
		}
		item.ProductID = snap.Ref.ID
		out = append(out, item)
	}
	return out, nil
}

// Count feeds the tracking collector's wishlist counter.
func (r *WishlistRepository) Count(ctx context.Context, uid string) (int, error) {
	items, err := r.List(ctx, uid)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}
