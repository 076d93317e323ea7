package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CartItem is one product line in a user's cart subcollection, keyed by
// product id.
type CartItem struct {
	ProductID string    `firestore:"-" json:"product_id"`
	Name      string    `firestore:"name" json:"name"`
	Brand     string    `firestore:"brand,omitempty" json:"brand,omitempty"`
	Price     float64   `firestore:"price" json:"price"`
	Image     string    `firestore:"image,omitempty" json:"image,omitempty"`
	Quantity  int       `firestore:"quantity" json:"quantity"`
	AddedAt   time.Time `firestore:"addedAt,serverTimestamp" json:"added_at"`
}

// CartRepository manages the users/{uid}/cart subcollection.
type CartRepository struct {
	db *firestore.Client
}

func NewCartRepository(db *firestore.Client) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) col(uid string) *firestore.CollectionRef {
	return r.db.Collection("users").Doc(uid).Collection("cart")
}

// Add inserts the item, or increments quantity when it is already present.
func (r *CartRepository) Add(ctx context.Context, uid string, item CartItem) error {
	ref := r.col(uid).Doc(item.ProductID)

	_, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		if item.Quantity == 0 {
			item.Quantity = 1
		}
		if _, err := ref.Set(ctx, &item); err != nil {
			return fmt.Errorf("add cart item: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("check cart item: %w", err)
	}

	if _, err := ref.Update(ctx, []firestore.Update{
		{Path: "quantity", Value: firestore.Increment(1)},
	}); err != nil {
		return fmt.Errorf("increment cart item: %w", err)
	}
	return nil
}

func (r *CartRepository) Remove(ctx context.Context, uid, productID string) error {
	if _, err := r.col(uid).Doc(productID).Delete(ctx); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

func (r *CartRepository) List(ctx context.Context, uid string) ([]CartItem, error) {
	it := r.col(uid).Documents(ctx)
	defer it.Stop()

	var out []CartItem
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate cart: %w", err)
		}
		var item CartItem
		if err := snap.DataTo(&item); err != nil {
			return nil, fmt.Errorf("decode cart item %s: %w", snap.Ref.ID, err)
		}
		item.ProductID = snap.Ref.ID
		out = append(out, item)
	}
	return out, nil
}

// Summary returns the item count and total the tracking collector mirrors.
func (r *CartRepository) Summary(ctx context.Context, uid string) (count int, total float64, err error) {
	items, err := r.List(ctx, uid)
	if err != nil {
		return 0, 0, err
	}
	for _, it := range items {
		count += it.Quantity
		total += it.Price * float64(it.Quantity)
	}
	return count, total, nil
}

func (r *CartRepository) Clear(ctx context.Context, uid string) error {
	items, err := r.List(ctx, uid)
	if err != nil {
		return err
	}

	batch := r.db.Batch()
	for _, it := range items {
		batch.Delete(r.col(uid).Doc(it.ProductID))
	}
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
