package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/aurashop/marketplace-backend/internal/catalog/domain"
)

const ordersCollection = "orders"

// OrderRepository reads and writes the orders collection.
type OrderRepository struct {
	db *firestore.Client
}

func NewOrderRepository(db *firestore.Client) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (string, error) {
	ref, _, err := r.db.Collection(ordersCollection).Add(ctx, o)
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}
	return ref.ID, nil
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	snap, err := r.db.Collection(ordersCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}

	var o domain.Order
	if err := snap.DataTo(&o); err != nil {
		return nil, fmt.Errorf("decode order %s: %w", id, err)
	}
	o.ID = snap.Ref.ID
	return &o, nil
}

func (r *OrderRepository) SetStatus(ctx context.Context, id, orderStatus string) error {
	_, err := r.db.Collection(ordersCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: orderStatus},
	})
	if status.Code(err) == codes.NotFound {
		return domain.ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("update order %s: %w", id, err)
	}
	return nil
}

// ListByUser returns a customer's order history.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	q := r.db.Collection(ordersCollection).Where("userId", "==", userID)
	return r.collect(q.Documents(ctx))
}

// ListByStore returns orders placed against one store.
func (r *OrderRepository) ListByStore(ctx context.Context, storeID string) ([]domain.Order, error) {
	q := r.db.Collection(ordersCollection).Where("storeId", "==", storeID)
	return r.collect(q.Documents(ctx))
}

func (r *OrderRepository) collect(it *firestore.DocumentIterator) ([]domain.Order, error) {
	defer it.Stop()

	var out []domain.Order
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate orders: %w", err)
		}
		var o domain.Order
		if err := snap.DataTo(&o); err != nil {
			return nil, fmt.Errorf("decode order %s: %w", snap.Ref.ID, err)
		}
		o.ID = snap.Ref.ID
		out = append(out, o)
	}
	return out, nil
}
