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

const productsCollection = "products"

// ProductRepository reads and writes the products collection.
type ProductRepository struct {
	db *firestore.Client
}

func NewProductRepository(db *firestore.Client) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (string, error) {
	ref, _, err := r.db.Collection(productsCollection).Add(ctx, p)
	if err != nil {
		return "", fmt.Errorf("create product: %w", err)
	}
	return ref.ID, nil
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	snap, err := r.db.Collection(productsCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}

	var p domain.Product
	if err := snap.DataTo(&p); err != nil {
		return nil, fmt.Errorf("decode product %s: %w", id, err)
	}
	p.ID = snap.Ref.ID
	return &p, nil
}

func (r *ProductRepository) Update(ctx context.Context, id string, updates []firestore.Update) error {
	if _, err := r.db.Collection(productsCollection).Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("update product %s: %w", id, err)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Collection(productsCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return nil
}

// ListByStore returns a store's catalog.
func (r *ProductRepository) ListByStore(ctx context.Context, storeID string) ([]domain.Product, error) {
	q := r.db.Collection(productsCollection).Where("storeId", "==", storeID)
	return r.collect(q.Documents(ctx))
}

// List returns up to limit products for the storefront.
func (r *ProductRepository) List(ctx context.Context, limit int) ([]domain.Product, error) {
	q := r.db.Collection(productsCollection).Limit(limit)
	return r.collect(q.Documents(ctx))
}

func (r *ProductRepository) collect(it *firestore.DocumentIterator) ([]domain.Product, error) {
	defer it.Stop()

	var out []domain.Product
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate products: %w", err)
		}
		var p domain.Product
		if err := snap.DataTo(&p); err != nil {
			return nil, fmt.Errorf("decode product %s: %w", snap.Ref.ID, err)
		}
		p.ID = snap.Ref.ID
		out = append(out, p)
	}
	return out, nil
}
