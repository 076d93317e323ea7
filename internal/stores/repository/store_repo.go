package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/aurashop/marketplace-backend/internal/stores/domain"
)

const storesCollection = "stores"

// StoreRepository reads and writes the stores collection.
type StoreRepository struct {
	db *firestore.Client
}

func NewStoreRepository(db *firestore.Client) *StoreRepository {
	return &StoreRepository{db: db}
}

func (r *StoreRepository) doc(id string) *firestore.DocumentRef {
	return r.db.Collection(storesCollection).Doc(id)
}

// Create inserts a draft store and returns its generated id.
func (r *StoreRepository) Create(ctx context.Context, s *domain.Store) (string, error) {
	s.Status = domain.StatusDraft
	s.KYCStatus = domain.KYCPending
	if s.OnboardingStep == 0 {
		s.OnboardingStep = 1
	}

	ref, _, err := r.db.Collection(storesCollection).Add(ctx, s)
	if err != nil {
		return "", fmt.Errorf("create store: %w", err)
	}
	return ref.ID, nil
}

// Get retrieves one store, legacy fields normalized.
func (r *StoreRepository) Get(ctx context.Context, id string) (*domain.Store, error) {
	snap, err := r.doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrStoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get store %s: %w", id, err)
	}
	return decode(snap)
}

// Update applies a partial update.
func (r *StoreRepository) Update(ctx context.Context, id string, updates []firestore.Update) error {
	if _, err := r.doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ErrStoreNotFound
		}
		return fmt.Errorf("update store %s: %w", id, err)
	}
	return nil
}

// Delete hard-deletes a store. Owner-initiated only.
func (r *StoreRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete store %s: %w", id, err)
	}
	return nil
}

// MarkPendingReview advances a store into the admin review queue.
func (r *StoreRepository) MarkPendingReview(ctx context.Context, id string) error {
	return r.Update(ctx, id, []firestore.Update{
		{Path: "status", Value: domain.StatusPendingReview},
		{Path: "submittedAt", Value: firestore.ServerTimestamp},
	})
}

// MarkKYCVerified activates a store after admin approval.
func (r *StoreRepository) MarkKYCVerified(ctx context.Context, id string) error {
	return r.Update(ctx, id, []firestore.Update{
		{Path: "kycStatus", Value: domain.KYCVerified},
		{Path: "status", Value: domain.StatusActive},
		{Path: "isActive", Value: true},
		{Path: "approvedAt", Value: firestore.ServerTimestamp},
	})
}

// MarkKYCRejected records a rejection with its primary reason and detail list.
func (r *StoreRepository) MarkKYCRejected(ctx context.Context, id, primaryReason string, details []string) error {
	return r.Update(ctx, id, []firestore.Update{
		{Path: "kycStatus", Value: domain.KYCRejected},
		{Path: "status", Value: domain.StatusRejected},
		{Path: "rejectionReason", Value: primaryReason},
		{Path: "rejectionDetails", Value: details},
		{Path: "rejectedAt", Value: firestore.ServerTimestamp},
	})
}

// SetKYCMedia records uploaded (or reused) identity material and marks the
// application submitted.
func (r *StoreRepository) SetKYCMedia(ctx context.Context, id string, media domain.KYCMedia) error {
	return r.Update(ctx, id, []firestore.Update{
		{Path: "kyc", Value: &media},
		{Path: "kycStatus", Value: domain.KYCSubmitted},
	})
}

// SetCommissionRate is an admin console operation.
func (r *StoreRepository) SetCommissionRate(ctx context.Context, id string, rate float64) error {
	return r.Update(ctx, id, []firestore.Update{
		{Path: "commissionRate", Value: rate},
	})
}

// SetVisibility toggles storefront listing.
func (r *StoreRepository) SetVisibility(ctx context.Context, id string, visible bool) error {
	return r.Update(ctx, id, []firestore.Update{
		{Path: "isVisible", Value: visible},
	})
}

// SetStatus force-sets lifecycle status from the admin console (suspend and
// reinstate). The KYC review path uses MarkKYCVerified/MarkKYCRejected.
func (r *StoreRepository) SetStatus(ctx context.Context, id, storeStatus string) error {
	return r.Update(ctx, id, []firestore.Update{
		{Path: "status", Value: storeStatus},
		{Path: "isActive", Value: storeStatus == domain.StatusActive},
	})
}

// ListByOwner returns every store owned by uid.
func (r *StoreRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Store, error) {
	q := r.db.Collection(storesCollection).Where("ownerId", "==", ownerID)
	return r.collect(q.Documents(ctx))
}

// ListByKYCStatus feeds the admin review queue.
func (r *StoreRepository) ListByKYCStatus(ctx context.Context, kycStatus string) ([]domain.Store, error) {
	q := r.db.Collection(storesCollection).Where("kycStatus", "==", kycStatus)
	return r.collect(q.Documents(ctx))
}

// List returns up to limit stores.
func (r *StoreRepository) List(ctx context.Context, limit int) ([]domain.Store, error) {
	q := r.db.Collection(storesCollection).Limit(limit)
	return r.collect(q.Documents(ctx))
}

// SearchByNamePrefix approximates case-insensitive prefix search with two
// range queries, one as typed and one capitalized.
func (r *StoreRepository) SearchByNamePrefix(ctx context.Context, prefix string, limit int) ([]domain.Store, error) {
	if prefix == "" {
		return nil, nil
	}

	variants := []string{prefix}
	if capped := capitalize(prefix); capped != prefix {
		variants = append(variants, capped)
	}

	seen := make(map[string]struct{})
	var out []domain.Store
	for _, v := range variants {
		q := r.db.Collection(storesCollection).
			Where("name", ">=", v).
			Where("name", "<", v+"").
			Limit(limit)
		stores, err := r.collect(q.Documents(ctx))
		if err != nil {
			return nil, err
		}
		for _, s := range stores {
			if _, dup := seen[s.ID]; dup {
				continue
			}
			seen[s.ID] = struct{}{}
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *StoreRepository) collect(it *firestore.DocumentIterator) ([]domain.Store, error) {
	defer it.Stop()

	var out []domain.Store
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate stores: %w", err)
		}
		s, err := decode(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, nil
}

func decode(snap *firestore.DocumentSnapshot) (*domain.Store, error) {
	var s domain.Store
	if err := snap.DataTo(&s); err != nil {
		return nil, fmt.Errorf("decode store %s: %w", snap.Ref.ID, err)
	}
	s.ID = snap.Ref.ID
	s.Normalize()
	return &s, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s[:1])
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b) + s[1:]
}
