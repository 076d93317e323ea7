package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/aurashop/marketplace-backend/internal/users/domain"
)

const usersCollection = "users"

// UserRepository reads and writes the users collection.
type UserRepository struct {
	db *firestore.Client
}

func NewUserRepository(db *firestore.Client) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) doc(uid string) *firestore.DocumentRef {
	return r.db.Collection(usersCollection).Doc(uid)
}

// Get retrieves a user profile by uid.
func (r *UserRepository) Get(ctx context.Context, uid string) (*domain.User, error) {
	snap, err := r.doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", uid, err)
	}

	var u domain.User
	if err := snap.DataTo(&u); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", uid, err)
	}
	u.UID = snap.Ref.ID
	normalize(&u)
	return &u, nil
}

// GetOrCreate returns the profile, creating a default customer profile on
// first sign-in.
func (r *UserRepository) GetOrCreate(ctx context.Context, seed domain.User) (*domain.User, error) {
	u, err := r.Get(ctx, seed.UID)
	if err == nil {
		return u, nil
	}
	if err != domain.ErrUserNotFound {
		return nil, err
	}

	seed.Roles = []string{domain.RoleCustomer}
	seed.Addresses = []domain.Address{}
	if _, err := r.doc(seed.UID).Set(ctx, &seed); err != nil {
		return nil, fmt.Errorf("create user %s: %w", seed.UID, err)
	}
	return &seed, nil
}

// UpdateProfile applies a partial profile update.
func (r *UserRepository) UpdateProfile(ctx context.Context, uid string, updates []firestore.Update) error {
	if _, err := r.doc(uid).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("update user %s: %w", uid, err)
	}
	return nil
}

// AddAddress appends one address to the user's list.
func (r *UserRepository) AddAddress(ctx context.Context, uid string, addr domain.Address) error {
	return r.UpdateProfile(ctx, uid, []firestore.Update{
		{Path: "addresses", Value: firestore.ArrayUnion(addr)},
	})
}

// RemoveAddress drops an address by id. Firestore's ArrayRemove matches whole
// values, so the list is read, filtered and written back.
func (r *UserRepository) RemoveAddress(ctx context.Context, uid, addressID string) error {
	u, err := r.Get(ctx, uid)
	if err != nil {
		return err
	}

	kept := make([]domain.Address, 0, len(u.Addresses))
	found := false
	for _, a := range u.Addresses {
		if a.ID == addressID {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		return domain.ErrAddressNotFound
	}

	return r.UpdateProfile(ctx, uid, []firestore.Update{
		{Path: "addresses", Value: kept},
	})
}

// AddRole appends a role to the user's role set, attaching a pending profile
// stub where the role carries one.
func (r *UserRepository) AddRole(ctx context.Context, uid, role string) error {
	updates := []firestore.Update{
		{Path: "roles", Value: firestore.ArrayUnion(role)},
	}
	switch role {
	case domain.RoleVendor:
		updates = append(updates,
			firestore.Update{Path: "vendorProfile", Value: &domain.RoleProfile{Status: "pending"}},
			firestore.Update{Path: "vendorSince", Value: firestore.ServerTimestamp},
		)
	case domain.RoleStaff:
		updates = append(updates,
			firestore.Update{Path: "managerProfile", Value: &domain.RoleProfile{Status: "pending"}},
		)
	}
	return r.UpdateProfile(ctx, uid, updates)
}

// SetKYCDocuments caches uploaded KYC material on the user for reuse by later
// store applications.
func (r *UserRepository) SetKYCDocuments(ctx context.Context, uid string, docs domain.KYCDocuments) error {
	return r.UpdateProfile(ctx, uid, []firestore.Update{
		{Path: "kycDocuments", Value: &docs},
	})
}

// SetBanned toggles the ban flag.
func (r *UserRepository) SetBanned(ctx context.Context, uid string, banned bool) error {
	return r.UpdateProfile(ctx, uid, []firestore.Update{
		{Path: "isBanned", Value: banned},
	})
}

// SetRoles replaces the role set. Admin console only; normal flows append.
func (r *UserRepository) SetRoles(ctx context.Context, uid string, roles []string) error {
	return r.UpdateProfile(ctx, uid, []firestore.Update{
		{Path: "roles", Value: roles},
	})
}

// List returns up to limit users.
func (r *UserRepository) List(ctx context.Context, limit int) ([]domain.User, error) {
	q := r.db.Collection(usersCollection).Limit(limit)
	return r.collect(q.Documents(ctx))
}

// ListVendors returns every user carrying the vendor role.
func (r *UserRepository) ListVendors(ctx context.Context) ([]domain.User, error) {
	q := r.db.Collection(usersCollection).Where("roles", "array-contains", domain.RoleVendor)
	return r.collect(q.Documents(ctx))
}

// SearchByEmailPrefix approximates case-insensitive prefix search with two
// range queries, one as typed and one capitalized.
func (r *UserRepository) SearchByEmailPrefix(ctx context.Context, prefix string, limit int) ([]domain.User, error) {
	variants := prefixVariants(prefix)

	seen := make(map[string]struct{})
	var out []domain.User
	for _, v := range variants {
		q := r.db.Collection(usersCollection).
			Where("email", ">=", v).
			Where("email", "<", v+"").
			Limit(limit)
		users, err := r.collect(q.Documents(ctx))
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			if _, dup := seen[u.UID]; dup {
				continue
			}
			seen[u.UID] = struct{}{}
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *UserRepository) collect(it *firestore.DocumentIterator) ([]domain.User, error) {
	defer it.Stop()

	var out []domain.User
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate users: %w", err)
		}
		var u domain.User
		if err := snap.DataTo(&u); err != nil {
			return nil, fmt.Errorf("decode user %s: %w", snap.Ref.ID, err)
		}
		u.UID = snap.Ref.ID
		normalize(&u)
		out = append(out, u)
	}
	return out, nil
}

// normalize default-fills optional legacy fields so callers never see a
// partially-shaped document.
func normalize(u *domain.User) {
	if u.Roles == nil {
		u.Roles = []string{domain.RoleCustomer}
	}
	if u.Addresses == nil {
		u.Addresses = []domain.Address{}
	}
}

func prefixVariants(prefix string) []string {
	if prefix == "" {
		return nil
	}
	variants := []string{prefix}
	capped := capitalize(prefix)
	if capped != prefix {
		variants = append(variants, capped)
	}
	return variants
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	first := s[:1]
	upper := []byte(first)
	if upper[0] >= 'a' && upper[0] <= 'z' {
		upper[0] -= 'a' - 'A'
	}
	return string(upper) + s[1:]
}
