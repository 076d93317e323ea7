package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	notifdomain "github.com/aurashop/marketplace-backend/internal/notifications/domain"
	"github.com/aurashop/marketplace-backend/internal/staffing/domain"
)

const (
	invitesCollection = "store_invites"
	usersCollection   = "users"
	storesCollection  = "stores"
)

// InviteRepository owns the store_invites collection plus the cross-document
// writes staff finalization needs.
type InviteRepository struct {
	client *firestore.Client
	now    func() time.Time
}

func NewInviteRepository(client *firestore.Client) *InviteRepository {
	return &InviteRepository{client: client, now: time.Now}
}

func (r *InviteRepository) doc(token string) *firestore.DocumentRef {
	return r.client.Collection(invitesCollection).Doc(token)
}

// Create mints a new invite. The generated token doubles as the document id.
func (r *InviteRepository) Create(ctx context.Context, storeID, role string) (*domain.StoreInvite, error) {
	inv := &domain.StoreInvite{
		StoreID:   storeID,
		Role:      role,
		Status:    domain.StatusActive,
		ExpiresAt: r.now().Add(domain.InviteTTL),
	}
	token := uuid.NewString()
	if _, err := r.doc(token).Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invite: %w", err)
	}
	inv.ID = token
	log.Printf("[staffing] invite created token=%s store=%s role=%s", token, storeID, role)
	return inv, nil
}

// Get fetches one invite by token.
func (r *InviteRepository) Get(ctx context.Context, token string) (*domain.StoreInvite, error) {
	snap, err := r.doc(token).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrInviteNotFound
		}
		return nil, fmt.Errorf("get invite: %w", err)
	}
	return decode(snap)
}

// Apply records the applicant and moves the invite to applied. The status
// check runs inside a transaction so two racing applicants cannot both win.
func (r *InviteRepository) Apply(ctx context.Context, token string, a domain.Applicant) (*domain.StoreInvite, error) {
	var out *domain.StoreInvite
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(r.doc(token))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return domain.ErrInviteNotFound
			}
			return err
		}
		inv, err := decode(snap)
		if err != nil {
			return err
		}
		if inv.Expired(r.now()) {
			return domain.ErrInviteExpired
		}
		if !domain.CanTransition(inv.Status, domain.StatusApplied) {
			return domain.ErrInvalidTransition
		}
		now := r.now()
		if err := tx.Update(r.doc(token), []firestore.Update{
			{Path: "status", Value: domain.StatusApplied},
			{Path: "applicantUid", Value: a.UID},
			{Path: "applicantName", Value: a.Name},
			{Path: "applicantEmail", Value: a.Email},
			{Path: "applicantNote", Value: a.Note},
			{Path: "appliedAt", Value: now},
		}); err != nil {
			return err
		}
		inv.Status = domain.StatusApplied
		inv.ApplicantUID = a.UID
		inv.ApplicantName = a.Name
		inv.ApplicantEmail = a.Email
		inv.ApplicantNote = a.Note
		inv.AppliedAt = &now
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[staffing] application received token=%s applicant=%s", token, a.UID)
	return out, nil
}

// Approve is the owner's half of the two-party approval. It grants nothing;
// it only forwards the invite to the admin queue.
func (r *InviteRepository) Approve(ctx context.Context, token string) (*domain.StoreInvite, error) {
	var out *domain.StoreInvite
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(r.doc(token))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return domain.ErrInviteNotFound
			}
			return err
		}
		inv, err := decode(snap)
		if err != nil {
			return err
		}
		if !domain.CanTransition(inv.Status, domain.StatusPendingAdmin) {
			return domain.ErrInvalidTransition
		}
		if err := tx.Update(r.doc(token), []firestore.Update{
			{Path: "status", Value: domain.StatusPendingAdmin},
		}); err != nil {
			return err
		}
		inv.Status = domain.StatusPendingAdmin
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Finalize is the admin's half: one transaction reads the invite, writes the
// staff record under the store, marks the invite approved, widens the user's
// roles, and drops a welcome notification into their feed. A racing second
// finalization fails the status precondition and applies nothing.
func (r *InviteRepository) Finalize(ctx context.Context, token string) (*domain.StoreInvite, error) {
	var out *domain.StoreInvite
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(r.doc(token))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return domain.ErrInviteNotFound
			}
			return err
		}
		inv, err := decode(snap)
		if err != nil {
			return err
		}
		if !domain.CanTransition(inv.Status, domain.StatusApproved) {
			return domain.ErrInvalidTransition
		}
		if inv.ApplicantUID == "" {
			return fmt.Errorf("invite %s has no applicant", token)
		}
		now := r.now()

		staffRef := r.client.Collection(storesCollection).Doc(inv.StoreID).
			Collection("staff").Doc(inv.ApplicantUID)
		if err := tx.Set(staffRef, domain.StaffRecord{
			UID:  inv.ApplicantUID,
			Role: inv.Role,
		}); err != nil {
			return err
		}

		if err := tx.Update(r.doc(token), []firestore.Update{
			{Path: "status", Value: domain.StatusApproved},
			{Path: "approvedAt", Value: now},
		}); err != nil {
			return err
		}

		userRef := r.client.Collection(usersCollection).Doc(inv.ApplicantUID)
		if err := tx.Update(userRef, []firestore.Update{
			{Path: "roles", Value: firestore.ArrayUnion("staff", "vendor")},
		}); err != nil {
			return err
		}

		noteRef := userRef.Collection("notifications").NewDoc()
		if err := tx.Set(noteRef, notifdomain.Notification{
			Title:   "Welcome to the team!",
			Message: "Your staff application has been approved. You now have access to the store dashboard.",
			Type:    notifdomain.TypeSuccess,
			Link:    "/vendor",
		}); err != nil {
			return err
		}

		inv.Status = domain.StatusApproved
		inv.ApprovedAt = &now
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[staffing] invite finalized token=%s staff=%s store=%s", token, out.ApplicantUID, out.StoreID)
	return out, nil
}

// Reject moves any non-terminal invite to rejected with the given reason.
func (r *InviteRepository) Reject(ctx context.Context, token, reason string) error {
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(r.doc(token))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return domain.ErrInviteNotFound
			}
			return err
		}
		inv, err := decode(snap)
		if err != nil {
			return err
		}
		if !domain.CanTransition(inv.Status, domain.StatusRejected) {
			return domain.ErrInvalidTransition
		}
		return tx.Update(r.doc(token), []firestore.Update{
			{Path: "status", Value: domain.StatusRejected},
			{Path: "rejectionReason", Value: reason},
			{Path: "rejectedAt", Value: r.now()},
		})
	})
}

// ListByStore returns all invites a store has issued, newest first.
func (r *InviteRepository) ListByStore(ctx context.Context, storeID string) ([]domain.StoreInvite, error) {
	it := r.client.Collection(invitesCollection).
		Where("storeId", "==", storeID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	return collect(it)
}

// ListByStatus returns invites in one state, e.g. the admin's pending queue.
func (r *InviteRepository) ListByStatus(ctx context.Context, inviteStatus string, limit int) ([]domain.StoreInvite, error) {
	q := r.client.Collection(invitesCollection).Where("status", "==", inviteStatus)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return collect(q.Documents(ctx))
}

// ExpireStale flips every active invite whose window has passed to expired
// and returns how many were flipped.
func (r *InviteRepository) ExpireStale(ctx context.Context) (int, error) {
	it := r.client.Collection(invitesCollection).
		Where("status", "==", domain.StatusActive).
		Where("expiresAt", "<", r.now()).
		Documents(ctx)
	defer it.Stop()

	expired := 0
	batch := r.client.BulkWriter(ctx)
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return expired, fmt.Errorf("scan stale invites: %w", err)
		}
		if _, err := batch.Update(snap.Ref, []firestore.Update{
			{Path: "status", Value: domain.StatusExpired},
		}); err != nil {
			return expired, err
		}
		expired++
	}
	batch.End()
	if expired > 0 {
		log.Printf("[staffing] expired %d stale invites", expired)
	}
	return expired, nil
}

func decode(snap *firestore.DocumentSnapshot) (*domain.StoreInvite, error) {
	var inv domain.StoreInvite
	if err := snap.DataTo(&inv); err != nil {
		return nil, fmt.Errorf("decode invite %s: %w", snap.Ref.ID, err)
	}
	inv.ID = snap.Ref.ID
	return &inv, nil
}

func collect(it *firestore.DocumentIterator) ([]domain.StoreInvite, error) {
	defer it.Stop()
	var out []domain.StoreInvite
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("iterate invites: %w", err)
		}
		inv, err := decode(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
}
