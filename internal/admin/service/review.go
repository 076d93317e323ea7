package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aurashop/marketplace-backend/internal/admin/domain"
	notifdomain "github.com/aurashop/marketplace-backend/internal/notifications/domain"
	storedomain "github.com/aurashop/marketplace-backend/internal/stores/domain"
	userdomain "github.com/aurashop/marketplace-backend/internal/users/domain"
)

// StoreAdminRepo is the store surface the review console needs.
type StoreAdminRepo interface {
	Get(ctx context.Context, id string) (*storedomain.Store, error)
	MarkKYCVerified(ctx context.Context, id string) error
	MarkKYCRejected(ctx context.Context, id, primaryReason string, details []string) error
	SetCommissionRate(ctx context.Context, id string, rate float64) error
	SetVisibility(ctx context.Context, id string, visible bool) error
	SetStatus(ctx context.Context, id, status string) error
	ListByKYCStatus(ctx context.Context, kycStatus string) ([]storedomain.Store, error)
	SearchByNamePrefix(ctx context.Context, prefix string, limit int) ([]storedomain.Store, error)
}

// UserAdminRepo is the user surface the console needs.
type UserAdminRepo interface {
	Get(ctx context.Context, uid string) (*userdomain.User, error)
	SetRoles(ctx context.Context, uid string, roles []string) error
	SetBanned(ctx context.Context, uid string, banned bool) error
	SearchByEmailPrefix(ctx context.Context, prefix string, limit int) ([]userdomain.User, error)
	List(ctx context.Context, limit int) ([]userdomain.User, error)
}

// Notifier appends to a user's feed.
type Notifier interface {
	Send(ctx context.Context, userID string, p notifdomain.Payload) error
}

// Review is the admin console's workflow layer: the KYC queue plus the
// vendor and user management operations.
type Review struct {
	stores   StoreAdminRepo
	users    UserAdminRepo
	notifier Notifier
}

func NewReview(stores StoreAdminRepo, users UserAdminRepo, notifier Notifier) *Review {
	return &Review{stores: stores, users: users, notifier: notifier}
}

// PendingKYC lists stores awaiting review.
func (r *Review) PendingKYC(ctx context.Context) ([]storedomain.Store, error) {
	return r.stores.ListByKYCStatus(ctx, storedomain.KYCSubmitted)
}

// ApproveKYC activates a store after the reviewer has toggled every
// checklist item. The owner gets a success notification, custom text when
// the reviewer supplied a template.
func (r *Review) ApproveKYC(ctx context.Context, storeID string, verified map[string]bool, customMessage string) error {
	if !domain.AllVerified(verified) {
		return domain.ErrChecklistIncomplete
	}
	s, err := r.stores.Get(ctx, storeID)
	if err != nil {
		return err
	}
	if err := r.stores.MarkKYCVerified(ctx, storeID); err != nil {
		return err
	}
	msg := customMessage
	if msg == "" {
		msg = fmt.Sprintf("Congratulations! Your store %q has been verified and is now active.", s.Name)
	}
	if err := r.notifier.Send(ctx, s.OwnerID, notifdomain.Payload{
		Title:   "KYC Verified!",
		Message: msg,
		Type:    notifdomain.TypeSuccess,
		Link:    "/vendor/dashboard",
	}); err != nil {
		log.Printf("[admin] warning: approval notification failed store=%s err=%v", storeID, err)
	}
	log.Printf("[admin] kyc approved store=%s owner=%s", storeID, s.OwnerID)
	return nil
}

// RejectKYC closes the application. The flagged checklist items become the
// stored rejection details; the first is kept as the primary reason for
// compact display. The owner's notification is either the reviewer's custom
// text or the synthesized template.
func (r *Review) RejectKYC(ctx context.Context, storeID string, verified map[string]bool, adminNote, customMessage string) error {
	s, err := r.stores.Get(ctx, storeID)
	if err != nil {
		return err
	}

	details := domain.UnverifiedLabels(verified)
	if len(details) == 0 {
		details = []string{"General Review Failed"}
	}
	if err := r.stores.MarkKYCRejected(ctx, storeID, details[0], details); err != nil {
		return err
	}

	msg := customMessage
	if msg == "" {
		msg = domain.SynthesizeRejection(adminNote, domain.UnverifiedLabels(verified))
	}
	if err := r.notifier.Send(ctx, s.OwnerID, notifdomain.Payload{
		Title:   "Verification Action Required",
		Message: msg,
		Type:    notifdomain.TypeError,
		Link:    "/vendor/onboarding",
	}); err != nil {
		log.Printf("[admin] warning: rejection notification failed store=%s err=%v", storeID, err)
	}
	log.Printf("[admin] kyc rejected store=%s reason=%q", storeID, details[0])
	return nil
}

// SetCommissionRate updates a store's platform cut.
func (r *Review) SetCommissionRate(ctx context.Context, storeID string, rate float64) error {
	if rate < 0 || rate > 100 {
		return fmt.Errorf("commission rate %v out of range", rate)
	}
	return r.stores.SetCommissionRate(ctx, storeID, rate)
}

// SetStoreVisibility toggles storefront listing.
func (r *Review) SetStoreVisibility(ctx context.Context, storeID string, visible bool) error {
	return r.stores.SetVisibility(ctx, storeID, visible)
}

// SuspendStore pulls an active store off the platform.
func (r *Review) SuspendStore(ctx context.Context, storeID string) error {
	return r.stores.SetStatus(ctx, storeID, storedomain.StatusSuspended)
}

// ReinstateStore reverses a suspension.
func (r *Review) ReinstateStore(ctx context.Context, storeID string) error {
	return r.stores.SetStatus(ctx, storeID, storedomain.StatusActive)
}

// SetUserRoles replaces a user's role set.
func (r *Review) SetUserRoles(ctx context.Context, uid string, roles []string) error {
	for _, role := range roles {
		switch role {
		case userdomain.RoleCustomer, userdomain.RoleVendor, userdomain.RoleStaff, userdomain.RoleAdmin:
		default:
			return fmt.Errorf("unknown role %q", role)
		}
	}
	return r.users.SetRoles(ctx, uid, roles)
}

// SetUserBanned toggles platform access.
func (r *Review) SetUserBanned(ctx context.Context, uid string, banned bool) error {
	return r.users.SetBanned(ctx, uid, banned)
}

// SearchStores is the console's free-text store lookup.
func (r *Review) SearchStores(ctx context.Context, q string, limit int) ([]storedomain.Store, error) {
	return r.stores.SearchByNamePrefix(ctx, q, limit)
}

// SearchUsers is the console's free-text user lookup.
func (r *Review) SearchUsers(ctx context.Context, q string, limit int) ([]userdomain.User, error) {
	return r.users.SearchByEmailPrefix(ctx, q, limit)
}
