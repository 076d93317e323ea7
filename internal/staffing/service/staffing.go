package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	notifdomain "github.com/aurashop/marketplace-backend/internal/notifications/domain"
	"github.com/aurashop/marketplace-backend/internal/staffing/domain"
	storedomain "github.com/aurashop/marketplace-backend/internal/stores/domain"
)

// Invites is the invite persistence surface.
type Invites interface {
	Create(ctx context.Context, storeID, role string) (*domain.StoreInvite, error)
	Get(ctx context.Context, token string) (*domain.StoreInvite, error)
	Apply(ctx context.Context, token string, a domain.Applicant) (*domain.StoreInvite, error)
	Approve(ctx context.Context, token string) (*domain.StoreInvite, error)
	Finalize(ctx context.Context, token string) (*domain.StoreInvite, error)
	Reject(ctx context.Context, token, reason string) error
	ListByStore(ctx context.Context, storeID string) ([]domain.StoreInvite, error)
	ListByStatus(ctx context.Context, status string, limit int) ([]domain.StoreInvite, error)
}

// StoreReader resolves store ownership.
type StoreReader interface {
	Get(ctx context.Context, id string) (*storedomain.Store, error)
}

// Notifier appends to a user's feed.
type Notifier interface {
	Send(ctx context.Context, userID string, p notifdomain.Payload) error
}

// timeNow is swapped out in tests.
var timeNow = time.Now

// Staffing runs the invitation pipeline on top of the invite repository,
// enforcing who may act at each stage.
type Staffing struct {
	invites  Invites
	stores   StoreReader
	notifier Notifier
	baseURL  string
}

func NewStaffing(invites Invites, stores StoreReader, notifier Notifier, publicBaseURL string) *Staffing {
	return &Staffing{
		invites:  invites,
		stores:   stores,
		notifier: notifier,
		baseURL:  strings.TrimRight(publicBaseURL, "/"),
	}
}

// ShareURL is the link a store owner hands to a candidate.
func (s *Staffing) ShareURL(token string) string {
	return fmt.Sprintf("%s/careers/apply/%s", s.baseURL, token)
}

// CreateInviteLink mints an invite for the caller's store and returns it with
// the shareable URL.
func (s *Staffing) CreateInviteLink(ctx context.Context, ownerID, storeID, role string) (*domain.StoreInvite, string, error) {
	if err := s.requireOwner(ctx, storeID, ownerID); err != nil {
		return nil, "", err
	}
	inv, err := s.invites.Create(ctx, storeID, role)
	if err != nil {
		return nil, "", err
	}
	return inv, s.ShareURL(inv.ID), nil
}

// Preview returns an invite so the careers page can render the position. An
// expired link surfaces as such instead of as a stale active invite.
func (s *Staffing) Preview(ctx context.Context, token string) (*domain.StoreInvite, error) {
	inv, err := s.invites.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if inv.Expired(timeNow()) {
		return nil, domain.ErrInviteExpired
	}
	return inv, nil
}

// ApplyForPosition records the authenticated applicant against the invite.
func (s *Staffing) ApplyForPosition(ctx context.Context, token string, a domain.Applicant) (*domain.StoreInvite, error) {
	return s.invites.Apply(ctx, token, a)
}

// ApproveApplication is the owner's approval. It forwards the invite to the
// admin queue and tells the applicant; no role is granted yet.
func (s *Staffing) ApproveApplication(ctx context.Context, ownerID, token string) (*domain.StoreInvite, error) {
	inv, err := s.invites.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, inv.StoreID, ownerID); err != nil {
		return nil, err
	}
	inv, err = s.invites.Approve(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.notifier.Send(ctx, inv.ApplicantUID, notifdomain.Payload{
		Title:   "Application Update",
		Message: "The store owner has approved your application. It is now awaiting final review by our team.",
		Type:    notifdomain.TypeInfo,
	}); err != nil {
		log.Printf("[staffing] warning: applicant notification failed token=%s err=%v", token, err)
	}
	return inv, nil
}

// FinalizeStaffApproval is the admin's approval; the repository commits all
// four writes in one transaction.
func (s *Staffing) FinalizeStaffApproval(ctx context.Context, token string) (*domain.StoreInvite, error) {
	return s.invites.Finalize(ctx, token)
}

// RejectApplication closes the invite with a reason and, when an applicant
// exists, tells them. Only the store owner may reject unless the caller is a
// platform admin.
func (s *Staffing) RejectApplication(ctx context.Context, callerID, token, reason string, asAdmin bool) error {
	inv, err := s.invites.Get(ctx, token)
	if err != nil {
		return err
	}
	if !asAdmin {
		if err := s.requireOwner(ctx, inv.StoreID, callerID); err != nil {
			return err
		}
	}
	if err := s.invites.Reject(ctx, token, reason); err != nil {
		return err
	}
	if inv.ApplicantUID != "" {
		msg := "Your staff application was not successful."
		if reason != "" {
			msg = fmt.Sprintf("Your staff application was not successful. Reason: %s", reason)
		}
		if err := s.notifier.Send(ctx, inv.ApplicantUID, notifdomain.Payload{
			Title:   "Application Update",
			Message: msg,
			Type:    notifdomain.TypeWarning,
		}); err != nil {
			log.Printf("[staffing] warning: rejection notification failed token=%s err=%v", token, err)
		}
	}
	return nil
}

// InvitesForStore lists a store's invites for the owner dashboard.
func (s *Staffing) InvitesForStore(ctx context.Context, ownerID, storeID string) ([]domain.StoreInvite, error) {
	if err := s.requireOwner(ctx, storeID, ownerID); err != nil {
		return nil, err
	}
	return s.invites.ListByStore(ctx, storeID)
}

// AdminQueue lists invites awaiting platform finalization.
func (s *Staffing) AdminQueue(ctx context.Context, limit int) ([]domain.StoreInvite, error) {
	return s.invites.ListByStatus(ctx, domain.StatusPendingAdmin, limit)
}

func (s *Staffing) requireOwner(ctx context.Context, storeID, ownerID string) error {
	st, err := s.stores.Get(ctx, storeID)
	if err != nil {
		return err
	}
	if st.OwnerID != ownerID {
		return storedomain.ErrNotOwner
	}
	return nil
}
