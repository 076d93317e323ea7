package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notifdomain "github.com/aurashop/marketplace-backend/internal/notifications/domain"
	"github.com/aurashop/marketplace-backend/internal/staffing/domain"
	storedomain "github.com/aurashop/marketplace-backend/internal/stores/domain"
)

// fakeInvites mimics the repository's transition guards in memory.
type fakeInvites struct {
	byToken map[string]*domain.StoreInvite
	nextID  int
}

func newFakeInvites() *fakeInvites {
	return &fakeInvites{byToken: map[string]*domain.StoreInvite{}}
}

func (f *fakeInvites) Create(_ context.Context, storeID, role string) (*domain.StoreInvite, error) {
	f.nextID++
	token := fmt.Sprintf("token-%d", f.nextID)
	inv := &domain.StoreInvite{
		ID: token, StoreID: storeID, Role: role,
		Status:    domain.StatusActive,
		ExpiresAt: time.Now().Add(domain.InviteTTL),
	}
	f.byToken[token] = inv
	return inv, nil
}

func (f *fakeInvites) Get(_ context.Context, token string) (*domain.StoreInvite, error) {
	inv, ok := f.byToken[token]
	if !ok {
		return nil, domain.ErrInviteNotFound
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInvites) Apply(_ context.Context, token string, a domain.Applicant) (*domain.StoreInvite, error) {
	inv, ok := f.byToken[token]
	if !ok {
		return nil, domain.ErrInviteNotFound
	}
	if inv.Expired(time.Now()) {
		return nil, domain.ErrInviteExpired
	}
	if !domain.CanTransition(inv.Status, domain.StatusApplied) {
		return nil, domain.ErrInvalidTransition
	}
	inv.Status = domain.StatusApplied
	inv.ApplicantUID = a.UID
	inv.ApplicantName = a.Name
	inv.ApplicantEmail = a.Email
	cp := *inv
	return &cp, nil
}

func (f *fakeInvites) Approve(_ context.Context, token string) (*domain.StoreInvite, error) {
	inv, ok := f.byToken[token]
	if !ok {
		return nil, domain.ErrInviteNotFound
	}
	if !domain.CanTransition(inv.Status, domain.StatusPendingAdmin) {
		return nil, domain.ErrInvalidTransition
	}
	inv.Status = domain.StatusPendingAdmin
	cp := *inv
	return &cp, nil
}

func (f *fakeInvites) Finalize(_ context.Context, token string) (*domain.StoreInvite, error) {
	inv, ok := f.byToken[token]
	if !ok {
		return nil, domain.ErrInviteNotFound
	}
	if !domain.CanTransition(inv.Status, domain.StatusApproved) {
		return nil, domain.ErrInvalidTransition
	}
	inv.Status = domain.StatusApproved
	cp := *inv
	return &cp, nil
}

func (f *fakeInvites) Reject(_ context.Context, token, reason string) error {
	inv, ok := f.byToken[token]
	if !ok {
		return domain.ErrInviteNotFound
	}
	if !domain.CanTransition(inv.Status, domain.StatusRejected) {
		return domain.ErrInvalidTransition
	}
	inv.Status = domain.StatusRejected
	inv.RejectionReason = reason
	return nil
}

func (f *fakeInvites) ListByStore(_ context.Context, storeID string) ([]domain.StoreInvite, error) {
	var out []domain.StoreInvite
	for _, inv := range f.byToken {
		if inv.StoreID == storeID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (f *fakeInvites) ListByStatus(_ context.Context, status string, _ int) ([]domain.StoreInvite, error) {
	var out []domain.StoreInvite
	for _, inv := range f.byToken {
		if inv.Status == status {
			out = append(out, *inv)
		}
	}
	return out, nil
}

type fakeStoreReader struct {
	byID map[string]*storedomain.Store
}

func (f *fakeStoreReader) Get(_ context.Context, id string) (*storedomain.Store, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, storedomain.ErrStoreNotFound
	}
	return s, nil
}

type sentNote struct {
	userID  string
	payload notifdomain.Payload
}

type fakeNotifier struct {
	sent []sentNote
}

func (f *fakeNotifier) Send(_ context.Context, userID string, p notifdomain.Payload) error {
	f.sent = append(f.sent, sentNote{userID, p})
	return nil
}

func newStaffing() (*Staffing, *fakeInvites, *fakeNotifier) {
	invites := newFakeInvites()
	stores := &fakeStoreReader{byID: map[string]*storedomain.Store{
		"s1": {ID: "s1", OwnerID: "owner"},
	}}
	notifier := &fakeNotifier{}
	return NewStaffing(invites, stores, notifier, "https://aurashop.example"), invites, notifier
}

func TestCreateInviteLink(t *testing.T) {
	svc, _, _ := newStaffing()
	ctx := context.Background()

	inv, url, err := svc.CreateInviteLink(ctx, "owner", "s1", "cashier")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, inv.Status)
	assert.Equal(t, "https://aurashop.example/careers/apply/"+inv.ID, url)
	assert.WithinDuration(t, time.Now().Add(domain.InviteTTL), inv.ExpiresAt, time.Minute)

	_, _, err = svc.CreateInviteLink(ctx, "stranger", "s1", "cashier")
	assert.ErrorIs(t, err, storedomain.ErrNotOwner)
}

func TestFullPipeline(t *testing.T) {
	svc, invites, notifier := newStaffing()
	ctx := context.Background()

	inv, _, err := svc.CreateInviteLink(ctx, "owner", "s1", "cashier")
	require.NoError(t, err)
	token := inv.ID

	// Finalizing before the owner approves must fail.
	_, err = svc.FinalizeStaffApproval(ctx, token)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = svc.ApplyForPosition(ctx, token, domain.Applicant{UID: "cand", Name: "Kai", Email: "kai@example.com"})
	require.NoError(t, err)

	// Second application loses the race.
	_, err = svc.ApplyForPosition(ctx, token, domain.Applicant{UID: "other"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Owner approval queues for admin and notifies the applicant.
	approved, err := svc.ApproveApplication(ctx, "owner", token)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingAdmin, approved.Status)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "cand", notifier.sent[0].userID)

	queue, err := svc.AdminQueue(ctx, 0)
	require.NoError(t, err)
	require.Len(t, queue, 1)

	final, err := svc.FinalizeStaffApproval(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, final.Status)

	// Double finalization applies nothing.
	_, err = svc.FinalizeStaffApproval(ctx, token)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.StatusApproved, invites.byToken[token].Status)
}

func TestApproveRequiresOwner(t *testing.T) {
	svc, _, _ := newStaffing()
	ctx := context.Background()
	inv, _, err := svc.CreateInviteLink(ctx, "owner", "s1", "cashier")
	require.NoError(t, err)
	_, err = svc.ApplyForPosition(ctx, inv.ID, domain.Applicant{UID: "cand"})
	require.NoError(t, err)

	_, err = svc.ApproveApplication(ctx, "stranger", inv.ID)
	assert.ErrorIs(t, err, storedomain.ErrNotOwner)
}

func TestRejectNotifiesApplicant(t *testing.T) {
	svc, invites, notifier := newStaffing()
	ctx := context.Background()
	inv, _, err := svc.CreateInviteLink(ctx, "owner", "s1", "cashier")
	require.NoError(t, err)
	_, err = svc.ApplyForPosition(ctx, inv.ID, domain.Applicant{UID: "cand"})
	require.NoError(t, err)

	require.NoError(t, svc.RejectApplication(ctx, "owner", inv.ID, "position filled", false))
	assert.Equal(t, domain.StatusRejected, invites.byToken[inv.ID].Status)
	assert.Equal(t, "position filled", invites.byToken[inv.ID].RejectionReason)
	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0].payload.Message, "position filled")

	// Terminal invites cannot be rejected again.
	assert.ErrorIs(t, svc.RejectApplication(ctx, "owner", inv.ID, "again", false), domain.ErrInvalidTransition)
}

func TestRejectRequiresOwnerUnlessAdmin(t *testing.T) {
	svc, invites, _ := newStaffing()
	ctx := context.Background()
	inv, _, err := svc.CreateInviteLink(ctx, "owner", "s1", "cashier")
	require.NoError(t, err)
	_, err = svc.ApplyForPosition(ctx, inv.ID, domain.Applicant{UID: "cand"})
	require.NoError(t, err)

	// A caller who does not own the store cannot reject, and the invite
	// keeps its state.
	err = svc.RejectApplication(ctx, "stranger", inv.ID, "go away", false)
	assert.ErrorIs(t, err, storedomain.ErrNotOwner)
	assert.Equal(t, domain.StatusApplied, invites.byToken[inv.ID].Status)

	// A platform admin may reject any store's invite.
	require.NoError(t, svc.RejectApplication(ctx, "admin-uid", inv.ID, "policy", true))
	assert.Equal(t, domain.StatusRejected, invites.byToken[inv.ID].Status)
}

func TestPreviewExpired(t *testing.T) {
	svc, invites, _ := newStaffing()
	ctx := context.Background()
	inv, _, err := svc.CreateInviteLink(ctx, "owner", "s1", "cashier")
	require.NoError(t, err)
	invites.byToken[inv.ID].ExpiresAt = time.Now().Add(-time.Hour)

	_, err = svc.Preview(ctx, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInviteExpired)
}
