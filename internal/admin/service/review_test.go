package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurashop/marketplace-backend/internal/admin/domain"
	notifdomain "github.com/aurashop/marketplace-backend/internal/notifications/domain"
	storedomain "github.com/aurashop/marketplace-backend/internal/stores/domain"
	userdomain "github.com/aurashop/marketplace-backend/internal/users/domain"
)

type fakeStoreAdmin struct {
	byID map[string]*storedomain.Store
}

func (f *fakeStoreAdmin) Get(_ context.Context, id string) (*storedomain.Store, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, storedomain.ErrStoreNotFound
	}
	return s, nil
}

func (f *fakeStoreAdmin) MarkKYCVerified(_ context.Context, id string) error {
	s := f.byID[id]
	s.KYCStatus = storedomain.KYCVerified
	s.Status = storedomain.StatusActive
	s.IsActive = true
	return nil
}

func (f *fakeStoreAdmin) MarkKYCRejected(_ context.Context, id, primary string, details []string) error {
	s := f.byID[id]
	s.KYCStatus = storedomain.KYCRejected
	s.Status = storedomain.StatusRejected
	s.RejectionReason = primary
	s.RejectionDetails = details
	return nil
}

func (f *fakeStoreAdmin) SetCommissionRate(_ context.Context, id string, rate float64) error {
	f.byID[id].CommissionRate = rate
	return nil
}

func (f *fakeStoreAdmin) SetVisibility(_ context.Context, id string, visible bool) error {
	f.byID[id].IsVisible = visible
	return nil
}

func (f *fakeStoreAdmin) SetStatus(_ context.Context, id, status string) error {
	f.byID[id].Status = status
	return nil
}

func (f *fakeStoreAdmin) ListByKYCStatus(_ context.Context, kycStatus string) ([]storedomain.Store, error) {
	var out []storedomain.Store
	for _, s := range f.byID {
		if s.KYCStatus == kycStatus {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStoreAdmin) SearchByNamePrefix(_ context.Context, _ string, _ int) ([]storedomain.Store, error) {
	return nil, nil
}

type fakeUserAdmin struct {
	roles  map[string][]string
	banned map[string]bool
}

func (f *fakeUserAdmin) Get(_ context.Context, uid string) (*userdomain.User, error) {
	return &userdomain.User{UID: uid}, nil
}

func (f *fakeUserAdmin) SetRoles(_ context.Context, uid string, roles []string) error {
	f.roles[uid] = roles
	return nil
}

func (f *fakeUserAdmin) SetBanned(_ context.Context, uid string, banned bool) error {
	f.banned[uid] = banned
	return nil
}

func (f *fakeUserAdmin) SearchByEmailPrefix(_ context.Context, _ string, _ int) ([]userdomain.User, error) {
	return nil, nil
}

func (f *fakeUserAdmin) List(_ context.Context, _ int) ([]userdomain.User, error) {
	return nil, nil
}

type capturedNote struct {
	userID  string
	payload notifdomain.Payload
}

type captureNotifier struct {
	sent []capturedNote
}

func (c *captureNotifier) Send(_ context.Context, userID string, p notifdomain.Payload) error {
	c.sent = append(c.sent, capturedNote{userID, p})
	return nil
}

func newReview() (*Review, *fakeStoreAdmin, *fakeUserAdmin, *captureNotifier) {
	stores := &fakeStoreAdmin{byID: map[string]*storedomain.Store{
		"s1": {
			ID: "s1", OwnerID: "owner", Name: "Corner Deli",
			Status: storedomain.StatusPendingReview, KYCStatus: storedomain.KYCSubmitted,
		},
	}}
	users := &fakeUserAdmin{roles: map[string][]string{}, banned: map[string]bool{}}
	notifier := &captureNotifier{}
	return NewReview(stores, users, notifier), stores, users, notifier
}

func allChecked() map[string]bool {
	m := make(map[string]bool, len(domain.RequiredFields))
	for _, f := range domain.RequiredFields {
		m[f] = true
	}
	return m
}

func TestApproveKYC(t *testing.T) {
	t.Run("requires full checklist", func(t *testing.T) {
		svc, stores, _, notifier := newReview()
		checked := allChecked()
		checked["video"] = false

		err := svc.ApproveKYC(context.Background(), "s1", checked, "")
		assert.ErrorIs(t, err, domain.ErrChecklistIncomplete)
		assert.Equal(t, storedomain.KYCSubmitted, stores.byID["s1"].KYCStatus)
		assert.Empty(t, notifier.sent)
	})

	t.Run("activates store and notifies owner", func(t *testing.T) {
		svc, stores, _, notifier := newReview()

		require.NoError(t, svc.ApproveKYC(context.Background(), "s1", allChecked(), ""))
		s := stores.byID["s1"]
		assert.Equal(t, storedomain.KYCVerified, s.KYCStatus)
		assert.Equal(t, storedomain.StatusActive, s.Status)

		require.Len(t, notifier.sent, 1)
		n := notifier.sent[0]
		assert.Equal(t, "owner", n.userID)
		assert.Equal(t, "KYC Verified!", n.payload.Title)
		assert.Contains(t, n.payload.Message, "Corner Deli")
		assert.Equal(t, "/vendor/dashboard", n.payload.Link)
	})

	t.Run("custom message wins", func(t *testing.T) {
		svc, _, _, notifier := newReview()
		require.NoError(t, svc.ApproveKYC(context.Background(), "s1", allChecked(), "Welcome aboard."))
		assert.Equal(t, "Welcome aboard.", notifier.sent[0].payload.Message)
	})

	t.Run("missing store errors", func(t *testing.T) {
		svc, _, _, _ := newReview()
		err := svc.ApproveKYC(context.Background(), "ghost", allChecked(), "")
		assert.ErrorIs(t, err, storedomain.ErrStoreNotFound)
	})
}

func TestRejectKYC(t *testing.T) {
	t.Run("stores primary reason and details", func(t *testing.T) {
		svc, stores, _, notifier := newReview()
		checked := allChecked()
		checked["doc"] = false
		checked["video"] = false

		require.NoError(t, svc.RejectKYC(context.Background(), "s1", checked, "Blurry uploads.", ""))
		s := stores.byID["s1"]
		assert.Equal(t, storedomain.KYCRejected, s.KYCStatus)
		assert.Equal(t, storedomain.StatusRejected, s.Status)
		assert.Equal(t, "Government ID", s.RejectionReason)
		assert.Equal(t, []string{"Government ID", "Liveness Video Probe"}, s.RejectionDetails)

		require.Len(t, notifier.sent, 1)
		n := notifier.sent[0]
		assert.Equal(t, "Verification Action Required", n.payload.Title)
		assert.Contains(t, n.payload.Message, "- Government ID\n- Liveness Video Probe")
		assert.Contains(t, n.payload.Message, `"Blurry uploads."`)
		assert.Equal(t, "/vendor/onboarding", n.payload.Link)
	})

	t.Run("fully checked rejection falls back to general failure", func(t *testing.T) {
		svc, stores, _, notifier := newReview()
		require.NoError(t, svc.RejectKYC(context.Background(), "s1", allChecked(), "Fraud signals.", ""))
		assert.Equal(t, "General Review Failed", stores.byID["s1"].RejectionReason)
		assert.Contains(t, notifier.sent[0].payload.Message, "- General Review Failed")
	})

	t.Run("custom message wins", func(t *testing.T) {
		svc, _, _, notifier := newReview()
		require.NoError(t, svc.RejectKYC(context.Background(), "s1", allChecked(), "", "Call support."))
		assert.Equal(t, "Call support.", notifier.sent[0].payload.Message)
	})
}

func TestAdminToggles(t *testing.T) {
	svc, stores, users, _ := newReview()
	ctx := context.Background()

	require.NoError(t, svc.SetCommissionRate(ctx, "s1", 12.5))
	assert.Equal(t, 12.5, stores.byID["s1"].CommissionRate)
	assert.Error(t, svc.SetCommissionRate(ctx, "s1", 120))

	require.NoError(t, svc.SetStoreVisibility(ctx, "s1", true))
	assert.True(t, stores.byID["s1"].IsVisible)

	require.NoError(t, svc.SuspendStore(ctx, "s1"))
	assert.Equal(t, storedomain.StatusSuspended, stores.byID["s1"].Status)
	require.NoError(t, svc.ReinstateStore(ctx, "s1"))
	assert.Equal(t, storedomain.StatusActive, stores.byID["s1"].Status)

	require.NoError(t, svc.SetUserRoles(ctx, "u1", []string{"vendor", "staff"}))
	assert.Equal(t, []string{"vendor", "staff"}, users.roles["u1"])
	assert.Error(t, svc.SetUserRoles(ctx, "u1", []string{"overlord"}))

	require.NoError(t, svc.SetUserBanned(ctx, "u1", true))
	assert.True(t, users.banned["u1"])
}
