package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storedomain "github.com/aurashop/marketplace-backend/internal/stores/domain"
	userdomain "github.com/aurashop/marketplace-backend/internal/users/domain"
	"github.com/aurashop/marketplace-backend/internal/vendorpkg/domain"
)

type fakeStores struct {
	byID   map[string]*storedomain.Store
	nextID int
}

func newFakeStores() *fakeStores {
	return &fakeStores{byID: map[string]*storedomain.Store{}}
}

func (f *fakeStores) Create(_ context.Context, s *storedomain.Store) (string, error) {
	f.nextID++
	id := fmt.Sprintf("store-%d", f.nextID)
	cp := *s
	cp.ID = id
	cp.Status = storedomain.StatusDraft
	cp.KYCStatus = storedomain.KYCPending
	f.byID[id] = &cp
	return id, nil
}

func (f *fakeStores) Get(_ context.Context, id string) (*storedomain.Store, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, storedomain.ErrStoreNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStores) Update(_ context.Context, id string, updates []firestore.Update) error {
	s, ok := f.byID[id]
	if !ok {
		return storedomain.ErrStoreNotFound
	}
	for _, u := range updates {
		switch u.Path {
		case "name":
			s.Name = u.Value.(string)
		case "phone":
			s.Phone = u.Value.(string)
		case "category":
			s.Category = u.Value.(string)
		case "address":
			s.Address = u.Value.(string)
		case "city":
			s.City = u.Value.(string)
		case "hours":
			s.Hours = u.Value.(string)
		case "description":
			s.Description = u.Value.(string)
		case "logoUrl":
			s.LogoURL = u.Value.(string)
		case "bannerUrl":
			s.BannerURL = u.Value.(string)
		case "bankDetails":
			b := u.Value.(storedomain.BankDetails)
			s.Bank = &b
		case "onboardingStep":
			s.OnboardingStep = u.Value.(int)
		}
	}
	return nil
}

func (f *fakeStores) SetKYCMedia(_ context.Context, id string, media storedomain.KYCMedia) error {
	s, ok := f.byID[id]
	if !ok {
		return storedomain.ErrStoreNotFound
	}
	cp := media
	s.KYC = &cp
	s.KYCStatus = storedomain.KYCSubmitted
	return nil
}

func (f *fakeStores) MarkPendingReview(_ context.Context, id string) error {
	s, ok := f.byID[id]
	if !ok {
		return storedomain.ErrStoreNotFound
	}
	s.Status = storedomain.StatusPendingReview
	now := time.Now()
	s.SubmittedAt = &now
	return nil
}

func (f *fakeStores) ListByOwner(_ context.Context, ownerID string) ([]storedomain.Store, error) {
	var out []storedomain.Store
	for _, s := range f.byID {
		if s.OwnerID == ownerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeUsers struct {
	byUID map[string]*userdomain.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byUID: map[string]*userdomain.User{}}
}

func (f *fakeUsers) Get(_ context.Context, uid string) (*userdomain.User, error) {
	u, ok := f.byUID[uid]
	if !ok {
		return nil, userdomain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) SetKYCDocuments(_ context.Context, uid string, docs userdomain.KYCDocuments) error {
	u, ok := f.byUID[uid]
	if !ok {
		return userdomain.ErrUserNotFound
	}
	cp := docs
	u.KYC = &cp
	return nil
}

type fakePhones struct {
	numbers map[string]string
}

func (f *fakePhones) VerifiedPhone(_ context.Context, uid string) (string, error) {
	return f.numbers[uid], nil
}

type fakeUploader struct {
	uploads []string
}

func (f *fakeUploader) Upload(_ context.Context, path string, _ []byte, _ string) (string, error) {
	f.uploads = append(f.uploads, path)
	return "https://cdn.test/" + path, nil
}

func newOnboarding(t *testing.T) (*Onboarding, *fakeStores, *fakeUsers, *fakePhones, *fakeUploader) {
	t.Helper()
	stores := newFakeStores()
	users := newFakeUsers()
	phones := &fakePhones{numbers: map[string]string{}}
	up := &fakeUploader{}
	return NewOnboarding(stores, users, phones, up), stores, users, phones, up
}

func TestStartOrUpdateBasics_IdempotentCreate(t *testing.T) {
	svc, stores, users, _, _ := newOnboarding(t)
	users.byUID["u1"] = &userdomain.User{UID: "u1"}
	ctx := context.Background()

	first, err := svc.StartOrUpdateBasics(ctx, "u1", "Corner Deli", "+9411")
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	assert.Equal(t, storedomain.StatusDraft, first.Status)

	second, err := svc.StartOrUpdateBasics(ctx, "u1", "Corner Deli Renamed", "+9412")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "re-running the first step must not duplicate the application")
	assert.Len(t, stores.byID, 1)
	assert.Equal(t, "Corner Deli Renamed", stores.byID[first.ID].Name)
	assert.Equal(t, "+9412", stores.byID[first.ID].Phone)
}

func TestSubmitIdentity_PhoneGate(t *testing.T) {
	svc, _, users, _, _ := newOnboarding(t)
	users.byUID["u1"] = &userdomain.User{UID: "u1"}
	ctx := context.Background()

	s, err := svc.StartOrUpdateBasics(ctx, "u1", "Corner Deli", "+9411")
	require.NoError(t, err)

	err = svc.SubmitIdentity(ctx, "u1", s.ID, IdentitySubmission{
		VideoData: []byte("v"), VideoDuration: 8 * time.Second, VideoFilename: "v.webm", VideoMIME: "video/webm",
		DocData: []byte("d"), DocFilename: "id.pdf", DocMIME: "application/pdf",
	})
	assert.ErrorIs(t, err, domain.ErrPhoneNotVerified)
}

func TestSubmitIdentity_ValidationBlocksUpload(t *testing.T) {
	svc, _, users, phones, up := newOnboarding(t)
	users.byUID["u1"] = &userdomain.User{UID: "u1"}
	phones.numbers["u1"] = "+9411"
	ctx := context.Background()

	s, err := svc.StartOrUpdateBasics(ctx, "u1", "Corner Deli", "+9411")
	require.NoError(t, err)

	err = svc.SubmitIdentity(ctx, "u1", s.ID, IdentitySubmission{
		VideoData: []byte("v"), VideoDuration: 12 * time.Second, VideoFilename: "v.webm", VideoMIME: "video/webm",
		DocData: []byte("d"), DocFilename: "id.pdf", DocMIME: "application/pdf",
	})
	var fe *domain.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "video", fe.Field)
	assert.Empty(t, up.uploads, "nothing should be uploaded when validation fails")
}

func TestSubmitIdentity_AttachesMediaAndCachesOnUser(t *testing.T) {
	svc, stores, users, phones, up := newOnboarding(t)
	users.byUID["u1"] = &userdomain.User{UID: "u1"}
	phones.numbers["u1"] = "+9411"
	ctx := context.Background()

	s, err := svc.StartOrUpdateBasics(ctx, "u1", "Corner Deli", "+9411")
	require.NoError(t, err)

	err = svc.SubmitIdentity(ctx, "u1", s.ID, IdentitySubmission{
		VideoData: []byte("v"), VideoDuration: 9 * time.Second, VideoFilename: "v.webm", VideoMIME: "video/webm",
		DocData: []byte("d"), DocFilename: "id.pdf", DocMIME: "application/pdf",
	})
	require.NoError(t, err)
	assert.Len(t, up.uploads, 2)

	got := stores.byID[s.ID]
	require.NotNil(t, got.KYC)
	assert.Equal(t, storedomain.KYCSubmitted, got.KYCStatus)
	require.NotNil(t, users.byUID["u1"].KYC)
	assert.Equal(t, got.KYC.VideoURL, users.byUID["u1"].KYC.VideoURL)
}

func TestResolveReusableKYC(t *testing.T) {
	t.Run("from user profile", func(t *testing.T) {
		svc, _, users, _, _ := newOnboarding(t)
		users.byUID["u1"] = &userdomain.User{
			UID: "u1",
			KYC: &userdomain.KYCDocuments{VideoURL: "v", DocURL: "d"},
		}
		docs, err := svc.ResolveReusableKYC(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, "v", docs.VideoURL)
	})

	t.Run("migrated from legacy store", func(t *testing.T) {
		svc, stores, users, _, _ := newOnboarding(t)
		users.byUID["u1"] = &userdomain.User{UID: "u1"}
		stores.byID["old"] = &storedomain.Store{
			ID: "old", OwnerID: "u1", Status: storedomain.StatusRejected,
			KYC: &storedomain.KYCMedia{VideoURL: "v-old", DocURL: "d-old"},
		}
		docs, err := svc.ResolveReusableKYC(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, "v-old", docs.VideoURL)
		require.NotNil(t, users.byUID["u1"].KYC, "media must be migrated onto the user")
		assert.Equal(t, "d-old", users.byUID["u1"].KYC.DocURL)
	})

	t.Run("nothing reusable", func(t *testing.T) {
		svc, _, users, _, _ := newOnboarding(t)
		users.byUID["u1"] = &userdomain.User{UID: "u1"}
		_, err := svc.ResolveReusableKYC(context.Background(), "u1")
		assert.ErrorIs(t, err, domain.ErrNoReusableKYC)
	})
}

func TestSetCategory(t *testing.T) {
	svc, stores, users, _, _ := newOnboarding(t)
	users.byUID["u1"] = &userdomain.User{UID: "u1"}
	ctx := context.Background()
	s, err := svc.StartOrUpdateBasics(ctx, "u1", "Corner Deli", "+9411")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.SetCategory(ctx, "u1", s.ID, ""), domain.ErrCategoryRequired)
	assert.ErrorIs(t, svc.SetCategory(ctx, "u1", s.ID, "starships"), domain.ErrInvalidCategory)

	require.NoError(t, svc.SetCategory(ctx, "u1", s.ID, "groceries"))
	assert.Equal(t, "groceries", stores.byID[s.ID].Category)
}

func TestOwnershipEnforced(t *testing.T) {
	svc, _, users, _, _ := newOnboarding(t)
	users.byUID["u1"] = &userdomain.User{UID: "u1"}
	ctx := context.Background()
	s, err := svc.StartOrUpdateBasics(ctx, "u1", "Corner Deli", "+9411")
	require.NoError(t, err)

	err = svc.SetCategory(ctx, "intruder", s.ID, "groceries")
	assert.ErrorIs(t, err, storedomain.ErrNotOwner)
}

func TestSubmitForReview(t *testing.T) {
	svc, stores, users, phones, _ := newOnboarding(t)
	users.byUID["u1"] = &userdomain.User{UID: "u1"}
	phones.numbers["u1"] = "+9411"
	ctx := context.Background()
	s, err := svc.StartOrUpdateBasics(ctx, "u1", "Corner Deli", "+9411")
	require.NoError(t, err)

	// No identity media yet.
	var fe *domain.FieldError
	require.ErrorAs(t, svc.SubmitForReview(ctx, "u1", s.ID), &fe)

	require.NoError(t, svc.SubmitIdentity(ctx, "u1", s.ID, IdentitySubmission{
		VideoData: []byte("v"), VideoDuration: 5 * time.Second, VideoFilename: "v.webm", VideoMIME: "video/webm",
		DocData: []byte("d"), DocFilename: "id.pdf", DocMIME: "application/pdf",
	}))

	// Media present but no category.
	assert.ErrorIs(t, svc.SubmitForReview(ctx, "u1", s.ID), domain.ErrCategoryRequired)

	require.NoError(t, svc.SetCategory(ctx, "u1", s.ID, "restaurant"))
	require.NoError(t, svc.SubmitForReview(ctx, "u1", s.ID))

	got := stores.byID[s.ID]
	assert.Equal(t, storedomain.StatusPendingReview, got.Status)
	require.NotNil(t, got.SubmittedAt)
	assert.Equal(t, domain.TotalSteps, got.OnboardingStep)

	// Double submission is rejected.
	assert.ErrorIs(t, svc.SubmitForReview(ctx, "u1", s.ID), domain.ErrAlreadySubmitted)
}

func TestAdvanceStepNeverRollsBack(t *testing.T) {
	svc, stores, users, _, _ := newOnboarding(t)
	users.byUID["u1"] = &userdomain.User{UID: "u1"}
	ctx := context.Background()
	s, err := svc.StartOrUpdateBasics(ctx, "u1", "Corner Deli", "+9411")
	require.NoError(t, err)

	require.NoError(t, svc.SetBanking(ctx, "u1", s.ID, storedomain.BankDetails{Name: "A", Account: "1", IFSC: "X"}))
	atBanking := stores.byID[s.ID].OnboardingStep

	// Revisiting an earlier step keeps the progress marker.
	require.NoError(t, svc.SetCategory(ctx, "u1", s.ID, "groceries"))
	assert.Equal(t, atBanking, stores.byID[s.ID].OnboardingStep)
}
