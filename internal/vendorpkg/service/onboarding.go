package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/aurashop/marketplace-backend/internal/storage"
	storedomain "github.com/aurashop/marketplace-backend/internal/stores/domain"
	userdomain "github.com/aurashop/marketplace-backend/internal/users/domain"
	"github.com/aurashop/marketplace-backend/internal/vendorpkg/domain"
	"github.com/aurashop/marketplace-backend/internal/vendorpkg/taxonomy"
)

// Stores is the store persistence surface the wizard needs.
type Stores interface {
	Create(ctx context.Context, s *storedomain.Store) (string, error)
	Get(ctx context.Context, id string) (*storedomain.Store, error)
	Update(ctx context.Context, id string, updates []firestore.Update) error
	SetKYCMedia(ctx context.Context, id string, media storedomain.KYCMedia) error
	MarkPendingReview(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]storedomain.Store, error)
}

// Users is the slice of the user repository the wizard needs.
type Users interface {
	Get(ctx context.Context, uid string) (*userdomain.User, error)
	SetKYCDocuments(ctx context.Context, uid string, docs userdomain.KYCDocuments) error
}

// PhoneVerifier reports the verified phone number on an auth account, empty
// when none is linked.
type PhoneVerifier interface {
	VerifiedPhone(ctx context.Context, uid string) (string, error)
}

// Onboarding drives the vendor application wizard. Every step persists
// immediately so an abandoned session resumes where it left off.
type Onboarding struct {
	stores   Stores
	users    Users
	phones   PhoneVerifier
	uploader storage.Uploader
}

func NewOnboarding(stores Stores, users Users, phones PhoneVerifier, uploader storage.Uploader) *Onboarding {
	return &Onboarding{stores: stores, users: users, phones: phones, uploader: uploader}
}

// resumableStore returns the owner's in-progress application, if any. A
// rejected store is resumable so the vendor can fix and resubmit; an active
// or suspended store is not.
func resumableStore(stores []storedomain.Store) *storedomain.Store {
	for i := range stores {
		switch stores[i].Status {
		case storedomain.StatusDraft, storedomain.StatusRejected, storedomain.StatusPendingReview:
			return &stores[i]
		}
	}
	return nil
}

// StartOrUpdateBasics creates the draft store on first call and updates name
// and phone on later calls, so re-running the first step never duplicates the
// application.
func (o *Onboarding) StartOrUpdateBasics(ctx context.Context, ownerID, name, phone string) (*storedomain.Store, error) {
	owned, err := o.stores.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	if existing := resumableStore(owned); existing != nil {
		updates := []firestore.Update{
			{Path: "name", Value: name},
			{Path: "phone", Value: phone},
		}
		if err := o.stores.Update(ctx, existing.ID, updates); err != nil {
			return nil, err
		}
		existing.Name = name
		existing.Phone = phone
		return existing, nil
	}

	s := &storedomain.Store{
		OwnerID:        ownerID,
		Name:           name,
		Phone:          phone,
		OnboardingStep: domain.StepBasics,
	}
	id, err := o.stores.Create(ctx, s)
	if err != nil {
		return nil, err
	}
	s.ID = id
	s.Status = storedomain.StatusDraft
	s.KYCStatus = storedomain.KYCPending
	log.Printf("[vendor] application started store=%s owner=%s", id, ownerID)
	return s, nil
}

// ResolveReusableKYC looks for identity media from an earlier application so
// a returning vendor can skip re-recording. Media found only on an old store
// document is migrated onto the user profile for next time.
func (o *Onboarding) ResolveReusableKYC(ctx context.Context, ownerID string) (*userdomain.KYCDocuments, error) {
	u, err := o.users.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if u.KYC != nil && u.KYC.VideoURL != "" && u.KYC.DocURL != "" {
		return u.KYC, nil
	}

	owned, err := o.stores.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	for i := range owned {
		if !owned[i].HasKYCMedia() {
			continue
		}
		docs := userdomain.KYCDocuments{
			VideoURL: owned[i].KYC.VideoURL,
			DocURL:   owned[i].KYC.DocURL,
		}
		if err := o.users.SetKYCDocuments(ctx, ownerID, docs); err != nil {
			return nil, fmt.Errorf("migrate kyc media: %w", err)
		}
		log.Printf("[vendor] kyc media migrated from store=%s to user=%s", owned[i].ID, ownerID)
		return &docs, nil
	}
	return nil, domain.ErrNoReusableKYC
}

// IdentitySubmission carries a fresh pair of identity uploads. Durations and
// sizes are measured client side; the service re-checks what it can.
type IdentitySubmission struct {
	VideoData     []byte
	VideoDuration time.Duration
	VideoFilename string
	VideoMIME     string

	DocData     []byte
	DocFilename string
	DocMIME     string
}

// SubmitIdentity uploads fresh KYC media and attaches it to the application.
// The account must have a verified phone number before identity is accepted.
func (o *Onboarding) SubmitIdentity(ctx context.Context, ownerID, storeID string, sub IdentitySubmission) error {
	if _, err := o.requireOwner(ctx, storeID, ownerID); err != nil {
		return err
	}
	phone, err := o.phones.VerifiedPhone(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("check phone: %w", err)
	}
	if phone == "" {
		return domain.ErrPhoneNotVerified
	}

	if err := domain.ValidateKYCVideo(sub.VideoDuration); err != nil {
		return err
	}
	if err := domain.ValidateKYCDocument(sub.DocMIME, int64(len(sub.DocData))); err != nil {
		return err
	}

	videoURL, err := o.uploader.Upload(ctx, storage.ObjectPath("kyc", ownerID, sub.VideoFilename), sub.VideoData, sub.VideoMIME)
	if err != nil {
		return fmt.Errorf("upload video: %w", err)
	}
	docURL, err := o.uploader.Upload(ctx, storage.ObjectPath("kyc", ownerID, sub.DocFilename), sub.DocData, sub.DocMIME)
	if err != nil {
		return fmt.Errorf("upload document: %w", err)
	}

	return o.attachKYC(ctx, ownerID, storeID, storedomain.KYCMedia{VideoURL: videoURL, DocURL: docURL})
}

// ReuseIdentity attaches previously verified media instead of fresh uploads.
func (o *Onboarding) ReuseIdentity(ctx context.Context, ownerID, storeID string) error {
	if _, err := o.requireOwner(ctx, storeID, ownerID); err != nil {
		return err
	}
	docs, err := o.ResolveReusableKYC(ctx, ownerID)
	if err != nil {
		return err
	}
	return o.attachKYC(ctx, ownerID, storeID, storedomain.KYCMedia{VideoURL: docs.VideoURL, DocURL: docs.DocURL})
}

func (o *Onboarding) attachKYC(ctx context.Context, ownerID, storeID string, media storedomain.KYCMedia) error {
	if err := o.stores.SetKYCMedia(ctx, storeID, media); err != nil {
		return err
	}
	// Keep the user-level copy current so the next application can reuse it.
	if err := o.users.SetKYCDocuments(ctx, ownerID, userdomain.KYCDocuments{
		VideoURL: media.VideoURL,
		DocURL:   media.DocURL,
	}); err != nil {
		log.Printf("[vendor] warning: user kyc copy failed user=%s err=%v", ownerID, err)
	}
	return o.advanceStep(ctx, storeID, domain.StepIdentity)
}

// SetCategory records the store's category after checking it against the
// known taxonomy.
func (o *Onboarding) SetCategory(ctx context.Context, ownerID, storeID, category string) error {
	if _, err := o.requireOwner(ctx, storeID, ownerID); err != nil {
		return err
	}
	if category == "" {
		return domain.ErrCategoryRequired
	}
	if !taxonomy.IsValid(category) {
		return domain.ErrInvalidCategory
	}
	updates := []firestore.Update{{Path: "category", Value: category}}
	if err := o.stores.Update(ctx, storeID, updates); err != nil {
		return err
	}
	return o.advanceStep(ctx, storeID, domain.StepCategory)
}

// SetLocation records address, city and opening hours.
func (o *Onboarding) SetLocation(ctx context.Context, ownerID, storeID, address, city, hours string) error {
	if _, err := o.requireOwner(ctx, storeID, ownerID); err != nil {
		return err
	}
	updates := []firestore.Update{
		{Path: "address", Value: address},
		{Path: "city", Value: city},
		{Path: "hours", Value: hours},
	}
	if err := o.stores.Update(ctx, storeID, updates); err != nil {
		return err
	}
	return o.advanceStep(ctx, storeID, domain.StepLocation)
}

// SetBanking records the payout account.
func (o *Onboarding) SetBanking(ctx context.Context, ownerID, storeID string, bank storedomain.BankDetails) error {
	if _, err := o.requireOwner(ctx, storeID, ownerID); err != nil {
		return err
	}
	updates := []firestore.Update{{Path: "bankDetails", Value: bank}}
	if err := o.stores.Update(ctx, storeID, updates); err != nil {
		return err
	}
	return o.advanceStep(ctx, storeID, domain.StepBanking)
}

// Branding carries the optional description and imagery step.
type Branding struct {
	Description string

	LogoData     []byte
	LogoFilename string
	LogoMIME     string

	BannerData     []byte
	BannerFilename string
	BannerMIME     string
}

// SetBranding uploads whichever imagery was provided and records the store
// description. Every field is optional.
func (o *Onboarding) SetBranding(ctx context.Context, ownerID, storeID string, b Branding) error {
	if _, err := o.requireOwner(ctx, storeID, ownerID); err != nil {
		return err
	}
	updates := []firestore.Update{{Path: "description", Value: b.Description}}
	if len(b.LogoData) > 0 {
		url, err := o.uploader.Upload(ctx, storage.ObjectPath("branding", storeID, b.LogoFilename), b.LogoData, b.LogoMIME)
		if err != nil {
			return fmt.Errorf("upload logo: %w", err)
		}
		updates = append(updates, firestore.Update{Path: "logoUrl", Value: url})
	}
	if len(b.BannerData) > 0 {
		url, err := o.uploader.Upload(ctx, storage.ObjectPath("branding", storeID, b.BannerFilename), b.BannerData, b.BannerMIME)
		if err != nil {
			return fmt.Errorf("upload banner: %w", err)
		}
		updates = append(updates, firestore.Update{Path: "bannerUrl", Value: url})
	}
	if err := o.stores.Update(ctx, storeID, updates); err != nil {
		return err
	}
	return o.advanceStep(ctx, storeID, domain.StepBranding)
}

// SubmitForReview finalizes the application. Identity media and a category
// must be present; everything else may be filled in later.
func (o *Onboarding) SubmitForReview(ctx context.Context, ownerID, storeID string) error {
	s, err := o.requireOwner(ctx, storeID, ownerID)
	if err != nil {
		return err
	}
	if s.Status == storedomain.StatusPendingReview {
		return domain.ErrAlreadySubmitted
	}
	if !s.HasKYCMedia() {
		return &domain.FieldError{Field: "video", Reason: "identity verification is incomplete"}
	}
	if s.Category == "" {
		return domain.ErrCategoryRequired
	}
	if err := o.stores.MarkPendingReview(ctx, storeID); err != nil {
		return err
	}
	if err := o.advanceStep(ctx, storeID, domain.StepReview); err != nil {
		return err
	}
	log.Printf("[vendor] application submitted store=%s owner=%s", storeID, ownerID)
	return nil
}

// Application returns the owner's current application, if one exists.
func (o *Onboarding) Application(ctx context.Context, ownerID string) (*storedomain.Store, error) {
	owned, err := o.stores.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if s := resumableStore(owned); s != nil {
		return s, nil
	}
	return nil, storedomain.ErrStoreNotFound
}

func (o *Onboarding) requireOwner(ctx context.Context, storeID, ownerID string) (*storedomain.Store, error) {
	s, err := o.stores.Get(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if s.OwnerID != ownerID {
		return nil, storedomain.ErrNotOwner
	}
	return s, nil
}

// advanceStep only ever moves the wizard forward; revisiting an earlier step
// does not roll the progress marker back.
func (o *Onboarding) advanceStep(ctx context.Context, storeID string, step int) error {
	s, err := o.stores.Get(ctx, storeID)
	if err != nil {
		return err
	}
	next := step + 1
	if next > domain.TotalSteps {
		next = domain.TotalSteps
	}
	if s.OnboardingStep >= next {
		return nil
	}
	return o.stores.Update(ctx, storeID, []firestore.Update{{Path: "onboardingStep", Value: next}})
}
