package auth

import (
	"context"
	"fmt"

	fbauth "firebase.google.com/go/v4/auth"
)

// PhoneVerifier answers whether an identity has completed the provider's OTP
// challenge. The challenge itself runs against the auth provider; what we see
// is the linked phone number on the user record.
type PhoneVerifier struct {
	client *fbauth.Client
}

func NewPhoneVerifier(client *fbauth.Client) *PhoneVerifier {
	return &PhoneVerifier{client: client}
}

// VerifiedPhone returns the E.164 number linked to the identity, or empty
// when no phone is linked yet.
func (v *PhoneVerifier) VerifiedPhone(ctx context.Context, uid string) (string, error) {
	rec, err := v.client.GetUser(ctx, uid)
	if err != nil {
		return "", fmt.Errorf("lookup user %s: %w", uid, err)
	}
	return rec.PhoneNumber, nil
}
