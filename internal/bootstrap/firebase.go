package bootstrap

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/aurashop/marketplace-backend/config"
)

// FirebaseClients bundles the provider handles the repositories depend on.
type FirebaseClients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
	GCS       *gcs.Client
}

// InitFirebase initializes the Firebase Admin SDK and returns the Auth,
// Firestore and Cloud Storage clients backed by the same credentials.
func InitFirebase(ctx context.Context, cfg *config.FirebaseConfig) (*FirebaseClients, error) {
	if cfg.CredentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}

	opt := option.WithCredentialsFile(cfg.CredentialsPath)
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firestore client: %w", err)
	}

	gcsClient, err := gcs.NewClient(ctx, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to get Cloud Storage client: %w", err)
	}

	return &FirebaseClients{
		Auth:      authClient,
		Firestore: fsClient,
		GCS:       gcsClient,
	}, nil
}

func (c *FirebaseClients) Close() {
	if c == nil {
		return
	}
	if c.Firestore != nil {
		_ = c.Firestore.Close()
	}
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
}
