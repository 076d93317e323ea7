package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// UserDirectory resolves broadcast audiences to user ids. Select() keeps the
// queries id-only so resolving 500 users does not pull 500 profiles.
type UserDirectory struct {
	db *firestore.Client
}

func NewUserDirectory(db *firestore.Client) *UserDirectory {
	return &UserDirectory{db: db}
}

func (d *UserDirectory) AllUserIDs(ctx context.Context, limit int) ([]string, error) {
	q := d.db.Collection("users").Select()
	if limit > 0 {
		q = q.Limit(limit)
	}
	return collectIDs(q.Documents(ctx))
}

func (d *UserDirectory) VendorUserIDs(ctx context.Context) ([]string, error) {
	q := d.db.Collection("users").
		Where("roles", "array-contains", "vendor").
		Select()
	return collectIDs(q.Documents(ctx))
}

func collectIDs(it *firestore.DocumentIterator) ([]string, error) {
	defer it.Stop()
	var ids []string
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			return ids, nil
		}
		if err != nil {
			return nil, fmt.Errorf("iterate users: %w", err)
		}
		ids = append(ids, snap.Ref.ID)
	}
}
