package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"

	storedomain "github.com/aurashop/marketplace-backend/internal/stores/domain"
)

// DashboardStats is the admin landing page's headline numbers.
type DashboardStats struct {
	TotalUsers    int64 `json:"total_users"`
	TotalStores   int64 `json:"total_stores"`
	ActiveStores  int64 `json:"active_stores"`
	PendingKYC    int64 `json:"pending_kyc"`
	TotalProducts int64 `json:"total_products"`
	TotalOrders   int64 `json:"total_orders"`
}

// StatsRepository answers the dashboard with server-side aggregation counts
// instead of pulling whole collections.
type StatsRepository struct {
	client *firestore.Client
}

func NewStatsRepository(client *firestore.Client) *StatsRepository {
	return &StatsRepository{client: client}
}

func (r *StatsRepository) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	counts := []struct {
		dest  *int64
		query firestore.Query
	}{
		{&stats.TotalUsers, r.client.Collection("users").Query},
		{&stats.TotalStores, r.client.Collection("stores").Query},
		{&stats.ActiveStores, r.client.Collection("stores").Where("status", "==", storedomain.StatusActive)},
		{&stats.PendingKYC, r.client.Collection("stores").Where("kycStatus", "==", storedomain.KYCSubmitted)},
		{&stats.TotalProducts, r.client.Collection("products").Query},
		{&stats.TotalOrders, r.client.Collection("orders").Query},
	}
	for _, c := range counts {
		n, err := count(ctx, c.query)
		if err != nil {
			return nil, err
		}
		*c.dest = n
	}
	return stats, nil
}

func count(ctx context.Context, q firestore.Query) (int64, error) {
	res, err := q.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("aggregate count: %w", err)
	}
	v, ok := res["all"]
	if !ok {
		return 0, fmt.Errorf("aggregate count: missing result")
	}
	pb, ok := v.(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("aggregate count: unexpected result type %T", v)
	}
	return pb.GetIntegerValue(), nil
}
