package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurashop/marketplace-backend/internal/notifications/domain"
)

type fakeSender struct {
	mu       sync.Mutex
	inflight int
	peak     int
	sent     []string
	failFor  map[string]bool
}

func (s *fakeSender) Send(ctx context.Context, userID string, p domain.Payload) error {
	s.mu.Lock()
	s.inflight++
	if s.inflight > s.peak {
		s.peak = s.inflight
	}
	s.mu.Unlock()

	time.Sleep(2 * time.Millisecond)

	s.mu.Lock()
	s.inflight--
	fail := s.failFor[userID]
	if !fail {
		s.sent = append(s.sent, userID)
	}
	s.mu.Unlock()

	if fail {
		return fmt.Errorf("write denied for %s", userID)
	}
	return nil
}

type fakeDirectory struct {
	all     []string
	vendors []string
}

func (d *fakeDirectory) AllUserIDs(ctx context.Context, limit int) ([]string, error) {
	if len(d.all) > limit {
		return d.all[:limit], nil
	}
	return d.all, nil
}

func (d *fakeDirectory) VendorUserIDs(ctx context.Context) ([]string, error) {
	return d.vendors, nil
}

type fakeAudit struct {
	mu      sync.Mutex
	records []domain.BroadcastAudit
}

func (a *fakeAudit) Record(ctx context.Context, r domain.BroadcastAudit) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, r)
	return nil
}

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("user-%03d", i)
	}
	return out
}

func TestFanout_SendBulk(t *testing.T) {
	payload := domain.Payload{Title: "Sale", Message: "Everything 20% off", Type: domain.TypePromotion}

	t.Run("bounded concurrency and full count", func(t *testing.T) {
		sender := &fakeSender{}
		dir := &fakeDirectory{all: ids(37)}
		audit := &fakeAudit{}
		f := NewFanout(sender, dir, audit, 10)

		n, err := f.SendBulk(context.Background(), "admin-1", domain.TargetAll, payload, nil)
		require.NoError(t, err)
		assert.Equal(t, 37, n)
		assert.Len(t, sender.sent, 37)
		assert.LessOrEqual(t, sender.peak, 10)
	})

	t.Run("vendor audience", func(t *testing.T) {
		sender := &fakeSender{}
		dir := &fakeDirectory{vendors: ids(4)}
		f := NewFanout(sender, dir, &fakeAudit{}, 10)

		n, err := f.SendBulk(context.Background(), "admin-1", domain.TargetVendors, payload, nil)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})

	t.Run("explicit recipient list", func(t *testing.T) {
		sender := &fakeSender{}
		f := NewFanout(sender, &fakeDirectory{}, &fakeAudit{}, 3)

		n, err := f.SendBulk(context.Background(), "admin-1", domain.TargetSpecific, payload, []string{"a", "b"})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.ElementsMatch(t, []string{"a", "b"}, sender.sent)
	})

	t.Run("specific without ids fails", func(t *testing.T) {
		f := NewFanout(&fakeSender{}, &fakeDirectory{}, &fakeAudit{}, 10)
		_, err := f.SendBulk(context.Background(), "admin-1", domain.TargetSpecific, payload, nil)
		assert.Error(t, err)
	})

	t.Run("unknown audience fails", func(t *testing.T) {
		f := NewFanout(&fakeSender{}, &fakeDirectory{}, &fakeAudit{}, 10)
		_, err := f.SendBulk(context.Background(), "admin-1", "moderators", payload, nil)
		assert.Error(t, err)
	})

	t.Run("send failure propagates", func(t *testing.T) {
		sender := &fakeSender{failFor: map[string]bool{"user-001": true}}
		dir := &fakeDirectory{all: ids(5)}
		f := NewFanout(sender, dir, &fakeAudit{}, 10)

		_, err := f.SendBulk(context.Background(), "admin-1", domain.TargetAll, payload, nil)
		assert.Error(t, err)
	})

	t.Run("audit record written", func(t *testing.T) {
		audit := &fakeAudit{}
		dir := &fakeDirectory{all: ids(6)}
		f := NewFanout(&fakeSender{}, dir, audit, 10)

		_, err := f.SendBulk(context.Background(), "admin-9", domain.TargetAll, payload, nil)
		require.NoError(t, err)

		require.Len(t, audit.records, 1)
		rec := audit.records[0]
		assert.Equal(t, domain.TargetAll, rec.Audience)
		assert.Equal(t, 6, rec.RecipientCount)
		assert.Equal(t, "admin-9", rec.SenderUID)
		assert.Equal(t, "Sale", rec.Title)
	})
}
