package service

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/aurashop/marketplace-backend/internal/notifications/domain"
)

// Sender appends one notification to a user's feed.
type Sender interface {
	Send(ctx context.Context, userID string, p domain.Payload) error
}

// Directory resolves broadcast audiences to user ids.
type Directory interface {
	AllUserIDs(ctx context.Context, limit int) ([]string, error)
	VendorUserIDs(ctx context.Context) ([]string, error)
}

// AuditLog persists a record of each broadcast.
type AuditLog interface {
	Record(ctx context.Context, a domain.BroadcastAudit) error
}

// audienceLimit caps how many users an "all" broadcast resolves, matching the
// admin console's safety limit.
const audienceLimit = 500

// Fanout dispatches notifications to role-filtered audiences with bounded
// concurrency.
type Fanout struct {
	sender      Sender
	directory   Directory
	audit       AuditLog
	concurrency int
}

// NewFanout builds the dispatcher. concurrency bounds simultaneous feed
// writes; values below 1 fall back to 10.
func NewFanout(sender Sender, directory Directory, audit AuditLog, concurrency int) *Fanout {
	if concurrency < 1 {
		concurrency = 10
	}
	return &Fanout{
		sender:      sender,
		directory:   directory,
		audit:       audit,
		concurrency: concurrency,
	}
}

// SendBulk resolves the target audience, dispatches with at most
// f.concurrency in-flight writes, records an audit row, and returns the
// recipient count.
func (f *Fanout) SendBulk(ctx context.Context, senderUID, target string, p domain.Payload, explicitIDs []string) (int, error) {
	userIDs, err := f.resolveAudience(ctx, target, explicitIDs)
	if err != nil {
		return 0, err
	}

	log.Printf("[notify] bulk dispatch audience=%s recipients=%d", target, len(userIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for _, uid := range userIDs {
		g.Go(func() error {
			return f.sender.Send(gctx, uid, p)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("bulk dispatch: %w", err)
	}

	if f.audit != nil {
		audit := domain.BroadcastAudit{
			Audience:       target,
			RecipientCount: len(userIDs),
			SenderUID:      senderUID,
			Title:          p.Title,
			Message:        p.Message,
			Type:           p.Type,
		}
		if err := f.audit.Record(ctx, audit); err != nil {
			// The dispatch already happened; losing the audit row is
			// logged, not propagated.
			log.Printf("[notify] audit record failed audience=%s error=%v", target, err)
		}
	}

	return len(userIDs), nil
}

func (f *Fanout) resolveAudience(ctx context.Context, target string, explicitIDs []string) ([]string, error) {
	switch target {
	case domain.TargetSpecific:
		if len(explicitIDs) == 0 {
			return nil, fmt.Errorf("specific audience requires explicit ids")
		}
		return explicitIDs, nil
	case domain.TargetVendors:
		ids, err := f.directory.VendorUserIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve vendor audience: %w", err)
		}
		return ids, nil
	case domain.TargetAll:
		ids, err := f.directory.AllUserIDs(ctx, audienceLimit)
		if err != nil {
			return nil, fmt.Errorf("resolve full audience: %w", err)
		}
		return ids, nil
	default:
		return nil, fmt.Errorf("unknown audience %q", target)
	}
}
