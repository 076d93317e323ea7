package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurashop/marketplace-backend/internal/notifications/domain"
)

// AuditRepository persists broadcast audit records to Postgres.
type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record inserts one audit row for a completed broadcast.
func (r *AuditRepository) Record(ctx context.Context, a domain.BroadcastAudit) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}

	const q = `
insert into admin_notification_logs (id, audience, recipient_count, sender_uid, title, message, type)
values ($1, $2, $3, $4, $5, $6, $7);
`
	if _, err := r.db.Exec(ctx, q,
		a.ID, a.Audience, a.RecipientCount, a.SenderUID, a.Title, a.Message, a.Type,
	); err != nil {
		return fmt.Errorf("record broadcast audit: %w", err)
	}
	return nil
}

// ListRecent returns the newest limit audit rows for the admin console.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]domain.BroadcastAudit, error) {
	const q = `
select id, audience, recipient_count, sender_uid, title, message, type, created_at
from admin_notification_logs
order by created_at desc
limit $1;
`
	rows, err := r.db.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list broadcast audits: %w", err)
	}
	defer rows.Close()

	out := make([]domain.BroadcastAudit, 0, limit)
	for rows.Next() {
		var a domain.BroadcastAudit
		if err := rows.Scan(&a.ID, &a.Audience, &a.RecipientCount, &a.SenderUID,
			&a.Title, &a.Message, &a.Type, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan broadcast audit: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
