package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chelseasymphony/donations/internal/model"
)

// IPNRepository records payment notifications in ipn_events. The unique
// (kind, txn_id) constraint is the deduplication boundary.
type IPNRepository struct {
	pool *pgxpool.Pool

	// StaleClaimAfter is how long an unfinished claim blocks redeliveries.
	// After that a new delivery takes the claim over.
	StaleClaimAfter time.Duration
}

const DefaultStaleClaimAfter = 10 * time.Minute

func NewIPNRepository(pool *pgxpool.Pool) *IPNRepository {
	return &IPNRepository{pool: pool, StaleClaimAfter: DefaultStaleClaimAfter}
}

// Claim inserts the event and reports false if it was already recorded.
// A row left unfinished for longer than StaleClaimAfter is reclaimed.
func (r *IPNRepository) Claim(ctx context.Context, ev *model.PaymentEvent) (bool, error) {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return false, fmt.Errorf("marshal payload: %w", err)
	}
	if ev.Payload == nil {
		payload = []byte("{}")
	}

	var id string
	err = r.pool.QueryRow(ctx,
		`INSERT INTO ipn_events (kind, txn_id, raw_kind, payer_email, gross, payment_status, receiver_email, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (kind, txn_id) DO UPDATE SET created_at = now()
		WHERE ipn_events.processed_at IS NULL
			AND ipn_events.created_at < now() - make_interval(secs => $9)
		RETURNING id`,
		string(ev.Kind), ev.TransactionID, ev.RawKind, ev.PayerEmail, ev.Gross,
		string(ev.Status), ev.ReceiverEmail, payload, r.StaleClaimAfter.Seconds(),
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", ev.Key(), err)
	}
	return true, nil
}

// Release forgets an unfinished claim so a redelivery can be processed.
func (r *IPNRepository) Release(ctx context.Context, key model.EventKey) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM ipn_events WHERE kind = $1 AND txn_id = $2 AND processed_at IS NULL`,
		string(key.Kind), key.TransactionID)
	if err != nil {
		return fmt.Errorf("release %s: %w", key, err)
	}
	return nil
}

func (r *IPNRepository) Complete(ctx context.Context, key model.EventKey, outcome model.Outcome) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE ipn_events SET outcome = $3, processed_at = now() WHERE kind = $1 AND txn_id = $2`,
		string(key.Kind), key.TransactionID, string(outcome))
	if err != nil {
		return fmt.Errorf("complete %s: %w", key, err)
	}
	return nil
}

func (r *IPNRepository) List(ctx context.Context, limit, offset int) ([]model.IPNRecord, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ipn_events`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count ipn events: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, kind, txn_id, payer_email, gross, payment_status, COALESCE(outcome, ''), processed_at, created_at
		FROM ipn_events
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list ipn events: %w", err)
	}
	defer rows.Close()

	var records []model.IPNRecord
	for rows.Next() {
		var rec model.IPNRecord
		var kind string
		if err := rows.Scan(&rec.ID, &kind, &rec.TransactionID, &rec.PayerEmail, &rec.Gross,
			&rec.Status, &rec.Outcome, &rec.ProcessedAt, &rec.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan ipn event: %w", err)
		}
		rec.Kind = model.EventKind(kind)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
