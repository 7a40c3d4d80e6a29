package repository

import (
	"context"
	"time"

	"scalp-radar/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// AlertRepository is an append-only journal of emitted alerts, kept for
// after-session review. Nothing in the engine reads it back; the in-memory
// alert history is the only live view.
type AlertRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewAlertRepository(pool PgxPool, tracer trace.Tracer) *AlertRepository {
	return &AlertRepository{pool: pool, tracer: tracer}
}

func (r *AlertRepository) RunMigrations(ctx context.Context) error {
	_, err := r.pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS alerts (
			id BIGSERIAL PRIMARY KEY,
			symbol TEXT NOT NULL,
			direction TEXT NOT NULL,
			explanation TEXT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			pushed BOOLEAN NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`)
	return err
}

func (r *AlertRepository) InsertAlert(ctx context.Context, symbol string, alert domain.ScalpAlert) error {
	_, span := r.tracer.Start(ctx, "alert-repo.insert-alert")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO alerts (symbol, direction, explanation, confidence, pushed, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		symbol, string(alert.Direction), alert.Explanation, alert.Confidence, alert.ShouldPush, alert.Timestamp.UTC(),
	)
	return err
}

func (r *AlertRepository) ListAlerts(ctx context.Context, symbol string, limit int) ([]domain.ScalpAlert, error) {
	_, span := r.tracer.Start(ctx, "alert-repo.list-alerts")
	defer span.End()

	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	rows, err := r.pool.Query(ctx,
		`SELECT direction, explanation, confidence, pushed, created_at
		 FROM alerts
		 WHERE symbol = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		symbol, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []domain.ScalpAlert
	for rows.Next() {
		var a domain.ScalpAlert
		var direction string
		var ts time.Time
		if err := rows.Scan(&direction, &a.Explanation, &a.Confidence, &a.ShouldPush, &ts); err != nil {
			return nil, err
		}
		a.Direction = domain.Direction(direction)
		a.Timestamp = ts
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
