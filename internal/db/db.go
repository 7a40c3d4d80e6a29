package db

import (
	"context"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool stays nil when DATABASE_URL is unset; Postgres is optional and
// callers must check the pool before wiring pooled components.
var Pool *pgxpool.Pool

// InitPostgres opens the process-wide pool. Without a DSN the radar runs
// memory-only: no candle archive, no alert journal.
func InitPostgres(ctx context.Context) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Println("DATABASE_URL not set, running without Postgres")
		return
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("postgres ping: %v", err)
	}
	Pool = pool
	log.Println("Postgres pool ready")
}
