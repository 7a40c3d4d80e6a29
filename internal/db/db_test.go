package db

import (
	"context"
	"testing"
)

func TestInitPostgresNoDSN(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	InitPostgres(context.Background())
	if Pool != nil {
		t.Fatal("missing DSN should leave the pool nil")
	}
}
