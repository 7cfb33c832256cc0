package utils

import (
	"testing"
	"time"
)

func TestPostgresPoolConfig_Defaults(t *testing.T) {
	got := PostgresPoolConfig{}.withDefaults()
	if got.MaxOpenConns != 25 || got.MaxIdleConns != 25 {
		t.Fatalf("unexpected conn defaults: %+v", got)
	}
	if got.ConnMaxLifetime != 30*time.Minute || got.PingTimeout != 5*time.Second {
		t.Fatalf("unexpected duration defaults: %+v", got)
	}
}

func TestPostgresPoolConfig_IdleCappedByOpen(t *testing.T) {
	got := PostgresPoolConfig{MaxOpenConns: 4, MaxIdleConns: 10}.withDefaults()
	if got.MaxIdleConns != 4 {
		t.Fatalf("expected idle capped at 4, got %d", got.MaxIdleConns)
	}
}
