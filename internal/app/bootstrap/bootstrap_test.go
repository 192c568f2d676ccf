package bootstrap

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestNormalizeAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000", " 81 ": ":81"}
	for input, want := range cases {
		if got := normalizeAddr(input); got != want {
			t.Fatalf("normalizeAddr(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestMigrateAndWorkerOnSQLite(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "governance.db"))
	t.Setenv("REDIS_URL", "")
	t.Setenv("OUTBOX_POLL_INTERVAL", "10ms")
	t.Setenv("LOG_LEVEL", "error")

	if err := Migrate(context.Background(), nil); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	worker, err := BuildWorker(nil)
	if err != nil {
		t.Fatalf("build worker failed: %v", err)
	}
	defer worker.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := worker.Run(ctx); err != nil {
		t.Fatalf("worker run failed: %v", err)
	}
}

func TestBuildAPIRequiresRPCEndpoint(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "governance.db"))
	t.Setenv("ETH_RPC_URL", "")

	if _, err := BuildAPI(context.Background(), nil); err == nil {
		t.Fatal("expected missing ETH_RPC_URL error")
	}
}
