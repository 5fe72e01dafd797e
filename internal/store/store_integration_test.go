package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPostgresStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		tcPostgres.WithDatabase("wsd"),
		tcPostgres.WithUsername("wsd"),
		tcPostgres.WithPassword("wsd"),
		testcontainers.WithWaitStrategy(wait.ForListeningPort("5432/tcp")),
	)
	if err != nil {
		t.Fatalf("postgres container: %v", err)
	}
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	if err != nil {
		t.Fatalf("postgres host: %v", err)
	}
	port, err := pgC.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("postgres port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://wsd:wsd@%s:%s/wsd?sslmode=disable", host, port.Port())

	dir, err := filepath.Abs("../../migrations")
	if err != nil {
		t.Fatalf("migrations dir: %v", err)
	}
	if err := Migrate("file://"+dir, dsn, "up", 0); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := Migrate("file://"+dir, dsn, "up", 0); err != nil {
		t.Fatalf("second migrate must be a no-op: %v", err)
	}

	st, err := NewWithDSN(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer st.Close()

	run := sampleRun("20240501T120000Z-0a1b2c3d")
	if _, err := st.Create(ctx, run); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := st.Create(ctx, run); !errors.Is(err, ErrRunExists) {
		t.Fatalf("expected ErrRunExists, got %v", err)
	}
	got, err := st.Get(ctx, run.RunID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Target != run.Target || got.FoundSentences != run.FoundSentences || len(got.Results) != 2 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
