//go:build integration

package postgres

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"sea/internal/domain"
	"sea/pkg/e"
)

var (
	testPool *pgxpool.Pool
	tc       testcontainers.Container
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	user := "postgres"
	pass := "postgres"
	db := "sea"

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": pass,
			"POSTGRES_DB":       db,
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(90 * time.Second),
	}

	var err error
	tc, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Println("cannot start container:", err)
		os.Exit(1)
	}

	host, _ := tc.Host(ctx)
	mappedPort, _ := tc.MappedPort(ctx, "5432/tcp")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, mappedPort.Port(), db)

	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Println("pgxpool.New:", err)
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	if err := Migrate(ctx, testPool); err != nil {
		fmt.Println("Migrate:", err)
		testPool.Close()
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	code := m.Run()

	testPool.Close()
	_ = tc.Terminate(ctx)
	os.Exit(code)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func truncateAll(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), `TRUNCATE TABLE alerts, tracking, contacts RESTART IDENTITY`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

func TestAlertRepo_InsertAndList(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := NewAlertRepo(testPool, testLogger())

	ts := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	id1, err := repo.Insert(ctx, "37.774900", "-122.419400", ts)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	id2, err := repo.Insert(ctx, "1.000000", "2.000000", ts.Add(time.Minute))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id1 != 1 || id2 != 2 {
		t.Fatalf("expected monotonic ids 1,2 got %d,%d", id1, id2)
	}

	alerts, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(alerts) != 2 || alerts[0].ID != id2 || alerts[1].ID != id1 {
		t.Fatalf("expected newest first, got %+v", alerts)
	}
	if !alerts[1].Timestamp.Equal(ts) || alerts[1].Latitude != "37.774900" {
		t.Fatalf("unexpected alert %+v", alerts[1])
	}
}

func TestContactRepo_InsertListAndValidation(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := NewContactRepo(testPool, testLogger())

	if err := repo.Insert(ctx, &domain.Contact{Name: "  "}); !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	alice := &domain.Contact{Name: "Alice", Email: "a@x.com"}
	if err := repo.Insert(ctx, alice); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	bob := &domain.Contact{Name: "Bob", Phone: "+919876543210"}
	if err := repo.Insert(ctx, bob); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if alice.ID == 0 || alice.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at set: %+v", alice)
	}

	contacts, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(contacts) != 2 || contacts[0].Name != "Bob" || contacts[1].Name != "Alice" {
		t.Fatalf("expected newest first, got %+v", contacts)
	}
	if contacts[0].Email != "" || contacts[1].Phone != "" {
		t.Fatalf("NULL fields must scan as empty strings: %+v", contacts)
	}
}

func TestTrackingRepo_LatestHistoryAndStats(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := NewTrackingRepo(testPool, testLogger())
	stats := NewStatsRepo(testPool, testLogger())

	latest, err := repo.Latest(ctx)
	if err != nil || latest != nil {
		t.Fatalf("expected nil latest on empty table, got %+v err=%v", latest, err)
	}

	now := time.Now().UTC()
	old := &domain.TrackingPoint{Latitude: "1.000000", Longitude: "1.000000", Timestamp: now.Add(-2 * time.Hour)}
	fresh := &domain.TrackingPoint{Latitude: "2.000000", Longitude: "2.000000", Timestamp: now}
	for _, pt := range []*domain.TrackingPoint{old, fresh} {
		if err := repo.Insert(ctx, pt); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	latest, err = repo.Latest(ctx)
	if err != nil || latest == nil || latest.ID != fresh.ID {
		t.Fatalf("unexpected latest %+v err=%v", latest, err)
	}

	history, err := repo.History(ctx)
	if err != nil || len(history) != 2 || history[0].ID != fresh.ID {
		t.Fatalf("unexpected history %+v err=%v", history, err)
	}

	n, err := stats.CountTrackingSince(ctx, now.Add(-time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("expected 1 recent point, got %d err=%v", n, err)
	}
}
