package audit

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/nerrad567/handlerhub/internal/infrastructure/config"
	"github.com/nerrad567/handlerhub/internal/infrastructure/database"
	_ "github.com/nerrad567/handlerhub/migrations"
)

// openTestDB opens a migrated in-memory database.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Path: database.MemoryPath, BusyTimeout: 1})
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return db.DB
}

func TestCreate_GeneratesIDAndTimestamp(t *testing.T) {
	repo := NewSQLiteRepository(openTestDB(t))

	entry := &Entry{Action: ActionAdd, EntityType: EntityThing, EntityID: "lgwebos:WebOSTV:tv1", Source: "api"}
	if err := repo.Create(context.Background(), entry); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(entry.ID) != len("aud-")+8 || entry.ID[:4] != "aud-" {
		t.Errorf("ID = %q", entry.ID)
	}
	if entry.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestList_FiltersAndPaging(t *testing.T) {
	repo := NewSQLiteRepository(openTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	entries := []Entry{
		{Action: ActionAdd, EntityID: "a:b:one", Source: "config"},
		{Action: ActionCommand, EntityID: "a:b:one", Source: "api", UserID: "installer", Details: map[string]any{"command": "status"}},
		{Action: ActionCommand, EntityID: "a:b:two", Source: "mqtt"},
		{Action: ActionRemove, EntityID: "a:b:one", Source: "api"},
	}
	for i := range entries {
		entries[i].EntityType = EntityThing
		entries[i].CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := repo.Create(ctx, &entries[i]); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name      string
		filter    Filter
		wantTotal int
		wantFirst string
	}{
		{"all, newest first", Filter{}, 4, ActionRemove},
		{"by action", Filter{Action: ActionCommand}, 2, ActionCommand},
		{"by entity", Filter{EntityID: "a:b:two"}, 1, ActionCommand},
		{"by source", Filter{Source: "api"}, 2, ActionRemove},
		{"by user", Filter{UserID: "installer"}, 1, ActionCommand},
		{"paged", Filter{Limit: 1, Offset: 3}, 4, ActionAdd},
		{"no match", Filter{Action: ActionReject}, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if res.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", res.Total, tt.wantTotal)
			}
			if tt.wantFirst == "" {
				if len(res.Entries) != 0 {
					t.Errorf("Logs = %+v, want empty", res.Entries)
				}
				return
			}
			if len(res.Entries) == 0 || res.Entries[0].Action != tt.wantFirst {
				t.Errorf("first = %+v, want action %s", res.Entries, tt.wantFirst)
			}
		})
	}

	res, err := repo.List(ctx, Filter{Action: ActionCommand, Source: "api"})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Entries) != 1 || res.Entries[0].Details["command"] != "status" {
		t.Errorf("details not round-tripped: %+v", res.Entries)
	}
}

func TestList_ClampsLimit(t *testing.T) {
	repo := NewSQLiteRepository(openTestDB(t))

	res, err := repo.List(context.Background(), Filter{Limit: 10000, Offset: -5})
	if err != nil {
		t.Fatal(err)
	}
	if res.Limit != maxLimit || res.Offset != 0 {
		t.Errorf("Limit=%d Offset=%d", res.Limit, res.Offset)
	}
	if res.Entries == nil {
		t.Error("Logs should be an empty slice, not nil")
	}
}

func TestPrune(t *testing.T) {
	repo := NewSQLiteRepository(openTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	for _, age := range []time.Duration{100 * 24 * time.Hour, 95 * 24 * time.Hour, time.Hour} {
		if err := repo.Create(ctx, &Entry{
			Action: ActionAdd, EntityType: EntityThing, Source: "config", CreatedAt: now.Add(-age),
		}); err != nil {
			t.Fatal(err)
		}
	}

	n, err := repo.Prune(ctx, now.Add(-90*24*time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 2 {
		t.Errorf("pruned %d, want 2", n)
	}
	res, _ := repo.List(ctx, Filter{})
	if res.Total != 1 {
		t.Errorf("remaining = %d, want 1", res.Total)
	}
}
