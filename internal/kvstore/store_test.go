package kvstore_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/trainew/trainew/internal/errors"
	"github.com/trainew/trainew/internal/kvstore"
	"github.com/trainew/trainew/internal/sqlite"
	"github.com/trainew/trainew/internal/testhelpers"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestStore(t *testing.T) (*kvstore.Store, *sqlite.Database) {
	t.Helper()
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close database: %v", err)
		}
	})
	return kvstore.New(db, logger), db
}

func TestStore_roundTrip(t *testing.T) {
	ctx := t.Context()
	store, _ := newTestStore(t)

	want := record{Name: "treino", Count: 3}
	if err := store.Set(ctx, "ana@example.com", "plan", want); err != nil {
		t.Fatal(err)
	}

	var got record
	if err := store.Get(ctx, "ana@example.com", "plan", &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_missingKey(t *testing.T) {
	ctx := t.Context()
	store, _ := newTestStore(t)

	var got record
	err := store.Get(ctx, "guest", "plan", &got)
	if !errors.Is(err, kvstore.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStore_lastWriteWins(t *testing.T) {
	ctx := t.Context()
	store, _ := newTestStore(t)

	if err := store.Set(ctx, "guest", "plan", record{Name: "old"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, "guest", "plan", record{Name: "new"}); err != nil {
		t.Fatal(err)
	}

	var got record
	if err := store.Get(ctx, "guest", "plan", &got); err != nil {
		t.Fatal(err)
	}
	if got.Name != "new" {
		t.Errorf("name = %s, want new", got.Name)
	}
}

func TestStore_userIsolation(t *testing.T) {
	ctx := t.Context()
	store, _ := newTestStore(t)

	if err := store.Set(ctx, "ana@example.com", "plan", record{Name: "ana"}); err != nil {
		t.Fatal(err)
	}

	var got record
	err := store.Get(ctx, "guest", "plan", &got)
	if !errors.Is(err, kvstore.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for other user", err)
	}
}

func TestStore_corruptValueTreatedAsAbsent(t *testing.T) {
	ctx := t.Context()
	store, db := newTestStore(t)

	_, err := db.ReadWrite.ExecContext(ctx, `
		INSERT INTO kv_records (user_id, key, value)
		VALUES ('guest', 'plan', 'not json at all')`)
	if err != nil {
		t.Fatal(err)
	}

	var got record
	err = store.Get(ctx, "guest", "plan", &got)
	if !errors.Is(err, kvstore.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for corrupt record", err)
	}
}

func TestStore_delete(t *testing.T) {
	ctx := t.Context()
	store, _ := newTestStore(t)

	if err := store.Set(ctx, "guest", "plan", record{Name: "treino"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "guest", "plan"); err != nil {
		t.Fatal(err)
	}

	var got record
	if err := store.Get(ctx, "guest", "plan", &got); !errors.Is(err, kvstore.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after delete", err)
	}

	// Deleting an absent record is not an error.
	if err := store.Delete(ctx, "guest", "plan"); err != nil {
		t.Errorf("delete absent record: %v", err)
	}
}
