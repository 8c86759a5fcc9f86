package session

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sub", "sessions.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAssignsID(t *testing.T) {
	s := openTestStore(t)

	rec := &Record{Name: "notes/", State: []byte(`{"cursor":{}}`)}
	if err := s.Save(rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	if rec.ID == "" {
		t.Error("expected an assigned id")
	}
	if rec.Created.IsZero() || rec.Updated.IsZero() {
		t.Error("expected timestamps")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)

	rec := &Record{Name: "notes/", State: []byte("payload")}
	if err := s.Save(rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(rec.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Name != "notes/" || string(got.State) != "payload" {
		t.Errorf("got %+v", got)
	}
}

func TestSaveUpdatesExisting(t *testing.T) {
	s := openTestStore(t)

	rec := &Record{Name: "a", State: []byte("v1")}
	if err := s.Save(rec); err != nil {
		t.Fatal(err)
	}
	rec.State = []byte("v2")
	if err := s.Save(rec); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(rec.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got.State) != "v2" {
		t.Errorf("state = %q, want v2", got.State)
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("got %d sessions, want 1", len(list))
	}
}

func TestLoadMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLatest(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.Latest(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty store: err = %v, want ErrNotFound", err)
	}

	first := &Record{Name: "first", State: []byte("1")}
	if err := s.Save(first); err != nil {
		t.Fatal(err)
	}
	second := &Record{
		Name:    "second",
		State:   []byte("2"),
		Created: time.Now().Add(time.Hour),
	}
	// Force a later updated stamp regardless of clock resolution.
	second.ID = "fixed-id"
	second.Updated = time.Now()
	if err := s.Save(second); err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.Exec(`UPDATE sessions SET updated = updated + 10 WHERE id = ?`, second.ID); err != nil {
		t.Fatal(err)
	}

	got, err := s.Latest()
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got.Name != "second" {
		t.Errorf("latest = %q, want second", got.Name)
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)

	rec := &Record{Name: "gone", State: []byte("x")}
	if err := s.Save(rec); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(rec.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Load(rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	// Deleting again is not an error.
	if err := s.Delete(rec.ID); err != nil {
		t.Errorf("second delete: %v", err)
	}
}
