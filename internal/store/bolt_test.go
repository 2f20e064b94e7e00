package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestBoltStoreRoundTrip(t *testing.T) {
	s, err := OpenBolt(filepath.Join(t.TempDir(), "countdowns.db"))
	if err != nil {
		t.Fatalf("OpenBolt: %v", err)
	}
	defer s.Close()

	c := sampleCountdown()
	if err := s.Upsert(c); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := s.Get(c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != c {
		t.Errorf("Get = %+v, want %+v", got, c)
	}

	all, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(all) != 1 || all[c.ID] != c {
		t.Errorf("LoadAll = %+v", all)
	}

	if err := s.Delete(c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
