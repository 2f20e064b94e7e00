package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := OpenFile(filepath.Join(t.TempDir(), "data", "countdowns.json"))
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	return s
}

func sampleCountdown() Countdown {
	return Countdown{
		ID:          "https://t.me/mychannel/67",
		ChatID:      "@mychannel",
		MessageID:   67,
		Target:      1767225600,
		Template:    "{days} {hours} {minutes} {seconds}",
		OwnerChatID: 1234,
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	s := newFileStore(t)
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

	// flip the render mode and make sure the change survives
	c.RenderMode = ModeCaption
	if err := s.Upsert(c); err != nil {
		t.Fatalf("Upsert after flip: %v", err)
	}
	got, err = s.Get(c.ID)
	if err != nil {
		t.Fatalf("Get after flip: %v", err)
	}
	if got.Mode() != ModeCaption {
		t.Errorf("render mode = %q, want caption", got.Mode())
	}
}

func TestFileStoreGetMissing(t *testing.T) {
	s := newFileStore(t)
	if _, err := s.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStoreDelete(t *testing.T) {
	s := newFileStore(t)
	c := sampleCountdown()
	if err := s.Upsert(c); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.Delete(c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	// deleting again is a no-op
	if err := s.Delete(c.ID); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestFileStoreLoadAll(t *testing.T) {
	s := newFileStore(t)
	all, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll on fresh store: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("fresh store has %d records", len(all))
	}

	a := sampleCountdown()
	b := sampleCountdown()
	b.ID = "https://t.me/c/12345/67"
	b.ChatID = "-10012345"
	for _, c := range []Countdown{a, b} {
		if err := s.Upsert(c); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	all, err = s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("LoadAll returned %d records, want 2", len(all))
	}
	if all[a.ID] != a || all[b.ID] != b {
		t.Errorf("LoadAll = %+v", all)
	}
}

func TestFileStoreCorruptFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "countdowns.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	all, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll on corrupt file: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("corrupt file yielded %d records, want 0", len(all))
	}
	// the store stays usable and the next write replaces the bad file
	if err := s.Upsert(sampleCountdown()); err != nil {
		t.Fatalf("Upsert after corruption: %v", err)
	}
	if _, err := s.Get(sampleCountdown().ID); err != nil {
		t.Errorf("Get after recovery: %v", err)
	}
}

func TestFileStoreLegacyRecordDefaultsToText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "countdowns.json")
	legacy := `{"https://t.me/mychannel/67":{"id":"https://t.me/mychannel/67","chat_id":"@mychannel","message_id":67,"target_timestamp":1767225600,"template":"{days} {hours} {minutes} {seconds}","admin_chat_id":1234}}`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	got, err := s.Get("https://t.me/mychannel/67")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Mode() != ModeText {
		t.Errorf("legacy record mode = %q, want text", got.Mode())
	}
}
