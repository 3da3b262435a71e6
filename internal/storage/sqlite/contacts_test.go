// ABOUTME: Tests for contact and chat storage operations
// ABOUTME: Verifies first-sighting creation, name refinement, and lookups
package sqlite

import "testing"

func TestContactUpsert(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewContactStore(db)

	id, err := store.Upsert("+15551234567", "")
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if id == 0 {
		t.Fatal("Upsert() returned zero id")
	}

	// Same identifier must resolve to the same contact
	id2, err := store.Upsert("+15551234567", "")
	if err != nil {
		t.Fatalf("Upsert() second call error = %v", err)
	}
	if id2 != id {
		t.Errorf("second Upsert id = %d, want %d", id2, id)
	}
}

func TestContactNameRefinement(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewContactStore(db)

	id, err := store.Upsert("+15551234567", "")
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// Richer source arrives later with a real name
	if _, err := store.Upsert("+15551234567", "Dana Blake"); err != nil {
		t.Fatalf("Upsert() with name error = %v", err)
	}

	c, err := store.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if c == nil {
		t.Fatal("GetByID() returned nil")
	}
	if c.DisplayName != "Dana Blake" {
		t.Errorf("DisplayName = %q, want %q", c.DisplayName, "Dana Blake")
	}

	// A real name is not clobbered by a later empty or redundant sighting
	if _, err := store.Upsert("+15551234567", ""); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	c, err = store.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if c.DisplayName != "Dana Blake" {
		t.Errorf("DisplayName after empty upsert = %q, want %q", c.DisplayName, "Dana Blake")
	}
}

func TestContactLookups(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewContactStore(db)

	if _, err := store.Upsert("dana@example.com", "Dana"); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	byIdent, err := store.GetByIdentifier("dana@example.com")
	if err != nil {
		t.Fatalf("GetByIdentifier() error = %v", err)
	}
	if byIdent == nil || byIdent.DisplayName != "Dana" {
		t.Errorf("GetByIdentifier() = %+v, want Dana", byIdent)
	}

	byName, err := store.GetByName("Dana")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if byName == nil || byName.Identifier != "dana@example.com" {
		t.Errorf("GetByName() = %+v, want dana@example.com", byName)
	}

	missing, err := store.GetByIdentifier("nobody@example.com")
	if err != nil {
		t.Fatalf("GetByIdentifier() missing error = %v", err)
	}
	if missing != nil {
		t.Error("GetByIdentifier() for unknown identifier should return nil")
	}
}

func TestChatUpsert(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	store := NewContactStore(db)

	a, err := store.UpsertChat("chat-1")
	if err != nil {
		t.Fatalf("UpsertChat() error = %v", err)
	}
	b, err := store.UpsertChat("chat-1")
	if err != nil {
		t.Fatalf("UpsertChat() second call error = %v", err)
	}
	if a != b {
		t.Errorf("same chat identifier resolved to different ids: %d vs %d", a, b)
	}
}
