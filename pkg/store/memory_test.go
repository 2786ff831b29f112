package store

import (
	"context"
	"errors"
	"testing"

	"github.com/pomtree/pomtree/pkg/pom"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	model := &pom.Pom{ID: pom.NewID(), GroupID: "g", ArtifactID: "a", Version: "1"}
	if err := s.Put(ctx, "fp-1", model); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	rec, err := s.GetByFingerprint(ctx, "fp-1")
	if err != nil {
		t.Fatalf("GetByFingerprint error: %v", err)
	}
	if rec.Coordinates != "g:a:1" {
		t.Errorf("Coordinates = %q", rec.Coordinates)
	}

	byID, err := s.GetByID(ctx, model.ID.String())
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if byID.Fingerprint != "fp-1" {
		t.Errorf("Fingerprint = %q", byID.Fingerprint)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.GetByID(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetByFingerprint(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreReplaceByFingerprint(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := &pom.Pom{ID: pom.NewID(), GroupID: "g", ArtifactID: "a", Version: "1"}
	second := &pom.Pom{ID: pom.NewID(), GroupID: "g", ArtifactID: "a", Version: "1"}
	_ = s.Put(ctx, "fp", first)
	_ = s.Put(ctx, "fp", second)

	rec, err := s.GetByFingerprint(ctx, "fp")
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != second.ID.String() {
		t.Error("later Put should replace the record")
	}
	if _, err := s.GetByID(ctx, first.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Error("replaced record should be gone")
	}
}
