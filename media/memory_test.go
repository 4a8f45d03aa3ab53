package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestMemoryStore_UploadOpenRemove(t *testing.T) {
	store := NewMemoryStore("http://localhost:8080")
	ctx := context.Background()

	url, err := store.Upload(ctx, "properties/1_front.jpg", strings.NewReader("jpeg-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "http://localhost:8080/media/") {
		t.Fatalf("unexpected url %q", url)
	}

	id := strings.TrimPrefix(url, "http://localhost:8080/media/")
	rc, path, err := store.Open(ctx, id)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()

	if path != "properties/1_front.jpg" {
		t.Fatalf("expected stored path, got %q", path)
	}
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatalf("expected content round trip, got %q", data)
	}

	if err := store.Remove(ctx, "properties/1_front.jpg"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, _, err := store.Open(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, have %d blobs", store.Len())
	}
}

func TestMemoryStore_OpenUnknownID(t *testing.T) {
	store := NewMemoryStore("http://localhost:8080")
	if _, _, err := store.Open(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_RemoveUnknownPathIsNoop(t *testing.T) {
	store := NewMemoryStore("http://localhost:8080")
	if err := store.Remove(context.Background(), "never-uploaded"); err != nil {
		t.Fatalf("expected nil for unknown path, got %v", err)
	}
}
