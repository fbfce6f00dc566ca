package local

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"sunatstock/internal/blob"
)

func TestStore_PutGetDelete(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	key := "items/1/photo.png"

	info, err := s.Put(ctx, key, strings.NewReader("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != key || info.Size != int64(len("png-bytes")) || info.ContentType != "image/png" {
		t.Errorf("unexpected info: %+v", info)
	}

	if _, err := s.Put(ctx, key, strings.NewReader("again"), "image/png"); err == nil {
		t.Error("expected error writing an existing key")
	}

	got, rc, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "png-bytes" {
		t.Errorf("content = %q", data)
	}
	if got.ContentType != "image/png" {
		t.Errorf("content type = %q", got.ContentType)
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, err := s.Get(ctx, key); !errors.Is(err, blob.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Errorf("deleting a missing key should succeed, got %v", err)
	}
}

func TestStore_RejectsTraversal(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := s.Put(context.Background(), "../escape.png", strings.NewReader("x"), "image/png"); err == nil {
		t.Error("expected traversal key to be rejected")
	}
	if s.Driver() != blob.DriverLocal {
		t.Errorf("driver = %q", s.Driver())
	}
}
