package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestAvatarKey(t *testing.T) {
	key := AvatarKey("user1", "PNG")
	if !strings.HasPrefix(key, "avatars/user1/") || !strings.HasSuffix(key, ".png") {
		t.Errorf("AvatarKey() = %q", key)
	}
	if AvatarKey("user1", ".png") == key {
		t.Error("keys should be unique per call")
	}
	if k := ExerciseMediaKey("ex1", ""); strings.Contains(k, ".") {
		t.Errorf("ExerciseMediaKey without ext = %q", k)
	}
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage("https://cdn.example.com/")

	url, err := s.PutObject(ctx, "avatars/u/a.png", "image/png", strings.NewReader("png-bytes"), 9)
	if err != nil {
		t.Fatalf("PutObject() error = %v", err)
	}
	if url != "https://cdn.example.com/avatars/u/a.png" {
		t.Errorf("url = %q", url)
	}
	obj, ok := s.Object("avatars/u/a.png")
	if !ok || string(obj.Data) != "png-bytes" || obj.ContentType != "image/png" {
		t.Errorf("stored object = %+v, %v", obj, ok)
	}

	if err := s.DeleteObject(ctx, "avatars/u/a.png"); err != nil {
		t.Fatalf("DeleteObject() error = %v", err)
	}
	if err := s.DeleteObject(ctx, "avatars/u/a.png"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("second delete error = %v", err)
	}
}
