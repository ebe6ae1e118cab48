package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rushteam/riskit/core"
)

// exerciseStore 对任意 core.Store 实现跑同一组读写用例。
func exerciseStore(t *testing.T, s core.Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("Get(missing) error = %v, want not found", err)
	}

	if err := s.Set(ctx, "a", []byte("1")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(ctx, "a", []byte("2")); err != nil {
		t.Fatalf("Set(overwrite) error = %v", err)
	}
	got, err := s.Get(ctx, "a")
	if err != nil || string(got) != "2" {
		t.Errorf("Get(a) = %q, %v", got, err)
	}

	if err := s.BatchSet(ctx, map[string][]byte{"b": []byte("x"), "c": []byte("y")}, 3600); err != nil {
		t.Fatalf("BatchSet() error = %v", err)
	}
	all, err := s.BatchGet(ctx, []string{"a", "b", "c", "d"})
	if err != nil {
		t.Fatalf("BatchGet() error = %v", err)
	}
	if len(all) != 3 || string(all["b"]) != "x" || string(all["c"]) != "y" {
		t.Errorf("BatchGet() = %v", all)
	}

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "a"); !core.IsStoreNotFound(err) {
		t.Errorf("Get(deleted) error = %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestMemoryStore_Expired(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	s.data["old"] = &entry{value: []byte("v"), expire: time.Now().Add(-time.Second)}
	if _, err := s.Get(context.Background(), "old"); !core.IsStoreNotFound(err) {
		t.Errorf("Get(expired) error = %v", err)
	}
}

func TestSQLiteStore_Memory(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStore_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "riskit.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	if err := s.Set(context.Background(), "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// 重新打开后数据仍在
	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.Get(context.Background(), "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get() after reopen = %q, %v", got, err)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("RISKIT_REDIS_ADDR")
	if addr == "" {
		t.Skip("RISKIT_REDIS_ADDR not set")
	}
	s, err := NewRedisStore(context.Background(), RedisOptions{Addr: addr, Prefix: "riskit-test:"})
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	defer s.Close()
	ctx := context.Background()
	defer s.Delete(ctx, "b")
	defer s.Delete(ctx, "c")
	exerciseStore(t, s)
}
