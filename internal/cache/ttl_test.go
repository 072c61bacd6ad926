package cache

import (
	"testing"
	"time"
)

func TestSetGetExpire(t *testing.T) {
	c := New(time.Hour)
	c.Set("k", []byte("v"), 50*time.Millisecond)
	if got, ok := c.Get("k"); !ok || string(got) != "v" {
		t.Fatalf("Get = %q, %v", got, ok)
	}
	time.Sleep(80 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry still readable")
	}
}

func TestGetMissing(t *testing.T) {
	c := New(time.Hour)
	if _, ok := c.Get("nope"); ok {
		t.Error("missing key reported present")
	}
}

func TestDelete(t *testing.T) {
	c := New(time.Hour)
	c.Set("k", []byte("v"), time.Minute)
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("deleted entry still readable")
	}
}

func TestDeletePrefix(t *testing.T) {
	c := New(time.Hour)
	c.Set("agenda:a:1", []byte("1"), time.Minute)
	c.Set("agenda:a:2", []byte("2"), time.Minute)
	c.Set("agenda:b:1", []byte("3"), time.Minute)
	c.DeletePrefix("agenda:a:")
	if _, ok := c.Get("agenda:a:1"); ok {
		t.Error("prefixed entry survived")
	}
	if _, ok := c.Get("agenda:a:2"); ok {
		t.Error("prefixed entry survived")
	}
	if _, ok := c.Get("agenda:b:1"); !ok {
		t.Error("unrelated entry dropped")
	}
}
