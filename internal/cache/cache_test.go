package cache

import (
	"testing"
	"time"
)

func TestMemory_SetGet(t *testing.T) {
	c := NewMemory(time.Minute)

	key := Key("https://fr.wikipedia.org/w/api.php?action=query")
	if _, found := c.Get(key); found {
		t.Error("Expected miss on empty cache")
	}

	c.Set(key, []byte("payload"), time.Minute)
	val, found := c.Get(key)
	if !found || string(val) != "payload" {
		t.Errorf("Expected cached payload, got %q (found=%v)", val, found)
	}
}

func TestKey_Stable(t *testing.T) {
	a := Key("https://example.org/a")
	b := Key("https://example.org/b")

	if a != Key("https://example.org/a") {
		t.Error("Key must be deterministic")
	}
	if a == b {
		t.Error("Distinct URLs must not collide")
	}
}
