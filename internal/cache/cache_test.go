package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New(time.Minute)

	c.Set("dossier/org/repo/alice", []byte(`{"value":42}`))

	data, ok := c.Get("dossier/org/repo/alice")
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"value":42}`), data)

	_, ok = c.Get("dossier/org/repo/bob")
	assert.False(t, ok)
}

func TestCache_Expiry(t *testing.T) {
	c := New(10 * time.Millisecond)

	c.Set("dossier/org/repo/alice", []byte("x"))
	time.Sleep(25 * time.Millisecond)

	_, ok := c.Get("dossier/org/repo/alice")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry is dropped on access")
}

func TestCache_Delete(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", []byte("1"))

	c.Delete("a")

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCache_InvalidateScope(t *testing.T) {
	c := New(time.Minute)
	c.Set(Key("pulls", "org", "repo"), []byte("list"))
	c.Set(Key("pulls", "org", "repo", "17"), []byte("detail"))
	c.Set(Key("dossier", "org", "repo", "alice"), []byte("profile"))

	dropped := c.InvalidateScope(Key("pulls", "org", "repo"))

	assert.Equal(t, 2, dropped)
	_, ok := c.Get(Key("dossier", "org", "repo", "alice"))
	assert.True(t, ok, "other scopes survive invalidation")
}

func TestKey(t *testing.T) {
	assert.Equal(t, "pulls/org/repo", Key("pulls", "org", "repo"))
}
