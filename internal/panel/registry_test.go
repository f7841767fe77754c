package panel_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/domain"
	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/panel"
	"github.com/cherinet-woyesa/eoty-platform-sub004/tests/mocks"
)

func newRegistry(ttl time.Duration) *panel.Registry {
	return panel.NewRegistry(ttl, func(postID domain.ID) *panel.Panel {
		return panel.New(postID, panel.Config{API: new(mocks.CommentsAPI)})
	})
}

func TestRegistry_CreateAndGet(t *testing.T) {
	r := newRegistry(time.Minute)

	id, created := r.Create("post-1")
	require.NotEmpty(t, id)
	assert.Equal(t, domain.ID("post-1"), created.PostID())

	got, ok := r.Get(id)
	require.True(t, ok)
	assert.Same(t, created, got)

	// Each session gets its own panel even for the same post.
	id2, created2 := r.Create("post-1")
	assert.NotEqual(t, id, id2)
	assert.NotSame(t, created, created2)
}

func TestRegistry_UnknownSession(t *testing.T) {
	r := newRegistry(time.Minute)

	got, ok := r.Get("nope")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestRegistry_Close(t *testing.T) {
	r := newRegistry(time.Minute)

	id, _ := r.Create("post-1")
	r.Close(id)

	_, ok := r.Get(id)
	assert.False(t, ok)
}

func TestRegistry_EvictsIdleSessions(t *testing.T) {
	r := newRegistry(10 * time.Millisecond)

	id, _ := r.Create("post-1")
	time.Sleep(25 * time.Millisecond)

	_, ok := r.Get(id)
	assert.False(t, ok, "idle session past the TTL is dropped")
}
