package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"lensgallery/internal/catalog"
	"lensgallery/internal/sampler"
	"lensgallery/internal/scroll"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(n int) *catalog.Catalog {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("photo%02d.jpg", i)
	}
	return catalog.New("/Gallery", names)
}

func newTestView(t *testing.T, cat *catalog.Catalog, opts ViewOptions) *View {
	t.Helper()
	if opts.Sampler == nil {
		opts.Sampler = sampler.New(1)
	}
	if opts.RotationInterval == 0 {
		opts.RotationInterval = time.Hour
	}
	v := NewView(cat, opts, nil)
	t.Cleanup(v.Teardown)
	return v
}

func TestViewMount(t *testing.T) {
	v := newTestView(t, testCatalog(20), ViewOptions{InitialDisplay: 6})
	v.Mount(context.Background())

	snap := v.Snapshot()
	assert.Len(t, snap.Images, 6)
	assert.Equal(t, "rotating", snap.Mode)
	assert.True(t, snap.Rotating)
	assert.True(t, snap.ShowLoadMore)
	assert.Equal(t, 20, snap.CatalogSize)
	assert.False(t, snap.Lightbox.Open)
	assert.Nil(t, snap.Lightbox.ActiveIndex)
	assert.True(t, v.RotationActive())

	v.Mount(context.Background())
	assert.Equal(t, snap.Images, v.Snapshot().Images, "second mount is a no-op")
}

func TestViewMountEmptyCatalog(t *testing.T) {
	v := newTestView(t, testCatalog(0), ViewOptions{})
	v.Mount(context.Background())

	snap := v.Snapshot()
	assert.Empty(t, snap.Images)
	assert.False(t, snap.Rotating)
	assert.False(t, snap.ShowLoadMore)
	assert.False(t, v.RotationActive(), "no rotation for an empty catalog")
}

func TestViewHidesLoadMoreForSmallCatalog(t *testing.T) {
	v := newTestView(t, testCatalog(6), ViewOptions{InitialDisplay: 6})
	v.Mount(context.Background())
	assert.False(t, v.Snapshot().ShowLoadMore)
}

func TestViewRotationTimer(t *testing.T) {
	var mu sync.Mutex
	changes := 0
	v := newTestView(t, testCatalog(12), ViewOptions{
		InitialDisplay:   3,
		RotationInterval: 2 * time.Millisecond,
		OnChange: func(Snapshot) {
			mu.Lock()
			changes++
			mu.Unlock()
		},
	})
	v.Mount(context.Background())

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return changes >= 4
	}, time.Second, time.Millisecond)

	snap := v.Snapshot()
	assert.Len(t, snap.Images, 3)
}

func TestViewExpandCancelsRotation(t *testing.T) {
	v := newTestView(t, testCatalog(12), ViewOptions{InitialDisplay: 3, RotationInterval: time.Millisecond})
	v.Mount(context.Background())
	time.Sleep(5 * time.Millisecond)

	require.True(t, v.RequestExpand())
	assert.False(t, v.RotationActive())

	snap := v.Snapshot()
	assert.Equal(t, "expanded", snap.Mode)
	assert.False(t, snap.Rotating)
	assert.False(t, snap.ShowLoadMore)
	assert.Len(t, snap.Images, 12)

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, snap.Images, v.Snapshot().Images, "rotation must not touch an expanded view")
	assert.False(t, v.Rotate())
	assert.False(t, v.RequestExpand())
}

func TestViewMaybeLoadMore(t *testing.T) {
	v := newTestView(t, testCatalog(10), ViewOptions{InitialDisplay: 3, LoadBatch: 2, LoadThreshold: 1000})
	v.Mount(context.Background())

	assert.Equal(t, 0, v.MaybeLoadMore(0), "loader is inactive while rotating")

	require.True(t, v.RequestExpand())
	assert.Equal(t, 0, v.MaybeLoadMore(0), "expansion already shows everything")
	assert.Len(t, v.Snapshot().Images, 10)
}

func TestViewScrollSubscription(t *testing.T) {
	v := newTestView(t, testCatalog(8), ViewOptions{InitialDisplay: 2})
	v.Mount(context.Background())
	feed := scroll.NewFeed()
	v.Subscribe(feed)
	assert.Equal(t, 1, feed.Subscribers())

	feed.Publish(10)
	assert.Len(t, v.Snapshot().Images, 2)

	v.Teardown()
	assert.Equal(t, 0, feed.Subscribers(), "teardown unsubscribes")
}

func TestViewSubscribeAfterTeardown(t *testing.T) {
	v := newTestView(t, testCatalog(8), ViewOptions{InitialDisplay: 2})
	v.Mount(context.Background())
	v.Teardown()

	feed := scroll.NewFeed()
	v.Subscribe(feed)
	assert.Equal(t, 0, feed.Subscribers(), "a torn down view leaves the feed alone")
	feed.Publish(0)
	assert.Len(t, v.Snapshot().Images, 2)
}

func TestViewLightbox(t *testing.T) {
	v := newTestView(t, testCatalog(10), ViewOptions{InitialDisplay: 3})
	v.Mount(context.Background())

	assert.False(t, v.OpenLightboxAt(3))
	assert.False(t, v.OpenLightboxAt(-1))
	_, ok := v.LightboxNext()
	assert.False(t, ok, "navigation needs an open lightbox")

	require.True(t, v.OpenLightboxAt(0))
	snap := v.Snapshot()
	require.True(t, snap.Lightbox.Open)
	require.NotNil(t, snap.Lightbox.ActiveIndex)
	assert.Equal(t, 0, *snap.Lightbox.ActiveIndex)
	assert.Equal(t, snap.Images[0], *snap.Lightbox.Image)

	idx, ok := v.LightboxPrevious()
	require.True(t, ok)
	assert.Equal(t, 2, idx)
	idx, _ = v.LightboxNext()
	assert.Equal(t, 0, idx)

	// The sequence grows while the lightbox is open; wrap uses the live length.
	require.True(t, v.RequestExpand())
	idx, _ = v.LightboxPrevious()
	assert.Equal(t, 9, idx)
	snap = v.Snapshot()
	assert.Equal(t, snap.Images[9], *snap.Lightbox.Image)

	v.CloseLightbox()
	snap = v.Snapshot()
	assert.False(t, snap.Lightbox.Open)
	assert.Nil(t, snap.Lightbox.ActiveIndex)
}

func TestViewTeardown(t *testing.T) {
	v := newTestView(t, testCatalog(10), ViewOptions{InitialDisplay: 3, RotationInterval: time.Millisecond})
	v.Mount(context.Background())
	v.Teardown()
	assert.False(t, v.RotationActive())

	before := v.Snapshot()
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, before, v.Snapshot())
	assert.False(t, v.Rotate())
	assert.False(t, v.RequestExpand())
	assert.False(t, v.OpenLightboxAt(0))
	v.Teardown()
}

func TestViewTeardownBeforeMount(t *testing.T) {
	v := newTestView(t, testCatalog(10), ViewOptions{})
	v.Teardown()
	v.Mount(context.Background())
	assert.Empty(t, v.Snapshot().Images)
	assert.False(t, v.RotationActive())
}
