package scroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNearBottom(t *testing.T) {
	tests := []struct {
		name                      string
		offset, viewport, content float64
		want                      bool
	}{
		{"top of long page", 0, 800, 5000, false},
		{"just outside threshold", 3200, 800, 5000, false},
		{"inside threshold", 3300, 800, 5000, true},
		{"at bottom", 4200, 800, 5000, true},
		{"short page", 0, 800, 500, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NearBottom(tt.offset, tt.viewport, tt.content, 1000))
		})
	}
	assert.Equal(t, 0.0, DistanceFromBottom(100, 800, 500))
}

type fakeTarget struct {
	expanded bool
	shown    int
	total    int
	appends  int
}

func (f *fakeTarget) Expanded() bool  { return f.expanded }
func (f *fakeTarget) Len() int        { return f.shown }
func (f *fakeTarget) CatalogLen() int { return f.total }
func (f *fakeTarget) Append(n int) int {
	f.appends++
	if f.shown+n > f.total {
		n = f.total - f.shown
	}
	f.shown += n
	return n
}

func TestNewLoaderDefaults(t *testing.T) {
	l := NewLoader(0, 0)
	assert.Equal(t, float64(DefaultThreshold), l.Threshold)
	assert.Equal(t, DefaultBatch, l.Batch)
}

func TestMaybeLoadMore(t *testing.T) {
	l := NewLoader(1000, 6)

	rotating := &fakeTarget{expanded: false, shown: 6, total: 20}
	assert.Equal(t, 0, l.MaybeLoadMore(rotating, 10))
	assert.Zero(t, rotating.appends)

	far := &fakeTarget{expanded: true, shown: 6, total: 20}
	assert.Equal(t, 0, l.MaybeLoadMore(far, 1000))
	assert.Zero(t, far.appends)

	tg := &fakeTarget{expanded: true, shown: 6, total: 20}
	assert.Equal(t, 6, l.MaybeLoadMore(tg, 999))
	assert.Equal(t, 6, l.MaybeLoadMore(tg, 999))
	assert.Equal(t, 2, l.MaybeLoadMore(tg, 0))
	assert.Equal(t, 20, tg.shown)

	assert.Equal(t, 0, l.MaybeLoadMore(tg, 0))
	assert.Equal(t, 3, tg.appends, "a complete target is never asked to append")
}

func TestFeed(t *testing.T) {
	f := NewFeed()
	var got []float64
	unsub := f.Subscribe(func(d float64) { got = append(got, d) })
	assert.Equal(t, 1, f.Subscribers())

	f.Publish(12)
	f.PublishPosition(100, 800, 1000)
	assert.Equal(t, []float64{12, 100}, got)

	unsub()
	unsub()
	assert.Equal(t, 0, f.Subscribers())
	f.Publish(5)
	assert.Len(t, got, 2)
}
