package page

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biokeeper/internal/client/api"
)

type item struct {
	ID   int64
	Name string
}

type fakeSource struct {
	mu       sync.Mutex
	items    []item
	listErr  error
	writeErr error
	lists    int
	delay    time.Duration
}

func (f *fakeSource) Resource() api.Resource { return api.DonorResource }

func (f *fakeSource) List(ctx context.Context, _ int64) ([]item, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]item(nil), f.items...), nil
}

func (f *fakeSource) Create(_ context.Context, _ int64, body item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	body.ID = int64(len(f.items) + 1)
	f.items = append(f.items, body)
	return nil
}

func (f *fakeSource) Update(_ context.Context, _ int64, id int64, body item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	for i := range f.items {
		if f.items[i].ID == id {
			body.ID = id
			f.items[i] = body
		}
	}
	return nil
}

func (f *fakeSource) Delete(_ context.Context, _ int64, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	out := f.items[:0]
	for _, it := range f.items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	f.items = out
	return nil
}

func TestFetch_FailureKeepsItems(t *testing.T) {
	src := &fakeSource{items: []item{{ID: 1, Name: "a"}}}
	c := New[item, item](src, 1)
	ctx := context.Background()

	require.NoError(t, c.Fetch(ctx))
	assert.Len(t, c.Items(), 1)
	assert.False(t, c.Loading())

	src.listErr = &api.Error{Kind: api.KindStatus, Status: 502}
	err := c.Fetch(ctx)
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch donors: Error: 502", err.Error())
	assert.Equal(t, err, c.Err())
	assert.Len(t, c.Items(), 1, "previous items survive a failed fetch")
	assert.False(t, c.Loading())

	c.DismissError()
	assert.NoError(t, c.Err())
}

func TestFetch_ForbiddenIsNotPrefixed(t *testing.T) {
	src := &fakeSource{listErr: api.ErrForbidden}
	c := New[item, item](src, 1)
	err := c.Fetch(context.Background())
	assert.Same(t, api.ErrForbidden, err)
	assert.Equal(t, "forbidden_access", c.Err().Error())
}

func TestWrites_RefetchOnSuccess(t *testing.T) {
	src := &fakeSource{}
	c := New[item, item](src, 1)
	ctx := context.Background()

	require.NoError(t, c.Create(ctx, item{Name: "plasma"}))
	assert.Equal(t, []item{{ID: 1, Name: "plasma"}}, c.Items())

	require.NoError(t, c.Update(ctx, 1, item{Name: "serum"}))
	assert.Equal(t, "serum", c.Items()[0].Name)

	require.NoError(t, c.Delete(ctx, 1))
	assert.Empty(t, c.Items())
	assert.Equal(t, 3, src.lists)
}

func TestWrites_FailureLeavesItems(t *testing.T) {
	src := &fakeSource{items: []item{{ID: 1, Name: "a"}}}
	c := New[item, item](src, 1)
	ctx := context.Background()
	require.NoError(t, c.Fetch(ctx))

	src.writeErr = &api.Error{Kind: api.KindDetail, Detail: "Donor has materials"}
	err := c.Delete(ctx, 1)
	assert.EqualError(t, err, "Failed to delete donor: Donor has materials")
	assert.Equal(t, 1, src.lists, "no refetch after a failed write")
	assert.Len(t, c.Items(), 1)
}

func TestReference_SwallowsErrors(t *testing.T) {
	src := &fakeSource{listErr: errors.New("boom")}
	r := NewReference[item](src, 1, nil)
	require.NoError(t, r.Fetch(context.Background()))
	assert.Empty(t, r.Items())
}

func TestLoadAll_Concurrent(t *testing.T) {
	main := &fakeSource{items: []item{{ID: 1}}, delay: 20 * time.Millisecond}
	side := &fakeSource{items: []item{{ID: 7}, {ID: 8}}}
	c := New[item, item](main, 1)
	r := NewReference[item](side, 1, nil)

	require.NoError(t, LoadAll(context.Background(), c, r))
	assert.Len(t, c.Items(), 1)
	assert.Len(t, r.Items(), 2)

	main.listErr = errors.New("down")
	err := LoadAll(context.Background(), c, r)
	assert.ErrorContains(t, err, "Failed to fetch donors: down")
}
