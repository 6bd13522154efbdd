package cart

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id, name string, price int64) catalog.Product {
	return catalog.Product{ID: id, Name: name, Price: decimal.NewFromInt(price), Image: "https://img.example/" + id}
}

func ids(c Cart) []string {
	out := make([]string, 0, len(c))
	for _, it := range c {
		out = append(out, it.ID)
	}
	return out
}

func TestAddSameProductTwiceIncrementsQty(t *testing.T) {
	c, _ := Cart{}.Add(product("p1", "Kopi", 10000))
	c, it := c.Add(product("p1", "Kopi", 10000))

	require.Len(t, c, 1)
	assert.Equal(t, 2, c[0].Qty)
	assert.Equal(t, 2, it.Qty)
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	c, _ := Cart{}.Add(product("a", "A", 1))
	c, _ = c.Add(product("b", "B", 1))
	c, _ = c.Add(product("a", "A", 1))
	c, _ = c.Add(product("c", "C", 1))
	assert.Equal(t, []string{"a", "b", "c"}, ids(c))
}

func TestRemove(t *testing.T) {
	base := Cart{{ID: "a", Qty: 1}, {ID: "b", Qty: 1}, {ID: "c", Qty: 1}}

	tests := []struct {
		name    string
		index   int
		want    []string
		changed bool
	}{
		{"first", 0, []string{"b", "c"}, true},
		{"middle", 1, []string{"a", "c"}, true},
		{"last", 2, []string{"a", "b"}, true},
		{"negative", -1, []string{"a", "b", "c"}, false},
		{"past end", 3, []string{"a", "b", "c"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append(Cart(nil), base...)
			out, changed := in.Remove(tt.index)
			assert.Equal(t, tt.changed, changed)
			assert.Equal(t, tt.want, ids(out))
			assert.Equal(t, []string{"a", "b", "c"}, ids(in), "input must not be mutated")
		})
	}
}

func TestTotals(t *testing.T) {
	c := Cart{
		{ID: "a", Price: decimal.NewFromInt(10000), Qty: 2},
		{ID: "b", Price: decimal.NewFromInt(5000), Qty: 1},
	}
	assert.True(t, c[0].Subtotal().Equal(decimal.NewFromInt(20000)))
	assert.True(t, c.Total().Equal(decimal.NewFromInt(25000)))
	assert.True(t, Cart{}.Total().IsZero())
}

func TestMarshalRoundTrip(t *testing.T) {
	c := Cart{
		{ID: "a", Name: "Kopi <Gayo>", Price: decimal.RequireFromString("12500.50"), Image: "x.jpg", Qty: 3},
		{ID: "b", Name: "Teh", Price: decimal.NewFromInt(5000), Description: "manis", Qty: 1},
	}
	b, err := Marshal(c)
	require.NoError(t, err)

	got, err := Unmarshal(b)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range c {
		assert.Equal(t, c[i].ID, got[i].ID)
		assert.Equal(t, c[i].Name, got[i].Name)
		assert.True(t, c[i].Price.Equal(got[i].Price))
		assert.Equal(t, c[i].Qty, got[i].Qty)
		assert.Equal(t, c[i].Description, got[i].Description)
	}
}

func TestUnmarshalTolerance(t *testing.T) {
	c, err := Unmarshal(nil)
	assert.NoError(t, err)
	assert.Empty(t, c)

	_, err = Unmarshal([]byte("{not json"))
	assert.Error(t, err)

	c, err = Unmarshal([]byte(`[{"id":"a","name":"A","price":1000,"qty":1},{"id":"","qty":1},{"id":"b","qty":0}]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(c))
}

func TestWithout(t *testing.T) {
	c := Cart{{ID: "a", Qty: 1}, {ID: "b", Qty: 1}, {ID: "c", Qty: 1}}
	assert.Equal(t, []string{"b"}, ids(c.Without("a", "c")))
	assert.Equal(t, []string{"a", "b", "c"}, ids(c.Without()))
}

func backends(t *testing.T) map[string]Backend {
	mr := miniredis.RunT(t)
	rdb := redisx.New(mr.Addr())
	t.Cleanup(func() { _ = rdb.Close() })
	return map[string]Backend{
		"memory": NewMemoryBackend(),
		"redis":  &RedisBackend{Redis: rdb},
	}
}

func TestStoreOperations(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := NewStore(b)

			assert.Empty(t, s.Get(ctx, "sid-1"))

			_, err := s.Add(ctx, "sid-1", product("p1", "Kopi", 10000))
			require.NoError(t, err)
			it, err := s.Add(ctx, "sid-1", product("p1", "Kopi", 10000))
			require.NoError(t, err)
			assert.Equal(t, 2, it.Qty)
			_, err = s.Add(ctx, "sid-1", product("p2", "Teh", 5000))
			require.NoError(t, err)

			got := s.Get(ctx, "sid-1")
			require.Len(t, got, 2)
			assert.Equal(t, 2, got[0].Qty)
			assert.Empty(t, s.Get(ctx, "sid-2"), "carts are per session")

			require.NoError(t, s.Remove(ctx, "sid-1", 7))
			assert.Len(t, s.Get(ctx, "sid-1"), 2)

			require.NoError(t, s.Remove(ctx, "sid-1", 0))
			assert.Equal(t, []string{"p2"}, ids(s.Get(ctx, "sid-1")))

			require.NoError(t, s.Clear(ctx, "sid-1"))
			assert.Empty(t, s.Get(ctx, "sid-1"))
		})
	}
}

func TestStoreRemoveIDs(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryBackend())
	for _, p := range []catalog.Product{product("a", "A", 1), product("b", "B", 1)} {
		_, err := s.Add(ctx, "sid", p)
		require.NoError(t, err)
	}
	require.NoError(t, s.RemoveIDs(ctx, "sid", "a"))
	assert.Equal(t, []string{"b"}, ids(s.Get(ctx, "sid")))
	require.NoError(t, s.RemoveIDs(ctx, "sid", "b"))
	assert.Empty(t, s.Get(ctx, "sid"))
}

func TestStoreGetIgnoresGarbage(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	require.NoError(t, b.Save(ctx, "sid", []byte("not-json")))
	s := NewStore(b)
	assert.Empty(t, s.Get(ctx, "sid"))

	_, err := s.Add(ctx, "sid", product("p1", "Kopi", 10000))
	require.NoError(t, err)
	assert.Len(t, s.Get(ctx, "sid"), 1)
}

func TestStoreLocksAreReleased(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryBackend())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sid := fmt.Sprintf("sid-%d", i%5)
			_, err := s.Add(ctx, sid, product("p1", "Kopi", 10000))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 5; i++ {
		assert.Equal(t, 10, s.Get(ctx, fmt.Sprintf("sid-%d", i))[0].Qty)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Empty(t, s.locks)
}
