package watch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"restaurante-admin/internal/pkg/watch"
)

func TestSource_GetSet(t *testing.T) {
	src := watch.New(10)

	assert.Equal(t, 10, src.Get())

	src.Set(42)
	assert.Equal(t, 42, src.Get())
}

func TestSource_Update(t *testing.T) {
	src := watch.New([]string{"a"})

	src.Update(func(list []string) []string {
		return append(list, "b")
	})

	assert.Equal(t, []string{"a", "b"}, src.Get())
}

func TestSource_Subscribe(t *testing.T) {
	src := watch.New(0)

	var got []int
	cancel := src.Subscribe(func(v int) {
		got = append(got, v)
	})

	src.Set(1)
	src.Set(2)
	assert.Equal(t, []int{1, 2}, got)

	cancel()
	src.Set(3)
	assert.Equal(t, []int{1, 2}, got, "cancelled subscriber must not fire")
	assert.Equal(t, 3, src.Get())
}

func TestSource_MultipleSubscribers(t *testing.T) {
	src := watch.New("")

	first, second := 0, 0
	src.Subscribe(func(string) { first++ })
	cancelSecond := src.Subscribe(func(string) { second++ })

	src.Set("x")
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)

	cancelSecond()
	src.Set("y")
	assert.Equal(t, 2, first)
	assert.Equal(t, 1, second)
}
