package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNew[T any](t *testing.T, capacity int) *Buffer[T] {
	t.Helper()
	b, err := New[T](capacity)
	require.NoError(t, err)
	return b
}

func TestNew(t *testing.T) {
	b := mustNew[int](t, 5)
	assert.Equal(t, 5, b.Cap())
	assert.Equal(t, 0, b.Len())
	assert.True(t, b.IsEmpty())
	assert.False(t, b.IsFull())

	for _, c := range []int{0, -1} {
		b, err := New[int](c)
		assert.Nil(t, b)
		assert.ErrorIs(t, err, ErrZeroCapacity)
	}
}

func TestBuffer_CapacityFiveScenario(t *testing.T) {
	b := mustNew[int](t, 5)

	for i := 1; i <= 5; i++ {
		_, ok := b.Enqueue(i)
		require.True(t, ok)
	}
	assert.True(t, b.IsFull())
	assert.Equal(t, 5, b.Len())

	for _, want := range []int{1, 2} {
		got, ok := b.Dequeue()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	for _, v := range []int{6, 7} {
		_, ok := b.Enqueue(v)
		require.True(t, ok)
	}
	assert.Equal(t, 5, b.Len())
	assert.True(t, b.IsFull())

	for _, want := range []int{3, 4, 5, 6, 7} {
		got, ok := b.Dequeue()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	assert.True(t, b.IsEmpty())
}

func TestBuffer_CapacityOneScenario(t *testing.T) {
	b := mustNew[int](t, 1)

	_, ok := b.Enqueue(42)
	require.True(t, ok)

	rejected, ok := b.Enqueue(43)
	assert.False(t, ok)
	assert.Equal(t, 43, rejected)

	got, ok := b.Dequeue()
	require.True(t, ok)
	assert.Equal(t, 42, got)

	_, ok = b.Enqueue(44)
	require.True(t, ok)
	got, ok = b.Dequeue()
	require.True(t, ok)
	assert.Equal(t, 44, got)
}

func TestBuffer_FullRejectsWithoutChange(t *testing.T) {
	b := mustNew[string](t, 2)
	b.Enqueue("a")
	b.Enqueue("b")

	rejected, ok := b.Enqueue("c")
	assert.False(t, ok)
	assert.Equal(t, "c", rejected)
	assert.Equal(t, 2, b.Len())

	got, _ := b.Dequeue()
	assert.Equal(t, "a", got)
}

func TestBuffer_EmptyDequeue(t *testing.T) {
	b := mustNew[int](t, 3)
	got, ok := b.Dequeue()
	assert.False(t, ok)
	assert.Zero(t, got)
	assert.Equal(t, 0, b.Len())
}

func TestBuffer_Clear(t *testing.T) {
	b := mustNew[int](t, 3)
	b.Enqueue(1)
	b.Enqueue(2)
	b.Dequeue()

	b.Clear()
	assert.True(t, b.IsEmpty())
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 3, b.Cap())
	assert.Len(t, b.data, 2, "storage is kept")

	for _, v := range []int{7, 8, 9} {
		_, ok := b.Enqueue(v)
		require.True(t, ok)
	}
	for _, want := range []int{7, 8, 9} {
		got, _ := b.Dequeue()
		assert.Equal(t, want, got)
	}
}

func TestBuffer_Invariants(t *testing.T) {
	b := mustNew[int](t, 4)
	next, expect := 0, 0

	// deterministic mix of operations across several wraparounds
	ops := "eeedeeddeeeeddddedededeeeeeddd"
	for i, op := range ops {
		switch op {
		case 'e':
			if _, ok := b.Enqueue(next); ok {
				next++
			}
		case 'd':
			if got, ok := b.Dequeue(); ok {
				assert.Equal(t, expect, got, "FIFO order at step %d", i)
				expect++
			}
		}

		assert.GreaterOrEqual(t, b.Len(), 0)
		assert.LessOrEqual(t, b.Len(), b.Cap())
		assert.Less(t, b.head, b.Cap())
		assert.Less(t, b.tail, b.Cap())
		assert.Equal(t, b.Len() == b.Cap(), b.IsFull())
		assert.Equal(t, b.Len() == 0, b.IsEmpty())
		assert.Equal(t, (b.head+b.Len())%b.Cap(), b.tail)
		assert.LessOrEqual(t, len(b.data), b.Cap())
	}
}

func TestBuffer_ZeroValue(t *testing.T) {
	var b Buffer[int]
	assert.True(t, b.IsFull())
	assert.True(t, b.IsEmpty())

	rejected, ok := b.Enqueue(1)
	assert.False(t, ok)
	assert.Equal(t, 1, rejected)

	_, ok = b.Dequeue()
	assert.False(t, ok)
}

func TestBuffer_Peek(t *testing.T) {
	b := mustNew[int](t, 2)
	_, ok := b.Peek()
	assert.False(t, ok)

	b.Enqueue(9)
	got, ok := b.Peek()
	assert.True(t, ok)
	assert.Equal(t, 9, got)
	assert.Equal(t, 1, b.Len())
}

type record struct {
	tags []string
}

func (r record) Clone() record {
	return record{tags: append([]string(nil), r.tags...)}
}

func TestDequeueClone(t *testing.T) {
	b := mustNew[record](t, 2)
	b.Enqueue(record{tags: []string{"a"}})

	got, ok := DequeueClone(b)
	require.True(t, ok)
	got.tags[0] = "changed"
	assert.Equal(t, "a", b.data[0].tags[0], "slot does not share state with the clone")

	_, ok = DequeueClone(b)
	assert.False(t, ok)
}

func BenchmarkBuffer_EnqueueDequeue(b *testing.B) {
	buf, _ := New[int](1024)
	for i := 0; i < b.N; i++ {
		buf.Enqueue(i)
		buf.Dequeue()
	}
}
