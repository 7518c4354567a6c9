//go:build ringgen

package metrics

import (
	"fmt"
	"time"
)

// window holds timestamped samples.
//
//ringgen:buffer 0x10
type window[K comparable, V any] struct {
	data   []sample[K, V]
	origin time.Time
}

type sample[K comparable, V any] struct {
	key K
	val V
}

func (s sample[K, V]) String() string { return fmt.Sprint(s.key, s.val) }
