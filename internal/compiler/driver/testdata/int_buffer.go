//go:build ringgen

package queue

//go:generate ringgen generate $GOFILE

// IntBuffer keeps the most recent readings.
//
//ringgen:buffer 5
type IntBuffer struct {
	data []int
}
