// Package notify implements the sound and desktop notification hooks the
// timer fires when a phase completes.
package notify

import (
	"io"
	"sync"
	"time"
)

const bel = "\a"

// Bell rings the terminal bell: three times when a work phase ends, twice
// when a break ends. Rings are written from a background goroutine.
type Bell struct {
	enabled bool
	gap     time.Duration

	mu sync.Mutex
	w  io.Writer
}

func NewBell(w io.Writer, enabled bool) *Bell {
	return &Bell{w: w, enabled: enabled, gap: 150 * time.Millisecond}
}

func (b *Bell) PlayWorkComplete()  { b.ring(3) }
func (b *Bell) PlayBreakComplete() { b.ring(2) }

func (b *Bell) ring(n int) {
	if !b.enabled || b.w == nil {
		return
	}
	go func() {
		for i := 0; i < n; i++ {
			if i > 0 {
				time.Sleep(b.gap)
			}
			b.mu.Lock()
			_, err := io.WriteString(b.w, bel)
			b.mu.Unlock()
			if err != nil {
				return
			}
		}
	}()
}
