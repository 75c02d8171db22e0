package pose

import (
	"math"
	"sync"
)

const (
	DefaultHistorySize = 64
	// DefaultMaxAge is the largest time difference in seconds accepted by Nearest.
	DefaultMaxAge = 0.1
)

// History is a bounded ring of valid poses of a single frame pair.
type History struct {
	mu     sync.RWMutex
	frame  FramePair
	maxAge float64
	poses  []Pose
	head   int
	n      int
}

func NewHistory(frame FramePair, size int, maxAge float64) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		frame:  frame,
		maxAge: maxAge,
		poses:  make([]Pose, size),
	}
}

func (h *History) Frame() FramePair {
	return h.frame
}

// Add records the pose. Invalid poses and poses of other frame pairs are ignored.
func (h *History) Add(p Pose) bool {
	if !p.Valid || p.Frame != h.frame {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.poses[h.head] = p
	h.head = (h.head + 1) % len(h.poses)
	if h.n < len(h.poses) {
		h.n++
	}
	return true
}

// Nearest returns the recorded pose closest in time to timestamp.
// It fails if the history is empty or the closest pose is older or newer
// than the configured maximum age.
func (h *History) Nearest(timestamp float64) (Pose, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	best := -1
	bestDiff := math.Inf(1)
	for i := 0; i < h.n; i++ {
		d := math.Abs(h.poses[i].Timestamp - timestamp)
		if d < bestDiff {
			best, bestDiff = i, d
		}
	}
	if best < 0 || (h.maxAge > 0 && bestDiff > h.maxAge) {
		return Pose{}, false
	}
	return h.poses[best], true
}

// Latest returns the most recently added pose.
func (h *History) Latest() (Pose, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.n == 0 {
		return Pose{}, false
	}
	return h.poses[(h.head-1+len(h.poses))%len(h.poses)], true
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.n
}
