package brain

import (
	"math/rand"
	"sync"
	"time"
)

// lockedRandSource is a rand.Source safe for concurrent use by multiple
// goroutines
type lockedRandSource struct {
	lock sync.Mutex
	src  rand.Source
}

// NewLockedSource takes a seed and returns a rand.Source for it that is
// safe for concurrent use
func NewLockedSource(seed int64) rand.Source {
	return &lockedRandSource{src: rand.NewSource(seed)}
}

// to satisfy rand.Source interface
func (r *lockedRandSource) Int63() int64 {
	r.lock.Lock()
	ret := r.src.Int63()
	r.lock.Unlock()
	return ret
}

// to satisfy rand.Source interface
func (r *lockedRandSource) Seed(seed int64) {
	r.lock.Lock()
	r.src.Seed(seed)
	r.lock.Unlock()
}

// defaultGenerator backs the package level CreateRandom and Cross
var defaultGenerator = NewGenerator(NewLockedSource(time.Now().UnixNano()))
