package catalog

import (
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Reagan-marera/imoflames-sub000/internal/domain"
)

const (
	// SlideSize is the number of products shown together.
	SlideSize = 2

	// DefaultCarouselInterval is the auto-advance period.
	DefaultCarouselInterval = 3 * time.Second
)

// Carousel groups a shuffled copy of the base set into slides and advances
// through them on a timer while mounted. Rebuilding the slides resets the
// index and restarts the timer; ticks from a previous timer are ignored.
type Carousel struct {
	interval time.Duration
	shuffle  func([]domain.Product)

	mu        sync.Mutex
	slides    [][]domain.Product
	index     int
	mounted   bool
	gen       uint64
	stop      chan struct{}
	done      chan struct{}
	onAdvance []func(index int)

	active atomic.Int32
}

// NewCarousel creates an unmounted carousel with no slides.
func NewCarousel(interval time.Duration) *Carousel {
	if interval <= 0 {
		interval = DefaultCarouselInterval
	}
	return &Carousel{
		interval: interval,
		shuffle: func(p []domain.Product) {
			rand.Shuffle(len(p), func(i, j int) { p[i], p[j] = p[j], p[i] })
		},
	}
}

// OnAdvance registers fn to be called with the new index after every advance.
func (c *Carousel) OnAdvance(fn func(index int)) {
	c.mu.Lock()
	c.onAdvance = append(c.onAdvance, fn)
	c.mu.Unlock()
}

// Rebuild replaces the slides from products.
func (c *Carousel) Rebuild(products []domain.Product) {
	shuffled := append([]domain.Product(nil), products...)
	c.shuffle(shuffled)

	var slides [][]domain.Product
	for i := 0; i < len(shuffled); i += SlideSize {
		slides = append(slides, shuffled[i:min(i+SlideSize, len(shuffled))])
	}

	c.mu.Lock()
	done := c.stopTimerLocked()
	c.slides = slides
	c.index = 0
	if c.mounted {
		c.startTimerLocked()
	}
	c.mu.Unlock()

	wait(done)
}

// Start mounts the carousel and starts the timer when there are slides.
func (c *Carousel) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mounted {
		return
	}
	c.mounted = true
	c.startTimerLocked()
}

// Stop unmounts the carousel and waits for the timer to exit.
func (c *Carousel) Stop() {
	c.mu.Lock()
	c.mounted = false
	done := c.stopTimerLocked()
	c.mu.Unlock()

	wait(done)
}

// Advance moves to the next slide, wrapping around. It returns the new index.
func (c *Carousel) Advance() int {
	c.mu.Lock()
	return c.advanceLocked()
}

// advanceLocked must be called with mu held and releases it.
func (c *Carousel) advanceLocked() int {
	if len(c.slides) == 0 {
		c.mu.Unlock()
		return 0
	}
	c.index = (c.index + 1) % len(c.slides)
	index, listeners := c.index, c.onAdvance
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(index)
	}
	return index
}

// Index returns the current slide index.
func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Slides returns the current slides.
func (c *Carousel) Slides() [][]domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]domain.Product, len(c.slides))
	copy(out, c.slides)
	return out
}

// Current returns the products of the current slide, or nil when empty.
func (c *Carousel) Current() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.slides) == 0 {
		return nil
	}
	return c.slides[c.index]
}

// ActiveTimers returns the number of running timer goroutines.
func (c *Carousel) ActiveTimers() int {
	return int(c.active.Load())
}

func (c *Carousel) startTimerLocked() {
	if len(c.slides) == 0 || c.stop != nil {
		return
	}
	c.gen++
	gen := c.gen
	stop, done := make(chan struct{}), make(chan struct{})
	c.stop, c.done = stop, done

	c.active.Add(1)
	carouselTimers.Inc()
	go c.run(gen, stop, done)
}

func (c *Carousel) stopTimerLocked() chan struct{} {
	if c.stop == nil {
		return nil
	}
	close(c.stop)
	done := c.done
	c.stop, c.done = nil, nil
	c.gen++
	return done
}

func (c *Carousel) run(gen uint64, stop <-chan struct{}, done chan<- struct{}) {
	defer func() {
		c.active.Add(-1)
		carouselTimers.Dec()
		close(done)
	}()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			if gen != c.gen {
				c.mu.Unlock()
				return
			}
			c.advanceLocked()
		}
	}
}

func wait(done chan struct{}) {
	if done != nil {
		<-done
	}
}
