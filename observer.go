package uci

import (
	"sync"

	"github.com/rs/zerolog"
)

//go:generate mockgen -source=observer.go -destination=internal/mocks/mock_observer.go -package=mocks

// Observer receives every engine output line, unfiltered, in delivery
// order. ObserveLine runs on the engine's read goroutine: it must not
// block and must not call back into the Engine. Use the filter package to
// get lines on a channel instead.
type Observer interface {
	ObserveLine(line Line)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Line)

// ObserveLine calls f(line).
func (f ObserverFunc) ObserveLine(line Line) { f(line) }

// observerSet is a copy-on-write list of observers keyed by registration.
type observerSet struct {
	mu     sync.Mutex
	nextID uint64
	list   []observerEntry
	log    zerolog.Logger
}

type observerEntry struct {
	id  uint64
	obs Observer
}

// add registers obs and returns a function that removes it.
func (s *observerSet) add(obs Observer) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	next := make([]observerEntry, len(s.list), len(s.list)+1)
	copy(next, s.list)
	s.list = append(next, observerEntry{id: id, obs: obs})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *observerSet) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]observerEntry, 0, len(s.list))
	for _, e := range s.list {
		if e.id != id {
			next = append(next, e)
		}
	}
	s.list = next
}

// publish delivers line to every observer. A panicking observer is
// logged and skipped; it does not stop dispatch.
func (s *observerSet) publish(line Line) {
	s.mu.Lock()
	list := s.list
	s.mu.Unlock()
	for _, e := range list {
		s.safeObserve(e.obs, line)
	}
}

func (s *observerSet) safeObserve(obs Observer, line Line) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Uint64("seq", line.Seq).Msg("observer panicked")
		}
	}()
	obs.ObserveLine(line)
}
