package densmd

import (
	"sync"
	"time"
)

//Scheduler debounces display requests: rapid slider movement produces
//a burst of parameter updates, and only the last one within the delay
//window is worth computing. Each Request supersedes any pending one.
//At most one run is in flight at a time; a fired pass that went stale
//while waiting for an earlier run to finish is skipped.
type Scheduler struct {
	mu    sync.Mutex
	runMu sync.Mutex //held for the duration of each run callback
	delay time.Duration
	timer *time.Timer
	gen   uint64
	run   func(PassParams)
}

//NewScheduler returns a scheduler that calls run with the most recent
//parameters once they have been stable for the given delay.
func NewScheduler(delay time.Duration, run func(PassParams)) *Scheduler {
	return &Scheduler{delay: delay, run: run}
}

//Request schedules a pass with the given parameters, cancelling any
//pass still pending from an earlier request.
func (s *Scheduler) Request(p PassParams) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(s.delay, func() {
		s.runMu.Lock()
		defer s.runMu.Unlock()
		//check staleness only after acquiring the run slot: a request
		//that arrived while an earlier run was in flight must win
		s.mu.Lock()
		stale := gen != s.gen
		s.mu.Unlock()
		if stale {
			return
		}
		s.run(p)
	})
}

//Stop cancels any pending pass. Requests made after Stop still work.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}
