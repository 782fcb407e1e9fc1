// Package coro builds pausable coroutines on the pause effect. A
// coroutine is an ordinary function that performs Pause wherever it is
// willing to be suspended; the Scheduler's deferred handler parks the
// resulting resumption until the driving loop steps it.
package coro

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/go-effects/perform/effects"
)

type pauseRequest struct{}

var sigPause = effects.NewSignature[pauseRequest, effects.Unit]("effects.coro.pause")

// Pause suspends the calling coroutine until the scheduler steps it.
// Returns effects.ErrScopeClosed when the scheduler shut down instead.
func Pause(ctx context.Context) error {
	_, err := effects.Perform(ctx, sigPause, pauseRequest{})
	return err
}

// Scheduler runs coroutines and owns their parked resumptions. Paused
// coroutines stay suspended in place; Step resumes them in pause order
// from whatever point of the program drives the scheduler.
type Scheduler struct {
	ctx context.Context
	end func() context.Context
	eg  *errgroup.Group

	mu     sync.Mutex
	parked []*effects.Resumption[effects.Unit]
}

// NewScheduler pushes a pause-handler frame onto ctx and returns the
// scheduler bound to it.
func NewScheduler(ctx context.Context, bufferSize int) *Scheduler {
	s := &Scheduler{}
	ctxWith, end := effects.WithDeferredHandler(ctx, sigPause, bufferSize, s.handlePause)
	eg, egCtx := errgroup.WithContext(ctxWith)
	s.ctx = egCtx
	s.end = end
	s.eg = eg
	return s
}

func (s *Scheduler) handlePause(_ context.Context, _ pauseRequest, r *effects.Resumption[effects.Unit]) {
	s.mu.Lock()
	s.parked = append(s.parked, r)
	s.mu.Unlock()
}

// Go starts fn as a coroutine under the scheduler's scope.
func (s *Scheduler) Go(fn func(context.Context) error) {
	s.eg.Go(func() error {
		return fn(s.ctx)
	})
}

// Paused reports how many coroutines are currently parked.
func (s *Scheduler) Paused() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.parked)
}

// Step resumes the oldest parked coroutine. Reports whether any
// coroutine was parked to resume.
func (s *Scheduler) Step() bool {
	s.mu.Lock()
	if len(s.parked) == 0 {
		s.mu.Unlock()
		return false
	}
	r := s.parked[0]
	s.parked = s.parked[1:]
	s.mu.Unlock()

	_ = r.Resume(effects.Unit{})
	return true
}

// StepAll resumes every coroutine parked at the time of the call and
// returns how many were resumed. Coroutines that pause again afterwards
// park behind the ones stepped here.
func (s *Scheduler) StepAll() int {
	s.mu.Lock()
	batch := s.parked
	s.parked = nil
	s.mu.Unlock()

	for _, r := range batch {
		_ = r.Resume(effects.Unit{})
	}
	return len(batch)
}

// Wait blocks until every coroutine has returned, then pops the pause
// frame. The caller must keep stepping until coroutines finish, or call
// Shutdown to abandon the parked ones.
func (s *Scheduler) Wait() error {
	err := s.eg.Wait()
	s.end()
	return err
}

// Shutdown pops the pause frame without stepping anything further:
// every parked or in-flight Pause unblocks with effects.ErrScopeClosed.
// Blocks until all coroutines have returned.
func (s *Scheduler) Shutdown() error {
	s.end()
	return s.eg.Wait()
}
