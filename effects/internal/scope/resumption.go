package scope

import "sync/atomic"

// Resumption is a reified suspended computation, captured at a perform
// site and handed to a deferred handler. It is one-shot: exactly one of
// Resume, ResumeErr or Abandon takes effect; later uses return
// ErrResumptionUsed. Safe for concurrent use; one caller wins.
type Resumption[R any] struct {
	used  atomic.Uintptr
	reply chan<- result[R]
}

func newResumption[R any](reply chan<- result[R]) *Resumption[R] {
	return &Resumption[R]{reply: reply}
}

// Resume transfers control and v back to the perform site.
func (r *Resumption[R]) Resume(v R) error {
	if r.used.Add(1) != 1 {
		return ErrResumptionUsed
	}
	r.reply <- result[R]{value: v}
	return nil
}

// ResumeErr resumes the perform site with an error instead of a value.
func (r *Resumption[R]) ResumeErr(err error) error {
	if r.used.Add(1) != 1 {
		return ErrResumptionUsed
	}
	r.reply <- result[R]{err: err}
	return nil
}

// Abandon gives up the suspended computation: the perform site is
// unblocked with ErrAbandoned and the resumption is consumed.
func (r *Resumption[R]) Abandon() error {
	if r.used.Add(1) != 1 {
		return ErrResumptionUsed
	}
	r.reply <- result[R]{err: ErrAbandoned}
	return nil
}

// Used reports whether the resumption has already been consumed.
func (r *Resumption[R]) Used() bool {
	return r.used.Load() != 0
}
