// Package request implements the async/await Request future described in
// spec.md §4.2: a handle to a single-URL fetch that runs its callback on
// its own task and lets a caller block for the callback's return value.
package request

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/scrapexdev/scrapex/pkg/htmlclient"
	"github.com/scrapexdev/scrapex/pkg/response"
)

// ErrTaskCrashed wraps a recovered panic from inside a Request's callback,
// surfaced to Await exactly as the task's exit reason would be in the
// source system.
type ErrTaskCrashed struct {
	Reason any
}

func (e *ErrTaskCrashed) Error() string {
	return fmt.Sprintf("request task crashed: %v", e.Reason)
}

var nextID atomic.Uint64

// Callback transforms a successful fetch into a Result or an error. It
// runs on the Request's own goroutine; it may itself spawn and Await
// further Requests (spec.md §4.4.4) without blocking anything but its own
// goroutine.
type Callback[T any] func(*response.Response) (T, error)

// Request is a handle to an in-flight (or already-finished) single-URL
// fetch. It behaves as a broadcastable future: Await may be called any
// number of times, by any number of goroutines, and always returns the
// same resolved value once the task is done — only the logical owner
// should treat the first observation as authoritative for state
// transitions, but the value itself is safe to re-read.
type Request[T any] struct {
	id  uint64
	url string

	done   chan struct{}
	once   sync.Once
	result T
	err    error
}

// Async spawns a goroutine that fetches url via client and, on a 200
// response, invokes cb with the resulting Response. Non-200 statuses and
// transport failures surface as errors from Await; the 404 case surfaces
// as a *NotFoundError so the caller (the Engine) can distinguish it from
// other failures.
func Async[T any](ctx context.Context, client htmlclient.Client, url string, cb Callback[T]) *Request[T] {
	r := &Request[T]{
		id:   nextID.Add(1),
		url:  url,
		done: make(chan struct{}),
	}

	go func() {
		defer r.finish()

		res, err := client.Get(ctx, url)
		if err != nil {
			r.err = err
			return
		}
		if res.StatusCode == 404 {
			r.err = &NotFoundError{URL: url}
			return
		}
		if res.StatusCode != 200 {
			r.err = &TransportError{URL: url, Reason: fmt.Errorf("unexpected status %d", res.StatusCode)}
			return
		}

		resp := response.New(res.FinalURL, res.Body)
		value, cbErr := r.invoke(cb, resp)
		r.result, r.err = value, cbErr
	}()

	return r
}

// invoke runs cb, converting a panic into an ErrTaskCrashed instead of
// propagating it, mirroring a supervised task dying with its exit reason.
func (r *Request[T]) invoke(cb Callback[T], resp *response.Response) (value T, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &ErrTaskCrashed{Reason: p}
		}
	}()
	return cb(resp)
}

func (r *Request[T]) finish() {
	r.once.Do(func() { close(r.done) })
}

// ID returns the Request's unique identity.
func (r *Request[T]) ID() uint64 { return r.id }

// URL returns the Request's target URL.
func (r *Request[T]) URL() string { return r.url }

// Await blocks until the callback returns or the task dies, or until ctx
// is done. A nil, never-cancelled context.Background() gives the
// "infinite" timeout spec.md's Engine uses when draining; callers wanting
// the 5s default should pass a context.WithTimeout themselves.
func (r *Request[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-r.done:
		return r.result, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done reports whether the Request has resolved without blocking.
func (r *Request[T]) Done() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// NotFoundError indicates the fetch returned HTTP 404.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("not found: %s", e.URL) }

// TransportError wraps a network, DNS, timeout, or non-200/non-404 HTTP
// failure.
type TransportError struct {
	URL    string
	Reason error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport error for %s: %v", e.URL, e.Reason) }
func (e *TransportError) Unwrap() error { return e.Reason }

// AsNotFound reports whether err is (or wraps) a NotFoundError.
func AsNotFound(err error) (*NotFoundError, bool) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf, true
	}
	return nil, false
}
