package engine

import "github.com/scrapexdev/scrapex/pkg/request"

// Kind discriminates the closed sum type a parse Callback returns.
type Kind int

const (
	// KindRecords carries the list of records the callback produced for
	// this fetch.
	KindRecords Kind = iota
	// KindRequest means the callback deferred to a single sub-Request;
	// the Engine awaits it (infinite timeout) and resolves recursively.
	KindRequest
	// KindRequests means the callback deferred to several sub-Requests,
	// awaited and concatenated in list order.
	KindRequests
	// KindStop means the callback asked the Engine to terminate.
	KindStop
)

// Req is the concrete Request type flowing through the Engine: a future
// whose own result is again an Outcome, which is how nested
// request/await chains are expressed.
type Req = request.Request[Outcome]

// Outcome is the closed, tagged union a parse Callback returns, matching
// spec.md §4.4.3's {ok, data} | {ok, Request} | {ok, [Request]} | {stop,
// reason} union. Values are only ever built through the constructors
// below and inspected through Kind()/accessors, never by touching fields
// directly, keeping the match exhaustive at the Engine boundary.
type Outcome struct {
	kind       Kind
	records    []any
	request    *Req
	requests   []*Req
	stopReason error
}

// Kind reports which arm of the union this Outcome holds.
func (o Outcome) Kind() Kind { return o.kind }

// OK builds a KindRecords Outcome from the given records.
func OK(records ...any) Outcome {
	return Outcome{kind: KindRecords, records: records}
}

// OKRecords builds a KindRecords Outcome from a slice, without the
// variadic-copy OK performs — useful when the caller already has a
// []any.
func OKRecords(records []any) Outcome {
	return Outcome{kind: KindRecords, records: records}
}

// OKRequest builds a KindRequest Outcome deferring to a single
// sub-Request.
func OKRequest(r *Req) Outcome {
	return Outcome{kind: KindRequest, request: r}
}

// OKRequests builds a KindRequests Outcome deferring to several
// sub-Requests, awaited and concatenated in the given order.
func OKRequests(rs []*Req) Outcome {
	return Outcome{kind: KindRequests, requests: rs}
}

// StopOutcome builds a KindStop Outcome asking the Engine to terminate.
func StopOutcome(reason error) Outcome {
	return Outcome{kind: KindStop, stopReason: reason}
}
