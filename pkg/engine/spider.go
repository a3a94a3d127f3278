package engine

import "github.com/scrapexdev/scrapex/pkg/response"

// State is the user-supplied, engine-opaque crawl state threaded through
// Init/StartRequests/Parse. Most spiders never need one and can return
// the args Init received unchanged.
type State = any

// Callback is the shape a parse function has: it turns a Response into
// an Outcome, or returns an error of its own. It only runs after a 200
// fetch; 404 and transport failures surface from the Request before
// Callback is ever invoked.
type Callback = func(*response.Response) (Outcome, error)

// Spider is the minimal capability a caller must implement: turning a
// fetched Response into an Outcome. Init, StartRequests, and
// MakeRequestsFromURL are optional — the Engine checks for them via type
// assertion and falls back to the defaults spec.md §4.4.2 describes. This
// is the "capability record with defaulted methods" shape called for in
// spec.md §9, done without reflection.
type Spider interface {
	Parse(resp *response.Response, state State) (Outcome, error)
}

// Initializer is the optional capability for custom startup behaviour. If
// a Spider does not implement it, the Engine behaves as if Init returned
// InitOK(args).
type Initializer interface {
	Init(args any) (InitOutcome, error)
}

// RequestStarter is the optional capability for customizing the
// Idle->Crawling dispatch entirely. If absent, the Engine's default
// StartRequests maps MakeRequestsFromURL over the current seed list.
type RequestStarter interface {
	StartRequests(urls []string, state State, e *Engine) ([]*Req, State)
}

// URLRequester is the optional capability for customizing how a single
// seed URL becomes one or more Requests. If absent, the default is a
// single e.Request(url, spider.Parse bound to state).
type URLRequester interface {
	MakeRequestsFromURL(url string, state State, e *Engine) []*Req
}

// InitKind discriminates Init's closed return union.
type InitKind int

const (
	initKindOK InitKind = iota
	initKindIgnore
	initKindStop
)

// InitOutcome is Init's closed sum type: {ok, state} | {ok, state, delay}
// | ignore | {stop, reason}.
type InitOutcome struct {
	kind  InitKind
	state any
	delay timeMillis
	err   error
}

// timeMillis avoids importing time here just for a delay duration; engine.go
// converts it back to time.Duration.
type timeMillis = int64

// InitOK starts the spider immediately (a 0ms-delay crawl tick) with the
// given user state.
func InitOK(state any) InitOutcome {
	return InitOutcome{kind: initKindOK, state: state}
}

// InitOKAfter starts the spider with the given user state, but schedules
// the first crawl tick after delayMS milliseconds instead of immediately.
func InitOKAfter(state any, delayMS int64) InitOutcome {
	return InitOutcome{kind: initKindOK, state: state, delay: delayMS}
}

// InitIgnore signals that the spider should not be created at all.
func InitIgnore() InitOutcome {
	return InitOutcome{kind: initKindIgnore}
}

// InitFailure signals that startup failed with reason.
func InitFailure(reason error) InitOutcome {
	return InitOutcome{kind: initKindStop, err: reason}
}
