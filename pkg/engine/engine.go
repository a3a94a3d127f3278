// Package engine implements the periodic-crawl coordinator described in
// spec.md §4: a single-owner actor that dispatches Requests against a
// seed list once, or repeatedly on a fixed interval, accumulates each
// seed's resolved records into a DataTable, and exposes Export/Stop as
// synchronous calls into that actor, mirroring a GenServer driven by a
// command mailbox. Await blocks on a Request directly and never goes
// through the actor.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/scrapexdev/scrapex/pkg/htmlclient"
	"github.com/scrapexdev/scrapex/pkg/request"
	"github.com/scrapexdev/scrapex/pkg/response"
)

// command is the closed set of messages the Engine's loop goroutine
// accepts on its mailbox.
type command interface{}

type cmdTick struct{ gen uint64 }

type cmdRequestDone struct {
	seed    string
	outcome Outcome
	err     error
}

type exportReply struct {
	value any
	err   error
}

type cmdExport struct {
	format   Format
	enc      Encoder
	override bool
	reply    chan exportReply
}

type cmdStop struct {
	reason error
	reply  chan struct{}
}

// Engine is the periodic-crawl coordinator. All mutable state is owned by
// the single loop goroutine started in Start; the methods that reach that
// state (Export, Stop) only send on cmds and wait on a reply channel, and
// Request/Await/Done never touch it, so the loop never needs a mutex.
type Engine struct {
	spider Spider
	client htmlclient.Client
	logger zerolog.Logger
	opts   Options

	cmds    chan command
	stopped chan struct{}
	stopErr error

	table         *dataTable
	userState     State
	pendingBySeed map[string][]*Req
	remaining     map[string]int
	accum         map[string][]any
	completed     map[string]bool

	timer    *time.Timer
	timerGen uint64
}

// New constructs an Engine for spider, fetching through client and
// logging through logger. The Engine does not start dispatching until
// Start is called.
func New(spider Spider, opts Options, client htmlclient.Client, logger zerolog.Logger) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		spider:  spider,
		client:  client,
		logger:  logger.With().Str("engine", opts.Name).Logger(),
		opts:    opts,
		cmds:    make(chan command, 16),
		stopped: make(chan struct{}),
	}
}

// Start runs the spider's optional Init, then launches the loop goroutine
// and arms the first dispatch tick. It returns ErrInitIgnore if Init
// chose not to start the spider, or *InitStopError if Init failed.
func (e *Engine) Start(args any) error {
	state := args
	delay := time.Duration(0)

	if initializer, ok := e.spider.(Initializer); ok {
		out, err := initializer.Init(args)
		if err != nil {
			return fmt.Errorf("init: %w", err)
		}
		switch out.kind {
		case initKindIgnore:
			return ErrInitIgnore
		case initKindStop:
			return &InitStopError{Reason: out.err}
		case initKindOK:
			state = out.state
			delay = time.Duration(out.delay) * time.Millisecond
		}
	}

	e.userState = state
	e.table = newDataTable(e.opts.URLs)
	e.pendingBySeed = make(map[string][]*Req)
	e.remaining = make(map[string]int)
	e.accum = make(map[string][]any)
	e.completed = make(map[string]bool)

	if delay <= 0 {
		// Enqueue the first tick directly, from this goroutine, before the
		// loop even starts: a caller that calls Export right after Start
		// returns is on the same goroutine as this send, so cmds' FIFO
		// order guarantees the tick is seen first. Going through
		// armTimer's time.AfterFunc here would hand the send to a
		// different goroutine and race that caller.
		e.timerGen++
		gen := e.timerGen
		e.cmds <- cmdTick{gen: gen}
		go e.loop()
	} else {
		go e.loop()
		e.armTimer(delay)
	}
	return nil
}

// Request wraps request.Async using the Engine's own client, producing a
// Req whose result is an Outcome — the shape every top-level and nested
// request flowing through the Engine shares.
func (e *Engine) Request(url string, cb Callback) *Req {
	return request.Async(context.Background(), e.client, url, cb)
}

// Await blocks on req for up to timeout. timeout<=0 means wait forever,
// matching the infinite-timeout nested awaits spec.md §4.4.4 requires.
func (e *Engine) Await(req *Req, timeout time.Duration) (Outcome, error) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return req.Await(ctx)
}

// Export drains every pending top-level Request in seed order (infinite
// timeout) and encodes the DataTable's current contents with the built-in
// Encoder for format. override, when true, also triggers an immediate
// fresh dispatch cycle after the drain instead of waiting for the next
// scheduled tick.
func (e *Engine) Export(format Format, override bool) (any, error) {
	enc, err := encoderFor(format)
	if err != nil {
		return nil, err
	}
	return e.ExportWith(enc, override)
}

// ExportWith is Export with a caller-supplied Encoder, for output shapes
// the built-in Format set doesn't cover.
func (e *Engine) ExportWith(enc Encoder, override bool) (any, error) {
	reply := make(chan exportReply, 1)
	select {
	case e.cmds <- cmdExport{enc: enc, override: override, reply: reply}:
	case <-e.stopped:
		return nil, ErrStopped
	}
	select {
	case r := <-reply:
		return r.value, r.err
	case <-e.stopped:
		return nil, ErrStopped
	}
}

// Stop requests the Engine terminate with reason and blocks until its
// loop goroutine has exited.
func (e *Engine) Stop(reason error) error {
	reply := make(chan struct{})
	select {
	case e.cmds <- cmdStop{reason: reason, reply: reply}:
	case <-e.stopped:
		return nil
	}
	select {
	case <-reply:
	case <-e.stopped:
	}
	<-e.stopped
	return e.stopErr
}

// Done returns a channel closed once the Engine's loop goroutine has
// exited, for callers that want to select on termination instead of
// blocking in Stop.
func (e *Engine) Done() <-chan struct{} { return e.stopped }

// loop is the Engine's single-goroutine actor body. It owns every mutable
// field and is the only code that ever touches them.
func (e *Engine) loop() {
	defer close(e.stopped)

	for cmd := range e.cmds {
		switch c := cmd.(type) {
		case cmdTick:
			if c.gen != e.timerGen {
				continue // stale fire from a cancelled-but-already-queued timer
			}
			e.dispatchTick()
			e.maybeArmNextCycle() // covers a cycle that dispatched nothing at all

		case cmdRequestDone:
			if stopReq := e.completeOne(c.seed, c.outcome, c.err); stopReq != nil {
				e.stopErr = e.normalizeStopReason(stopReq)
				return
			}

		case cmdExport:
			value, err, stopReq := e.handleExport(c)
			c.reply <- exportReply{value: value, err: err}
			if stopReq != nil {
				e.stopErr = e.normalizeStopReason(stopReq)
				return
			}
			if err == nil && c.override {
				e.armTimer(0)
			}

		case cmdStop:
			e.stopErr = c.reason
			close(c.reply)
			return
		}
	}
}

// dispatchTick starts one crawl cycle: it asks the spider (or the
// default) to turn the current seed list into top-level Requests, then
// spawns one forwarder goroutine per Request to await it off the loop
// goroutine and report back via cmdRequestDone.
func (e *Engine) dispatchTick() {
	seeds := e.table.Seeds()
	var reqsBySeed map[string][]*Req

	if starter, ok := e.spider.(RequestStarter); ok {
		reqs, newState := starter.StartRequests(seeds, e.userState, e)
		e.userState = newState
		reqsBySeed = make(map[string][]*Req, len(reqs))
		for _, r := range reqs {
			reqsBySeed[r.URL()] = append(reqsBySeed[r.URL()], r)
		}
	} else {
		reqsBySeed = make(map[string][]*Req, len(seeds))
		for _, seed := range seeds {
			reqsBySeed[seed] = e.requestsForSeed(seed)
		}
	}

	for _, seed := range seeds {
		reqs := reqsBySeed[seed]
		if len(reqs) == 0 {
			continue
		}
		e.pendingBySeed[seed] = reqs
		e.remaining[seed] = len(reqs)
		e.accum[seed] = nil

		for i, r := range reqs {
			e.forward(seed, i, r)
		}
	}
}

// requestsForSeed implements the default MakeRequestsFromURL behaviour:
// a single Request whose callback binds the spider's Parse to the
// Engine's current user state.
func (e *Engine) requestsForSeed(seed string) []*Req {
	if requester, ok := e.spider.(URLRequester); ok {
		return requester.MakeRequestsFromURL(seed, e.userState, e)
	}
	state := e.userState
	return []*Req{e.Request(seed, func(resp *response.Response) (Outcome, error) {
		return e.spider.Parse(resp, state)
	})}
}

// forward awaits req off the loop goroutine (so a slow fetch never blocks
// the mailbox) and reports the resolved Outcome back as a cmdRequestDone,
// preserving the seed and the request's index within its seed's batch.
func (e *Engine) forward(seed string, index int, req *Req) {
	go func() {
		outcome, err := e.Await(req, e.opts.Timeout)
		select {
		case e.cmds <- cmdRequestDone{seed: withIndex(seed, index), outcome: outcome, err: err}:
		case <-e.stopped:
		}
	}()
}

// withIndex is a loop-internal-only key; completeOne strips it back down
// to the bare seed before touching the DataTable. Keeping the index in
// the message (rather than in a second map) is what lets multiple
// sub-Requests for the same seed be told apart without extra state.
func withIndex(seed string, index int) string {
	if index == 0 {
		return seed
	}
	return fmt.Sprintf("%s\x00%d", seed, index)
}

func bareSeed(keyed string) string {
	for i := 0; i < len(keyed); i++ {
		if keyed[i] == 0 {
			return keyed[:i]
		}
	}
	return keyed
}

// completeOne resolves one top-level Request's Outcome into its record
// contribution, accumulates it under its seed, and — once every Request
// for that seed has reported in — flushes the concatenated records (in
// dispatch order) into the DataTable and checks whether the whole cycle
// has now drained. It is the single chokepoint used by both the async
// forwarder path and the synchronous export-drain path; the completed set
// makes it idempotent per keyed request so a request drained synchronously
// by Export and later reported by its own forwarder goroutine is only ever
// counted once. A non-nil return is always the *StopRequested a Callback
// raised; every other failure is logged and swallowed as an empty record.
func (e *Engine) completeOne(keyedSeed string, outcome Outcome, err error) *StopRequested {
	if e.completed[keyedSeed] {
		return nil
	}
	e.completed[keyedSeed] = true

	seed := bareSeed(keyedSeed)
	if _, pending := e.pendingBySeed[seed]; !pending {
		return nil // late report for a seed whose batch has already been flushed
	}

	records, resolveErr := e.resolveOutcome(outcome, err, seed)
	if resolveErr != nil {
		var stopReq *StopRequested
		if isStopRequested(resolveErr, &stopReq) {
			return stopReq
		}
		e.logger.Warn().Err(resolveErr).Str("seed", seed).Msg("request failed")
		records = nil
	}

	e.accum[keyedSeed] = records
	e.remaining[seed]--
	if e.remaining[seed] > 0 {
		return nil
	}

	var all []any
	for i := range e.pendingBySeed[seed] {
		key := withIndex(seed, i)
		all = append(all, e.accum[key]...)
		delete(e.accum, key)
		delete(e.completed, key)
	}
	e.table.Set(seed, all)
	delete(e.pendingBySeed, seed)
	delete(e.remaining, seed)

	e.maybeArmNextCycle()
	return nil
}

// maybeArmNextCycle arms the next interval tick once the current dispatch
// cycle has fully drained (every seed's Requests resolved), measuring the
// interval from the end of this cycle rather than from when the cycle was
// dispatched — so a crawl slower than Interval can never overlap with its
// successor. A zero Interval (one-shot) never re-arms: the Engine settles
// Idle with no timer.
func (e *Engine) maybeArmNextCycle() {
	if len(e.pendingBySeed) != 0 {
		return
	}
	if e.opts.Interval <= 0 {
		return
	}
	e.armTimer(e.opts.Interval)
}

// normalizeStopReason maps a spider-raised StopRequested to the Engine's
// public stop error: a nil Reason (StopOutcome(nil)) is a plain clean
// shutdown and surfaces as NormalStop, matching the :normal termination
// spec.md's glossary describes for spider-triggered stops.
func (e *Engine) normalizeStopReason(stopReq *StopRequested) error {
	if stopReq.Reason == nil {
		return NormalStop
	}
	return stopReq
}

func isStopRequested(err error, target **StopRequested) bool {
	if sr, ok := err.(*StopRequested); ok {
		*target = sr
		return true
	}
	return false
}

// resolveOutcome is the recursive pattern-match over a resolved Request's
// (Outcome, error) pair, implementing spec.md §4.4.3's union: a fetch
// error prunes the seed on 404 and is otherwise logged as empty; KindStop
// unwinds as a StopRequested; KindRecords passes through; KindRequest and
// KindRequests recurse after an unconditional (infinite-timeout) Await.
func (e *Engine) resolveOutcome(outcome Outcome, err error, seed string) ([]any, error) {
	if err != nil {
		if _, ok := request.AsNotFound(err); ok {
			e.table.Prune(seed)
			return nil, nil
		}
		return nil, fmt.Errorf("seed %s: %w", seed, err)
	}

	switch outcome.Kind() {
	case KindRecords:
		return outcome.records, nil

	case KindStop:
		return nil, &StopRequested{Reason: outcome.stopReason}

	case KindRequest:
		sub := outcome.request
		subOutcome, subErr := e.Await(sub, 0)
		return e.resolveOutcome(subOutcome, subErr, seed)

	case KindRequests:
		var all []any
		for _, sub := range outcome.requests {
			subOutcome, subErr := e.Await(sub, 0)
			recs, rerr := e.resolveOutcome(subOutcome, subErr, seed)
			if rerr != nil {
				return all, rerr
			}
			all = append(all, recs...)
		}
		return all, nil

	default:
		return nil, fmt.Errorf("seed %s: unknown outcome kind %d", seed, outcome.Kind())
	}
}

// handleExport performs the export's await phase — draining every
// in-flight top-level Request synchronously, in seed order, through the
// same completeOne chokepoint the async path uses — then encodes the
// DataTable's contents. If a spider's Callback raises a stop while
// draining, the records accumulated so far are still flattened and
// encoded for the caller; the returned *StopRequested tells the loop to
// terminate the Engine right after replying instead of handing the
// caller a bare error with the Engine still running.
func (e *Engine) handleExport(c cmdExport) (value any, err error, stopReq *StopRequested) {
	for _, seed := range e.table.Seeds() {
		reqs, ok := e.pendingBySeed[seed]
		if !ok {
			continue
		}
		for i, r := range reqs {
			outcome, awaitErr := e.Await(r, 0)
			if sr := e.completeOne(withIndex(seed, i), outcome, awaitErr); sr != nil {
				records, _ := e.table.Flatten()
				value, err = c.enc(records)
				return value, err, sr
			}
		}
	}

	records, partial := e.table.Flatten()
	if partial && !c.override {
		e.logger.Warn().Msg("export: partial table, some seeds never resolved")
	}
	value, err = c.enc(records)
	return value, err, nil
}

// armTimer schedules the next cmdTick after delay, cancelling any
// previously armed timer first. The generation counter guards against a
// timer that has already fired (and thus already queued its cmdTick)
// racing a cancellation that arrives just after — the loop drops any
// cmdTick whose generation doesn't match the latest arm.
func (e *Engine) armTimer(delay time.Duration) {
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timerGen++
	gen := e.timerGen

	e.timer = time.AfterFunc(delay, func() {
		select {
		case e.cmds <- cmdTick{gen: gen}:
		case <-e.stopped:
		}
	})
}
