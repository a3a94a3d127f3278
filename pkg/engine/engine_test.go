package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapexdev/scrapex/pkg/htmlclient"
	"github.com/scrapexdev/scrapex/pkg/response"
)

// fakeClient serves canned bodies/statuses for fixed URLs, avoiding any
// real network access in tests.
type fakeClient struct {
	bodies  map[string]string
	statues map[string]int
}

func (c *fakeClient) Get(_ context.Context, url string) (htmlclient.Result, error) {
	status := c.statues[url]
	if status == 0 {
		status = 200
	}
	return htmlclient.Result{FinalURL: url, StatusCode: status, Body: []byte(c.bodies[url])}, nil
}

type singleRecordSpider struct{}

func (singleRecordSpider) Parse(resp *response.Response, _ State) (Outcome, error) {
	return OK(map[string]any{"url": resp.URL}), nil
}

func TestEngineDispatchAndExport(t *testing.T) {
	client := &fakeClient{bodies: map[string]string{
		"http://a.test/": "a",
		"http://b.test/": "b",
	}}
	e := New(singleRecordSpider{}, Options{
		URLs:     []string{"http://a.test/", "http://b.test/"},
		Interval: time.Hour,
		Timeout:  time.Second,
	}, client, zerolog.Nop())

	require.NoError(t, e.Start(nil))
	defer e.Stop(nil)

	var records []any
	require.Eventually(t, func() bool {
		out, err := e.Export(FormatNone, false)
		if err != nil {
			return false
		}
		records = out.([]any)
		return len(records) == 2
	}, 2*time.Second, 10*time.Millisecond)

	assert.Len(t, records, 2)
}

func TestEngineExportJSON(t *testing.T) {
	client := &fakeClient{bodies: map[string]string{"http://a.test/": "a"}}
	e := New(singleRecordSpider{}, Options{
		URLs:     []string{"http://a.test/"},
		Interval: time.Hour,
		Timeout:  time.Second,
	}, client, zerolog.Nop())

	require.NoError(t, e.Start(nil))
	defer e.Stop(nil)

	require.Eventually(t, func() bool {
		out, err := e.Export(FormatJSON, false)
		return err == nil && len(out.([]byte)) > 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEngineNotFoundPrunesSeed(t *testing.T) {
	client := &fakeClient{
		bodies:  map[string]string{"http://ok.test/": "ok"},
		statues: map[string]int{"http://missing.test/": 404},
	}
	e := New(singleRecordSpider{}, Options{
		URLs:     []string{"http://ok.test/", "http://missing.test/"},
		Interval: time.Hour,
		Timeout:  time.Second,
	}, client, zerolog.Nop())

	require.NoError(t, e.Start(nil))
	defer e.Stop(nil)

	var records []any
	require.Eventually(t, func() bool {
		out, err := e.Export(FormatNone, false)
		if err != nil {
			return false
		}
		records = out.([]any)
		return len(records) == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Len(t, records, 1)
}

// TestEngineExportImmediatelyAfterStart exercises the one-shot CLI usage
// pattern (zero Interval, Export called right after Start returns) that
// depends on the first tick being enqueued before Start returns rather
// than racing in on its own timer goroutine.
func TestEngineExportImmediatelyAfterStart(t *testing.T) {
	client := &fakeClient{bodies: map[string]string{
		"http://a.test/": "a",
		"http://b.test/": "b",
	}}
	e := New(singleRecordSpider{}, Options{
		URLs:    []string{"http://a.test/", "http://b.test/"},
		Timeout: time.Second,
	}, client, zerolog.Nop())

	require.NoError(t, e.Start(nil))
	defer e.Stop(nil)

	out, err := e.Export(FormatNone, false)
	require.NoError(t, err)
	assert.Len(t, out.([]any), 2)
}

// TestEngineOneShotDoesNotRearm exercises spec.md §4.4.2's "interval unset
// => one-shot" case: a zero Interval must dispatch exactly once and settle
// Idle with no timer, never re-crawling on its own.
func TestEngineOneShotDoesNotRearm(t *testing.T) {
	var hits int32
	client := &countingClient{bodies: map[string]string{"http://a.test/": "a"}, hits: &hits}
	e := New(singleRecordSpider{}, Options{
		URLs:    []string{"http://a.test/"},
		Timeout: time.Second,
	}, client, zerolog.Nop())

	require.NoError(t, e.Start(nil))
	defer e.Stop(nil)

	out, err := e.Export(FormatNone, false)
	require.NoError(t, err)
	assert.Len(t, out.([]any), 1)

	// A periodic engine would re-tick well inside this window; a one-shot
	// engine must not, so the fetch count should stay put.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

type countingClient struct {
	bodies map[string]string
	hits   *int32
}

func (c *countingClient) Get(_ context.Context, url string) (htmlclient.Result, error) {
	atomic.AddInt32(c.hits, 1)
	return htmlclient.Result{FinalURL: url, StatusCode: 200, Body: []byte(c.bodies[url])}, nil
}

// stoppingSpider stops on its second distinct seed, leaving the first
// seed's record already accumulated in the table.
type stoppingSpider struct{ stopOn string }

func (s stoppingSpider) Parse(resp *response.Response, _ State) (Outcome, error) {
	if resp.URL == s.stopOn {
		return StopOutcome(nil), nil
	}
	return OK(map[string]any{"url": resp.URL}), nil
}

// TestEngineExportReturnsPartialOnStop exercises spec.md §4.4.5's partial
// export path: a StopRequested surfaced while Export drains pending
// Requests must still hand back whatever records accumulated so far,
// rather than a bare error, and must leave the Engine cleanly stopped.
func TestEngineExportReturnsPartialOnStop(t *testing.T) {
	client := &fakeClient{bodies: map[string]string{
		"http://a.test/": "a",
		"http://b.test/": "b",
	}}
	e := New(stoppingSpider{stopOn: "http://b.test/"}, Options{
		URLs:    []string{"http://a.test/", "http://b.test/"},
		Timeout: time.Second,
	}, client, zerolog.Nop())

	require.NoError(t, e.Start(nil))

	out, err := e.Export(FormatNone, false)
	require.NoError(t, err)
	assert.Len(t, out.([]any), 1)

	select {
	case <-e.Done():
	case <-time.After(time.Second):
		t.Fatal("engine did not stop after a spider-requested stop")
	}
	assert.Equal(t, NormalStop, e.stopErr)
}

func TestEngineStop(t *testing.T) {
	client := &fakeClient{bodies: map[string]string{"http://a.test/": "a"}}
	e := New(singleRecordSpider{}, Options{
		URLs:     []string{"http://a.test/"},
		Interval: time.Hour,
	}, client, zerolog.Nop())

	require.NoError(t, e.Start(nil))
	require.NoError(t, e.Stop(nil))

	select {
	case <-e.Done():
	case <-time.After(time.Second):
		t.Fatal("engine did not stop")
	}
}
