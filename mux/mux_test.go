package mux

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/walfie/vts-plugin-go/vtsdata"
	"github.com/walfie/vts-plugin-go/vtserr"
)

// fakeSource lets tests hand the multiplexer responses on demand and
// simulate a terminal read error.
type fakeSource struct {
	mu  sync.Mutex
	ch  chan vtsdata.ResponseEnvelope
	err chan error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		ch:  make(chan vtsdata.ResponseEnvelope, 16),
		err: make(chan error, 1),
	}
}

func (f *fakeSource) Next(ctx context.Context) (vtsdata.ResponseEnvelope, error) {
	select {
	case env := <-f.ch:
		return env, nil
	case err := <-f.err:
		return vtsdata.ResponseEnvelope{}, err
	case <-ctx.Done():
		return vtsdata.ResponseEnvelope{}, ctx.Err()
	}
}

func (f *fakeSource) push(env vtsdata.ResponseEnvelope) { f.ch <- env }
func (f *fakeSource) fail(err error)                    { f.err <- err }

// fakeWriter records every envelope it's asked to write, and echoes a
// canned response (keyed by requestID) onto the paired fakeSource to
// simulate a round trip.
type fakeWriter struct {
	mu       sync.Mutex
	written  []vtsdata.RequestEnvelope
	onWrite  func(env vtsdata.RequestEnvelope)
	writeErr error
}

func (f *fakeWriter) WriteEnvelope(ctx context.Context, env vtsdata.RequestEnvelope) error {
	f.mu.Lock()
	f.written = append(f.written, env)
	writeErr := f.writeErr
	onWrite := f.onWrite
	f.mu.Unlock()

	if writeErr != nil {
		return writeErr
	}
	if onWrite != nil {
		onWrite(env)
	}
	return nil
}

func echoStatistics(source *fakeSource) func(vtsdata.RequestEnvelope) {
	return func(env vtsdata.RequestEnvelope) {
		source.push(vtsdata.ResponseEnvelope{
			RequestID:   env.RequestID,
			MessageType: vtsdata.ResponseTypeStatistics,
			Data:        []byte(`{"uptime":42}`),
		})
	}
}

func TestMultiplexer_SendMatchesByRequestID(t *testing.T) {
	source := newFakeSource()
	writer := &fakeWriter{}
	writer.onWrite = echoStatistics(source)

	m := New(source, writer, nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	req, err := vtsdata.NewRequestEnvelope(vtsdata.StatisticsRequest{})
	if err != nil {
		t.Fatalf("NewRequestEnvelope: %v", err)
	}

	resp, err := m.Send(context.Background(), req)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp.RequestID != "0" {
		t.Errorf("RequestID = %q, want %q", resp.RequestID, "0")
	}
}

func TestMultiplexer_ConcurrentRequestsGetDistinctTags(t *testing.T) {
	source := newFakeSource()
	writer := &fakeWriter{}
	writer.onWrite = echoStatistics(source)

	m := New(source, writer, nil, 0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	const n = 10
	results := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, _ := vtsdata.NewRequestEnvelope(vtsdata.StatisticsRequest{})
			resp, err := m.Send(context.Background(), req)
			if err != nil {
				t.Errorf("Send: %v", err)
				return
			}
			results <- resp.RequestID
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for tag := range results {
		if seen[tag] {
			t.Errorf("tag %q assigned more than once", tag)
		}
		seen[tag] = true
	}
	if len(seen) != n {
		t.Errorf("got %d distinct tags, want %d", len(seen), n)
	}
}

func TestMultiplexer_UnknownRequestIDDoesNotCorruptPendingCalls(t *testing.T) {
	source := newFakeSource()
	writer := &fakeWriter{}
	writer.onWrite = echoStatistics(source)

	m := New(source, writer, nil, 0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	// Inject a reply to a request that was never sent.
	source.push(vtsdata.ResponseEnvelope{RequestID: "999", MessageType: vtsdata.ResponseTypeStatistics})

	req, _ := vtsdata.NewRequestEnvelope(vtsdata.StatisticsRequest{})
	resp, err := m.Send(context.Background(), req)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp.RequestID != "0" {
		t.Errorf("RequestID = %q, want %q", resp.RequestID, "0")
	}
}

func TestMultiplexer_CeilingBlocksUntilAdmission(t *testing.T) {
	source := newFakeSource()
	writer := &fakeWriter{}
	// No auto-echo: replies are released manually to control timing.
	var mu sync.Mutex
	pendingTags := make([]string, 0)
	// Closed when the second request is written, i.e. admitted past the ceiling.
	secondAdmitted := make(chan struct{})
	writer.onWrite = func(env vtsdata.RequestEnvelope) {
		mu.Lock()
		pendingTags = append(pendingTags, env.RequestID)
		if len(pendingTags) == 2 {
			close(secondAdmitted)
		}
		mu.Unlock()
	}

	m := New(source, writer, nil, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	req, _ := vtsdata.NewRequestEnvelope(vtsdata.StatisticsRequest{})

	first := make(chan struct{})
	go func() {
		m.Send(context.Background(), req)
		close(first)
	}()

	// Wait for the first call to be admitted and written.
	for {
		mu.Lock()
		n := len(pendingTags)
		mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	// Second call should not be admitted yet.
	go m.Send(context.Background(), req)

	select {
	case <-secondAdmitted:
		t.Fatal("second Send admitted before ceiling freed")
	case <-time.After(20 * time.Millisecond):
	}

	// Complete the first call; this should admit the second.
	mu.Lock()
	tag := pendingTags[0]
	mu.Unlock()
	source.push(vtsdata.ResponseEnvelope{RequestID: tag, MessageType: vtsdata.ResponseTypeStatistics, Data: []byte(`{}`)})
	<-first

	select {
	case <-secondAdmitted:
	case <-time.After(time.Second):
		t.Fatal("second Send never admitted after first completed")
	}
}

func TestMultiplexer_TrySendReturnsTransportFull(t *testing.T) {
	source := newFakeSource()
	writer := &fakeWriter{}

	m := New(source, writer, nil, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	req, _ := vtsdata.NewRequestEnvelope(vtsdata.StatisticsRequest{})

	go m.Send(context.Background(), req) // occupies the single slot forever
	time.Sleep(10 * time.Millisecond)

	_, err := m.TrySend(context.Background(), req)
	if !vtserr.HasKind(err, vtserr.KindTransportFull) {
		t.Fatalf("TrySend error = %v, want TransportFull", err)
	}
}

func TestMultiplexer_TerminationFailsPendingAndFutureCalls(t *testing.T) {
	source := newFakeSource()
	writer := &fakeWriter{}

	m := New(source, writer, nil, 0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	req, _ := vtsdata.NewRequestEnvelope(vtsdata.StatisticsRequest{})

	pending := make(chan error, 1)
	go func() {
		_, err := m.Send(context.Background(), req)
		pending <- err
	}()

	time.Sleep(10 * time.Millisecond)
	source.fail(errors.New("connection reset"))

	if err := <-pending; err == nil {
		t.Error("pending Send should have failed after termination")
	}
	<-done

	if _, err := m.Send(context.Background(), req); err == nil {
		t.Error("Send after termination should fail")
	}
}

func TestMultiplexer_SinkErrorFailsAllPendingCalls(t *testing.T) {
	source := newFakeSource()
	writer := &fakeWriter{}

	m := New(source, writer, nil, 0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	req, _ := vtsdata.NewRequestEnvelope(vtsdata.StatisticsRequest{})

	// First call succeeds in registering a pending slot but its write never
	// completes a round trip (no echo configured).
	firstDone := make(chan error, 1)
	go func() {
		_, err := m.Send(context.Background(), req)
		firstDone <- err
	}()
	time.Sleep(10 * time.Millisecond)

	// A second call's write fails outright; this must terminate the
	// multiplexer entirely, failing the still-pending first call too.
	writer.mu.Lock()
	writer.writeErr = errors.New("write: broken pipe")
	writer.mu.Unlock()

	_, err := m.Send(context.Background(), req)
	if err == nil {
		t.Fatal("Send with failing writer succeeded, want an error")
	}

	if err := <-firstDone; err == nil {
		t.Error("first call should have failed once the sink terminated the multiplexer")
	}
}

func TestMultiplexer_JSONErrorFromSourceIsNonFatal(t *testing.T) {
	source := newFakeSource()
	writer := &fakeWriter{}
	writer.onWrite = echoStatistics(source)

	m := New(source, writer, nil, 0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	// A malformed frame surfaces as a KindJSON error from the source; the
	// driver logs it and keeps polling instead of tearing the connection down.
	source.fail(vtserr.Wrap(vtserr.KindJSON, errors.New("unexpected end of JSON input")))

	req, _ := vtsdata.NewRequestEnvelope(vtsdata.StatisticsRequest{})
	resp, err := m.Send(context.Background(), req)
	if err != nil {
		t.Fatalf("Send after a non-fatal JSON error should still succeed: %v", err)
	}
	if resp.RequestID != "0" {
		t.Errorf("RequestID = %q, want %q", resp.RequestID, "0")
	}
}
