package debounce

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu    sync.Mutex
	texts []string
	calls int32
}

func (r *recorder) fn(_ context.Context, text string) {
	r.mu.Lock()
	r.texts = append(r.texts, text)
	r.mu.Unlock()
	atomic.AddInt32(&r.calls, 1)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.texts...)
}

func TestNotifier_SingleEdit(t *testing.T) {
	n := NewNotifier(context.Background())
	defer n.Close()

	rec := &recorder{}
	require.NoError(t, n.Register("prompt", 20*time.Millisecond, rec.fn))
	require.NoError(t, n.Notify("prompt", "(a"))

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&rec.calls) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"(a"}, rec.snapshot())
}

func TestNotifier_RapidEditsDeliverLatestOnce(t *testing.T) {
	n := NewNotifier(context.Background())
	defer n.Close()

	rec := &recorder{}
	require.NoError(t, n.Register("prompt", 50*time.Millisecond, rec.fn))

	for _, text := range []string{"(", "(a", "(a)", "(a))"} {
		require.NoError(t, n.Notify("prompt", text))
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&rec.calls) >= 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, []string{"(a))"}, rec.snapshot())
}

func TestNotifier_FieldsAreIndependent(t *testing.T) {
	n := NewNotifier(context.Background())
	defer n.Close()

	prompt, negative := &recorder{}, &recorder{}
	require.NoError(t, n.Register("txt2img_prompt", 10*time.Millisecond, prompt.fn))
	require.NoError(t, n.Register("txt2img_neg_prompt", 10*time.Millisecond, negative.fn))

	require.NoError(t, n.Notify("txt2img_prompt", "a"))
	require.NoError(t, n.Notify("txt2img_neg_prompt", "b"))

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&prompt.calls) == 1 && atomic.LoadInt32(&negative.calls) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"a"}, prompt.snapshot())
	assert.Equal(t, []string{"b"}, negative.snapshot())
}

func TestNotifier_Flush(t *testing.T) {
	n := NewNotifier(context.Background())
	defer n.Close()

	rec := &recorder{}
	require.NoError(t, n.Register("prompt", time.Hour, rec.fn))
	require.NoError(t, n.Notify("prompt", "[x"))

	n.Flush("prompt")
	assert.Equal(t, []string{"[x"}, rec.snapshot())

	// Nothing pending, nothing delivered.
	n.Flush("prompt")
	n.Flush("unknown")
	assert.Equal(t, int32(1), atomic.LoadInt32(&rec.calls))
}

func TestNotifier_UnknownField(t *testing.T) {
	n := NewNotifier(context.Background())
	defer n.Close()

	assert.ErrorIs(t, n.Notify("missing", "x"), ErrFieldNotRegistered)
	assert.False(t, n.Registered("missing"))
}

func TestNotifier_CloseDropsPendingEdits(t *testing.T) {
	n := NewNotifier(context.Background())

	rec := &recorder{}
	require.NoError(t, n.Register("prompt", time.Hour, rec.fn))
	require.NoError(t, n.Notify("prompt", "pending"))

	n.Close()
	n.Close()

	assert.Zero(t, atomic.LoadInt32(&rec.calls))
	assert.ErrorIs(t, n.Notify("prompt", "late"), ErrNotifierClosed)
	assert.ErrorIs(t, n.Register("other", time.Millisecond, rec.fn), ErrNotifierClosed)
}

func TestNotifier_CloseWaitsForRunningCallback(t *testing.T) {
	n := NewNotifier(context.Background())

	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool

	require.NoError(t, n.Register("prompt", time.Millisecond, func(ctx context.Context, _ string) {
		close(started)
		<-release
		finished.Store(ctx.Err() != nil)
	}))
	require.NoError(t, n.Notify("prompt", "x"))
	<-started

	done := make(chan struct{})
	go func() {
		n.Close()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Close returned while a callback was still running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-done
	assert.True(t, finished.Load(), "callback context is cancelled by Close")
}

func TestNotifier_RegisterReplacesCallback(t *testing.T) {
	n := NewNotifier(context.Background())
	defer n.Close()

	first, second := &recorder{}, &recorder{}
	require.NoError(t, n.Register("prompt", time.Hour, first.fn))
	require.NoError(t, n.Notify("prompt", "x"))
	require.NoError(t, n.Register("prompt", time.Hour, second.fn))

	n.Flush("prompt")
	assert.Zero(t, atomic.LoadInt32(&first.calls))
	assert.Equal(t, []string{"x"}, second.snapshot())
}

func TestNotifier_ReplacedTimerDoesNotDeliver(t *testing.T) {
	n := NewNotifier(context.Background())
	defer n.Close()

	rec := &recorder{}
	require.NoError(t, n.Register("prompt", time.Hour, rec.fn))

	currentGen := func() (*field, uint64) {
		n.mu.Lock()
		defer n.mu.Unlock()
		f := n.fields["prompt"]
		return f, f.gen
	}

	// A timer that already fired but lost the lock to a newer Notify must
	// not deliver the edit early.
	require.NoError(t, n.Notify("prompt", "("))
	f, first := currentGen()
	require.NoError(t, n.Notify("prompt", "(a"))
	_, second := currentGen()

	n.fire("prompt", f, first)
	assert.Zero(t, atomic.LoadInt32(&rec.calls))

	require.NoError(t, n.Notify("prompt", "(a)"))
	n.fire("prompt", f, second)
	assert.Zero(t, atomic.LoadInt32(&rec.calls))

	n.Flush("prompt")
	assert.Equal(t, []string{"(a)"}, rec.snapshot())
}
