package clipboard

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type memoryWriter struct {
	mu     sync.Mutex
	writes []string
	err    error
}

func (w *memoryWriter) WriteAll(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.writes = append(w.writes, text)
	return nil
}

// manualTimers records scheduled resets so tests fire them explicitly.
type manualTimers struct {
	durations []time.Duration
	funcs     []func()
}

func (m *manualTimers) afterFunc(d time.Duration, f func()) *time.Timer {
	m.durations = append(m.durations, d)
	m.funcs = append(m.funcs, f)
	// a stopped timer that never fires
	t := time.NewTimer(time.Hour)
	t.Stop()
	return t
}

func newTestCopier(writer Writer) (*Copier, *manualTimers) {
	timers := &manualTimers{}
	c := New(writer, nil)
	c.afterFunc = timers.afterFunc
	return c, timers
}

func TestCopyAll(t *testing.T) {
	writer := &memoryWriter{}
	c, timers := newTestCopier(writer)

	c.CopyAll([]string{"Led migration", "Cut costs 30%"})

	require.Len(t, writer.writes, 1)
	assert.Equal(t, "• Led migration\n• Cut costs 30%", writer.writes[0])

	key, ok := c.Copied()
	assert.True(t, ok)
	assert.Equal(t, All, key)

	require.Len(t, timers.durations, 1)
	assert.Equal(t, 2*time.Second, timers.durations[0])
}

func TestCopyBullet(t *testing.T) {
	writer := &memoryWriter{}
	c, _ := newTestCopier(writer)

	c.CopyBullet([]string{"first", "second"}, 1)

	assert.Equal(t, []string{"second"}, writer.writes)
	key, ok := c.Copied()
	assert.True(t, ok)
	assert.Equal(t, 1, key)

	c.CopyBullet([]string{"first"}, 3)
	assert.Len(t, writer.writes, 1)
}

func TestIndicatorExpires(t *testing.T) {
	c, timers := newTestCopier(&memoryWriter{})

	c.CopyBullet([]string{"a", "b"}, 0)
	timers.funcs[0]()

	_, ok := c.Copied()
	assert.False(t, ok)
}

func TestStaleResetKeepsNewerIndicator(t *testing.T) {
	c, timers := newTestCopier(&memoryWriter{})
	bullets := []string{"a", "b"}

	c.CopyBullet(bullets, 0)
	c.CopyAll(bullets)
	timers.funcs[0]()

	key, ok := c.Copied()
	assert.True(t, ok)
	assert.Equal(t, All, key)

	timers.funcs[1]()
	_, ok = c.Copied()
	assert.False(t, ok)
}

func TestCopyFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	writer := &memoryWriter{err: errors.New("no clipboard utility")}
	timers := &manualTimers{}
	c := New(writer, zap.New(core))
	c.afterFunc = timers.afterFunc

	c.CopyAll([]string{"a"})

	_, ok := c.Copied()
	assert.False(t, ok)
	assert.Empty(t, timers.funcs)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "copying to clipboard", logs.All()[0].Message)
}

func TestIndicatorExpiresWithRealTimer(t *testing.T) {
	c := New(&memoryWriter{}, nil)
	c.afterFunc = func(_ time.Duration, f func()) *time.Timer {
		return time.AfterFunc(10*time.Millisecond, f)
	}

	c.CopyBullet([]string{"a"}, 0)

	assert.Eventually(t, func() bool {
		_, ok := c.Copied()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestFormatAllEmpty(t *testing.T) {
	assert.Equal(t, "", FormatAll(nil))
}
