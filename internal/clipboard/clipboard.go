// Package clipboard copies generated bullets to the system clipboard and
// remembers for a short while what was copied last.
package clipboard

import (
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

const (
	// All is the indicator key used when every bullet was copied at once.
	All = -1
	// FeedbackDuration is how long the copied indicator stays set.
	FeedbackDuration = 2 * time.Second

	bulletPrefix = "• "
)

// Writer puts text on a clipboard.
type Writer interface {
	WriteAll(text string) error
}

// SystemWriter writes to the operating system clipboard.
type SystemWriter struct{}

func (SystemWriter) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Copier copies bullets and keeps a transient "copied" indicator.
type Copier struct {
	writer Writer
	logger *zap.Logger

	// afterFunc schedules the indicator reset. Replaced in tests.
	afterFunc func(d time.Duration, f func()) *time.Timer

	mu     sync.Mutex
	key    int
	set    bool
	serial uint64
	timer  *time.Timer
}

func New(writer Writer, logger *zap.Logger) *Copier {
	if writer == nil {
		writer = SystemWriter{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Copier{writer: writer, logger: logger, afterFunc: time.AfterFunc}
}

// CopyBullet copies the bullet at index i. Failures are logged only.
func (c *Copier) CopyBullet(bullets []string, i int) {
	if i < 0 || i >= len(bullets) {
		c.logger.Warn("copying bullet", zap.Int("index", i), zap.String("reason", "out of range"))
		return
	}
	c.copy(bullets[i], i)
}

// CopyAll copies every bullet, one per line, each prefixed with a bullet sign.
func (c *Copier) CopyAll(bullets []string) {
	c.copy(FormatAll(bullets), All)
}

// Copied returns the key of the last successful copy while its indicator is still set.
func (c *Copier) Copied() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key, c.set
}

// FormatAll renders bullets the way CopyAll puts them on the clipboard.
func FormatAll(bullets []string) string {
	lines := make([]string, 0, len(bullets))
	for _, b := range bullets {
		lines = append(lines, bulletPrefix+b)
	}
	return strings.Join(lines, "\n")
}

func (c *Copier) copy(text string, key int) {
	if err := c.writer.WriteAll(text); err != nil {
		c.logger.Error("copying to clipboard", zap.Int("key", key), zap.Error(err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.serial++
	serial := c.serial
	c.key = key
	c.set = true
	c.timer = c.afterFunc(FeedbackDuration, func() { c.reset(serial) })

	c.logger.Debug("copied to clipboard", zap.Int("key", key), zap.Int("length", len(text)))
}

// reset clears the indicator unless a newer copy happened since it was scheduled.
func (c *Copier) reset(serial uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.serial != serial {
		return
	}
	c.set = false
	c.key = 0
	c.timer = nil
}
