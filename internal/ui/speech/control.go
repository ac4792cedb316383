// Package speech implements the microphone toggle.
package speech

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/heartmarshall/wordlookup/internal/domain"
)

// MsgUnsupported is shown when no speech capability is present.
const MsgUnsupported = "Speech recognition is not supported on this system."

// Capability captures one utterance and returns its text.
type Capability interface {
	Available() bool
	Listen(ctx context.Context) (string, error)
}

// View receives speech input and the recording indicator.
type View interface {
	Notice(msg string)
	SetWord(word string)
	ShowRecording(on bool)
}

// Control is a two-state machine: Idle and Recording.
type Control struct {
	capability Capability
	view       View
	log        *slog.Logger

	mu      sync.Mutex
	state   domain.RecordingState
	session uint64
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewControl creates an idle Control.
func NewControl(capability Capability, view View, logger *slog.Logger) *Control {
	return &Control{
		capability: capability,
		view:       view,
		log:        logger.With("component", "speech"),
	}
}

// State returns the current recording state.
func (c *Control) State() domain.RecordingState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Toggle starts listening when idle and stops the capture when recording.
func (c *Control) Toggle(ctx context.Context) {
	if c.capability == nil || !c.capability.Available() {
		c.view.Notice(MsgUnsupported)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == domain.Recording {
		c.cancel()
		c.finishLocked()
		c.log.DebugContext(ctx, "recording stopped by user")
		return
	}

	listenCtx, cancel := context.WithCancel(ctx)
	c.session++
	c.state = domain.Recording
	c.cancel = cancel
	c.view.ShowRecording(true)

	session := c.session
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		c.listen(listenCtx, session)
	}()
}

func (c *Control) listen(ctx context.Context, session uint64) {
	text, err := c.capability.Listen(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != session || c.state != domain.Recording {
		return
	}
	switch {
	case err != nil:
		c.log.WarnContext(ctx, "speech recognition failed", slog.String("error", err.Error()))
	case strings.TrimSpace(text) != "":
		c.view.SetWord(strings.TrimSpace(text))
	}
	c.finishLocked()
}

func (c *Control) finishLocked() {
	c.session++
	c.state = domain.Idle
	c.cancel = nil
	c.view.ShowRecording(false)
}

// Wait blocks until every listening goroutine has returned.
func (c *Control) Wait() {
	c.wg.Wait()
}
