// Package uploader drives a single résumé submission and keeps the state a
// rendering surface observes.
package uploader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spigell/cv-matcher/internal/candidate"
	"github.com/spigell/cv-matcher/internal/logger"
	"github.com/spigell/cv-matcher/internal/matching"
	"github.com/spigell/cv-matcher/internal/webhook"
	"go.uber.org/zap"
)

const (
	defaultTickInterval = 300 * time.Millisecond
	defaultProgressStep = 10
	defaultProgressCap  = 90
	defaultResetDelay   = time.Second

	errorPrefix = "an error occurred: "
)

// ErrBusy is returned when a submission is already in flight.
var ErrBusy = errors.New("a submission is already in progress")

// Submitter sends the document to the matching service and returns the
// decoded JSON payload.
type Submitter interface {
	Submit(ctx context.Context, file *candidate.File, submissionID string) (any, error)
}

type Controller struct {
	submitter Submitter
	logger    *zap.Logger

	mu         sync.Mutex
	state      State
	generation uint64
	resetTimer *time.Timer

	// seq numbers every transition under mu; delivered is the last one
	// handed to onChange, so a late snapshot never overwrites a newer one.
	seq       uint64
	notifyMu  sync.Mutex
	delivered uint64
	onChange  func(State)

	// Webhook names the matching endpoint in submission logs.
	Webhook string

	TickInterval time.Duration
	ProgressStep int
	ProgressCap  int
	// ResetDelay is how long the final progress stays visible. Zero or less
	// resets it right away.
	ResetDelay time.Duration
	NewID      func() string
}

func New(submitter Submitter, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Controller{
		submitter:    submitter,
		logger:       logger,
		TickInterval: defaultTickInterval,
		ProgressStep: defaultProgressStep,
		ProgressCap:  defaultProgressCap,
		ResetDelay:   defaultResetDelay,
		NewID:        uuid.NewString,
	}
}

// OnChange registers fn to be called with a copy of the state after every
// transition. Calls are serialized, fn must not call SelectFile or Submit.
func (c *Controller) OnChange(fn func(State)) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	c.onChange = fn
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SelectFile validates file and makes it the current candidate. A rejected
// file is reported in the state and returned.
func (c *Controller) SelectFile(file *candidate.File) error {
	if err := candidate.Validate(file); err != nil {
		c.logger.Info("file rejected", zap.Error(err))
		c.apply(func(s State) State { return s.rejected(err) })
		return err
	}

	c.logger.Debug("file selected",
		zap.String("name", file.Name),
		zap.Int64("size", file.Size),
		zap.Int("pages", file.Pages),
	)
	c.apply(func(s State) State { return s.selected(file) })

	return nil
}

// Submit uploads the current candidate and blocks until the response is
// normalized. An empty result is not an error, it is reported as
// State.Notice and Submit returns no matches.
func (c *Controller) Submit(ctx context.Context) ([]*matching.Match, error) {
	c.mu.Lock()
	if c.state.Busy {
		c.mu.Unlock()
		return nil, ErrBusy
	}

	file := c.state.Candidate
	if file == nil {
		c.state = c.state.missing(candidate.ErrMissing)
		st, seq := c.commit()
		c.mu.Unlock()
		c.notify(st, seq)
		return nil, candidate.ErrMissing
	}

	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}

	c.generation++
	gen := c.generation
	id := c.NewID()
	c.state = c.state.started(id)
	st, seq := c.commit()
	c.mu.Unlock()
	c.notify(st, seq)

	log := logger.WithFields(c.logger, logger.SubmissionFields(c.Webhook, file.Name, id)...)
	log.Info("submitting cv")

	progress := startProgress(c.TickInterval, c.ProgressStep, c.ProgressCap, func(p int) {
		c.applyIfCurrent(gen, func(s State) State { return s.advanced(p) })
	})

	payload, err := c.submitter.Submit(ctx, file, id)
	progress.Stop()

	var results []*matching.Match
	if err == nil {
		var (
			shape string
			items []any
		)
		if shape, items, err = matching.Detect(payload); err == nil {
			log.Debug("response shape detected", zap.String("shape", shape))
			results, err = matching.NormalizeItems(items)
		}
	}

	switch {
	case err == nil:
		log.Info("matches received", zap.Int("count", len(results)))
		c.apply(func(s State) State { return s.succeeded(results) })
	case errors.Is(err, matching.ErrNoMatches):
		log.Info("no matches received")
		c.apply(func(s State) State { return s.emptied(err.Error()) })
		err = nil
	default:
		kind := Classify(err)
		log.Warn("submission failed", zap.Stringer("kind", kind), zap.Error(err))
		c.apply(func(s State) State { return s.failed(kind, errorPrefix+err.Error()) })
		err = fmt.Errorf("submit %s: %w", file.Name, err)
	}

	c.scheduleReset(gen)

	return results, err
}

// Close stops a pending progress reset.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
}

// Classify maps an error returned by Submit or SelectFile to its Kind.
func Classify(err error) Kind {
	var serverErr *webhook.ServerError

	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, candidate.ErrMissing),
		errors.Is(err, candidate.ErrNotPDF),
		errors.Is(err, candidate.ErrTooLarge):
		return KindValidation
	case errors.As(err, &serverErr):
		return KindServer
	case errors.Is(err, webhook.ErrNotJSON),
		errors.Is(err, webhook.ErrMalformedJSON),
		errors.Is(err, matching.ErrBadShape):
		return KindShape
	default:
		return KindTransport
	}
}

func (c *Controller) scheduleReset(gen uint64) {
	if c.ResetDelay <= 0 {
		c.applyIfCurrent(gen, State.reset)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}

	c.resetTimer = time.AfterFunc(c.ResetDelay, func() {
		c.applyIfCurrent(gen, State.reset)
	})
}

func (c *Controller) apply(transition func(State) State) {
	c.mu.Lock()
	c.state = transition(c.state)
	st, seq := c.commit()
	c.mu.Unlock()

	c.notify(st, seq)
}

// applyIfCurrent drops the transition when a newer submission has started.
func (c *Controller) applyIfCurrent(gen uint64, transition func(State) State) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.state = transition(c.state)
	st, seq := c.commit()
	c.mu.Unlock()

	c.notify(st, seq)
}

// commit numbers the current state. Must be called with mu held.
func (c *Controller) commit() (State, uint64) {
	c.seq++
	return c.state, c.seq
}

func (c *Controller) notify(st State, seq uint64) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	if seq <= c.delivered {
		return
	}
	c.delivered = seq

	if c.onChange != nil {
		c.onChange(st)
	}
}
