package app

import (
	"context"
	"sync"
	"time"

	"sorting-hat-service/internal/domain"
)

// Assigner persists a house against the user's profile.
type Assigner interface {
	Assign(ctx context.Context, user domain.User, house domain.House) (domain.Profile, error)
}

// Notifier is told about every successful assignment, before navigation.
type Notifier interface {
	HouseAssigned(ctx context.Context, result domain.SortingResult, profile domain.Profile)
}

// Navigator moves the user to the result screen.
type Navigator interface {
	ShowResult(ctx context.Context)
}

// ProgressListener hears about an assignment as soon as it starts, so
// presentation can show a loading state while the profile update runs.
type ProgressListener interface {
	AssignmentStarted(ctx context.Context, p Progress)
}

// Status is the assignment progress of a controller.
type Status int

const (
	StatusIdle Status = iota
	StatusInFlight
)

func (s Status) String() string {
	if s == StatusInFlight {
		return "in_flight"
	}
	return "idle"
}

// Progress is a snapshot of what presentation needs to render.
type Progress struct {
	Status   Status
	Err      error
	Index    int
	Total    int
	Complete bool
	Resolved domain.House
}

// QuizController sequences one quiz attempt: engine, resolver, then assignment.
// At most one assignment runs at a time; triggers arriving meanwhile get
// ErrAssignmentInFlight.
type QuizController struct {
	user     domain.User
	engine   *QuizEngine
	resolver *Resolver
	assigner Assigner
	notify   Notifier
	nav      Navigator
	now      func() time.Time

	mu       sync.Mutex
	listener ProgressListener
	inFlight bool
	lastErr  error
	resolved domain.House
}

// NewQuizController wires a controller for a single attempt.
func NewQuizController(user domain.User, engine *QuizEngine, resolver *Resolver, assigner Assigner, notify Notifier, nav Navigator) *QuizController {
	return &QuizController{
		user:     user,
		engine:   engine,
		resolver: resolver,
		assigner: assigner,
		notify:   notify,
		nav:      nav,
		now:      time.Now,
	}
}

// CurrentQuestion returns the question to render, false once the quiz is complete.
func (c *QuizController) CurrentQuestion() (domain.Question, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.CurrentQuestion()
}

// OnAssignmentStarted registers l to receive an in-flight snapshot whenever
// an assignment begins. A nil l removes the listener.
func (c *QuizController) OnAssignmentStarted(l ProgressListener) {
	c.mu.Lock()
	c.listener = l
	c.mu.Unlock()
}

// Progress returns the current observable state.
func (c *QuizController) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progressLocked()
}

func (c *QuizController) progressLocked() Progress {
	status := StatusIdle
	if c.inFlight {
		status = StatusInFlight
	}
	return Progress{
		Status:   status,
		Err:      c.lastErr,
		Index:    c.engine.Index(),
		Total:    c.engine.Total(),
		Complete: c.engine.IsComplete(),
		Resolved: c.resolved,
	}
}

// Answer records the chosen option for questionID. Answering the last question
// resolves the house and runs the assignment before returning.
func (c *QuizController) Answer(ctx context.Context, questionID, option int) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return domain.ErrAssignmentInFlight
	}
	q, ok := c.engine.CurrentQuestion()
	if !ok {
		c.mu.Unlock()
		return domain.ErrQuizComplete
	}
	if q.ID != questionID {
		c.mu.Unlock()
		return domain.ErrQuestionNotFound
	}
	if option < 0 || option >= len(q.Options) {
		c.mu.Unlock()
		return domain.ErrOptionNotFound
	}
	more, err := c.engine.SubmitAnswer(q.Options[option])
	if err != nil || more {
		c.mu.Unlock()
		return err
	}

	tally, _ := c.engine.FinalTally()
	c.resolved = c.resolver.Resolve(tally)
	house := c.resolved
	started := c.beginLocked()
	c.mu.Unlock()

	return c.assign(ctx, house, false, started)
}

// AssignRandom skips the quiz and assigns a uniformly random house.
func (c *QuizController) AssignRandom(ctx context.Context) (domain.House, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return "", domain.ErrAssignmentInFlight
	}
	house := c.resolver.ResolveUniformRandom()
	started := c.beginLocked()
	c.mu.Unlock()

	return house, c.assign(ctx, house, true, started)
}

// Retry re-submits the house the completed quiz resolved to.
func (c *QuizController) Retry(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return domain.ErrAssignmentInFlight
	}
	if c.resolved == "" {
		c.mu.Unlock()
		return domain.ErrNothingToRetry
	}
	house := c.resolved
	started := c.beginLocked()
	c.mu.Unlock()

	return c.assign(ctx, house, false, started)
}

// beginLocked marks an assignment in flight and returns the listener to tell,
// with the snapshot it should see. The caller holds c.mu.
func (c *QuizController) beginLocked() func(context.Context) {
	c.inFlight = true
	c.lastErr = nil
	l, p := c.listener, c.progressLocked()
	if l == nil {
		return func(context.Context) {}
	}
	return func(ctx context.Context) { l.AssignmentStarted(ctx, p) }
}

// assign runs the profile update. The controller stays in flight until the
// notifier and navigator have returned, so they cannot start a second one.
func (c *QuizController) assign(ctx context.Context, house domain.House, random bool, started func(context.Context)) error {
	started(ctx)
	profile, err := c.assigner.Assign(ctx, c.user, house)
	if err != nil {
		c.mu.Lock()
		c.inFlight = false
		c.lastErr = err
		c.mu.Unlock()
		return err
	}
	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	if c.notify != nil {
		c.notify.HouseAssigned(ctx, domain.SortingResult{
			UserID:     c.user.ID,
			House:      house,
			Random:     random,
			AssignedAt: c.now(),
		}, profile)
	}
	if c.nav != nil {
		c.nav.ShowResult(ctx)
	}
	return nil
}
