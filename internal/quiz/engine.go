package quiz

import (
	"context"
	"net/http"
	"time"

	"github.com/Pavlentiyys/digitalFest/internal/errors"
	"github.com/Pavlentiyys/digitalFest/internal/gateway"
	"github.com/Pavlentiyys/digitalFest/internal/logger"
	"github.com/Pavlentiyys/digitalFest/internal/models"
	"github.com/Pavlentiyys/digitalFest/internal/rewards"
)

// State is the quiz lifecycle state.
type State int

const (
	NotStarted State = iota
	Loading
	LoadFailed
	InProgress
	Submitting
	Completed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Loading:
		return "loading"
	case LoadFailed:
		return "load_failed"
	case InProgress:
		return "in_progress"
	case Submitting:
		return "submitting"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Limit is the wall-clock time budget for one attempt.
const Limit = 20 * time.Minute

// IdentityProvider supplies the external account id for authenticated calls.
type IdentityProvider interface {
	TelegramID() string
}

// Engine drives one quiz attempt: question pagination, answer selection, the
// countdown with one-shot auto-submission, and client-side scoring of the
// server's correctness ratio. It models the single UI event loop of the app
// and is not safe for concurrent use.
type Engine struct {
	gw    gateway.ClientInterface
	ids   IdentityProvider
	now   func() time.Time
	limit time.Duration
	log   *logger.Logger

	state         State
	questions     []models.Question
	index         int
	selected      map[string]string
	startTime     time.Time
	autoSubmitted bool
	claimed       bool
	result        *Result
}

// Result is the immutable terminal state of a completed attempt. Score is
// nil when the server's ratio string did not parse; the attempt still
// completes, but without a numeric breakdown no reward can be offered.
type Result struct {
	Message string
	Score   *Score
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock injects a clock for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLimit overrides the attempt time budget.
func WithLimit(limit time.Duration) Option {
	return func(e *Engine) { e.limit = limit }
}

// NewEngine creates an Engine in the NotStarted state.
func NewEngine(gw gateway.ClientInterface, ids IdentityProvider, opts ...Option) *Engine {
	e := &Engine{
		gw:       gw,
		ids:      ids,
		now:      time.Now,
		limit:    Limit,
		selected: make(map[string]string),
		log:      logger.Default().WithPrefix("quiz"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current lifecycle state.
func (e *Engine) State() State { return e.state }

// Questions returns the loaded question sequence.
func (e *Engine) Questions() []models.Question { return e.questions }

// Index returns the current question index.
func (e *Engine) Index() int { return e.index }

// Result returns the terminal result, or nil before completion.
func (e *Engine) Result() *Result { return e.result }

// Start fetches the questions and enters InProgress. It is also the retry
// path out of LoadFailed. The timer starts on the first successful entry
// into InProgress and keeps running across reload retries.
func (e *Engine) Start(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("quiz")

	if e.state != NotStarted && e.state != LoadFailed {
		return nil
	}

	id := e.ids.TelegramID()
	if id == "" {
		log.Warn("cannot start quiz without an identity")
		return errors.NewMissingIdentity()
	}

	e.state = Loading
	log.Info("loading questions")

	res, err := e.gw.Do(ctx, http.MethodGet, "/quiz/questions", nil, gateway.AuthHeaders(id, false))
	if err != nil {
		log.Error("failed to load questions: %v", err)
		e.state = LoadFailed
		return err
	}

	var questions []models.Question
	if !res.Decode(&questions) {
		log.Error("questions response is not a list")
		e.state = LoadFailed
		return errors.NewInvalidQuestionFormat()
	}
	if len(questions) == 0 {
		log.Warn("no questions available")
		e.state = LoadFailed
		return errors.NewInvalidQuestionFormat()
	}

	e.questions = questions
	e.index = 0
	e.selected = make(map[string]string)
	e.state = InProgress
	if e.startTime.IsZero() {
		e.startTime = e.now()
	}
	log.Info("quiz started: %d questions", len(questions))
	return nil
}

// Current returns the question at the cursor.
func (e *Engine) Current() (models.Question, bool) {
	if e.state != InProgress || e.index >= len(e.questions) {
		return models.Question{}, false
	}
	return e.questions[e.index], true
}

// Selected returns the chosen answer id for the current question.
func (e *Engine) Selected() (string, bool) {
	q, ok := e.Current()
	if !ok {
		return "", false
	}
	answerID, ok := e.selected[q.ID]
	return answerID, ok
}

// Select records an answer for the current question, replacing any prior
// choice. Selecting is always allowed while the quiz is in progress.
func (e *Engine) Select(answerID string) error {
	q, ok := e.Current()
	if !ok {
		return errors.NewValidationError("state", "no current question")
	}
	for _, a := range q.Answers {
		if a.ID == answerID {
			e.selected[q.ID] = answerID
			return nil
		}
	}
	return errors.NewValidationError("answerId", "not an answer of the current question")
}

// IsLast reports whether the cursor is on the final question.
func (e *Engine) IsLast() bool {
	return len(e.questions) > 0 && e.index == len(e.questions)-1
}

// Next advances the cursor. It is a no-op unless the current question has a
// selection, and a no-op on the last question, which submits instead.
func (e *Engine) Next() {
	q, ok := e.Current()
	if !ok {
		return
	}
	if _, answered := e.selected[q.ID]; !answered {
		return
	}
	if !e.IsLast() {
		e.index++
	}
}

// Prev moves the cursor back, clamped at the first question. It is never
// blocked by selection state.
func (e *Engine) Prev() {
	if e.index > 0 {
		e.index--
	}
}

// Elapsed returns time spent since the quiz body was first shown.
func (e *Engine) Elapsed() time.Duration {
	if e.startTime.IsZero() {
		return 0
	}
	return e.now().Sub(e.startTime)
}

// Remaining returns the time left before auto-submission, floored at zero.
func (e *Engine) Remaining() time.Duration {
	remaining := e.limit - e.Elapsed()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Tick drives the countdown. Once elapsed time reaches the limit it fires a
// single automatic submission with whatever answers are selected; the
// one-shot guard stays set even if that submission fails, so a timeout can
// never submit twice on its own.
func (e *Engine) Tick(ctx context.Context) {
	if e.state != InProgress || e.result != nil || e.autoSubmitted {
		return
	}
	if e.startTime.IsZero() || e.Elapsed() < e.limit {
		return
	}
	e.autoSubmitted = true
	e.log.Info("time limit reached, auto-submitting")
	if err := e.Submit(ctx); err != nil {
		e.log.Error("auto-submit failed: %v", err)
	}
}

type checkRequest struct {
	Answers []models.AnswerSubmission `json:"answers"`
}

type checkResponse struct {
	Results string `json:"results"`
}

// Submit sends the answered questions for checking. Unanswered questions
// are omitted from the payload, not sent as nulls. On failure the engine
// stays InProgress with selections and elapsed time intact so the user can
// retry; on success the attempt is terminal.
func (e *Engine) Submit(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("quiz")

	if e.state != InProgress {
		return errors.NewValidationError("state", "quiz is not in progress")
	}

	id := e.ids.TelegramID()
	if id == "" {
		return errors.NewMissingIdentity()
	}

	payload := checkRequest{Answers: e.answeredSubmissions()}
	elapsed := e.Elapsed()
	e.state = Submitting
	log.Info("submitting %d answers after %s", len(payload.Answers), elapsed.Round(time.Second))

	res, err := e.gw.Do(ctx, http.MethodPost, "/quiz/check-test", payload, gateway.AuthHeaders(id, false))
	if err != nil {
		log.Error("submission failed: %v", err)
		e.state = InProgress
		return err
	}

	var resp checkResponse
	res.Decode(&resp)

	result := &Result{Message: "Quiz submitted!"}
	if correct, total, ok := ParseRatio(resp.Results); ok {
		score := ComputeScore(correct, total, elapsed, e.limit)
		result.Message = "Check complete"
		result.Score = &score
		log.Info("result: %d/%d, final score %d", correct, total, score.FinalScore)
	} else {
		log.Warn("unrecognized results format %q, completing without a breakdown", resp.Results)
	}

	e.state = Completed
	e.result = result
	return nil
}

// answeredSubmissions builds the payload entries in question order,
// skipping questions with no selection.
func (e *Engine) answeredSubmissions() []models.AnswerSubmission {
	answers := make([]models.AnswerSubmission, 0, len(e.selected))
	for _, q := range e.questions {
		if answerID, ok := e.selected[q.ID]; ok {
			answers = append(answers, models.AnswerSubmission{QuestionID: q.ID, AnswerID: answerID})
		}
	}
	return answers
}

// CanClaim reports whether the completed attempt still has an unclaimed
// reward. Attempts without a numeric breakdown have nothing to claim.
func (e *Engine) CanClaim() bool {
	return e.state == Completed && !e.claimed && e.result != nil && e.result.Score != nil
}

// ClaimReward claims the quiz completion reward worth the final score.
// The claim is one-shot: once it succeeds (or the ledger reports the flag
// as already set) it is never offered again for this attempt.
func (e *Engine) ClaimReward(ctx context.Context, ledger *rewards.Ledger) (*rewards.Result, error) {
	if !e.CanClaim() {
		return nil, errors.NewValidationError("state", "no claimable reward")
	}
	res, err := ledger.Claim(ctx, models.FeatureQuiz, e.result.Score.FinalScore)
	if err != nil {
		return nil, err
	}
	e.claimed = true
	return res, nil
}
