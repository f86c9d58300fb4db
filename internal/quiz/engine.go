// Package quiz runs one pass over a shuffled set of flashcards and scores
// typed answers.
package quiz

import (
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/models"
)

// State of an Engine.
type State int

const (
	Idle State = iota
	InProgress
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InProgress:
		return "in_progress"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// ShuffleFunc permutes n elements through swap, like rand.Shuffle.
type ShuffleFunc func(n int, swap func(i, j int))

// Question is what the player sees for the current card.
type Question struct {
	Number   int    `json:"number"`
	Total    int    `json:"total"`
	Question string `json:"question"`
	Category string `json:"category"`
}

// Result is the outcome of a finished quiz.
type Result struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// Outcome describes a submitted answer.
type Outcome struct {
	Correct  bool    `json:"correct"`
	Expected string  `json:"expected"`
	Finished bool    `json:"finished"`
	Result   *Result `json:"result,omitempty"`
}

// Engine is a single-player quiz. It is not safe for concurrent use.
type Engine struct {
	shuffle ShuffleFunc
	state   State
	cards   []models.Flashcard
	pos     int
	correct int
}

// Option configures an Engine.
type Option func(*Engine)

// WithShuffle replaces the default uniform shuffle.
func WithShuffle(fn ShuffleFunc) Option {
	return func(e *Engine) {
		e.shuffle = fn
	}
}

// NewEngine returns an idle engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{shuffle: rand.Shuffle}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current state.
func (e *Engine) State() State {
	return e.state
}

// Start shuffles a copy of cards and begins the quiz. A finished quiz may be
// restarted; a running one must be abandoned first.
func (e *Engine) Start(cards []models.Flashcard) error {
	if e.state == InProgress {
		return errors.NewQuizStateError("a quiz is already in progress")
	}
	if len(cards) == 0 {
		return errors.NewEmptyInputError("flashcards")
	}
	e.cards = slices.Clone(cards)
	e.shuffle(len(e.cards), func(i, j int) {
		e.cards[i], e.cards[j] = e.cards[j], e.cards[i]
	})
	e.pos = 0
	e.correct = 0
	e.state = InProgress
	return nil
}

// Current returns the question awaiting an answer.
func (e *Engine) Current() (Question, error) {
	if e.state != InProgress {
		return Question{}, errors.NewQuizStateError("no quiz in progress")
	}
	c := e.cards[e.pos]
	return Question{
		Number:   e.pos + 1,
		Total:    len(e.cards),
		Question: c.Question,
		Category: c.Category,
	}, nil
}

// Submit scores the answer to the current question and advances.
func (e *Engine) Submit(answer string) (Outcome, error) {
	if e.state != InProgress {
		return Outcome{}, errors.NewQuizStateError("no quiz in progress")
	}
	expected := e.cards[e.pos].Answer
	out := Outcome{Correct: CheckAnswer(answer, expected), Expected: expected}
	if out.Correct {
		e.correct++
	}
	e.pos++
	if e.pos == len(e.cards) {
		e.state = Finished
		res := e.result()
		out.Finished = true
		out.Result = &res
	}
	return out, nil
}

func (e *Engine) result() Result {
	return Result{Score: e.correct, Total: len(e.cards)}
}

// Result returns the score of a finished quiz.
func (e *Engine) Result() (Result, error) {
	if e.state != Finished {
		return Result{}, errors.NewQuizStateError("quiz is not finished")
	}
	return e.result(), nil
}

// Abandon drops any quiz and returns to Idle.
func (e *Engine) Abandon() {
	e.state = Idle
	e.cards = nil
	e.pos = 0
	e.correct = 0
}

// CheckAnswer compares answers ignoring case and surrounding whitespace.
func CheckAnswer(submitted, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(expected))
}
