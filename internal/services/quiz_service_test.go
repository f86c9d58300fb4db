package services

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/metrics"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/quiz"
	"github.com/vytor/flashstudy/internal/session"
	tu "github.com/vytor/flashstudy/internal/testutil"
	"github.com/vytor/flashstudy/internal/testutil/mocks"
)

// noShuffle keeps insertion order so answers are predictable.
func noShuffle(int, func(i, j int)) {}

type quizFixture struct {
	scores       *mocks.MockScoreRepository
	leaderboard  *mocks.MockLeaderboardRepository
	achievements *mocks.MockAchievementRepository
	metrics      *metrics.Metrics
	svc          QuizService
	sess         *session.Session
}

func newQuizFixture(t *testing.T, cards ...[2]string) *quizFixture {
	t.Helper()
	f := &quizFixture{
		scores:       &mocks.MockScoreRepository{},
		leaderboard:  &mocks.MockLeaderboardRepository{},
		achievements: &mocks.MockAchievementRepository{},
		metrics:      metrics.New(nil),
		sess:         session.NewManager(quiz.WithShuffle(noShuffle)).Open("alice"),
	}
	f.svc = NewQuizService(f.scores, f.leaderboard, f.achievements, f.metrics, fixedClock)
	for _, c := range cards {
		_, err := f.sess.Cards.Add(c[0], c[1], "")
		require.NoError(t, err)
	}
	return f
}

func TestQuizFullRunRecordsResult(t *testing.T) {
	ctx := tu.Context()
	f := newQuizFixture(t, [2]string{"2+2", "4"}, [2]string{"Capital of France", "Paris"})

	f.scores.On("Append", mock.Anything, "alice", models.ScoreRecord{Score: 1, Total: 2, Date: "2024-05-10"}).Return(nil)
	f.leaderboard.On("Upsert", mock.Anything, "alice", 1).Return(nil)
	f.achievements.On("Insert", mock.Anything, models.Achievement{Username: "alice", Score: 1, Date: "2024-05-10"}).Return(int64(1), nil)

	q, err := f.svc.Start(ctx, f.sess, QuizOptions{})
	require.NoError(t, err)
	assert.Equal(t, quiz.Question{Number: 1, Total: 2, Question: "2+2", Category: models.DefaultCategory}, q)

	out, err := f.svc.Answer(ctx, f.sess, " 4 ")
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.False(t, out.Finished)

	cur, err := f.svc.Current(ctx, f.sess)
	require.NoError(t, err)
	assert.Equal(t, 2, cur.Number)

	out, err = f.svc.Answer(ctx, f.sess, "London")
	require.NoError(t, err)
	assert.False(t, out.Correct)
	assert.Equal(t, "Paris", out.Expected)
	assert.True(t, out.Finished)
	require.NotNil(t, out.Result)
	assert.Equal(t, quiz.Result{Score: 1, Total: 2}, *out.Result)

	f.scores.AssertExpectations(t)
	f.leaderboard.AssertExpectations(t)
	f.achievements.AssertExpectations(t)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.QuizzesStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.QuizzesFinished))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AnswersTotal.WithLabelValues("false")))

	_, err = f.svc.Answer(ctx, f.sess, "extra")
	assert.ErrorIs(t, err, errors.ErrQuizState)
}

func TestQuizStartEmpty(t *testing.T) {
	f := newQuizFixture(t)
	_, err := f.svc.Start(tu.Context(), f.sess, QuizOptions{})
	assert.ErrorIs(t, err, errors.ErrEmptyInput)
	assert.Equal(t, quiz.Idle, f.sess.Quiz.State())
}

func TestQuizStartByCategoryAndDue(t *testing.T) {
	ctx := tu.Context()
	f := newQuizFixture(t)
	_, err := f.sess.Cards.Add("q1", "a1", "Math")
	require.NoError(t, err)
	_, err = f.sess.Cards.Add("q2", "a2", "Geo")
	require.NoError(t, err)
	_, err = f.sess.Cards.Add("q3", "a3", "math")
	require.NoError(t, err)

	future := models.NewDate(fixedNow.AddDate(0, 0, 5))
	c, err := f.sess.Cards.Get(2)
	require.NoError(t, err)
	c.ReviewDate = &future
	require.NoError(t, f.sess.Cards.Set(2, c))

	q, err := f.svc.Start(ctx, f.sess, QuizOptions{Category: "MATH"})
	require.NoError(t, err)
	assert.Equal(t, 2, q.Total)
	f.svc.Abandon(ctx, f.sess)

	q, err = f.svc.Start(ctx, f.sess, QuizOptions{Category: "math", DueOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, q.Total)
	assert.Equal(t, "q1", q.Question)
	f.svc.Abandon(ctx, f.sess)

	_, err = f.svc.Start(ctx, f.sess, QuizOptions{Category: "History"})
	assert.ErrorIs(t, err, errors.ErrEmptyInput)
}

func TestQuizStartWhileRunning(t *testing.T) {
	ctx := tu.Context()
	f := newQuizFixture(t, [2]string{"q", "a"})

	_, err := f.svc.Start(ctx, f.sess, QuizOptions{})
	require.NoError(t, err)
	_, err = f.svc.Start(ctx, f.sess, QuizOptions{})
	assert.ErrorIs(t, err, errors.ErrQuizState)

	f.svc.Abandon(ctx, f.sess)
	_, err = f.svc.Current(ctx, f.sess)
	assert.ErrorIs(t, err, errors.ErrQuizState)
}

func TestQuizSideEffectFailuresAreNotFatal(t *testing.T) {
	ctx := tu.Context()
	f := newQuizFixture(t, [2]string{"q", "a"})

	f.scores.On("Append", mock.Anything, "alice", mock.Anything).Return(nil)
	f.leaderboard.On("Upsert", mock.Anything, "alice", 1).Return(assert.AnError)
	f.achievements.On("Insert", mock.Anything, mock.Anything).Return(int64(0), assert.AnError)

	_, err := f.svc.Start(ctx, f.sess, QuizOptions{})
	require.NoError(t, err)
	out, err := f.svc.Answer(ctx, f.sess, "A")
	require.NoError(t, err)
	assert.True(t, out.Finished)
}

func TestQuizScoreHistoryFailureIsReported(t *testing.T) {
	ctx := tu.Context()
	f := newQuizFixture(t, [2]string{"q", "a"})
	record := models.ScoreRecord{Score: 1, Total: 1, Date: "2024-05-10"}

	f.scores.On("Append", mock.Anything, "alice", record).Return(errors.NewIOFailureError("write score history", assert.AnError)).Once()

	_, err := f.svc.Start(ctx, f.sess, QuizOptions{})
	require.NoError(t, err)
	out, err := f.svc.Answer(ctx, f.sess, "a")
	assert.ErrorIs(t, err, errors.ErrIOFailure)
	assert.True(t, out.Finished)
	f.leaderboard.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)

	res, err := f.svc.Result(ctx, f.sess)
	require.NoError(t, err)
	assert.Equal(t, quiz.Result{Score: 1, Total: 1}, res)
	require.NotNil(t, f.sess.Unrecorded)

	f.scores.On("Append", mock.Anything, "alice", record).Return(nil).Once()
	f.leaderboard.On("Upsert", mock.Anything, "alice", 1).Return(nil)
	f.achievements.On("Insert", mock.Anything, mock.Anything).Return(int64(1), nil)

	res, err = f.svc.Record(ctx, f.sess)
	require.NoError(t, err)
	assert.Equal(t, quiz.Result{Score: 1, Total: 1}, res)
	assert.Nil(t, f.sess.Unrecorded)
	f.scores.AssertExpectations(t)
	f.leaderboard.AssertExpectations(t)

	_, err = f.svc.Record(ctx, f.sess)
	assert.ErrorIs(t, err, errors.ErrQuizState)
}

func TestQuizStartRetriesUnrecordedResult(t *testing.T) {
	ctx := tu.Context()
	f := newQuizFixture(t, [2]string{"q", "a"})

	f.scores.On("Append", mock.Anything, "alice", mock.Anything).Return(errors.NewIOFailureError("write score history", assert.AnError))

	_, err := f.svc.Start(ctx, f.sess, QuizOptions{})
	require.NoError(t, err)
	_, err = f.svc.Answer(ctx, f.sess, "a")
	require.ErrorIs(t, err, errors.ErrIOFailure)

	_, err = f.svc.Start(ctx, f.sess, QuizOptions{})
	assert.ErrorIs(t, err, errors.ErrIOFailure)
	assert.Equal(t, quiz.Finished, f.sess.Quiz.State())
	f.scores.AssertNumberOfCalls(t, "Append", 2)

	f.svc.Abandon(ctx, f.sess)
	assert.Nil(t, f.sess.Unrecorded)
	_, err = f.svc.Start(ctx, f.sess, QuizOptions{})
	assert.NoError(t, err)
	f.scores.AssertNumberOfCalls(t, "Append", 2)
}
