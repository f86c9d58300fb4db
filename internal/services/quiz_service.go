package services

import (
	"context"

	"github.com/vytor/flashstudy/internal/cardstore"
	"github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/flashcard"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/metrics"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/quiz"
	"github.com/vytor/flashstudy/internal/repository"
	"github.com/vytor/flashstudy/internal/session"
)

// QuizOptions selects the cards a quiz runs over.
type QuizOptions struct {
	Category string `json:"category"`
	DueOnly  bool   `json:"due_only"`
}

// QuizService runs the quiz of a session and records finished quizzes
type QuizService interface {
	Start(ctx context.Context, sess *session.Session, opts QuizOptions) (quiz.Question, error)
	Current(ctx context.Context, sess *session.Session) (quiz.Question, error)
	Answer(ctx context.Context, sess *session.Session, answer string) (quiz.Outcome, error)
	// Result returns the score of the finished quiz.
	Result(ctx context.Context, sess *session.Session) (quiz.Result, error)
	// Record retries writing a finished result whose recording failed.
	Record(ctx context.Context, sess *session.Session) (quiz.Result, error)
	Abandon(ctx context.Context, sess *session.Session)
}

type quizService struct {
	scoreRepo       repository.ScoreRepository
	leaderboardRepo repository.LeaderboardRepository
	achievementRepo repository.AchievementRepository
	metrics         *metrics.Metrics
	now             Clock
}

// NewQuizService creates a new QuizService. m may be nil.
func NewQuizService(
	scoreRepo repository.ScoreRepository,
	leaderboardRepo repository.LeaderboardRepository,
	achievementRepo repository.AchievementRepository,
	m *metrics.Metrics,
	now Clock,
) QuizService {
	return &quizService{
		scoreRepo:       scoreRepo,
		leaderboardRepo: leaderboardRepo,
		achievementRepo: achievementRepo,
		metrics:         m,
		now:             orNow(now),
	}
}

func (s *quizService) Start(ctx context.Context, sess *session.Session, opts QuizOptions) (quiz.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz")
	log.Debug("starting quiz: username=%s, category=%q, due_only=%t", sess.Username, opts.Category, opts.DueOnly)

	if err := s.flush(ctx, sess); err != nil {
		log.Debug("quiz not started, previous result unrecorded: %v", err)
		return quiz.Question{}, err
	}

	var q quiz.Question
	err := sess.Do(func(sess *session.Session) error {
		seq := sess.Cards.All()
		if opts.Category != "" {
			seq = sess.Cards.FilterByCategory(opts.Category)
		}
		if opts.DueOnly {
			seq = flashcard.DueCards(seq, s.now())
		}
		if err := sess.Quiz.Start(cardstore.Collect(seq)); err != nil {
			return err
		}
		var err error
		q, err = sess.Quiz.Current()
		return err
	})
	if err != nil {
		log.Debug("quiz not started: %v", err)
		return quiz.Question{}, appError(err)
	}

	if s.metrics != nil {
		s.metrics.QuizzesStarted.Inc()
	}
	log.Info("quiz started: username=%s, cards=%d", sess.Username, q.Total)
	return q, nil
}

func (s *quizService) Current(ctx context.Context, sess *session.Session) (quiz.Question, error) {
	logger.FromContext(ctx).WithPrefix("quiz").Debug("current question: username=%s", sess.Username)

	var q quiz.Question
	err := sess.Do(func(sess *session.Session) error {
		var err error
		q, err = sess.Quiz.Current()
		return err
	})
	if err != nil {
		return quiz.Question{}, appError(err)
	}
	return q, nil
}

func (s *quizService) Answer(ctx context.Context, sess *session.Session, answer string) (quiz.Outcome, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz")
	log.Debug("answer submitted: username=%s", sess.Username)

	var out quiz.Outcome
	err := sess.Do(func(sess *session.Session) error {
		var err error
		out, err = sess.Quiz.Submit(answer)
		if err == nil && out.Finished && out.Result != nil {
			res := *out.Result
			sess.Unrecorded = &res
		}
		return err
	})
	if err != nil {
		return quiz.Outcome{}, appError(err)
	}

	if s.metrics != nil {
		s.metrics.ObserveAnswer(out.Correct)
	}
	if out.Finished {
		if err := s.flush(ctx, sess); err != nil {
			return out, err
		}
	}
	return out, nil
}

func (s *quizService) Result(ctx context.Context, sess *session.Session) (quiz.Result, error) {
	logger.FromContext(ctx).WithPrefix("quiz").Debug("quiz result: username=%s", sess.Username)

	var res quiz.Result
	err := sess.Do(func(sess *session.Session) error {
		var err error
		res, err = sess.Quiz.Result()
		return err
	})
	if err != nil {
		return quiz.Result{}, appError(err)
	}
	return res, nil
}

func (s *quizService) Record(ctx context.Context, sess *session.Session) (quiz.Result, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz")
	log.Debug("retrying result recording: username=%s", sess.Username)

	var res quiz.Result
	err := sess.Do(func(sess *session.Session) error {
		if sess.Unrecorded == nil {
			return errors.NewQuizStateError("no unrecorded quiz result")
		}
		res = *sess.Unrecorded
		return s.recordPending(ctx, sess)
	})
	if err != nil {
		return quiz.Result{}, appError(err)
	}
	return res, nil
}

// flush records the session's unrecorded result, if any.
func (s *quizService) flush(ctx context.Context, sess *session.Session) error {
	return sess.Do(func(sess *session.Session) error {
		return s.recordPending(ctx, sess)
	})
}

// recordPending must be called with the session locked. The result stays
// pending when the score history write fails.
func (s *quizService) recordPending(ctx context.Context, sess *session.Session) error {
	if sess.Unrecorded == nil {
		return nil
	}
	if err := s.recordResult(ctx, sess.Username, *sess.Unrecorded); err != nil {
		return err
	}
	sess.Unrecorded = nil
	return nil
}

// recordResult appends the score history and updates the leaderboard and
// achievements. Only the score history write is fatal.
func (s *quizService) recordResult(ctx context.Context, username string, res quiz.Result) error {
	log := logger.FromContext(ctx).WithPrefix("quiz").WithFields(map[string]any{
		"username": username,
		"score":    res.Score,
		"total":    res.Total,
	})
	date := models.NewDate(s.now()).String()

	if err := s.scoreRepo.Append(ctx, username, models.ScoreRecord{Score: res.Score, Total: res.Total, Date: date}); err != nil {
		log.Error("failed to record score: %v", err)
		return appError(err)
	}

	if s.leaderboardRepo != nil {
		if err := s.leaderboardRepo.Upsert(ctx, username, res.Score); err != nil {
			log.Warn("failed to update leaderboard: %v", err)
		}
	}
	if s.achievementRepo != nil {
		if _, err := s.achievementRepo.Insert(ctx, models.Achievement{Username: username, Score: res.Score, Date: date}); err != nil {
			log.Warn("failed to record achievement: %v", err)
		}
	}
	if s.metrics != nil {
		s.metrics.ObserveQuizFinished(res.Score, res.Total)
	}

	log.Info("quiz finished")
	return nil
}

func (s *quizService) Abandon(ctx context.Context, sess *session.Session) {
	logger.FromContext(ctx).WithPrefix("quiz").Debug("abandoning quiz: username=%s", sess.Username)
	_ = sess.Do(func(sess *session.Session) error {
		if sess.Unrecorded != nil {
			logger.FromContext(ctx).WithPrefix("quiz").Warn("discarding unrecorded result: username=%s, score=%d", sess.Username, sess.Unrecorded.Score)
		}
		sess.Quiz.Abandon()
		sess.Unrecorded = nil
		return nil
	})
}
