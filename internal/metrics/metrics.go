package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one server instance.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	QuizzesStarted  prometheus.Counter
	QuizzesFinished prometheus.Counter
	AnswersTotal    *prometheus.CounterVec
	QuizScoreRatio  prometheus.Histogram
	ActiveSessions  prometheus.GaugeFunc
}

// New registers every collector on a fresh registry. activeSessions may be
// nil.
func New(activeSessions func() float64) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
		QuizzesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flashstudy_quizzes_started_total",
			Help: "Quizzes started",
		}),
		QuizzesFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flashstudy_quizzes_finished_total",
			Help: "Quizzes answered to the last card",
		}),
		AnswersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flashstudy_answers_total",
				Help: "Quiz answers by correctness",
			},
			[]string{"correct"},
		),
		QuizScoreRatio: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "flashstudy_quiz_score_ratio",
			Help:    "Score divided by total of finished quizzes",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestCounter,
		m.RequestDuration,
		m.QuizzesStarted,
		m.QuizzesFinished,
		m.AnswersTotal,
		m.QuizScoreRatio,
	)
	if activeSessions != nil {
		m.ActiveSessions = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "flashstudy_active_sessions",
			Help: "Logged-in sessions",
		}, activeSessions)
		reg.MustRegister(m.ActiveSessions)
	}
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveAnswer counts one quiz answer.
func (m *Metrics) ObserveAnswer(correct bool) {
	m.AnswersTotal.WithLabelValues(strconv.FormatBool(correct)).Inc()
}

// ObserveQuizFinished records a finished quiz.
func (m *Metrics) ObserveQuizFinished(score, total int) {
	m.QuizzesFinished.Inc()
	if total > 0 {
		m.QuizScoreRatio.Observe(float64(score) / float64(total))
	}
}

// Middleware records request counts and latency labelled by route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				endpoint = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.RequestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}
