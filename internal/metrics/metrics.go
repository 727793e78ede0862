package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "selfquiz"

// Recorder holds the service's Prometheus collectors. A nil *Recorder is
// valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	quizzesStarted   *prometheus.CounterVec
	quizzesSubmitted *prometheus.CounterVec
	answersGraded    *prometheus.CounterVec
	quizUnderfilled  prometheus.Counter
	quizScore        prometheus.Histogram
	httpRequests     *prometheus.CounterVec
}

// New creates a Recorder on its own registry, including Go runtime and
// process collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		quizzesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quizzes_started_total",
			Help:      "Quizzes composed, by mode.",
		}, []string{"mode"}),
		quizzesSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quizzes_submitted_total",
			Help:      "Quizzes graded and saved, by mode.",
		}, []string{"mode"}),
		answersGraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_graded_total",
			Help:      "Graded answers, by result.",
		}, []string{"result"}),
		quizUnderfilled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quiz_underfilled_total",
			Help:      "Quizzes that returned fewer questions than requested.",
		}),
		quizScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quiz_score",
			Help:      "Distribution of quiz scores (0-100).",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method and status code.",
		}, []string{"method", "status"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.quizzesStarted,
		r.quizzesSubmitted,
		r.answersGraded,
		r.quizUnderfilled,
		r.quizScore,
		r.httpRequests,
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) QuizStarted(mode string, requested, returned int) {
	if r == nil {
		return
	}
	r.quizzesStarted.WithLabelValues(mode).Inc()
	if returned < requested {
		r.quizUnderfilled.Inc()
	}
}

func (r *Recorder) QuizSubmitted(mode string, correct, total int, score float64) {
	if r == nil {
		return
	}
	r.quizzesSubmitted.WithLabelValues(mode).Inc()
	r.answersGraded.WithLabelValues("correct").Add(float64(correct))
	r.answersGraded.WithLabelValues("incorrect").Add(float64(total - correct))
	r.quizScore.Observe(score)
}

func (r *Recorder) HTTPRequest(method string, status int) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}
