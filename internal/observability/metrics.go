package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QuestionsGenerated counts generated questions by source ("ai" or "fallback").
	QuestionsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interview",
		Name:      "questions_generated_total",
		Help:      "Total number of interview questions generated",
	}, []string{"source"})

	// AnswersGraded counts graded answers by source ("ai" or "fallback").
	AnswersGraded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interview",
		Name:      "answers_graded_total",
		Help:      "Total number of answers graded",
	}, []string{"source"})

	// SummariesGenerated counts final summaries by source ("ai" or "fallback").
	SummariesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interview",
		Name:      "summaries_generated_total",
		Help:      "Total number of final summaries generated",
	}, []string{"source"})

	// InterviewsCompleted counts interviews that reached the terminal state.
	InterviewsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "interview",
		Name:      "interviews_completed_total",
		Help:      "Total number of completed interviews",
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interview",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"method", "path", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "interview",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// HTTPMiddleware records request counts and latencies for every route.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		status := strconv.Itoa(rec.status)
		if rec.status == 0 {
			status = "200"
		}
		httpRequests.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpLatency.WithLabelValues(r.Method, r.URL.Path, status).Observe(time.Since(start).Seconds())
	})
}
