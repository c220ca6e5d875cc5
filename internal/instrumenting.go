package internal

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/net/context"

	"github.com/derWhity/eventcal/internal/models"
)

const metricsNamespace = "eventcal"

// instrumentingEventService records request counts, latencies and result sizes of the event service
type instrumentingEventService struct {
	next        EventService
	reqTotal    *prometheus.CounterVec
	reqDuration *prometheus.HistogramVec
	resultSize  prometheus.Histogram
}

// NewInstrumentingEventService wraps an event service with Prometheus metrics registered at the given registerer
func NewInstrumentingEventService(next EventService, reg prometheus.Registerer) EventService {
	s := &instrumentingEventService{
		next: next,
		reqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "event_service",
			Name:      "requests_total",
			Help:      "Number of event service calls",
		}, []string{"method", "result"}),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "event_service",
			Name:      "request_duration_seconds",
			Help:      "Time spent in event service calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		resultSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "event_service",
			Name:      "search_results",
			Help:      "Number of events returned by a search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
	}
	reg.MustRegister(s.reqTotal, s.reqDuration, s.resultSize)
	return s
}

func (s *instrumentingEventService) observe(method string, begin time.Time, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	s.reqTotal.WithLabelValues(method, result).Inc()
	s.reqDuration.WithLabelValues(method).Observe(time.Since(begin).Seconds())
}

func (s *instrumentingEventService) Search(ctx context.Context, req SearchRequest) (list []models.Event, err error) {
	defer func(begin time.Time) {
		s.observe("search", begin, err)
		if err == nil {
			s.resultSize.Observe(float64(len(list)))
		}
	}(time.Now())
	return s.next.Search(ctx, req)
}

func (s *instrumentingEventService) Get(ctx context.Context, id uint) (ev *models.Event, err error) {
	defer func(begin time.Time) { s.observe("get", begin, err) }(time.Now())
	return s.next.Get(ctx, id)
}

func (s *instrumentingEventService) Create(ctx context.Context, event *models.Event) (ev *models.Event, err error) {
	defer func(begin time.Time) { s.observe("create", begin, err) }(time.Now())
	return s.next.Create(ctx, event)
}

func (s *instrumentingEventService) Update(ctx context.Context, event *models.Event) (ev *models.Event, err error) {
	defer func(begin time.Time) { s.observe("update", begin, err) }(time.Now())
	return s.next.Update(ctx, event)
}

func (s *instrumentingEventService) Delete(ctx context.Context, id uint) (err error) {
	defer func(begin time.Time) { s.observe("delete", begin, err) }(time.Now())
	return s.next.Delete(ctx, id)
}

func (s *instrumentingEventService) SetTags(ctx context.Context, id uint, tags []string) (ev *models.Event, err error) {
	defer func(begin time.Time) { s.observe("set_tags", begin, err) }(time.Now())
	return s.next.SetTags(ctx, id, tags)
}
