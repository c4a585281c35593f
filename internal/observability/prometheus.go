package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus exports the same observations the in-memory collector keeps,
// registered on the given registerer (pass prometheus.DefaultRegisterer in
// main, a fresh registry in tests).
type Prometheus struct {
	lookup    *prometheus.HistogramVec
	checkout  *prometheus.HistogramVec
	recommend prometheus.Histogram
	recSize   prometheus.Histogram
	http      *prometheus.HistogramVec
	publish   *prometheus.HistogramVec
	cacheHit  prometheus.Counter
	cacheMiss prometheus.Counter
}

func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		lookup: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bookstore_lookup_duration_ms",
			Help:    "Book lookup duration in milliseconds by source.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}, []string{"source"}),
		checkout: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bookstore_checkout_duration_ms",
			Help:    "Checkout duration in milliseconds.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		}, []string{"ok"}),
		recommend: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "bookstore_recommend_duration_ms",
			Help:    "Recommendation computation duration in milliseconds.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
		recSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "bookstore_recommend_size",
			Help:    "Number of books returned per recommendation request.",
			Buckets: prometheus.LinearBuckets(0, 1, 9),
		}),
		http: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bookstore_http_duration_ms",
			Help:    "HTTP request duration in milliseconds.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		}, []string{"method", "route", "status"}),
		publish: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bookstore_event_publish_duration_ms",
			Help:    "Order event publish duration in milliseconds.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		}, []string{"ok"}),
		cacheHit: f.NewCounter(prometheus.CounterOpts{
			Name: "bookstore_cache_hits_total",
			Help: "Book cache hits.",
		}),
		cacheMiss: f.NewCounter(prometheus.CounterOpts{
			Name: "bookstore_cache_misses_total",
			Help: "Book cache misses.",
		}),
	}
}

func (p *Prometheus) ObserveLookup(source string, cacheMs, dbMs float64) {
	p.lookup.WithLabelValues(source).Observe(cacheMs + dbMs)
}

func (p *Prometheus) ObserveCheckout(durMs float64, ok bool) {
	p.checkout.WithLabelValues(strconv.FormatBool(ok)).Observe(durMs)
}

func (p *Prometheus) ObserveRecommend(durMs float64, size int) {
	p.recommend.Observe(durMs)
	p.recSize.Observe(float64(size))
}

func (p *Prometheus) ObserveHTTP(method, route string, status int, durMs float64) {
	p.http.WithLabelValues(method, route, strconv.Itoa(status)).Observe(durMs)
}

func (p *Prometheus) ObservePublish(durMs float64, ok bool) {
	p.publish.WithLabelValues(strconv.FormatBool(ok)).Observe(durMs)
}

func (p *Prometheus) IncCacheHit()  { p.cacheHit.Inc() }
func (p *Prometheus) IncCacheMiss() { p.cacheMiss.Inc() }
