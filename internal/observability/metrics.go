package observability

type Metrics interface {
	ObserveLookup(source string, cacheMs, dbMs float64)
	ObserveCheckout(durMs float64, ok bool)
	ObserveRecommend(durMs float64, size int)
	ObserveHTTP(method, route string, status int, durMs float64)
	ObservePublish(durMs float64, ok bool)
	IncCacheHit()
	IncCacheMiss()
}

type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) ObserveLookup(string, float64, float64)   {}
func (Noop) ObserveCheckout(float64, bool)            {}
func (Noop) ObserveRecommend(float64, int)            {}
func (Noop) ObserveHTTP(string, string, int, float64) {}
func (Noop) ObservePublish(float64, bool)             {}
func (Noop) IncCacheHit()                             {}
func (Noop) IncCacheMiss()                            {}
