package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/amazin/bookstore/internal/application/catalog"
	"github.com/amazin/bookstore/internal/domain"
	"github.com/amazin/bookstore/internal/observability"
)

//go:generate mockgen -source internal/httpapi/httpapi.go -destination=internal/httpapi/httpapi_mock_test.go -package=httpapi

type CatalogService interface {
	List(ctx context.Context) ([]domain.Book, error)
	GetByISBNWithStats(ctx context.Context, isbn string) (*domain.Book, catalog.LookupStats, error)
}

type CheckoutService interface {
	Checkout(ctx context.Context, userID string, lines []domain.CartLine) (*domain.Order, []domain.Book, error)
}

type RecommendService interface {
	Recommend(ctx context.Context, count int) ([]domain.Book, error)
}

type OrderService interface {
	ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

type Server struct {
	catalog        CatalogService
	checkout       CheckoutService
	recommend      RecommendService
	orders         OrderService
	recommendLimit int

	router  chi.Router
	logger  *zap.Logger
	metrics observability.Metrics
}

func New(catalogSvc CatalogService, checkoutSvc CheckoutService, recommendSvc RecommendService, orderSvc OrderService, recommendLimit int, logger *zap.Logger, metrics observability.Metrics) *Server {
	s := &Server{
		catalog:        catalogSvc,
		checkout:       checkoutSvc,
		recommend:      recommendSvc,
		orders:         orderSvc,
		recommendLimit: recommendLimit,
		logger:         logger,
		metrics:        metrics,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(ServerTimingApp(s.metrics))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/books", s.listBooks)
		r.Get("/books/recommended", s.recommendedBooks)
		r.Get("/books/{isbn}", s.getBook)
		r.Post("/cart/checkout", s.checkoutCart)
		r.Get("/orders", s.listOrders)
	})

	s.router = r
}

func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.catalog.List(r.Context())
	if err != nil {
		http.Error(w, "service error", http.StatusInternalServerError)
		return
	}
	if books == nil {
		books = []domain.Book{}
	}
	writeJSON(w, books)
}

func (s *Server) getBook(w http.ResponseWriter, r *http.Request) {
	isbn := chi.URLParam(r, "isbn")
	if isbn == "" {
		http.Error(w, "isbn required", http.StatusBadRequest)
		return
	}

	book, st, err := s.catalog.GetByISBNWithStats(r.Context(), isbn)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "book not found: "+isbn, http.StatusNotFound)
			return
		}
		http.Error(w, "service error", http.StatusInternalServerError)
		return
	}

	observability.AppendServerTiming(w, "cache", st.CacheMs, "")
	observability.AppendServerTiming(w, "db", st.DBMs, "")
	observability.AppendServerTiming(w, "source", 0, string(st.Source))
	w.Header().Set("X-Source", string(st.Source))
	observability.SetIfPos(w, "X-Cache-Time", st.CacheMs)
	observability.SetIfPos(w, "X-DB-Time", st.DBMs)

	writeJSON(w, book)
}

type checkoutRequest struct {
	Items []domain.CartLine `json:"items"`
}

type checkoutResponse struct {
	Order *domain.Order `json:"order"`
	Books []domain.Book `json:"books"`
}

func (s *Server) checkoutCart(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var req checkoutRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		s.logger.Error("Error while decoding JSON", zap.Error(err))
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	order, books, err := s.checkout.Checkout(r.Context(), r.Header.Get("X-User-ID"), req.Items)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, checkoutResponse{Order: order, Books: books})
}

func (s *Server) recommendedBooks(w http.ResponseWriter, r *http.Request) {
	count := s.recommendLimit
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "count must be a positive integer", http.StatusBadRequest)
			return
		}
		count = n
	}

	books, err := s.recommend.Recommend(r.Context(), count)
	if err != nil {
		http.Error(w, "service error", http.StatusInternalServerError)
		return
	}
	if books == nil {
		books = []domain.Book{}
	}
	writeJSON(w, books)
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		http.Error(w, "user id required", http.StatusBadRequest)
		return
	}

	orders, err := s.orders.ListOrdersByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "service error", http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSON(w, orders)
}

// writeError maps the checkout error taxonomy onto statuses: validation
// and stock conflicts are 400, unknown ISBNs 404, everything else 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		invalidLine     *domain.InvalidLineError
		invalidQuantity *domain.InvalidQuantityError
		insufficient    *domain.InsufficientStockError
	)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrEmptyCart),
		errors.As(err, &invalidLine),
		errors.As(err, &invalidQuantity),
		errors.As(err, &insufficient):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "service error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	return srv.ListenAndServe()
}

func (s *Server) Handler() http.Handler { return s.router }
