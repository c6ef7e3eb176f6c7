package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bookshelf/internal/book"
	"bookshelf/internal/catalog"
	"bookshelf/internal/config"
	"bookshelf/internal/httpx"
	"bookshelf/internal/platform/googlebooks"
	"bookshelf/internal/session"
	"bookshelf/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	kv := mustOpenStore(ctx, cfg)
	defer kv.Close()

	client := googlebooks.NewClient(googlebooks.Options{
		BaseURL:   cfg.VolumesBaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RemoteTimeout,
		RPS:       cfg.RemoteRPS,
	})

	handler, err := newServer(ctx, cfg, kv, client)
	if err != nil {
		log.Fatalf("init server: %v", err)
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting server on %s store=%s", cfg.Addr, cfg.StoreDriver)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
	log.Println("server stopped")
}

// newServer wires the session gate, catalog and book services over kv and
// returns the full middleware-wrapped handler.
func newServer(ctx context.Context, cfg config.Config, kv store.KV, client catalog.VolumeSearcher) (http.Handler, error) {
	records := store.NewRecords(kv)

	gate, err := session.NewGate(ctx, records)
	if err != nil {
		return nil, err
	}
	log.Printf("session restored mode=%s", gate.Current().Mode)

	books := book.NewService(records)
	resolver := catalog.NewResolver(records, books, client, catalog.Config{
		SearchTerm: cfg.SearchTerm,
		MaxResults: cfg.MaxResults,
	})

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := kv.Ping(ctx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	session.NewHTTPHandler(gate).Register(router)
	catalog.NewHTTPHandler(resolver, books, gate).Register(router)

	rateLimiter := httpx.NewRateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)

	var h http.Handler = router
	h = rateLimiter.Middleware(h)
	h = httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes)(h)
	h = httpx.CORSMiddleware(cfg.AllowedOrigins)(h)
	h = httpx.SecurityHeadersMiddleware(cfg.EnableHSTS)(h)
	h = httpx.RecoveryMiddleware(h)
	h = httpx.AccessLogMiddleware(func() string { return string(gate.Current().Mode) })(h)
	h = httpx.RequestIDMiddleware(h)
	return h, nil
}

func mustOpenStore(ctx context.Context, cfg config.Config) store.KV {
	openCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	kv, err := store.Open(openCtx, cfg.StoreDriver, cfg.StoreDSN())
	if err != nil {
		log.Fatalf("cannot open store driver=%s dsn=%s: %v", cfg.StoreDriver, redactDSN(cfg.StoreDSN()), err)
	}
	log.Printf("store connection OK driver=%s", cfg.StoreDriver)
	return kv
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
