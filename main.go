package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"tripwise/auth"
	"tripwise/config"
	"tripwise/db"
	"tripwise/destinations"
	"tripwise/feedback"
	"tripwise/generation"
	"tripwise/itinerary"
	"tripwise/livefeed"
	"tripwise/logging"
	"tripwise/middleware"
	"tripwise/mq"
	"tripwise/ratelim"
	"tripwise/rdx"
	"tripwise/routes"
	"tripwise/utils"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// XSS, content sniffing, framing
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		// HSTS (must be on HTTPS)
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// health reports whether MongoDB and Redis answer a ping, plus the
// generator breaker state when generation is enabled.
func health(database *db.Database, conn *redis.Client, gen itinerary.Generator) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := utils.M{"mongo": "ok", "redis": "ok"}
		healthy := true
		if err := database.Client.Ping(ctx, nil); err != nil {
			status["mongo"] = err.Error()
			healthy = false
		}
		if err := conn.Ping(ctx).Err(); err != nil {
			status["redis"] = err.Error()
			healthy = false
		}
		if c, ok := gen.(*generation.Client); ok {
			status["generator"] = c.State().String()
		} else {
			status["generator"] = "disabled"
		}
		if !healthy {
			utils.RespondWithJSON(w, http.StatusServiceUnavailable, utils.Response{Success: false, Message: "degraded", Data: status})
			return
		}
		utils.RespondOK(w, status)
	}
}

func seedCatalog(ctx context.Context, path string, dests *db.DestinationStore, cache *rdx.CachedDestinations) {
	ds, err := db.LoadSeedFile(path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", path).Msg("destination seed rejected")
	}
	n, err := db.SeedDestinations(ctx, dests, ds)
	if err != nil {
		logging.Fatal().Err(err).Int("written", n).Msg("destination seed failed")
	}
	if err := cache.Invalidate(ctx); err != nil {
		logging.Warn().Err(err).Msg("could not invalidate destination cache after seeding")
	}
	logging.Info().Int("count", n).Str("path", path).Msg("destination catalog seeded")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	database, err := db.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("mongo unavailable")
	}
	if err := database.EnsureIndexes(ctx); err != nil {
		logging.Fatal().Err(err).Msg("failed to create indexes")
	}

	conn, err := rdx.Connect(ctx, rdx.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		logging.Fatal().Err(err).Msg("redis unavailable")
	}

	mongoDests := db.NewDestinationStore(database)
	dests := rdx.NewCachedDestinations(mongoDests, conn, cfg.Cache.TTL)
	users := db.NewUserStore(database)
	prefs := db.NewPreferenceStore(database)
	its := db.NewItineraryStore(database)
	fbs := db.NewFeedbackStore(database)

	if cfg.Mongo.SeedFile != "" {
		seedCatalog(ctx, cfg.Mongo.SeedFile, mongoDests, dests)
	}

	var gen itinerary.Generator = generation.Disabled{}
	if cfg.Generator.URL != "" {
		gen = generation.NewClient(cfg.Generator.URL, cfg.Generator.Timeout)
		logging.Info().Str("url", cfg.Generator.URL).Msg("itinerary generator enabled")
	} else {
		logging.Warn().Msg("GENERATOR_URL not set; generation and optimization disabled")
	}

	guard := middleware.NewAuth(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	limiter := ratelim.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 10*time.Minute)
	stopJanitor := make(chan struct{})
	go limiter.Janitor(stopJanitor)

	hub := livefeed.NewHub()
	go hub.Run()
	go func() {
		if err := mq.Listen(ctx, conn, hub.Forward); err != nil {
			logging.Error().Err(err).Msg("itinerary event listener stopped")
		}
	}()

	router := httprouter.New()
	router.GET("/health", health(database, conn, gen))
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())
	routes.RoutesWrapper(router, &routes.Deps{
		Auth:         auth.NewHandler(auth.NewService(users, prefs), guard),
		Destinations: destinations.NewHandler(destinations.NewService(dests, users, prefs)),
		Itineraries:  itinerary.NewHandler(itinerary.NewService(its, users, gen), mq.NewEmitter(conn), cfg.Export.ShareBaseURL),
		Feedback:     feedback.NewHandler(feedback.NewService(fbs, its, dests)),
		Hub:          hub,
		Guard:        guard,
		Limiter:      limiter,
	})

	// apply middleware: request id → security headers → CORS → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.Origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
	}).Handler(router)

	handler := middleware.RequestID(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		logging.Info().Msg("stopping live feed hub")
		hub.Stop()
		close(stopJanitor)
		cancel()
	})

	go func() {
		logging.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logging.Info().Msg("shutdown signal received; shutting down gracefully")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := conn.Close(); err != nil {
		logging.Warn().Err(err).Msg("redis close")
	}
	if err := database.Close(shutdownCtx); err != nil {
		logging.Warn().Err(err).Msg("mongo disconnect")
	}
	logging.Info().Msg("server stopped cleanly")
}
