package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/pokedex/pokedex-go/internal/config"
	"github.com/pokedex/pokedex-go/internal/handler"
	"github.com/pokedex/pokedex-go/internal/middleware"
	"github.com/pokedex/pokedex-go/internal/model"
	"github.com/pokedex/pokedex-go/internal/repository"
	"github.com/pokedex/pokedex-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := repository.Migrate(context.Background(), db); err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	pokemonRepo := repository.NewPokemonRepository(db)
	trainerRepo := repository.NewTrainerRepository(db)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	pokemonService := service.NewPokemonService(pokemonRepo)
	trainerService := service.NewTrainerService(trainerRepo, pokemonRepo)

	authHandler := handler.NewAuthHandler(authService)
	pokemonHandler := handler.NewPokemonHandler(pokemonService)
	trainerHandler := handler.NewTrainerHandler(trainerService)

	authenticate := middleware.Authenticate(cfg.JWTSecret, userRepo)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/pkmn/types", pokemonHandler.HandleTypes)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/auth/checkUser", authHandler.HandleCheckUser)

		r.Post("/pkmn", pokemonHandler.HandleCreate)
		r.Get("/pkmn", pokemonHandler.HandleGetOne)
		r.Get("/pkmn/search", pokemonHandler.HandleSearch)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Put("/pkmn", pokemonHandler.HandleUpdate)
			r.Delete("/pkmn", pokemonHandler.HandleDelete)
			r.Post("/pkmn/region", pokemonHandler.HandleUpsertRegion)
			r.Delete("/pkmn/region", pokemonHandler.HandleRemoveRegion)
			r.Get("/pkmn/admin", pokemonHandler.HandleAdminCheck)
		})

		r.Post("/trainer", trainerHandler.HandleCreate)
		r.Get("/trainer", trainerHandler.HandleGet)
		r.Put("/trainer", trainerHandler.HandleUpdate)
		r.Delete("/trainer", trainerHandler.HandleDelete)
		r.Post("/trainer/mark", trainerHandler.HandleMark)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
