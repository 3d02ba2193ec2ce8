package main

import (
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"usersvc/internal/audit"
	"usersvc/internal/auth"
	"usersvc/internal/core"
	"usersvc/internal/httpserver"
	"usersvc/internal/logger"
	"usersvc/internal/models"
	"usersvc/internal/store"
)

func main() {
	_ = godotenv.Load()
	lg := logger.New()
	defer lg.Sync()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		lg.Fatalw("DATABASE_URL is empty")
	}
	st, err := store.Open(dsn)
	if err != nil {
		lg.Fatalw("store open failed", "error", err)
	}
	defer st.Close()

	seedDefaults(st, lg)

	cfg := core.ConfigFromEnv()
	recorder := audit.NewRecorder(st, lg)
	defer recorder.Close()

	var sessions core.SessionStore = st
	if os.Getenv("SESSION_STORE") == "redis" {
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}
		sessions = store.NewRedisSessionStore(redis.NewClient(&redis.Options{Addr: addr}))
		lg.Infow("using redis session store", "addr", addr)
	}

	svc := httpserver.Services{
		Store:         st,
		Users:         st,
		Authenticator: core.NewAuthenticator(st, recorder, cfg),
		Sessions:      core.NewSessionManager(sessions, st, recorder, cfg),
		Resets:        core.NewResetManager(st, recorder, cfg),
		Roles:         core.NewRoleService(st, recorder),
	}
	router := httpserver.NewRouter(svc, lg)

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	lg.Infow("listening", "port", port)
	if err := srv.ListenAndServe(); err != nil {
		lg.Fatalw("server stopped", "error", err)
	}
}

func seedDefaults(st *store.Store, lg *zap.SugaredLogger) {
	st.SeedRole("Administrator")
	st.SeedRole("User")

	adminUser := os.Getenv("SEED_ADMIN_USERNAME")
	adminPass := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminUser == "" || adminPass == "" {
		return
	}
	hash, err := auth.HashPassword(adminPass)
	if err != nil {
		lg.Errorw("seed admin hash failed", "error", err)
		return
	}
	u := models.User{
		Username:     adminUser,
		Email:        adminUser + "@local",
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := st.SeedAdmin(&u, "Administrator"); err != nil {
		lg.Errorw("seed admin failed", "error", err)
		return
	}
	lg.Infow("seeded default admin", "username", adminUser)
}
