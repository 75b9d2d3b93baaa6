package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	api "github.com/Hammad-111/HamSync-sub000/internal/api/http"
	auth "github.com/Hammad-111/HamSync-sub000/internal/auth/middleware"
	"github.com/Hammad-111/HamSync-sub000/internal/config"
	"github.com/Hammad-111/HamSync-sub000/internal/db"
	"github.com/Hammad-111/HamSync-sub000/internal/logx"
	"github.com/Hammad-111/HamSync-sub000/internal/merit"
	"github.com/Hammad-111/HamSync-sub000/internal/results"
	syncx "github.com/Hammad-111/HamSync-sub000/internal/sync"
)

func main() {
	cfg := config.FromEnv()
	logx.UseJSON()
	if err := logx.SetLevel(cfg.LogLevel); err != nil {
		logx.Log.Fatal(err)
	}

	// --- DB ---
	var (
		dbh    *sql.DB
		events *syncx.EventRepo
		store  results.Store
	)
	if strings.EqualFold(cfg.DBDriver, "memory") {
		logx.Log.Warn("DB_DRIVER=memory: results are not persisted and login is disabled")
		store = results.NewInMemoryStore()
	} else {
		driver, err := db.ParseDriver(cfg.DBDriver)
		if err != nil {
			logx.Log.Fatal(err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		dbh, err = db.Open(ctx, driver, cfg.DBDSN)
		if err == nil {
			err = db.SeedAdmin(ctx, dbh, cfg.AdminUser, cfg.AdminPassHash)
		}
		cancel()
		if err != nil {
			logx.Log.WithError(err).Fatal("db open failed")
		}
		defer dbh.Close()
		events = syncx.NewEventRepo(dbh, cfg.SiteID)
		store = results.NewSQLStore(dbh, events)
	}

	router := api.NewRouter(api.Deps{
		Config: cfg,
		Auth:   auth.NewAuthService(cfg.AuthHMACSecret),
		Calc:   merit.New(),
		Store:  store,
		DB:     dbh,
		Events: events,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logx.Log.WithFields(map[string]any{
			"addr": cfg.HTTPAddr, "mode": cfg.Mode, "db": cfg.DBDriver,
		}).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Log.WithError(err).Error("shutdown")
	}
	logx.Log.Info("stopped")
}
