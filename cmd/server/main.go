package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/carterisland/portal-auth/activity"
	"github.com/carterisland/portal-auth/auth"
	"github.com/carterisland/portal-auth/cache"
	"github.com/carterisland/portal-auth/internal/config"
	"github.com/carterisland/portal-auth/migrations"
	"github.com/carterisland/portal-auth/server"
	"github.com/carterisland/portal-auth/sessions"
	"github.com/carterisland/portal-auth/token"
	"github.com/carterisland/portal-auth/users"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	if !c.JWTSecretFromEnv() {
		log.Printf("WARNING: JWT_SECRET not set, using fallback signing secret\n")
	}

	db, err := openDatabase(c.GetDatabaseURL())
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	cacheService, err := cache.New(cache.Options{
		URL:      c.GetRedisURL(),
		Host:     c.GetRedisHost(),
		Port:     c.GetRedisPort(),
		Password: c.GetRedisPassword(),
		DB:       c.GetRedisDB(),
	})
	if err != nil {
		return fmt.Errorf("cache.New: %w", err)
	}
	defer cacheService.Close() //nolint:errcheck
	if !cacheService.Enabled() {
		log.Printf("Cache not configured, identity resolution will hit the database\n")
	}

	sessionRepo := sessions.NewPostgresRepository(db)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweepExpiredSessions(sweepCtx, sessionRepo)

	authService, err := auth.NewService(
		auth.Repos{
			Users:    users.NewPostgresRepository(db),
			Sessions: sessionRepo,
		},
		token.NewCodec(c.GetJWTSecret()),
		cacheService,
		activity.NewRecorder(activity.NewPostgresRepository(db)),
	)
	if err != nil {
		return fmt.Errorf("auth.NewService: %w", err)
	}

	handler, err := server.New(c, authService, cacheService, db)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler}
	go listenAndServe(httpServer) //nolint:errcheck
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func openDatabase(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db.PingContext: %w", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("goose.SetDialect: %w", err)
	}
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("goose.UpContext: %w", err)
	}

	return db, nil
}

// Expired session rows are only removed on the owner's next login, so
// accounts that never log in again would leak rows without a sweep.
func sweepExpiredSessions(ctx context.Context, repo sessions.Repo) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.Printf("Session sweep failed: %v\n", err)
				continue
			}
			if removed > 0 {
				log.Printf("Session sweep removed %d expired sessions\n", removed)
			}
		}
	}
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
