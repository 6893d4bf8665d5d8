// Package main starts the stub REST server used to exercise query-sites
// locally: sign-in, sign-out and the paginated sites collection.
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/atinyakov/tsadmin/internal/certgen"
	"github.com/atinyakov/tsadmin/internal/config"
	"github.com/atinyakov/tsadmin/internal/logger"
	"github.com/atinyakov/tsadmin/internal/server/handler/http"
	"github.com/atinyakov/tsadmin/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	options := config.DefaultServer()
	fs := pflag.NewFlagSet("fakeserver", pflag.ExitOnError)
	options.BindFlags(fs)
	_ = fs.Parse(os.Args[1:])
	options.ApplyEnv(fs)

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	dir, err := loadDirectory(options)
	if err != nil {
		zapLogger.Fatal("cannot load fixtures", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	siteService := service.NewSiteService(dir.Sites)
	authService := service.NewAuthService(dir, siteService)
	service.StartSessionReaper(ctx, authService, time.Minute, options.SessionTTL, zapLogger)

	authHandler := &http.AuthHandler{AuthService: authService, Log: zapLogger}
	sitesHandler := &http.SitesHandler{Sites: siteService}
	router := http.NewRouter(authHandler, sitesHandler, authService, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	zapLogger.Info("serving sites",
		zap.Int("sites", len(dir.Sites)),
		zap.Int("users", len(dir.Users)),
		zap.Int("tokens", len(dir.Tokens)),
	)

	if options.PlainHTTP {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
		err = server.ListenAndServe()
	} else {
		cert, certErr := certgen.ServerTLS(options.CertsDir, []string{"localhost", "127.0.0.1"})
		if certErr != nil {
			zapLogger.Fatal("failed to prepare TLS certificate", zap.Error(certErr))
		}
		server.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
		zapLogger.Info("starting HTTPS server",
			zap.String("addr", options.Addr),
			zap.String("ca", options.CertsDir+"/"+certgen.CACertFile),
		)
		err = server.ListenAndServeTLS("", "")
	}
	if err != nil && err != nethttp.ErrServerClosed {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

// loadDirectory builds the fixture directory from --fixtures or, without
// one, from generated sites and the --user/--pat accounts.
func loadDirectory(o *config.ServerOptions) (*service.Directory, error) {
	var dir *service.Directory
	if o.Fixtures != "" {
		d, err := service.LoadDirectory(o.Fixtures)
		if err != nil {
			return nil, err
		}
		dir = d
	} else {
		dir = &service.Directory{Sites: service.GenerateSites(o.Sites)}
	}

	users, err := config.ParsePairs(o.Users)
	if err != nil {
		return nil, err
	}
	tokens, err := config.ParsePairs(o.Tokens)
	if err != nil {
		return nil, err
	}
	if dir.Users == nil {
		dir.Users = make(map[string]string)
	}
	if dir.Tokens == nil {
		dir.Tokens = make(map[string]string)
	}
	for k, v := range users {
		dir.Users[k] = v
	}
	for k, v := range tokens {
		dir.Tokens[k] = v
	}
	return dir, nil
}
