package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/janisto/huma-contacts/internal/http/health"
	"github.com/janisto/huma-contacts/internal/http/v1/routes"
	"github.com/janisto/huma-contacts/internal/platform/auth"
	"github.com/janisto/huma-contacts/internal/platform/config"
	"github.com/janisto/huma-contacts/internal/platform/firebase"
	applog "github.com/janisto/huma-contacts/internal/platform/logging"
	appmiddleware "github.com/janisto/huma-contacts/internal/platform/middleware"
	"github.com/janisto/huma-contacts/internal/platform/respond"
	"github.com/janisto/huma-contacts/internal/platform/timeutil"
	contactsvc "github.com/janisto/huma-contacts/internal/service/contact"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

const docsPath = "/api-docs"

// deps are the collaborators the HTTP surface is built from.
type deps struct {
	cfg      config.Config
	verifier auth.Verifier
	service  *contactsvc.Service
	checks   []health.Check
	close    func() error
}

func main() {
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		applog.LogFatal(context.Background(), "config load failed", err)
	}

	d, err := bootstrap(context.Background(), cfg)
	if err != nil {
		applog.LogFatal(context.Background(), "bootstrap failed", err, zap.String("store", cfg.Store))
	}
	defer func() {
		if err := d.close(); err != nil {
			applog.LogError(context.Background(), "client close error", err)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(d),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		// Saves may fetch a remote image before persisting.
		WriteTimeout:   cfg.ImageTimeout + 10*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 64 << 10, // 64 KB
	}

	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(context.Background(), "server listening",
			zap.String("addr", srv.Addr), zap.String("store", cfg.Store))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		applog.LogError(context.Background(), "listen failed", err, zap.String("addr", srv.Addr))
		os.Exit(1)
	case <-stop:
		applog.LogInfo(context.Background(), "shutdown signal received")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		applog.LogError(ctx, "server shutdown error", err)
	}
	applog.LogInfo(context.Background(), "server exited")
}

// bootstrap selects the contact store and token verifier for cfg.
func bootstrap(ctx context.Context, cfg config.Config) (*deps, error) {
	d := &deps{cfg: cfg, close: func() error { return nil }}

	var store contactsvc.Gateway = contactsvc.NewMemoryStore()
	if cfg.ProjectID == "" {
		applog.LogWarn(ctx, "no Firebase project configured, accepting any bearer token as the local test user")
		d.verifier = &auth.StaticVerifier{User: auth.TestUser()}
	} else {
		clients, err := firebase.InitializeClients(ctx, firebase.Config{
			ProjectID:       cfg.ProjectID,
			CredentialsFile: cfg.CredentialsFile,
			Firestore:       cfg.Store == config.StoreFirestore,
		})
		if err != nil {
			return nil, err
		}
		d.close = clients.Close
		d.verifier = auth.NewFirebaseVerifier(clients.Auth)

		if clients.Firestore != nil {
			fs := contactsvc.NewFirestoreStore(clients.Firestore)
			d.checks = append(d.checks, fs.Ping)
			store = fs
		}
	}

	var opts []contactsvc.ServiceOption
	if cfg.StrictLookup {
		opts = append(opts, contactsvc.WithStrictLookup())
	}
	images := contactsvc.NewHTTPImageLoader(
		contactsvc.NewImageHTTPClient(cfg.ImageTimeout),
		contactsvc.WithMaxBytes(cfg.ImageMaxBytes),
	)
	d.service = contactsvc.NewService(store, images, opts...)
	return d, nil
}

func newRouter(d *deps) http.Handler {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	// Base middleware stack
	router.Use(
		appmiddleware.Security(docsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(d.cfg.AllowedOrigins...),
		appmiddleware.RequestID(),
		// RealIP extracts client IP from X-Real-IP or X-Forwarded-For headers.
		// SECURITY: Only use behind a trusted reverse proxy (e.g., Cloud Run, nginx).
		chimiddleware.RealIP,
		// Room for a data URI thumbnail alongside the contact fields.
		chimiddleware.RequestSize(2<<20),
		applog.RequestLogger(d.cfg.ProjectID),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	router.Get("/health", health.Handler(d.checks...))

	cfg := huma.DefaultConfig("Contacts API", Version)
	cfg.DocsPath = docsPath
	cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
			Description:  "Firebase ID token",
		},
	}
	api := humachi.New(router, cfg)

	// Add CBOR content type to OpenAPI requests and responses
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation, addCBORContent)

	routes.Register(api, d.verifier, d.service, timeutil.NewDateFormat())
	return router
}

func addCBORContent(_ *huma.OpenAPI, op *huma.Operation) {
	if op.RequestBody != nil && op.RequestBody.Content != nil {
		if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
			op.RequestBody.Content["application/cbor"] = jsonContent
		}
	}
	for _, resp := range op.Responses {
		if resp.Content == nil {
			continue
		}
		if jsonContent, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = jsonContent
		}
	}
}
