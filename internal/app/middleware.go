package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/unrolled/secure"

	"github.com/plataforma-sst/accessgate/internal/observability"
	"github.com/plataforma-sst/accessgate/internal/session"
	"github.com/plataforma-sst/accessgate/internal/shared"
)

// MiddlewareConfig aggregates dependencies shared by the middleware stack.
type MiddlewareConfig struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *session.Manager
	Metrics        *observability.Metrics
}

// MiddlewareStack installs the gateway middleware chain.
func MiddlewareStack(cfg MiddlewareConfig) []func(http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		FeaturePolicy:         "none",
		ContentSecurityPolicy: "default-src 'self'",
		SSLRedirect:           cfg.Config != nil && cfg.Config.IsProduction(),
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	})

	cookieName := "sst_device_id"
	cookieTTL := 720 * time.Hour
	if cfg.Config != nil {
		if cfg.Config.DeviceCookieName != "" {
			cookieName = cfg.Config.DeviceCookieName
		}
		if cfg.Config.SessionTTL > 0 {
			cookieTTL = cfg.Config.SessionTTL
		}
	}

	sessionMiddleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			deviceID := ""
			if cookie, err := r.Cookie(cookieName); err == nil {
				deviceID = cookie.Value
			}
			if deviceID == "" {
				deviceID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    deviceID,
					Path:     "/",
					MaxAge:   int(cookieTTL.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Config != nil && cfg.Config.IsProduction(),
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx = shared.ContextWithDeviceID(ctx, deviceID)

			sess, err := cfg.SessionManager.Initialize(ctx, deviceID)
			if err != nil {
				cfg.Logger.Error("failed to load session", slog.Any("error", err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if sess != nil {
				ctx = shared.ContextWithPrincipal(ctx, sess.Principal)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	timeout := 30 * time.Second
	if cfg.Config != nil && cfg.Config.AppRequestTimeout > 0 {
		timeout = cfg.Config.AppRequestTimeout
	}

	middlewares := []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		sessionMiddleware,
		middleware.Recoverer,
		middleware.Timeout(timeout),
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := secureMiddleware.Process(w, r); err != nil {
					cfg.Logger.Warn("secure headers blocked request", slog.Any("error", err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				next.ServeHTTP(w, r)
			})
		},
		middleware.Compress(5),
		httprate.Limit(60, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)),
	}
	if cfg.Metrics != nil {
		middlewares = append(middlewares, func(next http.Handler) http.Handler {
			return cfg.Metrics.Middleware(next)
		})
	}
	return middlewares
}
