package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"relief/pkg/types"

	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const (
	contextKeyCaller      contextKey = "caller"
	contextKeyAccessToken contextKey = "access_token"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

func (s *Service) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		status := strconv.Itoa(rw.statusCode)
		s.metrics.requests.WithLabelValues(r.Method, status).Inc()
		s.metrics.duration.WithLabelValues(r.Method).Observe(time.Since(started).Seconds())
	})
}

// CORS answers preflight requests and sets the allow headers for configured origins.
func (s *Service) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
			w.Header().Set("Access-Control-Max-Age", "86400")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Service) originAllowed(origin string) bool {
	for _, allowed := range s.config.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
		if strings.HasPrefix(allowed, "*.") && strings.HasSuffix(origin, allowed[1:]) {
			return true
		}
	}
	return false
}

// StripTrailingSlash lets every route answer with and without a trailing slash.
func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path != "/" && strings.HasSuffix(path, "/") {
			r2 := r.Clone(r.Context())
			r2.URL.Path = strings.TrimRight(path, "/")
			if r2.URL.Path == "" {
				r2.URL.Path = "/"
			}
			r2.URL.RawPath = ""
			r = r2
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAuth resolves the caller from a bearer token or the session cookie.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, ok := s.accessToken(r)
		if !ok {
			s.writeError(w, r, types.Unauthenticated("authentication credentials were not provided"))
			return
		}

		claims, err := s.backends.Verifier.Verify(ctx, token)
		if err != nil {
			if types.KindOf(err) != types.KindUnauthenticated {
				s.logger.WithError(err).Error("failed to verify access token")
			}
			s.writeError(w, r, types.Unauthenticated("invalid or expired token"))
			return
		}

		caller, err := s.backends.Directory.Caller(ctx, claims.Subject)
		if err != nil {
			if errors.Is(err, types.ErrAccountNotFound) {
				s.writeError(w, r, types.Unauthenticated("account not found"))
				return
			}
			s.writeError(w, r, err)
			return
		}

		s.logger.WithField("account_id", caller.AccountID).Debug("authenticated caller")

		ctx = context.WithValue(ctx, contextKeyCaller, caller)
		ctx = context.WithValue(ctx, contextKeyAccessToken, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// accessToken reads "Authorization: Bearer <t>" or "Token <t>", then falls back to the cookie.
func (s *Service) accessToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found {
			return "", false
		}
		switch strings.ToLower(scheme) {
		case "bearer", "token":
			token = strings.TrimSpace(token)
			return token, token != ""
		}
		return "", false
	}

	cookie, err := r.Cookie(s.config.CookieName)
	if err != nil {
		return "", false
	}

	var token string
	if err := s.cookie.Decode(s.config.CookieName, cookie.Value, &token); err != nil {
		s.logger.WithError(err).Debug("failed to decode session cookie")
		return "", false
	}

	return token, token != ""
}

func callerFromContext(ctx context.Context) *types.Caller {
	c, _ := ctx.Value(contextKeyCaller).(*types.Caller)
	return c
}

func accessTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(contextKeyAccessToken).(string)
	return token
}
