package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vytor/plantquiz/internal/errors"
	"github.com/vytor/plantquiz/internal/logger"
	"github.com/vytor/plantquiz/internal/models"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

type contextKey string

const playerContextKey contextKey = "player"

// playerClaims are the claims of a player bearer token. The subject is the
// numeric player id.
type playerClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
}

// playerFromContext returns the caller, anonymous when no token was sent.
func playerFromContext(ctx context.Context) models.Player {
	if p, ok := ctx.Value(playerContextKey).(models.Player); ok {
		return p
	}
	return models.Player{}
}

// authMiddleware identifies the player from an HS256 bearer token. Requests
// without a token play anonymously; a token that does not verify is rejected.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromContext(r.Context())
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			handleError(w, r, errors.NewUnauthorizedError("expected a bearer token"))
			return
		}
		player, err := s.parsePlayerToken(raw)
		if err != nil {
			log.Debug("rejected token: %v", err)
			handleError(w, r, errors.NewUnauthorizedError("invalid token"))
			return
		}

		log = log.WithField("player_id", player.ID)
		ctx := context.WithValue(r.Context(), playerContextKey, player)
		ctx = logger.NewContext(ctx, log)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) parsePlayerToken(raw string) (models.Player, error) {
	if len(s.JWTSecret) == 0 {
		return models.Player{}, jwt.ErrTokenUnverifiable
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	claims := &playerClaims{}
	token, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return s.JWTSecret, nil
	})
	if err != nil {
		return models.Player{}, err
	}
	if !token.Valid {
		return models.Player{}, jwt.ErrTokenInvalidClaims
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return models.Player{}, jwt.ErrTokenInvalidSubject
	}
	return models.Player{ID: id, Username: claims.Username}, nil
}

// generateRequestID creates a random request ID.
func generateRequestID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// loggingMiddleware logs HTTP requests with timing, status codes, and request IDs.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}

		log := logger.Default().WithFields(map[string]any{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		if r.RemoteAddr != "" {
			log = log.WithField("remote_addr", r.RemoteAddr)
		}

		ctx := logger.NewContext(r.Context(), log)
		r = r.WithContext(ctx)
		w.Header().Set("X-Request-ID", requestID)

		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		log.Debug("request started")
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		log = log.WithFields(map[string]any{
			"status":      wrapped.status,
			"size":        wrapped.size,
			"duration_ms": duration.Milliseconds(),
		})

		if wrapped.status >= 500 {
			log.Error("request completed with server error")
		} else if wrapped.status >= 400 {
			log.Warn("request completed with client error")
		} else {
			log.Info("request completed")
		}
	})
}

// recoveryMiddleware recovers from panics and logs them.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log := logger.FromContext(r.Context())
				log.Error("panic recovered: %v", rec)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}
