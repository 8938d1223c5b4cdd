package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"tripwise/globals"
	"tripwise/utils"
)

// JWT claims
type Claims struct {
	Username string `json:"username"`
	UserID   string `json:"userId"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid token")

// Auth signs and checks HS256 bearer tokens.
type Auth struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuth(secret string, ttl time.Duration) *Auth {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Auth{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// IssueToken returns a signed token and its expiry.
func (a *Auth) IssueToken(userID, username string) (string, time.Time, error) {
	now := a.now()
	exp := now.Add(a.ttl)
	claims := &Claims{
		Username: username,
		UserID:   userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// ValidateJWT parses a raw token, without the "Bearer " prefix.
func (a *Auth) ValidateJWT(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// bearer reads the Authorization header. Browsers cannot set headers on a
// WebSocket handshake, so upgrades may pass the token as ?token=.
func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h != "" {
		if len(h) < 8 || !strings.HasPrefix(h, "Bearer ") {
			return "", false
		}
		return h[7:], true
	}
	if websocket.IsWebSocketUpgrade(r) {
		if tok := r.URL.Query().Get("token"); tok != "" {
			return tok, true
		}
	}
	return "", false
}

func withClaims(r *http.Request, c *Claims) *http.Request {
	ctx := context.WithValue(r.Context(), globals.UserIDKey, c.UserID)
	ctx = context.WithValue(ctx, globals.UsernameKey, c.Username)
	return r.WithContext(ctx)
}

func (a *Auth) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		tokenString, ok := bearer(r)
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing or malformed token")
			return
		}
		claims, err := a.ValidateJWT(tokenString)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next(w, withClaims(r, claims), ps)
	}
}

func (a *Auth) OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if tokenString, ok := bearer(r); ok {
			if claims, err := a.ValidateJWT(tokenString); err == nil {
				r = withClaims(r, claims)
			}
		}
		// Proceed regardless of token state
		next(w, r, ps)
	}
}
