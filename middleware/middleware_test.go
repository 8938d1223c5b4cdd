package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"tripwise/utils"
)

func echoUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Write([]byte(utils.GetUserIDFromRequest(r)))
}

func TestAuthenticateCarriesUsername(t *testing.T) {
	a := NewAuth("secret", time.Hour)
	tok, _, _ := a.IssueToken("u1", "alice")
	h := a.Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Write([]byte(utils.GetUserIDFromRequest(r) + "/" + utils.GetUsernameFromRequest(r)))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h(rec, req, nil)
	if rec.Body.String() != "u1/alice" {
		t.Fatalf("unexpected identity %q", rec.Body.String())
	}
	if got := utils.GetUsernameFromRequest(httptest.NewRequest(http.MethodGet, "/", nil)); got != "" {
		t.Fatalf("anonymous request has username %q", got)
	}
}

func TestIssueAndValidate(t *testing.T) {
	a := NewAuth("secret", time.Hour)
	tok, exp, err := a.IssueToken("u1", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if !exp.After(time.Now()) {
		t.Fatal("expiry should be in the future")
	}
	claims, err := a.ValidateJWT(tok)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != "u1" || claims.Username != "alice" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateRejectsForeignAndExpired(t *testing.T) {
	a := NewAuth("secret", time.Hour)
	other := NewAuth("other", time.Hour)
	tok, _, _ := other.IssueToken("u1", "alice")
	if _, err := a.ValidateJWT(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}

	past := NewAuth("secret", time.Minute)
	past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, _ := past.IssueToken("u1", "alice")
	if _, err := a.ValidateJWT(old); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestAuthenticate(t *testing.T) {
	a := NewAuth("secret", time.Hour)
	tok, _, _ := a.IssueToken("u1", "alice")
	h := a.Authenticate(echoUser)

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing", "", http.StatusUnauthorized, ""},
		{"malformed", "Token abc", http.StatusUnauthorized, ""},
		{"garbage", "Bearer abc", http.StatusUnauthorized, ""},
		{"valid", "Bearer " + tok, http.StatusOK, "u1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h(rec, req, nil)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			if tc.body != "" && rec.Body.String() != tc.body {
				t.Fatalf("expected body %q, got %q", tc.body, rec.Body.String())
			}
		})
	}
}

func TestWebSocketQueryToken(t *testing.T) {
	a := NewAuth("secret", time.Hour)
	tok, _, _ := a.IssueToken("u7", "bob")

	req := httptest.NewRequest(http.MethodGet, "/ws?token="+tok, nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	rec := httptest.NewRecorder()
	a.Authenticate(echoUser)(rec, req, nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "u7" {
		t.Fatalf("expected query token accepted, got %d %q", rec.Code, rec.Body.String())
	}

	plain := httptest.NewRequest(http.MethodGet, "/x?token="+tok, nil)
	rec = httptest.NewRecorder()
	a.Authenticate(echoUser)(rec, plain, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("query token must only apply to upgrades, got %d", rec.Code)
	}
}

func TestOptionalAuth(t *testing.T) {
	a := NewAuth("secret", time.Hour)
	tok, _, _ := a.IssueToken("u1", "alice")
	h := a.OptionalAuth(echoUser)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "" {
		t.Fatalf("anonymous request should pass without user, got %d %q", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h(rec, req, nil)
	if rec.Body.String() != "u1" {
		t.Fatalf("expected user from token, got %q", rec.Body.String())
	}
}

func TestObserveKeepsStatusAndRequestID(t *testing.T) {
	h := Observe("/teapot", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if GetRequestID(r.Context()) == "" {
			t.Error("request id missing from context")
		}
		w.WriteHeader(http.StatusTeapot)
	})
	router := httprouter.New()
	router.GET("/teapot", h)

	rec := httptest.NewRecorder()
	RequestID(router).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID header")
	}
}
