package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/LocoMediaDK/MidjourneyMaster/internal/infra/identity"
	loginsvc "github.com/LocoMediaDK/MidjourneyMaster/internal/services/login"
	"github.com/LocoMediaDK/MidjourneyMaster/internal/transport/http/cookies"
)

type loginProviderStub struct {
	users         map[string]identity.User
	session       identity.Session
	grantErr      error
	linkCalls     int
	linkRedirects []string
	signOuts      int
}

func (s *loginProviderStub) LookupUserByEmail(_ context.Context, email string) (identity.User, error) {
	user, ok := s.users[email]
	if !ok {
		return identity.User{}, identity.ErrUserNotFound
	}
	return user, nil
}

func (s *loginProviderStub) PasswordGrant(_ context.Context, _, _ string) (identity.Session, error) {
	if s.grantErr != nil {
		return identity.Session{}, s.grantErr
	}
	return s.session, nil
}

func (s *loginProviderStub) SendMagicLink(_ context.Context, _, redirectTo string) error {
	s.linkCalls++
	s.linkRedirects = append(s.linkRedirects, redirectTo)
	return nil
}

func (s *loginProviderStub) SignOut(_ context.Context, _ string) error {
	s.signOuts++
	return nil
}

type entitlementsStub struct {
	paid map[uuid.UUID]bool
}

func (s *entitlementsStub) HasPaid(_ context.Context, userID uuid.UUID) (bool, error) {
	return s.paid[userID], nil
}

func newLoginHandler(provider *loginProviderStub, ents *entitlementsStub) *LoginHandler {
	service := loginsvc.NewService(loginsvc.Dependencies{Provider: provider, Entitlements: ents})
	return NewLoginHandler(service, nil, nil, "http://localhost:3000", false)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestCanLoginStatuses(t *testing.T) {
	paidID := uuid.New()
	unpaidID := uuid.New()
	provider := &loginProviderStub{users: map[string]identity.User{
		"paid@example.dk":   {ID: paidID},
		"unpaid@example.dk": {ID: unpaidID},
	}}
	handler := newLoginHandler(provider, &entitlementsStub{paid: map[uuid.UUID]bool{paidID: true}})

	cases := []struct {
		name       string
		email      string
		wantStatus int
		wantLogin  bool
	}{
		{"blank email", "  ", http.StatusBadRequest, false},
		{"unknown email", "unknown@example.dk", http.StatusNotFound, false},
		{"unpaid user", "unpaid@example.dk", http.StatusForbidden, false},
		{"paid user", "paid@example.dk", http.StatusOK, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, handler.CanLogin, "/api/auth/can-login", map[string]string{"email": tc.email})
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tc.wantStatus, rec.Code, rec.Body.String())
			}

			var resp struct {
				CanLogin bool   `json:"canLogin"`
				Error    string `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.CanLogin != tc.wantLogin {
				t.Fatalf("expected canLogin=%v, got %v", tc.wantLogin, resp.CanLogin)
			}
			if !tc.wantLogin && resp.Error == "" {
				t.Fatal("expected a user-facing error message on denial")
			}
		})
	}
}

func TestPasswordLoginSetsSessionCookies(t *testing.T) {
	paidID := uuid.New()
	provider := &loginProviderStub{
		session: identity.Session{
			AccessToken:  "access-token",
			RefreshToken: "refresh-token",
			ExpiresIn:    3600,
			User:         identity.User{ID: paidID, Email: "paid@example.dk"},
		},
	}
	handler := newLoginHandler(provider, &entitlementsStub{paid: map[uuid.UUID]bool{paidID: true}})

	rec := postJSON(t, handler.Password, "/api/auth/login", map[string]string{
		"email":    "paid@example.dk",
		"password": "secret",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var access, refresh string
	for _, cookie := range rec.Result().Cookies() {
		switch cookie.Name {
		case cookies.AccessCookie:
			access = cookie.Value
		case cookies.RefreshCookie:
			refresh = cookie.Value
		}
	}
	if access != "access-token" || refresh != "refresh-token" {
		t.Fatalf("expected session cookies, got access=%q refresh=%q", access, refresh)
	}
}

func TestPasswordLoginUnpaidUserGetsNoSession(t *testing.T) {
	unpaidID := uuid.New()
	provider := &loginProviderStub{
		session: identity.Session{
			AccessToken: "access-token",
			User:        identity.User{ID: unpaidID, Email: "unpaid@example.dk"},
		},
	}
	handler := newLoginHandler(provider, &entitlementsStub{})

	rec := postJSON(t, handler.Password, "/api/auth/login", map[string]string{
		"email":    "unpaid@example.dk",
		"password": "secret",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("expected no cookies for unpaid user, got %v", rec.Result().Cookies())
	}
	if provider.signOuts != 1 {
		t.Fatalf("expected the provider session to be revoked, got %d sign-outs", provider.signOuts)
	}
	if !strings.Contains(rec.Body.String(), "adgang") {
		t.Fatalf("expected Danish denial message, got %s", rec.Body.String())
	}
}

func TestMagicLinkOnlyForEligibleEmails(t *testing.T) {
	paidID := uuid.New()
	provider := &loginProviderStub{users: map[string]identity.User{
		"paid@example.dk": {ID: paidID},
	}}
	handler := newLoginHandler(provider, &entitlementsStub{paid: map[uuid.UUID]bool{paidID: true}})

	rec := postJSON(t, handler.MagicLink, "/api/auth/magic-link", map[string]string{"email": "unknown@example.dk"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown email, got %d", rec.Code)
	}
	if provider.linkCalls != 0 {
		t.Fatalf("expected no link sent, got %d", provider.linkCalls)
	}

	rec = postJSON(t, handler.MagicLink, "/api/auth/magic-link", map[string]string{"email": "paid@example.dk"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for eligible email, got %d: %s", rec.Code, rec.Body.String())
	}
	if provider.linkCalls != 1 {
		t.Fatalf("expected 1 link sent, got %d", provider.linkCalls)
	}
}

func TestMagicLinkRedirectStaysOnSite(t *testing.T) {
	paidID := uuid.New()
	provider := &loginProviderStub{users: map[string]identity.User{
		"paid@example.dk": {ID: paidID},
	}}
	handler := newLoginHandler(provider, &entitlementsStub{paid: map[uuid.UUID]bool{paidID: true}})

	cases := []struct {
		name       string
		redirectTo string
		want       string
	}{
		{"missing", "", "http://localhost:3000/auth/callback"},
		{"same-site path", "/kursus/intro", "http://localhost:3000/auth/callback?next=%2Fkursus%2Fintro"},
		{"external url", "https://evil.example/phish", "http://localhost:3000/auth/callback"},
		{"protocol-relative", "//evil.example/phish", "http://localhost:3000/auth/callback"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := map[string]string{"email": "paid@example.dk"}
			if tc.redirectTo != "" {
				payload["redirect_to"] = tc.redirectTo
			}
			rec := postJSON(t, handler.MagicLink, "/api/auth/magic-link", payload)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			got := provider.linkRedirects[len(provider.linkRedirects)-1]
			if got != tc.want {
				t.Fatalf("expected redirect %q, got %q", tc.want, got)
			}
		})
	}
}

func TestLogoutClearsCookies(t *testing.T) {
	handler := newLoginHandler(&loginProviderStub{}, &entitlementsStub{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: cookies.AccessCookie, Value: "access-token"})
	rec := httptest.NewRecorder()
	handler.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cleared := 0
	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge < 0 && cookie.Value == "" {
			cleared++
		}
	}
	if cleared != 2 {
		t.Fatalf("expected both session cookies cleared, got %d", cleared)
	}
}
