package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/devlabhq/devlab/internal/issue"
)

func TestJoinDuplicateRejections(t *testing.T) {
	h := newAPIHarness(t, time.Minute, time.Hour, "")
	h.join(t, "alice", "pw1", "Al")

	cases := []struct {
		name     string
		req      JoinRequest
		wantCode string
	}{
		{"same username", JoinRequest{Username: "alice", Password: "pw2", Nickname: "Other"}, "DUPLICATE_USERNAME"},
		{"same nickname", JoinRequest{Username: "bob", Password: "pw2", Nickname: "Al"}, "DUPLICATE_NICKNAME"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := h.do(t, request{method: http.MethodPost, path: "/api/auth/join", body: tc.req})
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			if body := decodeError(t, rr); body.ErrorCode != tc.wantCode {
				t.Errorf("errorCode = %q, want %q", body.ErrorCode, tc.wantCode)
			}
		})
	}
}

func TestJoinValidationReportsFields(t *testing.T) {
	h := newAPIHarness(t, time.Minute, time.Hour, "")

	rr := h.do(t, request{
		method: http.MethodPost,
		path:   "/api/auth/join",
		body:   map[string]string{"username": "alice"},
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	body := decodeError(t, rr)
	if body.ErrorCode != "INVALID_REQUEST" {
		t.Errorf("errorCode = %q, want INVALID_REQUEST", body.ErrorCode)
	}
	if body.FieldErrors["Password"] != "required" || body.FieldErrors["Nickname"] != "required" {
		t.Errorf("fieldErrors = %v, want Password and Nickname required", body.FieldErrors)
	}
	if _, present := body.FieldErrors["Username"]; present {
		t.Errorf("fieldErrors flags Username, which was supplied: %v", body.FieldErrors)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h := newAPIHarness(t, time.Minute, time.Hour, "")
	h.join(t, "alice", "pw1", "Al")

	for _, req := range []LoginRequest{
		{Username: "alice", Password: "wrong"},
		{Username: "nobody", Password: "pw1"},
	} {
		rr := h.do(t, request{method: http.MethodPost, path: "/api/auth/login", body: req})
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("login(%s) status = %d, want 401", req.Username, rr.Code)
		}
		if body := decodeError(t, rr); body.ErrorCode != "INVALID_CREDENTIALS" {
			t.Errorf("errorCode = %q, want INVALID_CREDENTIALS", body.ErrorCode)
		}
	}
}

func TestRefreshCookieErrors(t *testing.T) {
	h := newAPIHarness(t, time.Minute, time.Hour, "")
	h.join(t, "alice", "pw1", "Al")
	loginRR := h.login(t, "alice", "pw1")
	access := lastCookie(t, loginRR, accessCookieName).Value

	t.Run("no cookies at all", func(t *testing.T) {
		rr := h.do(t, request{method: http.MethodPost, path: "/api/auth/refresh"})
		if rr.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rr.Code)
		}
		if body := decodeError(t, rr); body.ErrorCode != "COOKIES_NOT_FOUND" {
			t.Errorf("errorCode = %q, want COOKIES_NOT_FOUND", body.ErrorCode)
		}
	})

	t.Run("other cookies but no refresh", func(t *testing.T) {
		rr := h.do(t, request{
			method:  http.MethodPost,
			path:    "/api/auth/refresh",
			cookies: []*http.Cookie{{Name: "theme", Value: "dark"}},
		})
		if rr.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rr.Code)
		}
		if body := decodeError(t, rr); body.ErrorCode != "REFRESH_TOKEN_NOT_FOUND" {
			t.Errorf("errorCode = %q, want REFRESH_TOKEN_NOT_FOUND", body.ErrorCode)
		}
	})

	t.Run("access token in refresh cookie", func(t *testing.T) {
		rr := h.do(t, request{
			method:  http.MethodPost,
			path:    "/api/auth/refresh",
			cookies: []*http.Cookie{{Name: refreshCookieName, Value: access}},
		})
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rr.Code)
		}
		if body := decodeError(t, rr); body.ErrorCode != "INVALID_REFRESH_TOKEN" {
			t.Errorf("errorCode = %q, want INVALID_REFRESH_TOKEN", body.ErrorCode)
		}
	})
}

func TestLogoutClearsCookiesAndKillsRefresh(t *testing.T) {
	h := newAPIHarness(t, time.Minute, time.Hour, "")
	h.join(t, "alice", "pw1", "Al")
	loginRR := h.login(t, "alice", "pw1")
	access := lastCookie(t, loginRR, accessCookieName).Value
	refresh := lastCookie(t, loginRR, refreshCookieName).Value

	rr := h.do(t, request{
		method:  http.MethodPost,
		path:    "/api/auth/logout",
		cookies: []*http.Cookie{{Name: accessCookieName, Value: access}},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("logout status = %d, body %s", rr.Code, rr.Body.String())
	}
	for _, name := range []string{accessCookieName, refreshCookieName} {
		if c := lastCookie(t, rr, name); c.MaxAge != -1 || c.Value != "" {
			t.Errorf("%s cookie after logout = (value %q, MaxAge %d), want cleared", name, c.Value, c.MaxAge)
		}
	}

	// The refresh token's session record is gone, so rotation is refused.
	rr = h.do(t, request{
		method:  http.MethodPost,
		path:    "/api/auth/refresh",
		cookies: []*http.Cookie{{Name: refreshCookieName, Value: refresh}},
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout status = %d, want 401", rr.Code)
	}
	if body := decodeError(t, rr); body.ErrorCode != "INVALID_REFRESH_TOKEN" {
		t.Errorf("errorCode = %q, want INVALID_REFRESH_TOKEN", body.ErrorCode)
	}

	// The access token is stateless and stays valid until expiry.
	rr = h.do(t, request{
		method:  http.MethodGet,
		path:    "/api/member",
		cookies: []*http.Cookie{{Name: accessCookieName, Value: access}},
	})
	if rr.Code != http.StatusOK {
		t.Errorf("protected call after logout status = %d, want 200", rr.Code)
	}
}

func TestLogoutRequiresAuthentication(t *testing.T) {
	h := newAPIHarness(t, time.Minute, time.Hour, "")

	rr := h.do(t, request{method: http.MethodPost, path: "/api/auth/logout"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	if body := decodeError(t, rr); body.ErrorCode != "MISSING_AUTH_TOKEN" {
		t.Errorf("errorCode = %q, want MISSING_AUTH_TOKEN", body.ErrorCode)
	}
}

func TestValidateEndpoints(t *testing.T) {
	h := newAPIHarness(t, time.Minute, time.Hour, "")
	h.join(t, "alice", "pw1", "Al")

	cases := []struct {
		name string
		path string
		want bool
	}{
		{"taken username", "/api/auth/validate/username?username=alice", false},
		{"free username", "/api/auth/validate/username?username=bob", true},
		{"taken nickname", "/api/auth/validate/nickname?nickname=Al", false},
		{"free nickname", "/api/auth/validate/nickname?nickname=Bee", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := h.do(t, request{method: http.MethodGet, path: tc.path})
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
			}
			var available bool
			if err := json.Unmarshal(rr.Body.Bytes(), &available); err != nil {
				t.Fatalf("decode body %q: %v", rr.Body.String(), err)
			}
			if available != tc.want {
				t.Errorf("available = %v, want %v", available, tc.want)
			}
		})
	}

	t.Run("missing query param", func(t *testing.T) {
		rr := h.do(t, request{method: http.MethodGet, path: "/api/auth/validate/username"})
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
	})
}

func TestProcessIssueEndpoint(t *testing.T) {
	github := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/widgets/issues/42" {
			t.Errorf("github path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"title": "[feature] Add login page"}`))
	}))
	defer github.Close()

	h := newAPIHarness(t, time.Minute, time.Hour, github.URL)
	h.join(t, "alice", "pw1", "Al")
	access := lastCookie(t, h.login(t, "alice", "pw1"), accessCookieName).Value
	authCookie := &http.Cookie{Name: accessCookieName, Value: access}

	rr := h.do(t, request{
		method:  http.MethodPost,
		path:    "/api/issue",
		body:    IssueRequest{IssueURL: "https://github.com/acme/widgets/issues/42"},
		cookies: []*http.Cookie{authCookie},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var result issue.Result
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.BranchName == "" || result.CommitMessage == "" {
		t.Errorf("result = %+v, want branch and commit message", result)
	}

	t.Run("rejects non-issue url", func(t *testing.T) {
		rr := h.do(t, request{
			method:  http.MethodPost,
			path:    "/api/issue",
			body:    IssueRequest{IssueURL: "https://github.com/acme/widgets/pull/42"},
			cookies: []*http.Cookie{authCookie},
		})
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
		if body := decodeError(t, rr); body.ErrorCode != "INVALID_REQUEST" {
			t.Errorf("errorCode = %q, want INVALID_REQUEST", body.ErrorCode)
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		rr := h.do(t, request{
			method: http.MethodPost,
			path:   "/api/issue",
			body:   IssueRequest{IssueURL: "https://github.com/acme/widgets/issues/42"},
		})
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rr.Code)
		}
	})
}

func TestHealthEndpoint(t *testing.T) {
	h := newAPIHarness(t, time.Minute, time.Hour, "")

	rr := h.do(t, request{method: http.MethodGet, path: "/api/health"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %q, want healthy", body["status"])
	}
}
