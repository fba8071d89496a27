package issue

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/widgets/issues/42" {
			t.Errorf("path = %q, want /repos/acme/widgets/issues/42", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("Authorization = %q, want empty for tokenless fetch", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title": "[feature] Add login page", "state": "open"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	title, err := client.FetchTitle(context.Background(), Ref{Owner: "acme", Repo: "widgets", Number: 42}, "")
	if err != nil {
		t.Fatalf("FetchTitle() error: %v", err)
	}
	if title != "[feature] Add login page" {
		t.Errorf("title = %q", title)
	}
}

func TestFetchTitleSendsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer ghp_secret" {
			t.Errorf("Authorization = %q, want Bearer ghp_secret", got)
		}
		_, _ = w.Write([]byte(`{"title": "ok"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.FetchTitle(context.Background(), Ref{Owner: "acme", Repo: "widgets", Number: 1}, "ghp_secret"); err != nil {
		t.Fatalf("FetchTitle() error: %v", err)
	}
}

func TestFetchTitleFailures(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		token   string
		wantErr error
	}{
		{"private without token", http.StatusNotFound, `{}`, "", ErrTokenRequired},
		{"rejected token", http.StatusUnauthorized, `{}`, "ghp_bad", ErrBadToken},
		{"server error", http.StatusInternalServerError, `{}`, "", ErrAPI},
		{"missing title", http.StatusOK, `{"state": "open"}`, "", ErrBadResponse},
		{"not json", http.StatusOK, `<html>`, "", ErrBadResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL)
			_, err := client.FetchTitle(context.Background(), Ref{Owner: "a", Repo: "b", Number: 1}, tc.token)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("FetchTitle() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}
