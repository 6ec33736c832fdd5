package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okEnvelope(w http.ResponseWriter, data any) {
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["username"] != "ada" {
			t.Errorf("username = %q, want ada", creds["username"])
		}
		okEnvelope(w, "tok-123")
	}))
	defer srv.Close()

	c := New(srv.URL)
	token, err := c.Login(context.Background(), "ada", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != "tok-123" || c.Token() != "tok-123" {
		t.Errorf("token = %q / %q, want tok-123", token, c.Token())
	}
}

func TestBearerHeaderSent(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		okEnvelope(w, []string{"alpha", "beta"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok-123")
	projects, err := c.Projects(context.Background())
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
	if len(projects) != 2 || projects[0] != "alpha" {
		t.Errorf("projects = %v", projects)
	}
}

func TestUnauthorizedClearsToken(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("stale")
	_, err := c.Projects(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if c.Token() != "" {
		t.Error("token should be cleared on 401")
	}
	if calls != 1 {
		t.Errorf("calls = %d; auth failures must never retry", calls)
	}
}

func TestRetriesOnceOnTransientStatus(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		okEnvelope(w, []string{"p"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	projects, err := c.Projects(context.Background())
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if len(projects) != 1 {
		t.Errorf("projects = %v", projects)
	}
}

func TestRetriesExactlyOnce(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Projects(context.Background())
	if err == nil {
		t.Fatal("expected an error after both attempts fail")
	}
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Status != http.StatusBadGateway {
		t.Errorf("err = %v, want RequestError 502", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want exactly 2", calls)
	}
}

func TestEnvelopeFailureSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "project already exists",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.CreateProject(context.Background(), "demo")
	if err == nil || err.Error() != "project already exists" {
		t.Errorf("err = %v, want backend message", err)
	}
}

func TestReadFileReturnsRawText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("filename"); got != "src/main.py" {
			t.Errorf("filename = %q, want src/main.py", got)
		}
		w.Write([]byte("print('hi')\n"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	content, err := c.ReadFile(context.Background(), "demo", "src/main.py")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if content != "print('hi')\n" {
		t.Errorf("content = %q", content)
	}
}

func TestSaveFilePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["filename"] != "a.txt" || body["content"] != "hello" {
			t.Errorf("body = %v", body)
		}
		okEnvelope(w, nil)
	}))
	defer srv.Close()

	c := New(srv.URL)
	if err := c.SaveFile(context.Background(), "demo", "a.txt", "hello"); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
}

func TestExecuteSendsStdin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["filename"] != "main.py" || body["input"] != "42\n" {
			t.Errorf("body = %v", body)
		}
		okEnvelope(w, "you said 42\n")
	}))
	defer srv.Close()

	c := New(srv.URL)
	out, err := c.Execute(context.Background(), "demo", "main.py", "42\n")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out != "you said 42\n" {
		t.Errorf("output = %q", out)
	}
}
