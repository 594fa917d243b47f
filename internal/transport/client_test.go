package transport

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.Handler, tokens TokenSource) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL + "/api", Timeout: 5 * time.Second}, tokens, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestDoAttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotReqID string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-Id")
		w.Write([]byte(`{}`))
	}), staticTokens("tok123"))

	if err := c.Get(context.Background(), "products", nil); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotReqID == "" {
		t.Fatal("expected an X-Request-Id header")
	}
}

func TestDoSkipsAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	seen := false
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		seen = true
		w.Write([]byte(`{}`))
	}), staticTokens(""))

	if err := c.Get(context.Background(), "products", nil); err != nil {
		t.Fatalf("get: %v", err)
	}
	if !seen {
		t.Fatal("handler not reached")
	}
	if gotAuth != "" {
		t.Fatalf("unexpected Authorization header %q", gotAuth)
	}
}

func TestDoSerializesJSONBody(t *testing.T) {
	var gotContentType string
	var gotBody map[string]string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	}), nil)

	var out struct {
		OK bool `json:"ok"`
	}
	err := c.Do(context.Background(), http.MethodPost, "categories", map[string]string{"name": "Phones"}, &out)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if gotContentType != "application/json" {
		t.Fatalf("content type = %q", gotContentType)
	}
	if gotBody["name"] != "Phones" {
		t.Fatalf("body = %v", gotBody)
	}
	if !out.OK {
		t.Fatal("response not decoded")
	}
}

func TestNon2xxBecomesStructuredError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"category has child categories"}`))
	}), nil)

	err := c.Do(context.Background(), http.MethodDelete, "categories/3", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsStatus(err, http.StatusConflict) {
		t.Fatalf("IsStatus(409) false for %v", err)
	}
	apiErr := err.(*Error)
	if apiErr.Message() != "category has child categories" {
		t.Fatalf("message = %q", apiErr.Message())
	}
	if !strings.Contains(apiErr.Error(), "409") {
		t.Fatalf("error string %q lacks status", apiErr.Error())
	}
}

func TestErrorMessageFallsBackToStatusText(t *testing.T) {
	e := &Error{Status: http.StatusNotFound, Body: []byte(`{"detail":"x"}`)}
	if e.Message() != "" {
		t.Fatalf("message = %q, want empty", e.Message())
	}
	if !strings.Contains(e.Error(), "Not Found") {
		t.Fatalf("error string = %q", e.Error())
	}
}

func TestUploadEncodesMultipartWithDeclaredKeys(t *testing.T) {
	var gotName, gotFile, gotFilename string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotName = r.FormValue("Name")
		file, header, err := r.FormFile("Images")
		if err != nil {
			t.Errorf("form file: %v", err)
			w.Write([]byte(`{}`))
			return
		}
		defer file.Close()
		contents, _ := io.ReadAll(file)
		gotFile = string(contents)
		gotFilename = header.Filename
		w.Write([]byte(`{}`))
	}), nil)

	form := NewForm().
		Field("Name", "Phones").
		File("Images", "phones.png", strings.NewReader("png-bytes"))
	if err := c.Upload(context.Background(), http.MethodPost, "categories", form, nil); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if gotName != "Phones" {
		t.Fatalf("Name field = %q", gotName)
	}
	if gotFile != "png-bytes" || gotFilename != "phones.png" {
		t.Fatalf("file = %q name = %q", gotFile, gotFilename)
	}
}

func TestNewRejectsBogusBaseURL(t *testing.T) {
	if _, err := New(Options{BaseURL: "ftp://host"}, nil, log.New(io.Discard, "", 0)); err == nil {
		t.Fatal("expected scheme error")
	}
}
