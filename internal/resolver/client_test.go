package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/vncfetch/internal/model"
)

// newTestServer serves handler and returns a Client pointed at it.
func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	hc := srv.Client()
	hc.Timeout = 5 * time.Second

	c, err := NewClient(srv.URL+"/vncresolver-next", WithHTTPClient(hc), WithUserAgent("vncfetch-test"))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c, srv
}

// TestNewClient tests constructor validation.
func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("rejects relative base URL", func(t *testing.T) {
		t.Parallel()
		if _, err := NewClient("computernewb.com"); err == nil {
			t.Error("expected error for relative URL")
		}
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		t.Parallel()
		c, err := NewClient("https://example.com/vncresolver-next/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.BaseURL() != "https://example.com/vncresolver-next" {
			t.Errorf("unexpected base URL %q", c.BaseURL())
		}
	})

	t.Run("rejects malformed proxy", func(t *testing.T) {
		t.Parallel()
		_, err := NewClient("https://example.com", WithSOCKS5Proxy("localhost"))
		if !errors.Is(err, ErrInvalidProxyAddress) {
			t.Errorf("expected ErrInvalidProxyAddress, got %v", err)
		}
	})

	t.Run("accepts SOCKS5 proxy", func(t *testing.T) {
		t.Parallel()
		if _, err := NewClient("https://example.com", WithSOCKS5Proxy("127.0.0.1:9050")); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

// TestClientURLs tests endpoint construction.
func TestClientURLs(t *testing.T) {
	t.Parallel()

	c, err := NewClient("https://computernewb.com/vncresolver-next")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := c.SearchURL("DE"), "https://computernewb.com/vncresolver-next/api/v1/search?country=DE&full=true"; got != want {
		t.Errorf("SearchURL = %q, want %q", got, want)
	}
	tests := []struct {
		id   string
		want string
	}{
		{id: "42", want: "https://computernewb.com/vncresolver-next/api/v1/screenshot/42"},
		{id: "", want: "https://computernewb.com/vncresolver-next/api/v1/screenshot/"},
		// Ids are one path segment, so separators and spaces are escaped.
		{id: "a/b c", want: "https://computernewb.com/vncresolver-next/api/v1/screenshot/a%2Fb%20c"},
		{id: "../search", want: "https://computernewb.com/vncresolver-next/api/v1/screenshot/..%2Fsearch"},
	}
	for _, tt := range tests {
		if got := c.ScreenshotURL(tt.id); got != tt.want {
			t.Errorf("ScreenshotURL(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

// roundTripFunc adapts a function to http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// TestWithHTTPClient tests that a supplied client carries every request.
func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	var seen []string
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		seen = append(seen, r.URL.String())
		return &http.Response{
			StatusCode: http.StatusOK,
			Status:     "200 OK",
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`{"results": [{"id": 3}]}`)),
			Request:    r,
		}, nil
	})}

	c, err := NewClient("https://resolver.invalid", WithHTTPClient(hc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rs, err := c.Search(context.Background(), "DE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rs.Count() != 1 {
		t.Errorf("expected 1 record, got %d", rs.Count())
	}
	if len(seen) != 1 || seen[0] != "https://resolver.invalid/api/v1/search?country=DE&full=true" {
		t.Errorf("unexpected requests: %v", seen)
	}
}

// TestClientSearch tests the search request and result augmentation.
func TestClientSearch(t *testing.T) {
	t.Parallel()

	t.Run("adds imagelink to every record", func(t *testing.T) {
		t.Parallel()

		var gotQuery, gotPath, gotUA string
		c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.RawQuery
			gotUA = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"results": [{"id": 1, "ip": "10.0.0.1"}, {"id": 2, "ip": "10.0.0.2"}, {"id": "abc"}]}`)
		})

		rs, err := c.Search(context.Background(), "DE")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if gotPath != "/vncresolver-next/api/v1/search" {
			t.Errorf("unexpected path %q", gotPath)
		}
		if gotQuery != "country=DE&full=true" {
			t.Errorf("unexpected query %q", gotQuery)
		}
		if gotUA != "vncfetch-test" {
			t.Errorf("unexpected User-Agent %q", gotUA)
		}

		if rs.Count() != 3 {
			t.Fatalf("expected 3 records, got %d", rs.Count())
		}
		if rs.Country != "DE" {
			t.Errorf("expected country DE, got %q", rs.Country)
		}
		for _, rec := range rs.Results {
			want := c.BaseURL() + "/api/v1/screenshot/" + rec.ID()
			if rec.ImageLink() != want {
				t.Errorf("imagelink = %q, want %q", rec.ImageLink(), want)
			}
			keys := rec.Keys()
			if keys[len(keys)-1] != model.FieldImageLink {
				t.Errorf("expected imagelink to be the last field, got %v", keys)
			}
		}
	})

	t.Run("missing id gives incomplete link", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"results": [{"name": "x"}]}`)
		})

		rs, err := c.Search(context.Background(), "FR")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasSuffix(rs.Results[0].ImageLink(), "/api/v1/screenshot/") {
			t.Errorf("unexpected imagelink %q", rs.Results[0].ImageLink())
		}
	})

	t.Run("empty results", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"results": []}`)
		})

		rs, err := c.Search(context.Background(), "AQ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !rs.IsEmpty() {
			t.Errorf("expected no records, got %d", rs.Count())
		}
	})

	t.Run("empty country is rejected", func(t *testing.T) {
		t.Parallel()

		c, err := NewClient("https://example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := c.Search(context.Background(), ""); !errors.Is(err, ErrEmptyCountry) {
			t.Errorf("expected ErrEmptyCountry, got %v", err)
		}
	})
}

// TestClientSearchErrors tests the error taxonomy of Search.
func TestClientSearchErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, "boom", ErrNetwork},
		{"not found", http.StatusNotFound, "", ErrNetwork},
		{"html body", http.StatusOK, "<html>maintenance</html>", ErrParse},
		{"missing results", http.StatusOK, `{"error": "bad country"}`, ErrParse},
		{"results not array", http.StatusOK, `{"results": 3}`, ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			rs, err := c.Search(context.Background(), "DE")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if rs != nil {
				t.Error("expected nil result set on error")
			}
		})
	}

	t.Run("status error carries code", func(t *testing.T) {
		t.Parallel()

		c, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := c.Search(context.Background(), "DE")
		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected StatusError, got %v", err)
		}
		if statusErr.StatusCode != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", statusErr.StatusCode)
		}
	})

	t.Run("connection refused", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		c, err := NewClient(addr, WithTimeout(2*time.Second))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := c.Search(context.Background(), "DE"); !errors.Is(err, ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v", err)
		}
	})

	t.Run("body larger than limit", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"results": [`+strings.Repeat(`{"id": 1},`, 100)+`{"id": 2}]}`)
		}))
		t.Cleanup(srv.Close)

		c, err := NewClient(srv.URL, WithMaxBodySize(64))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := c.Search(context.Background(), "DE"); !errors.Is(err, ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v", err)
		}
	})
}

// TestClientScreenshot tests image downloads.
func TestClientScreenshot(t *testing.T) {
	t.Parallel()

	png := []byte("\x89PNG\r\n\x1a\nfake")

	c, srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vncresolver-next/api/v1/screenshot/7" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	})

	t.Run("returns image bytes", func(t *testing.T) {
		t.Parallel()

		data, err := c.Screenshot(context.Background(), c.ScreenshotURL("7"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != string(png) {
			t.Errorf("unexpected image bytes %q", data)
		}
	})

	t.Run("missing image is a network error", func(t *testing.T) {
		t.Parallel()

		_, err := c.Screenshot(context.Background(), srv.URL+"/vncresolver-next/api/v1/screenshot/8")
		if !errors.Is(err, ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v", err)
		}
	})
}
