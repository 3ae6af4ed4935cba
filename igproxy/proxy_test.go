package igproxy

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"quizzer-backend/catalog"
	"quizzer-backend/logging"
)

func TestAllowedHost(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://instagram.com/pic.jpg", true},
		{"https://www.instagram.com/pic.jpg", true},
		{"https://scontent-lhr8-1.cdninstagram.com/v/pic.jpg", true},
		{"https://scontent.xx.fbcdn.net/v/pic.jpg", true},
		{"https://evil.com/pic.jpg", false},
		{"https://fbcdn.net.evil.com/pic.jpg", false},
		{"https://notinstagram.com/pic.jpg", false},
		{"://broken", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := AllowedHost(tc.url); got != tc.want {
			t.Fatalf("%q: got %v want %v", tc.url, got, tc.want)
		}
	}
}

func proxyRouter(t *testing.T, picURL string) *gin.Engine {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "clip.mp4"), []byte("vid"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "clip.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if picURL != "" {
		meta := fmt.Sprintf(`{"username": "sensei", "profile_pic_url": %q}`, picURL)
		if err := os.WriteFile(filepath.Join(root, "clip.mp4.json"), []byte(meta), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	svc := catalog.NewService(root, logging.NewNop())
	svc.Reload()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc, logging.NewNop()).RegisterRoutes(r)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestProfilePic_missingAndUnknown(t *testing.T) {
	r := proxyRouter(t, "https://instagram.com/pic.jpg")

	if w := get(r, "/api/profile-pic"); w.Code != http.StatusBadRequest {
		t.Fatalf("missing id: expected 400, got %d", w.Code)
	}
	if w := get(r, "/api/profile-pic?id=ghost"); w.Code != http.StatusNotFound {
		t.Fatalf("unknown entry: expected 404, got %d", w.Code)
	}
}

func TestProfilePic_noStoredURL(t *testing.T) {
	r := proxyRouter(t, "")
	if w := get(r, "/api/profile-pic?id=clip"); w.Code != http.StatusNotFound {
		t.Fatalf("entry without attribution: expected 404, got %d", w.Code)
	}
}

func TestProfilePic_disallowedHost(t *testing.T) {
	r := proxyRouter(t, "https://evil.example.com/pic.jpg")
	if w := get(r, "/api/profile-pic?id=clip"); w.Code != http.StatusBadRequest {
		t.Fatalf("disallowed host: expected 400, got %d", w.Code)
	}
}

func TestProfilePic_streamsUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get("Accept") != "image/*" {
			t.Errorf("missing Accept header")
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("pngbytes"))
	}))
	defer upstream.Close()

	// the test server's loopback host is not on the allow-list; widen it for
	// the duration of the test
	saved := allowedHosts
	allowedHosts = append([]string{"127.0.0.1"}, saved...)
	defer func() { allowedHosts = saved }()

	r := proxyRouter(t, upstream.URL+"/pic.png")
	w := get(r, "/api/profile-pic?id=clip")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("content type not passed through: %q", w.Header().Get("Content-Type"))
	}
	if w.Header().Get("Cache-Control") != "public, max-age=86400" {
		t.Fatalf("cache header mismatch: %q", w.Header().Get("Cache-Control"))
	}
	if w.Body.String() != "pngbytes" {
		t.Fatalf("body mismatch: %q", w.Body.String())
	}
}

func TestProfilePic_upstreamErrorPassthrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer upstream.Close()

	saved := allowedHosts
	allowedHosts = append([]string{"127.0.0.1"}, saved...)
	defer func() { allowedHosts = saved }()

	r := proxyRouter(t, upstream.URL+"/pic.png")
	if w := get(r, "/api/profile-pic?id=clip"); w.Code != http.StatusForbidden {
		t.Fatalf("upstream status should pass through, got %d", w.Code)
	}
}
