package web

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zhenghongliu48-sys/mymap/internal/models"
)

func TestMarkdownRender(t *testing.T) {
	md := NewMarkdown()

	out, err := md.Render("**espresso** bar\n\n<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(string(out), "<strong>espresso</strong>") {
		t.Errorf("expected emphasis to be rendered, got %s", out)
	}
	if strings.Contains(string(out), "<script>") {
		t.Errorf("raw HTML must not pass through, got %s", out)
	}
}

func TestFlash(t *testing.T) {
	rec := httptest.NewRecorder()
	SetFlash(rec, "username alice already exists")

	req := httptest.NewRequest(http.MethodGet, "/register", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	rec = httptest.NewRecorder()
	if got := PopFlash(rec, req); got != "username alice already exists" {
		t.Errorf("unexpected flash: %q", got)
	}

	cleared := rec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Errorf("expected flash cookie to be cleared, got %+v", cleared)
	}

	if got := PopFlash(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)); got != "" {
		t.Errorf("expected no flash, got %q", got)
	}
}

func TestPagesRender(t *testing.T) {
	pages, err := NewPages()
	if err != nil {
		t.Fatalf("NewPages failed: %v", err)
	}

	owner := "alice"
	marker := &models.Marker{ID: 3, Name: "Cafe <b>", Lat: 25.03, Lng: 121.56, OwnerName: &owner}

	var buf bytes.Buffer
	err = pages.Render(&buf, "list", PageData{
		Title:       "Markers",
		Flash:       "welcome back",
		AuthEnabled: true,
		User:        &models.Identity{UserID: 1, Username: "alice"},
		Markers:     []*models.Marker{marker},
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"welcome back", `href="/marker/3"`, "Cafe &lt;b&gt;", "Signed in as alice"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output", want)
		}
	}

	for _, name := range pageNames {
		buf.Reset()
		if err := pages.Render(&buf, name, PageData{Title: name, Marker: marker}); err != nil {
			t.Errorf("Render(%s) failed: %v", name, err)
		}
	}

	if err := pages.Render(&buf, "missing", PageData{}); err == nil {
		t.Error("expected error for unknown page")
	}
}
