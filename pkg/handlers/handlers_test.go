package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafe-site/pkg/config"
	"cafe-site/pkg/logging"
	"cafe-site/pkg/models"
	"cafe-site/pkg/services"
	"cafe-site/pkg/session"
)

type staticSite struct {
	site models.Site
	err  error
}

func (s staticSite) Site() (models.Site, error) {
	return s.site, s.err
}

func testSite() models.Site {
	site := models.Site{
		Name:       "Cafe O'Clock",
		Categories: []models.Category{{Name: "coffee", Label: "Coffee"}, {Name: "tea", Label: "Tea"}},
		Packages:   []models.Package{{Name: "Birthday Package", Price: "4999"}},
	}
	for i := 0; i < 14; i++ {
		site.Menu = append(site.Menu, models.CatalogItem{ID: fmt.Sprintf("c%d", i), Category: "coffee"})
	}
	for i := 0; i < 6; i++ {
		site.Menu = append(site.Menu, models.CatalogItem{ID: fmt.Sprintf("t%d", i), Category: "tea"})
	}
	for i := 0; i < 3; i++ {
		site.Gallery = append(site.Gallery, models.GalleryEntry{Title: fmt.Sprintf("Photo %d", i)})
	}
	return site
}

func newTestServer(src SiteSource) *Server {
	cfg := config.Default()
	return NewServer(cfg, src, session.NewStore(time.Minute, session.Options{PageSize: cfg.PageSize}))
}

// client replays the session cookie between requests
type client struct {
	t      *testing.T
	srv    *Server
	cookie *http.Cookie
}

func (c *client) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.srv.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == SessionCookie {
			c.cookie = cookie
		}
	}
	return w
}

func (c *client) view(w *httptest.ResponseRecorder) session.View {
	var view session.View
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &view))
	return view
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(staticSite{site: testSite()})

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestStateStartsSession(t *testing.T) {
	c := &client{t: t, srv: newTestServer(staticSite{site: testSite()})}

	w := c.do("GET", "/api/state", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, c.cookie)

	view := c.view(w)
	assert.Equal(t, c.cookie.Value, view.SessionID)
	assert.Equal(t, models.AllCategories, view.ActiveCategory)
	assert.Len(t, view.Menu.VisibleItems, 12)
	assert.Equal(t, 8, view.Menu.HiddenCount)
}

func TestCommandsShareSession(t *testing.T) {
	c := &client{t: t, srv: newTestServer(staticSite{site: testSite()})}

	w := c.do("POST", "/api/commands", `{"command":"select-category","category":"coffee"}`)
	require.Equal(t, http.StatusOK, w.Code)
	view := c.view(w)
	assert.Len(t, view.Menu.VisibleItems, 12)
	assert.Equal(t, 2, view.Menu.HiddenCount)
	assert.True(t, view.Menu.ControlVisible)

	w = c.do("POST", "/api/commands", `{"command":"expand"}`)
	view = c.view(w)
	assert.Len(t, view.Menu.VisibleItems, 14)
	assert.True(t, view.Menu.IsFullyExpanded)
	assert.Equal(t, "Show Less", view.MenuControlLabel)

	w = c.do("GET", "/api/state", "")
	assert.Equal(t, "coffee", c.view(w).ActiveCategory)
}

func TestGalleryCommandsAndKeys(t *testing.T) {
	c := &client{t: t, srv: newTestServer(staticSite{site: testSite()})}

	w := c.do("POST", "/api/keys", `{"key":"ArrowLeft"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, c.view(w).Gallery.Open)

	w = c.do("POST", "/api/commands", `{"command":"open","index":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	view := c.view(w)
	assert.True(t, view.Gallery.Open)
	assert.True(t, view.Gallery.ScrollLocked)

	w = c.do("POST", "/api/keys", `{"key":"ArrowLeft"}`)
	view = c.view(w)
	assert.Equal(t, 2, view.Gallery.Index)
	require.NotNil(t, view.Gallery.Entry)
	assert.Equal(t, "Photo 2", view.Gallery.Entry.Title)

	w = c.do("POST", "/api/keys", `{"key":"Escape"}`)
	view = c.view(w)
	assert.False(t, view.Gallery.Open)
	assert.Nil(t, view.Gallery.Entry)
}

func TestCommandErrors(t *testing.T) {
	c := &client{t: t, srv: newTestServer(staticSite{site: testSite()})}

	w := c.do("POST", "/api/commands", `{"command":"open","index":9}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body struct {
		Error string       `json:"error"`
		State session.View `json:"state"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "out of range")
	assert.False(t, body.State.Gallery.Open)

	w = c.do("POST", "/api/commands", `{"command":"dance"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do("POST", "/api/commands", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSiteUnavailable(t *testing.T) {
	c := &client{t: t, srv: newTestServer(staticSite{err: errors.New("disk on fire")})}

	w := c.do("GET", "/api/state", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = c.do("GET", "/api/site", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestFeed(t *testing.T) {
	c := &client{t: t, srv: newTestServer(staticSite{site: testSite()})}

	w := c.do("GET", "/api/site", "")
	require.Equal(t, http.StatusOK, w.Code)

	var site models.Site
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &site))
	assert.Len(t, site.Menu, 20)
	assert.Len(t, site.Gallery, 3)
}

func TestBookHandler(t *testing.T) {
	c := &client{t: t, srv: newTestServer(staticSite{site: testSite()})}

	w := c.do("GET", "/book/Birthday%20Package", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t,
		"https://wa.me/919173515648?text=Hi%21%20I%27m%20interested%20in%20the%20Birthday%20Package.%20Can%20you%20provide%20more%20details%3F",
		w.Header().Get("Location"))

	w = c.do("GET", "/book/Wedding", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBuildPage(t *testing.T) {
	srv := newTestServer(staticSite{site: testSite()})
	srv.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	sess := session.New("s1", testSite(), session.Options{})
	view, err := sess.Apply(session.Command{Kind: session.SelectCategory, Category: "tea"})
	require.NoError(t, err)
	view, err = sess.Apply(session.Command{Kind: session.OpenEntry, Index: 1})
	require.NoError(t, err)

	page := srv.buildPage(testSite(), view)

	assert.Equal(t, "© 2026 Cafe O'Clock. All rights reserved.", page.Copyright)
	require.Len(t, page.Buttons, 3)
	assert.False(t, page.Buttons[0].Active)
	assert.True(t, page.Buttons[2].Active)
	assert.Equal(t, "/book/Birthday%20Package", page.Packages[0].BookingURL)
	assert.Equal(t, "no-scroll", page.BodyClass)
	assert.Equal(t, "active", page.ModalClass)
	assert.Empty(t, page.PackageInfoClass)

	view, err = sess.Apply(session.Command{Kind: session.OpenPackageInfo})
	require.NoError(t, err)
	assert.Equal(t, "active", srv.buildPage(testSite(), view).PackageInfoClass)
}

func TestPageRendersSiteData(t *testing.T) {
	// views/ and data/ live at the repository root
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir("../.."))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg := config.Default()
	srv := NewServer(cfg, services.NewService(cfg), session.NewStore(time.Minute, session.Options{PageSize: cfg.PageSize, NewsPageSize: cfg.NewsPageSize}))
	c := &client{t: t, srv: srv}

	w := c.do("GET", "/", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	body := w.Body.String()
	assert.Contains(t, body, "Espresso")
	assert.Contains(t, body, "Frappe")
	assert.NotContains(t, body, "Affogato")
	assert.Contains(t, body, "See More Items")
	assert.Contains(t, body, "(+16 more)")
	assert.Contains(t, body, `data-category="coffee"`)
	assert.Contains(t, body, "Live Music Fridays")
	assert.Contains(t, body, "See More News (2 more)")
	assert.Contains(t, body, "/book/Birthday%20Package")
	assert.Contains(t, body, "All rights reserved.")
	assert.Contains(t, body, `class="modal"`)
	assert.Contains(t, body, `class="package-modal"`)

	w = c.do("POST", "/api/commands", `{"command":"select-category","category":"coffee"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = c.do("POST", "/api/commands", `{"command":"open","index":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = c.do("POST", "/api/commands", `{"command":"open-package-info"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do("GET", "/", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = w.Body.String()
	assert.Contains(t, body, "(+2 more)")
	assert.NotContains(t, body, "Masala Chai")
	assert.Contains(t, body, `class="no-scroll"`)
	assert.Contains(t, body, `class="modal active"`)
	assert.Contains(t, body, `id="modalTitle">Latte Art`)
	assert.Contains(t, body, `class="package-modal active"`)
}

func TestPackageInfoModal(t *testing.T) {
	c := &client{t: t, srv: newTestServer(staticSite{site: testSite()})}

	w := c.do("POST", "/api/commands", `{"command":"open-package-info"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, c.view(w).PackageInfoOpen)

	w = c.do("POST", "/api/keys", `{"key":"ArrowLeft"}`)
	assert.True(t, c.view(w).PackageInfoOpen)

	w = c.do("POST", "/api/keys", `{"key":"Escape"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, c.view(w).PackageInfoOpen)
}

func TestWriteJSONLogsEncodeFailure(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	defer logging.SetOutput(os.Stderr)

	srv := newTestServer(staticSite{site: testSite()})
	w := httptest.NewRecorder()
	srv.writeJSON(w, http.StatusOK, map[string]any{"updates": make(chan int)})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), "Writing JSON response")
}
