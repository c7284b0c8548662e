package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/eknkc/pug"
	"github.com/go-chi/chi/v5"

	"cafe-site/pkg/lightbox"
	"cafe-site/pkg/models"
	"cafe-site/pkg/session"
)

// CategoryButton is a filter button of the menu section
type CategoryButton struct {
	Name   string
	Label  string
	Active bool
}

// PackageCard is an event package with its booking link
type PackageCard struct {
	models.Package
	BookingURL string
}

// Page is the data of the index template
type Page struct {
	Site       models.Site
	View       session.View
	Buttons    []CategoryButton
	Packages   []PackageCard
	Copyright  string
	BodyClass  string
	ModalClass string

	PackageInfoClass string
}

// BookingURL returns the WhatsApp chat link asking about an event package
func BookingURL(number, packageName string) string {
	message := fmt.Sprintf("Hi! I'm interested in the %s. Can you provide more details?", packageName)
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, text)
}

func (s *Server) buildPage(site models.Site, view session.View) Page {
	buttons := []CategoryButton{{
		Name:   models.AllCategories,
		Label:  "All",
		Active: view.ActiveCategory == models.AllCategories,
	}}
	for _, c := range site.Categories {
		buttons = append(buttons, CategoryButton{
			Name:   c.Name,
			Label:  c.Label,
			Active: view.ActiveCategory == c.Name,
		})
	}

	packages := make([]PackageCard, 0, len(site.Packages))
	for _, p := range site.Packages {
		packages = append(packages, PackageCard{
			Package:    p,
			BookingURL: "/book/" + url.PathEscape(p.Name),
		})
	}

	page := Page{
		Site:      site,
		View:      view,
		Buttons:   buttons,
		Packages:  packages,
		Copyright: fmt.Sprintf("© %d %s. All rights reserved.", s.now().Year(), site.Name),
	}
	if view.Gallery.ScrollLocked {
		page.BodyClass = "no-scroll"
	}
	if view.Gallery.Open {
		page.ModalClass = "active"
	}
	if view.PackageInfoOpen {
		page.PackageInfoClass = "active"
	}
	return page
}

// PageHandler renders the page for the visitor session
func (s *Server) PageHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := s.visitorSession(w, r)
	if err != nil {
		s.log.WithError(err).Error("Loading site data")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	site, err := s.sites.Site()
	if err != nil {
		s.log.WithError(err).Error("Loading site data")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	template, err := pug.CompileFile(filepath.Join(s.cfg.ViewsDir, "index.pug"), pug.Options{})
	if err != nil {
		s.log.WithError(err).Error("Template error")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := template.Execute(w, s.buildPage(site, sess.View())); err != nil {
		s.log.WithError(err).Error("Template execution error")
	}
}

// FeedHandler returns the page content as JSON
func (s *Server) FeedHandler(w http.ResponseWriter, _ *http.Request) {
	site, err := s.sites.Site()
	if err != nil {
		s.log.WithError(err).Error("Loading site data")
		s.writeError(w, http.StatusInternalServerError, "site data unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, site)
}

// StateHandler returns the visitor session view
func (s *Server) StateHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := s.visitorSession(w, r)
	if err != nil {
		s.log.WithError(err).Error("Starting session")
		s.writeError(w, http.StatusInternalServerError, "site data unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, sess.View())
}

// CommandHandler applies one command to the visitor session
func (s *Server) CommandHandler(w http.ResponseWriter, r *http.Request) {
	var cmd session.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess, err := s.visitorSession(w, r)
	if err != nil {
		s.log.WithError(err).Error("Starting session")
		s.writeError(w, http.StatusInternalServerError, "site data unavailable")
		return
	}

	view, err := sess.Apply(cmd)
	switch {
	case errors.Is(err, session.ErrUnknownCommand):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, lightbox.ErrOutOfRange):
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": err.Error(),
			"state": view,
		})
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	default:
		s.writeJSON(w, http.StatusOK, view)
	}
}

// KeyHandler applies a keyboard key to the visitor session. Keys without a
// binding return the unchanged state.
func (s *Server) KeyHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess, err := s.visitorSession(w, r)
	if err != nil {
		s.log.WithError(err).Error("Starting session")
		s.writeError(w, http.StatusInternalServerError, "site data unavailable")
		return
	}

	view, _ := sess.Key(req.Key)
	s.writeJSON(w, http.StatusOK, view)
}

// BookHandler redirects to the WhatsApp chat for an event package
func (s *Server) BookHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "package")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	site, err := s.sites.Site()
	if err != nil {
		s.log.WithError(err).Error("Loading site data")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	pkg, ok := site.FindPackage(name)
	if !ok {
		s.log.WithField("package", name).Info("Package not found")
		http.NotFound(w, r)
		return
	}

	s.log.WithField("package", pkg.Name).Info("Booking enquiry")
	http.Redirect(w, r, BookingURL(s.cfg.WhatsAppNumber, pkg.Name), http.StatusFound)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).WithField("status", status).Error("Writing JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
