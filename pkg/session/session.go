package session

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"cafe-site/pkg/lightbox"
	"cafe-site/pkg/logging"
	"cafe-site/pkg/menu"
	"cafe-site/pkg/models"
	"cafe-site/pkg/news"
)

// Options sizes the paginated sections of a session
type Options struct {
	PageSize     int
	NewsPageSize int
}

// Session is the UI state of one visitor. The menu filter, lightbox and
// news board are built once from the site snapshot given to New and are
// only touched through Apply, one command at a time.
type Session struct {
	ID string

	mu         sync.Mutex
	categories []models.Category
	filter     *menu.Filter
	gallery    *lightbox.Navigator
	news       *news.Board
	scroll     scrollState

	packageInfoOpen bool
	log        *logrus.Entry
}

type scrollState struct {
	locked bool
}

func (s *scrollState) SetScrollLocked(locked bool) {
	s.locked = locked
}

// View is the derived state the presentation layer renders
type View struct {
	SessionID        string            `json:"sessionId"`
	ActiveCategory   string            `json:"activeCategory"`
	Categories       []models.Category `json:"categories"`
	Menu             menu.Visibility   `json:"menu"`
	MenuControlLabel string            `json:"menuControlLabel"`
	MenuCountLabel   string            `json:"menuCountLabel"`
	Gallery          GalleryView       `json:"gallery"`
	News             news.Visibility   `json:"news"`
	PackageInfoOpen  bool              `json:"packageInfoOpen"`
}

// GalleryView is the lightbox part of a View
type GalleryView struct {
	Entries      []models.GalleryEntry `json:"entries"`
	Open         bool                  `json:"open"`
	Index        int                   `json:"index"`
	Entry        *models.GalleryEntry  `json:"entry,omitempty"`
	ScrollLocked bool                  `json:"scrollLocked"`
}

// New creates the session state for a visitor
func New(id string, site models.Site, opts Options) *Session {
	s := &Session{
		ID:         id,
		categories: site.Categories,
		filter:     menu.NewFilter(site.Menu, opts.PageSize),
		news:       news.NewBoard(site.Announcements, opts.NewsPageSize),
		log:        logging.NewLogger("session").WithField("session", id),
	}
	s.gallery = lightbox.NewNavigator(site.Gallery, &s.scroll)
	return s
}

// Apply runs one command and returns the resulting view. Failed commands
// leave the state untouched.
func (s *Session) Apply(cmd Command) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.apply(cmd); err != nil {
		s.log.WithError(err).WithField("command", cmd.String()).Warn("Ignoring command")
		return s.view(), err
	}
	s.log.WithField("command", cmd.String()).Debug("Applied command")
	return s.view(), nil
}

// Key applies the command bound to a keyboard key, if any. Keys are
// ignored while no modal is shown. ok is false when nothing was applied.
func (s *Session) Key(key string) (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cmd, ok := KeyCommand(key, s.modals())
	if !ok {
		return s.view(), false
	}
	log := s.log.WithFields(logrus.Fields{"key": key, "command": cmd.String()})
	if err := s.apply(cmd); err != nil {
		log.WithError(err).Warn("Ignoring key")
		return s.view(), false
	}
	log.Debug("Applied key")
	return s.view(), true
}

// View returns the current derived state
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Session) apply(cmd Command) error {
	switch cmd.Kind {
	case SelectCategory:
		s.filter.SelectCategory(cmd.Category)
	case Expand:
		s.filter.Expand()
	case Collapse:
		s.filter.Collapse()
	case ToggleMenu:
		s.filter.Toggle()
	case OpenEntry:
		return s.gallery.Open(cmd.Index)
	case Next:
		s.gallery.ShowNext()
	case Previous:
		s.gallery.ShowPrevious()
	case Close:
		s.gallery.Close()
	case ToggleNews:
		s.news.Toggle()
	case OpenPackageInfo:
		s.packageInfoOpen = true
	case ClosePackageInfo:
		s.packageInfoOpen = false
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Kind)
	}
	return nil
}

func (s *Session) modals() Modals {
	return Modals{Lightbox: s.gallery.IsOpen(), PackageInfo: s.packageInfoOpen}
}

func (s *Session) view() View {
	visibility := s.filter.ComputeVisibility()

	gallery := GalleryView{
		Entries:      s.gallery.Entries(),
		Open:         s.gallery.IsOpen(),
		Index:        s.gallery.CurrentIndex(),
		ScrollLocked: s.scroll.locked,
	}
	if entry, err := s.gallery.CurrentEntry(); err == nil {
		gallery.Entry = &entry
	}

	return View{
		SessionID:        s.ID,
		ActiveCategory:   s.filter.ActiveCategory(),
		Categories:       s.categories,
		Menu:             visibility,
		MenuControlLabel: visibility.ControlLabel(),
		MenuCountLabel:   visibility.CountLabel(),
		Gallery:          gallery,
		News:             s.news.ComputeVisibility(),
		PackageInfoOpen:  s.packageInfoOpen,
	}
}
