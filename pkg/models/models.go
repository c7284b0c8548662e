package models

// AllCategories is the category selection that matches every menu item
const AllCategories = "all"

// Uncategorized marks a menu item that belongs to no category. It never
// matches a category selection.
const Uncategorized = ""

// Kind tags a gallery entry as an image or a video
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Category is a labelled menu category shown as a filter button
type Category struct {
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label" yaml:"label"`
}

// CatalogItem represents one orderable entry on the menu
type CatalogItem struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Category    string `json:"category" yaml:"category"`
	Description string `json:"description,omitempty" yaml:"description"`
	Price       string `json:"price,omitempty" yaml:"price"`
}

// GalleryEntry represents one media item of the gallery sequence
type GalleryEntry struct {
	Index       int     `json:"index" yaml:"-"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Kind        Kind    `json:"kind" yaml:"kind"`
	Url         string  `json:"url" yaml:"url"`
	Thumbnail   *string `json:"thumbnail,omitempty" yaml:"thumbnail"`
	ObjectPath  string  `json:"-" yaml:"-"`
}

// Announcement is a news card in the promotions section
type Announcement struct {
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`
	Date  string `json:"date,omitempty" yaml:"date"`
}

// Package is a bookable event package
type Package struct {
	Name     string   `json:"name" yaml:"name"`
	Price    string   `json:"price" yaml:"price"`
	Features []string `json:"features" yaml:"features"`
}

// Site holds all the static content of the page
type Site struct {
	Name          string         `json:"name" yaml:"name"`
	Categories    []Category     `json:"categories" yaml:"categories"`
	Menu          []CatalogItem  `json:"menu" yaml:"menu"`
	Gallery       []GalleryEntry `json:"gallery" yaml:"gallery"`
	Announcements []Announcement `json:"announcements" yaml:"announcements"`
	Packages      []Package      `json:"packages" yaml:"packages"`
}

// CountByCategory returns the number of menu items tagged with each category
func (s Site) CountByCategory() map[string]int {
	counts := make(map[string]int)
	for _, item := range s.Menu {
		counts[item.Category]++
	}
	return counts
}

// FindPackage returns the event package with the given name
func (s Site) FindPackage(name string) (Package, bool) {
	for _, p := range s.Packages {
		if p.Name == name {
			return p, true
		}
	}
	return Package{}, false
}
