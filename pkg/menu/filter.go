// Package menu paginates the café menu by category.
package menu

import (
	"fmt"

	"cafe-site/pkg/models"
)

// DefaultPageSize is the number of items shown per page of the menu
const DefaultPageSize = 12

// Filter holds the category selection and expansion state of the menu.
// The catalog is copied on construction and never changes afterwards.
type Filter struct {
	items          []models.CatalogItem
	pageSize       int
	activeCategory string
	visibleCount   int
}

// Visibility is the derived state the page renders after every change
type Visibility struct {
	VisibleItems    []models.CatalogItem `json:"visibleItems"`
	HiddenCount     int                  `json:"hiddenCount"`
	IsFullyExpanded bool                 `json:"isFullyExpanded"`
	ControlVisible  bool                 `json:"controlVisible"`
}

// NewFilter creates a filter over items showing every category.
// A non-positive pageSize falls back to DefaultPageSize.
func NewFilter(items []models.CatalogItem, pageSize int) *Filter {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	catalog := make([]models.CatalogItem, len(items))
	copy(catalog, items)

	return &Filter{
		items:          catalog,
		pageSize:       pageSize,
		activeCategory: models.AllCategories,
		visibleCount:   pageSize,
	}
}

// ActiveCategory returns the selected category
func (f *Filter) ActiveCategory() string {
	return f.activeCategory
}

// VisibleCount returns the stored visible count. It may exceed the number
// of matching items.
func (f *Filter) VisibleCount() int {
	return f.visibleCount
}

// PageSize returns the pagination step
func (f *Filter) PageSize() int {
	return f.pageSize
}

// SelectCategory switches the active category and goes back to the first page.
// Categories that match nothing are accepted.
func (f *Filter) SelectCategory(category string) {
	f.activeCategory = category
	f.visibleCount = f.pageSize
}

// Expand shows one more page
func (f *Filter) Expand() {
	f.visibleCount += f.pageSize
}

// Collapse goes back to the first page
func (f *Filter) Collapse() {
	f.visibleCount = f.pageSize
}

// Toggle is the "see more / show less" control: it collapses a fully
// expanded list and expands otherwise. It reports whether it collapsed.
func (f *Filter) Toggle() bool {
	if f.ComputeVisibility().IsFullyExpanded {
		f.Collapse()
		return true
	}
	f.Expand()
	return false
}

// ComputeVisibility derives what the page should show for the current state
func (f *Filter) ComputeVisibility() Visibility {
	relevant := f.relevantItems()

	shown := min(f.visibleCount, len(relevant))
	visible := make([]models.CatalogItem, shown)
	copy(visible, relevant[:shown])

	return Visibility{
		VisibleItems:    visible,
		HiddenCount:     max(0, len(relevant)-f.visibleCount),
		IsFullyExpanded: f.visibleCount >= len(relevant),
		ControlVisible:  len(relevant) > f.pageSize,
	}
}

// Categories returns the distinct categories of the catalog in order of
// first appearance, without the uncategorized value
func (f *Filter) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, item := range f.items {
		if item.Category == models.Uncategorized || seen[item.Category] {
			continue
		}
		seen[item.Category] = true
		categories = append(categories, item.Category)
	}
	return categories
}

func (f *Filter) relevantItems() []models.CatalogItem {
	if f.activeCategory == models.AllCategories {
		return f.items
	}
	if f.activeCategory == models.Uncategorized {
		return nil
	}

	var relevant []models.CatalogItem
	for _, item := range f.items {
		if item.Category == f.activeCategory {
			relevant = append(relevant, item)
		}
	}
	return relevant
}

// ControlLabel returns the text of the see-more button
func (v Visibility) ControlLabel() string {
	if v.IsFullyExpanded {
		return "Show Less"
	}
	return "See More Items"
}

// CountLabel returns the hidden item counter shown next to the button label
func (v Visibility) CountLabel() string {
	if v.IsFullyExpanded {
		return ""
	}
	return fmt.Sprintf("(+%d more)", v.HiddenCount)
}
