// Package lightbox tracks which gallery entry is open in the lightbox and
// moves through the gallery with wraparound.
//
// A gallery with no entries is a supported but degenerate configuration:
// Open always fails with ErrOutOfRange and navigation never divides by zero.
package lightbox

import (
	"errors"
	"fmt"

	"cafe-site/pkg/models"
)

// ErrOutOfRange is returned when an index falls outside the gallery
var ErrOutOfRange = errors.New("gallery index out of range")

// ErrNotOpen is returned when the current entry is requested while the
// lightbox is closed
var ErrNotOpen = errors.New("lightbox is not open")

// ScrollLocker is the presentation hook that blocks page scrolling while
// the lightbox is shown
type ScrollLocker interface {
	SetScrollLocked(locked bool)
}

// Navigator is the lightbox state for one gallery sequence
type Navigator struct {
	entries      []models.GalleryEntry
	isOpen       bool
	currentIndex int
	locker       ScrollLocker
}

// NewNavigator creates a closed navigator over entries. Entries are copied
// and re-indexed by position.
func NewNavigator(entries []models.GalleryEntry, locker ScrollLocker) *Navigator {
	sequence := make([]models.GalleryEntry, len(entries))
	for i, entry := range entries {
		entry.Index = i
		sequence[i] = entry
	}
	return &Navigator{
		entries: sequence,
		locker:  locker,
	}
}

// Len returns the number of gallery entries
func (n *Navigator) Len() int {
	return len(n.entries)
}

// Entries returns a copy of the gallery sequence
func (n *Navigator) Entries() []models.GalleryEntry {
	entries := make([]models.GalleryEntry, len(n.entries))
	copy(entries, n.entries)
	return entries
}

// IsOpen reports whether the lightbox is shown
func (n *Navigator) IsOpen() bool {
	return n.isOpen
}

// CurrentIndex returns the open entry index. It is meaningless while closed.
func (n *Navigator) CurrentIndex() int {
	return n.currentIndex
}

// Open shows the entry at index
func (n *Navigator) Open(index int) error {
	if index < 0 || index >= len(n.entries) {
		return fmt.Errorf("open %d of %d entries: %w", index, len(n.entries), ErrOutOfRange)
	}
	n.isOpen = true
	n.currentIndex = index
	n.setScrollLocked(true)
	return nil
}

// Close hides the lightbox. Closing a closed lightbox does nothing more.
func (n *Navigator) Close() {
	n.isOpen = false
	n.setScrollLocked(false)
}

// ShowPrevious moves to the previous entry, wrapping from the first to the last.
// It is ignored while closed.
func (n *Navigator) ShowPrevious() {
	n.step(-1)
}

// ShowNext moves to the next entry, wrapping from the last to the first.
// It is ignored while closed.
func (n *Navigator) ShowNext() {
	n.step(1)
}

func (n *Navigator) step(delta int) {
	count := len(n.entries)
	if !n.isOpen || count == 0 {
		return
	}
	n.currentIndex = (n.currentIndex + delta + count) % count
}

// CurrentEntry returns the open entry
func (n *Navigator) CurrentEntry() (models.GalleryEntry, error) {
	if !n.isOpen {
		return models.GalleryEntry{}, ErrNotOpen
	}
	if n.currentIndex < 0 || n.currentIndex >= len(n.entries) {
		return models.GalleryEntry{}, fmt.Errorf("entry %d of %d: %w", n.currentIndex, len(n.entries), ErrOutOfRange)
	}
	return n.entries[n.currentIndex], nil
}

func (n *Navigator) setScrollLocked(locked bool) {
	if n.locker != nil {
		n.locker.SetScrollLocked(locked)
	}
}
