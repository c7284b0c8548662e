package news

import (
	"fmt"

	"cafe-site/pkg/models"
)

// DefaultInitialCount is the number of announcements shown before expanding
const DefaultInitialCount = 3

// Board holds the expand state of the announcements section
type Board struct {
	announcements []models.Announcement
	initialCount  int
	expanded      bool
}

// Visibility is what the announcements section renders
type Visibility struct {
	Visible        []models.Announcement `json:"visible"`
	HiddenCount    int                   `json:"hiddenCount"`
	Expanded       bool                  `json:"expanded"`
	ControlVisible bool                  `json:"controlVisible"`
	ControlLabel   string                `json:"controlLabel"`
}

// NewBoard creates a collapsed board. A non-positive initialCount falls back
// to DefaultInitialCount.
func NewBoard(announcements []models.Announcement, initialCount int) *Board {
	if initialCount <= 0 {
		initialCount = DefaultInitialCount
	}
	cards := make([]models.Announcement, len(announcements))
	copy(cards, announcements)
	return &Board{announcements: cards, initialCount: initialCount}
}

// Toggle flips between the collapsed and expanded views and returns the
// new expanded state
func (b *Board) Toggle() bool {
	b.expanded = !b.expanded
	return b.expanded
}

// Expanded reports whether every announcement is shown
func (b *Board) Expanded() bool {
	return b.expanded
}

// ComputeVisibility derives the announcements to show
func (b *Board) ComputeVisibility() Visibility {
	total := len(b.announcements)
	shown := total
	if !b.expanded {
		shown = min(b.initialCount, total)
	}

	visible := make([]models.Announcement, shown)
	copy(visible, b.announcements[:shown])

	v := Visibility{
		Visible:        visible,
		HiddenCount:    total - shown,
		Expanded:       b.expanded,
		ControlVisible: total > b.initialCount,
	}
	if v.ControlVisible {
		if b.expanded {
			v.ControlLabel = "Show Less"
		} else {
			v.ControlLabel = fmt.Sprintf("See More News (%d more)", total-b.initialCount)
		}
	}
	return v
}
