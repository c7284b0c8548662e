package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafe-site/pkg/lightbox"
	"cafe-site/pkg/models"
)

func testSite() models.Site {
	site := models.Site{
		Categories: []models.Category{{Name: "coffee", Label: "Coffee"}, {Name: "tea", Label: "Tea"}},
	}
	for i := 0; i < 14; i++ {
		site.Menu = append(site.Menu, models.CatalogItem{ID: fmt.Sprintf("c%d", i), Category: "coffee"})
	}
	for i := 0; i < 6; i++ {
		site.Menu = append(site.Menu, models.CatalogItem{ID: fmt.Sprintf("t%d", i), Category: "tea"})
	}
	for i := 0; i < 3; i++ {
		site.Gallery = append(site.Gallery, models.GalleryEntry{Title: fmt.Sprintf("Photo %d", i), Kind: models.KindImage})
	}
	for i := 0; i < 5; i++ {
		site.Announcements = append(site.Announcements, models.Announcement{Title: fmt.Sprintf("News %d", i)})
	}
	return site
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    Command
		wantErr error
	}{
		{name: "select-category", arg: "tea", want: Command{Kind: SelectCategory, Category: "tea"}},
		{name: "open", arg: "2", want: Command{Kind: OpenEntry, Index: 2}},
		{name: "next", want: Command{Kind: Next}},
		{name: "toggle-news", want: Command{Kind: ToggleNews}},
		{name: "close-package-info", want: Command{Kind: ClosePackageInfo}},
		{name: "dance", wantErr: ErrUnknownCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.name, tt.arg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseCommand("open", "first")
	assert.Error(t, err)
}

func TestKeyCommand(t *testing.T) {
	lightboxShown := Modals{Lightbox: true}
	packageInfoShown := Modals{PackageInfo: true}

	tests := []struct {
		name   string
		key    string
		shown  Modals
		want   CommandKind
		wantOK bool
	}{
		{name: "escape closes lightbox", key: "Escape", shown: lightboxShown, want: Close, wantOK: true},
		{name: "left in lightbox", key: "ArrowLeft", shown: lightboxShown, want: Previous, wantOK: true},
		{name: "right in lightbox", key: "ArrowRight", shown: lightboxShown, want: Next, wantOK: true},
		{name: "enter in lightbox", key: "Enter", shown: lightboxShown},
		{name: "escape closes package info", key: "Escape", shown: packageInfoShown, want: ClosePackageInfo, wantOK: true},
		{name: "arrows ignored by package info", key: "ArrowRight", shown: packageInfoShown},
		{name: "lightbox wins over package info", key: "Escape", shown: Modals{Lightbox: true, PackageInfo: true}, want: Close, wantOK: true},
		{name: "nothing shown", key: "Escape"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := KeyCommand(tt.key, tt.shown)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, cmd.Kind)
		})
	}
}

func TestApplyMenuCommands(t *testing.T) {
	s := New("s1", testSite(), Options{})

	view, err := s.Apply(Command{Kind: SelectCategory, Category: "coffee"})
	require.NoError(t, err)
	assert.Equal(t, "coffee", view.ActiveCategory)
	assert.Len(t, view.Menu.VisibleItems, 12)
	assert.Equal(t, "(+2 more)", view.MenuCountLabel)

	view, err = s.Apply(Command{Kind: ToggleMenu})
	require.NoError(t, err)
	assert.Len(t, view.Menu.VisibleItems, 14)
	assert.Equal(t, "Show Less", view.MenuControlLabel)

	view, err = s.Apply(Command{Kind: ToggleMenu})
	require.NoError(t, err)
	assert.Len(t, view.Menu.VisibleItems, 12)

	view, err = s.Apply(Command{Kind: SelectCategory, Category: "tea"})
	require.NoError(t, err)
	assert.Len(t, view.Menu.VisibleItems, 6)
	assert.False(t, view.Menu.ControlVisible)
}

func TestApplyGalleryCommands(t *testing.T) {
	s := New("s1", testSite(), Options{})

	view, err := s.Apply(Command{Kind: OpenEntry, Index: 0})
	require.NoError(t, err)
	assert.True(t, view.Gallery.Open)
	assert.True(t, view.Gallery.ScrollLocked)
	require.NotNil(t, view.Gallery.Entry)
	assert.Equal(t, "Photo 0", view.Gallery.Entry.Title)

	view, _ = s.Apply(Command{Kind: Previous})
	assert.Equal(t, 2, view.Gallery.Index)
	assert.Equal(t, "Photo 2", view.Gallery.Entry.Title)

	view, _ = s.Apply(Command{Kind: Close})
	assert.False(t, view.Gallery.Open)
	assert.False(t, view.Gallery.ScrollLocked)
	assert.Nil(t, view.Gallery.Entry)
}

func TestApplyOutOfRangeLeavesState(t *testing.T) {
	s := New("s1", testSite(), Options{})

	view, err := s.Apply(Command{Kind: OpenEntry, Index: 7})
	assert.ErrorIs(t, err, lightbox.ErrOutOfRange)
	assert.False(t, view.Gallery.Open)

	_, err = s.Apply(Command{Kind: "jump"})
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestKeysOnlyActWhileOpen(t *testing.T) {
	s := New("s1", testSite(), Options{})

	_, ok := s.Key("ArrowRight")
	assert.False(t, ok)

	_, err := s.Apply(Command{Kind: OpenEntry, Index: 2})
	require.NoError(t, err)

	view, ok := s.Key("ArrowRight")
	assert.True(t, ok)
	assert.Equal(t, 0, view.Gallery.Index)

	view, ok = s.Key("Escape")
	assert.True(t, ok)
	assert.False(t, view.Gallery.Open)
}

func TestPackageInfoModal(t *testing.T) {
	s := New("s1", testSite(), Options{})
	assert.False(t, s.View().PackageInfoOpen)

	cmd, err := ParseCommand("open-package-info", "")
	require.NoError(t, err)
	view, err := s.Apply(cmd)
	require.NoError(t, err)
	assert.True(t, view.PackageInfoOpen)
	assert.False(t, view.Gallery.ScrollLocked)

	_, ok := s.Key("ArrowLeft")
	assert.False(t, ok)

	view, ok = s.Key("Escape")
	assert.True(t, ok)
	assert.False(t, view.PackageInfoOpen)

	_, ok = s.Key("Escape")
	assert.False(t, ok)

	view, err = s.Apply(Command{Kind: ClosePackageInfo})
	require.NoError(t, err)
	assert.False(t, view.PackageInfoOpen)
}

func TestNewsToggle(t *testing.T) {
	s := New("s1", testSite(), Options{NewsPageSize: 3})

	assert.Len(t, s.View().News.Visible, 3)
	view, err := s.Apply(Command{Kind: ToggleNews})
	require.NoError(t, err)
	assert.Len(t, view.News.Visible, 5)
}

func TestConcurrentApply(t *testing.T) {
	s := New("s1", testSite(), Options{})
	_, err := s.Apply(Command{Kind: OpenEntry, Index: 0})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Apply(Command{Kind: Next})
			s.Apply(Command{Kind: Expand})
		}()
	}
	wg.Wait()

	// 30 steps over 3 entries lands back on the start
	assert.Equal(t, 0, s.View().Gallery.Index)
}

func TestStore(t *testing.T) {
	store := NewStore(time.Minute, Options{})

	loads := 0
	load := func() (models.Site, error) {
		loads++
		return testSite(), nil
	}

	s, created, err := store.GetOrCreate("", load)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, s.ID)

	again, created, err := store.GetOrCreate(s.ID, load)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, s, again)
	assert.Equal(t, 1, loads)
	assert.Equal(t, 1, store.Len())

	store.Delete(s.ID)
	_, ok := store.Get(s.ID)
	assert.False(t, ok)

	_, _, err = store.GetOrCreate("gone", func() (models.Site, error) {
		return models.Site{}, errors.New("no data")
	})
	assert.Error(t, err)
}
