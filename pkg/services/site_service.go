package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"cloud.google.com/go/storage"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
	"gopkg.in/yaml.v3"

	"cafe-site/pkg/config"
	"cafe-site/pkg/logging"
	"cafe-site/pkg/models"
)

const siteCacheKey = "site"

// ErrNoSiteData is returned when the data file holds no menu and no gallery
var ErrNoSiteData = errors.New("site data file is empty")

// ErrEntryNotFound is returned when a gallery entry does not exist
var ErrEntryNotFound = errors.New("gallery entry not found")

// Service loads the static content of the page
type Service struct {
	config    *config.Config
	siteCache *cache.Cache
	mu        sync.RWMutex
	log       *logrus.Entry
}

// NewService creates a service reading from the configured data file and bucket
func NewService(cfg *config.Config) *Service {
	return &Service{
		config:    cfg,
		siteCache: cache.New(5*time.Minute, 10*time.Minute),
		log:       logging.NewLogger("services"),
	}
}

// naturalLess compares strings in a way that treats numbers as numbers rather than characters
// For example: "latte2" < "latte10" when using naturalLess
func naturalLess(s1, s2 string) bool {
	i, j := 0, 0
	for i < len(s1) && j < len(s2) {
		for i < len(s1) && unicode.IsSpace(rune(s1[i])) {
			i++
		}
		for j < len(s2) && unicode.IsSpace(rune(s2[j])) {
			j++
		}
		if i >= len(s1) || j >= len(s2) {
			break
		}

		if unicode.IsDigit(rune(s1[i])) && unicode.IsDigit(rune(s2[j])) {
			start1, start2 := i, j
			for i < len(s1) && unicode.IsDigit(rune(s1[i])) {
				i++
			}
			for j < len(s2) && unicode.IsDigit(rune(s2[j])) {
				j++
			}
			n1, _ := strconv.Atoi(s1[start1:i])
			n2, _ := strconv.Atoi(s2[start2:j])
			if n1 != n2 {
				return n1 < n2
			}
			continue
		}

		if s1[i] != s2[j] {
			return s1[i] < s2[j]
		}
		i++
		j++
	}

	return len(s1)-i < len(s2)-j
}

var (
	// defaultService is the singleton instance of Service
	defaultService *Service
	once           sync.Once
)

// InitService initializes the service with the given configuration
func InitService(cfg *config.Config) {
	once.Do(func() {
		defaultService = NewService(cfg)
	})
}

// Default returns the service created by InitService
func Default() *Service {
	return defaultService
}

// GetSite returns the page content
func GetSite() (models.Site, error) {
	return defaultService.Site()
}

// Site returns the page content, reading it again once the cache expires
func (s *Service) Site() (models.Site, error) {
	s.mu.RLock()
	if cached, found := s.siteCache.Get(siteCacheKey); found {
		s.mu.RUnlock()
		s.log.Debug("Using cached site data")
		return cached.(models.Site), nil
	}
	s.mu.RUnlock()

	s.log.WithField("file", s.config.DataFile).Info("Loading site data")

	site, err := LoadSiteFile(s.config.DataFile)
	if err != nil {
		return models.Site{}, err
	}

	if s.config.UsesBucket() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		entries, err := s.galleryFromBucket(ctx)
		if err != nil {
			// The page still works with the gallery from the data file
			s.log.WithError(err).Warn("Falling back to data file gallery")
		} else {
			site.Gallery = entries
		}
	}

	s.mu.Lock()
	s.siteCache.Set(siteCacheKey, site, cache.DefaultExpiration)
	s.mu.Unlock()

	return site, nil
}

// Flush drops the cached site data
func (s *Service) Flush() {
	s.mu.Lock()
	s.siteCache.Flush()
	s.mu.Unlock()
}

// Entry returns the gallery entry at index
func (s *Service) Entry(index int) (models.GalleryEntry, error) {
	site, err := s.Site()
	if err != nil {
		return models.GalleryEntry{}, err
	}
	if index < 0 || index >= len(site.Gallery) {
		return models.GalleryEntry{}, fmt.Errorf("%w: %d", ErrEntryNotFound, index)
	}
	return site.Gallery[index], nil
}

// LoadSiteFile reads the page content from a YAML data file
func LoadSiteFile(path string) (models.Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Site{}, fmt.Errorf("reading site data %s: %w", path, err)
	}
	return ParseSite(data)
}

// ParseSite decodes YAML site data and fills in derived fields
func ParseSite(data []byte) (models.Site, error) {
	var site models.Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return models.Site{}, fmt.Errorf("parsing site data: %w", err)
	}
	if len(site.Menu) == 0 && len(site.Gallery) == 0 {
		return models.Site{}, ErrNoSiteData
	}

	for i := range site.Menu {
		if site.Menu[i].ID == "" {
			site.Menu[i].ID = fmt.Sprintf("item-%d", i+1)
		}
	}
	for i := range site.Gallery {
		site.Gallery[i].Index = i
		if site.Gallery[i].Kind == "" {
			site.Gallery[i].Kind = kindOf(site.Gallery[i].Url)
		}
	}
	if len(site.Categories) == 0 {
		site.Categories = deriveCategories(site.Menu)
	}

	return site, nil
}

// deriveCategories lists the menu categories in order of first appearance
func deriveCategories(items []models.CatalogItem) []models.Category {
	seen := make(map[string]bool)
	var categories []models.Category
	for _, item := range items {
		if item.Category == models.Uncategorized || seen[item.Category] {
			continue
		}
		seen[item.Category] = true
		categories = append(categories, models.Category{
			Name:  item.Category,
			Label: categoryLabel(item.Category),
		})
	}
	return categories
}

// categoryLabel capitalises the first rune of a category name
func categoryLabel(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// Allowed Extensions
var (
	videoExtensions = []string{".mp4", ".m4v", ".webm", ".mov"}
	imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}
)

func hasExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func kindOf(name string) models.Kind {
	if hasExtension(name, videoExtensions) {
		return models.KindVideo
	}
	return models.KindImage
}

func baseName(name string) string {
	if idx := strings.LastIndex(name, "."); idx > strings.LastIndex(name, "/") {
		return name[:idx]
	}
	return name
}

// galleryFromBucket lists the gallery objects of the configured bucket
func (s *Service) galleryFromBucket(ctx context.Context) ([]models.GalleryEntry, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	defer client.Close()

	bucket := client.Bucket(s.config.BucketName)
	it := bucket.Objects(ctx, &storage.Query{Prefix: s.config.GalleryPrefix})

	var objects []*storage.ObjectAttrs
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing gs://%s/%s: %w", s.config.BucketName, s.config.GalleryPrefix, err)
		}
		objects = append(objects, attrs)
	}

	// Create a Signed 24-Hour URL
	sign := func(name string) (string, error) {
		return bucket.SignedURL(name, &storage.SignedURLOptions{
			Expires: time.Now().Add(24 * time.Hour),
			Method:  "GET",
		})
	}

	entries := entriesFromObjects(objects, s.config.GalleryPrefix, sign, s.log)
	s.log.WithField("entries", len(entries)).Info("Loaded gallery from bucket")
	return entries, nil
}

// entriesFromObjects turns a flat object listing into the gallery sequence.
// Objects directly under prefix become entries; an image sharing a video's
// base name becomes that video's poster instead of an entry of its own.
func entriesFromObjects(objects []*storage.ObjectAttrs, prefix string, sign func(string) (string, error), log *logrus.Entry) []models.GalleryEntry {
	videos := make(map[string]bool)
	for _, obj := range objects {
		if hasExtension(obj.Name, videoExtensions) {
			videos[baseName(obj.Name)] = true
		}
	}

	entryMap := make(map[string]*models.GalleryEntry)
	posters := make(map[string]string)

	for _, obj := range objects {
		rel := strings.TrimPrefix(obj.Name, prefix)
		if rel == "" || strings.Contains(rel, "/") {
			continue
		}
		isVideo := hasExtension(obj.Name, videoExtensions)
		if !isVideo && !hasExtension(obj.Name, imageExtensions) {
			continue
		}

		signedURL, err := sign(obj.Name)
		if err != nil {
			log.WithError(err).WithField("object", obj.Name).Warn("Error creating signed URL")
			continue
		}

		base := baseName(obj.Name)
		if !isVideo && videos[base] {
			posters[base] = signedURL
			continue
		}

		title := obj.Metadata["title"]
		if title == "" {
			title = baseName(rel)
		}
		entryMap[base] = &models.GalleryEntry{
			Title:       title,
			Description: obj.Metadata["description"],
			Kind:        kindOf(obj.Name),
			Url:         signedURL,
			ObjectPath:  obj.Name,
		}
	}

	entries := make([]models.GalleryEntry, 0, len(entryMap))
	for base, entry := range entryMap {
		if poster, ok := posters[base]; ok {
			entry.Thumbnail = &poster
		}
		entries = append(entries, *entry)
	}

	// Sort entries by object name with natural sorting for numbers
	sort.Slice(entries, func(i, j int) bool {
		return naturalLess(entries[i].ObjectPath, entries[j].ObjectPath)
	})
	for i := range entries {
		entries[i].Index = i
	}

	return entries
}
