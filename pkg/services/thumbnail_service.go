package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

const (
	// colorDifferenceThreshold defines the minimum difference between color components
	// to consider two pixels as different colors (accounts for compression artifacts)
	colorDifferenceThreshold = 256
)

// ErrNoBucket is returned by bucket operations when no bucket is configured
var ErrNoBucket = errors.New("bucket_name not set")

// ThumbnailOptions controls poster generation for gallery videos
type ThumbnailOptions struct {
	OutputDir string
	TimeMs    int
	MaxSizeMB int64
	Force     bool
}

// ThumbnailReport summarises a poster generation run
type ThumbnailReport struct {
	Videos    int
	Missing   int
	Generated int
	Skipped   int
	Failed    int
}

// GenerateThumbnails extracts a poster frame for every gallery video that has none
func (s *Service) GenerateThumbnails(ctx context.Context, opts ThumbnailOptions) (ThumbnailReport, error) {
	var report ThumbnailReport
	if !s.config.UsesBucket() {
		return report, ErrNoBucket
	}
	if err := checkFFmpeg(); err != nil {
		return report, fmt.Errorf("FFmpeg is required but not found: %w", err)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = filepath.Join(os.TempDir(), "cafe-site-thumbnails")
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return report, fmt.Errorf("failed to create output directory: %w", err)
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to create storage client: %w", err)
	}
	defer client.Close()

	bucket := client.Bucket(s.config.BucketName)

	sizes := make(map[string]int64)
	var names []string
	it := bucket.Objects(ctx, &storage.Query{Prefix: s.config.GalleryPrefix})
	for {
		obj, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return report, fmt.Errorf("error iterating objects: %w", err)
		}
		names = append(names, obj.Name)
		sizes[obj.Name] = obj.Size
	}

	for _, name := range names {
		if hasExtension(name, videoExtensions) {
			report.Videos++
		}
	}

	for _, videoPath := range videosNeedingPosters(names, opts.Force) {
		report.Missing++
		log := s.log.WithField("video", videoPath)

		if opts.MaxSizeMB > 0 && sizes[videoPath]/(1024*1024) > opts.MaxSizeMB {
			log.Infof("Skipping video larger than %d MB", opts.MaxSizeMB)
			report.Skipped++
			continue
		}

		if err := s.generatePoster(ctx, bucket, videoPath, opts); err != nil {
			log.WithError(err).Warn("Poster generation failed")
			report.Failed++
			continue
		}
		log.Info("Created poster")
		report.Generated++
	}

	if report.Generated > 0 {
		s.Flush()
	}
	return report, nil
}

func (s *Service) generatePoster(ctx context.Context, bucket *storage.BucketHandle, videoPath string, opts ThumbnailOptions) error {
	posterPath := baseName(videoPath) + ".jpg"

	tmpVideoPath := filepath.Join(opts.OutputDir, getSafeFilename(videoPath))
	if err := downloadObject(ctx, bucket, videoPath, tmpVideoPath); err != nil {
		return fmt.Errorf("error downloading video: %w", err)
	}
	defer os.Remove(tmpVideoPath)

	tmpPosterPath := filepath.Join(opts.OutputDir, getSafeFilename(posterPath))
	if err := createThumbnailWithFFmpeg(tmpVideoPath, tmpPosterPath, opts.TimeMs); err != nil {
		return fmt.Errorf("error creating thumbnail: %w", err)
	}
	defer os.Remove(tmpPosterPath)

	if err := validateThumbnailFile(tmpPosterPath); err != nil {
		return fmt.Errorf("thumbnail validation failed: %w", err)
	}

	if err := uploadFile(ctx, bucket, tmpPosterPath, posterPath); err != nil {
		return fmt.Errorf("error uploading thumbnail: %w", err)
	}
	return nil
}

// videosNeedingPosters returns the videos of a listing with no image of the
// same base name, or every video when force is set
func videosNeedingPosters(names []string, force bool) []string {
	posters := make(map[string]bool)
	for _, name := range names {
		if hasExtension(name, imageExtensions) {
			posters[baseName(name)] = true
		}
	}

	var videos []string
	for _, name := range names {
		if !hasExtension(name, videoExtensions) {
			continue
		}
		if force || !posters[baseName(name)] {
			videos = append(videos, name)
		}
	}
	return videos
}

func checkFFmpeg() error {
	cmd := exec.Command("ffmpeg", "-version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg not found or not working: %w", err)
	}
	return nil
}

// ffmpegTimestamp formats milliseconds as HH:MM:SS.mmm
func ffmpegTimestamp(timeMs int) string {
	if timeMs < 0 {
		timeMs = 0
	}
	totalSeconds := timeMs / 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d",
		totalSeconds/3600, (totalSeconds%3600)/60, totalSeconds%60, timeMs%1000)
}

func createThumbnailWithFFmpeg(videoPath, thumbnailPath string, timeMs int) error {
	cmd := exec.Command(
		"ffmpeg",
		"-ss", ffmpegTimestamp(timeMs),
		"-i", videoPath,
		"-vf", "thumbnail",
		"-frames:v", "1",
		"-q:v", "2",
		"-y",
		thumbnailPath,
	)

	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w, stderr: %s", err, stderr.String())
	}
	return nil
}

func downloadObject(ctx context.Context, bucket *storage.BucketHandle, src, dst string) error {
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("os.Create: %w", err)
	}
	defer f.Close()

	reader, err := bucket.Object(strings.TrimPrefix(src, "/")).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("Object(%q).NewReader: %w", src, err)
	}
	defer reader.Close()

	if _, err := io.Copy(f, reader); err != nil {
		return fmt.Errorf("ReadFrom: %w", err)
	}
	return nil
}

func uploadFile(ctx context.Context, bucket *storage.BucketHandle, src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("os.ReadFile: %w", err)
	}

	writer := bucket.Object(strings.TrimPrefix(dst, "/")).NewWriter(ctx)
	writer.ContentType = "image/jpeg"

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("Writer.Write: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("Writer.Close: %w", err)
	}
	return nil
}

func validateThumbnailFile(thumbnailPath string) error {
	f, err := os.Open(thumbnailPath)
	if err != nil {
		return fmt.Errorf("failed to open thumbnail: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to decode thumbnail: %w", err)
	}
	return validateThumbnail(img)
}

// validateThumbnail rejects frames where fewer than 1% of a 10x10 sample
// grid differs from the top-left pixel
func validateThumbnail(img image.Image) error {
	bounds := img.Bounds()
	stepX := max(bounds.Dx()/10, 1)
	stepY := max(bounds.Dy()/10, 1)

	r1, g1, b1, a1 := img.At(bounds.Min.X, bounds.Min.Y).RGBA()

	differentPixels := 0
	totalSamples := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			totalSamples++
			r2, g2, b2, a2 := img.At(x, y).RGBA()
			if differs(r1, r2) || differs(g1, g2) || differs(b1, b2) || differs(a1, a2) {
				differentPixels++
			}
		}
	}

	if totalSamples > 0 && float64(differentPixels)/float64(totalSamples) < 0.01 {
		return fmt.Errorf("thumbnail appears to be a solid color (only %d/%d sampled pixels differ)", differentPixels, totalSamples)
	}
	return nil
}

func differs(a, b uint32) bool {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d > colorDifferenceThreshold
}

func getSafeFilename(path string) string {
	if idx := strings.Index(path, "?"); idx != -1 {
		path = path[:idx]
	}

	name := filepath.Base(path)
	if len(name) <= 200 {
		return name
	}

	hash := sha256.Sum256([]byte(path))
	shortName := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, name[:20])

	return fmt.Sprintf("%s-%s%s", shortName, hex.EncodeToString(hash[:8]), filepath.Ext(name))
}
