// Package upload manages the photo the user has picked: it validates the
// file, keeps a preview, and hands it to the analyzer on submit.
package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"github.com/hammamikhairi/platechef/internal/domain"
	"github.com/hammamikhairi/platechef/internal/logger"
)

// Analyzer receives the selected photo. The workflow orchestrator
// satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, img *domain.UploadedImage) (*domain.IdentifiedDish, error)
}

// Option configures the controller.
type Option func(*Controller)

// WithMaxSize sets the largest file the controller accepts. Non-positive
// values keep the default.
func WithMaxSize(n int64) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// Controller holds at most one selected photo.
type Controller struct {
	analyzer Analyzer
	log      *logger.Logger
	maxSize  int64

	mu       sync.Mutex
	selected *domain.UploadedImage
}

// NewController creates an upload controller with nothing selected.
func NewController(analyzer Analyzer, log *logger.Logger, opts ...Option) *Controller {
	c := &Controller{
		analyzer: analyzer,
		log:      log,
		maxSize:  domain.MaxUploadSize,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Select loads the file at path and makes it the current selection.
// Paths pasted or dropped into a terminal are accepted as-is.
func (c *Controller) Select(path string) (*domain.UploadedImage, error) {
	path = NormalizePath(path)
	if path == "" {
		return nil, &domain.ValidationError{Field: "image", Message: "no file given"}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &domain.ValidationError{Field: "image", Message: fmt.Sprintf("%s does not exist", path)}
		}
		return nil, fmt.Errorf("upload: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, &domain.ValidationError{Field: "image", Message: fmt.Sprintf("%s is a directory", path)}
	}
	if err := c.checkSize(filepath.Base(path), info.Size()); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("upload: read %s: %w", path, err)
	}
	return c.SelectBytes(filepath.Base(path), data)
}

// SelectBytes makes in-memory image data the current selection.
func (c *Controller) SelectBytes(filename string, data []byte) (*domain.UploadedImage, error) {
	if len(data) == 0 {
		return nil, &domain.ValidationError{Field: "image", Message: fmt.Sprintf("%s is empty", filename)}
	}
	if err := c.checkSize(filename, int64(len(data))); err != nil {
		return nil, err
	}

	mimeType := sniff(data)
	if !domain.IsImageMIME(mimeType) {
		return nil, &domain.ValidationError{
			Field:   "image",
			Message: fmt.Sprintf("%s is not an image (%s)", filename, mimeType),
		}
	}

	img := &domain.UploadedImage{
		ID:       uuid.NewString(),
		Filename: filename,
		MIMEType: mimeType,
		Size:     int64(len(data)),
		Data:     data,
		Preview:  dataURL(mimeType, data),
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		img.Width, img.Height = cfg.Width, cfg.Height
	}

	c.mu.Lock()
	c.selected = img
	c.mu.Unlock()

	c.log.Info("selected %s (%s, %d bytes, id=%s)", filename, mimeType, img.Size, img.ID)
	return img, nil
}

// Selected returns the current selection, or nil.
func (c *Controller) Selected() *domain.UploadedImage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Clear drops the current selection. The preview goes with it.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected != nil {
		c.log.Debug("cleared selection %s", c.selected.ID)
	}
	c.selected = nil
}

// Submit sends the current selection to the analyzer. The selection is
// kept whatever the outcome, so a failed analysis can be retried.
func (c *Controller) Submit(ctx context.Context) (*domain.IdentifiedDish, error) {
	img := c.Selected()
	if img == nil {
		return nil, domain.ErrNoImage
	}
	return c.analyzer.Analyze(ctx, img)
}

func (c *Controller) checkSize(filename string, size int64) error {
	if size > c.maxSize {
		return &domain.ValidationError{
			Field:   "image",
			Message: fmt.Sprintf("%s is %s, the limit is %s", filename, HumanSize(size), HumanSize(c.maxSize)),
		}
	}
	return nil
}

// NormalizePath cleans up a path that was pasted or dragged into the
// terminal: surrounding quotes, a file:// prefix, percent-encoding and
// backslash-escaped spaces are undone, and a leading ~ is expanded.
func NormalizePath(raw string) string {
	p := strings.TrimSpace(raw)
	if len(p) >= 2 && (p[0] == '"' || p[0] == '\'') && p[len(p)-1] == p[0] {
		p = p[1 : len(p)-1]
	}

	if strings.HasPrefix(p, "file://") {
		if u, err := url.Parse(p); err == nil && u.Path != "" {
			p = u.Path
		} else {
			p = strings.TrimPrefix(p, "file://")
		}
	}

	p = strings.ReplaceAll(p, `\ `, " ")

	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// LooksLikeImagePath reports whether input is plausibly a path to a photo,
// judging by its extension alone.
func LooksLikeImagePath(input string) bool {
	switch strings.ToLower(filepath.Ext(NormalizePath(input))) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".heic", ".heif", ".bmp":
		return true
	}
	return false
}

// HumanSize formats a byte count the way the preview shows it.
func HumanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func sniff(data []byte) string {
	mt := mimetype.Detect(data).String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.TrimSpace(mt)
}

func dataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
