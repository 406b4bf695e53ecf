// Package gateway turns each backend operation into one typed call. Every
// failure comes back as a *domain.OperationError carrying a message fit
// for the user.
package gateway

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/platechef/internal/api"
	"github.com/hammamikhairi/platechef/internal/domain"
	"github.com/hammamikhairi/platechef/internal/logger"
)

// Default backend paths.
const (
	DefaultIdentifyPath = "/images/identify-dish"
	DefaultGeneratePath = "/recipes/generate"
	DefaultHealthPath   = "/api/health"

	// imageField is the multipart field the backend reads the photo from.
	imageField = "image"
)

// Env var names for overriding the backend paths.
const (
	EnvIdentifyPath = "PLATECHEF_IDENTIFY_PATH"
	EnvGeneratePath = "PLATECHEF_GENERATE_PATH"
	EnvHealthPath   = "PLATECHEF_HEALTH_PATH"
)

// Compile-time interface check.
var _ domain.DishIdentifier = (*Images)(nil)

// ImagesOption configures Images.
type ImagesOption func(*Images)

// WithIdentifyPath overrides the analysis endpoint, e.g. "/api/images/analyze"
// for the ingredient-only backend.
func WithIdentifyPath(path string) ImagesOption {
	return func(g *Images) {
		if path != "" {
			g.path = path
		}
	}
}

// Images is the image analysis gateway.
type Images struct {
	client *api.Client
	path   string
	log    *logger.Logger
}

// NewImages creates the image analysis gateway.
func NewImages(client *api.Client, log *logger.Logger, opts ...ImagesOption) *Images {
	g := &Images{client: client, path: DefaultIdentifyPath, log: log}
	for _, o := range opts {
		o(g)
	}
	return g
}

// IdentifyDish uploads the photo and returns the backend's description
// verbatim. Size is the caller's concern; only the MIME type is checked.
func (g *Images) IdentifyDish(ctx context.Context, img *domain.UploadedImage) (*domain.IdentifiedDish, error) {
	if img == nil {
		return nil, &domain.ValidationError{Field: "image", Message: "no image selected"}
	}
	if !domain.IsImageMIME(img.MIMEType) {
		return nil, &domain.ValidationError{
			Field:   "image",
			Message: fmt.Sprintf("%s is not an image (%s)", img.Filename, img.MIMEType),
		}
	}

	g.log.Info("analyzing %s (%s, %d bytes)", img.Filename, img.MIMEType, len(img.Data))

	var dish domain.IdentifiedDish
	err := g.client.PostMultipart(ctx, g.path, imageField, img.Filename, img.MIMEType, img.Data, &dish)
	if err != nil {
		return nil, domain.NewOperationError(domain.OpAnalyze, api.MessageOf(err), err)
	}

	g.log.Info("identified %q with %d ingredient(s)", dish.DishName, len(dish.Ingredients))
	return &dish, nil
}
