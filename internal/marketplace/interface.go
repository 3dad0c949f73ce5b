package marketplace

import (
	"context"
	"errors"

	"vsixinstall/internal/models"
)

var (
	ErrResolutionExhausted = errors.New("resolution exhausted")
	ErrExtensionNotFound   = errors.New("extension not found")
)

// MarketplaceProvider defines the interface for different marketplace implementations
type MarketplaceProvider interface {
	Resolve(ctx context.Context, id models.Identifier) (*ExtensionInfo, error)
	GetName() string
}

// MarketplaceType represents the type of marketplace
type MarketplaceType string

const (
	MarketplaceTypeMicrosoft MarketplaceType = "microsoft"
	MarketplaceTypeGallery   MarketplaceType = "gallery"
	MarketplaceTypeOpenVSX   MarketplaceType = "open-vsx"
)

// ExtensionInfo is the outcome of a successful resolution. Only ID, Publisher,
// Name and DownloadURL are guaranteed; the API-backed providers fill the rest.
type ExtensionInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Version     string `json:"version"`
	Publisher   string `json:"publisher"`
	DownloadURL string `json:"downloadUrl"`
}
