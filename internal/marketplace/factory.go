package marketplace

import (
	"fmt"

	"vsixinstall/internal/config"
	"vsixinstall/internal/utils"
)

// Factory creates marketplace providers based on type
type Factory struct {
	cfg    config.Config
	client *Client
	logger *utils.Logger
}

// NewFactory creates a new marketplace factory
func NewFactory(cfg config.Config, client *Client, logger *utils.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// CreateByType creates a marketplace provider by type
func (f *Factory) CreateByType(marketplaceType MarketplaceType) (MarketplaceProvider, error) {
	switch marketplaceType {
	case MarketplaceTypeMicrosoft, "":
		return NewMicrosoft(f.cfg.MarketplaceURL, f.cfg.PageFragments, f.client, f.logger), nil
	case MarketplaceTypeGallery:
		return NewGallery(f.cfg.GalleryURL, f.client, f.logger), nil
	case MarketplaceTypeOpenVSX:
		return NewOpenVSX(f.cfg.OpenVSXURL, f.client, f.logger), nil
	default:
		return nil, fmt.Errorf("unknown marketplace type: %s", marketplaceType)
	}
}
