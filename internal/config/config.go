package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultMarketplaceURL = "https://marketplace.visualstudio.com"
	DefaultGalleryURL     = "https://marketplace.visualstudio.com/_apis/public/gallery/extensionquery"
	DefaultOpenVSXURL     = "https://open-vsx.org"
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

var (
	DefaultPageFragments    = []string{"overview", "review-details", "qna", "version-history"}
	DefaultEditorCandidates = []string{"code", "codium", "vscodium"}
)

type Config struct {
	MarketplaceType string
	MarketplaceURL  string
	GalleryURL      string
	OpenVSXURL      string
	PageFragments   []string

	HTTPTimeout time.Duration
	UserAgent   string

	OutputDir string

	EditorCommand    string
	EditorCandidates []string

	LogLevel string
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("marketplace.type", "microsoft")
	v.SetDefault("marketplace.url", DefaultMarketplaceURL)
	v.SetDefault("marketplace.gallery_url", DefaultGalleryURL)
	v.SetDefault("marketplace.openvsx_url", DefaultOpenVSXURL)
	v.SetDefault("marketplace.page_fragments", DefaultPageFragments)

	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.user_agent", DefaultUserAgent)

	v.SetDefault("output.directory", ".")

	v.SetDefault("editor.command", "")
	v.SetDefault("editor.candidates", DefaultEditorCandidates)

	v.SetDefault("log.level", "info")
}

func GetConfig() Config {
	return FromViper(viper.GetViper())
}

func FromViper(v *viper.Viper) Config {
	return Config{
		MarketplaceType: v.GetString("marketplace.type"),
		MarketplaceURL:  v.GetString("marketplace.url"),
		GalleryURL:      v.GetString("marketplace.gallery_url"),
		OpenVSXURL:      v.GetString("marketplace.openvsx_url"),
		PageFragments:   v.GetStringSlice("marketplace.page_fragments"),

		HTTPTimeout: v.GetDuration("http.timeout"),
		UserAgent:   v.GetString("http.user_agent"),

		OutputDir: v.GetString("output.directory"),

		EditorCommand:    v.GetString("editor.command"),
		EditorCandidates: v.GetStringSlice("editor.candidates"),

		LogLevel: v.GetString("log.level"),
	}
}
