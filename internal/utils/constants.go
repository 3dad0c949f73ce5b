package utils

const (
	ContentTypeHeader = "Content-Type"
	AcceptHeader      = "Accept"
	UserAgentHeader   = "User-Agent"
)

const (
	JSONContentType        = "application/json"
	HTMLContentType        = "text/html; charset=utf-8"
	OctetStreamContentType = "application/octet-stream"
	GalleryAccept          = "application/json;api-version=3.0-preview.1"
)

const (
	VSIXPackageAssetType = "Microsoft.VisualStudio.Services.VSIXPackage"
	VSIXExtension        = ".vsix"
)

const (
	PackageJSONPath = "extension/package.json"
	PackageNLSPath  = "extension/package.nls.json"
)

// Gallery extensionquery parameters.
const (
	GalleryFilterTypeName = 7
	GalleryQueryFlags     = 2151
)
