package constants

// Allowed upload MIME types. The emulator mirrors the Cloud API's image
// endpoint and only accepts JPEG and PNG.
var AllowedMediaMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// AllowedMediaMimeTypeList is the stable ordering used in error messages.
var AllowedMediaMimeTypeList = []string{"image/jpeg", "image/png"}
