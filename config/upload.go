package config

import (
	"os"
	"strconv"
	"strings"
)

const DefaultMaxUploadSize = 5 * 1024 * 1024 // 5MB per image

var defaultImageTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/gif"}

// AllowedExtensions is fixed: the site only ever accepted these four.
var AllowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}

// UploadConfig carries the image acceptance rules for report submissions.
type UploadConfig struct {
	MaxUploadSize     int64
	AllowedImageTypes []string
}

// GetUploadConfig reads MAX_UPLOAD_SIZE (bytes) and ALLOWED_IMAGE_TYPES
// (comma-separated MIME types) from the environment, falling back to the
// historical defaults.
func GetUploadConfig() *UploadConfig {
	cfg := &UploadConfig{
		MaxUploadSize:     DefaultMaxUploadSize,
		AllowedImageTypes: defaultImageTypes,
	}

	if raw := os.Getenv("MAX_UPLOAD_SIZE"); raw != "" {
		if size, err := strconv.ParseInt(raw, 10, 64); err == nil && size > 0 {
			cfg.MaxUploadSize = size
		}
	}

	if raw := os.Getenv("ALLOWED_IMAGE_TYPES"); raw != "" {
		var types []string
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
		if len(types) > 0 {
			cfg.AllowedImageTypes = types
		}
	}

	return cfg
}

// IsAllowedType checks the declared Content-Type against the whitelist.
func (c *UploadConfig) IsAllowedType(contentType string) bool {
	for _, t := range c.AllowedImageTypes {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}

// IsAllowedExtension checks a lowercased filename extension.
func (c *UploadConfig) IsAllowedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
