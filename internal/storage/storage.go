// Package storage persists uploaded media files under a content directory,
// organized by kind. Paths handed back to callers are always relative to the
// upload root; the database never sees an absolute path.
package storage

import (
	"io"

	"treva/internal/models"
)

// MediaStore abstracts the backing file store so services and tests do not
// touch the filesystem directly.
type MediaStore interface {
	// Save writes the stream and returns the stored path relative to the
	// upload root, e.g. "images/3f2a9c0d1e4b5a67_1714650000.jpg".
	Save(mediaType, ext string, r io.Reader) (string, error)
	// Remove deletes a previously saved file. Removing a missing file is
	// not an error.
	Remove(relPath string) error
}

// MIME allow-lists. Anything outside these two maps is rejected before a
// byte is written.
var imageMIME = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

var videoMIME = map[string]string{
	"video/mp4":        "mp4",
	"video/quicktime":  "mov",
	"video/webm":       "webm",
	"video/x-matroska": "mkv",
}

// KindForMIME maps an upload content type to a media kind and file
// extension. ok is false for anything outside the allow-lists.
func KindForMIME(mime string) (kind, ext string, ok bool) {
	if e, found := imageMIME[mime]; found {
		return models.MediaTypeImage, e, true
	}
	if e, found := videoMIME[mime]; found {
		return models.MediaTypeVideo, e, true
	}
	return "", "", false
}
