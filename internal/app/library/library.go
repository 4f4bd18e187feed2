/*
Package library holds the rules of the private file library: which files a user may see,
how a file is previewed and which files can be edited live by a team.
*/
package library

import (
	"mime"
	"path/filepath"
	"strings"
	"time"

	"privlib/internal/pkg/errs"
)

const (
	// InlinePreviewLimit is the size under which any file is previewed inline.
	InlinePreviewLimit = 5 << 20

	// MaxInlinePreview caps inline previews of text and images, whatever their type.
	MaxInlinePreview = 20 << 20

	// PresignedURLDuration is how long a download link stays valid.
	PresignedURLDuration = 5 * time.Minute

	// MaxTeamNameLength bounds team names, in bytes.
	MaxTeamNameLength = 100

	// MaxTeamDescriptionLength bounds team descriptions, in bytes.
	MaxTeamDescriptionLength = 1000

	defaultContentType = "application/octet-stream"
)

// textExtensions are editable even when the browser reports a generic content type.
var textExtensions = map[string]string{
	".txt":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".json": "application/json",
	".xml":  "application/xml",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".html": "text/html",
	".css":  "text/css",
	".js":   "text/javascript",
	".ts":   "text/plain",
	".go":   "text/plain",
	".py":   "text/x-python",
	".sql":  "text/plain",
	".log":  "text/plain",
}

// Themes are the UI themes a user can pick.
var Themes = map[string]struct{}{
	"auto":     {},
	"natal":    {},
	"carnaval": {},
	"ano-novo": {},
	"pascoa":   {},
}

// PreviewKind tells the client how to render a preview.
type PreviewKind string

const (
	PreviewText   PreviewKind = "text"
	PreviewBase64 PreviewKind = "base64"
	PreviewStream PreviewKind = "stream"
)

// ContentType picks the stored content type of an upload: the declared one unless it is
// missing or generic, then the one implied by the extension.
func ContentType(fileName, declared string) string {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if declared != "" && declared != defaultContentType {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
			return mediaType
		}
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if ct, ok := textExtensions[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
			return mediaType
		}
	}

	return defaultContentType
}

// IsText reports whether a file is plain text that can be shown and edited as a string.
func IsText(fileType, fileName string) bool {
	if strings.HasPrefix(fileType, "text/") {
		return true
	}
	switch fileType {
	case "application/json", "application/xml", "application/yaml", "application/javascript":
		return true
	}
	_, ok := textExtensions[strings.ToLower(filepath.Ext(fileName))]
	return ok
}

// Preview decides how a file of the given type and size is previewed.
func Preview(fileType, fileName string, size int64) PreviewKind {
	inlineType := strings.HasPrefix(fileType, "image/") || IsText(fileType, fileName)

	if size >= InlinePreviewLimit && !(inlineType && size <= MaxInlinePreview) {
		return PreviewStream
	}
	if IsText(fileType, fileName) {
		return PreviewText
	}
	return PreviewBase64
}

// ValidateFileSize checks if the provided file size is within acceptable limits.
func ValidateFileSize(fileSize, limit int64) *errs.CustomError {
	if fileSize <= 0 {
		return errs.NewError(errs.ErrInvalidParams)
	}

	if fileSize > limit {
		return errs.NewError(errs.ErrFileSizeTooLarge)
	}

	return nil
}

// ValidateTeam checks a team name and description.
func ValidateTeam(name, description string) *errs.CustomError {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > MaxTeamNameLength || len(description) > MaxTeamDescriptionLength {
		return errs.NewError(errs.ErrTeamNameInvalid)
	}
	return nil
}

// ValidateTheme checks a theme name.
func ValidateTheme(theme string) *errs.CustomError {
	if _, ok := Themes[theme]; !ok {
		return errs.NewError(errs.ErrInvalidTheme)
	}
	return nil
}
