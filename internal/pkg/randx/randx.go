/*
Package randx generates identifiers: UUIDs for records and object-storage keys for uploaded files.
*/
package randx

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// ID returns a new random UUID v4 string, used for users, teams, files, chat messages and connections.
func ID() string {
	return uuid.New().String()
}

// IsValidID reports whether s parses as a UUID.
func IsValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// ObjectKey builds the storage key for a file: "<owner>/<fileID><ext>".
// The extension is taken from the original name, lower-cased, and dropped if it looks unsafe.
func ObjectKey(owner, fileID, originalName string) string {
	ext := strings.ToLower(path.Ext(originalName))
	if len(ext) > 16 || strings.ContainsAny(ext, "/\\ ") {
		ext = ""
	}
	return owner + "/" + fileID + ext
}
