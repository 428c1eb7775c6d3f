package classify

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const fallbackType = "application/octet-stream"

// Detect sniffs the stored bytes for a MIME type and, when the type has
// a well-known extension, that extension without its leading dot. The
// client-declared filename or content type is never consulted. An
// unrecognized buffer yields application/octet-stream, never an error.
func Detect(content []byte) (string, string) {
	if len(content) == 0 {
		return fallbackType, ""
	}

	mtype := mimetype.Detect(content)

	ext := strings.TrimPrefix(mtype.Extension(), ".")
	return mtype.String(), ext
}
