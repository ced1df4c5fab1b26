package http

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"

	"github.com/mediavault/mediavault"
)

// sniffKind determines the content kind of an uploaded payload by
// inspecting its leading bytes, then rewinds the file. The declared
// Content-Type of the part, when present and recognized, must agree
// with the sniffed kind; a payload that is neither a JPEG image nor an
// MP4 video is rejected.
func sniffKind(file multipart.File, declared string) (mediavault.ContentKind, error) {
	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", fmt.Errorf("%w: could not inspect payload: %v", mediavault.ErrInvalidInput, err)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind payload: %w", err)
	}

	kind, err := mediavault.ParseContentKind(mtype.String())
	if err != nil {
		return "", fmt.Errorf("%w: payload type %s is not supported (allowed: %s, %s)",
			mediavault.ErrInvalidInput, mtype.String(), mediavault.KindImage, mediavault.KindVideo)
	}

	if declared != "" && declared != "application/octet-stream" {
		declaredKind, err := mediavault.ParseContentKind(declared)
		if err != nil {
			return "", err
		}
		if declaredKind != kind {
			return "", fmt.Errorf("%w: declared content type %s does not match payload (%s)",
				mediavault.ErrInvalidInput, declared, kind)
		}
	}

	return kind, nil
}
