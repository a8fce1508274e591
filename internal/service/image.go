package service

import (
	"fmt"
	"io"
	"mime/multipart"
)

// MaxImageBytes upload cap for contact photos; larger files fail validation.
const MaxImageBytes = 5 << 20

// ImageFromUpload converts an uploaded multipart file into the stored form
// (raw bytes + content type). Pure transform apart from the size cap.
func ImageFromUpload(fh *multipart.FileHeader) (*StoredImage, error) {
	if fh == nil {
		return nil, nil
	}
	if fh.Size > MaxImageBytes {
		ve := newValidationError()
		ve.Fields["image"] = fmt.Sprintf("image exceeds %d bytes", MaxImageBytes)
		return nil, ve
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > MaxImageBytes {
		ve := newValidationError()
		ve.Fields["image"] = fmt.Sprintf("image exceeds %d bytes", MaxImageBytes)
		return nil, ve
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &StoredImage{Data: data, ContentType: contentType}, nil
}
