package security

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrExtensionNotAllowed = errors.New("file extension not allowed")
	ErrMIMENotAllowed      = errors.New("declared content type not allowed")
	ErrContentMismatch     = errors.New("file content does not match extension")
)

// FileKind is a family of uploads sharing one whitelist.
type FileKind struct {
	// extension -> accepted declared MIME types
	mimeTypes map[string][]string
	// extension -> accepted magic byte prefixes
	magic map[string][][]byte
	// extension -> accepted sniffed MIME types
	sniffed map[string][]string
}

// ResumeFiles accepts PDF, DOC and DOCX documents.
var ResumeFiles = FileKind{
	mimeTypes: map[string][]string{
		".pdf":  {"application/pdf"},
		".doc":  {"application/msword"},
		".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	},
	magic: map[string][][]byte{
		".pdf":  {{0x25, 0x50, 0x44, 0x46}},                         // %PDF
		".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}}, // OLE compound document
		".docx": {{0x50, 0x4B, 0x03, 0x04}},                         // ZIP
	},
	sniffed: map[string][]string{
		".pdf":  {"application/pdf"},
		".doc":  {"application/msword", "application/x-ole-storage"},
		".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
	},
}

// LogoImages accepts JPEG and PNG images.
var LogoImages = FileKind{
	mimeTypes: map[string][]string{
		".jpg":  {"image/jpeg"},
		".jpeg": {"image/jpeg"},
		".png":  {"image/png"},
	},
	magic: map[string][][]byte{
		".jpg":  {{0xFF, 0xD8, 0xFF}},
		".jpeg": {{0xFF, 0xD8, 0xFF}},
		".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	},
	sniffed: map[string][]string{
		".jpg":  {"image/jpeg"},
		".jpeg": {"image/jpeg"},
		".png":  {"image/png"},
	},
}

// Validate checks, in order, the extension whitelist, the declared MIME type
// (skipped when empty) and the file head against the extension's signature.
// It returns the lowercased extension on success.
func (k FileKind) Validate(filename, declaredMIME string, head []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	allowed, ok := k.mimeTypes[ext]
	if !ok {
		return "", ErrExtensionNotAllowed
	}

	if declaredMIME != "" {
		declared := strings.ToLower(strings.TrimSpace(strings.SplitN(declaredMIME, ";", 2)[0]))
		if !contains(allowed, declared) {
			return "", ErrMIMENotAllowed
		}
	}

	if !hasPrefix(head, k.magic[ext]) {
		return "", ErrContentMismatch
	}

	detected := mimetype.Detect(head)
	for m := detected; m != nil; m = m.Parent() {
		for _, want := range k.sniffed[ext] {
			if m.Is(want) {
				return ext, nil
			}
		}
	}
	return "", ErrContentMismatch
}

// ContentType returns the canonical MIME type stored for ext.
func (k FileKind) ContentType(ext string) string {
	if types := k.mimeTypes[strings.ToLower(ext)]; len(types) > 0 {
		return types[0]
	}
	return "application/octet-stream"
}

func hasPrefix(data []byte, signatures [][]byte) bool {
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
