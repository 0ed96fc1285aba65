package storage

import (
	"net/http"
	"path"
	"strings"
)

const (
	BucketProfileImages    = "profile-images"
	BucketCareLogs         = "care-logs"
	BucketDocuments        = "documents"
	BucketAppointmentFiles = "appointment-files"
)

const (
	mb = int64(1 << 20)

	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"
	mimeWEBP = "image/webp"
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

type Bucket struct {
	Name    string
	MaxSize int64
	Allowed map[string]bool
	// Normalize re-encodes images to a 512px webp.
	Normalize bool
}

var buckets = map[string]Bucket{
	BucketProfileImages: {
		Name:      BucketProfileImages,
		MaxSize:   5 * mb,
		Allowed:   set(mimeJPEG, mimePNG, mimeWEBP),
		Normalize: true,
	},
	BucketCareLogs: {
		Name:    BucketCareLogs,
		MaxSize: 10 * mb,
		Allowed: set(mimeJPEG, mimePNG, mimeWEBP, mimePDF),
	},
	BucketDocuments: {
		Name:    BucketDocuments,
		MaxSize: 10 * mb,
		Allowed: set(mimeJPEG, mimePNG, mimeWEBP, mimePDF, mimeDOCX),
	},
	BucketAppointmentFiles: {
		Name:    BucketAppointmentFiles,
		MaxSize: 10 * mb,
		Allowed: set(mimeJPEG, mimePNG, mimeWEBP, mimePDF),
	},
}

func set(v ...string) map[string]bool {
	m := make(map[string]bool, len(v))
	for _, s := range v {
		m[s] = true
	}
	return m
}

func Lookup(name string) (Bucket, bool) {
	b, ok := buckets[name]
	return b, ok
}

// DetectType sniffs the content. Office documents are zip archives, so the
// file name decides between docx and a plain zip.
func DetectType(fileName string, data []byte) string {
	ct := http.DetectContentType(data)
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	if ct == "application/zip" && strings.EqualFold(path.Ext(fileName), ".docx") {
		return mimeDOCX
	}
	return ct
}

func extFor(ct string) string {
	switch ct {
	case mimeJPEG:
		return ".jpg"
	case mimePNG:
		return ".png"
	case mimeWEBP:
		return ".webp"
	case mimePDF:
		return ".pdf"
	case mimeDOCX:
		return ".docx"
	}
	return ""
}
