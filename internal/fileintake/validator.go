package fileintake

import (
	"fmt"
	"strings"
)

const (
	// MaxFileSize is the per-file size cap (5 MiB)
	MaxFileSize = 5 << 20
	// MaxEvidenceFiles caps the continuing-education evidence set
	MaxEvidenceFiles = 5
)

// forbidden filename characters, checked before any upload attempt
const forbiddenNameChars = `<>:"/\|?*`

var allowedMIMETypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

// Kind distinguishes what a file proves
type Kind string

const (
	// KindEvidence is a continuing-education evidence document
	KindEvidence Kind = "evidence"
	// KindCompletionCert is the education-completion certificate, required
	// when education was already completed elsewhere
	KindCompletionCert Kind = "completion-certificate"
)

// File is a staged candidate file, validated before upload
type File struct {
	Name    string
	Size    int64
	MIME    string
	Kind    Kind
	Content []byte
}

// Validate checks a single candidate file against the intake rules.
// All rules are enforced before any upload attempt.
func Validate(name string, size int64, mime string) error {
	if size > MaxFileSize {
		return fmt.Errorf("file %q exceeds the 5 MiB size limit", name)
	}
	if size <= 0 {
		return fmt.Errorf("file %q is empty", name)
	}
	if !allowedMIMETypes[mime] {
		return fmt.Errorf("file %q has unsupported type %q (allowed: PDF, JPEG, PNG)", name, mime)
	}
	if name == "" {
		return fmt.Errorf("file name is empty")
	}
	if strings.ContainsAny(name, forbiddenNameChars) {
		return fmt.Errorf("file name %q contains forbidden characters", name)
	}
	return nil
}

// ValidateBatch checks every file in an intake batch and the evidence cap.
// A batch over the cap is rejected whole, never silently truncated.
func ValidateBatch(files []File) error {
	evidence := 0
	for _, f := range files {
		if err := Validate(f.Name, f.Size, f.MIME); err != nil {
			return err
		}
		if f.Kind == KindEvidence {
			evidence++
		}
	}
	if evidence > MaxEvidenceFiles {
		return fmt.Errorf("too many evidence files: %d submitted, at most %d allowed", evidence, MaxEvidenceFiles)
	}
	return nil
}
