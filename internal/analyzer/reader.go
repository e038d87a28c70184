package analyzer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"resumine/internal/errors"
	"resumine/internal/utils"
)

// ReadResume reads a resume with the analyzer's size limit.
func (a *Analyzer) ReadResume(path string) (string, error) {
	return ReadResume(path, a.opts.MaxFileSize)
}

// ReadResume returns the text of a .txt resume. Other extensions, missing
// or unreadable files, files over maxSize bytes and whitespace-only content
// are errors. maxSize <= 0 disables the size check.
func ReadResume(path string, maxSize int64) (string, error) {
	if !utils.IsResumeFile(path) {
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedFileType,
			fmt.Sprintf("only %s resumes are supported: %s", utils.ResumeExtension, path), nil).
			WithContext("file_path", path)
	}

	if err := utils.ValidateInputFile(path); err != nil {
		code := errors.ErrCodeFileNotReadable
		if os.IsNotExist(statErr(path)) {
			code = errors.ErrCodeFileNotFound
		}
		return "", errors.NewIOError(code, "cannot open resume", err).WithContext("file_path", path)
	}

	content, err := readLimited(path, maxSize)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable, "cannot read resume", err).
			WithContext("file_path", path)
	}
	if maxSize > 0 && int64(len(content)) > maxSize {
		return "", errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("resume exceeds the maximum size of %s", utils.FormatFileSize(maxSize)), nil).
			WithContext("file_path", path)
	}

	text := string(content)
	if strings.TrimSpace(text) == "" {
		return "", errors.NewValidationError(errors.ErrCodeEmptyContent, "resume is empty", nil).
			WithContext("file_path", path)
	}
	return text, nil
}

// readLimited reads at most maxSize+1 bytes so oversize files are detected
// without loading them whole.
func readLimited(path string, maxSize int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if maxSize > 0 {
		r = io.LimitReader(f, maxSize+1)
	}
	return io.ReadAll(r)
}

func statErr(path string) error {
	_, err := os.Stat(path)
	return err
}
