package ingest

import (
	"fmt"
	"io"
	"os"

	"resumeparser/internal/errors"
	"resumeparser/internal/utils"
)

// Loader reads input files from disk
type Loader struct {
	maxSize int64
	logger  *errors.Logger
}

// NewLoader creates a loader. A maxSize of zero or less disables the size check.
func NewLoader(maxSize int64, logger *errors.Logger) *Loader {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	return &Loader{maxSize: maxSize, logger: logger}
}

// Load validates, reads and decodes one file
func (l *Loader) Load(filename string) (Document, error) {
	if err := utils.ValidateInputFile(filename); err != nil {
		return Document{}, errors.NewValidationError("INVALID_INPUT_FILE",
			fmt.Sprintf("Invalid file %s", filename), err)
	}

	format, err := FormatFromName(filename)
	if err != nil {
		return Document{}, err
	}
	if format == FormatText && !IsKnownText(filename) {
		l.logger.Warn("File may not be a text file, reading it as text", "filename", filename)
	}

	data, err := l.read(filename)
	if err != nil {
		return Document{}, err
	}
	return Decode(filename, format, data)
}

// LoadAll loads every file, stopping at the first failure
func (l *Loader) LoadAll(filenames ...string) ([]Document, error) {
	docs := make([]Document, 0, len(filenames))
	for _, filename := range filenames {
		doc, err := l.Load(filename)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (l *Loader) read(filename string) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			l.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	var r io.Reader = file
	if l.maxSize > 0 {
		r = io.LimitReader(file, l.maxSize+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}
	if l.maxSize > 0 && int64(len(content)) > l.maxSize {
		return nil, errors.NewValidationError(errors.ErrCodeInputTooLarge,
			fmt.Sprintf("File %s exceeds the maximum size of %s", filename, utils.FormatFileSize(l.maxSize)), nil).
			WithContext("max_bytes", l.maxSize)
	}
	return content, nil
}
