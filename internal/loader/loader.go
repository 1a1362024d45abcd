package loader

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"
	ignore "github.com/sabhiram/go-gitignore"
)

// ChangedFile is a source file queued for review.
type ChangedFile struct {
	Path      string
	Content   string
	LineCount int
}

// Options filters which manifest entries are loaded.
type Options struct {
	// Exclude holds gitignore-style patterns; matching paths are skipped.
	Exclude []string
	// Extensions, when non-empty, restricts loading to these file extensions.
	Extensions []string
	// MaxFileBytes skips files larger than this many bytes (0 = unlimited).
	MaxFileBytes int64
	Logger       hclog.Logger
}

// Load reads manifestPath and returns the listed files that exist on disk,
// in manifest order. A missing manifest yields an empty result.
func Load(manifestPath string, opts Options) ([]ChangedFile, error) {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	paths, err := ReadManifest(manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("no changed files manifest found", "manifest", manifestPath)
			return []ChangedFile{}, nil
		}
		return nil, err
	}

	var gi *ignore.GitIgnore
	if len(opts.Exclude) > 0 {
		gi = ignore.CompileIgnoreLines(opts.Exclude...)
	}

	files := make([]ChangedFile, 0, len(paths))
	for _, path := range paths {
		if gi != nil && gi.MatchesPath(path) {
			logger.Debug("excluded by pattern", "path", path)
			continue
		}
		if !hasExtension(path, opts.Extensions) {
			logger.Debug("excluded by extension", "path", path)
			continue
		}

		f, ok := loadFile(path, opts.MaxFileBytes, logger)
		if !ok {
			continue
		}
		logger.Info("loaded file", "path", f.Path, "lines", f.LineCount)
		files = append(files, f)
	}
	return files, nil
}

// ReadManifest returns the non-blank, trimmed lines of the manifest file.
func ReadManifest(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var paths []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			paths = append(paths, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning manifest: %w", err)
	}
	return paths, nil
}

func loadFile(path string, maxBytes int64, logger hclog.Logger) (ChangedFile, bool) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("listed file does not exist", "path", path)
		} else {
			logger.Warn("cannot stat file, skipping", "path", path, "error", err)
		}
		return ChangedFile{}, false
	}
	if info.IsDir() {
		logger.Warn("listed path is a directory, skipping", "path", path)
		return ChangedFile{}, false
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		logger.Warn("file exceeds size limit, skipping", "path", path, "bytes", info.Size(), "limit", maxBytes)
		return ChangedFile{}, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("error reading file, skipping", "path", path, "error", err)
		return ChangedFile{}, false
	}
	if !utf8.Valid(data) {
		logger.Warn("file is not valid UTF-8, skipping", "path", path)
		return ChangedFile{}, false
	}

	content := string(data)
	return ChangedFile{
		Path:      path,
		Content:   content,
		LineCount: CountLines(content),
	}, true
}

// CountLines returns the number of newline-delimited lines in s. A trailing
// newline does not start a new line.
func CountLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

func hasExtension(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(ext, "."+strings.TrimPrefix(e, ".")) {
			return true
		}
	}
	return false
}
