package learningfiles

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"agent_console/internal/httpx"
)

// Reader lists and serves markdown files from the learnings directory.
// Only .md files directly inside the directory are visible.
type Reader struct {
	dir string
}

// NewReader creates a new Reader
func NewReader(dir string) *Reader {
	return &Reader{dir: dir}
}

// FileInfo describes one markdown file.
type FileInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// List returns the markdown files, newest first. A missing directory
// yields an empty list, not an error.
func (r *Reader) List() ([]FileInfo, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []FileInfo{}, nil
		}
		return nil, httpx.ErrInternalError("failed to read learnings directory", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:     entry.Name(),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Modified.After(files[j].Modified) })
	return files, nil
}

// Read returns the raw content of one markdown file. Names with path
// separators or a non-.md suffix are rejected before touching the
// filesystem.
func (r *Reader) Read(name string) ([]byte, error) {
	if !validName(name) {
		return nil, httpx.ErrParamInvalid("invalid file name")
	}
	raw, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, httpx.ErrNotFound("file not found")
		}
		return nil, httpx.ErrInternalError("failed to read file", err)
	}
	return raw, nil
}

func validName(name string) bool {
	if name == "" || !strings.HasSuffix(name, ".md") {
		return false
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return false
	}
	return filepath.Base(name) == name
}
