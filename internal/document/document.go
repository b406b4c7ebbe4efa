package document

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
)

// Untitled is the display name of a document that has never been saved.
const Untitled = "Untitled"

// ErrNoPath is returned by Save when the document has no destination yet.
var ErrNoPath = errors.New("document has no path")

// Document is the in-memory buffer of the open file.
// modified always equals content != original.
type Document struct {
	content  string
	original string
	path     string
	modified bool
}

// New returns an empty, untitled document.
func New() *Document { return &Document{} }

func (d *Document) Content() string  { return d.content }
func (d *Document) Original() string { return d.original }
func (d *Document) Path() string     { return d.path }
func (d *Document) HasPath() bool    { return d.path != "" }
func (d *Document) Modified() bool   { return d.modified }

// Name returns the path, or Untitled when there is none.
func (d *Document) Name() string {
	if d.path == "" {
		return Untitled
	}
	return d.path
}

// SetContent replaces the buffer and recomputes the dirty flag against the
// last saved content. The saved content itself is not touched.
func (d *Document) SetContent(s string) {
	d.content = s
	d.modified = d.content != d.original
}

// Reset clears content, path and dirty flag.
func (d *Document) Reset() {
	d.content = ""
	d.original = ""
	d.path = ""
	d.modified = false
}

// Open replaces the document with the file at path. On error the document is
// left exactly as it was.
func (d *Document) Open(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	d.content = string(data)
	d.original = d.content
	d.path = path
	d.modified = false
	return nil
}

// NeedsPath reports whether saving requires asking for a destination first.
func (d *Document) NeedsPath(asNew bool) bool {
	return asNew || d.path == ""
}

// Save writes the buffer to the current path.
func (d *Document) Save() error {
	if d.path == "" {
		return ErrNoPath
	}
	return d.writeTo(d.path)
}

// SaveAs writes the buffer to path and adopts it as the document path.
func (d *Document) SaveAs(path string) error {
	if path == "" {
		return ErrNoPath
	}
	if err := d.writeTo(path); err != nil {
		return err
	}
	d.path = path
	return nil
}

func (d *Document) writeTo(path string) error {
	if err := WriteFileAtomic(path, []byte(d.content)); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	d.original = d.content
	d.modified = false
	return nil
}

// Fingerprint returns the BLAKE3 digest of the current content.
func (d *Document) Fingerprint() string {
	return Fingerprint(d.content)
}

// Fingerprint returns the hex BLAKE3 digest of s.
func Fingerprint(s string) string {
	sum := blake3.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// WriteFileAtomic writes data to a temp file next to path and renames it over
// path, so readers see either the old or the new content. An existing file
// keeps its permission bits. A symlink is written through: its final target
// is replaced and the link stays.
func WriteFileAtomic(path string, data []byte) error {
	path, err := resolveLink(path)
	if err != nil {
		return err
	}
	mode := fs.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		if !fi.Mode().IsRegular() {
			return fmt.Errorf("%s is not a regular file", path)
		}
		mode = fi.Mode().Perm()
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}

// resolveLink follows path to the file it names when path is a symlink. A
// dangling link resolves to its (missing) target so the save creates it.
func resolveLink(path string) (string, error) {
	fi, err := os.Lstat(path)
	if err != nil || fi.Mode()&fs.ModeSymlink == 0 {
		return path, nil
	}
	if target, err := filepath.EvalSymlinks(path); err == nil {
		return target, nil
	}
	for i := 0; i < 40; i++ {
		dest, err := os.Readlink(path)
		if err != nil {
			return "", err
		}
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(filepath.Dir(path), dest)
		}
		path = dest
		fi, err := os.Lstat(path)
		if err != nil || fi.Mode()&fs.ModeSymlink == 0 {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s: too many levels of symbolic links", path)
}
