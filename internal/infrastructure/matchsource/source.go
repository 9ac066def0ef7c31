package matchsource

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
)

var (
	ErrFileNotFound = crerr.New("match file not found")
	ErrInvalidName  = crerr.New("invalid match file name")
)

const DefaultPattern = "*.json"

// Source lists and reads match report files by name.
type Source interface {
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, name string) ([]byte, error)
}

// Directory serves match files from one flat directory.
type Directory struct {
	root    string
	pattern string
}

func NewDirectory(root, pattern string) (*Directory, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, crerr.New("match data dir is required")
	}
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		pattern = DefaultPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, crerr.Wrapf(err, "invalid match file pattern %q", pattern)
	}
	return &Directory{root: root, pattern: pattern}, nil
}

func (d *Directory) Root() string {
	return d.root
}

// List returns matching regular files sorted by name. Subdirectories are not walked.
func (d *Directory) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, crerr.Wrapf(err, "list match dir %s", d.root)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.Type().IsRegular() {
			continue
		}
		ok, err := filepath.Match(d.pattern, entry.Name())
		if err != nil {
			return nil, crerr.Wrapf(err, "match pattern %q", d.pattern)
		}
		if ok {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (d *Directory) Read(_ context.Context, name string) ([]byte, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return nil, crerr.Wrapf(ErrInvalidName, "%q", name)
	}

	f, err := os.Open(filepath.Join(d.root, name))
	if err != nil {
		if crerr.Is(err, fs.ErrNotExist) {
			return nil, crerr.Wrapf(ErrFileNotFound, "%s", name)
		}
		return nil, crerr.Wrapf(err, "open match file %s", name)
	}
	defer f.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(f); err != nil {
		return nil, crerr.Wrapf(err, "read match file %s", name)
	}
	// The pooled buffer is reused after Put.
	return append([]byte(nil), buf.B...), nil
}
