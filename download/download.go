// Package download persists attachment replies. Disk writes into a local
// directory; Minio uploads into an object store bucket.
package download

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/kochabx/requex/errors"
	"github.com/kochabx/requex/log"
)

// DefaultName is used when the reply did not name the file
const DefaultName = "download"

var ErrInvalidDir = errors.BadRequest("download directory cannot be empty")

// Disk saves files into a directory, never overwriting an existing file
type Disk struct {
	dir    string
	perm   os.FileMode
	logger *log.Logger
}

// DiskOption configures Disk
type DiskOption func(*Disk)

// WithPerm sets the mode of written files
func WithPerm(perm os.FileMode) DiskOption {
	return func(d *Disk) {
		d.perm = perm
	}
}

// WithLogger sets the logger that reports saved files
func WithLogger(logger *log.Logger) DiskOption {
	return func(d *Disk) {
		d.logger = logger
	}
}

// NewDisk creates a Disk saver, creating dir if needed
func NewDisk(dir string, opts ...DiskOption) (*Disk, error) {
	if dir == "" {
		return nil, ErrInvalidDir
	}
	d := &Disk{dir: dir, perm: 0o644, logger: log.G()}
	for _, opt := range opts {
		opt(d)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Internal("create download directory").WithCause(err)
	}
	return d, nil
}

// Save implements response.FileSaver and reports the final path through
// the logger. Name clashes get a " (n)" suffix.
func (d *Disk) Save(body []byte, filename, mime string) error {
	_, err := d.SaveFile(body, filename, mime)
	return err
}

// SaveFile is Save returning the written path
func (d *Disk) SaveFile(body []byte, filename, mime string) (string, error) {
	name := Sanitize(filename, mime)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for i := 0; ; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		path := filepath.Join(d.dir, candidate)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, d.perm)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", errors.Internal("open download file").WithCause(err)
		}

		_, werr := f.Write(body)
		cerr := f.Close()
		if err := errors.Join(werr, cerr); err != nil {
			_ = os.Remove(path)
			return "", errors.Internal("write download file").WithCause(err)
		}

		d.logger.Info().Str("path", path).Int("size", len(body)).Msg("file downloaded")
		return path, nil
	}
}

// Sanitize reduces filename to a safe base name. An empty name becomes
// DefaultName with the extension of mime.
func Sanitize(filename, mime string) string {
	name := strings.ReplaceAll(filename, "\\", "/")
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(`<>:"|?*`, r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	if name == "" || name == "." || name == ".." || name == "/" {
		name = DefaultName
		if m := mimetype.Lookup(baseMime(mime)); m != nil {
			name += m.Extension()
		}
	}
	return name
}

func baseMime(mime string) string {
	base, _, _ := strings.Cut(mime, ";")
	return strings.TrimSpace(base)
}
