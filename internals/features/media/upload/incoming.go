package upload

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	pkgerrors "github.com/pkg/errors"

	ossHelper "schooladmin_backend/internals/helpers/oss"
)

var ErrNoFiles = errors.New("no files selected")

// File is one received upload, spooled to a temp file.
type File struct {
	Path        string
	Name        string
	ContentType string
	Size        int64
}

// Batch is the spooled selection of one request. Cleanup removes the temp
// directory once the uploads are finished.
type Batch struct {
	Files []File
	dir   string
}

func (b *Batch) Names() []string {
	out := make([]string, len(b.Files))
	for i, f := range b.Files {
		out[i] = f.Name
	}
	return out
}

func (b *Batch) Cleanup() {
	if b == nil || b.dir == "" {
		return
	}
	if err := os.RemoveAll(b.dir); err != nil {
		log.Printf("[WARN] remove upload spool %s: %v", b.dir, err)
	}
}

// Receive spools the multipart files under field. Empty parts are dropped;
// ErrNoFiles is returned when nothing is left.
func Receive(c *fiber.Ctx, field string) (*Batch, error) {
	form, err := c.MultipartForm()
	if err != nil {
		log.Printf("[WARN] read multipart form: %v", err)
		return nil, ErrNoFiles
	}
	var headers []*multipart.FileHeader
	for _, fh := range form.File[field] {
		if fh != nil && fh.Size > 0 {
			headers = append(headers, fh)
		}
	}
	if len(headers) == 0 {
		return nil, ErrNoFiles
	}

	dir, err := os.MkdirTemp("", "schooladmin-upload-*")
	if err != nil {
		return nil, pkgerrors.Wrap(err, "create upload spool")
	}
	b := &Batch{dir: dir}
	for i, fh := range headers {
		name := filepath.Base(fh.Filename)
		path := filepath.Join(dir, spoolName(i, name))
		if err := c.SaveFile(fh, path); err != nil {
			b.Cleanup()
			return nil, pkgerrors.Wrapf(err, "spool %s", name)
		}
		ct := fh.Header.Get("Content-Type")
		if ct == "" || ct == "application/octet-stream" {
			ct = ossHelper.DetectContentType(path, name)
		}
		b.Files = append(b.Files, File{Path: path, Name: name, ContentType: ct, Size: fh.Size})
	}
	return b, nil
}

func spoolName(i int, name string) string {
	return fmt.Sprintf("%03d_%s", i, name)
}
