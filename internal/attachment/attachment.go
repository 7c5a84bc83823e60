// Package attachment validates, encodes and holds the single image a user
// may attach to the next message.
package attachment

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// MaxSize is the largest accepted attachment, 5 MiB.
const MaxSize int64 = 5 * 1024 * 1024

type Kind int

const (
	UnsupportedType Kind = iota + 1
	TooLarge
)

func (k Kind) String() string {
	switch k {
	case UnsupportedType:
		return "unsupported_type"
	case TooLarge:
		return "too_large"
	default:
		return "unknown"
	}
}

// ValidationError rejects a selected file. State is never changed when it is returned.
type ValidationError struct {
	Kind     Kind
	Name     string
	MIMEType string
	Size     int64
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case UnsupportedType:
		return "Please select an image file (JPG, PNG, etc.)"
	case TooLarge:
		return fmt.Sprintf("File is too large (%s). Max 5MB allowed.", humanize.IBytes(uint64(e.Size)))
	default:
		return "invalid attachment"
	}
}

// File is a candidate selected by the user. Open is only called after validation.
type File struct {
	Name     string
	MIMEType string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// Attachment is a validated, base64-encoded image.
type Attachment struct {
	Name     string
	MIMEType string
	Size     int64
	Data     string
}

// Label is the short human description used in previews and message bubbles.
func (a Attachment) Label() string {
	name := a.Name
	if name == "" {
		name = "image"
	}
	return fmt.Sprintf("%s · %s · %s", name, a.MIMEType, humanize.IBytes(uint64(a.Size)))
}

// Bytes decodes the payload.
func (a Attachment) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(a.Data)
}

func Validate(f File) error {
	if !strings.HasPrefix(f.MIMEType, "image/") {
		return &ValidationError{Kind: UnsupportedType, Name: f.Name, MIMEType: f.MIMEType, Size: f.Size}
	}
	if f.Size > MaxSize {
		return &ValidationError{Kind: TooLarge, Name: f.Name, MIMEType: f.MIMEType, Size: f.Size}
	}
	return nil
}

// Encode reads the file and base64-encodes it. The declared size is not
// trusted: a file that grows past MaxSize while reading is rejected.
func Encode(ctx context.Context, f File) (Attachment, error) {
	if err := Validate(f); err != nil {
		return Attachment{}, err
	}
	if f.Open == nil {
		return Attachment{}, fmt.Errorf("attachment %q has no content", f.Name)
	}
	rc, err := f.Open()
	if err != nil {
		return Attachment{}, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(ctxReader{ctx: ctx, r: rc}, MaxSize+1))
	if err != nil {
		return Attachment{}, fmt.Errorf("read %s: %w", f.Name, err)
	}
	if n > MaxSize {
		return Attachment{}, &ValidationError{Kind: TooLarge, Name: f.Name, MIMEType: f.MIMEType, Size: n}
	}
	return Attachment{
		Name:     f.Name,
		MIMEType: f.MIMEType,
		Size:     n,
		Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// FromPath describes a file on disk. The MIME type comes from the extension,
// falling back to sniffing the first 512 bytes.
func FromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = sniff(path)
	}
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return File{
		Name:     filepath.Base(path),
		MIMEType: mimeType,
		Size:     info.Size(),
		Open:     func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FromBytes wraps in-memory content, mostly for tests and piped input.
func FromBytes(name, mimeType string, data []byte) File {
	return File{
		Name:     name,
		MIMEType: mimeType,
		Size:     int64(len(data)),
		Open:     func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

func sniff(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	return http.DetectContentType(head[:n])
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
