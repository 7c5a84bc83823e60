package attachment

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name     string
		file     File
		wantKind Kind
	}{
		{name: "6MB png too large", file: File{Name: "big.png", MIMEType: "image/png", Size: 6_000_000}, wantKind: TooLarge},
		{name: "2MB text unsupported", file: File{Name: "notes.txt", MIMEType: "text/plain", Size: 2_000_000}, wantKind: UnsupportedType},
		{name: "1MB jpeg ok", file: File{Name: "cat.jpg", MIMEType: "image/jpeg", Size: 1_000_000}},
		{name: "exactly 5MiB ok", file: File{Name: "edge.png", MIMEType: "image/png", Size: MaxSize}},
		{name: "type checked first", file: File{Name: "huge.bin", MIMEType: "application/octet-stream", Size: 10 * MaxSize}, wantKind: UnsupportedType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.file)
			if tc.wantKind == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if verr.Kind != tc.wantKind {
				t.Fatalf("Kind = %v, want %v", verr.Kind, tc.wantKind)
			}
		})
	}
}

func TestHandler_SelectEncodesBase64(t *testing.T) {
	data := bytes.Repeat([]byte{0xff, 0xd8, 0x01}, 1_000_000/3)
	h := NewHandler()

	att, err := h.Select(context.Background(), FromBytes("cat.jpg", "image/jpeg", data))
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if att.Data != base64.StdEncoding.EncodeToString(data) {
		t.Fatalf("Data is not the base64 of the file")
	}
	pending, ok := h.Pending()
	if !ok || pending.MIMEType != "image/jpeg" || pending.Size != int64(len(data)) {
		t.Fatalf("Pending() = %+v, %v", pending, ok)
	}
}

func TestHandler_RejectionLeavesPendingUntouched(t *testing.T) {
	h := NewHandler()
	h.Set(Attachment{Name: "keep.png", MIMEType: "image/png", Data: "AA=="})

	_, err := h.Select(context.Background(), File{Name: "big.png", MIMEType: "image/png", Size: 6_000_000})
	if err == nil {
		t.Fatalf("Select(big) error = nil")
	}
	_, err = h.Select(context.Background(), FromBytes("a.txt", "text/plain", []byte("x")))
	if err == nil {
		t.Fatalf("Select(text) error = nil")
	}
	got, ok := h.Pending()
	if !ok || got.Name != "keep.png" {
		t.Fatalf("Pending() = %+v, %v, want keep.png", got, ok)
	}
}

func TestHandler_OverwriteCancelTake(t *testing.T) {
	h := NewHandler()
	h.Set(Attachment{Name: "one.png"})
	h.Set(Attachment{Name: "two.png"})
	if got, _ := h.Pending(); got.Name != "two.png" {
		t.Fatalf("Pending().Name = %q, want two.png", got.Name)
	}

	h.Cancel()
	if _, ok := h.Pending(); ok {
		t.Fatalf("Pending() after Cancel ok = true")
	}
	h.Cancel()

	h.Set(Attachment{Name: "three.png"})
	taken := h.Take()
	if taken == nil || taken.Name != "three.png" {
		t.Fatalf("Take() = %+v", taken)
	}
	if h.Take() != nil {
		t.Fatalf("second Take() should be nil")
	}
}

func TestEncode_RejectsContentLargerThanDeclared(t *testing.T) {
	data := make([]byte, MaxSize+10)
	f := FromBytes("liar.png", "image/png", data)
	f.Size = 10

	_, err := Encode(context.Background(), f)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Kind != TooLarge {
		t.Fatalf("Encode() error = %v, want TooLarge", err)
	}
}

func TestEncode_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Encode(ctx, FromBytes("a.png", "image/png", []byte("abc")))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Encode() error = %v, want context.Canceled", err)
	}
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()
	pngPath := filepath.Join(dir, "dot.png")
	if err := os.WriteFile(pngPath, tinyPNG(t), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	noExt := filepath.Join(dir, "README")
	if err := os.WriteFile(noExt, []byte("plain words"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := FromPath(pngPath)
	if err != nil {
		t.Fatalf("FromPath: %v", err)
	}
	if f.MIMEType != "image/png" || f.Name != "dot.png" {
		t.Fatalf("FromPath(png) = %+v", f)
	}

	f, err = FromPath(noExt)
	if err != nil {
		t.Fatalf("FromPath: %v", err)
	}
	if f.MIMEType != "text/plain" {
		t.Fatalf("sniffed MIME = %q, want text/plain", f.MIMEType)
	}
	if err := Validate(f); err == nil {
		t.Fatalf("Validate(text) error = nil")
	}

	if _, err := FromPath(dir); err == nil {
		t.Fatalf("FromPath(dir) error = nil")
	}
}

func TestThumbnail(t *testing.T) {
	raw := tinyPNG(t)
	att := Attachment{Name: "dot.png", MIMEType: "image/png", Size: int64(len(raw)), Data: base64.StdEncoding.EncodeToString(raw)}

	out := Thumbnail(att, 4, 2)
	if !strings.Contains(out, halfBlock) {
		t.Fatalf("Thumbnail() = %q, want half blocks", out)
	}
	if lines := strings.Count(out, "\n") + 1; lines > 2 {
		t.Fatalf("Thumbnail() rows = %d, want <= 2", lines)
	}

	broken := Attachment{Name: "x.webp", MIMEType: "image/webp", Size: 3, Data: base64.StdEncoding.EncodeToString([]byte("xyz"))}
	if got := Thumbnail(broken, 4, 2); got != broken.Label() {
		t.Fatalf("Thumbnail(undecodable) = %q, want label", got)
	}
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}
