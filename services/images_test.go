package services

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/lborres/inventrack/core"
)

const imageUserID = "3f2504e0-4f89-41d3-9a0c-0305e82c3301"

func encodeTestImage(t *testing.T, format string, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: uint8(x), A: 255})
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	}
	if err != nil {
		t.Fatalf("encode %s: %v", format, err)
	}
	return buf.Bytes()
}

// pngHeaderOnly returns a PNG signature and IHDR chunk declaring an 8-bit
// grayscale image of the given size, with no pixel data.
func pngHeaderOnly(width, height uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], width)
	binary.BigEndian.PutUint32(ihdr[4:8], height)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 0 // grayscale

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func newTestImageService(t *testing.T, withProfile bool) (*ImageService, *FakeBucket, *FakeStore) {
	t.Helper()
	store := NewFakeStore()
	if withProfile {
		if err := store.CreateProfile(context.Background(), &core.Profile{UserID: imageUserID, FullName: "A B"}); err != nil {
			t.Fatalf("CreateProfile() error = %v", err)
		}
	}
	bucket := NewFakeBucket()
	service := NewImageService(bucket, store, nil)
	service.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return service, bucket, store
}

// Requirement: Upload sniffs the format, downscales wide images to 800px,
// stores the object under a per-user name and records its URL on the profile.
func TestImageService_Upload(t *testing.T) {
	tests := []struct {
		name       string
		data       func(*testing.T) []byte
		wantObject string
		wantType   string
		wantWidth  int
	}{
		{
			name:       "downscales wide png",
			data:       func(t *testing.T) []byte { return encodeTestImage(t, "png", 1600, 40) },
			wantObject: "profile_" + imageUserID + "_1700000000000.png",
			wantType:   "image/png",
			wantWidth:  800,
		},
		{
			name:       "keeps narrow jpeg size",
			data:       func(t *testing.T) []byte { return encodeTestImage(t, "jpeg", 120, 40) },
			wantObject: "profile_" + imageUserID + "_1700000000000.jpg",
			wantType:   "image/jpeg",
			wantWidth:  120,
		},
		{
			name:       "converts gif to png",
			data:       func(t *testing.T) []byte { return encodeTestImage(t, "gif", 64, 64) },
			wantObject: "profile_" + imageUserID + "_1700000000000.png",
			wantType:   "image/png",
			wantWidth:  64,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			service, bucket, store := newTestImageService(t, true)

			// Act
			url, err := service.Upload(context.Background(), imageUserID, test.data(t))

			// Assert
			if err != nil {
				t.Fatalf("Upload() error = %v", err)
			}
			if !strings.HasSuffix(url, "/"+test.wantObject) {
				t.Errorf("URL = %q, want suffix %q", url, test.wantObject)
			}
			obj, err := bucket.GetObject(context.Background(), test.wantObject)
			if err != nil {
				t.Fatalf("GetObject() error = %v", err)
			}
			if obj.ContentType != test.wantType {
				t.Errorf("ContentType = %q, want %q", obj.ContentType, test.wantType)
			}
			cfg, _, err := image.DecodeConfig(bytes.NewReader(obj.Data))
			if err != nil {
				t.Fatalf("stored object is not an image: %v", err)
			}
			if cfg.Width != test.wantWidth {
				t.Errorf("stored width = %d, want %d", cfg.Width, test.wantWidth)
			}
			profile, _ := store.GetProfileByUserID(context.Background(), imageUserID)
			if profile.ProfileImageURL == nil || *profile.ProfileImageURL != url {
				t.Errorf("profile image url = %v, want %q", profile.ProfileImageURL, url)
			}
		})
	}
}

// Requirement: Upload rejects bad input before anything is stored.
func TestImageService_Upload_Rejects(t *testing.T) {
	tests := []struct {
		name        string
		userID      string
		data        []byte
		withProfile bool
		wantErr     error
		wantKind    core.Kind
	}{
		{name: "user id is not a uuid", userID: "42", data: []byte("x"), withProfile: true, wantKind: core.KindValidation},
		{name: "empty file", userID: imageUserID, withProfile: true, wantErr: core.ErrFileRequired, wantKind: core.KindValidation},
		{name: "file over 5 MiB", userID: imageUserID, data: make([]byte, MaxImageSize+1), withProfile: true, wantErr: core.ErrFileTooLarge, wantKind: core.KindValidation},
		{name: "not an image", userID: imageUserID, data: []byte("%PDF-1.4 not an image"), withProfile: true, wantErr: core.ErrUnsupportedImage, wantKind: core.KindValidation},
		{name: "header declares too many pixels", userID: imageUserID, data: pngHeaderOnly(30000, 30000), withProfile: true, wantErr: core.ErrFileTooLarge, wantKind: core.KindValidation},
		{name: "no profile for user", userID: imageUserID, data: []byte("x"), wantKind: core.KindNotFound},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			service, bucket, _ := newTestImageService(t, test.withProfile)

			// Act
			_, err := service.Upload(context.Background(), test.userID, test.data)

			// Assert
			if err == nil {
				t.Fatal("Upload() should fail")
			}
			if test.wantErr != nil && !errors.Is(err, test.wantErr) {
				t.Errorf("Upload() error = %v, want %v", err, test.wantErr)
			}
			if core.KindOf(err) != test.wantKind {
				t.Errorf("Upload() kind = %v, want %v", core.KindOf(err), test.wantKind)
			}
			if objects := bucket.Objects(); len(objects) != 0 {
				t.Errorf("bucket should be empty; got %v", objects)
			}
		})
	}
}

// Requirement: Get returns the stored URL, or NotFound when there is none.
func TestImageService_Get(t *testing.T) {
	// Arrange
	service, _, _ := newTestImageService(t, true)
	ctx := context.Background()

	// Act & Assert
	if _, err := service.Get(ctx, imageUserID); !errors.Is(err, core.ErrImageNotFound) {
		t.Errorf("Get() before upload error = %v, want %v", err, core.ErrImageNotFound)
	}

	url, err := service.Upload(ctx, imageUserID, encodeTestImage(t, "png", 10, 10))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	got, err := service.Get(ctx, imageUserID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != url {
		t.Errorf("Get() = %q, want %q", got, url)
	}

	obj, err := service.Object(ctx, "profile_"+imageUserID+"_1700000000000.png")
	if err != nil {
		t.Fatalf("Object() error = %v", err)
	}
	if obj.ContentType != "image/png" {
		t.Errorf("Object().ContentType = %q, want image/png", obj.ContentType)
	}
	if _, err := service.Object(ctx, "missing.png"); !errors.Is(err, core.ErrObjectNotFound) {
		t.Errorf("Object(missing) error = %v, want %v", err, core.ErrObjectNotFound)
	}
}

// Requirement: a tiny file declaring huge dimensions is refused from its
// header alone, without allocating the pixel buffer.
func TestNormalizeImage_RefusesOversizedHeader(t *testing.T) {
	// Arrange
	data := pngHeaderOnly(30000, 30000)
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	// Act
	_, _, _, err := normalizeImage(data)

	// Assert
	runtime.ReadMemStats(&after)
	if !errors.Is(err, core.ErrFileTooLarge) {
		t.Fatalf("normalizeImage() error = %v, want %v", err, core.ErrFileTooLarge)
	}
	if allocated := after.TotalAlloc - before.TotalAlloc; allocated > 16<<20 {
		t.Errorf("normalizeImage() allocated %d MiB for a %d byte file", allocated>>20, len(data))
	}
}
