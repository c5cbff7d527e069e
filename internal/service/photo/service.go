package photo

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoding for clock-in photos
	"math"
	"path"
	"strings"
	"time"

	"github.com/atuta-hr/attendance-payroll-go/internal/domain/attendance"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	maxPhotoSize = 150 * 1024
	minPhotoSize = 50 * 1024
	// Decoded payloads above this are rejected before image decoding.
	maxRawPhotoSize = 10 * 1024 * 1024
)

type PhotoService interface {
	attendance.PhotoStore
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

type photoServiceImpl struct {
	storage storage.FileStorage
}

func NewPhotoService(storage storage.FileStorage) PhotoService {
	return &photoServiceImpl{storage: storage}
}

// SaveClockInPhoto decodes a base64 image, with or without a data URL prefix,
// re-encodes it as JPEG within the target size and stores it under
// attendance/{date}/{userID}-{uuid}.jpg. Undecodable input yields
// attendance.ErrInvalidPhotoData.
func (s *photoServiceImpl) SaveClockInPhoto(ctx context.Context, userID string, encoded string, at time.Time) (string, error) {
	raw, err := decodeBase64Image(encoded)
	if err != nil {
		return "", err
	}

	compressed, err := compressImage(raw, maxPhotoSize, minPhotoSize)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%s.jpg", userID, uuid.NewString())
	key := path.Join("attendance", at.UTC().Format("2006-01-02"), name)

	uploaded, err := s.storage.Upload(ctx, bytes.NewReader(compressed), key, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload clock-in photo: %w", err)
	}
	return uploaded, nil
}

func (s *photoServiceImpl) Delete(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

func (s *photoServiceImpl) GetURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, path, expiry)
}

func decodeBase64Image(encoded string) ([]byte, error) {
	data := strings.TrimSpace(encoded)
	if strings.HasPrefix(data, "data:") {
		idx := strings.Index(data, ",")
		if idx < 0 || !strings.Contains(data[:idx], ";base64") {
			return nil, attendance.ErrInvalidPhotoData
		}
		data = data[idx+1:]
	}
	if data == "" || base64.StdEncoding.DecodedLen(len(data)) > maxRawPhotoSize {
		return nil, attendance.ErrInvalidPhotoData
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(data)
		if err != nil {
			return nil, attendance.ErrInvalidPhotoData
		}
	}
	return raw, nil
}

// compressImage re-encodes to JPEG, lowering quality first and then scaling
// down until the result fits under maxSize.
func compressImage(buffer []byte, maxSize int, minSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, attendance.ErrInvalidPhotoData
	}

	var compressed []byte
	for quality := 85; quality >= 50; quality -= 5 {
		compressed, err = encodeJPEG(img, quality)
		if err != nil {
			return nil, err
		}
		if len(compressed) <= maxSize {
			return compressed, nil
		}
	}

	// Target the middle of the range, keeping the aspect ratio.
	ratio := math.Sqrt(float64(maxSize+minSize) / 2 / float64(len(compressed)))
	bounds := img.Bounds()
	width := int(float64(bounds.Dx()) * ratio)
	height := int(float64(bounds.Dy()) * ratio)
	if width < 1 || height < 1 {
		return compressed, nil
	}

	return encodeJPEG(resizeImage(img, width, height), 70)
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
