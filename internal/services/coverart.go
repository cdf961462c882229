package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"

	"github.com/spinshelf/spinshelf-backend/internal/platform/apierr"
	"github.com/spinshelf/spinshelf-backend/internal/platform/gcs"
	"github.com/spinshelf/spinshelf-backend/internal/platform/logger"
	"github.com/spinshelf/spinshelf-backend/internal/sanitize"
)

const placeholderSize = 600

// CoverArtService renders deterministic placeholder covers for records with
// no artwork and stores them in the public bucket. The same artist/title
// always yields the same image and URL.
type CoverArtService struct {
	log    *logger.Logger
	bucket gcs.BucketService
	face   font.Face
}

func NewCoverArtService(log *logger.Logger, bucket gcs.BucketService) (*CoverArtService, error) {
	f, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &CoverArtService{
		log:    log.With("service", "coverart"),
		bucket: bucket,
		face:   truetype.NewFace(f, &truetype.Options{Size: 44}),
	}, nil
}

// Placeholder renders and uploads a placeholder cover, returning its public
// URL. Uploads are content-addressed, so repeat requests overwrite the same
// object with identical bytes.
func (s *CoverArtService) Placeholder(ctx context.Context, artist, title string) (string, error) {
	artist = sanitize.Clean(artist, maxNameChars)
	title = sanitize.Clean(title, maxNameChars)
	if artist == "" || title == "" {
		return "", apierr.BadRequest("missing_fields", fmt.Errorf("artist and title are required"))
	}

	sum := sha256.Sum256([]byte(strings.ToLower(artist) + "\x00" + strings.ToLower(title)))
	key := "placeholders/" + hex.EncodeToString(sum[:16]) + ".png"

	img, err := s.render(artist, title, sum)
	if err != nil {
		return "", apierr.Internal("render_cover", err)
	}
	if err := s.bucket.UploadObject(ctx, key, "image/png", img); err != nil {
		// A failed finalize must not leave a truncated object behind the
		// public URL.
		if derr := s.bucket.DeleteObject(ctx, key); derr != nil {
			s.log.Warn("cleanup after failed upload", "key", key, "err", derr.Error())
		}
		return "", apierr.Internal("upload_cover", err)
	}
	return s.bucket.PublicURL(key), nil
}

func (s *CoverArtService) render(artist, title string, sum [32]byte) (*bytes.Buffer, error) {
	dc := gg.NewContext(placeholderSize, placeholderSize)

	// Background hue derives from the hash, so every record gets a stable,
	// distinct color.
	bg := color.RGBA{R: 40 + sum[0]%160, G: 40 + sum[1]%160, B: 40 + sum[2]%160, A: 255}
	dc.SetColor(bg)
	dc.Clear()

	// A vinyl disc motif behind the text.
	dc.SetRGBA(0, 0, 0, 0.35)
	dc.DrawCircle(placeholderSize/2, placeholderSize/2, 230)
	dc.Fill()
	dc.SetColor(bg)
	dc.DrawCircle(placeholderSize/2, placeholderSize/2, 80)
	dc.Fill()
	dc.SetRGBA(0, 0, 0, 0.35)
	dc.DrawCircle(placeholderSize/2, placeholderSize/2, 12)
	dc.Fill()

	dc.SetFontFace(s.face)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringWrapped(title, placeholderSize/2, placeholderSize/2-60, 0.5, 0.5,
		placeholderSize-80, 1.2, gg.AlignCenter)
	dc.DrawStringWrapped(artist, placeholderSize/2, placeholderSize/2+70, 0.5, 0.5,
		placeholderSize-80, 1.2, gg.AlignCenter)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return &buf, nil
}
