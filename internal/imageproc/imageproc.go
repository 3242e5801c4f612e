package imageproc

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
)

const (
	ThumbWidth = 320
	AvatarSize = 512
)

// decode applies EXIF orientation while decoding; the re-encoded output
// carries no metadata, which is how uploads get their EXIF stripped.
func decode(data []byte) (image.Image, error) {
	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Reencode decodes and re-encodes an image as JPEG, dropping metadata.
func Reencode(data []byte) ([]byte, error) {
	img, err := decode(data)
	if err != nil {
		return nil, err
	}
	return encodeJPEG(img)
}

// Thumbnail produces a ThumbWidth-wide JPEG preserving aspect ratio.
func Thumbnail(data []byte) ([]byte, error) {
	img, err := decode(data)
	if err != nil {
		return nil, err
	}
	thumb := imaging.Resize(img, ThumbWidth, 0, imaging.Lanczos)
	return encodeJPEG(thumb)
}

// SquareAvatar center-crops to a square and resizes to AvatarSize px.
func SquareAvatar(data []byte) ([]byte, error) {
	img, err := decode(data)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	cropped := imaging.CropCenter(img, side, side)
	if side != AvatarSize {
		cropped = imaging.Resize(cropped, AvatarSize, AvatarSize, imaging.Lanczos)
	}
	return encodeJPEG(cropped)
}
