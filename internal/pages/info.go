package pages

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/rwcarlsen/goexif/exif"
)

// Info holds metadata about a single page image.
type Info struct {
	Name     string
	Width    int
	Height   int
	Size     int64
	EXIFData map[string]string
}

var exifFields = []exif.FieldName{
	exif.DateTime, exif.Model, exif.Make, exif.ExposureTime,
	exif.FNumber, exif.ISOSpeedRatings, exif.FocalLength,
}

// readEXIF extracts a few common EXIF fields. Most page scans carry none,
// which is not an error.
func readEXIF(r io.Reader) map[string]string {
	x, err := exif.Decode(r)
	if err != nil {
		return nil
	}
	result := make(map[string]string)
	for _, field := range exifFields {
		tag, err := x.Get(field)
		if err == nil && tag != nil {
			result[string(field)] = tag.String()
		}
	}
	return result
}

// Info returns size and EXIF metadata for the page at index.
func (s *Set) Info(ctx context.Context, index int) (*Info, error) {
	name, data, err := s.load(ctx, index)
	if err != nil {
		return nil, err
	}
	sz, err := decodeSize(name, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode page %d for info: %w", index, err)
	}
	return &Info{
		Name:     s.Name(index),
		Width:    sz.X,
		Height:   sz.Y,
		Size:     int64(len(data)),
		EXIFData: readEXIF(bytes.NewReader(data)),
	}, nil
}
