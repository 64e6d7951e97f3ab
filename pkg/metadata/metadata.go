// Package metadata enriches baseline file attributes with EXIF data
// extracted by exiftool. The engine downstream treats the result as an
// opaque attribute map; when exiftool is unavailable or fails for a file,
// the baseline filesystem attributes are used unchanged.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"fotofiler/internal/logging"
	"fotofiler/pkg/attributes"
	"fotofiler/pkg/progress"
)

// dateFields is the priority order for the capture time, best first.
var dateFields = []string{
	"ExifIFD:DateTimeOriginal",
	"ExifIFD:CreateDate",
	"ExifIFD:ModifyDate",
	"File:FileModifyDate",
	"System:FileModifyDate",
	"IFD0:ModifyDate",
}

// lensFields is the priority order for the lens description.
var lensFields = []string{
	"ExifIFD:LensModel",
	"ExifIFD:LensInfo",
	"Composite:LensID",
	"MakerNotes:Lens",
}

type runner func(ctx context.Context, path string) ([]byte, error)

// Extractor runs exiftool against individual files and merges the
// standardized keys over baseline attributes.
type Extractor struct {
	logger *slog.Logger
	run    runner
}

// NewExtractor creates an exiftool-backed Extractor.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Extractor{logger: logger, run: runExiftool}
}

// Available reports whether exiftool can be found on PATH.
func Available() bool {
	_, err := exec.LookPath("exiftool")
	return err == nil
}

func runExiftool(ctx context.Context, path string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "exiftool", "-j", "-a", "-u", "-G1", path)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	return out, nil
}

// Extract runs exiftool on path and returns base with the EXIF-derived
// keys merged over it. base is not mutated.
func (e *Extractor) Extract(ctx context.Context, path string, base attributes.Map) (attributes.Map, error) {
	out, err := e.run(ctx, path)
	if err != nil {
		return nil, err
	}

	var records []map[string]any
	if err := json.Unmarshal(out, &records); err != nil {
		return nil, fmt.Errorf("parse exiftool output: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("exiftool returned no records for %s", path)
	}

	merged := base.Clone()
	applyExif(merged, records[0])
	return merged, nil
}

// ExtractAll enriches each file's attributes in order. A per-file
// extraction failure keeps that file's baseline attributes and logs a
// warning; it never fails the batch. Cancelling ctx leaves the remaining
// files with their baseline attributes.
func (e *Extractor) ExtractAll(ctx context.Context, files []attributes.Map, onProgress progress.Callback) []attributes.Map {
	enriched := make([]attributes.Map, 0, len(files))

	for i, base := range files {
		if ctx.Err() != nil {
			enriched = append(enriched, base)
			continue
		}

		path, _ := base.Value(attributes.KeyFilePath)
		result, err := e.Extract(ctx, path, base)
		if err != nil {
			e.logger.Warn("metadata extraction failed; using filesystem attributes",
				slog.String("file", path),
				slog.Any("error", err))
			result = base
		}

		enriched = append(enriched, result)
		progress.Emit(onProgress, "Extracting metadata", i+1, len(files))
	}

	return enriched
}

func applyExif(attrs attributes.Map, raw map[string]any) {
	if captured, ok := captureTime(raw); ok {
		attrs[attributes.KeyDate] = captured.Format("2006-01-02")
		attrs[attributes.KeyTime] = captured.Format("15-04-05")
		attrs[attributes.KeyDateTime] = captured.Format("20060102_150405")
		attrs[attributes.KeyYear] = captured.Format("2006")
		attrs[attributes.KeyMonth] = captured.Format("01")
		attrs[attributes.KeyDay] = captured.Format("02")
		attrs[attributes.KeyHour] = captured.Format("15")
		attrs[attributes.KeyMinute] = captured.Format("04")
		attrs[attributes.KeySecond] = captured.Format("05")
	}

	cameraMake := spaceToUnderscore(stringValue(raw["IFD0:Make"]))
	cameraModel := spaceToUnderscore(stringValue(raw["IFD0:Model"]))
	if cameraMake != "" {
		attrs[attributes.KeyCameraMake] = cameraMake
	}
	if cameraModel != "" {
		attrs[attributes.KeyCameraModel] = cameraModel
	}
	switch {
	case cameraMake != "" && cameraModel != "":
		attrs[attributes.KeyCamera] = cameraMake + "_" + cameraModel
	case cameraMake != "":
		attrs[attributes.KeyCamera] = cameraMake
	case cameraModel != "":
		attrs[attributes.KeyCamera] = cameraModel
	}

	for _, field := range lensFields {
		if lens := stringValue(raw[field]); lens != "" {
			attrs[attributes.KeyLens] = spaceToUnderscore(lens)
			break
		}
	}

	lat := firstValue(raw, "GPS:GPSLatitude", "Composite:GPSLatitude")
	lon := firstValue(raw, "GPS:GPSLongitude", "Composite:GPSLongitude")
	if lat != "" && lon != "" {
		attrs[attributes.KeyLatitude] = lat
		attrs[attributes.KeyLongitude] = lon
		attrs[attributes.KeyGPS] = lat + "," + lon
	}

	if iso := stringValue(raw["ExifIFD:ISO"]); iso != "" {
		attrs[attributes.KeyISO] = iso
	}
	if aperture := firstValue(raw, "ExifIFD:FNumber", "Composite:Aperture"); aperture != "" {
		attrs[attributes.KeyAperture] = aperture
	}
	if focal := stringValue(raw["ExifIFD:FocalLength"]); focal != "" {
		attrs[attributes.KeyFocalLength] = strings.ReplaceAll(focal, " ", "")
	}
	if shutter := firstValue(raw, "ExifIFD:ExposureTime", "Composite:ShutterSpeed"); shutter != "" {
		attrs[attributes.KeyShutterSpeed] = shutter
	}
}

// captureTime returns the best available capture time, trying the date
// fields in priority order.
func captureTime(raw map[string]any) (time.Time, bool) {
	for _, field := range dateFields {
		value := stringValue(raw[field])
		if value == "" {
			continue
		}
		if t, err := parseExifTime(value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseExifTime parses exiftool's "YYYY:MM:DD HH:MM:SS" format, dropping
// any trailing timezone offset.
func parseExifTime(s string) (time.Time, error) {
	s, _, _ = strings.Cut(s, "+")
	s, _, _ = strings.Cut(s, "-")
	return time.Parse("2006:01:02 15:04:05", strings.TrimSpace(s))
}

func firstValue(raw map[string]any, fields ...string) string {
	for _, field := range fields {
		if v := stringValue(raw[field]); v != "" {
			return v
		}
	}
	return ""
}

func spaceToUnderscore(s string) string {
	return strings.ReplaceAll(s, " ", "_")
}

func stringValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprint(value)
	}
}
