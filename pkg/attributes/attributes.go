// Package attributes defines the per-file attribute mapping produced by
// metadata providers and consumed by the naming and hierarchy resolvers.
package attributes

// Canonical attribute keys. Providers populate any subset of these;
// absence of a key is a distinct state from an empty value.
const (
	KeyOriginalFilename = "original_filename"
	KeyExtension        = "extension"
	KeyFilePath         = "file_path"
	KeyFileSize         = "file_size"

	KeyDate     = "date"
	KeyTime     = "time"
	KeyDateTime = "datetime"
	KeyYear     = "year"
	KeyMonth    = "month"
	KeyDay      = "day"
	KeyHour     = "hour"
	KeyMinute   = "minute"
	KeySecond   = "second"

	KeyCamera      = "camera"
	KeyCameraMake  = "camera_make"
	KeyCameraModel = "camera_model"
	KeyLens        = "lens"

	KeyISO          = "iso"
	KeyAperture     = "aperture"
	KeyFocalLength  = "focal_length"
	KeyShutterSpeed = "shutter_speed"

	KeyLatitude  = "latitude"
	KeyLongitude = "longitude"
	KeyGPS       = "gps"
)

// Map holds one file's descriptive attributes, keyed by lowercase semantic
// names. Maps are treated as immutable once produced by a provider.
type Map map[string]string

// Value returns the attribute value and whether the key is present.
func (m Map) Value(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Has reports whether key is present with a non-empty value.
func (m Map) Has(key string) bool {
	v, ok := m[key]
	return ok && v != ""
}

// Clone returns an independent copy of the map.
func (m Map) Clone() Map {
	clone := make(Map, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return clone
}
