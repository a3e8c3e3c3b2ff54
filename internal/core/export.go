package core

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ExportSpec describes the file produced for a format.
type ExportSpec struct {
	Format    Format
	Extension string
	MIME      string
}

var exportSpecs = map[Format]ExportSpec{
	FormatTXT:  {Format: FormatTXT, Extension: ".txt", MIME: "text/plain"},
	FormatJSON: {Format: FormatJSON, Extension: ".json", MIME: "application/json"},
	FormatCSV:  {Format: FormatCSV, Extension: ".csv", MIME: "text/csv"},
}

// DefaultExportName is the base filename used when none is given.
const DefaultExportName = "result"

// SpecFor returns the export description of a format.
func SpecFor(f Format) (ExportSpec, bool) {
	spec, ok := exportSpecs[f]
	return spec, ok
}

// ExportFilename returns the filename to save a rendering under: "result"
// when name is blank, with the format's extension appended unless name
// already ends with it.
func ExportFilename(name string, f Format) string {
	spec, ok := SpecFor(f)
	if !ok {
		return name
	}

	name = strings.TrimSpace(filepath.Base(strings.TrimSpace(name)))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = DefaultExportName
	}
	if !strings.EqualFold(filepath.Ext(name), spec.Extension) {
		name += spec.Extension
	}
	return name
}

// IsJSONUpload reports whether a dropped or selected file looks like JSON,
// judging by its extension, its declared content type, then its content.
func IsJSONUpload(filename, contentType string, head []byte) bool {
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		return true
	}

	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		if mediaType == "application/json" || strings.HasSuffix(mediaType, "+json") {
			return true
		}
	}

	if len(head) == 0 {
		return false
	}
	return mimetype.Detect(head).Is("application/json")
}
