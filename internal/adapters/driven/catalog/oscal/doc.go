// Package oscal decodes OSCAL catalog documents into domain catalogs.
//
// JSON and YAML documents share one wire model; XML prose is markup and is
// reduced to its text content. Documents may carry the standard
// {"catalog": {...}} root or be a bare catalog object. Unknown fields are
// ignored, and missing structure decodes as empty.
package oscal
