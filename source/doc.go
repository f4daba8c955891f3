// Package source decodes documents and schemas from JSON or YAML into the
// value model the validator reads. Drivers are chosen by file extension.
package source
