// Package templates fetches the document template from a local path or
// remote URL. Google Drive share links are rewritten to their direct
// download form before fetching.
package templates
