//go:build tools

package tools

// CLI tools used by this repo, installed with `go install`, not imported:
//
//   - github.com/matryer/moq: mocks for service interfaces (see //go:generate lines)
//   - github.com/pressly/goose/v3/cmd/goose: authoring new files under migrations/
