// Package file provides file-based configuration and prompt loading.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - Config: TOML-based typed configuration
//   - PromptStore: user-editable prompt templates
package file
