// Package file provides file-based configuration for the crawler.
//
// Two stores live here:
//
//   - ConfigStore: TOML-backed key/value configuration at
//     ~/.ghcrawler/config.toml, holding run defaults such as the
//     analyzer backend, model names and minimum stars. CLI flags
//     always take precedence over stored values.
//
//   - PromptStore: user-editable prompt templates under
//     ~/.ghcrawler/prompts/, letting users tune the analysis prompt
//     without rebuilding.
package file
