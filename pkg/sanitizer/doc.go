// Package sanitizer normalizes user supplied text before validation and storage.
//
// All functions are idempotent and never fail: input that cannot be normalized
// comes back as an empty string so the validator rejects it as missing.
//
// Normalization includes:
//   - Phone numbers: converted to E.164 (+[country][number])
//   - Emails: trimmed and lowercased
//   - Names and free text: whitespace collapsed, leading/trailing spaces trimmed
package sanitizer
