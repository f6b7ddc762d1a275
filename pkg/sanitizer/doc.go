// Package sanitizer normalizes user supplied strings before validation and
// storage.
//
// Every function is idempotent. Invalid input is never rejected here; the
// domain validators decide what is acceptable after normalization.
//
// Normalization includes:
//   - Station names: drop control characters, trim and collapse inner
//     whitespace, case preserved
//   - User names: drop control characters, trim surrounding whitespace
//   - Emails: trim and lowercase
//   - Dates: trim
package sanitizer
