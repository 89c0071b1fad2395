// Package sanitizer normalizes user supplied booking and directory fields
// before validation and storage.
//
// All functions are idempotent. Invalid input is reported by returning an
// empty value rather than an error; callers decide whether empty is allowed.
//
// Normalization includes:
//   - Names and slots: collapse whitespace, trim
//   - Emails: trim and lowercase, so role lookups and identity checks agree
//   - Phone numbers: E.164 (+[country][number])
//   - Image URLs: force https, lowercase host
//   - Slot lists: drop empties and duplicates, keep first-seen order
package sanitizer
