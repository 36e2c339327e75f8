// Package wire provides field-level JSON codecs for the textual conventions
// used by the Lob verification payloads.
//
// Two conventions are covered:
//
//   - Optional: an absent value travels as the empty string "" instead of
//     null or a missing key. Non-empty strings are decoded by the wrapped
//     type's own decoder, so enums keep their strict validation.
//   - Flag: a boolean that may be unknown travels as "Y", "N" or "".
//
// Both codecs are pure transforms. Decode failures are reported as
// *DecodeError values carrying the offending literal.
package wire
