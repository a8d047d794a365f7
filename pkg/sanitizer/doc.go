// Package sanitizer normalizes untrusted user input before validation and
// storage. Sanitizers never reject input; malformed values pass through
// unchanged so validation can report them.
package sanitizer
