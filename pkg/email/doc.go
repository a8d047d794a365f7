// Package email defines the outbound email interface used by the password
// reset flow, with a Postmark-backed sender for production and a
// file-writing sender for local development.
package email
