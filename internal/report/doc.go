// Package report renders pipeline state for the user.
//
// The render functions turn model values into the fixed user-facing strings;
// the Writers format a batch of ScanReports as plain text, JSON or Markdown.
package report
