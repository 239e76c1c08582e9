// Package pipeline connects a scan to the displayed page title.
//
// A Session runs one scan attempt: it checks the permission gate, launches
// the scanner, normalizes the payload and starts a fetch. The Controller owns
// the displayed URL and title status and applies fetch results only while
// they still belong to the displayed URL. Both live on a single interaction
// loop (see package dispatch); all of their methods must be called from it.
//
// Runner drives one source to a settled state on a private loop and turns it
// into a ScanReport. BatchProcessor runs many sources concurrently with
// errgroup, and Runner.Watch keeps one controller alive across an endless
// stream of scans.
package pipeline
