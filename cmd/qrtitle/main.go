// Package main provides the entry point for the qrtitle CLI.
//
// qrtitle decodes QR codes, turns their payload into a URL and shows the
// title of the page it points to.
//
// Usage:
//
//	qrtitle scan <image>...
//	qrtitle resolve <payload>...
//	qrtitle watch
//
// See --help for all available options.
package main

func main() {
	Execute()
}
