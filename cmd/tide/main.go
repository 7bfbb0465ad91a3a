// Command tide is a thin write-path CLI over github.com/iluetkeb/libtidelog.
// It is an external collaborator to the core encoder (spec §1: file
// opening/closing glue and the command-line test harness are out of
// scope for the core) and calls into the package only through its public
// API (spec §6.3).
package main

import "github.com/iluetkeb/libtidelog/cmd/tide/cmd"

func main() {
	cmd.Execute()
}
