// File: cmd/hostsched/main.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
//
// Entry point for the hostsched command-line tool.

package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
