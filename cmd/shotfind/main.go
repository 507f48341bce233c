// Command shotfind detects shots in sensor channel logs.
//
// Usage:
//
//	shotfind detect measure.log
//	shotfind detect --format json --smooth 2 data.csv
//	shotfind denoise --series 3 measure.log
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
