// lrgb composes LRGB colour images from FITS exposures.
//
// Usage:
//
//	lrgb merge -l L.fits -r R.fits -g G.fits -b B.fits -o out.fits
//	lrgb info FILE...
//	lrgb preview -i out.fits -o out.j2k [-w WIDTH]
//	lrgb version
//
// Exit codes:
//
//	0: Success
//	1: Any error
package main

import (
	"fmt"
	"os"

	"github.com/mrjoshuak/go-lrgb/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}
