package shell

import (
	"fmt"
	"io"
)

const banner = `
 __   ___  _  ___  __     _       _
 \ \ / / \| |/ __|/ _|___| |_ __| |_
  \ V /| .' | (__|  _/ -_)  _/ _| ' \
   \_/ |_|\_|\___|_| \___|\__\__|_||_|

  Export VNC resolver search results to HTML, JSON or XML.
`

// printBanner writes the start-up banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}
