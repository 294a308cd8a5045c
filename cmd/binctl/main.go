// Command binctl manages a hierarchy of containers and items and the tags
// attached to them.
package main

import (
	"os"

	"github.com/mesh-intelligence/binctl/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
