// Command irhash parses an LLVM IR assembly file and prints the
// fingerprint of every function, global variable, and alias it defines,
// one per line. It exists to make the hasher observable from the command
// line; the compiler drives the same API in process.
package main

import (
	"fmt"
	"os"

	"github.com/llir/llvm/asm"
	"github.com/urfave/cli/v2"

	"github.com/rgal/llvm-project-prepo/pkg/irhash"
)

func main() {
	app := &cli.App{
		Name:      "irhash",
		Usage:     "print the repository digest of every global in an IR module",
		ArgsUsage: "<ll path>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("irhash: expected exactly one .ll path", 1)
			}
			path := c.Args().First()
			m, err := asm.ParseFile(path)
			if err != nil {
				return cli.Exit("irhash: "+err.Error(), 1)
			}
			for _, gd := range irhash.HashModule(m) {
				fmt.Printf("%s  %s\n", gd.Digest, gd.Name)
			}
			return nil
		},
	}
	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
