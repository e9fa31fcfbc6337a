// Command repo2obj converts a program-repository ticket into a
// relocatable ELF object file: read the ticket sidecar's UUID, look the
// ticket up in the store, stitch its fragments into output sections, and
// emit the object.
package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/rgal/llvm-project-prepo/pkg/boltrepo"
	"github.com/rgal/llvm-project-prepo/pkg/objwriter"
	"github.com/rgal/llvm-project-prepo/pkg/repository"
)

var log = logrus.WithField("tool", "repo2obj")

func main() {
	app := &cli.App{
		Name:      "repo2obj",
		Usage:     "convert a program-repository ticket to an ELF object file",
		ArgsUsage: "<ticket path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "repo",
				Usage:   "program repository path",
				Value:   "./clang.db",
				EnvVars: []string{"REPOFILE"},
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output filename",
				Value:   "./a.out",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("repo2obj: expected exactly one ticket path", 1)
			}
			if err := run(c.Args().First(), c.String("repo"), c.String("output")); err != nil {
				return cli.Exit("repo2obj: "+err.Error(), 1)
			}
			return nil
		},
	}
	if err := app.Run(os.Args); err != nil {
		// cli has already printed the diagnostic for ExitCoder errors.
		os.Exit(1)
	}
}

func run(ticketPath, repoPath, outputPath string) error {
	raw, err := os.ReadFile(ticketPath)
	if err != nil {
		return errors.Wrapf(err, "reading ticket %q", ticketPath)
	}
	id, err := repository.ReadTicketFile(raw)
	if err != nil {
		return errors.Wrapf(err, "file %q", ticketPath)
	}
	log.WithField("ticket", id).Debug("resolved ticket UUID")

	repo, err := boltrepo.Open(repoPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	image, err := objwriter.Convert(repo, id)
	if err != nil {
		return err
	}
	return commit(outputPath, image)
}

// commit writes the image next to the destination and renames it into
// place, so a failed run never leaves a partially written output behind.
func commit(path string, image []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".repo2obj-*")
	if err != nil {
		return errors.Wrapf(err, "opening %q", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %q", path)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %q", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "writing %q", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "writing %q", path)
	}
	return nil
}
