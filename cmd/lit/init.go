package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/bobg/lit/repo"
)

func (c maincmd) init(ctx context.Context, fs *flag.FlagSet, args []string) error {
	force := fs.Bool("force", false, "initialize even if the directory is not empty")
	err := fs.Parse(args)
	if err != nil {
		return errors.Wrap(err, "parsing args")
	}

	path := c.dir
	if fs.NArg() > 0 {
		path = fs.Arg(0)
		if !filepath.IsAbs(path) {
			path = filepath.Join(c.dir, path)
		}
	}

	r, err := repo.Create(path, *force, repo.WithLogger(c.logger))
	if err != nil {
		return errors.Wrapf(err, "creating repository in %s", path)
	}

	fmt.Fprintf(c.out, "Initialized empty lit repository in %s\n", r.MetaDir())
	return nil
}
