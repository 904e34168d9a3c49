package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bobg/lit"
	"github.com/bobg/lit/store"
	_ "github.com/bobg/lit/store/file"
	_ "github.com/bobg/lit/store/gcs"
	_ "github.com/bobg/lit/store/logging"
	_ "github.com/bobg/lit/store/lru"
	_ "github.com/bobg/lit/store/mem"
	_ "github.com/bobg/lit/store/pg"
	_ "github.com/bobg/lit/store/replica"
	_ "github.com/bobg/lit/store/sqlite3"
)

func (c maincmd) copy(ctx context.Context, fs *flag.FlagSet, args []string) error {
	var (
		config = fs.String("config", "", "path to store config file")
		pull   = fs.Bool("pull", false, "copy from the configured store into the repository")
	)
	err := fs.Parse(args)
	if err != nil {
		return errors.Wrap(err, "parsing args")
	}
	if *config == "" {
		return errors.New("missing -config")
	}

	r, err := c.repo()
	if err != nil {
		return err
	}
	s, err := storeFromConfig(ctx, *config)
	if err != nil {
		return err
	}

	dst, src := s, r.Objects()
	if *pull {
		dst, src = r.Objects(), s
	}

	n, err := store.Copy(ctx, dst, src)
	if err != nil {
		return errors.Wrap(err, "copying objects")
	}
	c.logger.Info("copied objects", zap.Int("count", n), zap.Bool("pull", *pull))
	fmt.Fprintf(c.out, "copied %d objects\n", n)
	return nil
}

func (c maincmd) sync(ctx context.Context, fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err != nil {
		return errors.Wrap(err, "parsing args")
	}
	if fs.NArg() == 0 {
		return errors.New("usage: sync FILE...")
	}

	r, err := c.repo()
	if err != nil {
		return err
	}

	stores := []lit.Store{r.Objects()}
	for _, arg := range fs.Args() {
		s, err := storeFromConfig(ctx, arg)
		if err != nil {
			return errors.Wrapf(err, "reading %s", arg)
		}
		stores = append(stores, s)
	}

	return store.Sync(ctx, stores)
}

func storeFromConfig(ctx context.Context, filename string) (lit.Store, error) {
	var conf map[string]interface{}
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening config file %s", filename)
	}
	defer f.Close()

	err = json.NewDecoder(f).Decode(&conf)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding config file %s", filename)
	}

	typ, ok := conf["type"].(string)
	if !ok {
		return nil, fmt.Errorf("config file %s missing `type` parameter", filename)
	}

	s, err := store.Create(ctx, typ, conf)
	return s, errors.Wrapf(err, "creating %s-type store", typ)
}
