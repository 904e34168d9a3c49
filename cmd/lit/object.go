package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/bobg/lit"
)

func (c maincmd) hashObject(ctx context.Context, fs *flag.FlagSet, args []string) error {
	var (
		kindName = fs.String("t", string(lit.KindBlob), "object kind")
		write    = fs.Bool("w", false, "write the objects into the repository")
	)
	err := fs.Parse(args)
	if err != nil {
		return errors.Wrap(err, "parsing args")
	}
	if fs.NArg() == 0 {
		return errors.New("usage: hash-object [-t KIND] [-w] FILE...")
	}

	kind, err := lit.ParseKind(*kindName)
	if err != nil {
		return err
	}

	var (
		addrs []lit.Address
		objs  []lit.Object
	)
	for _, name := range fs.Args() {
		payload, err := c.readInput(name)
		if err != nil {
			return err
		}
		addrs = append(addrs, lit.HashObject(kind, payload))
		// ParseKind admits only blobs for now.
		objs = append(objs, lit.Blob(payload))
	}

	if *write {
		r, err := c.repo()
		if err != nil {
			return err
		}
		if _, err = lit.WriteMulti(ctx, r.Objects(), objs); err != nil {
			return errors.Wrap(err, "writing objects")
		}
	}

	for _, addr := range addrs {
		fmt.Fprintln(c.out, addr)
	}
	return nil
}

// readInput reads the named file, or stdin if the name is "-".
func (c maincmd) readInput(name string) ([]byte, error) {
	if name == "-" {
		b, err := ioutil.ReadAll(os.Stdin)
		return b, errors.Wrap(err, "reading stdin")
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(c.dir, name)
	}
	b, err := ioutil.ReadFile(name)
	return b, errors.Wrapf(err, "reading %s", name)
}

func (c maincmd) catFile(ctx context.Context, fs *flag.FlagSet, args []string) error {
	kindName := fs.String("t", "", "expected object kind")
	err := fs.Parse(args)
	if err != nil {
		return errors.Wrap(err, "parsing args")
	}
	if fs.NArg() == 0 {
		return errors.New("usage: cat-file [-t KIND] OBJECT...")
	}

	r, err := c.repo()
	if err != nil {
		return err
	}

	var addrs []lit.Address
	for _, name := range fs.Args() {
		addr, err := r.Resolve(ctx, name)
		if err != nil {
			return err
		}
		addrs = append(addrs, addr)
	}

	objs, err := lit.ReadMulti(ctx, r.Objects(), addrs)
	if err != nil {
		return errors.Wrap(err, "reading objects")
	}

	for _, addr := range addrs {
		obj := objs[addr]
		if *kindName != "" && lit.Kind(*kindName) != obj.Kind() {
			return fmt.Errorf("object %s is a %s, not a %s", addr, obj.Kind(), *kindName)
		}
		if _, err = c.out.Write(obj.Payload()); err != nil {
			return errors.Wrap(err, "writing payload")
		}
	}
	return nil
}
