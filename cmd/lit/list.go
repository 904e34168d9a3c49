package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bobg/lit"
)

func (c maincmd) lsObjects(ctx context.Context, fs *flag.FlagSet, args []string) error {
	start := fs.String("start", "", "start after this address")
	err := fs.Parse(args)
	if err != nil {
		return errors.Wrap(err, "parsing args")
	}

	var startAddr lit.Address
	if *start != "" {
		startAddr, err = lit.AddressFromHex(*start)
		if err != nil {
			return errors.Wrap(err, "parsing start address")
		}
	}

	r, err := c.repo()
	if err != nil {
		return err
	}
	return r.Objects().ListAddresses(ctx, startAddr, func(addr lit.Address) error {
		_, err := fmt.Fprintln(c.out, addr)
		return err
	})
}

func (c maincmd) fsck(ctx context.Context, fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err != nil {
		return errors.Wrap(err, "parsing args")
	}

	r, err := c.repo()
	if err != nil {
		return err
	}

	var good, bad int
	err = lit.Verify(ctx, r.Objects(), func(addr lit.Address, err error) error {
		if err != nil {
			bad++
			c.logger.Error("bad object", zap.Stringer("address", addr), zap.Error(err))
			fmt.Fprintf(c.out, "bad %s: %s\n", addr, err)
			return nil
		}
		good++
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "verifying objects")
	}

	fmt.Fprintf(c.out, "%d good, %d bad\n", good, bad)
	if bad > 0 {
		return fmt.Errorf("%d bad objects", bad)
	}
	return nil
}
