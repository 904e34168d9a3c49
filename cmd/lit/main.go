// Command lit is a CLI for lit repositories.
//
// Usage:
//
//	lit [-v] [-C DIR] init [-force] [PATH]
//	lit [-v] [-C DIR] hash-object [-t KIND] [-w] FILE...
//	lit [-v] [-C DIR] cat-file [-t KIND] OBJECT...
//	lit [-v] [-C DIR] ls-objects
//	lit [-v] [-C DIR] fsck
//	lit [-v] [-C DIR] copy [-pull] -config FILE
//	lit [-v] [-C DIR] sync FILE...
//
// The config files named by copy and sync are JSON objects
// with a "type" key naming a store type (file, mem, lru, logging, replica, sqlite3, pg, gcs)
// and whatever other keys that store type needs.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"

	"github.com/bobg/subcmd"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bobg/lit/repo"
)

type maincmd struct {
	dir    string
	logger *zap.Logger
	out    io.Writer
}

func main() {
	var (
		verbose = flag.Bool("v", false, "verbose logging")
		dir     = flag.String("C", ".", "run as if started in this directory")
	)
	flag.Parse()

	logger, err := newLogger(*verbose)
	if err != nil {
		log.Fatalf("Creating logger: %s", err)
	}
	defer logger.Sync()

	c := maincmd{dir: *dir, logger: logger, out: os.Stdout}

	err = subcmd.Run(context.Background(), c, flag.Args())
	if err != nil {
		logger.Fatal("lit", zap.Error(err))
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func (c maincmd) Subcmds() map[string]subcmd.Subcmd {
	return map[string]subcmd.Subcmd{
		"init":        c.init,
		"hash-object": c.hashObject,
		"cat-file":    c.catFile,
		"ls-objects":  c.lsObjects,
		"fsck":        c.fsck,
		"copy":        c.copy,
		"sync":        c.sync,
	}
}

func (c maincmd) repo() (*repo.Repo, error) {
	return repo.Find(c.dir, true, repo.WithLogger(c.logger))
}
