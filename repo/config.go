package repo

import (
	"bytes"
	"os"

	"github.com/go-ini/ini"
	"github.com/pkg/errors"
)

// FormatVersion is the only core.repositoryformatversion that Open accepts.
const FormatVersion = "0"

const (
	coreSection      = "core"
	formatVersionKey = "repositoryformatversion"
	configFileName   = "config"
	descriptionName  = "description"
	headName         = "HEAD"
	defaultHead      = "ref: refs/heads/master\n"
	defaultDesc      = "Unnamed repository; edit this file 'description' to name the repository.\n"
	headRefPrefix    = "ref: "
	filePerm         = 0644
)

// MetaDirName is the name of the metadata directory at the top of every worktree.
const MetaDirName = ".lit"

// DefaultConfig produces the configuration that Create writes to a new repository.
func DefaultConfig() (*ini.File, error) {
	cfg := ini.Empty()
	core, err := cfg.NewSection(coreSection)
	if err != nil {
		return nil, errors.Wrapf(err, "adding section %s", coreSection)
	}
	for _, kv := range [][2]string{
		{formatVersionKey, FormatVersion},
		{"filemode", "false"},
		{"bare", "false"},
	} {
		if _, err = core.NewKey(kv[0], kv[1]); err != nil {
			return nil, errors.Wrapf(err, "adding key %s.%s", coreSection, kv[0])
		}
	}
	return cfg, nil
}

func loadConfig(path string) (*ini.File, error) {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &MissingConfigFileError{Path: path}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "statting %s", path)
	}
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if v := cfg.Section(coreSection).Key(formatVersionKey).String(); v != FormatVersion {
		return nil, &UnsupportedFormatVersionError{Version: v}
	}
	return cfg, nil
}

func marshalConfig(cfg *ini.File) ([]byte, error) {
	buf := new(bytes.Buffer)
	if _, err := cfg.WriteTo(buf); err != nil {
		return nil, errors.Wrap(err, "serializing config")
	}
	return buf.Bytes(), nil
}
