package config

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/meverselabs/ammcore/common/rlog"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Format is the encoding of a config source
type Format int

// formats
const (
	TOML Format = iota
	YAML
)

// FormatOf guesses the format from the file extension, TOML by default
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return TOML
	}
}

// LoadFile parse the config from the file of the path
func LoadFile(path string, v interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "config: open")
	}
	defer file.Close()

	rlog.Debugf("loading config %s", path)
	return LoadReader(file, FormatOf(path), v)
}

// LoadString parse the config from the string
func LoadString(data string, format Format, v interface{}) error {
	return LoadReader(bytes.NewReader([]byte(data)), format, v)
}

// LoadReader parse the config from the file of the reader
func LoadReader(r io.Reader, format Format, v interface{}) error {
	switch format {
	case YAML:
		bs, err := ioutil.ReadAll(r)
		if err != nil {
			return errors.Wrap(err, "config: read")
		}
		if err := yaml.UnmarshalStrict(bs, v); err != nil {
			return errors.Wrap(err, "config: yaml")
		}
	default:
		if _, err := toml.NewDecoder(r).Decode(v); err != nil {
			return errors.Wrap(err, "config: toml")
		}
	}
	return nil
}
