// Command resumepatch rewrites the qBt-savePath entry in qBittorrent
// *.fastresume files, writing canonical re-encodes to a target directory.
// With --keys it instead lists the top-level dictionary keys of a single
// file, which also works for unsorted dictionaries such as the resume.dat
// files written by old uTorrent versions.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rctlmk/yabel/bencode"
	"github.com/rctlmk/yabel/config"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func main() {
	var (
		source  = flag.String("source", "resumes", "directory with *.fastresume files")
		target  = flag.String("target", "patched-resumes", "directory for patched files")
		oldPath = flag.String("old", "", "path fragment to replace")
		newPath = flag.String("new", "", "replacement path fragment")
		keys    = flag.String("keys", "", "list top-level dictionary keys of this file and exit")
		debug   = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	c := config.NewConfig(config.WithDebug(*debug), config.WithLoggingPrefix("resumepatch"))
	log := c.Logger("")
	defer func() {
		_ = log.Sync()
	}()

	if *keys != "" {
		if err := printKeys(*keys); err != nil {
			log.Fatalf("listing keys in %s: %v", *keys, err)
		}
		return
	}
	if err := replacePaths(log, *source, *target, *oldPath, *newPath); err != nil {
		log.Fatalf("patching resumes: %v", err)
	}
}

func printKeys(path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	v, _, err := bencode.Decode(buf)
	if err != nil {
		return err
	}
	d, ok := v.(bencode.Dictionary)
	if !ok {
		return fmt.Errorf("top-level value in %s is not a dictionary", path)
	}
	names := maps.Keys(d)
	slices.Sort(names)
	for _, k := range names {
		fmt.Println(bencode.String(k))
	}
	return nil
}

func replacePaths(log *zap.SugaredLogger, source, target, oldPath, newPath string) error {
	if err := os.MkdirAll(target, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(source)
	if err != nil {
		return err
	}
	patched := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".fastresume" {
			continue
		}
		buf, err := os.ReadFile(filepath.Join(source, entry.Name()))
		if err != nil {
			return err
		}
		v, _, err := bencode.Decode(buf)
		if err != nil {
			log.Warnf("skipping %s: %v", entry.Name(), err)
			continue
		}
		d, ok := v.(bencode.Dictionary)
		if !ok {
			log.Warnf("skipping %s: top-level value is not a dictionary", entry.Name())
			continue
		}
		if s, ok := d["qBt-savePath"].(bencode.String); ok {
			d["qBt-savePath"] = bencode.String(bytes.Replace(s, []byte(oldPath), []byte(newPath), 1))
		}
		if err := os.WriteFile(filepath.Join(target, entry.Name()), bencode.Encode(d), 0o644); err != nil {
			return err
		}
		log.Debugf("patched %s", entry.Name())
		patched++
	}
	log.Infof("patched %d files into %s", patched, target)
	return nil
}
