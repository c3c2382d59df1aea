// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command kar creates, lists and extracts kar archives.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/devblok/umbra/utility/kar"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/mmap"
	"golang.org/x/sync/errgroup"
)

func init() {
	currentUserName = "unknown"
	if u, err := user.Current(); err == nil {
		currentUserName = u.Name
	}
}

var (
	currentUserName string
	author          = flag.String("author", "", "Set the author of the package when compressing (default: current user)")
	version         = flag.Int64("version", 1, "Archive version number to create it with")
	extract         = flag.String("e", "", "Extract the archive given")
	compress        = flag.String("c", "", "Compress the given file/folder")
	list            = flag.String("l", "", "List the files of the archive given")
	dstFile         = flag.String("f", "out.kar", "Destination file when compressing, destination folder when extracting")
	silent          = flag.Bool("s", false, "Silent")
)

// errExists is returned instead of overwriting a file.
var errExists = errors.New("destination exists, will not overwrite")

func main() {
	flag.Parse()
	if *silent {
		log.SetLevel(log.WarnLevel)
	}

	var ops int
	for _, op := range []string{*extract, *compress, *list} {
		if op != "" {
			ops++
		}
	}
	if ops > 1 {
		log.Fatal("only one operation at a time")
	}

	var err error
	switch {
	case *compress != "":
		name := *author
		if name == "" {
			name = currentUserName
		}
		err = compressFiles(*compress, *dstFile, kar.Header{
			Author:      name,
			DateCreated: time.Now().Unix(),
			Version:     *version,
		})
	case *extract != "":
		dir := *dstFile
		if dir == "out.kar" {
			dir = "."
		}
		err = extractFiles(*extract, dir)
	case *list != "":
		err = listFiles(*list, os.Stdout)
	default:
		flag.PrintDefaults()
	}
	if err != nil {
		log.Fatal(err)
	}
}

// archiveNames maps the files under root to slash separated names
// relative to root, the way assets look them up.
func archiveNames(root string) (map[string]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return map[string]string{filepath.Base(root): root}, nil
	}

	names := make(map[string]string)
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		names[filepath.ToSlash(rel)] = path
		return nil
	})
	return names, err
}

func compressFiles(src, dst string, header kar.Header) error {
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("%s: %w", dst, errExists)
	}

	names, err := archiveNames(src)
	if err != nil {
		return err
	}

	builder, err := kar.NewBuilder(header)
	if err != nil {
		return err
	}
	defer builder.Close()

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for name, path := range names {
		name, path := name, path
		g.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := builder.Add(name, f); err != nil {
				return fmt.Errorf("add %s: %w", name, err)
			}
			log.WithField("file", name).Debug("compressed")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	written, err := builder.WriteTo(out)
	if err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"archive": dst,
		"files":   builder.Len(),
		"bytes":   written,
	}).Info("archive written")
	return nil
}

func openArchive(path string) (*kar.Archive, io.Closer, error) {
	file, err := mmap.Open(path)
	if err != nil {
		return nil, nil, err
	}
	ar, err := kar.Open(file)
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return ar, file, nil
}

// extractPath refuses names that would land outside dir.
func extractPath(dir, name string) (string, error) {
	clean := filepath.FromSlash(name)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("unsafe file name %q in archive", name)
	}
	path := filepath.Join(dir, clean)
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("unsafe file name %q in archive", name)
	}
	return path, nil
}

func extractFiles(archive, dir string) error {
	ar, closer, err := openArchive(archive)
	if err != nil {
		return err
	}
	defer closer.Close()

	for _, name := range ar.List() {
		path, err := extractPath(dir, name)
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, errExists)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := extractFile(ar, name, path); err != nil {
			return err
		}
		log.WithField("file", name).Debug("extracted")
	}
	log.WithFields(log.Fields{
		"archive": archive,
		"files":   len(ar.List()),
	}).Info("archive extracted")
	return nil
}

func extractFile(ar *kar.Archive, name, path string) error {
	r, err := ar.Open(name)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.CopyN(out, r, r.Size()); err != nil {
		out.Close()
		return fmt.Errorf("%s: %w", name, err)
	}
	return out.Close()
}

func listFiles(archive string, w io.Writer) error {
	ar, closer, err := openArchive(archive)
	if err != nil {
		return err
	}
	defer closer.Close()

	h := ar.Header()
	fmt.Fprintf(w, "author: %s\nversion: %d\ncreated: %s\n\n",
		h.Author, h.Version, time.Unix(h.DateCreated, 0).UTC().Format(time.RFC3339))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tCOMPRESSED")
	for _, e := range h.Index {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", e.Name, e.Size, e.CompressedSize)
	}
	return tw.Flush()
}
