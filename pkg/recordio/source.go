package recordio

import (
	"context"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsnet/compress/bzip2"
	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
	"github.com/uozuAho/vicroads-graph-search/pkg/kml"
	"github.com/uozuAho/vicroads-graph-search/pkg/osmparser"
	"github.com/uozuAho/vicroads-graph-search/pkg/util"
	"go.uber.org/zap"
)

// Source is a single pass stream of placemarks. Err reports what stopped the
// stream early, after iteration.
type Source interface {
	Placemarks(limit int) iter.Seq[da.Placemark]
	Err() error
}

type FileSource struct {
	Source
	closers []io.Closer
}

func (f *FileSource) Close() error {
	var firstErr error
	for i := len(f.closers) - 1; i >= 0; i-- {
		if err := f.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Open picks a reader by file extension: .kml, .osm, .osm.pbf, .json, each
// optionally bzip2 compressed (.bz2) except pbf.
func Open(ctx context.Context, path string, log *zap.Logger) (*FileSource, error) {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".kml"), strings.HasSuffix(name, ".kml.bz2"):
		r, err := kml.Open(path)
		if err != nil {
			return nil, err
		}
		return &FileSource{Source: r}, nil

	case strings.HasSuffix(name, ".osm"), strings.HasSuffix(name, ".osm.bz2"), strings.HasSuffix(name, ".osm.pbf"):
		p := osmparser.NewOSMParser(log)
		if err := p.Parse(ctx, path); err != nil {
			return nil, err
		}
		return &FileSource{Source: p}, nil

	case strings.HasSuffix(name, ".json"), strings.HasSuffix(name, ".json.bz2"):
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		fs := &FileSource{closers: []io.Closer{f}}
		var in io.Reader = f
		if strings.HasSuffix(name, ".bz2") {
			bz, err := bzip2.NewReader(f, nil)
			if err != nil {
				f.Close()
				return nil, err
			}
			fs.closers = append(fs.closers, bz)
			in = bz
		}
		fs.Source = NewJSONReader(in)
		return fs, nil
	}
	return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "unknown input format %q", path)
}

// WriteFile writes records to path as .json (tab indented), .csv or .js.
func WriteFile(path string, records iter.Seq[da.Placemark], opts JSONOptions) (int, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var write func(w io.Writer) (int, error)
	switch ext {
	case ".json":
		opts.Indent = true
		write = func(w io.Writer) (int, error) { return WriteJSON(w, records, opts) }
	case ".csv":
		write = func(w io.Writer) (int, error) { return WriteCSV(w, records) }
	case ".js":
		write = func(w io.Writer) (int, error) { return WriteScript(w, "placemarks", records) }
	default:
		return 0, util.WrapErrorf(nil, util.ErrBadParamInput, "unknown output extension %q", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	count, err := write(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return count, fmt.Errorf("write %s: %w", path, err)
	}
	return count, nil
}
