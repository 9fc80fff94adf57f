package kml

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/dsnet/compress/bzip2"
	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
	"github.com/uozuAho/vicroads-graph-search/pkg/util"
)

var (
	ErrMultipleCoordinates = errors.New("more than one coordinate set in placemark")
	ErrInvalidCoordinate   = errors.New("invalid coordinate tuple")
)

const (
	simpleDataDeclared  = "DECLARED"
	simpleDataRoadName  = "ROADNAME"
	simpleDataLocalName = "LOCALNAME"
)

// Reader yields the Placemark elements of a vicroads KML document in
// document order.
type Reader struct {
	doc *etree.Document
	err error
}

func NewReader(r io.Reader) (*Reader, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "kml: parse document")
	}
	return &Reader{doc: doc}, nil
}

// Open reads a KML file, bzip2 compressed when the name ends in .bz2.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var in io.Reader = f
	if strings.HasSuffix(path, ".bz2") {
		bz, err := bzip2.NewReader(f, nil)
		if err != nil {
			return nil, err
		}
		defer bz.Close()
		in = bz
	}
	return NewReader(in)
}

// Placemarks yields at most limit placemarks (limit <= 0: all of them).
// iteration stops at the first malformed placemark, see Err.
func (r *Reader) Placemarks(limit int) iter.Seq[da.Placemark] {
	return func(yield func(da.Placemark) bool) {
		count := 0
		for _, el := range r.doc.FindElements("//Placemark") {
			if limit > 0 && count >= limit {
				return
			}
			pm, err := parsePlacemark(el)
			if err != nil {
				r.err = err
				return
			}
			count++
			if !yield(pm) {
				return
			}
		}
	}
}

func (r *Reader) Err() error {
	return r.err
}

func parsePlacemark(el *etree.Element) (da.Placemark, error) {
	pm := da.Placemark{}
	for _, sd := range el.FindElements(".//SimpleData") {
		switch sd.SelectAttrValue("name", "") {
		case simpleDataDeclared:
			pm.DeclaredName = sd.Text()
		case simpleDataRoadName:
			pm.RoadName = sd.Text()
		case simpleDataLocalName:
			pm.LocalName = sd.Text()
		}
	}

	for _, coords := range el.FindElements(".//coordinates") {
		if len(pm.Points) > 0 {
			return pm, fmt.Errorf("%w with declared name %q", ErrMultipleCoordinates, pm.DeclaredName)
		}
		points, err := ParseCoordinates(coords.Text())
		if err != nil {
			return pm, fmt.Errorf("placemark %q: %w", pm.DeclaredName, err)
		}
		pm.Points = points
	}
	return pm, nil
}

// ParseCoordinates parses a KML coordinate list: whitespace separated
// lon,lat[,alt] tuples. altitude is dropped.
func ParseCoordinates(text string) ([]da.Point, error) {
	tuples := strings.Fields(text)
	points := make([]da.Point, 0, len(tuples))
	for _, tuple := range tuples {
		parts := strings.Split(tuple, ",")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("%w %q", ErrInvalidCoordinate, tuple)
		}
		lon, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidCoordinate, tuple, err)
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidCoordinate, tuple, err)
		}
		points = append(points, da.NewPoint(lat, lon))
	}
	return points, nil
}
