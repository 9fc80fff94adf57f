package recordio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"iter"

	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
)

type placemarkJSON struct {
	DeclaredName string       `json:"declared_name"`
	RoadName     string       `json:"road_name,omitempty"`
	LocalName    string       `json:"local_name,omitempty"`
	Points       [][2]float64 `json:"points"`
	Polyline     string       `json:"polyline,omitempty"`
}

type JSONOptions struct {
	// Polyline adds the encoded polyline of every placemark.
	Polyline bool
	// Indent tab indents the output. compact otherwise.
	Indent bool
}

func toJSON(p da.Placemark, opts JSONOptions) placemarkJSON {
	out := placemarkJSON{
		DeclaredName: p.DeclaredName,
		RoadName:     p.RoadName,
		LocalName:    p.LocalName,
		Points:       make([][2]float64, len(p.Points)),
	}
	for i, pt := range p.Points {
		out.Points[i] = [2]float64{pt.Lat, pt.Lon}
	}
	if opts.Polyline {
		out.Polyline = p.EncodedPolyline()
	}
	return out
}

func fromJSON(pj placemarkJSON) da.Placemark {
	points := make([]da.Point, len(pj.Points))
	for i, ll := range pj.Points {
		points[i] = da.NewPoint(ll[0], ll[1])
	}
	pm := da.NewPlacemark(pj.DeclaredName, points)
	pm.RoadName = pj.RoadName
	pm.LocalName = pj.LocalName
	return pm
}

// WriteJSON writes records as one json array of
// {"declared_name": ..., "points": [[lat, lon], ...]} objects, one element at
// a time. returns the number of placemarks written.
func WriteJSON(w io.Writer, records iter.Seq[da.Placemark], opts JSONOptions) (int, error) {
	bw := bufio.NewWriter(w)
	count := 0
	var err error
	for p := range records {
		sep := ","
		if count == 0 {
			sep = "["
		}
		if opts.Indent {
			sep += "\n\t"
		}
		if _, err = bw.WriteString(sep); err != nil {
			return count, err
		}

		var b []byte
		if opts.Indent {
			b, err = json.MarshalIndent(toJSON(p, opts), "\t", "\t")
		} else {
			b, err = json.Marshal(toJSON(p, opts))
		}
		if err != nil {
			return count, fmt.Errorf("placemark %q: %w", p.DeclaredName, err)
		}
		if _, err = bw.Write(b); err != nil {
			return count, err
		}
		count++
	}

	closing := "]"
	switch {
	case count == 0:
		closing = "[]"
	case opts.Indent:
		closing = "\n]"
	}
	if _, err = bw.WriteString(closing + "\n"); err != nil {
		return count, err
	}
	return count, bw.Flush()
}

// JSONReader decodes the array written by WriteJSON one element at a time.
type JSONReader struct {
	dec *json.Decoder
	err error
}

func NewJSONReader(r io.Reader) *JSONReader {
	return &JSONReader{dec: json.NewDecoder(bufio.NewReader(r))}
}

func (jr *JSONReader) Placemarks(limit int) iter.Seq[da.Placemark] {
	return func(yield func(da.Placemark) bool) {
		tok, err := jr.dec.Token()
		if err != nil {
			jr.err = fmt.Errorf("placemark json: %w", err)
			return
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			jr.err = fmt.Errorf("placemark json: want array, got %v", tok)
			return
		}

		count := 0
		for jr.dec.More() {
			if limit > 0 && count >= limit {
				return
			}
			var pj placemarkJSON
			if err := jr.dec.Decode(&pj); err != nil {
				jr.err = fmt.Errorf("placemark json element %d: %w", count, err)
				return
			}
			count++
			if !yield(fromJSON(pj)) {
				return
			}
		}
	}
}

func (jr *JSONReader) Err() error {
	return jr.err
}
