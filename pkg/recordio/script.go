package recordio

import (
	"bytes"
	"fmt"
	"io"
	"iter"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/js"
	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
)

const mimeJS = "text/javascript"

// NewMinifier javascript minifier shared by the script writers.
func NewMinifier() *minify.M {
	m := minify.New()
	m.AddFunc(mimeJS, js.Minify)
	return m
}

// MinifyScript writes `var <varName> = <payload>;` minified.
func MinifyScript(w io.Writer, varName string, payload []byte) error {
	var src bytes.Buffer
	fmt.Fprintf(&src, "var %s = ", varName)
	src.Write(payload)
	src.WriteString(";\n")

	if err := NewMinifier().Minify(mimeJS, w, &src); err != nil {
		return fmt.Errorf("minify %s: %w", varName, err)
	}
	return nil
}

// WriteScript writes records as a script assigning the placemark array to
// varName, loadable with a plain <script> tag.
func WriteScript(w io.Writer, varName string, records iter.Seq[da.Placemark]) (int, error) {
	var payload bytes.Buffer
	count, err := WriteJSON(&payload, records, JSONOptions{})
	if err != nil {
		return count, err
	}
	return count, MinifyScript(w, varName, payload.Bytes())
}
