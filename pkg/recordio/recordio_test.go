package recordio

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
	"github.com/uozuAho/vicroads-graph-search/pkg/util"
	"go.uber.org/zap"
)

func samplePlacemarks() []da.Placemark {
	princes := da.NewPlacemark("PRINCES FREEWAY", []da.Point{
		da.NewPoint(-37.8136, 144.9631),
		da.NewPoint(-37.814, 144.964),
	})
	princes.RoadName = "PRINCES"
	return []da.Placemark{
		princes,
		da.NewPlacemark("HUME HIGHWAY", []da.Point{da.NewPoint(-37.7, 145)}),
		da.NewPlacemark("EMPTY", []da.Point{}),
	}
}

func readAll(t *testing.T, src Source, limit int) []da.Placemark {
	t.Helper()
	return slices.Collect(src.Placemarks(limit))
}

func TestWriteReadJSON(t *testing.T) {
	testCases := []struct {
		name string
		opts JSONOptions
	}{
		{name: "indented", opts: JSONOptions{Indent: true}},
		{name: "compact", opts: JSONOptions{}},
		{name: "with polyline", opts: JSONOptions{Indent: true, Polyline: true}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := WriteJSON(&buf, slices.Values(samplePlacemarks()), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, 3, n)
			assert.Equal(t, tt.opts.Indent, strings.Contains(buf.String(), "\n\t"))
			assert.Equal(t, tt.opts.Polyline, strings.Contains(buf.String(), `"polyline"`))

			r := NewJSONReader(&buf)
			got := readAll(t, r, 0)
			require.NoError(t, r.Err())
			assert.Equal(t, samplePlacemarks(), got)
		})
	}
}

func TestWriteJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteJSON(&buf, slices.Values(samplePlacemarks()[1:2]), JSONOptions{})
	require.NoError(t, err)
	assert.Equal(t, `[{"declared_name":"HUME HIGHWAY","points":[[-37.7,145]]}]`+"\n", buf.String())

	buf.Reset()
	_, err = WriteJSON(&buf, slices.Values([]da.Placemark{}), JSONOptions{Indent: true})
	require.NoError(t, err)
	assert.Equal(t, "[]\n", buf.String())
}

func TestJSONReaderErrors(t *testing.T) {
	testCases := []struct {
		name string
		in   string
	}{
		{name: "not an array", in: `{"declared_name": "x"}`},
		{name: "bad element", in: `[{"declared_name": 5}]`},
		{name: "empty input", in: ``},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			r := NewJSONReader(strings.NewReader(tt.in))
			assert.Empty(t, readAll(t, r, 0))
			assert.Error(t, r.Err())
		})
	}
}

func TestJSONReaderLimit(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteJSON(&buf, slices.Values(samplePlacemarks()), JSONOptions{})
	require.NoError(t, err)

	r := NewJSONReader(&buf)
	assert.Len(t, readAll(t, r, 2), 2)
	assert.NoError(t, r.Err())
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteCSV(&buf, slices.Values(samplePlacemarks()))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "declared_name,lat,lon\n"+
		"PRINCES FREEWAY,-37.8136,144.9631\n"+
		"PRINCES FREEWAY,-37.814,144.964\n"+
		"HUME HIGHWAY,-37.7,145\n", buf.String())
}

func TestWriteScript(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteScript(&buf, "roads", slices.Values(samplePlacemarks()[1:2]))
	require.NoError(t, err)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "var roads="), out)
	assert.Contains(t, out, "HUME HIGHWAY")
	assert.NotContains(t, out, "\n\t")
}

func TestCrop(t *testing.T) {
	bb := da.NewBoundingBox(-37.9, 144.9, -37.81, 145.0)

	got := slices.Collect(Crop(slices.Values(samplePlacemarks()), bb))
	require.Len(t, got, 3)
	assert.Equal(t, []da.Point{da.NewPoint(-37.8136, 144.9631), da.NewPoint(-37.814, 144.964)}, got[0].Points)
	assert.Empty(t, got[1].Points)
	assert.Empty(t, got[2].Points)

	all := slices.Collect(Crop(slices.Values(samplePlacemarks()), nil))
	assert.Equal(t, samplePlacemarks(), all)
}

func TestOpenAndWriteFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "roads.json")
	n, err := WriteFile(jsonPath, slices.Values(samplePlacemarks()), JSONOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	src, err := Open(context.Background(), jsonPath, zap.NewNop())
	require.NoError(t, err)
	defer src.Close()
	assert.Equal(t, samplePlacemarks(), readAll(t, src, 0))
	assert.NoError(t, src.Err())

	kmlPath := filepath.Join(dir, "roads.kml")
	require.NoError(t, os.WriteFile(kmlPath, []byte(`<kml><Placemark>
		<SimpleData name="DECLARED">A</SimpleData>
		<coordinates>144.9,-37.8 145,-37.9</coordinates>
	</Placemark></kml>`), 0o644))
	kmlSrc, err := Open(context.Background(), kmlPath, zap.NewNop())
	require.NoError(t, err)
	got := readAll(t, kmlSrc, 0)
	require.Len(t, got, 1)
	assert.Equal(t, da.NewPoint(-37.8, 144.9), got[0].Points[0])

	_, err = Open(context.Background(), filepath.Join(dir, "roads.shp"), zap.NewNop())
	assert.ErrorIs(t, util.ErrorCode(err), util.ErrBadParamInput)

	_, err = WriteFile(filepath.Join(dir, "roads.xml"), slices.Values(samplePlacemarks()), JSONOptions{})
	assert.ErrorIs(t, util.ErrorCode(err), util.ErrBadParamInput)

	for _, name := range []string{"roads.csv", "roads.js"} {
		_, err := WriteFile(filepath.Join(dir, name), slices.Values(samplePlacemarks()), JSONOptions{})
		assert.NoError(t, err, name)
	}
}
