package graphio

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
	"github.com/uozuAho/vicroads-graph-search/pkg/render"
	"github.com/uozuAho/vicroads-graph-search/pkg/util"
)

func sampleGraph() *da.Graph {
	nodes := []*da.Node{
		da.NewNode(0, da.NewCoordinate(144.9631, -37.8136)),
		da.NewNode(1, da.NewCoordinate(144.964, -37.814)),
		da.NewNode(2, da.NewCoordinate(145, -37.7)),
	}
	da.Link(nodes[0], nodes[1])
	return da.NewGraph(nodes)
}

func smallRender() render.Options {
	opts := render.DefaultOptions()
	opts.Width, opts.Height = 64, 64
	return opts
}

func TestFormatFromPath(t *testing.T) {
	testCases := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "out/roads.json", want: FormatJSON},
		{path: "roads.JS", want: FormatJS},
		{path: "roads.yml", want: FormatYAML},
		{path: "roads.yaml", want: FormatYAML},
		{path: "roads.geojson", want: FormatGeoJSON},
		{path: "roads.graph", want: FormatGraph},
		{path: "roads.png", want: FormatPNG},
		{path: "roads.webp", want: FormatWebP},
		{path: "roads.txt", wantErr: true},
		{path: "roads", wantErr: true},
	}

	for _, tt := range testCases {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, util.ErrorCode(err), util.ErrBadParamInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleGraph(), smallRender()))
	assert.JSONEq(t, `{
		"nodes": [{"x": 144.9631, "y": -37.8136}, {"x": 144.964, "y": -37.814}, {"x": 145, "y": -37.7}],
		"edges": [[0, 1], [1, 0]]
	}`, buf.String())
}

func TestWriteGeoJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatGeoJSON, sampleGraph(), smallRender()))

	fc, err := geojson.UnmarshalFeatureCollection(buf.Bytes())
	require.NoError(t, err)
	// 3 nodes + 1 undirected edge
	require.Len(t, fc.Features, 4)
	assert.Equal(t, "Point", fc.Features[0].Geometry.GeoJSONType())
	assert.Equal(t, "LineString", fc.Features[3].Geometry.GeoJSONType())
}

func TestWriteScript(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJS, sampleGraph(), smallRender()))
	assert.True(t, strings.HasPrefix(buf.String(), "var graph="), buf.String())
}

func TestWriteReadFile(t *testing.T) {
	dir := t.TempDir()
	g := sampleGraph()

	for _, name := range []string{"roads.json", "roads.yaml", "roads.graph"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, WriteFile(path, g, smallRender()))

			got, err := ReadFile(path)
			require.NoError(t, err)
			require.Equal(t, g.NumberOfNodes(), got.NumberOfNodes())
			for i, n := range g.GetNodes() {
				assert.Equal(t, n.GetXY(), got.GetNode(da.Index(i)).GetXY())
			}
			assert.Equal(t, g.GetEdges(), got.GetEdges())
		})
	}
}

func TestWriteImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"roads.png", "roads.webp"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteFile(path, sampleGraph(), smallRender()))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())

		_, err = ReadFile(path)
		assert.ErrorIs(t, util.ErrorCode(err), util.ErrBadParamInput)
	}
}

func TestFromJSONRejectsUnknownNode(t *testing.T) {
	var gj GraphJSON
	require.NoError(t, json.Unmarshal([]byte(`{"nodes":[{"x":0,"y":0}],"edges":[[0,3]]}`), &gj))
	_, err := FromJSON(gj)
	assert.ErrorIs(t, util.ErrorCode(err), util.ErrBadParamInput)
}

func TestWriteFileUnknownExtension(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "roads.svg"), sampleGraph(), smallRender())
	assert.ErrorIs(t, util.ErrorCode(err), util.ErrBadParamInput)
}
