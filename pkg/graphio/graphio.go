package graphio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
	"github.com/uozuAho/vicroads-graph-search/pkg/recordio"
	"github.com/uozuAho/vicroads-graph-search/pkg/render"
	"github.com/uozuAho/vicroads-graph-search/pkg/util"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON    Format = ".json"
	FormatJS      Format = ".js"
	FormatYAML    Format = ".yaml"
	FormatGeoJSON Format = ".geojson"
	FormatGraph   Format = ".graph"
	FormatPNG     Format = ".png"
	FormatWebP    Format = ".webp"
)

const webpQuality = 85

// FormatFromPath picks the output format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch Format(ext) {
	case FormatJSON, FormatJS, FormatYAML, FormatGeoJSON, FormatGraph, FormatPNG, FormatWebP:
		return Format(ext), nil
	case ".yml":
		return FormatYAML, nil
	}
	return "", util.WrapErrorf(nil, util.ErrBadParamInput, "unknown graph output extension %q", ext)
}

type NodeJSON struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// GraphJSON node i is Nodes[i], edges are directed [from, to] pairs.
type GraphJSON struct {
	Nodes []NodeJSON    `json:"nodes" yaml:"nodes"`
	Edges [][2]da.Index `json:"edges" yaml:"edges"`
}

func ToJSON(g *da.Graph) GraphJSON {
	out := GraphJSON{
		Nodes: make([]NodeJSON, g.NumberOfNodes()),
		Edges: make([][2]da.Index, 0, g.NumberOfEdges()),
	}
	for i, n := range g.GetNodes() {
		out.Nodes[i] = NodeJSON{X: n.GetX(), Y: n.GetY()}
	}
	g.ForEdges(func(e da.Edge) {
		out.Edges = append(out.Edges, [2]da.Index{e.From, e.To})
	})
	return out
}

func FromJSON(gj GraphJSON) (*da.Graph, error) {
	nodes := make([]*da.Node, len(gj.Nodes))
	for i, n := range gj.Nodes {
		nodes[i] = da.NewNode(da.Index(i), da.NewCoordinate(n.X, n.Y))
	}
	for i, e := range gj.Edges {
		if int(e[0]) >= len(nodes) || int(e[1]) >= len(nodes) {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "edge %d (%d, %d) references unknown node", i, e[0], e[1])
		}
		nodes[e[0]].AddAdjacent(e[1])
	}
	return da.NewGraph(nodes), nil
}

// ToGeoJSON one Point feature per node with its index, one LineString per
// undirected edge.
func ToGeoJSON(g *da.Graph) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, n := range g.GetNodes() {
		f := geojson.NewFeature(orb.Point{n.GetX(), n.GetY()})
		f.Properties["index"] = n.GetIndex()
		f.Properties["degree"] = n.GetDegree()
		fc.Append(f)
	}
	g.ForEdges(func(e da.Edge) {
		if e.From >= e.To {
			return
		}
		a, b := g.GetNode(e.From), g.GetNode(e.To)
		f := geojson.NewFeature(orb.LineString{{a.GetX(), a.GetY()}, {b.GetX(), b.GetY()}})
		f.Properties["from"] = e.From
		f.Properties["to"] = e.To
		fc.Append(f)
	})
	return fc
}

// Write serializes g in the given format. renderOpts only matters for images.
func Write(w io.Writer, format Format, g *da.Graph, renderOpts render.Options) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		return enc.Encode(ToJSON(g))
	case FormatJS:
		payload, err := json.Marshal(ToJSON(g))
		if err != nil {
			return err
		}
		return recordio.MinifyScript(w, "graph", payload)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ToJSON(g)); err != nil {
			return err
		}
		return enc.Close()
	case FormatGeoJSON:
		b, err := ToGeoJSON(g).MarshalJSON()
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case FormatGraph:
		return g.WriteGraphTo(w)
	case FormatPNG:
		return render.EncodePNG(w, render.Render(g, renderOpts))
	case FormatWebP:
		return render.EncodeWebP(w, render.Render(g, renderOpts), webpQuality)
	}
	return util.WrapErrorf(nil, util.ErrBadParamInput, "unknown graph format %q", format)
}

func WriteFile(path string, g *da.Graph, renderOpts render.Options) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = Write(f, format, g, renderOpts)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write graph %s: %w", path, err)
	}
	return nil
}

// ReadFile loads a graph written as .graph, .json or .yaml.
func ReadFile(path string) (*da.Graph, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	if format == FormatGraph {
		return da.ReadGraph(path)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var gj GraphJSON
	switch format {
	case FormatJSON:
		err = json.NewDecoder(bytes.NewReader(b)).Decode(&gj)
	case FormatYAML:
		err = yaml.Unmarshal(b, &gj)
	default:
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "cannot read graph from %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("read graph %s: %w", path, err)
	}
	return FromJSON(gj)
}
