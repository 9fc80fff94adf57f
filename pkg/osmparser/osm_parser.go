package osmparser

import (
	"context"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
	"github.com/uozuAho/vicroads-graph-search/pkg/util"
	"go.uber.org/zap"
)

type NodeType int

const (
	END_NODE NodeType = iota
	BETWEEN_NODE
	JUNCTION_NODE
)

type NodeCoord struct {
	lat float64
	lon float64
}

func NewNodeCoord(lat, lon float64) NodeCoord {
	return NodeCoord{lat, lon}
}

type osmWay struct {
	id    int64
	nodes []int64
	name  string
	ref   string
	hwTag string
}

// OsmParser turns the drivable highway ways of an OpenStreetMap extract into
// placemarks, one per way, in file order.
type OsmParser struct {
	log             *zap.Logger
	wayNodeMap      map[int64]NodeType
	acceptedNodeMap map[int64]NodeCoord
	ways            []osmWay
	err             error
}

func NewOSMParser(log *zap.Logger) *OsmParser {
	return &OsmParser{
		log:             log,
		wayNodeMap:      make(map[int64]NodeType),
		acceptedNodeMap: make(map[int64]NodeCoord),
		ways:            make([]osmWay, 0),
	}
}

// Parse reads mapFile: .osm.pbf via the pbf scanner, .osm or .osm.bz2 as xml.
func (p *OsmParser) Parse(ctx context.Context, mapFile string) error {
	f, err := os.Open(mapFile)
	if err != nil {
		return err
	}
	defer f.Close()

	switch {
	case strings.HasSuffix(mapFile, ".pbf"):
		err = p.parsePbf(ctx, f)
	case strings.HasSuffix(mapFile, ".osm.bz2"):
		bz, bzErr := bzip2.NewReader(f, nil)
		if bzErr != nil {
			return bzErr
		}
		defer bz.Close()
		err = p.ParseXML(ctx, bz)
	case strings.HasSuffix(mapFile, ".osm"):
		err = p.ParseXML(ctx, f)
	default:
		return util.WrapErrorf(nil, util.ErrBadParamInput, "unsupported openstreetmap file %q", mapFile)
	}
	p.err = err
	return err
}

// parsePbf scans twice: ways first to learn which nodes are needed, then
// only the coordinates of those nodes.
func (p *OsmParser) parsePbf(ctx context.Context, f io.ReadSeeker) error {
	scanner := osmpbf.New(ctx, f, 0)
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	// must not be parallel
	for scanner.Scan() {
		if way, ok := scanner.Object().(*osm.Way); ok {
			p.processWay(way)
		}
	}
	err := scanner.Err()
	scanner.Close()
	if err != nil {
		return fmt.Errorf("scan openstreetmap ways: %w", err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	scanner = osmpbf.New(ctx, f, 0)
	scanner.SkipWays = true
	scanner.SkipRelations = true
	defer scanner.Close()
	for scanner.Scan() {
		if node, ok := scanner.Object().(*osm.Node); ok {
			p.processNode(node, false)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan openstreetmap nodes: %w", err)
	}
	p.logSummary()
	return nil
}

// ParseXML reads an OSM xml document in a single pass. coordinates of every
// node are kept until the end of the document since ways follow nodes.
func (p *OsmParser) ParseXML(ctx context.Context, r io.Reader) error {
	scanner := osmxml.New(ctx, r)
	defer scanner.Close()
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			p.processNode(o, true)
		case *osm.Way:
			p.processWay(o)
		}
	}
	if err := scanner.Err(); err != nil {
		p.err = fmt.Errorf("scan openstreetmap xml: %w", err)
		return p.err
	}
	p.logSummary()
	return nil
}

func (p *OsmParser) processWay(way *osm.Way) {
	if len(way.Nodes) < 2 || !acceptOsmWay(way) {
		return
	}
	if (len(p.ways)+1)%50000 == 0 {
		p.log.Sugar().Infof("scanning openstreetmap ways: %d...", len(p.ways)+1)
	}

	w := osmWay{
		id:    int64(way.ID),
		nodes: make([]int64, len(way.Nodes)),
		name:  way.Tags.Find("name"),
		ref:   way.Tags.Find("ref"),
		hwTag: way.Tags.Find("highway"),
	}
	for i, node := range way.Nodes {
		id := int64(node.ID)
		w.nodes[i] = id
		if _, ok := p.wayNodeMap[id]; !ok {
			if i == 0 || i == len(way.Nodes)-1 {
				p.wayNodeMap[id] = END_NODE
			} else {
				p.wayNodeMap[id] = BETWEEN_NODE
			}
		} else {
			p.wayNodeMap[id] = JUNCTION_NODE
		}
		// some extracts carry locations on way nodes
		if node.Lat != 0 || node.Lon != 0 {
			p.acceptedNodeMap[id] = NewNodeCoord(node.Lat, node.Lon)
		}
	}
	p.ways = append(p.ways, w)
}

func (p *OsmParser) processNode(node *osm.Node, keepAll bool) {
	id := int64(node.ID)
	if !keepAll {
		if _, ok := p.wayNodeMap[id]; !ok {
			return
		}
	}
	p.acceptedNodeMap[id] = NewNodeCoord(node.Lat, node.Lon)
}

func (p *OsmParser) logSummary() {
	p.log.Info("openstreetmap extract scanned",
		zap.Int("ways", len(p.ways)),
		zap.Int("way_nodes", len(p.wayNodeMap)),
		zap.Int("junction_nodes", p.NumberOfJunctions()))
}

func (p *OsmParser) NumberOfJunctions() int {
	count := 0
	for _, t := range p.wayNodeMap {
		if t == JUNCTION_NODE {
			count++
		}
	}
	return count
}

// Placemarks yields at most limit placemarks (limit <= 0: all). declared name
// is the ref tag, or the name tag for unnumbered roads. nodes missing from the
// extract are left out; ways left with fewer than 2 points are skipped.
func (p *OsmParser) Placemarks(limit int) iter.Seq[da.Placemark] {
	return func(yield func(da.Placemark) bool) {
		count := 0
		for _, w := range p.ways {
			if limit > 0 && count >= limit {
				return
			}
			points := make([]da.Point, 0, len(w.nodes))
			for _, id := range w.nodes {
				coord, ok := p.acceptedNodeMap[id]
				if !ok {
					continue
				}
				points = append(points, da.NewPoint(coord.lat, coord.lon))
			}
			if len(points) < 2 {
				continue
			}

			declared := w.ref
			if declared == "" {
				declared = w.name
			}
			pm := da.NewPlacemark(declared, points)
			pm.RoadName = w.name
			pm.LocalName = w.hwTag
			count++
			if !yield(pm) {
				return
			}
		}
	}
}

func (p *OsmParser) Err() error {
	return p.err
}
