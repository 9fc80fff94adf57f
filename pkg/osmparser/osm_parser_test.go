package osmparser

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
	"github.com/uozuAho/vicroads-graph-search/pkg/util"
	"go.uber.org/zap"
)

const sampleOSM = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="-37.8136" lon="144.9631"/>
  <node id="2" lat="-37.8140" lon="144.9640"/>
  <node id="3" lat="-37.8150" lon="144.9650"/>
  <node id="4" lat="-37.8100" lon="144.9700"/>
  <node id="5" lat="-37.8000" lon="144.9800"/>
  <way id="10">
    <nd ref="1"/><nd ref="2"/><nd ref="3"/>
    <tag k="highway" v="primary"/>
    <tag k="name" v="Flinders Street"/>
    <tag k="ref" v="C10"/>
  </way>
  <way id="11">
    <nd ref="3"/><nd ref="4"/>
    <tag k="highway" v="residential"/>
    <tag k="name" v="Lane Street"/>
  </way>
  <way id="12">
    <nd ref="4"/><nd ref="5"/>
    <tag k="highway" v="footway"/>
  </way>
  <way id="13">
    <nd ref="2"/><nd ref="99"/>
    <tag k="highway" v="service"/>
  </way>
  <way id="14">
    <nd ref="5"/>
    <tag k="highway" v="primary"/>
  </way>
</osm>`

func parseSample(t *testing.T) *OsmParser {
	t.Helper()
	p := NewOSMParser(zap.NewNop())
	require.NoError(t, p.ParseXML(context.Background(), strings.NewReader(sampleOSM)))
	return p
}

func TestParseXMLPlacemarks(t *testing.T) {
	p := parseSample(t)

	var got []da.Placemark
	for pm := range p.Placemarks(0) {
		got = append(got, pm)
	}
	require.NoError(t, p.Err())
	require.Len(t, got, 2)

	assert.Equal(t, "C10", got[0].DeclaredName)
	assert.Equal(t, "Flinders Street", got[0].RoadName)
	assert.Equal(t, "primary", got[0].LocalName)
	assert.Equal(t, []da.Point{
		da.NewPoint(-37.8136, 144.9631),
		da.NewPoint(-37.8140, 144.9640),
		da.NewPoint(-37.8150, 144.9650),
	}, got[0].Points)

	assert.Equal(t, "Lane Street", got[1].DeclaredName)
	assert.Len(t, got[1].Points, 2)

	// node 3 ends way 10 and starts way 11, node 2 is shared with way 13
	assert.Equal(t, 2, p.NumberOfJunctions())
}

func TestPlacemarksLimit(t *testing.T) {
	p := parseSample(t)
	count := 0
	for range p.Placemarks(1) {
		count++
	}
	assert.Equal(t, 1, count)
}

func TestAcceptOsmWay(t *testing.T) {
	testCases := []struct {
		name string
		tags osm.Tags
		want bool
	}{
		{name: "motorway", tags: osm.Tags{{Key: "highway", Value: "motorway"}}, want: true},
		{name: "footway", tags: osm.Tags{{Key: "highway", Value: "footway"}}, want: false},
		{name: "track is skipped", tags: osm.Tags{{Key: "highway", Value: "track"}}, want: false},
		{name: "unknown highway value", tags: osm.Tags{{Key: "highway", Value: "proposed"}}, want: false},
		{name: "junction only", tags: osm.Tags{{Key: "junction", Value: "roundabout"}}, want: true},
		{name: "no tags", tags: nil, want: false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, acceptOsmWay(&osm.Way{Tags: tt.tags}))
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "melbourne.osm")
	require.NoError(t, os.WriteFile(path, []byte(sampleOSM), 0o644))

	p := NewOSMParser(zap.NewNop())
	require.NoError(t, p.Parse(context.Background(), path))
	count := 0
	for range p.Placemarks(0) {
		count++
	}
	assert.Equal(t, 2, count)

	err := NewOSMParser(zap.NewNop()).Parse(context.Background(), filepath.Join(dir, "missing.osm"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	unsupported := filepath.Join(dir, "melbourne.csv")
	require.NoError(t, os.WriteFile(unsupported, []byte("x"), 0o644))
	err = NewOSMParser(zap.NewNop()).Parse(context.Background(), unsupported)
	assert.ErrorIs(t, util.ErrorCode(err), util.ErrBadParamInput)
}
