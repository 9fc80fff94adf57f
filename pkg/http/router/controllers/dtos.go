package controllers

import (
	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
	"github.com/uozuAho/vicroads-graph-search/pkg/geo"
)

type nearestRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
	K   int     `json:"k" validate:"min=1,max=100"`
}

type nearbyRequest struct {
	Lat    float64 `json:"lat" validate:"min=-90,max=90"`
	Lon    float64 `json:"lon" validate:"min=-180,max=180"`
	Radius float64 `json:"radius" validate:"gt=0,max=5000"`
	Limit  int     `json:"limit" validate:"min=1,max=1000"`
}

type boxRequest struct {
	MinLat float64 `json:"min_lat" validate:"min=-90,max=90"`
	MinLon float64 `json:"min_lon" validate:"min=-180,max=180"`
	MaxLat float64 `json:"max_lat" validate:"min=-90,max=90,gtefield=MinLat"`
	MaxLon float64 `json:"max_lon" validate:"min=-180,max=180,gtefield=MinLon"`
	Limit  int     `json:"limit" validate:"min=1,max=1000"`
}

type roadsRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Limit int    `json:"limit" validate:"min=1,max=500"`
}

type nodeResponse struct {
	Index    da.Index   `json:"index"`
	Lat      float64    `json:"lat"`
	Lon      float64    `json:"lon"`
	Adjacent []da.Index `json:"adjacent"`
}

func NewNodeResponse(n *da.Node) nodeResponse {
	adjacent := n.GetAdjacent()
	if adjacent == nil {
		adjacent = []da.Index{}
	}
	return nodeResponse{
		Index:    n.GetIndex(),
		Lat:      n.GetY(),
		Lon:      n.GetX(),
		Adjacent: adjacent,
	}
}

func NewNodesResponse(nodes []*da.Node) []nodeResponse {
	out := make([]nodeResponse, len(nodes))
	for i, n := range nodes {
		out[i] = NewNodeResponse(n)
	}
	return out
}

type nearestResponse struct {
	nodeResponse
	DistSquared    float64 `json:"dist_squared"`
	DistanceMeters float64 `json:"distance_m"`
}

func NewNearestResponse(n *da.Node, distSquared, lat, lon float64) nearestResponse {
	return nearestResponse{
		nodeResponse:   NewNodeResponse(n),
		DistSquared:    distSquared,
		DistanceMeters: geo.S2Distance(geo.NewCoordinate(lat, lon), geo.NewCoordinate(n.GetY(), n.GetX())),
	}
}

type nodesInBoxResponse struct {
	Nodes     []nodeResponse `json:"nodes"`
	Truncated bool           `json:"truncated"`
}

type roadResponse struct {
	DeclaredName string `json:"declared_name"`
	RoadName     string `json:"road_name,omitempty"`
	LocalName    string `json:"local_name,omitempty"`
	NumPoints    int    `json:"num_points"`
	Polyline     string `json:"polyline"`
}

func NewRoadsResponse(placemarks []da.Placemark) []roadResponse {
	out := make([]roadResponse, len(placemarks))
	for i, p := range placemarks {
		out[i] = roadResponse{
			DeclaredName: p.DeclaredName,
			RoadName:     p.RoadName,
			LocalName:    p.LocalName,
			NumPoints:    p.NumberOfPoints(),
			Polyline:     p.EncodedPolyline(),
		}
	}
	return out
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
