package controllers

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
	"github.com/uozuAho/vicroads-graph-search/pkg/graphio"
	helper "github.com/uozuAho/vicroads-graph-search/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

const (
	defaultK          = 1
	defaultBoxLimit   = 1000
	defaultRoadsLimit = 50
)

type graphAPI struct {
	graphService GraphService
	validate     *requestValidator
	log          *zap.Logger
}

func New(graphService GraphService, log *zap.Logger) *graphAPI {
	return &graphAPI{
		graphService: graphService,
		validate:     newRequestValidator(),
		log:          log,
	}
}

func (api *graphAPI) Routes(group *helper.RouteGroup) {
	group.GET("/graph", api.graph)
	group.GET("/nearest", api.nearest)
	group.GET("/nearby", api.nearby)
	group.GET("/nodes", api.nodesInBox)
	group.GET("/nodes/:id", api.node)
	group.GET("/roads", api.roads)
	group.GET("/stats", api.stats)
}

func (api *graphAPI) graph(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": graphio.ToJSON(api.graphService.GetGraph())}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *graphAPI) nearest(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request nearestRequest
		err     error
	)
	query := r.URL.Query()

	if request.Lat, err = queryFloat(query, "lat"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if request.Lon, err = queryFloat(query, "lon"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if request.K, err = queryInt(query, "k", defaultK); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validate.Struct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	neighbors := api.graphService.Nearest(request.Lat, request.Lon, request.K)
	resp := make([]nearestResponse, len(neighbors))
	for i, nb := range neighbors {
		node, err := api.graphService.Node(nb.Item.ID)
		if err != nil {
			api.getStatusCode(w, r, err)
			return
		}
		resp[i] = NewNearestResponse(node, nb.DistSquared, request.Lat, request.Lon)
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": resp}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *graphAPI) nearby(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request nearbyRequest
		err     error
	)
	query := r.URL.Query()

	if request.Lat, err = queryFloat(query, "lat"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if request.Lon, err = queryFloat(query, "lon"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if request.Radius, err = queryFloat(query, "radius"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if request.Limit, err = queryInt(query, "limit", defaultBoxLimit); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validate.Struct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	nodes := api.graphService.NodesWithinRadius(request.Lat, request.Lon, request.Radius, request.Limit)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewNodesResponse(nodes)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *graphAPI) nodesInBox(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request boxRequest
		err     error
	)
	query := r.URL.Query()

	for _, f := range []struct {
		key string
		dst *float64
	}{
		{"min_lat", &request.MinLat},
		{"min_lon", &request.MinLon},
		{"max_lat", &request.MaxLat},
		{"max_lon", &request.MaxLon},
	} {
		if *f.dst, err = queryFloat(query, f.key); err != nil {
			api.BadRequestResponse(w, r, err)
			return
		}
	}
	if request.Limit, err = queryInt(query, "limit", defaultBoxLimit); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validate.Struct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	bb := da.NewBoundingBox(request.MinLat, request.MinLon, request.MaxLat, request.MaxLon)
	nodes, truncated := api.graphService.NodesInBox(bb, request.Limit)
	resp := nodesInBoxResponse{Nodes: NewNodesResponse(nodes), Truncated: truncated}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": resp}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *graphAPI) node(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	id, err := da.ParseIndex(p.ByName("id"))
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("id must be a valid node index"))
		return
	}

	node, err := api.graphService.Node(id)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewNodeResponse(node)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *graphAPI) roads(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request roadsRequest
		err     error
	)
	query := r.URL.Query()
	request.Name = query.Get("name")
	if request.Limit, err = queryInt(query, "limit", defaultRoadsLimit); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validate.Struct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	roads := api.graphService.Roads(request.Name, request.Limit)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewRoadsResponse(roads)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *graphAPI) stats(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": api.graphService.Stats()}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
