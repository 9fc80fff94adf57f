package datastructure

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/uozuAho/vicroads-graph-search/pkg/util"
)

// WriteGraph writes the graph as bzip2 compressed text:
//
//	n m
//	x y          (n lines, node i on line i)
//	from to      (m lines, same order as GetEdges)
func (g *Graph) WriteGraph(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return g.WriteGraphTo(f)
}

func (g *Graph) WriteGraphTo(out io.Writer) error {
	bz, err := bzip2.NewWriter(out, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}

	w := bufio.NewWriter(bz)

	fmt.Fprintf(w, "%d %d\n", len(g.nodes), g.NumberOfEdges())

	for _, v := range g.nodes {
		xF := strconv.FormatFloat(v.xy.x, 'f', -1, 64)
		yF := strconv.FormatFloat(v.xy.y, 'f', -1, 64)
		fmt.Fprintf(w, "%s %s\n", xF, yF)
	}

	g.ForEdges(func(e Edge) {
		fmt.Fprintf(w, "%d %d\n", e.From, e.To)
	})

	if err := w.Flush(); err != nil {
		return err
	}
	return bz.Close()
}

func fields(s string) []string {
	return strings.Fields(s)
}

func ParseIndex(s string) (Index, error) {
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if u > math.MaxUint32 {
		return 0, fmt.Errorf("value %s overflows uint32", s)
	}
	return Index(u), nil
}

func ReadGraph(filename string) (*Graph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	return ReadGraphFrom(f)
}

func ReadGraphFrom(in io.Reader) (*Graph, error) {
	bz, err := bzip2.NewReader(in, nil)
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	br := bufio.NewReader(bz)

	line, err := util.ReadLine(br)
	if err != nil {
		return nil, err
	}

	tokens := fields(line)
	if len(tokens) != 2 {
		return nil, fmt.Errorf("invalid graph header %q", line)
	}

	numNodes, err := ParseIndex(tokens[0])
	if err != nil {
		return nil, err
	}
	numEdges, err := strconv.Atoi(tokens[1])
	if err != nil {
		return nil, err
	}

	nodes := make([]*Node, numNodes)
	for i := 0; i < int(numNodes); i++ {
		nodeLine, err := util.ReadLine(br)
		if err != nil {
			return nil, err
		}
		tokens := fields(nodeLine)
		if len(tokens) != 2 {
			return nil, fmt.Errorf("invalid node line %d: %q", i, nodeLine)
		}
		x, err := util.StringToFloat64(tokens[0])
		if err != nil {
			return nil, err
		}
		y, err := util.StringToFloat64(tokens[1])
		if err != nil {
			return nil, err
		}
		nodes[i] = NewNode(Index(i), NewCoordinate(x, y))
	}

	for i := 0; i < numEdges; i++ {
		edgeLine, err := util.ReadLine(br)
		if err != nil {
			return nil, err
		}
		tokens := fields(edgeLine)
		if len(tokens) != 2 {
			return nil, fmt.Errorf("invalid edge line %d: %q", i, edgeLine)
		}
		from, err := ParseIndex(tokens[0])
		if err != nil {
			return nil, err
		}
		to, err := ParseIndex(tokens[1])
		if err != nil {
			return nil, err
		}
		if from >= numNodes || to >= numNodes {
			return nil, fmt.Errorf("edge %d (%d, %d) references unknown node", i, from, to)
		}
		nodes[from].AddAdjacent(to)
	}

	return NewGraph(nodes), nil
}
