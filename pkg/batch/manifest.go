package batch

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
	"github.com/uozuAho/vicroads-graph-search/pkg/roadgraph"
	"github.com/zclconf/go-cty/cty"
)

// Job is one conversion: input records file to output graph file.
type Job struct {
	Name           string
	Input          string
	Output         string
	Limit          int
	MaxDistSquared float64
	Crop           *da.BoundingBox
}

type Manifest struct {
	Jobs []Job
}

type hclCrop struct {
	MinLat float64 `hcl:"min_lat"`
	MinLon float64 `hcl:"min_lon"`
	MaxLat float64 `hcl:"max_lat"`
	MaxLon float64 `hcl:"max_lon"`
}

type hclJob struct {
	Input          string   `hcl:"input"`
	Output         string   `hcl:"output"`
	Limit          *int     `hcl:"limit,optional"`
	MaxDistSquared *float64 `hcl:"max_dist_squared,optional"`
	Crop           *hclCrop `hcl:"crop,block"`
}

var manifestSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "job", LabelNames: []string{"name"}},
	},
}

// LoadManifest parses an HCL manifest file. environment variables are
// visible to expressions as env.NAME.
func LoadManifest(path string) (*Manifest, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseManifest(path, src, environ())
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && k != "" {
			env[k] = v
		}
	}
	return env
}

// ParseManifest decodes job blocks. top level attributes are evaluated first
// and can be referenced from jobs by name, e.g. "${data_dir}/roads.kml".
func ParseManifest(filename string, src []byte, env map[string]string) (*Manifest, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	content, remain, diags := file.Body.PartialContent(manifestSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	evalCtx, err := buildEvalContext(remain, env)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate variables in %s: %w", filename, err)
	}

	m := &Manifest{Jobs: make([]Job, 0, len(content.Blocks))}
	seen := make(map[string]struct{}, len(content.Blocks))
	for _, block := range content.Blocks {
		name := block.Labels[0]
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%s: duplicate job %q", filename, name)
		}
		seen[name] = struct{}{}

		var hj hclJob
		if diags := gohcl.DecodeBody(block.Body, evalCtx, &hj); diags.HasErrors() {
			return nil, fmt.Errorf("job %q: %w", name, diags)
		}
		job, err := hj.toJob(name)
		if err != nil {
			return nil, err
		}
		m.Jobs = append(m.Jobs, job)
	}
	return m, nil
}

func buildEvalContext(body hcl.Body, env map[string]string) (*hcl.EvalContext, error) {
	envVals := make(map[string]cty.Value, len(env))
	for k, v := range env {
		envVals[k] = cty.StringVal(v)
	}
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(envVals),
		},
	}

	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	vars := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, diags
		}
		vars[name] = val
	}
	for name, val := range vars {
		evalCtx.Variables[name] = val
	}
	return evalCtx, nil
}

func (hj hclJob) toJob(name string) (Job, error) {
	job := Job{
		Name:           name,
		Input:          hj.Input,
		Output:         hj.Output,
		MaxDistSquared: roadgraph.DefaultMaxDistSquared,
	}
	if hj.Limit != nil {
		job.Limit = *hj.Limit
	}
	if hj.MaxDistSquared != nil {
		if *hj.MaxDistSquared < 0 {
			return job, fmt.Errorf("job %q: max_dist_squared must not be negative", name)
		}
		job.MaxDistSquared = *hj.MaxDistSquared
	}
	if hj.Crop != nil {
		c := hj.Crop
		if c.MinLat > c.MaxLat || c.MinLon > c.MaxLon {
			return job, fmt.Errorf("job %q: crop min must not exceed max", name)
		}
		job.Crop = da.NewBoundingBox(c.MinLat, c.MinLon, c.MaxLat, c.MaxLon)
	}
	return job, nil
}
