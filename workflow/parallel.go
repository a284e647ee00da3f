package workflow

import (
	"fmt"

	"github.com/cheggaaa/pb"
	"golang.org/x/sync/errgroup"

	"github.com/amanzi/watershed-workflow/rasters"
	"github.com/amanzi/watershed-workflow/rivertree"
	"github.com/amanzi/watershed-workflow/splithucs"
	"github.com/amanzi/watershed-workflow/triangulation"
)

// MeshJob pairs one cleaned unit with its river forest.
type MeshJob struct {
	HUCs   *splithucs.SplitHUCs
	Rivers []*rivertree.Tree
}

// TriangulateAll meshes independent units in parallel.  Results come back
// in job order; the first failure cancels the batch.
func (e *Engine) TriangulateAll(jobs []MeshJob, kernel triangulation.Kernel, opts *triangulation.Options) ([]*triangulation.Mesh, error) {
	meshes := make([]*triangulation.Mesh, len(jobs))

	bar := pb.New(len(jobs))
	bar.Start()
	defer bar.Finish()

	var g errgroup.Group
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			m, err := e.Triangulate(job.HUCs, job.Rivers, kernel, opts)
			if err != nil {
				return fmt.Errorf("Failed to mesh unit %d: %s", i, err)
			}
			meshes[i] = m
			bar.Increment()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return meshes, nil
}

// ElevateAll samples the DEM for each unit's mesh in parallel.  Results come
// back in mesh order; the first failure cancels the batch.
func (e *Engine) ElevateAll(meshes []*triangulation.Mesh, dem *rasters.Raster) ([][][3]float64, error) {
	elevated := make([][][3]float64, len(meshes))

	bar := pb.New(len(meshes))
	bar.Start()
	defer bar.Finish()

	var g errgroup.Group
	for i, m := range meshes {
		i, m := i, m
		g.Go(func() error {
			points, err := e.ElevateMesh(m, dem)
			if err != nil {
				return fmt.Errorf("Failed to elevate unit %d: %s", i, err)
			}
			elevated[i] = points
			bar.Increment()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return elevated, nil
}
