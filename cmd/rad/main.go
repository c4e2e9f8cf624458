// Command rad computes direct and bounced lighting for a compiled .bsp
// and writes sampled lightmaps into the file's lighting lump.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mapc/internal/bspfile"
	"mapc/internal/clopt"
	"mapc/internal/entity"
	"mapc/internal/rad"
	"mapc/internal/stats"
	"mapc/internal/workpool"
)

func main() {
	opts := clopt.Global()

	root := &cobra.Command{
		Use:   "rad <bspfile>",
		Short: "radiosity lightmap solver",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := clopt.BindShared(cmd.Flags(), opts); err != nil {
				return err
			}
			chop, _ := cmd.Flags().GetFloat64("chop")
			bounce, _ := cmd.Flags().GetInt("bounce")
			return run(args[0], opts, chop, bounce)
		},
	}
	clopt.RegisterShared(root.Flags())
	root.Flags().Float64("chop", rad.PatchSize, "patch subdivision size")
	root.Flags().Int("bounce", 8, "maximum bounce iterations")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(bspPath string, opts *clopt.Options, chop float64, maxBounce int) error {
	o := opts.Get()
	diag := clopt.NewDiagnostic(os.Stdout, o.Dev)
	diag.Stage("RAD")
	stats.Reset()
	defer stats.Track("rad.total")()

	data, err := bspfile.Load(bspPath)
	if err != nil {
		return err
	}

	ents, err := entity.ParseLump(data.Entities)
	if err != nil {
		return err
	}

	faces := facesFromData(data)
	patches := rad.Subdivide(faces, nil, chop)
	lights := rad.GatherLights(ents)
	rad.ApplyDirectLighting(patches, lights, nil)

	pool := workpool.New(o.Threads)
	transfers := rad.BuildTransfers(pool, patches, nil)

	est := clopt.NewEstimator("bouncing light", o.Estimate)
	rounds := rad.RunToConvergence(pool, patches, transfers, maxBounce, 1e-6)
	est.Stop()

	data.Lighting = bakeLighting(data, patches)

	if err := bspfile.Save(bspPath, data); err != nil {
		return err
	}

	diag.Verbose("%d patches, converged after %d bounce rounds", len(patches), rounds)
	if o.Verbose {
		fmt.Print(stats.Report())
	}
	return nil
}
