// Command vis computes the potentially-visible-set for a compiled .bsp
// and writes it back into the file's visibility lump.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mapc/internal/bspbuild"
	"mapc/internal/bspfile"
	"mapc/internal/clopt"
	"mapc/internal/plane"
	"mapc/internal/stats"
	"mapc/internal/vis"
)

func main() {
	opts := clopt.Global()

	root := &cobra.Command{
		Use:   "vis <bspfile>",
		Short: "portal-based potentially-visible-set computation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := clopt.BindShared(cmd.Flags(), opts); err != nil {
				return err
			}
			return run(args[0], opts)
		},
	}
	clopt.RegisterShared(root.Flags())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(bspPath string, opts *clopt.Options) error {
	o := opts.Get()
	diag := clopt.NewDiagnostic(os.Stdout, o.Dev)
	diag.Stage("VIS")
	stats.Reset()
	defer stats.Track("vis.total")()

	data, err := bspfile.Load(bspPath)
	if err != nil {
		return err
	}

	tree := rebuildTree(data)
	tree.Portalize()

	base := vis.BaseVis(tree)
	tightened := vis.Tighten(tree, base)

	lump, offsets := vis.CompressAll(tightened)
	data.Visibility = lump
	for i := range data.Leafs {
		if i < len(offsets) {
			data.Leafs[i].VisOfs = offsets[i]
		}
	}

	if err := bspfile.Save(bspPath, data); err != nil {
		return err
	}

	diag.Verbose("%d leafs, %d portals, %d bytes of compressed visdata", len(tree.Leafs), len(tree.Portals), len(lump))
	if o.Verbose {
		fmt.Print(stats.Report())
	}
	return nil
}

// rebuildTree reconstructs a bspbuild.Tree's node/leaf arenas from a
// loaded .bsp image, since VIS runs as a separate process from BSP and
// only has the on-disk node/leaf/plane lumps to work from.
func rebuildTree(data *bspfile.Data) *bspbuild.Tree {
	planes := make([]plane.Plane, len(data.Planes))
	for i, p := range data.Planes {
		planes[i] = plane.New(vec3From32(p.Normal), float64(p.Dist))
	}
	reg := plane.Restore(planes)

	t := &bspbuild.Tree{Planes: reg}
	for _, n := range data.Nodes {
		t.Nodes = append(t.Nodes, bspbuild.Node{PlaneNum: int(n.PlaneNum), Children: n.Children})
	}
	for _, l := range data.Leafs {
		t.Leafs = append(t.Leafs, bspbuild.Leaf{Contents: contentsFromBSP(l.Contents)})
	}
	if len(t.Nodes) > 0 {
		t.Root = 0
	} else if len(t.Leafs) > 0 {
		t.Root = -1
	}
	return t
}
