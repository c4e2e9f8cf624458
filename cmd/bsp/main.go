// Command bsp builds the visible-geometry node tree, clipping hulls, and
// the final .bsp container from the CSG stage's output.
package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"mapc/internal/bspbuild"
	"mapc/internal/bspfile"
	"mapc/internal/clopt"
	"mapc/internal/compile"
	"mapc/internal/hull"
	"mapc/internal/stats"
)

func main() {
	opts := clopt.Global()
	var noBrink bool

	root := &cobra.Command{
		Use:   "bsp <csgfile>",
		Short: "spatial partitioning, portalization, and clip-hull construction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := clopt.BindShared(cmd.Flags(), opts); err != nil {
				return err
			}
			return run(args[0], opts, noBrink)
		},
	}
	clopt.RegisterShared(root.Flags())
	root.Flags().BoolVar(&noBrink, "nobrink", false, "skip clip-hull brink repair")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(csgPath string, opts *clopt.Options, noBrink bool) error {
	o := opts.Get()
	diag := clopt.NewDiagnostic(os.Stdout, o.Dev)
	diag.Stage("BSP")
	stats.Reset()
	defer stats.Track("bsp.total")()

	c, err := compile.Load(csgPath)
	if err != nil {
		return err
	}

	tree := bspbuild.Build(c.Planes, c.Faces)
	tree.Portalize()

	leakPath, leaked := tree.FloodFillOutside(c)
	if leaked {
		diag.Warning("map is not sealed, leak through leafs %v", leakPath)
		pts := tree.LeakPoints(leakPath)
		if err := writePointFile(ptsOutPath(csgPath), pts); err != nil {
			return err
		}
		diag.Warning("wrote %s, visibility lump will not be emitted", ptsOutPath(csgPath))
	}

	bspbuild.FixTJunctions(c.Faces)

	var allClipNodes []bspfile.ClipNode
	var headNodes [3]int32
	for i, exp := range hull.Hulls {
		ht := hull.BuildOptions(c.Planes, c.Brushes, exp, !noBrink)
		narrowed, err := ht.Narrow()
		if err != nil {
			diag.Error("%v", err)
			return err
		}

		offset := int32(len(allClipNodes))
		if offset+int32(len(narrowed)) > bspfile.MaxMapClipNodes {
			err := compile.InternalError("clip hulls have %d nodes combined, exceeds MAX_MAP_CLIPNODES %d", offset+int32(len(narrowed)), bspfile.MaxMapClipNodes)
			diag.Error("%v", err)
			return err
		}
		for j := range narrowed {
			for k := 0; k < 2; k++ {
				if narrowed[j].Children[k] >= 0 {
					narrowed[j].Children[k] += int16(offset)
				}
			}
		}
		if ht.Root >= 0 {
			headNodes[i] = ht.Root + offset
		} else {
			headNodes[i] = ht.Root
		}
		allClipNodes = append(allClipNodes, narrowed...)
	}

	data := toData(c, tree, allClipNodes, headNodes, leaked)
	outPath := bspOutPath(csgPath)
	if err := bspfile.Save(outPath, data); err != nil {
		return err
	}

	diag.Verbose("%d nodes, %d leafs, %d portals, %d clipnodes", len(tree.Nodes), len(tree.Leafs), len(tree.Portals), len(allClipNodes))
	if o.Verbose {
		fmt.Print(stats.Report())
	}
	return nil
}

func bspOutPath(csgPath string) string {
	if len(csgPath) > 4 && csgPath[len(csgPath)-4:] == ".csg" {
		return csgPath[:len(csgPath)-4] + ".bsp"
	}
	return csgPath + ".bsp"
}

// ptsOutPath names the leak-trace sidecar the same way bspOutPath names
// the .bsp: next to the .csg input, sharing its basename.
func ptsOutPath(csgPath string) string {
	if len(csgPath) > 4 && csgPath[len(csgPath)-4:] == ".csg" {
		return csgPath[:len(csgPath)-4] + ".pts"
	}
	return csgPath + ".pts"
}

// writePointFile writes one "x y z" line per point, the plain-text
// pointfile format a level editor plots as a polyline from the leaking
// entity out through the gap in the world's solid shell.
func writePointFile(path string, pts []mgl64.Vec3) error {
	var buf bytes.Buffer
	for _, p := range pts {
		fmt.Fprintf(&buf, "%f %f %f\n", p.X(), p.Y(), p.Z())
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func toData(c *compile.Compile, tree *bspbuild.Tree, clipNodes []bspfile.ClipNode, headNodes [3]int32, leaked bool) *bspfile.Data {
	d := &bspfile.Data{}
	for _, pl := range c.Planes.All() {
		d.Planes = append(d.Planes, bspfile.Plane{
			Normal: [3]float32{float32(pl.Normal.X()), float32(pl.Normal.Y()), float32(pl.Normal.Z())},
			Dist:   float32(pl.Dist),
			Type:   int32(pl.Type),
		})
	}
	for _, n := range tree.Nodes {
		d.Nodes = append(d.Nodes, bspfile.Node{PlaneNum: int32(n.PlaneNum), Children: n.Children})
	}
	for _, l := range tree.Leafs {
		d.Leafs = append(d.Leafs, bspfile.Leaf{Contents: int32(l.Contents), VisOfs: -1})
	}
	for _, f := range c.Faces {
		first := int32(len(d.SurfEdges))
		for i := range f.Points {
			a := addVertex(d, f.Points[i])
			b := addVertex(d, f.Points[(i+1)%len(f.Points)])
			edgeIdx := addEdge(d, a, b)
			d.SurfEdges = append(d.SurfEdges, int32(edgeIdx))
		}
		d.Faces = append(d.Faces, bspfile.Face{
			PlaneNum:  uint16(f.PlaneNum),
			FirstEdge: first,
			NumEdges:  uint16(len(f.Points)),
		})
	}
	d.ClipNodes = clipNodes

	mins, maxs := worldBounds(c.Faces)
	d.Models = append(d.Models, bspfile.Model{
		Mins:      mins,
		Maxs:      maxs,
		HeadNode:  [4]int32{tree.Root, headNodes[0], headNodes[1], headNodes[2]},
		VisLeafs:  int32(len(tree.Leafs)),
		FirstFace: 0,
		NumFaces:  int32(len(d.Faces)),
	})

	if leaked {
		// §4.4: a leaking world has no well-defined inside/outside split,
		// so no PVS can be computed from it; the vis stage must not be
		// allowed to stamp leaf VisOfs values against this bsp.
		d.Visibility = nil
	}
	return d
}

func worldBounds(faces []*compile.Face) (mins, maxs [3]float32) {
	first := true
	for _, f := range faces {
		for _, p := range f.Points {
			v := [3]float32{float32(p[0]), float32(p[1]), float32(p[2])}
			if first {
				mins, maxs = v, v
				first = false
				continue
			}
			for i := 0; i < 3; i++ {
				if v[i] < mins[i] {
					mins[i] = v[i]
				}
				if v[i] > maxs[i] {
					maxs[i] = v[i]
				}
			}
		}
	}
	return
}

func addVertex(d *bspfile.Data, p [3]float64) int {
	v := bspfile.Vertex{Point: [3]float32{float32(p[0]), float32(p[1]), float32(p[2])}}
	for i, existing := range d.Vertexes {
		if existing == v {
			return i
		}
	}
	d.Vertexes = append(d.Vertexes, v)
	return len(d.Vertexes) - 1
}

func addEdge(d *bspfile.Data, a, b int) int {
	d.Edges = append(d.Edges, bspfile.Edge{V: [2]uint16{uint16(a), uint16(b)}})
	return len(d.Edges) - 1
}
