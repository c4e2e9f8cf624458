// Command csg runs the first compile stage: reading a .MAP file and
// producing the entity lump plus per-brush face list that the bsp tool
// consumes next.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mapc/internal/clopt"
	"mapc/internal/compile"
	"mapc/internal/csg"
	"mapc/internal/entity"
	"mapc/internal/mapsyntax"
	"mapc/internal/stats"
)

func main() {
	opts := clopt.Global()

	root := &cobra.Command{
		Use:   "csg <mapfile>",
		Short: "brush-to-face constructive solid geometry stage",
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

func run(mapPath string, opts *clopt.Options) error {
	o := opts.Get()
	diag := clopt.NewDiagnostic(os.Stdout, o.Dev)
	diag.Stage("CSG")
	stats.Reset()

	defer stats.Track("csg.total")()

	src, err := os.ReadFile(mapPath)
	if err != nil {
		return err
	}

	raws, err := mapsyntax.Parse(string(src))
	if err != nil {
		diag.Error("%v", err)
		return err
	}

	c := compile.New()
	if err := csg.ProcessEntities(c, raws); err != nil {
		diag.Error("%v", err)
		return err
	}

	entPath := entLumpPath(mapPath)
	ents := make([]*entity.Entity, len(c.Entities))
	copy(ents, c.Entities)
	if err := os.WriteFile(entPath, []byte(entity.WriteLump(ents)), 0644); err != nil {
		return err
	}

	csgPath := csgSnapshotPath(mapPath)
	if err := c.Save(csgPath); err != nil {
		return err
	}

	diag.Verbose("%d entities, %d brushes, %d faces", len(c.Entities), len(c.Brushes), len(c.Faces))
	if o.Verbose {
		fmt.Print(stats.Report())
	}
	return nil
}

func entLumpPath(mapPath string) string {
	if len(mapPath) > 4 && mapPath[len(mapPath)-4:] == ".map" {
		return mapPath[:len(mapPath)-4] + ".ent"
	}
	return mapPath + ".ent"
}

// csgSnapshotPath is the sidecar the bsp tool reads next in the
// pipeline: the full brush/face/plane state, not just the entity lump.
func csgSnapshotPath(mapPath string) string {
	if len(mapPath) > 4 && mapPath[len(mapPath)-4:] == ".map" {
		return mapPath[:len(mapPath)-4] + ".csg"
	}
	return mapPath + ".csg"
}
