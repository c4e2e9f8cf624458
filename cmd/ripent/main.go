// Command ripent round-trips a .bsp's entity lump to text, and reports
// which miptex entries its texinfo lump references, per C8.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mapc/internal/bspfile"
	"mapc/internal/clopt"
	"mapc/internal/entity"
	"mapc/internal/stats"
	"mapc/internal/wad"
)

func main() {
	opts := clopt.Global()
	var export, doImport, list bool

	root := &cobra.Command{
		Use:   "ripent <bspfile>",
		Short: "entity lump and texture directory round-trip tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := clopt.BindShared(cmd.Flags(), opts); err != nil {
				return err
			}
			switch {
			case export:
				return runExport(args[0], opts)
			case doImport:
				return runImport(args[0], opts)
			case list:
				return runList(args[0], opts)
			default:
				return fmt.Errorf("ripent: one of -export, -import, -list is required")
			}
		},
	}
	clopt.RegisterShared(root.Flags())
	root.Flags().BoolVar(&export, "export", false, "extract the entity lump to <bsp>.ent")
	root.Flags().BoolVar(&doImport, "import", false, "write <bsp>.ent back into the entity lump")
	root.Flags().BoolVar(&list, "list", false, "print every texture name referenced by the texinfo lump")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runExport(bspPath string, opts *clopt.Options) error {
	o := opts.Get()
	diag := clopt.NewDiagnostic(os.Stdout, o.Dev)
	diag.Stage("RIPENT")
	stats.Reset()
	defer stats.Track("ripent.export")()

	data, err := bspfile.Load(bspPath)
	if err != nil {
		return err
	}

	ents, err := entity.ParseLump(data.Entities)
	if err != nil {
		diag.Error("%v", err)
		return err
	}

	text := entity.ExtractToText(ents)
	entPath := entTextPath(bspPath)
	if err := os.WriteFile(entPath, []byte(text), 0644); err != nil {
		return err
	}
	diag.Verbose("exported %d entities to %s", len(ents), entPath)
	return nil
}

func runImport(bspPath string, opts *clopt.Options) error {
	o := opts.Get()
	diag := clopt.NewDiagnostic(os.Stdout, o.Dev)
	diag.Stage("RIPENT")
	stats.Reset()
	defer stats.Track("ripent.import")()

	data, err := bspfile.Load(bspPath)
	if err != nil {
		return err
	}

	entPath := entTextPath(bspPath)
	text, err := os.ReadFile(entPath)
	if err != nil {
		return err
	}

	ents, err := entity.ImportFromText(string(text))
	if err != nil {
		diag.Error("%v", err)
		return err
	}

	if entity.RoundTripIsIdentity(data.Entities, ents) {
		diag.Verbose("entity text unchanged, lump left byte-identical")
		return nil
	}

	data.Entities = entity.WriteLump(ents)
	if err := bspfile.Save(bspPath, data); err != nil {
		return err
	}
	diag.Verbose("imported %d entities from %s", len(ents), entPath)
	return nil
}

func runList(bspPath string, opts *clopt.Options) error {
	o := opts.Get()
	diag := clopt.NewDiagnostic(os.Stdout, o.Dev)
	diag.Stage("RIPENT")
	stats.Reset()
	defer stats.Track("ripent.list")()

	data, err := bspfile.Load(bspPath)
	if err != nil {
		return err
	}

	names, err := wad.ParseMipTexLump(data.Textures)
	if err != nil {
		diag.Error("%v", err)
		return err
	}

	seen := make(map[string]bool)
	for _, ti := range data.TexInfo {
		if ti.MipTex < 0 || int(ti.MipTex) >= len(names) {
			continue
		}
		name := names[ti.MipTex].Name
		if name != "" && !seen[name] {
			seen[name] = true
			fmt.Println(name)
			if n, ok := wad.RadEmission(name); ok {
				diag.Verbose("%s is an embedded-RAD emitter, intensity %d", name, n)
			}
		}
	}
	diag.Verbose("%d distinct textures", len(seen))
	return nil
}

func entTextPath(bspPath string) string {
	if len(bspPath) > 4 && bspPath[len(bspPath)-4:] == ".bsp" {
		return bspPath[:len(bspPath)-4] + ".ent"
	}
	return bspPath + ".ent"
}
