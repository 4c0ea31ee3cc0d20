// scenetool is a CLI utility for inspecting and converting scene files.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Faultbox/scenery/internal/engine/importer"
	"github.com/Faultbox/scenery/internal/engine/scene"
	"github.com/Faultbox/scenery/internal/engine/serial"
	"github.com/Faultbox/scenery/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(os.Stdout, args)
	case "tree":
		err = cmdTree(os.Stdout, args)
	case "convert", "cv":
		err = cmdConvert(os.Stdout, args)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `scenetool - scene file utility

Usage:
  scenetool <command> [options]

Commands:
  info <scene>                   Show scene statistics
  tree <scene>                   Print the node hierarchy
  convert [-v] <input> <output>  Convert between .json, .yaml and .gltf/.glb (input only)

Examples:
  scenetool info room.yaml
  scenetool tree model.glb
  scenetool convert model.gltf model.yaml`)
}

func load(args []string, usage string) (*serial.Parsed, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: scenetool %s", usage)
	}
	return importer.Load(args[0])
}

func cmdInfo(w io.Writer, args []string) error {
	p, err := load(args, "info <scene>")
	if err != nil {
		return err
	}
	s := p.Scene

	nodes := make(map[string]int)
	geometries := make(map[string]int)
	s.LevelOrder(func(obj scene.Object) {
		nodes[obj.Kind().String()]++
	})
	for _, g := range p.Geometries {
		geometries[g.Kind().String()]++
	}
	materials := make(map[string]int)
	for _, m := range p.Materials {
		materials[m.Kind().String()]++
	}

	fmt.Fprintf(w, "Scene:      %s\n", s.Name)
	fmt.Fprintf(w, "Background: %.3g %.3g %.3g\n", s.Background.R, s.Background.G, s.Background.B)
	fmt.Fprintf(w, "Nodes:      %d%s\n", s.Count(), breakdown(nodes))
	fmt.Fprintf(w, "Geometries: %d%s\n", len(p.Geometries), breakdown(geometries))
	fmt.Fprintf(w, "Materials:  %d%s\n", len(p.Materials), breakdown(materials))
	fmt.Fprintf(w, "Textures:   %d\n", len(p.Textures))

	cams := s.Cameras()
	fmt.Fprintf(w, "Cameras:    %d\n", len(cams))
	for _, c := range cams {
		fmt.Fprintf(w, "  %-20s %s\n", c.Name, c.CameraKind())
	}

	if p.Clip != nil {
		fmt.Fprintf(w, "Animation:  %s (%d frames)\n", p.Clip.Name, p.Clip.Len())
	} else {
		fmt.Fprintln(w, "Animation:  none")
	}
	return nil
}

// breakdown formats per-kind counts as " (box: 2, sphere: 1)".
func breakdown(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%s: %d", k, counts[k])
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func cmdTree(w io.Writer, args []string) error {
	p, err := load(args, "tree <scene>")
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\n", p.Scene.Name)
	printTree(w, p.Scene.Children(), "")
	return nil
}

func printTree(w io.Writer, children []scene.Object, indent string) {
	for i, obj := range children {
		branch, next := "├── ", "│   "
		if i == len(children)-1 {
			branch, next = "└── ", "    "
		}
		fmt.Fprintf(w, "%s%s%s\n", indent, branch, describe(obj))
		printTree(w, obj.Base().Children(), indent+next)
	}
}

func describe(obj scene.Object) string {
	n := obj.Base()
	pos := n.Position()
	label := fmt.Sprintf("%s [%s] at (%.3g, %.3g, %.3g)", n.Name, obj.Kind(), pos.X, pos.Y, pos.Z)
	switch o := obj.(type) {
	case *scene.Mesh:
		if o.Geometry != nil && o.Material != nil {
			label += fmt.Sprintf(" %s/%s", o.Geometry.Kind(), o.Material.Kind())
		}
	case *scene.Camera:
		label += " " + o.CameraKind().String()
	}
	return label
}

func cmdConvert(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Log conversion details")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: scenetool convert [-v] <input> <output>")
	}
	in, out := fs.Arg(0), fs.Arg(1)

	if *verbose {
		if err := logger.Init("debug", ""); err != nil {
			return err
		}
		defer logger.Sync()
	}

	// Reject the output format before doing any work.
	if _, err := serial.FormatFromPath(out); err != nil {
		return fmt.Errorf("output %s: %w", out, err)
	}
	p, err := importer.Load(in)
	if err != nil {
		return err
	}
	if err := serial.Save(out, p.Scene, p.Clip); err != nil {
		return err
	}
	fmt.Fprintf(w, "Converted %s -> %s (%d nodes)\n", in, out, p.Scene.Count())
	return nil
}
