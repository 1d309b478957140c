// dpgen — DP campaign generator.
//
// Usage:
//
//	dpgen render --campaign <json> [--photo <img>] [--name <text>] -o <file> [--ratio 3]
//	dpgen crop --in <img> --aspect <w/h> [--zoom z] [--cx x --cy y] -o <file>
//	dpgen serve [--config <yaml>] [--addr :8080]
//	dpgen init
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/asejik/dp-generator/clients/server"
	"github.com/asejik/dp-generator/pkg/config"
	"github.com/asejik/dp-generator/pkg/crop"
	"github.com/asejik/dp-generator/pkg/layout"
	"github.com/asejik/dp-generator/pkg/render"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "render":
		err = runRender(os.Args[2:])
	case "crop":
		err = runCrop(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "init":
		err = runInit(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", os.Args[1])
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)

	var (
		campaignPath string
		photoPath    string
		name         string
		output       string
		fontDir      string
		ratio        int
	)

	fs.StringVar(&campaignPath, "campaign", "", "Path to campaign JSON")
	fs.StringVar(&photoPath, "photo", "", "Pre-cropped user photo (optional)")
	fs.StringVar(&name, "name", "", "User name to render (optional)")
	fs.StringVar(&output, "o", "", "Output PNG path")
	fs.StringVar(&output, "output", "", "Output PNG path")
	fs.StringVar(&fontDir, "fonts", "", "Directory of TTF fonts")
	fs.IntVar(&ratio, "ratio", 1, "Resolution multiple of the 1080 canvas")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if campaignPath == "" || output == "" {
		return fmt.Errorf("--campaign and -o are required")
	}

	c, err := layout.ParseCampaignFile(campaignPath)
	if err != nil {
		return err
	}

	renderer, err := render.NewRenderer(fontDir)
	if err != nil {
		return err
	}

	comp, err := composeCLI(renderer, *c, photoPath, name)
	if err != nil {
		return err
	}

	out, err := comp.Rasterize(ratio)
	if err != nil {
		return err
	}

	fmt.Printf("Rendering campaign: %s\n", c.Title)
	if err := render.WritePNG(output, out); err != nil {
		return err
	}
	fmt.Printf("Done: %s\n", output)
	return nil
}

func composeCLI(renderer *render.Renderer, c layout.Campaign, photoPath, name string) (*render.Composite, error) {
	ctx := context.Background()
	if photoPath == "" {
		return renderer.Compose(ctx, c, nil, name)
	}
	f, err := os.Open(photoPath)
	if err != nil {
		return nil, fmt.Errorf("open photo: %w", err)
	}
	defer f.Close()

	img, err := crop.Decode(f)
	if err != nil {
		return nil, err
	}
	return renderer.Compose(ctx, c, img, name)
}

func runCrop(args []string) error {
	fs := flag.NewFlagSet("crop", flag.ExitOnError)

	var (
		input  string
		output string
		aspect float64
		zoom   float64
		cx, cy float64
		shape  string
	)

	fs.StringVar(&input, "in", "", "Input image path")
	fs.StringVar(&output, "o", "", "Output PNG path")
	fs.StringVar(&output, "output", "", "Output PNG path")
	fs.Float64Var(&aspect, "aspect", 1.0, "Target aspect ratio (width/height)")
	fs.Float64Var(&zoom, "zoom", 1.0, "Zoom factor, clamped to [1,3]")
	fs.Float64Var(&cx, "cx", -1, "Window center X in source pixels (default: center)")
	fs.Float64Var(&cy, "cy", -1, "Window center Y in source pixels (default: center)")
	fs.StringVar(&shape, "shape", "rect", "Mask hint: rect or circle")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if input == "" || output == "" {
		return fmt.Errorf("--in and -o are required")
	}

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}
	defer f.Close()

	src, err := crop.Decode(f)
	if err != nil {
		return err
	}

	sess, err := crop.NewSession(src, aspect, layout.Shape(shape))
	if err != nil {
		return err
	}
	sess.SetZoom(zoom)
	if cx >= 0 && cy >= 0 {
		sess.SetCenter(cx, cy)
	}

	out, err := sess.Commit()
	if err != nil {
		return err
	}
	if err := render.WritePNG(output, out); err != nil {
		return err
	}
	fmt.Printf("Done: %s (%dx%d)\n", output, out.Bounds().Dx(), out.Bounds().Dy())
	return nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)

	var (
		configPath string
		addr       string
	)
	fs.StringVar(&configPath, "config", "", "Path to YAML config")
	fs.StringVar(&addr, "addr", "", "Listen address (overrides config)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Addr = addr
	}
	return server.RunServe(cfg)
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	var out string
	fs.StringVar(&out, "o", "campaign.json", "Output path for sample campaign")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := os.WriteFile(out, []byte(layout.ExampleJSON()), 0644); err != nil {
		return fmt.Errorf("write campaign: %w", err)
	}
	fmt.Printf("Created: %s\n", out)
	fmt.Println("Run: dpgen render --campaign campaign.json --photo selfie.png --name \"Ada\" -o out.png")
	return nil
}

func printUsage() {
	fmt.Print(`dpgen — DP Campaign Generator

USAGE:
    dpgen render --campaign <json> [--photo <img>] [--name <text>] -o <file> [options]
    dpgen crop --in <img> --aspect <w/h> [--zoom z] [--cx x --cy y] -o <file>
    dpgen serve [--config <yaml>] [--addr :8080]
    dpgen init [-o campaign.json]

RENDER:
    --campaign <path>      Campaign JSON (see dpgen init)
    --photo <path>         Pre-cropped user photo (optional)
    --name <text>          Name to render, used only if the campaign has a text slot
    --fonts <dir>          Directory of TTF fonts
    --ratio <n>            Resolution multiple of the 1080 canvas (export uses 3)
    -o, --output <path>    Output PNG

CROP:
    --in <path>            Source image
    --aspect <w/h>         Target frame aspect ratio
    --zoom <z>             Zoom factor, clamped to [1,3]
    --cx, --cy <px>        Crop window center in source pixels
    --shape rect|circle    Selection mask hint (output is always rectangular)
    -o, --output <path>    Output PNG

SERVE:
    --config <path>        YAML config (env vars override)
    --addr <addr>          Listen address

EXAMPLES:
    dpgen init
    dpgen crop --in selfie.jpg --aspect 1.0 --zoom 1.5 -o cropped.png
    dpgen render --campaign campaign.json --photo cropped.png --name "Ada" -o dp.png --ratio 3
    dpgen serve --addr :8080
`)
}
