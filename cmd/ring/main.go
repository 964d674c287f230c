package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/paulmach/orb"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/plat-ring/internal/geodesic"
	"github.com/joeblew999/plat-ring/internal/server"
)

// Options defines all CLI flags and env vars for the ring server.
// Flags: --host, --port, --data-dir, --web-dir
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_DATA_DIR, SERVICE_WEB_DIR
type Options struct {
	Host    string `doc:"Host to bind to" default:"0.0.0.0"`
	Port    int    `doc:"Port to listen on" short:"p" default:"8087"`
	DataDir string `doc:"Directory for ring data files" default:".data"`
	WebDir  string `doc:"Path to web/ directory" default:"web"`
}

func newServer(opts *Options) *server.Server {
	return server.New(server.Config{
		Host:    opts.Host,
		Port:    fmt.Sprintf("%d", opts.Port),
		DataDir: opts.DataDir,
		WebDir:  opts.WebDir,
	})
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		srv := newServer(opts)

		hooks.OnStart(func() {
			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			fmt.Println()
			fmt.Printf("plat-ring API server starting...\n")
			fmt.Printf("  Server:  %s\n", baseURL)
			fmt.Printf("  Data:    %s\n", opts.DataDir)
			fmt.Println()
			fmt.Printf("  Pages:   %s/viewer\n", baseURL)
			fmt.Printf("  Docs:    %s/docs\n", baseURL)
			fmt.Printf("  OpenAPI: %s/openapi.json\n", baseURL)
			fmt.Println()

			if err := http.ListenAndServe(addr, srv); err != nil {
				log.Fatalf("Server error: %v", err)
			}
		})

		hooks.OnStop(func() {
			srv.Close()
		})
	})

	cli.Root().Use = "ring"
	cli.Root().Short = "Geodesic ring builder and sweep server"
	cli.Root().Version = "0.1.0"

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv := newServer(opts)
			spec := srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			var err error
			if useYAML {
				output, err = yaml.Marshal(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	// geojson subcommand: build ring geometry without a server
	geojsonCmd := &cobra.Command{
		Use:   "geojson",
		Short: "Build ring geometry and print it as a GeoJSON FeatureCollection",
		Run: func(cmd *cobra.Command, args []string) {
			lon, _ := cmd.Flags().GetFloat64("lon")
			lat, _ := cmd.Flags().GetFloat64("lat")
			outer, _ := cmd.Flags().GetFloat64("outer")
			width, _ := cmd.Flags().GetFloat64("width")
			segments, _ := cmd.Flags().GetInt("segments")

			rs, err := geodesic.Build(geodesic.Config{
				Center:       orb.Point{lon, lat},
				OuterRadius:  outer,
				Width:        width,
				SegmentCount: segments,
				CircleSteps:  geodesic.DefaultCircleSteps,
				ArcSteps:     geodesic.DefaultArcSteps,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error building ring: %v\n", err)
				os.Exit(1)
			}

			output, err := json.MarshalIndent(rs.FeatureCollection(), "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling GeoJSON: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		},
	}
	geojsonCmd.Flags().Float64("lon", -97.405, "Center longitude (degrees)")
	geojsonCmd.Flags().Float64("lat", 31.98, "Center latitude (degrees)")
	geojsonCmd.Flags().Float64("outer", 18000, "Outer radius (meters)")
	geojsonCmd.Flags().Float64("width", 600, "Ring width (meters)")
	geojsonCmd.Flags().Int("segments", geodesic.DefaultSegmentCount, "Number of angular segments")
	cli.Root().AddCommand(geojsonCmd)

	cli.Run()
}
