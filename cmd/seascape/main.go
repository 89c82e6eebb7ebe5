package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	lib "github.com/theoremus-urban-solutions/seascape"
	"github.com/theoremus-urban-solutions/seascape/config"
	"github.com/theoremus-urban-solutions/seascape/formatter"
	"github.com/theoremus-urban-solutions/seascape/render"
)

func main() {
	mode := flag.String("mode", "serve", "serve|oneshot|tracks")
	fleet := flag.String("fleet", "", "fleet name from config.fleets[]")
	configPath := flag.String("config", "", "config file (default: search config.yml)")
	format := flag.String("format", "json", "oneshot output: json|xml")
	vehicleRef := flag.String("vehicleRef", "", "oneshot VehicleRef filter (MMSI)")
	flag.Parse()

	if err := loadConfig(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, err := lib.NewLogger(config.Config.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "serve":
		err = serve(ctx, *fleet, log)
	case "oneshot":
		err = oneshot(ctx, *fleet, *format, *vehicleRef, log)
	case "tracks":
		err = tracks(ctx, *fleet, log)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Error("seascape failed", zap.String("mode", *mode), zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func loadConfig(path string) error {
	if path == "" {
		return config.LoadAppConfig()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	config.Config = cfg
	return nil
}

// serve runs the live pipeline and the HTTP server until a signal arrives or
// the live source fails.
func serve(ctx context.Context, fleet string, log *zap.Logger) error {
	p, err := lib.NewPipeline(config.Config, fleet, lib.PipelineOptions{Logger: log})
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	srv := lib.NewServer(config.Config.Server.Port, p, log.Named("http"))
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.Run(ctx) })
	g.Go(func() error { return srv.Run(ctx) })
	return g.Wait()
}

// oneshot fetches one live snapshot and prints it as SIRI VehicleMonitoring.
func oneshot(ctx context.Context, fleet, format, vehicleRef string, log *zap.Logger) error {
	name, src := config.SelectFleet(fleet)
	live, _, err := lib.NewSource(name, src, log)
	if err != nil {
		return err
	}
	snap, err := live.FetchSnapshot(ctx)
	if err != nil {
		return err
	}

	codespace := config.Config.Render.Codespace
	vm := formatter.BuildVehicleMonitoring(snap, time.Now().Unix(), config.Config.Pacing.IntervalMS, codespace)
	vm = formatter.FilterVehicleMonitoring(vm, vehicleRef, "")
	res := formatter.WrapVehicleMonitoringResponse(vm, codespace)

	rb := formatter.NewResponseBuilder()
	var buf []byte
	if format == "xml" {
		buf = rb.BuildXML(res)
	} else if buf, err = rb.BuildJSON(res); err != nil {
		return err
	}
	fmt.Println(string(buf))
	return nil
}

// tracks replays the configured lookback window as JSON lines on stdout.
func tracks(ctx context.Context, fleet string, log *zap.Logger) error {
	cfg := config.Config
	cfg.Render = config.RenderConfig{}
	out := render.NewStream(os.Stdout, false)

	p, err := lib.NewPipeline(cfg, fleet, lib.PipelineOptions{
		Logger:   log,
		Adapters: []render.Adapter{out},
	})
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	if _, err := p.Bootstrap(ctx); err != nil {
		return err
	}
	return out.Err()
}
