package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/digitorus/pdfink/config"
	"github.com/digitorus/pdfink/editor"
	"github.com/digitorus/pdfink/overlay"
	"github.com/digitorus/pdfink/server"
)

func ServeCommand(args []string) {
	if err := runServe(args[2:]); err != nil {
		fatal("serve", err)
	}
}

func runServe(args []string) error {
	serveFlags := flag.NewFlagSet("serve", flag.ContinueOnError)

	var configFile, addr string
	serveFlags.StringVar(&configFile, "config", "", "Path to the config file")
	serveFlags.StringVar(&addr, "addr", "", "Listen address (default from config)")

	serveFlags.Usage = func() {
		fmt.Printf("Usage: %s serve [options]\n\n", os.Args[0])
		fmt.Println("Run the signature editor over HTTP")
		fmt.Println("\nOptions:")
		serveFlags.PrintDefaults()
	}

	if err := serveFlags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newServer(cfg).ListenAndServe(ctx, addr)
}

func newServer(cfg config.Config) *server.Server {
	return server.New(server.Options{
		Editor: editor.Options{
			Limits:   overlay.Limits{MinWidth: cfg.Editor.MinWidth, MinHeight: cfg.Editor.MinHeight},
			LogLimit: cfg.Editor.LogLimit,
		},
		DisplayWidth: cfg.Editor.DisplayWidth,
		Producer:     cfg.Export.Producer,
		Filename:     cfg.Export.Filename,
		MaxUpload:    cfg.Server.MaxUpload,
		PadWidth:     cfg.Pad.Width,
		PadHeight:    cfg.Pad.Height,
		PenWidth:     cfg.Pad.PenWidth,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		Logger:       logger,
	})
}
