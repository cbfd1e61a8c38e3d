// Package cli implements the pdfink command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/digitorus/pdfink/config"
	"github.com/sirupsen/logrus"
)

// Version information
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// osExit is a variable for os.Exit to allow testing
var osExit = os.Exit

var (
	stdout io.Writer = os.Stdout
	logger           = logrus.New()
)

// Run executes the CLI with the given arguments.
func Run(args []string) {
	if len(args) < 2 {
		Usage()
		return
	}

	switch args[1] {
	case "stamp":
		StampCommand(args)
	case "info":
		InfoCommand(args)
	case "preview":
		PreviewCommand(args)
	case "serve":
		ServeCommand(args)
	case "version":
		VersionCommand()
	case "help", "-h", "--help":
		Usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[1])
		Usage()
	}
}

func Usage() {
	fmt.Printf("Usage: %s <command> [options] <args>\n\n", os.Args[0])
	fmt.Println("Commands:")
	fmt.Println("  stamp    Place signature images on PDF pages")
	fmt.Println("  info     Show page count and page sizes of a PDF file")
	fmt.Println("  preview  Render a page with its placements to PNG")
	fmt.Println("  serve    Run the interactive editor over HTTP")
	fmt.Println("  version  Show version information")
	fmt.Println("")
	fmt.Printf("Use '%s <command> -h' for command-specific help\n", os.Args[0])
	osExit(1)
}

// VersionCommand prints version information.
func VersionCommand() {
	_, _ = fmt.Fprintf(stdout, "pdfink version %s\n", Version)
	_, _ = fmt.Fprintf(stdout, "Build time: %s\n", BuildTime)
}

// loadConfig reads the config file and applies its log settings.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := setupLogging(cfg.Log); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func setupLogging(c config.Log) error {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return err
	}
	logger.SetLevel(level)
	if c.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// fatal logs err and exits with status 1.
func fatal(command string, err error) {
	logger.WithError(err).WithField("command", command).Error("command failed")
	osExit(1)
}
