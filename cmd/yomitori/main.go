// Package main is the Yomitori CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hyperjump/yomitori/internal/cli"
	"github.com/hyperjump/yomitori/internal/config"
	"github.com/hyperjump/yomitori/internal/extract"
	"github.com/hyperjump/yomitori/internal/models"
	"github.com/hyperjump/yomitori/internal/ocr"
	"github.com/hyperjump/yomitori/internal/raster"
	"github.com/hyperjump/yomitori/internal/server"
	"github.com/hyperjump/yomitori/internal/watcher"
	"github.com/hyperjump/yomitori/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/yomitori/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "yomitori server" from the project dir uses the project's config (including debug).
// Returns the config and the path that was actually loaded (for saving, etc.).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "extract":
		runExtract()
	case "watch":
		runWatch()
	case "version", "--version", "-v":
		fmt.Printf("yomitori version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// sidecarPath returns the path of the extracted-text sidecar for a watched file.
func sidecarPath(path string) string {
	return path + ".txt"
}

// shouldExtract reports whether a watched file needs OCR: true when it has no
// sidecar yet or has been modified after the sidecar was written. Keeps restarts
// and SyncExistingFiles from re-running OCR on files already processed.
func shouldExtract(path string) bool {
	srcInfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	sideInfo, err := os.Stat(sidecarPath(path))
	if err != nil {
		return true
	}
	return srcInfo.ModTime().After(sideInfo.ModTime())
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (directory changes, per-request extraction, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components := initializeComponents(cfg, logger)

	extractor := components.Extractor
	watchOpts := []watcher.WatcherOption{}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.NewWatcher(
		cfg.Watch.Directories,
		cfg.Watch.Extensions,
		cfg.Watch.RecursiveOrDefault(),
		func(path string) {
			if !shouldExtract(path) {
				return
			}
			text, err := extractor.ExtractFile(context.Background(), path)
			if err != nil {
				logger.Warn("watch extract file failed", zap.String("path", path), zap.Error(err))
				return
			}
			if err := os.WriteFile(sidecarPath(path), []byte(text), 0o644); err != nil {
				logger.Warn("watch write sidecar failed", zap.String("path", path), zap.Error(err))
			}
		},
		func(path string) {
			if err := os.Remove(sidecarPath(path)); err != nil && !os.IsNotExist(err) {
				logger.Warn("watch remove sidecar failed", zap.String("path", path), zap.Error(err))
			}
		},
		watchOpts...,
	)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	watchSvc.SyncExistingFiles()

	srv := server.NewServer(
		components.Extractor,
		watchSvc,
		cfg,
		resolvedConfigPath,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// extractArgsReorder moves any flags (and their values) that appear after the
// file path to the front of the slice so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument, so "yomitori extract scan.png
// --output json" would otherwise leave --output unparsed (default text used).
func extractArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runExtract() {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8000", "server URL (empty = run OCR in-process when server is not running)")
	outputFormat := fs.String("output", "text", "output format: text (extracted text only) or json (filename and text)")
	_ = fs.Parse(extractArgsReorder(os.Args[2:]))

	if fs.NArg() < 1 {
		fmt.Println("Usage: yomitori extract [flags] <file>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	format := cli.OutputText
	switch *outputFormat {
	case "json":
		format = cli.OutputJSON
	case "text":
		format = cli.OutputText
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	if *serverURL != "" {
		// Use HTTP API when server is running (single tessdata install, warm service).
		result, err := extractViaHTTP(*serverURL, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Extraction failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteExtractionResult(os.Stdout, result, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// In-process OCR (when server is not running).
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components := initializeComponents(cfg, logger)

	text, err := components.Extractor.ExtractFile(context.Background(), path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Extraction failed: %v\n", err)
		os.Exit(1)
	}
	result := &models.ExtractionResult{Filename: filepath.Base(path), Text: text}
	if err := cli.WriteExtractionResult(os.Stdout, result, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func extractViaHTTP(serverURL, path string) (*models.ExtractionResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	resp, err := http.Post(serverURL+"/extract-text", mw.FormDataContentType(), &body)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var result models.ExtractionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

func runWatch() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: yomitori watch <add|remove|list> [path]")
		fmt.Println("  yomitori watch add <path>     Add directory to watch")
		fmt.Println("  yomitori watch remove <path>  Remove directory from watch")
		fmt.Println("  yomitori watch list           List watched directories")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8000", "server URL")
	_ = fs.Parse(os.Args[3:])
	switch sub {
	case "add":
		if fs.NArg() < 1 {
			fmt.Println("Usage: yomitori watch add <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		body, _ := json.Marshal(map[string]interface{}{"path": path, "sync": true})
		resp, err := http.Post(*serverURL+"/api/v1/watch/directories", "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Add failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Added: %s\n", path)
	case "remove":
		if fs.NArg() < 1 {
			fmt.Println("Usage: yomitori watch remove <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/watch/directories?path="+url.QueryEscape(path), nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Remove failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Removed: %s\n", path)
	case "list":
		resp, err := http.Get(*serverURL + "/api/v1/watch/directories")
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("List failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var out struct {
			Directories []string `json:"directories"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			fmt.Printf("Parse failed: %v\n", err)
			os.Exit(1)
		}
		for _, d := range out.Directories {
			fmt.Println(d)
		}
	default:
		fmt.Printf("Unknown watch subcommand: %s\n", sub)
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Engine     ocr.Engine
	Rasterizer raster.Rasterizer
	Extractor  *extract.Service
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) *Components {
	engineOpts := []ocr.TesseractOption{}
	if cfg.OCR.TessdataPrefix != "" {
		engineOpts = append(engineOpts, ocr.WithTessdataPrefix(cfg.OCR.TessdataPrefix))
	}
	engine := ocr.NewTesseractEngine(cfg.OCR.Languages, engineOpts...)

	// Image OCR works without poppler; only PDF requests need pdftoppm.
	if _, err := exec.LookPath(cfg.Raster.Pdftoppm); err != nil && logger != nil {
		logger.Warn("pdftoppm not found; PDF extraction will fail until poppler-utils is installed",
			zap.String("binary", cfg.Raster.Pdftoppm))
	}
	rasterizer := raster.NewPdftoppmRasterizer(
		raster.WithBinary(cfg.Raster.Pdftoppm),
		raster.WithDPI(cfg.Raster.DPI),
	)

	return &Components{
		Engine:     engine,
		Rasterizer: rasterizer,
		Extractor:  extract.NewService(engine, rasterizer),
	}
}

func printUsage() {
	fmt.Println(`yomitori - OCR text extraction service for scanned images and PDFs

Usage:
  yomitori server [flags]           Start the HTTP server
  yomitori extract [flags] <file>   Extract text from an image or PDF
  yomitori watch <add|remove|list>  Manage watched directories
  yomitori version                  Show version
  yomitori help                     Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/yomitori/config.yaml)
  --debug            Enable debug logging (directory changes, per-request extraction, etc.)

Extract Flags:
  --config string    Config file path (for in-process mode)
  --server string    Server URL (default: http://localhost:8000). Use empty (--server "") to run OCR in-process when server is not running.
  --output string    Output format: text (extracted text only) or json (filename and text)

Watch Flags:
  --server string    Server URL (default: http://localhost:8000)

Examples:
  yomitori server
  yomitori extract scan.png
  yomitori extract --output json report.pdf
  yomitori extract --server "" receipt.jpg   # in-process OCR, no server needed
  yomitori watch add /path/to/scans
  yomitori watch list`)
}
