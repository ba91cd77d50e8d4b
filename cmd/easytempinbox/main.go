// main is the easytempinbox daemon launcher
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/easytempinbox/easytempinbox/pkg/config"
	"github.com/easytempinbox/easytempinbox/pkg/ingest"
	"github.com/easytempinbox/easytempinbox/pkg/policy"
	"github.com/easytempinbox/easytempinbox/pkg/rest"
	"github.com/easytempinbox/easytempinbox/pkg/server/web"
	"github.com/easytempinbox/easytempinbox/pkg/storage"
	"github.com/easytempinbox/easytempinbox/pkg/storage/dynamo"
	"github.com/easytempinbox/easytempinbox/pkg/storage/mem"
	"github.com/easytempinbox/easytempinbox/pkg/storage/s3blob"
)

var (
	// version contains the build version number, populated during linking.
	version = "undefined"

	// date contains the build date, populated during linking.
	date = "undefined"
)

func main() {
	// Command line flags.
	help := flag.Bool("help", false, "Displays help on flags and env variables.")
	logfile := flag.String("logfile", "stderr", "Write out log into the specified file.")
	logjson := flag.Bool("logjson", false, "Logs are written in JSON format.")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: easytempinbox [options]")
		flag.PrintDefaults()
	}
	flag.Parse()
	if *help {
		flag.Usage()
		fmt.Fprintln(os.Stderr, "")
		config.Usage()
		return
	}

	// Process configuration.
	config.Version = version
	config.BuildDate = date
	conf, err := config.Process()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Logger setup.
	closeLog, err := openLog(conf.LogLevel, *logfile, *logjson)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Log error: %v\n", err)
		os.Exit(1)
	}
	startupLog := log.With().Str("phase", "startup").Logger()
	startupLog.Info().Str("version", config.Version).Str("buildDate", config.BuildDate).
		Msg("EasyTempInbox starting")

	// Setup signal handler.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	rootCtx, rootCancel := context.WithCancel(context.Background())
	shutdownChan := make(chan bool)

	// Configure storage backends.
	var store storage.Store
	var blob storage.Blob
	switch conf.Storage.Type {
	case "memory":
		store = mem.NewStore()
		blob = mem.NewBlob()
	case "dynamo":
		store, err = dynamo.New(rootCtx, conf.Storage)
		if err != nil {
			startupLog.Fatal().Err(err).Str("module", "storage").Msg("Fatal storage error")
		}
		blob, err = s3blob.New(rootCtx, conf.Blob)
		if err != nil {
			startupLog.Fatal().Err(err).Str("module", "storage").Msg("Fatal blob store error")
		}
	default:
		startupLog.Fatal().Str("type", conf.Storage.Type).Msg("Unknown storage type")
	}

	lifecycle := &policy.Lifecycle{Store: store, Quota: conf.Ingest.MaxInboxMsgs}
	pipeline := &ingest.Pipeline{
		Store:       store,
		Blob:        blob,
		Lifecycle:   lifecycle,
		MaxTextBody: conf.Ingest.MaxTextBody,
		MaxHTMLBody: conf.Ingest.MaxHTMLBody,
	}

	// Start ingest listener when a queue is configured.
	if conf.Ingest.QueueURL != "" {
		listener, err := ingest.NewListener(rootCtx, conf.Ingest, conf.Blob.Region, pipeline)
		if err != nil {
			startupLog.Fatal().Err(err).Str("module", "ingest").Msg("Fatal ingest error")
		}
		go func() {
			if err := listener.Run(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Str("module", "ingest").Err(err).Msg("Ingest listener stopped")
			}
		}()
	} else {
		startupLog.Warn().Str("module", "ingest").Msg("No ingest queue configured, mail reception disabled")
	}

	// Start HTTP server.
	web.Initialize(conf, store, blob, lifecycle)
	rest.SetupRoutes(web.Router)
	go web.Start(rootCtx, conf.Web, shutdownChan)

	// Loop forever waiting for signals or shutdown channel.
signalLoop:
	for {
		select {
		case sig := <-sigChan:
			log.Info().Str("phase", "shutdown").Str("signal", sig.String()).
				Msg("Received signal, shutting down")
			close(shutdownChan)
		case <-shutdownChan:
			rootCancel()
			break signalLoop
		}
	}
	go timedExit()
	closeLog()
}

// openLog configures zerolog output, returns func to close logfile.
func openLog(level string, logfile string, json bool) (close func(), err error) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		return nil, fmt.Errorf("Log level %q not one of: debug, info, warn, error", level)
	}
	close = func() {}
	var w io.Writer
	color := runtime.GOOS != "windows"
	switch logfile {
	case "stderr":
		w = os.Stderr
	case "stdout":
		w = os.Stdout
	default:
		logf, err := os.OpenFile(logfile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0666)
		if err != nil {
			return nil, err
		}
		bw := bufio.NewWriter(logf)
		w = bw
		color = false
		close = func() {
			_ = bw.Flush()
			_ = logf.Close()
		}
	}
	w = zerolog.SyncWriter(w)
	if json {
		log.Logger = log.Output(w)
		return close, nil
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:     w,
		NoColor: !color,
	})
	return close, nil
}

// timedExit forces an exit if clean shutdown takes too long.
func timedExit() {
	time.Sleep(15 * time.Second)
	log.Error().Str("phase", "shutdown").Msg("Clean shutdown took too long, forcing exit")
	os.Exit(0)
}
