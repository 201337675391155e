package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/enterstudio/redbot"
	"github.com/enterstudio/redbot/note"
)

var (
	configFilenameFlag string
	portFlag           int
	providerFlag       string
	timeoutFlag        time.Duration
	saveFlag           bool
	verbosityTraceFlag bool
)

func init() {
	flag.StringVar(&configFilenameFlag, "config", "", "Path to config file")
	flag.IntVar(&portFlag, "port", 0, "Port to listen on (0 = check the given URL and exit)")
	flag.StringVar(&providerFlag, "provider", "memory", "Report store to use (sqlite or memory)")
	flag.DurationVar(&timeoutFlag, "timeout", 10*time.Second, "Timeout per probe request")
	flag.BoolVar(&saveFlag, "save", false, "Save the report to the store in one-shot mode")
	flag.BoolVar(&verbosityTraceFlag, "vv", false, "Verbosity: trace logging")
}

func main() {
	flag.Parse()

	logLevel := zerolog.DebugLevel
	if verbosityTraceFlag {
		logLevel = zerolog.TraceLevel
	}
	log.Logger = log.Level(logLevel).Output(zerolog.ConsoleWriter{Out: os.Stderr})

	config := redbot.Config{
		ProbeTimeout: timeoutFlag,
		Logger:       &log.Logger,
	}

	if configFilenameFlag != "" {
		fileConfig, err := redbot.LoadConfig(configFilenameFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("Could not read config file")
		}
		if err := fileConfig.Apply(&config); err != nil {
			log.Fatal().Err(err).Msg("Invalid config file")
		}
	}

	var store redbot.ReportStore
	switch providerFlag {
	case "sqlite":
		store = redbot.NewSQLiteStore("./reports.db")
	case "memory":
		store = redbot.NewMemStore()
	default:
		log.Fatal().Msgf("Unsupported store provider: %s", providerFlag)
	}

	if portFlag > 0 {
		config.Store = store
		serve(redbot.New(config), store)
		return
	}

	uri := flag.Arg(0)
	if uri == "" {
		log.Fatal().Msg("Please specify a URL to check")
	}
	if saveFlag {
		config.Store = store
	}

	checker := redbot.New(config)
	rc, err := checker.Analyze(context.Background(), http.MethodGet, uri)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not fetch resource")
	}

	report := redbot.BuildReport(rc)
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Could not encode report")
	}
	fmt.Println(string(out))

	if report.HasLevel(note.Bad) {
		os.Exit(1)
	}
}

func serve(checker *redbot.Checker, store redbot.ReportStore) {
	r := chi.NewRouter()

	r.Get("/check", func(w http.ResponseWriter, req *http.Request) {
		uri := req.URL.Query().Get("uri")
		if uri == "" {
			http.Error(w, "missing uri parameter", http.StatusBadRequest)
			return
		}
		rc, err := checker.Analyze(req.Context(), http.MethodGet, uri)
		if err != nil {
			log.Error().Err(err).Str("uri", uri).Msg("Analysis failed")
			http.Error(w, "could not fetch resource", http.StatusBadGateway)
			return
		}
		writeJSON(w, redbot.BuildReport(rc))
	})

	r.Get("/reports", func(w http.ResponseWriter, req *http.Request) {
		uris := []string{}
		store.Keys(func(uri string) {
			uris = append(uris, uri)
		})
		writeJSON(w, uris)
	})

	r.Get("/reports/latest", func(w http.ResponseWriter, req *http.Request) {
		uri := req.URL.Query().Get("uri")
		bytes, ok, err := store.Get(uri)
		if err != nil {
			http.Error(w, "could not read store", http.StatusInternalServerError)
			return
		}
		if !ok {
			http.Error(w, "no report for that uri", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(bytes)
	})

	addr := fmt.Sprintf(":%d", portFlag)
	log.Info().Str("addr", addr).Msg("Listening")
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Could not write response")
	}
}
