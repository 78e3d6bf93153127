package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/peterbourgon/ff"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/deviation/api"
	"github.com/a-bouts/deviation/geodesy"
)

func main() {

	fs := flag.NewFlagSet("deviation-server", flag.ExitOnError)
	var (
		listen      = fs.String("listen", ":8888", "listen address")
		solver      = fs.String("solver", geodesy.Default, "default geodesic solver (karney, vincenty or sphere)")
		cpuprofile  = fs.Bool("cpuprofile", false, "profile compute requests")
		profilePath = fs.String("profile-path", "", "directory of cpu profiles")
		debug       = fs.Bool("debug", false, "debug logs")
		jsonLogs    = fs.Bool("json-logs", false, "log as json")
		corsOrigins = fs.String("cors-origins", "*", "allowed CORS origin")
	)
	ff.Parse(fs, os.Args[1:], ff.WithEnvVarNoPrefix())

	if *debug {
		log.SetLevel(log.DebugLevel)
	}
	if *jsonLogs {
		log.SetFormatter(&log.JSONFormatter{})
	}

	router, err := api.InitServer(*cpuprofile, *profilePath, *solver)
	if err != nil {
		log.Fatalf("Error initializing server : %s", err)
	}

	h := handlers.CORS(
		handlers.AllowedOrigins([]string{*corsOrigins}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(router)
	h = handlers.CombinedLoggingHandler(log.StandardLogger().WriterLevel(log.DebugLevel), h)

	log.Infof("Start server on '%s' with solver '%s'", *listen, *solver)
	log.Fatal(http.ListenAndServe(*listen, h))
}
