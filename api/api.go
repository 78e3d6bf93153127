package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/profile"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/deviation/api/model"
	"github.com/a-bouts/deviation/deviation"
	"github.com/a-bouts/deviation/geodesy"
	"github.com/a-bouts/deviation/latlon"
	"github.com/a-bouts/deviation/metrics"
)

var errBadParameter = errors.New("bad parameter")

type server struct {
	cpuprofile  bool
	profilePath string
	profileLock sync.Mutex
	solver      string
}

// InitServer builds the router. solver is the default geodesy backend
// name, used when a request does not name one.
func InitServer(cpuprofile bool, profilePath string, solver string) (*mux.Router, error) {
	if _, err := geodesy.Lookup(solver); err != nil {
		return nil, err
	}

	router := mux.NewRouter().StrictSlash(true)

	s := &server{
		cpuprofile:  cpuprofile,
		profilePath: profilePath,
		solver:      solver,
	}

	router.HandleFunc("/", s.form).Methods(http.MethodGet, http.MethodPost)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/deviation/-/healthz", s.healthz).Methods(http.MethodGet)

	apiV1 := router.PathPrefix("/deviation/api/v1").Subrouter()
	apiV1.HandleFunc("/compute", s.computeJSON).Methods(http.MethodPost)
	apiV1.HandleFunc("/compute", s.computeQuery).Methods(http.MethodGet)
	apiV1.HandleFunc("/geojson", s.geojson).Methods(http.MethodGet)
	apiV1.HandleFunc("/solvers", s.solvers).Methods(http.MethodGet)

	return router, nil
}

func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	type health struct {
		Status string `json:"status"`
	}

	json.NewEncoder(w).Encode(health{Status: "Ok"})
}

func (s *server) solvers(w http.ResponseWriter, r *http.Request) {
	type solvers struct {
		Default string   `json:"default"`
		Solvers []string `json:"solvers"`
	}

	json.NewEncoder(w).Encode(solvers{Default: s.solver, Solvers: geodesy.Names()})
}

func (s *server) computeJSON(w http.ResponseWriter, req *http.Request) {
	d := model.Deviation{DecimalPlaces: model.DefaultDecimalPlaces}
	if err := json.NewDecoder(req.Body).Decode(&d); err != nil {
		writeError(w, fmt.Errorf("%w: %s", errBadParameter, err))
		return
	}

	s.compute(w, req, d)
}

func (s *server) computeQuery(w http.ResponseWriter, req *http.Request) {
	d, err := parseValues(req.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	s.compute(w, req, d)
}

func (s *server) compute(w http.ResponseWriter, req *http.Request, d model.Deviation) {
	requestLogger := s.requestLogger(req, "compute")
	requestLogger.Debug(d)

	c, r, err := s.calculator(d)
	if err != nil {
		requestLogger.Warnf("Bad request : %s", err)
		writeError(w, err)
		return
	}

	res, err := s.run(requestLogger, c, r)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.Result{Result: res, Solver: c.Solver().Name(), Links: res.Links()})
}

func (s *server) geojson(w http.ResponseWriter, req *http.Request) {
	requestLogger := s.requestLogger(req, "geojson")

	d, err := parseValues(req.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	c, r, err := s.calculator(d)
	if err != nil {
		requestLogger.Warnf("Bad request : %s", err)
		writeError(w, err)
		return
	}

	res, err := s.run(requestLogger, c, r)
	if err != nil {
		writeError(w, err)
		return
	}

	fc, err := c.FeatureCollection(r, res)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	json.NewEncoder(w).Encode(fc)
}

// calculator resolves the solver and the origin of d
func (s *server) calculator(d model.Deviation) (*deviation.Calculator, deviation.Request, error) {
	name := d.Solver
	if name == "" {
		name = s.solver
	}
	solver, err := geodesy.Lookup(name)
	if err != nil {
		return nil, deviation.Request{}, err
	}

	origin, err := latlon.Parse(d.Coordinates)
	if err != nil {
		return nil, deviation.Request{}, err
	}

	return deviation.New(solver), deviation.Request{
		Origin:           origin,
		Heading:          d.Heading,
		Distance:         d.Distance,
		HeadingDeviation: d.Deviation,
		DecimalPlaces:    d.DecimalPlaces,
	}, nil
}

func (s *server) run(requestLogger *log.Entry, c *deviation.Calculator, r deviation.Request) (deviation.Result, error) {
	if s.cpuprofile {
		s.profileLock.Lock()
		defer s.profileLock.Unlock()
		defer profile.Start(profile.ProfilePath(s.profilePath), profile.NoShutdownHook, profile.Quiet).Stop()
	}

	start := time.Now()
	res, err := c.Compute(r)
	metrics.ObserveCompute(c.Solver().Name(), start, err)

	if err != nil {
		requestLogger.Warnf("Compute from '%s' heading %.2f° over %.2f mi with %.2f° deviation failed : %s", r.Origin, r.Heading, r.Distance, r.HeadingDeviation, err)
		return res, err
	}

	requestLogger.Infof("Compute from '%s' heading %.2f° over %.2f mi with %.2f° deviation took %s", r.Origin, r.Heading, r.Distance, r.HeadingDeviation, time.Since(start).String())
	return res, nil
}

func (s *server) requestLogger(req *http.Request, action string) *log.Entry {
	fields := log.Fields{
		"action": action,
	}
	if ip, err := getIp(req); err == nil {
		fields["IP"] = ip
	}
	return log.WithFields(fields)
}

// parseValues reads a deviation request from query or form values
func parseValues(v url.Values) (model.Deviation, error) {
	d := model.Deviation{
		Coordinates:   v.Get("coordinates"),
		Solver:        v.Get("solver"),
		DecimalPlaces: model.DefaultDecimalPlaces,
	}

	var err error
	if d.Heading, err = parseFloat(v, "heading"); err != nil {
		return d, err
	}
	if d.Distance, err = parseFloat(v, "distance"); err != nil {
		return d, err
	}
	if d.Deviation, err = parseFloat(v, "deviation"); err != nil {
		return d, err
	}
	if p := v.Get("decimalPlaces"); p != "" {
		if d.DecimalPlaces, err = strconv.Atoi(strings.TrimSpace(p)); err != nil {
			return d, fmt.Errorf("%w: decimalPlaces %q", errBadParameter, p)
		}
	}

	return d, nil
}

func parseFloat(v url.Values, key string) (float64, error) {
	p := strings.TrimSpace(v.Get(key))
	if p == "" {
		return 0, fmt.Errorf("%w: missing %s", errBadParameter, key)
	}
	f, err := strconv.ParseFloat(p, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", errBadParameter, key, p)
	}
	return f, nil
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, errBadParameter),
		errors.Is(err, latlon.ErrMalformedCoordinates),
		errors.Is(err, latlon.ErrOutOfRange),
		errors.Is(err, deviation.ErrInvalidRequest),
		errors.Is(err, geodesy.ErrInvalidInput),
		errors.Is(err, geodesy.ErrUnknownSolver):
		return http.StatusBadRequest
	case errors.Is(err, deviation.ErrTangentUndefined),
		errors.Is(err, geodesy.ErrNoConvergence):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode(err))
	json.NewEncoder(w).Encode(model.Error{Error: err.Error()})
}

func getIp(r *http.Request) (string, error) {
	//Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}

	//Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		ip = strings.TrimSpace(ip)
		netIP := net.ParseIP(ip)
		if netIP != nil {
			return ip, nil
		}
	}

	//Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}
	return "", fmt.Errorf("No valid ip found")
}
