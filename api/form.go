package api

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/deviation/api/model"
	"github.com/a-bouts/deviation/deviation"
	"github.com/a-bouts/deviation/geodesy"
)

//go:embed templates/form.html
var templates embed.FS

var formTemplate = template.Must(template.New("form.html").Funcs(template.FuncMap{
	"fixed": func(v float64, places int) string {
		return strconv.FormatFloat(v, 'f', places, 64)
	},
}).ParseFS(templates, "templates/form.html"))

// Defaults of the form are taken from Amelia Earhart's last planned leg,
// Lae to Howland Island.
var formDefaults = model.Deviation{
	Coordinates:   "-6.728, 146.994",
	Heading:       78,
	Distance:      2556,
	Deviation:     1,
	DecimalPlaces: model.DefaultDecimalPlaces,
}

type formPage struct {
	Input   model.Deviation
	Solvers []string
	Result  *deviation.Result
	Links   deviation.Links
	Error   string
}

func (s *server) form(w http.ResponseWriter, req *http.Request) {
	page := formPage{
		Input:   formDefaults,
		Solvers: geodesy.Names(),
	}
	page.Input.Solver = s.solver

	if req.Method == http.MethodPost {
		requestLogger := s.requestLogger(req, "form")

		if err := req.ParseForm(); err != nil {
			page.Error = err.Error()
			w.WriteHeader(http.StatusBadRequest)
			s.render(w, page)
			return
		}

		d, err := parseValues(req.PostForm)
		page.Input = d
		if d.Solver == "" {
			page.Input.Solver = s.solver
		}
		if err == nil {
			var c *deviation.Calculator
			var r deviation.Request
			c, r, err = s.calculator(d)
			if err == nil {
				var res deviation.Result
				res, err = s.run(requestLogger, c, r)
				if err == nil {
					page.Result = &res
					page.Links = res.Links()
				}
			}
		}
		if err != nil {
			page.Error = err.Error()
			w.WriteHeader(statusCode(err))
		}
	}

	s.render(w, page)
}

func (s *server) render(w http.ResponseWriter, page formPage) {
	if err := formTemplate.Execute(w, page); err != nil {
		log.Errorf("Error rendering form : %s", err)
	}
}
