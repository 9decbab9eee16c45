// Package formula exposes the formula engine over HTTP.
package formula

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"fincalc/pkg/core/formula"
	"fincalc/pkg/core/panel"
)

// Handler serves batch evaluation and field discovery for one panel
// collection. The panel data is loaded once at startup; every request
// evaluates against its own workspace clone, so requests are independent.
type Handler struct {
	panels panel.Collection
	engine *formula.Engine
	log    zerolog.Logger
}

// NewHandler creates a handler around a panel collection.
func NewHandler(panels panel.Collection, log zerolog.Logger) *Handler {
	return &Handler{
		panels: panels,
		engine: formula.NewEngineWithLogger(log),
		log:    log,
	}
}

// EvaluateRequest is the POST body for /api/formulas/evaluate.
type EvaluateRequest struct {
	Frequency string               `json:"frequency"` // daily/weekly/quarterly/yearly, default yearly
	Formulas  []formula.Definition `json:"formulas"`
	Entities  []string             `json:"entities"`
	Precision int                  `json:"precision"`
}

// HandleEvaluate evaluates a formula batch: POST /api/formulas/evaluate.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	cors(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, ok := h.panel(req.Frequency)
	if !ok {
		http.Error(w, "no panel for frequency "+req.Frequency, http.StatusNotFound)
		return
	}

	result, err := h.engine.Run(p, formula.Batch(req.Formulas), formula.Options{
		Precision: req.Precision,
		Entities:  req.Entities,
	})
	if err != nil {
		// The engine only errors on caller usage problems; everything else
		// is recovered per formula and reported inside the result.
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.log.Info().Int("formulas", len(req.Formulas)).Int("errors", len(result.Errors)).Msg("batch evaluated")
	writeJSON(w, result)
}

// HandleFields returns the discovery listing: GET /api/formulas/fields.
func (h *Handler) HandleFields(w http.ResponseWriter, r *http.Request) {
	cors(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	p, ok := h.panel(r.URL.Query().Get("frequency"))
	if !ok {
		http.Error(w, "no panel for that frequency", http.StatusNotFound)
		return
	}

	result, err := h.engine.Run(p, nil, formula.Options{Discovery: true})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) panel(freq string) (*panel.Panel, bool) {
	f := panel.Yearly
	if freq != "" {
		parsed, ok := panel.ParseFrequency(freq)
		if !ok {
			return nil, false
		}
		f = parsed
	}
	p := h.panels.Panel(f)
	return p, p != nil
}

func cors(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
