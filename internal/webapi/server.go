// Package webapi exposes the parser, tagger and word counts as a JSON API.
//
// Endpoints:
//
//	POST /api/parse             body: {"text":"..."}
//	GET  /api/classify?word=<word>
//	GET  /api/counts?min=<n>
//	GET  /api/counts/{word}
//	GET  /api/health
package webapi

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/cubedhuang/toki-pona-data-processing/internal/pipeline"
	"github.com/cubedhuang/toki-pona-data-processing/internal/store"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/gate"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/lexicon"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/tagger"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/tree"
)

// maxBody bounds a parse request.
const maxBody = 64 << 10

// ---- JSON response types ------------------------------------------------

type parseJSON struct {
	Tree      tree.Tree `json:"tree"`
	Bracketed string    `json:"bracketed"`
	Score     float64   `json:"score"`
}

type sentenceJSON struct {
	Text      string               `json:"text"`
	Words     []string             `json:"words"`
	GateScore float64              `json:"gateScore"`
	Outcome   string               `json:"outcome"`
	Parses    []parseJSON          `json:"parses"`
	Total     int                  `json:"totalParses"`
	Tags      []tagger.TaggedWord  `json:"tags,omitempty"`
	Refined   []tagger.RefinedWord `json:"refined,omitempty"`
}

type parseResponse struct {
	GateScore  float64        `json:"gateScore"`
	KnownWords int            `json:"knownWords"`
	Sentences  []sentenceJSON `json:"sentences"`
}

type classifyResponse struct {
	Word       string             `json:"word"`
	Known      bool               `json:"known"`
	Categories []lexicon.Category `json:"categories"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ---- server -------------------------------------------------------------

// Server answers API requests. It is safe for concurrent use.
type Server struct {
	dict     *lexicon.Dictionary
	gate     *gate.Gate
	proc     *pipeline.Processor
	counts   store.Storer
	topTrees int
	origins  []string
}

// Option configures a Server.
type Option func(*Server)

// WithTopTrees limits how many ranked parses are returned per sentence.
func WithTopTrees(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.topTrees = n
		}
	}
}

// WithAllowedOrigins sets the CORS origins.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithCounts serves word counts from st.
func WithCounts(st store.Storer) Option {
	return func(s *Server) { s.counts = st }
}

// New creates a server.
func New(d *lexicon.Dictionary, g *gate.Gate, proc *pipeline.Processor, opts ...Option) *Server {
	s := &Server{
		dict:     d,
		gate:     g,
		proc:     proc,
		topTrees: 5,
		origins:  []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	// Routes sit on the root router so a method mismatch is a 405, not a 404.
	r := mux.NewRouter()
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	r.HandleFunc("/api/parse", s.handleParse).Methods(http.MethodPost)
	r.HandleFunc("/api/classify", s.handleClassify).Methods(http.MethodGet).Queries("word", "{word}")
	r.HandleFunc("/api/classify", missingParam("word")).Methods(http.MethodGet)
	r.HandleFunc("/api/counts", s.handleCounts).Methods(http.MethodGet)
	r.HandleFunc("/api/counts/{word}", s.handleYearCounts).Methods(http.MethodGet)
	r.HandleFunc("/api/health", handleHealth).Methods(http.MethodGet)

	return cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(r)
}

// ---- helpers ------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func missingParam(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("missing '%s' query parameter", name))
	}
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, fmt.Sprintf("%s not allowed on %s", r.Method, r.URL.Path))
}

// ---- handlers -----------------------------------------------------------

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'text' field")
		return
	}

	resp := parseResponse{
		GateScore:  s.gate.Scorecard(body.Text).Score,
		KnownWords: s.gate.Mentions(body.Text),
		Sentences:  []sentenceJSON{},
	}
	for _, card := range s.gate.Sentences(body.Text) {
		res, err := s.proc.ProcessSentence(r.Context(), card.Cleaned)
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}

		sj := sentenceJSON{
			Text:      card.Text,
			Words:     card.Cleaned,
			GateScore: card.Score,
			Outcome:   res.Outcome.String(),
			Parses:    []parseJSON{},
			Total:     len(res.Ranked),
			Tags:      res.Tags,
			Refined:   res.Refined,
		}
		for i, ranked := range res.Ranked {
			if i == s.topTrees {
				break
			}
			sj.Parses = append(sj.Parses, parseJSON{
				Tree:      ranked.Tree,
				Bracketed: tree.Bracketed(ranked.Tree),
				Score:     ranked.Score,
			})
		}
		resp.Sentences = append(resp.Sentences, sj)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	word := mux.Vars(r)["word"]
	cats := s.dict.Classify([]string{word})[0].Categories
	if cats == nil {
		cats = []lexicon.Category{}
	}
	writeJSON(w, http.StatusOK, classifyResponse{
		Word:       word,
		Known:      s.dict.Known(word),
		Categories: cats,
	})
}

func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	if s.counts == nil {
		writeError(w, http.StatusNotFound, "no word counts loaded")
		return
	}
	minTotal := 0
	if v := r.URL.Query().Get("min"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "'min' must be a non-negative integer")
			return
		}
		minTotal = n
	}
	counts, err := s.counts.WordCounts(minTotal)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if counts == nil {
		counts = []store.WordCounts{}
	}
	writeJSON(w, http.StatusOK, counts)
}

func (s *Server) handleYearCounts(w http.ResponseWriter, r *http.Request) {
	if s.counts == nil {
		writeError(w, http.StatusNotFound, "no word counts loaded")
		return
	}
	word := mux.Vars(r)["word"]
	years, err := s.counts.YearCounts(word)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(years) == 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("word %q not counted", word))
		return
	}
	writeJSON(w, http.StatusOK, years)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
