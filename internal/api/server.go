package api

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GoPolymarket/vesting-dashboard/internal/app"
	"github.com/GoPolymarket/vesting-dashboard/internal/charts"
	"github.com/GoPolymarket/vesting-dashboard/internal/comparison"
	"github.com/GoPolymarket/vesting-dashboard/internal/query"
	"github.com/GoPolymarket/vesting-dashboard/internal/selection"
	"github.com/GoPolymarket/vesting-dashboard/internal/vesting"
)

// Backend exposes the loaded datasets to the API layer.
type Backend interface {
	Store() (*query.Store, bool)
	Engine() (*comparison.Engine, bool)
	Ready() error
	Status() app.Status
	Reload(ctx context.Context) error
}

// Server is a read-only HTTP API over the vesting datasets.
type Server struct {
	httpServer *http.Server
	backend    Backend
	startedAt  time.Time
}

// NewServer creates a new API server bound to addr.
func NewServer(addr string, backend Backend) *Server {
	s := &Server{
		backend:   backend,
		startedAt: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/ready", s.handleReady)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/projects", s.handleProjects)
	mux.HandleFunc("/api/project", s.handleProject)
	mux.HandleFunc("/api/timeline", s.handleTimeline)
	mux.HandleFunc("/api/distribution", s.handleDistribution)
	mux.HandleFunc("/api/vesting-rate", s.handleVestingRate)
	mux.HandleFunc("/api/scenario", s.handleScenario)
	mux.HandleFunc("/api/comparison", s.handleComparison)
	mux.HandleFunc("/api/insights", s.handleInsights)
	mux.HandleFunc("/api/portfolio", s.handlePortfolio)
	mux.HandleFunc("/api/table", s.handleTable)
	mux.HandleFunc("/api/export", s.handleExport)
	mux.HandleFunc("/api/chart", s.handleChart)
	mux.HandleFunc("/api/reload", s.handleReload)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the routing handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start begins serving HTTP requests.
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	log.Printf("api server listening on %s", s.httpServer.Addr)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("api server: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) notFound(w http.ResponseWriter, what string) {
	s.writeError(w, http.StatusNotFound, what+" not found")
}

// store returns the current store or writes 503.
func (s *Server) store(w http.ResponseWriter) (*query.Store, bool) {
	st, ok := s.backend.Store()
	if !ok {
		s.writeError(w, http.StatusServiceUnavailable, "datasets not loaded")
		return nil, false
	}
	return st, true
}

func (s *Server) engine(w http.ResponseWriter) (*comparison.Engine, bool) {
	e, ok := s.backend.Engine()
	if !ok {
		s.writeError(w, http.StatusServiceUnavailable, "datasets not loaded")
		return nil, false
	}
	return e, true
}

func approachParam(r *http.Request) (vesting.Approach, error) {
	raw := r.URL.Query().Get("approach")
	if strings.TrimSpace(raw) == "" {
		return vesting.Pure, nil
	}
	return vesting.ParseApproach(raw)
}

func projectParam(r *http.Request) (string, error) {
	q := r.URL.Query()
	name := q.Get("project")
	if !q.Has("project") {
		name = q.Get("name")
	}
	if name == "" {
		return "", errors.New("project is required")
	}
	return name, nil
}

func intParam(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return v, nil
}

// projectRequest reads the common project + approach pair.
func (s *Server) projectRequest(w http.ResponseWriter, r *http.Request) (string, vesting.Approach, bool) {
	name, err := projectParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return "", 0, false
	}
	a, err := approachParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return "", 0, false
	}
	return name, a, true
}

// GET /api/health: liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"ok":       true,
		"uptime_s": time.Since(s.startedAt).Seconds(),
	})
}

// GET /api/ready: readiness probe; 503 until both datasets are loaded.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	err := s.backend.Ready()
	resp := map[string]interface{}{
		"ready":    err == nil,
		"state":    s.backend.Status().State,
		"uptime_s": time.Since(s.startedAt).Seconds(),
	}
	if err != nil {
		resp["reason"] = err.Error()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(resp)
		return
	}
	s.writeJSON(w, resp)
}

// GET /api/status: load lifecycle and sources.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.backend.Status())
}

// GET /api/summary?approach=: dataset summary plus final portfolio value.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	a, err := approachParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st, ok := s.store(w)
	if !ok {
		return
	}
	sum, ok := st.Summary(a)
	if !ok {
		s.notFound(w, "summary for "+a.String())
		return
	}
	meta, _ := st.Metadata(a)
	portfolio, _ := st.PortfolioAggregate(a)
	s.writeJSON(w, map[string]interface{}{
		"approach":        a,
		"summary":         sum,
		"metadata":        meta,
		"final_portfolio": portfolio.Final(),
	})
}

// GET /api/projects?search=&size=&sort=: filtered, sorted project list.
func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	size, err := vesting.ParseSizeBucket(q.Get("size"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sortOpt, err := selection.ParseSortOption(q.Get("sort"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st, ok := s.store(w)
	if !ok {
		return
	}
	all := st.Projects()
	criteria := selection.Criteria{Search: q.Get("search"), Size: size, Sort: sortOpt}
	projects := selection.Apply(all, criteria)

	type projectEntry struct {
		Name        string             `json:"name"`
		FundingUSD  float64            `json:"funding_usd"`
		TotalTokens float64            `json:"total_tokens"`
		Size        vesting.SizeBucket `json:"size"`
	}
	entries := make([]projectEntry, 0, len(projects))
	for _, p := range projects {
		entries = append(entries, projectEntry{
			Name:        p.ProposalName,
			FundingUSD:  p.RequestedFundingUSD,
			TotalTokens: p.TotalTokens,
			Size:        vesting.SizeOf(p.RequestedFundingUSD),
		})
	}
	s.writeJSON(w, map[string]interface{}{
		"criteria": criteria,
		"total":    len(all),
		"count":    len(entries),
		"projects": entries,
	})
}

// GET /api/project?name=&approach=: one allocation record.
func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	name, a, ok := s.projectRequest(w, r)
	if !ok {
		return
	}
	st, ok := s.store(w)
	if !ok {
		return
	}
	alloc, found := st.Project(name, a)
	if !found {
		s.notFound(w, "project "+strconv.Quote(name))
		return
	}
	var rec interface{} = alloc
	switch a {
	case vesting.Pure:
		rec, _ = st.PureProject(name)
	case vesting.Hybrid:
		rec, _ = st.HybridProject(name)
	}
	s.writeJSON(w, map[string]interface{}{
		"approach": a,
		"project":  rec,
		"size":     vesting.SizeOf(alloc.RequestedFundingUSD),
	})
}

// GET /api/timeline?project=&approach=: cumulative vesting series.
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	name, a, ok := s.projectRequest(w, r)
	if !ok {
		return
	}
	st, ok := s.store(w)
	if !ok {
		return
	}
	points, found := st.TimelineSeries(name, a)
	if !found {
		s.notFound(w, "timeline for "+strconv.Quote(name))
		return
	}
	s.writeJSON(w, map[string]interface{}{"project": name, "approach": a, "points": points})
}

// GET /api/distribution?project=&approach=: category split.
func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	name, a, ok := s.projectRequest(w, r)
	if !ok {
		return
	}
	st, ok := s.store(w)
	if !ok {
		return
	}
	slices, found := st.DistributionSplit(name, a)
	if !found {
		s.notFound(w, "distribution for "+strconv.Quote(name))
		return
	}
	s.writeJSON(w, map[string]interface{}{"project": name, "approach": a, "slices": slices})
}

// GET /api/vesting-rate?project=: hybrid per-month vesting.
func (s *Server) handleVestingRate(w http.ResponseWriter, r *http.Request) {
	name, err := projectParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st, ok := s.store(w)
	if !ok {
		return
	}
	rates, found := st.VestingRateSeries(name)
	if !found {
		s.notFound(w, "vesting rate for "+strconv.Quote(name))
		return
	}
	s.writeJSON(w, map[string]interface{}{"project": name, "rates": rates})
}

// GET /api/scenario?project=&index=&approach=: position at a time index.
func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	name, a, ok := s.projectRequest(w, r)
	if !ok {
		return
	}
	index, err := intParam(r, "index", 0)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	e, ok := s.engine(w)
	if !ok {
		return
	}
	sc, found := e.Single(name, index, a)
	if !found {
		s.notFound(w, fmt.Sprintf("scenario %d for %q", index, name))
		return
	}
	s.writeJSON(w, sc)
}

// GET /api/comparison?project=&index=: pure vs hybrid at one index.
func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	name, err := projectParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	index, err := intParam(r, "index", comparison.InsightIndex)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	e, ok := s.engine(w)
	if !ok {
		return
	}
	res, found := e.Compare(name, index)
	if !found {
		s.notFound(w, fmt.Sprintf("comparison %d for %q", index, name))
		return
	}
	s.writeJSON(w, res)
}

// GET /api/insights?project=: fixed insight cards for one project.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	name, err := projectParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	e, ok := s.engine(w)
	if !ok {
		return
	}
	insights, found := e.Insights(name)
	if !found {
		s.notFound(w, "insights for "+strconv.Quote(name))
		return
	}
	s.writeJSON(w, map[string]interface{}{"project": name, "insights": insights})
}

// GET /api/portfolio?approach=: portfolio-wide cumulative vesting.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	a, err := approachParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st, ok := s.store(w)
	if !ok {
		return
	}
	p, found := st.PortfolioAggregate(a)
	if !found {
		s.notFound(w, "portfolio for "+a.String())
		return
	}
	s.writeJSON(w, map[string]interface{}{
		"approach": p.Approach,
		"labels":   p.Labels,
		"values":   p.Values,
		"final":    p.Final(),
	})
}

// GET /api/table?project=&approach=&format=csv: detail table.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	name, a, ok := s.projectRequest(w, r)
	if !ok {
		return
	}
	st, ok := s.store(w)
	if !ok {
		return
	}
	t, found := st.DataTable(name, a)
	if !found {
		s.notFound(w, "table for "+strconv.Quote(name))
		return
	}
	if strings.EqualFold(strings.TrimSpace(r.URL.Query().Get("format")), "csv") {
		s.writeTableCSV(w, t)
		return
	}
	s.writeJSON(w, t)
}

func (s *Server) writeTableCSV(w http.ResponseWriter, t query.DataTable) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", csvFilename(t)))
	cw := csv.NewWriter(w)
	_ = cw.Write(t.Columns())
	for _, rec := range t.Records() {
		_ = cw.Write(rec)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		log.Printf("api: write table csv: %v", err)
	}
}

func csvFilename(t query.DataTable) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, t.Project)
	return fmt.Sprintf("%s-%s.csv", name, t.Approach)
}

// GET /api/export?project=: both models for one project.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	name, err := projectParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	e, ok := s.engine(w)
	if !ok {
		return
	}
	exp, found := e.Export(name)
	if !found {
		s.notFound(w, "project "+strconv.Quote(name))
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "vesting-comparison.json"))
	s.writeJSON(w, exp)
}

// GET /api/chart?kind=&project=&approach=&format=svg|png: rendered chart.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind, err := charts.ParseKind(q.Get("kind"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	f, err := charts.ParseFormat(q.Get("format"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := approachParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	width, err := intParam(r, "width", 0)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	height, err := intParam(r, "height", 0)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := charts.CheckSize(width, height); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req := charts.Request{Kind: kind, Approach: a, Width: width, Height: height}
	if kind != charts.KindPortfolio {
		if req.Project, err = projectParam(r); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	st, ok := s.store(w)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := charts.Render(&buf, st, req, f); err != nil {
		switch {
		case errors.Is(err, charts.ErrNotFound):
			s.writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, charts.ErrTooLarge):
			s.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, charts.ErrNoData):
			s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			log.Printf("api: render chart %s: %v", kind, err)
			s.writeError(w, http.StatusInternalServerError, "render chart failed")
		}
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	_, _ = w.Write(buf.Bytes())
}

// POST /api/reload: rebuild both datasets; the previous ones stay on failure.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.backend.Reload(r.Context()); err != nil {
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.writeJSON(w, s.backend.Status())
}
