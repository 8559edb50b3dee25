package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/boxpack/internal/packer"
	"github.com/eugenenazirov/boxpack/internal/render"
	"github.com/eugenenazirov/boxpack/internal/scenario"
	"github.com/eugenenazirov/boxpack/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// errProblemTooLarge is returned when a run would exceed the configured search budget.
var errProblemTooLarge = errors.New("box area times item count squared exceeds the configured limit")

// Handler wires packer and storage dependencies into HTTP handlers.
type Handler struct {
	packer  packer.Packer
	storage storage.Storage
	logger  *zap.Logger

	maxGridCells int64
	renderScale  int

	clock func() time.Time

	mu                sync.RWMutex
	scenarioUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithMaxGridCells bounds box area times item count squared for a single run.
func WithMaxGridCells(limit int64) HandlerOption {
	return func(h *Handler) {
		if limit > 0 {
			h.maxGridCells = limit
		}
	}
}

// WithRenderScale sets the default pixels per box unit for rendered images.
func WithRenderScale(scale int) HandlerOption {
	return func(h *Handler) {
		if scale > 0 {
			h.renderScale = scale
		}
	}
}

// WithHandlerLogger sets the logger used for packing outcomes.
func WithHandlerLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(p packer.Packer, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		packer:       p,
		storage:      store,
		logger:       zap.NewNop(),
		maxGridCells: packer.DefaultMaxGridCells,
		renderScale:  1,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.scenarioUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	_ = r
	sc, err := h.storage.GetScenario()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := scenarioResponse{
		Box:       sc.Box,
		Items:     nonNilItems(sc.Items),
		UpdatedAt: h.currentScenarioUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutScenario(w http.ResponseWriter, r *http.Request) {
	var req scenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if req.Box == nil {
		writeError(w, http.StatusBadRequest, "Invalid scenario", "box is required")
		return
	}

	sc := scenario.Scenario{Box: *req.Box, Items: req.Items}
	if err := h.storage.SetScenario(sc); err != nil {
		if errors.Is(err, storage.ErrInvalidScenario) {
			writeError(w, http.StatusBadRequest, "Invalid scenario", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markScenarioUpdated()

	stored, err := h.storage.GetScenario()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := scenarioResponse{
		Box:       stored.Box,
		Items:     nonNilItems(stored.Items),
		UpdatedAt: h.currentScenarioUpdatedAt(),
		Message:   "Scenario updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePack(w http.ResponseWriter, r *http.Request) {
	var req packRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	sc, err := h.storage.GetScenario()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if req.Box != nil {
		sc.Box = *req.Box
	}
	if req.Items != nil {
		sc.Items = req.Items
	}

	if err := sc.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scenario", err.Error())
		return
	}
	if err := h.checkBudget(sc); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Problem too large", err.Error(),
			"Reduce the box dimensions or the number of items")
		return
	}

	start := time.Now()
	res := h.packer.Pack(sc.Box, sc.Items)
	elapsed := time.Since(start)

	if !res.Succeeded {
		h.logger.Info("packing did not place every item",
			zap.Int("requested", res.Requested),
			zap.Int("box_width", sc.Box.Width),
			zap.Int("box_height", sc.Box.Height),
			zap.String("request_id", requestIDFromContext(r.Context())),
		)
	}

	writeJSON(w, http.StatusOK, newPackResponse(res, sc.Box, elapsed))
}

func (h *Handler) handleRender(w http.ResponseWriter, r *http.Request) {
	scale := h.renderScale
	if raw := r.URL.Query().Get("scale"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 || value > render.MaxScale {
			writeError(w, http.StatusBadRequest, "Invalid request",
				fmt.Sprintf("scale must be an integer between 1 and %d", render.MaxScale))
			return
		}
		scale = value
	}

	sc, err := h.storage.GetScenario()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if err := h.checkBudget(sc); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Problem too large", err.Error())
		return
	}

	res := h.packer.Pack(sc.Box, sc.Items)

	var buf bytes.Buffer
	if err := render.PNG(&buf, sc.Box, res, scale); err != nil {
		if errors.Is(err, render.ErrTooLarge) {
			writeError(w, http.StatusUnprocessableEntity, "Image too large", err.Error(), "Use a smaller scale")
			return
		}
		writeInternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Pack-Succeeded", strconv.FormatBool(res.Succeeded))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) checkBudget(sc scenario.Scenario) error {
	if cells := packer.GridCells(sc.Box, sc.Items); cells > h.maxGridCells {
		return fmt.Errorf("%w: %d > %d", errProblemTooLarge, cells, h.maxGridCells)
	}
	return nil
}

func (h *Handler) currentScenarioUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.scenarioUpdatedAt
}

func (h *Handler) markScenarioUpdated() {
	h.mu.Lock()
	h.scenarioUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func nonNilItems(items []packer.Item) []packer.Item {
	if items == nil {
		return []packer.Item{}
	}
	return items
}

func newPackResponse(res packer.Result, box packer.Box, elapsed time.Duration) packResponse {
	resp := packResponse{
		Succeeded:         res.Succeeded,
		Requested:         res.Requested,
		Placed:            len(res.Placements),
		Box:               box,
		Fitness:           res.Fitness,
		TotalWeight:       res.TotalWeight,
		Placements:        make([]placementDTO, 0, len(res.Placements)),
		HasIntersections:  packer.HasIntersectingItems(res.Placements),
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	// Successful runs place every item, so placement i is input item i.
	for i, p := range res.Placements {
		resp.Placements = append(resp.Placements, newPlacementDTO(i, p))
	}
	for _, p := range res.Solution() {
		if p.IsSentinel() {
			resp.Solution = append(resp.Solution, placementDTO{Sentinel: true})
			continue
		}
		resp.Solution = append(resp.Solution, newPlacementDTO(-1, p))
	}
	return resp
}

func newPlacementDTO(index int, p packer.Placement) placementDTO {
	dto := placementDTO{
		X:      p.X,
		Y:      p.Y,
		Width:  p.Item.Width,
		Height: p.Item.Height,
		Weight: p.Item.Weight,
	}
	if index >= 0 {
		dto.Index = &index
	}
	return dto
}

type scenarioRequest struct {
	Box   *packer.Box   `json:"box"`
	Items []packer.Item `json:"items"`
}

type packRequest struct {
	Box   *packer.Box   `json:"box"`
	Items []packer.Item `json:"items"`
}

type scenarioResponse struct {
	Box       packer.Box    `json:"box"`
	Items     []packer.Item `json:"items"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Message   string        `json:"message,omitempty"`
}

type placementDTO struct {
	Index    *int `json:"index,omitempty"`
	X        int  `json:"x"`
	Y        int  `json:"y"`
	Width    int  `json:"width"`
	Height   int  `json:"height"`
	Weight   int  `json:"weight"`
	Sentinel bool `json:"sentinel,omitempty"`
}

type packResponse struct {
	Succeeded         bool           `json:"succeeded"`
	Requested         int            `json:"requested"`
	Placed            int            `json:"placed"`
	Box               packer.Box     `json:"box"`
	Fitness           float64        `json:"fitness"`
	TotalWeight       int            `json:"totalWeight"`
	Placements        []placementDTO `json:"placements"`
	Solution          []placementDTO `json:"solution"`
	HasIntersections  bool           `json:"hasIntersections"`
	CalculationTimeMs int64          `json:"calculationTimeMs"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
