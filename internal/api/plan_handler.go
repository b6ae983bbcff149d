package api

import (
	"alcyxob/liftplan/internal/bridge"
	"alcyxob/liftplan/internal/domain"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PlanHandler exposes the bridge operations over HTTP. Every response body is
// a bridge.Envelope.
type PlanHandler struct {
	bridge *bridge.Bridge
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(b *bridge.Bridge) *PlanHandler {
	return &PlanHandler{bridge: b}
}

// --- DTOs ---

type PlanRequest struct {
	Plan json.RawMessage `json:"plan" binding:"required"`
}

type PathRequest struct {
	Path string `json:"path" binding:"required"`
}

type SavePlanRequest struct {
	Plan json.RawMessage `json:"plan" binding:"required"`
	Path string          `json:"path" binding:"required"`
}

type DiffRequest struct {
	From json.RawMessage `json:"from" binding:"required"`
	To   json.RawMessage `json:"to" binding:"required"`
}

type SegmentRequest struct {
	Plan    json.RawMessage `json:"plan" binding:"required"`
	Day     *int            `json:"day" binding:"required"`
	Index   *int            `json:"index"`
	Segment json.RawMessage `json:"segment"`
}

type DayRequest struct {
	Plan  json.RawMessage `json:"plan" binding:"required"`
	Day   json.RawMessage `json:"day"` // Optional day body for add
	Index *int            `json:"index"`
	From  *int            `json:"from"`
	To    *int            `json:"to"`
}

type GroupRequest struct {
	Plan  json.RawMessage `json:"plan" binding:"required"`
	Name  string          `json:"name"`
	Codes json.RawMessage `json:"codes"`
}

type DictionaryRequest struct {
	Plan  json.RawMessage `json:"plan" binding:"required"`
	Code  string          `json:"code"`
	Name  string          `json:"name"`
	Query string          `json:"query"`
	Limit int             `json:"limit"`
}

// --- Handlers ---

// NewPlan godoc
// @Summary Create an empty plan
// @Tags plans
// @Produce json
// @Success 200 {object} bridge.Envelope
// @Router /plans/new [post]
func (h *PlanHandler) NewPlan(c *gin.Context) {
	respondPlan(c, h.bridge.NewPlan())
}

// OpenPlan godoc
// @Summary Load a plan from storage
// @Tags plans
// @Accept json
// @Produce json
// @Param path body PathRequest true "Storage path (file, s3://, mongo://, sqlite://)"
// @Success 200 {object} bridge.Envelope
// @Failure 400 {object} bridge.Envelope "Malformed request or document"
// @Failure 502 {object} bridge.Envelope "Storage failure"
// @Router /plans/open [post]
func (h *PlanHandler) OpenPlan(c *gin.Context) {
	var req PathRequest
	if !bind(c, "open_plan", &req) {
		return
	}
	respondPlan(c, h.bridge.OpenPlan(c.Request.Context(), req.Path))
}

// SavePlan godoc
// @Summary Write a plan to storage
// @Tags plans
// @Accept json
// @Produce json
// @Param plan body SavePlanRequest true "Plan and target path"
// @Success 200 {object} bridge.Envelope
// @Failure 502 {object} bridge.Envelope "Storage failure"
// @Router /plans/save [post]
func (h *PlanHandler) SavePlan(c *gin.Context) {
	var req SavePlanRequest
	if !bind(c, "save_plan", &req) {
		return
	}
	respond(c, h.bridge.SavePlan(c.Request.Context(), req.Plan, req.Path))
}

// SaveDraft godoc
// @Summary Write a plan to the drafts directory
// @Tags plans
// @Router /plans/draft [post]
func (h *PlanHandler) SaveDraft(c *gin.Context) {
	var req PlanRequest
	if !bind(c, "save_draft", &req) {
		return
	}
	respond(c, h.bridge.SaveDraft(c.Request.Context(), req.Plan))
}

// ValidatePlan godoc
// @Summary List validation issues of a plan
// @Tags plans
// @Accept json
// @Produce json
// @Param plan body PlanRequest true "Plan"
// @Success 200 {object} bridge.Envelope "Data is an array of issues"
// @Router /plans/validate [post]
func (h *PlanHandler) ValidatePlan(c *gin.Context) {
	var req PlanRequest
	if !bind(c, "validate_plan", &req) {
		return
	}
	respond(c, h.bridge.ValidatePlan(req.Plan))
}

// DiffPlans godoc
// @Summary List the changes between two plans
// @Tags plans
// @Accept json
// @Produce json
// @Param plans body DiffRequest true "Old and new plan"
// @Success 200 {object} bridge.Envelope "Data holds changes and metrics"
// @Failure 400 {object} bridge.Envelope "Malformed plan"
// @Router /plans/diff [post]
func (h *PlanHandler) DiffPlans(c *gin.Context) {
	var req DiffRequest
	if !bind(c, "diff_plans", &req) {
		return
	}
	respond(c, h.bridge.DiffPlans(req.From, req.To))
}

// AddSegment godoc
// @Summary Append a segment to a day
// @Tags segments
// @Router /plans/segments/add [post]
func (h *PlanHandler) AddSegment(c *gin.Context) {
	var req SegmentRequest
	if !bind(c, "add_segment", &req) {
		return
	}
	respondPlan(c, h.bridge.AddSegment(req.Plan, *req.Day, req.Segment))
}

// RemoveSegment godoc
// @Summary Remove a segment from a day
// @Tags segments
// @Router /plans/segments/remove [post]
func (h *PlanHandler) RemoveSegment(c *gin.Context) {
	var req SegmentRequest
	if !bind(c, "remove_segment", &req) || !need(c, "remove_segment", "index", req.Index) {
		return
	}
	respondPlan(c, h.bridge.RemoveSegment(req.Plan, *req.Day, *req.Index))
}

// UpdateSegment godoc
// @Summary Replace a segment of a day
// @Tags segments
// @Router /plans/segments/update [post]
func (h *PlanHandler) UpdateSegment(c *gin.Context) {
	var req SegmentRequest
	if !bind(c, "update_segment", &req) || !need(c, "update_segment", "index", req.Index) {
		return
	}
	respondPlan(c, h.bridge.UpdateSegment(req.Plan, *req.Day, *req.Index, req.Segment))
}

// AddDay godoc
// @Summary Append a day (empty unless a day body is given)
// @Tags days
// @Router /plans/days/add [post]
func (h *PlanHandler) AddDay(c *gin.Context) {
	var req DayRequest
	if !bind(c, "add_day", &req) {
		return
	}
	respondPlan(c, h.bridge.AddDay(req.Plan, req.Day))
}

// RemoveDay godoc
// @Summary Remove a day by index
// @Tags days
// @Router /plans/days/remove [post]
func (h *PlanHandler) RemoveDay(c *gin.Context) {
	var req DayRequest
	if !bind(c, "remove_day", &req) || !need(c, "remove_day", "index", req.Index) {
		return
	}
	respondPlan(c, h.bridge.RemoveDay(req.Plan, *req.Index))
}

// MoveDay godoc
// @Summary Move a day to a new position
// @Tags days
// @Router /plans/days/move [post]
func (h *PlanHandler) MoveDay(c *gin.Context) {
	var req DayRequest
	if !bind(c, "move_day", &req) || !need(c, "move_day", "from", req.From) || !need(c, "move_day", "to", req.To) {
		return
	}
	respondPlan(c, h.bridge.MoveDay(req.Plan, *req.From, *req.To))
}

// GetGroups godoc
// @Summary Return the plan's exercise groups
// @Tags groups
// @Router /plans/groups/get [post]
func (h *PlanHandler) GetGroups(c *gin.Context) {
	var req GroupRequest
	if !bind(c, "get_groups", &req) {
		return
	}
	respond(c, h.bridge.GetGroups(req.Plan))
}

// AddGroup godoc
// @Summary Create or replace a group
// @Tags groups
// @Router /plans/groups/set [post]
func (h *PlanHandler) AddGroup(c *gin.Context) {
	var req GroupRequest
	if !bind(c, "add_group", &req) {
		return
	}
	respondPlan(c, h.bridge.AddGroup(req.Plan, req.Name, req.Codes))
}

// RemoveGroup godoc
// @Summary Remove a group (absent names are ignored)
// @Tags groups
// @Router /plans/groups/remove [post]
func (h *PlanHandler) RemoveGroup(c *gin.Context) {
	var req GroupRequest
	if !bind(c, "remove_group", &req) {
		return
	}
	respondPlan(c, h.bridge.RemoveGroup(req.Plan, req.Name))
}

// AddDictionaryEntry godoc
// @Summary Set a dictionary entry
// @Tags dictionary
// @Router /plans/dictionary/set [post]
func (h *PlanHandler) AddDictionaryEntry(c *gin.Context) {
	var req DictionaryRequest
	if !bind(c, "add_dictionary_entry", &req) {
		return
	}
	respondPlan(c, h.bridge.AddDictionaryEntry(req.Plan, req.Code, req.Name))
}

// RemoveDictionaryEntry godoc
// @Summary Remove a dictionary entry
// @Tags dictionary
// @Router /plans/dictionary/remove [post]
func (h *PlanHandler) RemoveDictionaryEntry(c *gin.Context) {
	var req DictionaryRequest
	if !bind(c, "remove_dictionary_entry", &req) {
		return
	}
	respondPlan(c, h.bridge.RemoveDictionaryEntry(req.Plan, req.Code))
}

// SearchDictionary godoc
// @Summary Fuzzy search the dictionary by code and name
// @Tags dictionary
// @Router /plans/dictionary/search [post]
func (h *PlanHandler) SearchDictionary(c *gin.Context) {
	var req DictionaryRequest
	if !bind(c, "search_dictionary", &req) {
		return
	}
	respond(c, h.bridge.SearchDictionary(req.Plan, req.Query, req.Limit))
}

// Dirs godoc
// @Summary Resolve a platform directory (app-support, cache, drafts)
// @Tags dirs
// @Router /dirs/{name} [get]
func (h *PlanHandler) Dirs(c *gin.Context) {
	switch c.Param("name") {
	case "app-support":
		respond(c, h.bridge.AppSupportDir())
	case "cache":
		respond(c, h.bridge.CacheDir())
	case "drafts":
		respond(c, h.bridge.DraftsDir())
	default:
		c.JSON(http.StatusNotFound, bridge.Failed(bridge.KindInvalidArgument, fmt.Sprintf("unknown directory %q", c.Param("name"))))
	}
}

// --- helpers ---

// bind decodes the request body. On failure it writes a malformed_input
// envelope and returns false.
func bind(c *gin.Context, op string, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respond(c, bridge.Reject(op, err))
		return false
	}
	return true
}

// need checks an optional index field that a specific route requires.
func need(c *gin.Context, op, field string, v *int) bool {
	if v == nil {
		respond(c, bridge.Reject(op, fmt.Errorf("missing field %q", field)))
		return false
	}
	return true
}

// statusFor maps an envelope to its HTTP status.
func statusFor(env bridge.Envelope) int {
	if env.Success {
		return http.StatusOK
	}
	switch env.Error.Kind {
	case bridge.KindMalformedInput, bridge.KindInvalidArgument:
		return http.StatusBadRequest
	case bridge.KindIndexOutOfRange:
		return http.StatusUnprocessableEntity
	case bridge.KindIOFailure:
		return http.StatusBadGateway
	case bridge.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func respond(c *gin.Context, env bridge.Envelope) {
	status := statusFor(env)
	if status >= http.StatusInternalServerError {
		log.Printf("ERROR: %s %s: %v [%s]", c.Request.Method, c.Request.URL.Path, env.Err(), c.GetString(ContextRequestIDKey))
	}
	c.JSON(status, env)
}

// respondPlan is respond plus an ETag for envelopes that carry a plan.
func respondPlan(c *gin.Context, env bridge.Envelope) {
	if env.Success {
		c.Header("ETag", `"`+domain.Digest(env.Data)+`"`)
	}
	respond(c, env)
}
