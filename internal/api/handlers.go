package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"siteforge/internal/factory"
	"siteforge/internal/schema"
	"siteforge/internal/store"
)

// SiteGenerator runs both model passes for one intake.
type SiteGenerator interface {
	Generate(ctx context.Context, facts schema.Facts) (*factory.Result, error)
}

// Submitter forwards an accepted document to the submission webhook.
type Submitter interface {
	Submit(ctx context.Context, doc map[string]any, clientEmail string) ([]byte, error)
}

// APIHandler holds dependencies for API endpoints.
type APIHandler struct {
	generator SiteGenerator
	submitter Submitter
	store     *store.Store
	logger    *zap.Logger

	// Set when the matching collaborator could not be configured; the
	// endpoint then answers with this error instead of calling out.
	generatorErr error
	submitterErr error
}

// Options wires an APIHandler. A nil collaborator is reported through the
// matching *Err field.
type Options struct {
	Generator    SiteGenerator
	GeneratorErr error
	Submitter    Submitter
	SubmitterErr error
	Store        *store.Store
	Logger       *zap.Logger
}

// NewAPIHandler initializes a new API handler with its dependencies.
func NewAPIHandler(opts Options) *APIHandler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{
		generator:    opts.Generator,
		generatorErr: opts.GeneratorErr,
		submitter:    opts.Submitter,
		submitterErr: opts.SubmitterErr,
		store:        opts.Store,
		logger:       logger.Named("api"),
	}
}

// --- Structs for API Requests/Responses ---

type GenerateRequest struct {
	SiteFor      string `json:"site_for" binding:"required"`
	BusinessName string `json:"business_name"`
	Email        string `json:"email" binding:"omitempty,email"`
	Phone        string `json:"phone"`
	MainCity     string `json:"main_city"`
	Goal         string `json:"goal"`
	ToneHint     string `json:"tone_hint"`
	ClientID     string `json:"client_id"`

	AllowTestimonials bool `json:"allow_testimonials"`
	AllowInvestment   bool `json:"allow_investment"`
	AllowComparison   bool `json:"allow_comparison"`
	AllowEvents       bool `json:"allow_events"`
}

func (r GenerateRequest) facts() schema.Facts {
	goal := r.Goal
	if goal == "" {
		goal = schema.GoalContact
	}
	return schema.Facts{
		SiteFor:           r.SiteFor,
		BusinessName:      r.BusinessName,
		Email:             r.Email,
		Phone:             r.Phone,
		MainCity:          r.MainCity,
		Goal:              goal,
		ToneHint:          r.ToneHint,
		ClientID:          r.ClientID,
		AllowTestimonials: r.AllowTestimonials,
		AllowInvestment:   r.AllowInvestment,
		AllowComparison:   r.AllowComparison,
		AllowEvents:       r.AllowEvents,
	}
}

type GenerateResponse struct {
	OK bool `json:"ok"`
	*factory.Result
}

type SubmitRequest struct {
	BusinessJSON map[string]any `json:"business_json" binding:"required"`
	ClientEmail  string         `json:"client_email" binding:"omitempty,email"`
}

type DocumentResponse struct {
	OK       bool             `json:"ok"`
	Shape    string           `json:"shape,omitempty"`
	Slug     string           `json:"slug,omitempty"`
	Document *schema.Document `json:"business_json"`
}

// --- API Handlers ---

// POST /api/generate
func (h *APIHandler) GenerateSite(c *gin.Context) {
	if h.generator == nil {
		fail(c, http.StatusServiceUnavailable, orUnavailable(h.generatorErr))
		return
	}
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	h.logger.Info("Received generation request",
		zap.String("site_for", req.SiteFor),
		zap.String("client_id", req.ClientID))

	result, err := h.generator.Generate(c.Request.Context(), req.facts())
	if err != nil {
		h.logger.Error("Error generating site", zap.String("site_for", req.SiteFor), zap.Error(err))
		fail(c, http.StatusInternalServerError, err)
		return
	}

	h.logger.Info("Site generation successful", zap.String("run_id", result.RunID), zap.String("slug", result.Slug))
	c.JSON(http.StatusOK, GenerateResponse{OK: true, Result: result})
}

// POST /api/submit
func (h *APIHandler) SubmitSite(c *gin.Context) {
	if h.submitter == nil {
		fail(c, http.StatusServiceUnavailable, orUnavailable(h.submitterErr))
		return
	}
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	body, err := h.submitter.Submit(c.Request.Context(), req.BusinessJSON, req.ClientEmail)
	if err != nil {
		h.logger.Error("Error submitting site", zap.Error(err))
		fail(c, http.StatusBadGateway, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// POST /api/normalize?client_id=<id>
//
// Upgrades a legacy document and re-normalizes it the way stored documents
// are, so hand-edited files can be checked before they are merged.
func (h *APIHandler) NormalizeDocument(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if raw == nil {
		fail(c, http.StatusBadRequest, errors.New("invalid request body: expected a JSON object"))
		return
	}

	upgraded, shape := schema.Upgrade(raw)
	doc := schema.NormalizeStored(upgraded, schema.Facts{ClientID: c.Query("client_id")})
	c.JSON(http.StatusOK, DocumentResponse{OK: true, Shape: shape.String(), Slug: doc.Brand.Slug, Document: doc})
}

// POST /api/clients/:slug/merge
func (h *APIHandler) MergeClient(c *gin.Context) {
	slug := c.Param("slug")
	doc, err := h.store.Merge(slug)
	if err != nil {
		h.logger.Warn("Merge failed", zap.String("client", slug), zap.Error(err))
		fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, DocumentResponse{OK: true, Slug: doc.Brand.Slug, Document: doc})
}

// PUT /api/clients/:slug/updates
//
// Replaces the client's updates file and merges it into the base.
func (h *APIHandler) SaveUpdates(c *gin.Context) {
	slug := c.Param("slug")
	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if updates == nil {
		updates = map[string]any{}
	}
	if err := h.store.SaveUpdates(slug, updates); err != nil {
		fail(c, statusFor(err), err)
		return
	}
	h.MergeClient(c)
}

// GET /api/clients/:slug
func (h *APIHandler) GetClient(c *gin.Context) {
	doc, err := h.store.LoadMerged(c.Param("slug"))
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "business_json": doc})
}

func fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"ok": false, "error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrInvalidSlug):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func orUnavailable(err error) error {
	if err != nil {
		return err
	}
	return errors.New("service not configured")
}
