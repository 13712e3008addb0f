package tenantapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/okapikit/pkg/execctx"
	"github.com/dmitrymomot/okapikit/pkg/logger"
	"github.com/dmitrymomot/okapikit/pkg/systemuser"
)

// Path is where the gateway calls the tenant interface of a module.
const Path = "/_/tenant"

type (
	// TenantStore enables and disables tenants in the module's storage.
	TenantStore interface {
		Enable(ctx context.Context, tenantID string) error
		Disable(ctx context.Context, tenantID string, purge bool) error
	}

	// Publisher announces tenant invalidations to other replicas.
	Publisher interface {
		Publish(ctx context.Context, tenantID string) error
	}
)

// Options configures the tenant router. Tenants and Metadata are required.
type Options struct {
	Tenants     TenantStore
	Metadata    execctx.ModuleMetadata
	Invalidator systemuser.Invalidator
	Bus         Publisher
	Logger      *slog.Logger

	// AfterEnable runs once the tenant is enabled, with the tenant's
	// execution context bound, e.g. to prime the system user.
	AfterEnable func(ctx context.Context, tenantID string) error
}

// Attributes is the body of POST /_/tenant. A request with ModuleTo enables
// or upgrades the module; one with only ModuleFrom disables it.
type Attributes struct {
	ModuleFrom string      `json:"module_from,omitempty"`
	ModuleTo   string      `json:"module_to,omitempty"`
	Purge      bool        `json:"purge,omitempty"`
	Parameters []Parameter `json:"parameters,omitempty"`
}

// Parameter is a free-form tenant init parameter such as loadSample.
type Parameter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Param returns the value of the named parameter.
func (a Attributes) Param(key string) (string, bool) {
	for _, p := range a.Parameters {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

const maxBodySize = 1 << 20

// Router returns the tenant interface: POST /_/tenant enables, upgrades or
// disables the calling tenant, DELETE /_/tenant disables and purges it.
// Every change evicts the tenant's cached system user.
func Router(opts Options) chi.Router {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	h := &handler{opts: opts}

	r := chi.NewRouter()
	r.Use(
		execctx.Middleware(opts.Metadata, execctx.WithLogger(opts.Logger)),
		execctx.RequireTenant(nil),
	)
	r.Post(Path, h.post)
	r.Delete(Path, h.delete)
	return r
}

type handler struct {
	opts Options
}

func (h *handler) post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := execctx.MustCurrent(ctx).TenantID()

	var attrs Attributes
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&attrs); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid tenant attributes", http.StatusBadRequest)
		return
	}

	var err error
	switch {
	case attrs.ModuleTo != "":
		err = h.enable(ctx, tenantID, attrs)
	case attrs.ModuleFrom != "" || attrs.Purge:
		err = h.disable(ctx, tenantID, attrs.Purge)
	default:
		http.Error(w, "module_to or module_from is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.fail(w, r, tenantID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := execctx.MustCurrent(ctx).TenantID()

	if err := h.disable(ctx, tenantID, true); err != nil {
		h.fail(w, r, tenantID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) enable(ctx context.Context, tenantID string, attrs Attributes) error {
	if err := h.opts.Tenants.Enable(ctx, tenantID); err != nil {
		return err
	}
	h.invalidate(ctx, tenantID)
	h.opts.Logger.InfoContext(ctx, "tenant enabled",
		logger.TenantID(tenantID),
		slog.String("module_from", attrs.ModuleFrom),
		slog.String("module_to", attrs.ModuleTo),
	)

	if h.opts.AfterEnable != nil {
		return h.opts.AfterEnable(ctx, tenantID)
	}
	return nil
}

func (h *handler) disable(ctx context.Context, tenantID string, purge bool) error {
	if err := h.opts.Tenants.Disable(ctx, tenantID, purge); err != nil {
		return err
	}
	h.invalidate(ctx, tenantID)
	h.opts.Logger.InfoContext(ctx, "tenant disabled",
		logger.TenantID(tenantID),
		slog.Bool("purge", purge),
	)
	return nil
}

// invalidate evicts the local system user and tells the other replicas.
// A failed broadcast is logged: peers fall back to refreshing on expiry.
func (h *handler) invalidate(ctx context.Context, tenantID string) {
	if h.opts.Invalidator != nil {
		h.opts.Invalidator.Invalidate(tenantID)
	}
	if h.opts.Bus == nil {
		return
	}
	if err := h.opts.Bus.Publish(ctx, tenantID); err != nil {
		h.opts.Logger.WarnContext(ctx, "failed to broadcast system user invalidation",
			logger.TenantID(tenantID),
			logger.Error(err),
		)
	}
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, tenantID string, err error) {
	h.opts.Logger.ErrorContext(r.Context(), "tenant operation failed",
		logger.TenantID(tenantID),
		slog.String("method", r.Method),
		logger.Error(err),
	)
	http.Error(w, "Tenant operation failed", http.StatusInternalServerError)
}
