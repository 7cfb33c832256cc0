package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"leadrouter/internal/audit"
	"leadrouter/internal/auth"
	"leadrouter/internal/reporting"
	"leadrouter/internal/routing"
	"leadrouter/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Auth    *auth.Manager
	Router  *routing.Router
	Reports *reporting.Service
}

// --- Auth ---

type loginRequest struct {
	UserID   int64  `json:"user_id"`
	TenantID int64  `json:"tenant_id"`
	Role     string `json:"role"`
}

// Login issues a JWT token pair.
//
// NOTE: development only; it does not check credentials and is not routed in production.
func (h Handlers) Login(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.UserID <= 0 || req.TenantID <= 0 || req.Role == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user_id, tenant_id, role required"})
		return
	}
	pair, err := h.Auth.IssuePair(time.Now(), req.UserID, req.TenantID, req.Role)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

// --- Routing ---

// RouteLead runs the tenant's rules against the lead and returns it,
// assigned or unchanged.
func (h Handlers) RouteLead(c *gin.Context) {
	if h.Router == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "router not configured"})
		return
	}
	tenantID, leadID, ok := tenantAndLead(c)
	if !ok {
		return
	}

	ctx := audit.WithClientIP(c.Request.Context(), c.ClientIP())
	lead, err := h.Router.RouteLead(ctx, leadID, tenantID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// PreviewRoute reports what RouteLead would do without assigning.
func (h Handlers) PreviewRoute(c *gin.Context) {
	if h.Router == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "router not configured"})
		return
	}
	tenantID, leadID, ok := tenantAndLead(c)
	if !ok {
		return
	}

	d, err := h.Router.Preview(c.Request.Context(), leadID, tenantID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// --- Reporting ---

func (h Handlers) Workload(c *gin.Context) {
	if h.Reports == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "reporting not configured"})
		return
	}
	tenantID, err := auth.TenantID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "tenant_id required"})
		return
	}

	req := reporting.WorkloadRequest{TenantID: tenantID}
	if raw := c.Query("role_id"); raw != "" {
		roleID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || roleID <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid role_id"})
			return
		}
		req.RoleID = &roleID
	}

	rep, err := h.Reports.Workload(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func tenantAndLead(c *gin.Context) (tenantID, leadID int64, ok bool) {
	tenantID, err := auth.TenantID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "tenant_id required"})
		return 0, 0, false
	}
	leadID, err = strconv.ParseInt(c.Param("lead_id"), 10, 64)
	if err != nil || leadID <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid lead_id"})
		return 0, 0, false
	}
	return tenantID, leadID, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, routing.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, routing.ErrInvalidArgument), errors.Is(err, reporting.ErrInvalidRequest):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	case errors.Is(err, routing.ErrLockTimeout):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "routing busy, retry"})
	default:
		logger.From(c.Request.Context()).Error("request failed", "err", err)
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
