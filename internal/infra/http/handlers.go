package http

import (
	"net/http"
	"strings"
	"time"

	"obotcall/internal/domain"

	"github.com/gin-gonic/gin"
)

type resourceResponse struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenant_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type createResourceRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateResource(kind domain.ResourceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		actx, ok := mustAuthContext(c)
		if !ok {
			return
		}
		var req createResourceRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			writeErrorCode(c, http.StatusBadRequest, codeInvalidArgument, "name is required")
			return
		}
		record, err := s.resources.Create(c.Request.Context(), kind, actx.Tenant.ID, strings.TrimSpace(req.Name))
		if err != nil {
			writeErrorCode(c, http.StatusInternalServerError, codeInternal, "create failed")
			return
		}
		c.JSON(http.StatusCreated, resourceResponse{
			ID:        record.ID,
			TenantID:  record.TenantID,
			Name:      record.Name,
			CreatedAt: record.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
}

func (s *Server) handleListResources(kind domain.ResourceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		actx, ok := mustAuthContext(c)
		if !ok {
			return
		}
		records, err := s.resources.List(c.Request.Context(), kind, actx.Tenant.ID)
		if err != nil {
			writeErrorCode(c, http.StatusInternalServerError, codeInternal, "list failed")
			return
		}
		out := make([]resourceResponse, 0, len(records))
		for _, record := range records {
			out = append(out, resourceResponse{
				ID:        record.ID,
				TenantID:  record.TenantID,
				Name:      record.Name,
				CreatedAt: record.CreatedAt.UTC().Format(time.RFC3339Nano),
			})
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}

type inviteMemberRequest struct {
	Email string `json:"email"`
}

// handleInviteMember only gates the invite; membership writes belong to the
// directory service.
func (s *Server) handleInviteMember(c *gin.Context) {
	actx, ok := mustAuthContext(c)
	if !ok {
		return
	}
	var req inviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		writeErrorCode(c, http.StatusBadRequest, codeInvalidArgument, "email is required")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"status":    "invited",
		"tenant_id": actx.Tenant.ID,
		"email":     strings.TrimSpace(req.Email),
	})
}

type planResponse struct {
	ID       domain.PlanID                 `json:"id"`
	Name     string                        `json:"name"`
	Features any                           `json:"features"`
	Limits   map[domain.ResourceKind]int64 `json:"limits"`
	MaxUsers int                           `json:"max_users"`
}

func (s *Server) handleListPlans(c *gin.Context) {
	plans := s.entitlements.Catalog.Plans()
	out := make([]planResponse, 0, len(plans))
	for _, plan := range plans {
		resp := planResponse{
			ID:       plan.ID,
			Name:     plan.Name,
			Limits:   plan.Limits,
			MaxUsers: plan.MaxUsers,
		}
		if plan.Features.All() {
			resp.Features = "*"
		} else {
			resp.Features = plan.Features.IDs()
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, gin.H{"plans": out})
}

// handleTenantUsage is support tooling: current counts against plan limits
// for one tenant. Reachable with the admin key or an admin role.
func (s *Server) handleTenantUsage(c *gin.Context) {
	tenantID := strings.TrimSpace(c.Param("tenant_id"))
	if tenantID == "" {
		writeErrorCode(c, http.StatusBadRequest, codeInvalidArgument, "tenant_id is required")
		return
	}
	tenant, err := s.tenants.GetActiveByID(c.Request.Context(), tenantID)
	if err != nil {
		writeGuardError(c, err)
		return
	}
	plan, ok := s.entitlements.Catalog.Get(tenant.SubscriptionPlan)
	if !ok {
		writeErrorCode(c, http.StatusInternalServerError, codeInternal, "unknown plan")
		return
	}
	usage := make(map[domain.ResourceKind]gin.H, 4)
	for _, kind := range []domain.ResourceKind{
		domain.ResourceInterventions,
		domain.ResourceClients,
		domain.ResourceQuotes,
		domain.ResourceInvoices,
	} {
		count, err := s.usage.CountForTenant(c.Request.Context(), tenantID, kind)
		if err != nil {
			writeErrorCode(c, http.StatusInternalServerError, codeInternal, "usage counter unavailable")
			return
		}
		usage[kind] = gin.H{"current": count, "limit": plan.Limit(kind)}
	}
	c.JSON(http.StatusOK, gin.H{
		"tenant_id":     tenant.ID,
		"plan":          tenant.SubscriptionPlan,
		"current_users": tenant.CurrentUsersCount,
		"max_users":     plan.MaxUsers,
		"usage":         usage,
	})
}
