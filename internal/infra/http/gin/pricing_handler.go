package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"tripquote/internal/app/recalc"
	"tripquote/internal/domain/pricing"
)

// PricingHandler exposes the per-tenant pricing configuration and the
// recalculation batch.
type PricingHandler struct {
	Pricing pricing.Repository
	Recalc  *recalc.Service
}

// GetConfig returns the stored configuration, or the onboarding defaults when
// the tenant has none yet. Defaults are not written back; they become real only
// through an explicit update.
func (h PricingHandler) GetConfig(c *gin.Context) {
	if h.Pricing == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "pricing handler unavailable"})
		return
	}
	id := tenantID(c)
	cfg, slabs, err := h.Pricing.Config(c.Request.Context(), id)
	if errors.Is(err, pricing.ErrConfigNotFound) {
		cfg, slabs = pricing.DefaultConfig(id), nil
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load pricing config"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": cfg, "child_slabs": slabs})
}

func (h PricingHandler) UpdateConfig(c *gin.Context) {
	if h.Pricing == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "pricing handler unavailable"})
		return
	}
	var cfg pricing.Config
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cfg.TenantID = tenantID(c)
	if err := h.Pricing.SaveConfig(c.Request.Context(), cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save pricing config"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": cfg})
}

// ReplaceSlabs swaps the tenant's child pricing slabs wholesale. Overlapping
// age ranges are rejected before anything is written.
func (h PricingHandler) ReplaceSlabs(c *gin.Context) {
	if h.Pricing == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "pricing handler unavailable"})
		return
	}
	var slabs pricing.ChildSlabs
	if err := c.ShouldBindJSON(&slabs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := slabs.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Pricing.ReplaceSlabs(c.Request.Context(), tenantID(c), slabs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save child slabs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"child_slabs": slabs.Sorted()})
}

// Recalculate reprices every stored itinerary of the tenant against the
// current configuration and reports per-record outcomes.
func (h PricingHandler) Recalculate(c *gin.Context) {
	if h.Recalc == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "pricing handler unavailable"})
		return
	}
	report, err := h.Recalc.Run(c.Request.Context(), tenantID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "recalculation failed"})
		return
	}
	c.JSON(http.StatusOK, report)
}

var _ PricingHTTP = PricingHandler{}
