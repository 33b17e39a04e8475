package handler

import (
	"net/http"

	"github.com/devconnect/profile-service/internal/profile/service"
	"github.com/devconnect/profile-service/internal/validation"
	"github.com/devconnect/profile-service/pkg/apperror"
	"github.com/devconnect/profile-service/pkg/logger"
	"github.com/devconnect/profile-service/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterProfileRoutes mounts the /profiles routes on r. private runs before
// every route that needs a caller (normally the auth gate and Identity).
// Handlers report failures with c.Error; middleware.ErrorHandler writes them.
func RegisterProfileRoutes(r gin.IRouter, svc service.Service, private ...gin.HandlerFunc) {
	h := &profileHandler{svc: svc}
	g := r.Group("/profiles")

	g.GET("", h.list)
	g.GET("/handle/:handle", h.getByHandle)

	auth := g.Group("", private...)
	auth.GET("/:profileId", h.getByID)
	auth.POST("", h.upsert)
	auth.POST("/experience", h.addExperience)
	auth.POST("/education", h.addEducation)
	auth.DELETE("/:profileId", h.delete)
}

type profileHandler struct {
	svc service.Service
}

func (h *profileHandler) list(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "successful find all profile", "count": len(list), "profileInfo": list})
}

// getByID returns profileInfo: null for an unknown id.
func (h *profileHandler) getByID(c *gin.Context) {
	p, err := h.svc.GetByID(c.Request.Context(), c.Param("profileId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "successful find detail profile", "profileInfo": p})
}

func (h *profileHandler) getByHandle(c *gin.Context) {
	p, err := h.svc.GetByHandle(c.Request.Context(), c.Param("handle"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	if p == nil {
		_ = c.Error(apperror.NewNotFound("nopeProfile", "there is no profile"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "successful find the handle", "handleInfo": p})
}

func (h *profileHandler) upsert(c *gin.Context) {
	owner, body, ok := callerAndBody(c)
	if !ok {
		return
	}
	if res := validation.ValidateProfileInput(body); !res.IsValid {
		_ = c.Error(apperror.NewValidation(res.Errors))
		return
	}
	p, err := h.svc.Upsert(c.Request.Context(), owner, validation.ProfileInputFromMap(body).Fields())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *profileHandler) addExperience(c *gin.Context) {
	owner, body, ok := callerAndBody(c)
	if !ok {
		return
	}
	if res := validation.ValidateExperienceInput(body); !res.IsValid {
		_ = c.Error(apperror.NewValidation(res.Errors))
		return
	}
	exp, err := validation.ExperienceInputFromMap(body).Experience()
	if err != nil {
		_ = c.Error(apperror.NewInvalidInput(err.Error(), err))
		return
	}
	p, err := h.svc.AddExperience(c.Request.Context(), owner, exp)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *profileHandler) addEducation(c *gin.Context) {
	owner, body, ok := callerAndBody(c)
	if !ok {
		return
	}
	if res := validation.ValidateEducationInput(body); !res.IsValid {
		_ = c.Error(apperror.NewValidation(res.Errors))
		return
	}
	edu, err := validation.EducationInputFromMap(body).Education()
	if err != nil {
		_ = c.Error(apperror.NewInvalidInput(err.Error(), err))
		return
	}
	p, err := h.svc.AddEducation(c.Request.Context(), owner, edu)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// delete removes any profile by id; the caller is not required to own it.
func (h *profileHandler) delete(c *gin.Context) {
	id := c.Param("profileId")
	logger.Infof("profile delete requested by %s for %s", middleware.UserID(c), id)
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "successful delete the Id"})
}

// callerAndBody resolves the authenticated owner and decodes the JSON body.
func callerAndBody(c *gin.Context) (string, map[string]any, bool) {
	owner := middleware.UserID(c)
	if owner == "" {
		_ = c.Error(apperror.NewUnauthorized("authentication required"))
		return "", nil, false
	}
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		_ = c.Error(apperror.NewInvalidInput("invalid JSON body", err))
		return "", nil, false
	}
	if body == nil {
		body = map[string]any{}
	}
	return owner, body, true
}
