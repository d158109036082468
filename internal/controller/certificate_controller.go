package controller

import (
	"sahayak_backend/internal/service"
	"sahayak_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
}

func NewCertificateController(certificateService *service.CertificateService) *CertificateController {
	return &CertificateController{CertificateService: certificateService}
}

// @Summary Issue a certificate
// @Description Requires a graded latest result of the student in the course
// @Tags certificates
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "course id"
// @Param studentId path string true "student id"
// @Success 201 {object} util.Response{data=model.Certificate}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teacher/courses/{id}/students/{studentId}/certificate [post]
func (c *CertificateController) Issue(ctx *gin.Context) {
	cert, err := c.CertificateService.Issue(ctx.Request.Context(), util.GetSessionFromContext(ctx), ctx.Param("id"), ctx.Param("studentId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, cert)
}
