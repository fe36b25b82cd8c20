package handler

import (
	"fmt"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/edunexus-app/backend/pkg/apperror"
	"github.com/edunexus-app/backend/pkg/response"
	"github.com/edunexus-app/backend/pkg/validator"
)

// bindingError turns gin binding failures into a 400 with readable
// field messages.
func bindingError(c *gin.Context, err error) {
	response.Error(c, fmt.Errorf("%w: %s", apperror.ErrBadRequest, validator.FormatValidationError(err)))
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, fmt.Errorf("%w: invalid %s", apperror.ErrBadRequest, name))
		return uuid.Nil, false
	}
	return id, true
}

// formFiles returns the named file set from a multipart form, or nil
// when the form or field is absent.
func formFiles(form *multipart.Form, field string) []*multipart.FileHeader {
	if form == nil {
		return nil
	}
	return form.File[field]
}
