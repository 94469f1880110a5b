package handlers

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gravadigital/fring-api/internal/response"
	"github.com/gravadigital/fring-api/internal/storage/postgres"
	"github.com/gravadigital/fring-api/internal/validation"
)

// bindJSON decodes the request body into req and answers 400 on failure
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequestError(c, "invalid request payload: "+err.Error())
		return false
	}
	return true
}

// pathID parses the UUID path parameter name and answers 400 on failure
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := validation.ParseUUID(c.Param(name), name)
	if err != nil {
		response.FromError(c, err)
		return uuid.Nil, false
	}
	return id, true
}

func pagination(c *gin.Context) postgres.PaginationParams {
	var params postgres.PaginationParams
	_ = c.ShouldBindQuery(&params)
	return params.Normalize()
}

// readUpload reads the multipart file field, rejecting files over maxSize.
// The content type falls back to sniffing when the part does not declare one.
func readUpload(c *gin.Context, field string, maxSize int64) ([]byte, string, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+1<<20)

	file, header, err := c.Request.FormFile(field)
	if err != nil {
		response.BadRequestError(c, "no file provided in field "+field)
		return nil, "", false
	}
	defer file.Close()

	if header.Size > maxSize {
		response.BadRequestError(c, "file exceeds the maximum upload size")
		return nil, "", false
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(file, maxSize+1)); err != nil {
		response.BadRequestError(c, "failed to read uploaded file")
		return nil, "", false
	}
	if int64(buf.Len()) > maxSize {
		response.BadRequestError(c, "file exceeds the maximum upload size")
		return nil, "", false
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(buf.Bytes())
	}
	contentType, _, _ = strings.Cut(contentType, ";")
	return buf.Bytes(), strings.TrimSpace(contentType), true
}
