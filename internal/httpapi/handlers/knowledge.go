package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/insure-assist/insure-assist/internal/common"
	"github.com/insure-assist/insure-assist/internal/rag"
)

// UploadData ingests a CSV of knowledge documents into the retrieval
// engine. Auth required.
func (h *Handler) UploadData(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10040, "file is required")
		return
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".csv") {
		common.Fail(c, http.StatusBadRequest, 10041, "only CSV files are supported")
		return
	}

	handle, err := file.Open()
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10042, "could not read uploaded file")
		return
	}
	defer handle.Close()

	documents, err := rag.ParseCSVDocuments(handle, filepath.Base(file.Filename))
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10043, "could not parse CSV")
		return
	}
	if len(documents) == 0 {
		common.Fail(c, http.StatusBadRequest, 10044, "CSV contains no usable rows")
		return
	}

	indexed := h.Retriever.Upsert(c.Request.Context(), documents)
	common.OK(c, gin.H{
		"file":              file.Filename,
		"documents_indexed": indexed,
	})
}
