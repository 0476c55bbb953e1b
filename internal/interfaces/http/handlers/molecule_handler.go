package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/smiles-parser/internal/application/molecule"
	"github.com/turtacn/smiles-parser/pkg/errors"
	moltypes "github.com/turtacn/smiles-parser/pkg/types/molecule"
)

// MoleculeHandler serves the SMILES parse endpoints.
type MoleculeHandler struct {
	service      molecule.Service
	maxBatchSize int
}

// NewMoleculeHandler creates a handler.  maxBatchSize ≤ 0 leaves the limit to
// the service.
func NewMoleculeHandler(service molecule.Service, maxBatchSize int) *MoleculeHandler {
	return &MoleculeHandler{service: service, maxBatchSize: maxBatchSize}
}

// Parse handles POST /api/v1/smiles/parse.
func (h *MoleculeHandler) Parse(c *gin.Context) {
	var req moltypes.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err)
		return
	}
	h.parse(c, req.SMILES)
}

// ParseQuery handles GET /api/v1/smiles/parse?smiles=...
func (h *MoleculeHandler) ParseQuery(c *gin.Context) {
	h.parse(c, c.Query("smiles"))
}

func (h *MoleculeHandler) parse(c *gin.Context, input string) {
	dto, err := h.service.Parse(c.Request.Context(), input)
	if err != nil {
		writeAppError(c, err)
		return
	}
	writeSuccess(c, http.StatusOK, dto)
}

// Batch handles POST /api/v1/smiles/batch.  Invalid items do not fail the
// request; each carries its own error.
func (h *MoleculeHandler) Batch(c *gin.Context) {
	var req moltypes.BatchParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err)
		return
	}
	if err := req.Validate(h.maxBatchSize); err != nil {
		code := errors.ErrCodeBadRequest
		if len(req.Items) > 0 {
			code = errors.ErrCodeBatchTooLarge
		}
		writeAppError(c, errors.New(code, err.Error()))
		return
	}

	resp, err := h.service.ParseBatch(c.Request.Context(), req.Items)
	if err != nil {
		writeAppError(c, err)
		return
	}
	writeSuccess(c, http.StatusOK, resp)
}

//Personal.AI order the ending
