package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoice-generator/internal/application/service"
	"github.com/sangkips/invoice-generator/internal/domain/billing"
	"github.com/sangkips/invoice-generator/internal/presentation/http/dto/request"
	"github.com/sangkips/invoice-generator/internal/presentation/http/dto/response"
)

// DraftHandler handles invoice entry: drafts, their items and finalization
type DraftHandler struct {
	draftService *service.DraftService
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(draftService *service.DraftService) *DraftHandler {
	useJSONFieldNames()
	return &DraftHandler{draftService: draftService}
}

func toDraftInput(req *request.DraftRequest) *service.DraftDetailsInput {
	return &service.DraftDetailsInput{
		CustomerName:    req.CustomerName,
		CustomerAddress: req.CustomerAddress,
		Date:            req.Date,
		LogoPath:        req.LogoPath,
		SignaturePath:   req.SignaturePath,
	}
}

// Create handles starting a draft
// @Summary Create Draft
// @Tags drafts
// @Accept json
// @Produce json
// @Param request body request.DraftRequest false "Customer, date and asset paths"
// @Success 201 {object} response.APIResponse
// @Router /drafts [post]
func (h *DraftHandler) Create(c *gin.Context) {
	var req request.DraftRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	draft, err := h.draftService.CreateDraft(toDraftInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Draft created successfully", draft)
}

// Get handles fetching a draft with its running totals
// @Summary Get Draft
// @Tags drafts
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} response.APIResponse
// @Router /drafts/{id} [get]
func (h *DraftHandler) Get(c *gin.Context) {
	id, ok := parseDraftID(c)
	if !ok {
		return
	}

	draft, err := h.draftService.GetDraft(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Draft retrieved successfully", draft)
}

// Update handles changing the customer, date or asset paths
// @Summary Update Draft
// @Tags drafts
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param request body request.DraftRequest true "Fields to change"
// @Success 200 {object} response.APIResponse
// @Router /drafts/{id} [put]
func (h *DraftHandler) Update(c *gin.Context) {
	id, ok := parseDraftID(c)
	if !ok {
		return
	}

	var req request.DraftRequest
	if !bindJSON(c, &req) {
		return
	}

	draft, err := h.draftService.UpdateDraft(id, toDraftInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Draft updated successfully", draft)
}

// AddItem handles adding a line item
// @Summary Add Draft Item
// @Tags drafts
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param request body request.AddItemRequest true "Line item"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /drafts/{id}/items [post]
func (h *DraftHandler) AddItem(c *gin.Context) {
	id, ok := parseDraftID(c)
	if !ok {
		return
	}

	var req request.AddItemRequest
	if !bindJSON(c, &req) {
		return
	}

	draft, err := h.draftService.AddItem(id, billing.ItemInput{
		Description:     req.Description,
		Quantity:        req.Quantity,
		UnitRate:        req.UnitRate,
		TaxPercent:      req.TaxPercent,
		DiscountPercent: req.DiscountPercent,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Item added successfully", draft)
}

// RemoveItem handles removing a line item by position
// @Summary Remove Draft Item
// @Tags drafts
// @Produce json
// @Param id path string true "Draft ID"
// @Param index path int true "Item position, from 0"
// @Success 200 {object} response.APIResponse
// @Router /drafts/{id}/items/{index} [delete]
func (h *DraftHandler) RemoveItem(c *gin.Context) {
	id, ok := parseDraftID(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "Invalid item index")
		return
	}

	draft, err := h.draftService.RemoveItem(id, index)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed successfully", draft)
}

// Discard handles dropping a draft without saving
// @Summary Discard Draft
// @Tags drafts
// @Param id path string true "Draft ID"
// @Success 204
// @Router /drafts/{id} [delete]
func (h *DraftHandler) Discard(c *gin.Context) {
	id, ok := parseDraftID(c)
	if !ok {
		return
	}

	if err := h.draftService.DiscardDraft(id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Finalize handles saving a draft as a numbered invoice with its document
// @Summary Finalize Draft
// @Tags drafts
// @Produce json
// @Param id path string true "Draft ID"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /drafts/{id}/finalize [post]
func (h *DraftHandler) Finalize(c *gin.Context) {
	id, ok := parseDraftID(c)
	if !ok {
		return
	}

	result, err := h.draftService.FinalizeDraft(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		response.ErrorWithData(c, err, result)
		return
	}

	response.Created(c, "Invoice "+result.InvoiceNumber+" saved", result)
}
