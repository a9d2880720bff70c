package handler

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoice-generator/internal/application/service"
	"github.com/sangkips/invoice-generator/internal/presentation/http/dto/response"
	"github.com/sangkips/invoice-generator/pkg/pagination"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InvoiceHandler handles saved invoice lookups, reprints and the register export
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// NextNumber handles previewing the next invoice number
// @Summary Next Invoice Number
// @Tags invoices
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /invoices/next-number [get]
func (h *InvoiceHandler) NextNumber(c *gin.Context) {
	number, err := h.invoiceService.NextInvoiceNumber(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Next invoice number retrieved successfully", gin.H{"invoice_number": number})
}

// List handles listing invoice summaries, most recent first
// @Summary List Invoices
// @Tags invoices
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Success 200 {object} response.APIResponse
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	params := pagination.DefaultPagination()
	if p := c.Query("page"); p != "" {
		if parsed, err := parsePositiveInt(p); err == nil {
			params.Page = parsed
		}
	}
	if pp := c.Query("per_page"); pp != "" {
		if parsed, err := parsePositiveInt(pp); err == nil {
			params.PerPage = parsed
		}
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Get handles fetching an invoice with its items
// @Summary Get Invoice
// @Tags invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseInvoiceID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Render handles writing the document of a saved invoice again
// @Summary Reprint Invoice
// @Tags invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id}/render [post]
func (h *InvoiceHandler) Render(c *gin.Context) {
	id, ok := parseInvoiceID(c)
	if !ok {
		return
	}

	path, err := h.invoiceService.Reprint(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice document written", gin.H{"output_path": path})
}

// Export handles downloading the invoice register as a spreadsheet
// @Summary Export Invoice Register
// @Tags invoices
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /invoices/export [get]
func (h *InvoiceHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.invoiceService.ExportRegister(c.Request.Context(), &buf); err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("invoices-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(200, xlsxContentType, buf.Bytes())
}
