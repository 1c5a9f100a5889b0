package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taxpoint/internal/csvexport"
	"taxpoint/internal/domain"
	"taxpoint/internal/service"
	"taxpoint/internal/xlsxexport"
)

// OrderHandler handles order endpoints.
type OrderHandler struct {
	orderService  service.OrderService
	importService service.ImportService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService service.OrderService, importService service.ImportService) *OrderHandler {
	return &OrderHandler{orderService: orderService, importService: importService}
}

// Create handles POST /api/v1/orders
// @Summary Create an order
// @Description Create an order and resolve its sales tax from the coordinates
// @Tags orders
// @Accept json
// @Produce json
// @Param request body CreateOrderRequest true "Order details"
// @Success 201 {object} Response{data=domain.Order} "Order created with resolved tax"
// @Failure 400 {object} ErrorResponseBody "Invalid coordinates or subtotal"
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "latitude and longitude are required")
		return
	}

	var ts time.Time
	if req.Timestamp != nil {
		ts = req.Timestamp.UTC()
	}

	order, err := h.orderService.Create(c.Request.Context(), *req.Latitude, *req.Longitude, req.Subtotal, ts)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, order)
}

// GetByID handles GET /api/v1/orders/:id
// @Summary Get order by ID
// @Description Get order details including the tax breakdown
// @Tags orders
// @Produce json
// @Param id path string true "Order ID (UUID)"
// @Success 200 {object} Response{data=domain.Order} "Order details"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Order not found"
// @Router /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid order ID")
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, order)
}

// List handles GET /api/v1/orders
// @Summary List orders
// @Description List orders with optional date, location, amount and rate filters
// @Tags orders
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Param from_date query string false "Orders at or after this RFC3339 timestamp"
// @Param to_date query string false "Orders at or before this RFC3339 timestamp"
// @Param county query string false "Filter by county name (substring match)"
// @Param min_amount query number false "Minimum subtotal"
// @Param max_amount query number false "Maximum subtotal"
// @Param min_rate query number false "Minimum composite rate"
// @Param max_rate query number false "Maximum composite rate"
// @Success 200 {object} Response{data=[]domain.Order} "Orders with pagination metadata"
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	offset, limit := paginationParams(c)
	filters := parseOrderFilters(c)

	orders, total, err := h.orderService.List(c.Request.Context(), filters, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, orders, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Import handles POST /api/v1/orders/import
// @Summary Import orders from CSV
// @Description Upload a CSV file of orders; rows are stored and resolved lazily
// @Tags orders
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file with latitude, longitude, subtotal columns"
// @Success 200 {object} Response{data=domain.ImportResult} "Import summary"
// @Failure 400 {object} ErrorResponseBody "Missing file or required columns"
// @Router /orders/import [post]
func (h *OrderHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "multipart field 'file' is required")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FILE", "could not read uploaded file")
		return
	}
	defer f.Close()

	result, err := h.importService.ImportCSV(c.Request.Context(), fileHeader.Filename, f)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// ExportCSV handles GET /api/v1/orders/export/csv
// @Summary Export orders as CSV
// @Description Download all matching orders, tax resolved, as a CSV file
// @Tags orders
// @Produce text/csv
// @Success 200 {file} file "CSV file"
// @Router /orders/export/csv [get]
func (h *OrderHandler) ExportCSV(c *gin.Context) {
	orders, err := h.orderService.ListAll(c.Request.Context(), parseOrderFilters(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	buf.Write(csvexport.BOM)
	w := csvexport.NewWriter(&buf)
	if err := w.WriteHeader(); err == nil {
		err = w.WriteOrders(orders)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+csvexport.BuildFilename("csv")+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportXLSX handles GET /api/v1/orders/export/xlsx
// @Summary Export orders as XLSX
// @Description Download all matching orders, tax resolved, as an Excel workbook
// @Tags orders
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file "XLSX file"
// @Router /orders/export/xlsx [get]
func (h *OrderHandler) ExportXLSX(c *gin.Context) {
	orders, err := h.orderService.ListAll(c.Request.Context(), parseOrderFilters(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := xlsxexport.Write(&buf, orders); err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+csvexport.BuildFilename("xlsx")+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func paginationParams(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return offset, limit
}

func parseOrderFilters(c *gin.Context) *domain.OrderFilters {
	f := &domain.OrderFilters{}
	any := false

	if v := c.Query("from_date"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.FromDate = &t
			any = true
		}
	}
	if v := c.Query("to_date"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.ToDate = &t
			any = true
		}
	}
	if v := c.Query("county"); v != "" {
		f.County = &v
		any = true
	}
	floatFilter := func(name string, dst **float64) {
		if v := c.Query(name); v != "" {
			if x, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = &x
				any = true
			}
		}
	}
	floatFilter("min_amount", &f.MinAmount)
	floatFilter("max_amount", &f.MaxAmount)
	floatFilter("min_rate", &f.MinRate)
	floatFilter("max_rate", &f.MaxRate)
	floatFilter("min_lat", &f.MinLat)
	floatFilter("max_lat", &f.MaxLat)
	floatFilter("min_lon", &f.MinLon)
	floatFilter("max_lon", &f.MaxLon)

	if !any {
		return nil
	}
	return f
}
