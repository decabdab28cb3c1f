// Package web exposes the catalog and ordering workflow as a JSON
// HTTP API.
package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/behindthegarage/gfs-ordering/pkg/gfs/catalog"
	"github.com/behindthegarage/gfs-ordering/pkg/gfs/export"
)

// Server holds the handler dependencies.
type Server struct {
	catalog  catalog.Catalog
	exporter *export.Service
	logger   *slog.Logger
}

// NewServer wires a server; a nil logger falls back to slog.Default.
func NewServer(cat catalog.Catalog, exporter *export.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{catalog: cat, exporter: exporter, logger: logger}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(s.logger))

	r.GET("/products", s.searchProducts)
	r.GET("/products/:id", s.getProduct)
	r.GET("/categories", s.listCategories)
	r.GET("/frequent", s.frequentProducts)

	r.GET("/orders", s.listOrders)
	r.POST("/orders", s.createOrder)
	r.GET("/orders/:id", s.getOrder)
	r.POST("/orders/:id/items", s.addOrderItem)
	r.PUT("/orders/:id/items/:itemID", s.updateOrderItem)
	r.DELETE("/orders/:id/items/:itemID", s.removeOrderItem)
	r.POST("/orders/:id/duplicate", s.duplicateOrder)
	r.POST("/orders/:id/status", s.updateOrderStatus)
	r.GET("/orders/:id/export", s.exportOrder)

	r.GET("/programs", s.listPrograms)

	return r
}

func errJSON(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func (s *Server) searchProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	products, err := s.catalog.SearchProducts(c.Request.Context(),
		c.Query("q"), c.Query("category"), limit)
	if err != nil {
		errJSON(c, http.StatusInternalServerError, err)
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	c.JSON(http.StatusOK, products)
}

func (s *Server) getProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, found, err := s.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		errJSON(c, http.StatusInternalServerError, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) listCategories(c *gin.Context) {
	summaries, err := s.catalog.ProductsByCategory(c.Request.Context())
	if err != nil {
		errJSON(c, http.StatusInternalServerError, err)
		return
	}
	if summaries == nil {
		summaries = []catalog.CategorySummary{}
	}
	c.JSON(http.StatusOK, summaries)
}

func (s *Server) frequentProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	products, err := s.catalog.FrequentlyOrdered(c.Request.Context(), limit)
	if err != nil {
		errJSON(c, http.StatusInternalServerError, err)
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	c.JSON(http.StatusOK, products)
}

func (s *Server) listOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	orders, err := s.catalog.ListOrders(c.Request.Context(), c.Query("status"), limit)
	if err != nil {
		errJSON(c, http.StatusInternalServerError, err)
		return
	}
	if orders == nil {
		orders = []catalog.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

type createOrderRequest struct {
	Name         string `json:"name" binding:"required"`
	DeliveryDate string `json:"delivery_date"`
	Notes        string `json:"notes"`
}

func (s *Server) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, err)
		return
	}
	id, err := s.catalog.CreateOrder(c.Request.Context(), req.Name, req.DeliveryDate, req.Notes)
	if err != nil {
		errJSON(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order_id": id})
}

func (s *Server) getOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, found, err := s.catalog.GetOrder(c.Request.Context(), id)
	if err != nil {
		errJSON(c, http.StatusInternalServerError, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

type addItemRequest struct {
	ProductID int64    `json:"product_id" binding:"required"`
	Quantity  int      `json:"quantity"`
	Programs  []string `json:"programs"`
	Notes     string   `json:"notes"`
}

func (s *Server) addOrderItem(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, err)
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	itemID, err := s.catalog.AddOrderItem(c.Request.Context(),
		orderID, req.ProductID, req.Quantity, req.Programs, req.Notes)
	if err != nil {
		errJSON(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item_id": itemID})
}

type updateItemRequest struct {
	Quantity *int     `json:"quantity"`
	Programs []string `json:"programs"`
	Notes    *string  `json:"notes"`
}

func (s *Server) updateOrderItem(c *gin.Context) {
	if _, ok := pathID(c, "id"); !ok {
		return
	}
	itemID, ok := pathID(c, "itemID")
	if !ok {
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, err)
		return
	}
	if err := s.catalog.UpdateOrderItem(c.Request.Context(),
		itemID, req.Quantity, req.Programs, req.Notes); err != nil {
		errJSON(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) removeOrderItem(c *gin.Context) {
	if _, ok := pathID(c, "id"); !ok {
		return
	}
	itemID, ok := pathID(c, "itemID")
	if !ok {
		return
	}
	if err := s.catalog.RemoveOrderItem(c.Request.Context(), itemID); err != nil {
		errJSON(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type duplicateOrderRequest struct {
	Name string `json:"name"`
}

func (s *Server) duplicateOrder(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req duplicateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		errJSON(c, http.StatusBadRequest, err)
		return
	}
	newID, err := s.catalog.DuplicateOrder(c.Request.Context(), orderID, req.Name)
	if err != nil {
		errJSON(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order_id": newID})
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, err)
		return
	}
	switch req.Status {
	case catalog.StatusDraft, catalog.StatusSubmitted, catalog.StatusDelivered:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + req.Status})
		return
	}
	if err := s.catalog.UpdateOrderStatus(c.Request.Context(), orderID, req.Status); err != nil {
		errJSON(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) exportOrder(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	data, err := s.exporter.ExportOrderXLSX(c.Request.Context(), orderID)
	if err != nil {
		errJSON(c, http.StatusInternalServerError, err)
		return
	}
	name := "order-" + strconv.FormatInt(orderID, 10) + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (s *Server) listPrograms(c *gin.Context) {
	programs, err := s.catalog.ListPrograms(c.Request.Context(), true)
	if err != nil {
		errJSON(c, http.StatusInternalServerError, err)
		return
	}
	if programs == nil {
		programs = []catalog.Program{}
	}
	c.JSON(http.StatusOK, programs)
}
