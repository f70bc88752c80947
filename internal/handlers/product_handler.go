package handlers

import (
	"mime/multipart"

	"storefront_backend/internal/services"
	"storefront_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	*BaseHandler
	productService services.ProductService
}

func NewProductHandler(base *BaseHandler, productService services.ProductService) *ProductHandler {
	return &ProductHandler{
		BaseHandler:    base,
		productService: productService,
	}
}

func (h *ProductHandler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.GET("/products", h.ListProducts)
	public.GET("/product/:id", h.GetProduct)

	admin.GET("/products", h.AdminListProducts)
	admin.POST("/product/new", h.CreateProduct)
	admin.PUT("/product/:id", h.UpdateProduct)
	admin.DELETE("/product/:id", h.DeleteProduct)
}

// productImagesFrom принимает поле "images" и старое имя "product".
func productImagesFrom(c *gin.Context) []*multipart.FileHeader {
	return FormFiles(c, "images", "product")
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	var query dto.ProductQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}
	NormalizePage(&query.Page, &query.PageSize)

	products, total, err := h.productService.ListProducts(c.Request.Context(), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"products":              products,
		"productsCount":         total,
		"resultPerPage":         query.PageSize,
		"filteredProductsCount": len(products),
		"page":                  query.Page,
	})
}

func (h *ProductHandler) AdminListProducts(c *gin.Context) {
	products, _, err := h.productService.ListProducts(c.Request.Context(), &dto.ProductQuery{})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"products": products})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"product": product})
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	current, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.CreateProductRequest
	if !h.BindAndValidate(c, &req) {
		return
	}
	req.Images = productImagesFrom(c)

	product, err := h.productService.CreateProduct(c.Request.Context(), current.ID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondCreated(c, gin.H{"product": product})
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req dto.UpdateProductRequest
	if !h.BindAndValidate(c, &req) {
		return
	}
	req.Images = productImagesFrom(c)

	product, err := h.productService.UpdateProduct(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"product": product})
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	product, err := h.productService.DeleteProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Product deleted successfully", "product": product})
}
