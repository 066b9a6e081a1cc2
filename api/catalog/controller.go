/*
Package catalog - 商品目录 API 控制器

参数绑定错误使用 response.HandleError 直接返回 400；
业务错误交给 response.HandleAppError 映射状态码。
*/
package catalog

import (
	"net/http"
	"strconv"

	"pos/api/ctxutil"
	"pos/api/response"
	catalogapp "pos/application/catalog"

	"github.com/gin-gonic/gin"
)

// Controller 商品控制器
type Controller struct {
	catalogService *catalogapp.ApplicationService
}

func NewController(catalogService *catalogapp.ApplicationService) *Controller {
	return &Controller{
		catalogService: catalogService,
	}
}

// RegisterRoutes 注册 /products 路由
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/products")
	{
		products.GET("", c.ListProducts)
		products.GET("/code/:code", c.GetProductByCode)
		products.GET("/:id", c.GetProduct)
		products.POST("", c.CreateProduct)
		products.PUT("/:id", c.UpdateProduct)
		products.DELETE("/:id", c.DeleteProduct)
	}
}

type listProductsParams struct {
	Skip     int    `form:"skip" binding:"min=0"`
	Limit    int    `form:"limit,default=100" binding:"min=1,max=1000"`
	Name     string `form:"name" binding:"max=50"`
	MinPrice int64  `form:"min_price" binding:"min=0"`
	MaxPrice int64  `form:"max_price" binding:"min=0"`
}

// ListProducts GET /api/products?skip=0&limit=100&name=&min_price=&max_price=
func (c *Controller) ListProducts(ctx *gin.Context) {
	var params listProductsParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		response.HandleError(ctx, err, "invalid query parameters", http.StatusBadRequest)
		return
	}

	products, err := c.catalogService.ListProducts(ctxutil.WithRequestID(ctx), catalogapp.ListProductsQuery{
		Offset:   params.Skip,
		Limit:    params.Limit,
		Name:     params.Name,
		MinPrice: params.MinPrice,
		MaxPrice: params.MaxPrice,
	})
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandlePaginated(ctx, products, response.Pagination{
		Skip:  params.Skip,
		Limit: params.Limit,
		Count: len(products),
	}, "products retrieved")
}

// GetProductByCode 扫码查询
// GET /api/products/code/:code
func (c *Controller) GetProductByCode(ctx *gin.Context) {
	p, err := c.catalogService.GetProductByCode(ctxutil.WithRequestID(ctx), ctx.Param("code"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, p, "product retrieved")
}

// GetProduct GET /api/products/:id
func (c *Controller) GetProduct(ctx *gin.Context) {
	id, ok := productID(ctx)
	if !ok {
		return
	}
	p, err := c.catalogService.GetProduct(ctxutil.WithRequestID(ctx), id)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, p, "product retrieved")
}

// CreateProduct POST /api/products
func (c *Controller) CreateProduct(ctx *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	p, err := c.catalogService.CreateProduct(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, p, "product created")
}

// UpdateProduct PUT /api/products/:id
func (c *Controller) UpdateProduct(ctx *gin.Context) {
	id, ok := productID(ctx)
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	p, err := c.catalogService.UpdateProduct(ctxutil.WithRequestID(ctx), id, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, p, "product updated")
}

// DeleteProduct 已被交易引用的商品返回 409
// DELETE /api/products/:id
func (c *Controller) DeleteProduct(ctx *gin.Context) {
	id, ok := productID(ctx)
	if !ok {
		return
	}
	if err := c.catalogService.DeleteProduct(ctxutil.WithRequestID(ctx), id); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleNoContent(ctx)
}

func productID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.HandleError(ctx, err, "invalid product id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
