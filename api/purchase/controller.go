/*
Package purchase - 收银交易 API 控制器

POST /api/purchase 成功时返回 201 和扁平的交易摘要（不包在统一响应结构里），
失败时与其他接口一样返回 { success: false, error, message, code, request_id }。
存储失败只返回 "internal server error"，详细原因写入日志。
*/
package purchase

import (
	"net/http"
	"strconv"
	"time"

	"pos/api/ctxutil"
	"pos/api/response"
	purchaseapp "pos/application/purchase"

	"github.com/gin-gonic/gin"
)

// Controller 收银控制器
type Controller struct {
	purchaseService *purchaseapp.ApplicationService
}

func NewController(purchaseService *purchaseapp.ApplicationService) *Controller {
	return &Controller{
		purchaseService: purchaseService,
	}
}

// RegisterRoutes 注册 /purchase 与 /transactions 路由
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/purchase", c.RecordPurchase)

	transactions := router.Group("/transactions")
	{
		transactions.GET("", c.ListTransactions)
		transactions.GET("/:id", c.GetTransaction)
	}
}

// RecordPurchase 记录一笔交易
// POST /api/purchase
func (c *Controller) RecordPurchase(ctx *gin.Context) {
	var req purchaseapp.PurchaseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	result, err := c.purchaseService.RecordPurchase(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, result)
}

// GetTransaction 交易头及明细
// GET /api/transactions/:id
func (c *Controller) GetTransaction(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.HandleError(ctx, err, "invalid transaction id", http.StatusBadRequest)
		return
	}

	t, err := c.purchaseService.GetTransaction(ctxutil.WithRequestID(ctx), id)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, t, "transaction retrieved")
}

type listTransactionsParams struct {
	Skip         int       `form:"skip" binding:"min=0"`
	Limit        int       `form:"limit,default=100" binding:"min=1,max=1000"`
	StoreCode    string    `form:"store_code" binding:"max=5"`
	TerminalCode string    `form:"terminal_code" binding:"max=3"`
	From         time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To           time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

// ListTransactions 最新的交易在前；terminal_code 仅在指定 store_code 时生效
// GET /api/transactions?skip=0&limit=100&store_code=&terminal_code=&from=&to=
func (c *Controller) ListTransactions(ctx *gin.Context) {
	var params listTransactionsParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		response.HandleError(ctx, err, "invalid query parameters", http.StatusBadRequest)
		return
	}

	transactions, err := c.purchaseService.ListTransactions(ctxutil.WithRequestID(ctx), purchaseapp.ListTransactionsQuery{
		Offset:       params.Skip,
		Limit:        params.Limit,
		StoreCode:    params.StoreCode,
		TerminalCode: params.TerminalCode,
		From:         params.From,
		To:           params.To,
	})
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandlePaginated(ctx, transactions, response.Pagination{
		Skip:  params.Skip,
		Limit: params.Limit,
		Count: len(transactions),
	}, "transactions retrieved")
}
