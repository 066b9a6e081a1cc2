package catalog

// ProductResponse 商品返回模型。字段名与购物车条目一致，终端可直接放入购买请求。
type ProductResponse struct {
	ProductID int64  `json:"product_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
}

// CreateProductRequest 新增商品入参
type CreateProductRequest struct {
	Code  string `json:"code" binding:"required,max=25"`
	Name  string `json:"name" binding:"required,max=50"`
	Price *int64 `json:"price" binding:"required,min=0"`
}

// UpdateProductRequest 修改商品入参，code 不可修改
type UpdateProductRequest struct {
	Name  string `json:"name" binding:"required,max=50"`
	Price *int64 `json:"price" binding:"required,min=0"`
}

// ListProductsQuery 商品列表查询条件，零值表示不过滤
type ListProductsQuery struct {
	Offset   int
	Limit    int
	Name     string
	MinPrice int64
	MaxPrice int64
}

func (q ListProductsQuery) filtered() bool {
	return q.Name != "" || q.MinPrice > 0 || q.MaxPrice > 0
}
