/*
Package response - API 层统一响应处理

设计原则:
1. 错误响应不暴露内部细节（堆栈、驱动错误消息等）
2. 所有响应携带 RequestID 用于日志追踪
3. 内部错误统一返回 "internal server error"，真实错误只记录日志

响应格式:

	成功: { success: true, data: {...}, message: "...", code: 200, request_id: "..." }
	失败: { success: false, error: "ERROR_CODE", message: "用户可见消息", code: 4xx/5xx, request_id: "..." }

收银接口 POST /api/purchase 例外：成功时直接返回扁平的交易摘要，终端按该结构解析。
*/
package response

// RequestIDKey 是 gin context 中保存请求 ID 的键。
const RequestIDKey = "request_id"

// Response 是统一响应结构。
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"` // 错误码，不是错误详情
	Code      int         `json:"code"`            // HTTP 状态码
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

// PaginatedResponse 是分页响应结构。
type PaginatedResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
	Message    string      `json:"message"`
	Code       int         `json:"code"`
	RequestID  string      `json:"request_id,omitempty"`
}

// Pagination skip/limit 风格的分页信息
type Pagination struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
	Count int `json:"count"`
}
