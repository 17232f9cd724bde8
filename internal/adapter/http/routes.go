package http

import "github.com/labstack/echo/v4"

// Register mounts every route on e.
func Register(e *echo.Echo, h *Handler, subs *SubmissionHandler, md *MasterDataHandler) {
	e.GET("/health", h.Health)

	e.POST("/submissions", subs.Create)
	e.GET("/submissions", subs.List)
	e.GET("/submissions/export", subs.Export)
	e.GET("/submissions/:id", subs.Get)
	e.GET("/submissions/:id/history", subs.History)
	e.PUT("/submissions/:id", subs.Resubmit)
	e.PUT("/submissions/:id/validate", subs.Validate)
	e.PUT("/submissions/:id/admin-remark", subs.AdminRemark)

	e.GET("/work-orders", md.ListWorkOrders)
	e.POST("/work-orders", md.CreateWorkOrder)
	e.GET("/line-items", md.ListLineItems)
	e.POST("/line-items", md.CreateLineItem)
	e.PUT("/line-items/:id/rate", md.UpdateLineItemRate)
}
