package router

import (
	"github.com/docfiling/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers are the HTTP handlers of the filing API
type Handlers struct {
	Auth      *handler.AuthHandler
	System    *handler.SystemHandler
	Dashboard *handler.DashboardHandler
	Region    *handler.RegionHandler
	Folder    *handler.FolderHandler
	Ajax      *handler.AjaxHandler
	Audit     *handler.AuditHandler
	// Activity is optional; without it the live feed is not served
	Activity *handler.ActivityHandler
	// Submissions guards region and folder creation against repeated posts
	Submissions gin.HandlerFunc
}

// FilingRoutes builds the route groups of the filing API.
// authMiddleware runs on the auth group only, ahead of its handlers.
func FilingRoutes(h Handlers, authMiddleware ...gin.HandlerFunc) []RouteRegistrar {
	authGroup := NewDomainGroup("auth", "/auth").Use(authMiddleware...)
	authGroup.
		POST("/signup", h.Auth.Signup).
		POST("/login", h.Auth.Login).
		POST("/refresh", h.Auth.RefreshToken).
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.GetCurrentUser)

	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo)

	dashboard := NewDomainGroup("dashboard", "/dashboard").
		GET("", h.Dashboard.Get)

	var submissions []gin.HandlerFunc
	if h.Submissions != nil {
		submissions = append(submissions, h.Submissions)
	}

	regions := NewDomainGroup("regions", "/regions").Use(submissions...).
		GET("", h.Region.List).
		POST("", h.Region.Create).
		PUT("/:id", h.Region.Rename).
		DELETE("/:id", h.Region.Delete)

	folders := NewDomainGroup("folders", "/folders").Use(submissions...).
		POST("", h.Folder.Create).
		GET("/:id", h.Folder.Get).
		PUT("/:id", h.Folder.Update).
		DELETE("/:id", h.Folder.Delete)
	folders.Group("documents", "/:id/documents").
		PUT("/:docId/file", h.Folder.UploadDocumentFile).
		GET("/:docId/file", h.Folder.DocumentFileURL)

	ajax := NewDomainGroup("ajax", "/ajax").
		Any("/document-types/add", h.Ajax.AddDocumentType).
		Any("/document-types/delete", h.Ajax.DeleteDocumentType).
		Any("/print-status", h.Ajax.UpdatePrintStatus).
		Any("/bulk-door", h.Ajax.BulkUpdateDoor)

	audit := NewDomainGroup("audit", "/audit-logs").
		GET("", h.Audit.Recent)

	groups := []RouteRegistrar{authGroup, system, dashboard, regions, folders, ajax, audit}
	if h.Activity != nil {
		groups = append(groups, NewDomainGroup("activity", "/ws").GET("/activity", h.Activity.Stream))
	}
	return groups
}
