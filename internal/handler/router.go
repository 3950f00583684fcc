package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sodachi-biyori/sodachi-api/internal/middleware"
	"github.com/sodachi-biyori/sodachi-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth      *AuthHandler
	Ads       *AdHandler
	Sponsors  *SponsorHandler
	Tracking  *TrackingHandler
	Stamps    *StampHandler
	Favorites *FavoriteHandler
	Videos    *VideoHandler
	Media     *MediaHandler
	Me        *GuardianMeHandler

	AdminSchools   *AdminSchoolHandler
	AdminGuardians *AdminGuardianHandler
	AdminVideos    *AdminVideoHandler
	AdminSponsors  *AdminSponsorHandler
	AdminAds       *AdminAdHandler
	AdminFaceTags  *AdminFaceTagHandler
	AdminAnalytics *AdminAnalyticsHandler
}

// RegisterRoutes mounts the full API surface under the given prefix.
func RegisterRoutes(r *gin.Engine, prefix string, auth *service.AuthService, h Handlers) {
	api := r.Group(prefix)

	// Public endpoints: school-scoped ad and sponsor delivery, telemetry
	// ingestion, logins and the image proxy.
	api.POST("/auth/admin/login", h.Auth.AdminLogin)
	api.POST("/auth/guardian/login", h.Auth.GuardianLogin)
	api.POST("/auth/class/login", h.Auth.ClassLogin)

	api.GET("/schools/:slug/ads/preroll", h.Ads.Preroll)
	api.GET("/schools/:slug/ads/midroll", h.Ads.Midrolls)
	api.GET("/schools/:slug/sponsors", h.Sponsors.Banners)
	api.POST("/sponsors/:id/track", h.Sponsors.Track)
	api.POST("/analytics/events", h.Tracking.RecordEvent)
	api.GET("/media/images/*key", h.Media.Image)

	// Views are recorded for anonymous playback too; a session, when
	// present, attaches the guardian.
	api.POST("/videos/:id/view", middleware.OptionalJWT(auth), h.Tracking.RecordView)

	// Session endpoints: the rest narrows by role below.
	session := api.Group("")
	session.Use(middleware.JWT(auth))
	session.GET("/videos", h.Videos.List)
	session.GET("/videos/:id", h.Videos.Get)

	guardian := session.Group("")
	guardian.Use(middleware.RequireGuardian())
	guardian.POST("/videos/:id/reactions", h.Tracking.RecordReaction)
	guardian.GET("/me", h.Me.Profile)
	guardian.GET("/me/children", h.Me.Children)
	guardian.POST("/me/stamp", h.Stamps.Record)
	guardian.GET("/me/stamp-card", h.Stamps.Card)
	guardian.GET("/favorites", h.Favorites.List)
	guardian.POST("/favorites", h.Favorites.Toggle)
	guardian.POST("/me/device-tokens", h.Me.RegisterDevice)
	guardian.DELETE("/me/device-tokens/:token", h.Me.UnregisterDevice)

	admin := session.Group("/admin")
	admin.Use(middleware.RequireAdmin())

	admin.GET("/schools", h.AdminSchools.List)
	admin.POST("/schools", h.AdminSchools.Create)
	admin.GET("/schools/:id", h.AdminSchools.Get)
	admin.PUT("/schools/:id", h.AdminSchools.Update)
	admin.DELETE("/schools/:id", h.AdminSchools.Delete)
	admin.GET("/schools/:id/classes", h.AdminSchools.ListClasses)
	admin.POST("/schools/:id/classes", h.AdminSchools.CreateClass)
	admin.POST("/schools/:id/analyze", h.AdminVideos.AnalyzeSchool)
	admin.PUT("/classes/:classId", h.AdminSchools.UpdateClass)
	admin.DELETE("/classes/:classId", h.AdminSchools.DeleteClass)

	admin.GET("/guardians", h.AdminGuardians.List)
	admin.POST("/guardians", h.AdminGuardians.Create)
	admin.GET("/guardians/:id", h.AdminGuardians.Get)
	admin.PUT("/guardians/:id", h.AdminGuardians.Update)
	admin.DELETE("/guardians/:id", h.AdminGuardians.Delete)
	admin.GET("/guardians/:id/children", h.AdminGuardians.ListChildren)
	admin.POST("/guardians/:id/children", h.AdminGuardians.AddChild)
	admin.DELETE("/children/:childId", h.AdminGuardians.RemoveChild)

	admin.GET("/videos", h.AdminVideos.List)
	admin.POST("/videos", h.AdminVideos.Create)
	admin.GET("/videos/:id", h.AdminVideos.Get)
	admin.PUT("/videos/:id", h.AdminVideos.Update)
	admin.DELETE("/videos/:id", h.AdminVideos.Delete)
	admin.POST("/videos/:id/publish", h.AdminVideos.Publish)
	admin.POST("/videos/:id/analyze", h.AdminVideos.Analyze)
	admin.POST("/uploads/presign", h.AdminVideos.PresignUpload)

	admin.GET("/sponsors", h.AdminSponsors.List)
	admin.POST("/sponsors", h.AdminSponsors.Create)
	admin.GET("/sponsors/:id", h.AdminSponsors.Get)
	admin.PUT("/sponsors/:id", h.AdminSponsors.Update)
	admin.DELETE("/sponsors/:id", h.AdminSponsors.Delete)

	admin.GET("/preroll-ads", h.AdminAds.ListPrerolls)
	admin.POST("/preroll-ads", h.AdminAds.CreatePreroll)
	admin.PUT("/preroll-ads/:id", h.AdminAds.UpdatePreroll)
	admin.DELETE("/preroll-ads/:id", h.AdminAds.DeletePreroll)
	admin.GET("/midroll-ads", h.AdminAds.ListMidrolls)
	admin.POST("/midroll-ads", h.AdminAds.CreateMidroll)
	admin.PUT("/midroll-ads/:id", h.AdminAds.UpdateMidroll)
	admin.DELETE("/midroll-ads/:id", h.AdminAds.DeleteMidroll)

	admin.GET("/face-tags", h.AdminFaceTags.ListPending)
	admin.POST("/face-tags/:id/review", h.AdminFaceTags.Review)

	admin.GET("/analytics/summary", h.AdminAnalytics.Summary)
	admin.GET("/analytics/sponsors", h.AdminAnalytics.SponsorPerformance)
	admin.GET("/analytics/sponsors/export", h.AdminAnalytics.SponsorReport)
}
