package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vantahq/pulseboard/internal/db"
	"github.com/vantahq/pulseboard/internal/models"
	"github.com/vantahq/pulseboard/internal/services"
)

// The storage models carry no json tags; every payload is shaped here so
// the wire format stays stable when columns move.

func userView(user models.User) fiber.Map {
	return fiber.Map{
		"id":              user.ID,
		"email":           user.Email,
		"first_name":      user.FirstName,
		"last_name":       user.LastName,
		"full_name":       user.FullName(),
		"role":            user.Role,
		"organization_id": user.OrganizationID,
		"is_owner":        user.IsOrganizationOwner,
		"email_verified":  user.EmailVerified,
		"status":          user.Status,
		"created_at":      user.CreatedAt,
	}
}

func organizationView(organization models.Organization) fiber.Map {
	return fiber.Map{
		"id":            organization.ID,
		"name":          organization.Name,
		"domain":        organization.Domain,
		"owner_id":      organization.OwnerID,
		"plan":          organization.Plan,
		"status":        organization.Status,
		"max_users":     organization.MaxUsers,
		"current_users": organization.CurrentUsers,
		"trial_ends_at": organization.TrialEndsAt,
		"created_at":    organization.CreatedAt,
	}
}

func policyView(policy models.SecurityPolicy) fiber.Map {
	return fiber.Map{
		"id":                      policy.ID,
		"organization_id":         policy.OrganizationID,
		"min_password_length":     policy.MinPasswordLength,
		"require_mfa":             policy.RequireMFA,
		"session_timeout_minutes": policy.SessionTimeoutMinutes,
		"data_retention_days":     policy.DataRetentionDays,
	}
}

func invitationView(view services.InvitationView) fiber.Map {
	return fiber.Map{
		"id":          view.ID,
		"email":       view.Email,
		"role":        view.Role,
		"invited_by":  view.InvitedBy,
		"expires_at":  view.ExpiresAt,
		"accepted_at": view.AcceptedAt,
		"status":      view.ComputedStatus,
		"created_at":  view.CreatedAt,
	}
}

func auditLogView(entry models.AuditLog) fiber.Map {
	return fiber.Map{
		"id":         entry.ID,
		"actor_id":   entry.ActorID,
		"action":     entry.Action,
		"details":    entry.Details,
		"created_at": entry.CreatedAt,
	}
}

func projectView(project models.Project) fiber.Map {
	return fiber.Map{
		"id":              project.ID,
		"name":            project.Name,
		"description":     project.Description,
		"status":          project.Status,
		"hours_tracked":   project.HoursTracked,
		"team_member_ids": project.TeamMemberIDs,
		"created_by":      project.CreatedBy,
		"created_at":      project.CreatedAt,
	}
}

func taskView(task models.Task) fiber.Map {
	return fiber.Map{
		"id":          task.ID,
		"project_id":  task.ProjectID,
		"title":       task.Title,
		"description": task.Description,
		"status":      task.Status,
		"priority":    task.Priority,
		"assigned_to": task.AssignedTo,
		"created_by":  task.CreatedBy,
		"due_date":    task.DueDate,
		"created_at":  task.CreatedAt,
	}
}

func entryView(entry models.TimeEntry) fiber.Map {
	return fiber.Map{
		"id":                  entry.ID,
		"user_id":             entry.UserID,
		"project_id":          entry.ProjectID,
		"task_id":             entry.TaskID,
		"description":         entry.Description,
		"start_time":          entry.StartTime,
		"end_time":            entry.EndTime,
		"duration_seconds":    entry.DurationSeconds,
		"pause_periods":       entry.PausePeriods,
		"total_pause_seconds": entry.TotalPauseSeconds,
		"status":              entry.Status,
		"manual":              entry.Manual,
	}
}

func screenshotView(screenshot models.Screenshot) fiber.Map {
	return fiber.Map{
		"id":            screenshot.ID,
		"time_entry_id": screenshot.TimeEntryID,
		"user_id":       screenshot.UserID,
		"image_url":     screenshot.ImageURL,
		"thumbnail_url": screenshot.ThumbnailURL,
		"blurred":       screenshot.Blurred,
		"captured_at":   screenshot.CapturedAt,
	}
}

func settingsView(settings models.MonitoringSettings) fiber.Map {
	return fiber.Map{
		"screenshots_enabled":         settings.ScreenshotsEnabled,
		"screenshot_interval_minutes": settings.ScreenshotIntervalMinutes,
		"blur_screenshots":            settings.BlurScreenshots,
		"activity_tracking_enabled":   settings.ActivityTrackingEnabled,
		"app_tracking_enabled":        settings.AppTrackingEnabled,
		"url_tracking_enabled":        settings.URLTrackingEnabled,
	}
}

func sessionView(session models.ActivitySession) fiber.Map {
	return fiber.Map{
		"id":                   session.ID,
		"time_entry_id":        session.TimeEntryID,
		"started_at":           session.StartedAt,
		"ended_at":             session.EndedAt,
		"keystroke_count":      session.KeystrokeCount,
		"mouse_click_count":    session.MouseClickCount,
		"mouse_movement_count": session.MouseMovementCount,
		"active_apps":          session.ActiveApps,
		"visited_sites":        session.VisitedSites,
	}
}

func appUsageView(usage models.ApplicationUsage) fiber.Map {
	return fiber.Map{
		"id":               usage.ID,
		"time_entry_id":    usage.TimeEntryID,
		"app_name":         usage.AppName,
		"window_title":     usage.WindowTitle,
		"category":         usage.Category,
		"started_at":       usage.StartedAt,
		"ended_at":         usage.EndedAt,
		"duration_seconds": usage.DurationSeconds,
	}
}

func visitView(visit models.WebsiteVisit) fiber.Map {
	return fiber.Map{
		"id":               visit.ID,
		"time_entry_id":    visit.TimeEntryID,
		"url":              visit.URL,
		"domain":           visit.Domain,
		"category":         visit.Category,
		"page_views":       visit.PageViews,
		"duration_seconds": visit.DurationSeconds,
		"visited_at":       visit.VisitedAt,
	}
}

func snapshotView(snapshot models.RealTimeActivity) fiber.Map {
	return fiber.Map{
		"id":                 snapshot.ID,
		"time_entry_id":      snapshot.TimeEntryID,
		"activity_score":     snapshot.ActivityScore,
		"productivity_level": snapshot.ProductivityLevel,
		"is_idle":            snapshot.IsIdle,
		"current_app":        snapshot.CurrentApp,
		"current_url":        snapshot.CurrentURL,
		"recorded_at":        snapshot.RecordedAt,
	}
}

func alertView(alert models.ProductivityAlert) fiber.Map {
	return fiber.Map{
		"id":          alert.ID,
		"user_id":     alert.UserID,
		"alert_type":  alert.AlertType,
		"severity":    alert.Severity,
		"message":     alert.Message,
		"resolved":    alert.Resolved,
		"resolved_by": alert.ResolvedBy,
		"resolved_at": alert.ResolvedAt,
		"created_at":  alert.CreatedAt,
	}
}

func goalView(goal models.ProductivityGoal) fiber.Map {
	return fiber.Map{
		"id":              goal.ID,
		"name":            goal.Name,
		"target_hours":    goal.TargetHours,
		"target_activity": goal.TargetActivity,
		"period":          goal.Period,
		"active":          goal.Active,
		"created_at":      goal.CreatedAt,
	}
}

func statsView(stats db.OrganizationStats) fiber.Map {
	return fiber.Map{
		"members":       stats.Members,
		"projects":      stats.Projects,
		"active_timers": stats.ActiveTimers,
		"total_entries": stats.TotalEntries,
		"tracked_hours": stats.TrackedHours,
		"open_alerts":   stats.OpenAlerts,
	}
}

func teamStatsView(stats db.TeamStats) fiber.Map {
	return fiber.Map{
		"total_members":  stats.TotalMembers,
		"active_members": stats.ActiveMembers,
		"by_role":        stats.RoleCounts,
	}
}

func userViews(users []models.User) []fiber.Map {
	views := make([]fiber.Map, 0, len(users))
	for _, user := range users {
		views = append(views, userView(user))
	}
	return views
}

func entryViews(entries []models.TimeEntry) []fiber.Map {
	views := make([]fiber.Map, 0, len(entries))
	for _, entry := range entries {
		views = append(views, entryView(entry))
	}
	return views
}
