package gamificationController

import (
	"log"
	"time"

	"lms/database"
	gamificationModels "lms/models/gamification"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[GAMIFICATION-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// ReconcileUserLevels recomputes every cached level snapshot whose points
// drifted from the ledger sum. Covers the window where a points insert
// succeeded but the level update did not.
func ReconcileUserLevels() {
	var snapshots []gamificationModels.UserLevel
	if err := database.Database.Db.Find(&snapshots).Error; err != nil {
		logScheduler("Error fetching user levels: " + err.Error())
		return
	}

	repaired := 0
	for _, snapshot := range snapshots {
		total, err := sumLedger(snapshot.UserID)
		if err != nil {
			logScheduler("Error summing ledger: " + err.Error())
			continue
		}
		if total == snapshot.CurrentPoints {
			continue
		}
		if err := UpdateUserLevel(snapshot.UserID); err != nil {
			logScheduler("Error reconciling user level: " + err.Error())
			continue
		}
		repaired++
	}

	if repaired > 0 {
		logScheduler("Reconciled stale level snapshots")
	}
}

// SweepLoginStreaks re-evaluates login-streak achievements for users active
// in the last day.
func SweepLoginStreaks() {
	since := time.Now().Add(-24 * time.Hour)

	var userIDs []uint
	err := database.Database.Db.Table("login_trackings").
		Where("timestamp >= ? AND is_deleted = ?", since, false).
		Distinct("user_id").
		Pluck("user_id", &userIDs).Error
	if err != nil {
		logScheduler("Error fetching recent logins: " + err.Error())
		return
	}

	for _, userID := range userIDs {
		CheckLoginAchievements(userID)
	}
}

// StartScheduler wires the recurring gamification jobs and starts the cron
// runner.
func StartScheduler() *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("@hourly", ReconcileUserLevels); err != nil {
		log.Fatalf("Failed to schedule level reconciliation: %v", err)
	}
	if _, err := c.AddFunc("@daily", SweepLoginStreaks); err != nil {
		log.Fatalf("Failed to schedule login streak sweep: %v", err)
	}

	c.Start()
	logScheduler("Scheduler started")
	return c
}
