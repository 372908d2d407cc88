package main

import (
	"log"

	"lms/config"
	"lms/database"
	certModels "lms/models/certificate"
	gamificationModels "lms/models/gamification"

	"gorm.io/datatypes"
)

// Seeds the level table, the starter achievement set and the default
// certificate template. Safe to re-run: existing rows are left untouched.
func main() {
	config.LoadConfig()
	database.ConnectDb()

	db := database.Database.Db

	levels := []gamificationModels.Level{
		{LevelNumber: 1, Name: "Beginner", PointsRequired: 0},
		{LevelNumber: 2, Name: "Learner", PointsRequired: 200},
		{LevelNumber: 3, Name: "Achiever", PointsRequired: 500},
		{LevelNumber: 4, Name: "Expert", PointsRequired: 1000},
		{LevelNumber: 5, Name: "Master", PointsRequired: 2500},
	}
	for _, level := range levels {
		var existing gamificationModels.Level
		if err := db.Where("level_number = ?", level.LevelNumber).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&level).Error; err != nil {
			log.Fatalf("Failed to seed level %d: %v", level.LevelNumber, err)
		}
		log.Printf("Seeded level %d (%s)", level.LevelNumber, level.Name)
	}

	achievements := []gamificationModels.Achievement{
		{
			Name:            "First Course",
			Description:     "Complete your first course",
			Points:          50,
			AchievementType: gamificationModels.TypeCourseCompletion,
			Criteria:        datatypes.JSONMap{"courses": 1},
		},
		{
			Name:            "Course Collector",
			Description:     "Complete five courses",
			Points:          200,
			AchievementType: gamificationModels.TypeCourseCompletion,
			Criteria:        datatypes.JSONMap{"courses": 5},
		},
		{
			Name:            "Perfect Score",
			Description:     "Score 100% on an assessment",
			Points:          100,
			AchievementType: gamificationModels.TypeAssessmentScore,
			Criteria:        datatypes.JSONMap{"min_score": 100},
		},
		{
			Name:            "Week Streak",
			Description:     "Log in seven days in a row",
			Points:          70,
			AchievementType: gamificationModels.TypeLoginStreak,
			Criteria:        datatypes.JSONMap{"streak_days": 7},
		},
		{
			Name:            "Conversation Starter",
			Description:     "Write ten forum posts",
			Points:          30,
			AchievementType: gamificationModels.TypeForumParticipation,
			Criteria:        datatypes.JSONMap{"min_posts": 10},
		},
	}
	for _, achievement := range achievements {
		var existing gamificationModels.Achievement
		if err := db.Where("name = ?", achievement.Name).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&achievement).Error; err != nil {
			log.Fatalf("Failed to seed achievement %q: %v", achievement.Name, err)
		}
		log.Printf("Seeded achievement %q", achievement.Name)
	}

	var templateCount int64
	db.Model(&certModels.CertificateTemplate{}).Where("is_deleted = ?", false).Count(&templateCount)
	if templateCount == 0 {
		template := certModels.CertificateTemplate{
			Name:        "Classic",
			Description: "Default certificate layout",
			HTMLBody: `<div class="certificate">
	<h1>Certificate of Completion</h1>
	<p>This certifies that</p>
	<h2>{{student_name}}</h2>
	<p>has successfully completed the course</p>
	<h3>{{course_name}}</h3>
	<p>{{course_hours}} hours &middot; Issued {{issue_date}}</p>
	<p class="number">{{certificate_number}}</p>
	<p class="verify">Verify at: {{verification_url}}</p>
</div>`,
			CSSText: `.certificate { text-align: center; font-family: Georgia, serif; border: 8px double #b8860b; padding: 48px; }
.certificate h2 { font-size: 32px; }
.certificate .number { color: #666; font-size: 12px; }
.certificate .verify { font-size: 11px; }`,
			IsDefault: true,
		}
		if err := db.Create(&template).Error; err != nil {
			log.Fatalf("Failed to seed certificate template: %v", err)
		}
		log.Println("Seeded default certificate template")
	}

	log.Println("Seeding completed.")
}
