package main

import (
	"log"

	"ai-counsellor-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedNotificationTypes populates the database with default notification types.
func SeedNotificationTypes(db *gorm.DB) {
	types := []model.NotificationType{
		{
			Code:        "USER_REGISTERED",
			DisplayName: "New User Registration",
			Template:    "New user registered: {email} ({user_id})",
			TargetType:  "ADMIN", // Send to all admins
			Priority:    "MEDIUM",
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
			IsActive:    true,
		},
		{
			Code:        "UNIVERSITY_LOCKED",
			DisplayName: "University Locked",
			Template:    "You committed to {university_name}. Your application checklist is ready.",
			TargetType:  "SELF",
			Priority:    "HIGH",
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
			IsActive:    true,
		},
		{
			Code:        "STAGE_ADVANCED",
			DisplayName: "Stage Advanced",
			Template:    "You moved to stage {to_stage} of your study-abroad journey.",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
			Channels:    datatypes.JSON([]byte(`["web"]`)),
			IsActive:    true,
		},
		{
			Code:        "TASKS_GENERATED",
			DisplayName: "Application Tasks Added",
			Template:    "{count} application tasks were added for {university_name}.",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
			Channels:    datatypes.JSON([]byte(`["web"]`)),
			IsActive:    true,
		},
		{
			Code:        "PROFILE_UPDATED",
			DisplayName: "Profile Updated",
			Template:    "Your profile field \"{field}\" was updated.",
			TargetType:  "SELF",
			Priority:    "LOW",
			Channels:    datatypes.JSON([]byte(`["web"]`)),
			IsActive:    true,
		},
		{
			Code:        "SYSTEM_BROADCAST",
			DisplayName: "System Announcement",
			Template:    "{message}",
			TargetType:  "BROADCAST", // Special type for all users
			Priority:    "HIGH",
			Channels:    datatypes.JSON([]byte(`["web"]`)),
			IsActive:    true,
		},
		{
			Code:        "TEST_EVENT",
			DisplayName: "Test Notification",
			Template:    "This is a test notification: {message}",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
			Channels:    datatypes.JSON([]byte(`["web"]`)),
			IsActive:    true,
		},
	}

	for _, t := range types {
		err := db.Where("code = ?", t.Code).FirstOrCreate(&t).Error
		if err != nil {
			log.Printf("Error seeding notification type %s: %v", t.Code, err)
		}
	}
	log.Println("✅ Notification types seeded successfully.")
}
