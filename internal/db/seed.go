package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "password123"

// seedFeedbackPoints mirrors the reviewer award table for seeded rows:
// like 10, pass 5, detailed with rating and comment 20.
var seedFeedbackPoints = map[string]int64{"like": 10, "pass": 5, "detailed": 20}

var seedIdeas = []struct {
	title, problem, solution string
	tags                     []string
}{
	{"Budget Buddy", "Students lose track of small daily spending", "A chat bot that logs expenses from receipts", []string{"fintech", "students"}},
	{"Meal Planner", "Families waste food bought without a plan", "Weekly plans that generate shopping lists", []string{"food", "sustainability"}},
	{"Desk Swap", "Remote workers pay for desks they rarely use", "Hourly rental of idle office desks", []string{"marketplace", "remote-work"}},
	{"Pet Sitter Finder", "Owners struggle to find trusted sitters at short notice", "Verified neighbours bookable in two taps", []string{"pets", "marketplace"}},
	{"Tool Library", "Households buy tools they use once", "Shared tool lockers in apartment lobbies", []string{"sustainability", "community"}},
	{"Study Sprint", "Learners procrastinate alone", "Timed group study rooms with streaks", []string{"education", "students"}},
}

var seedRewards = []Reward{
	{Name: "Ideaji Sticker Pack", Description: "Five vinyl stickers for your laptop", PointsCost: 100, IsAvailable: true},
	{Name: "Ideaji Mug", Description: "A ceramic mug for late night brainstorming", PointsCost: 300, IsAvailable: true},
	{Name: "Mentor Session", Description: "Thirty minutes with a startup mentor", PointsCost: 1000, IsAvailable: true},
	{Name: "Conference Ticket", Description: "One ticket to the yearly founders meetup", PointsCost: 5000, IsAvailable: false},
}

// SeedTestData resets the database and populates it with demo data.
//
// Behavior:
//  1. Clears every table.
//  2. Creates one admin and 10 users, all with SeedPassword.
//  3. Creates published ideas with tags, each earning its author 50 points.
//  4. Adds feedback from random reviewers (never the author) and credits
//     the matching points and counters.
//  5. Creates the rewards catalogue.
//
// Compatible with both MySQL and SQLite.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	if err := clearAll(db); err != nil {
		return err
	}
	log.Println("Cleared existing data")

	return db.Transaction(func(tx *gorm.DB) error {
		hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		verified := time.Now().UTC()

		// --- Users ---
		users := make([]*User, 0, 11)
		users = append(users, &User{Name: "Admin", Email: "admin@example.com", Role: RoleAdmin})
		for i := 1; i <= 10; i++ {
			users = append(users, &User{
				Name:  fmt.Sprintf("User %d", i),
				Email: fmt.Sprintf("user%d@example.com", i),
				Role:  RoleUser,
			})
		}
		for _, u := range users {
			u.PasswordHash = string(hash)
			u.EmailVerified = &verified
		}

		// --- Ideas, tags and feedback are planned first so counters are final on insert ---
		type plannedFeedback struct {
			ideaIdx, reviewer int
			action            string
		}
		authors := make([]int, len(seedIdeas))
		var planned []plannedFeedback
		for i := range seedIdeas {
			authors[i] = 1 + r.Intn(len(users)-1)
			users[authors[i]].Points += 50
			users[authors[i]].IdeasCount++

			for reviewer := 1; reviewer < len(users); reviewer++ {
				if reviewer == authors[i] || r.Intn(100) >= 60 {
					continue
				}
				action := []string{"like", "like", "pass", "detailed"}[r.Intn(4)]
				planned = append(planned, plannedFeedback{ideaIdx: i, reviewer: reviewer, action: action})
				users[reviewer].Points += seedFeedbackPoints[action]
				users[reviewer].FeedbackCount++
			}
		}

		for _, u := range users {
			if err := tx.Create(u).Error; err != nil {
				return fmt.Errorf("failed to seed user: %w", err)
			}
		}
		log.Printf("Seeded %d users.", len(users))

		tags := map[string]*Tag{}
		ideas := make([]*Idea, len(seedIdeas))
		for i, s := range seedIdeas {
			var ideaTags []Tag
			for _, name := range s.tags {
				t, ok := tags[name]
				if !ok {
					t = &Tag{Name: name}
					if err := tx.Create(t).Error; err != nil {
						return fmt.Errorf("failed to seed tag: %w", err)
					}
					tags[name] = t
				}
				ideaTags = append(ideaTags, *t)
			}

			ideas[i] = &Idea{
				UserID:      users[authors[i]].ID,
				Title:       s.title,
				Description: s.title + ": " + s.solution,
				Problem:     s.problem,
				Solution:    s.solution,
				MediaType:   MediaText,
				Status:      StatusPublished,
				IsAnonymous: i%4 == 3,
				Tags:        ideaTags,
			}
			if err := tx.Omit("User", "Feedbacks", "AISummary", "Tags.*").Create(ideas[i]).Error; err != nil {
				return fmt.Errorf("failed to seed idea: %w", err)
			}
		}
		log.Printf("Seeded %d ideas.", len(ideas))

		for _, p := range planned {
			fb := &Feedback{
				IdeaID: ideas[p.ideaIdx].ID,
				UserID: users[p.reviewer].ID,
				Action: p.action,
			}
			if p.action == "detailed" {
				rating := 3 + r.Intn(3)
				comment := "Solid problem, would like to see pricing."
				fb.Rating, fb.Comment = &rating, &comment
			}
			if err := tx.Omit("Idea", "User").Create(fb).Error; err != nil {
				return fmt.Errorf("failed to seed feedback: %w", err)
			}
		}
		log.Printf("Seeded %d feedback entries.", len(planned))

		rewards := make([]Reward, len(seedRewards))
		copy(rewards, seedRewards)
		if err := tx.Create(&rewards).Error; err != nil {
			return fmt.Errorf("failed to seed rewards: %w", err)
		}
		return nil
	})
}

// clearAll deletes every row, children first.
func clearAll(db *gorm.DB) error {
	tables := []string{
		"messages", "chat_participants", "chats", "redemptions", "rewards",
		"notifications", "ai_summaries", "feedbacks", "idea_tags", "tags", "ideas", "users",
	}
	for _, t := range tables {
		if err := db.Exec("DELETE FROM " + t).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", t, err)
		}
	}
	return nil
}
