// Package fixture seeds the in-memory store with the demo workspace:
// four users, two projects with a full board each, discussion threads,
// and a starting set of notifications. Due dates and timestamps are
// relative to seed time so the boards always show a mix of upcoming
// and overdue work.
package fixture

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/synergysphere/synergysphere/internal/model"
	"github.com/synergysphere/synergysphere/internal/store"
)

// DefaultEmail is the account the login screen suggests for demo use.
const DefaultEmail = "sarah@synergysphere.com"

type seeder struct {
	s   *store.SQLiteStore
	rng *rand.Rand
	now time.Time

	users map[string]model.User // keyed by short handle
}

// Seed populates the store with the demo workspace. The rng drives the
// created-at jitter on tasks; pass a fixed seed for reproducible data.
func Seed(ctx context.Context, s *store.SQLiteStore, rng *rand.Rand) error {
	sd := &seeder{
		s:     s,
		rng:   rng,
		now:   time.Now().UTC(),
		users: make(map[string]model.User),
	}

	if err := sd.seedUsers(ctx); err != nil {
		return err
	}
	if err := sd.seedProjects(ctx); err != nil {
		return err
	}
	if err := sd.seedNotifications(ctx); err != nil {
		return err
	}
	return nil
}

func (sd *seeder) seedUsers(ctx context.Context) error {
	specs := []struct {
		handle, name, email, avatar, role string
	}{
		{"sarah", "Sarah Chen", DefaultEmail,
			"https://images.unsplash.com/photo-1494790108755-2616b612b787?w=150&h=150&fit=crop&crop=face",
			"Product Manager"},
		{"marcus", "Marcus Rodriguez", "marcus@synergysphere.com",
			"https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=150&h=150&fit=crop&crop=face",
			"Frontend Developer"},
		{"emily", "Emily Johnson", "emily@synergysphere.com",
			"https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=150&h=150&fit=crop&crop=face",
			"UX Designer"},
		{"david", "David Kim", "david@synergysphere.com",
			"https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop&crop=face",
			"Backend Developer"},
	}

	for i, spec := range specs {
		user, err := sd.s.RegisterUser(ctx, model.User{
			ID:        uuid.New().String(),
			Name:      spec.name,
			Email:     spec.email,
			AvatarURL: spec.avatar,
			Role:      spec.role,
			CreatedAt: sd.now.AddDate(0, 0, -60).Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			return fmt.Errorf("seeding user %s: %w", spec.name, err)
		}
		sd.users[spec.handle] = *user
	}
	return nil
}

type taskSpec struct {
	title      string
	status     string
	assignee   string // user handle
	dueInDays  int    // negative means overdue
	priority   string
	checklist  bool
	attachment bool
}

func (sd *seeder) seedProjects(ctx context.Context) error {
	alpha := model.Project{
		ID:          uuid.New().String(),
		Name:        "Project Alpha",
		Description: "Revolutionary product launch with innovative features",
		Icon:        "🚀",
		Deadline:    timePtr(sd.now.AddDate(0, 0, 14)),
		CreatedAt:   sd.now.AddDate(0, 0, -30),
		Members: []model.User{
			sd.users["sarah"], sd.users["marcus"], sd.users["emily"],
		},
	}
	beta := model.Project{
		ID:          uuid.New().String(),
		Name:        "Project Beta",
		Description: "Mobile app development with cross-platform support",
		Icon:        "📱",
		Deadline:    timePtr(sd.now.AddDate(0, 0, 21)),
		CreatedAt:   sd.now.AddDate(0, 0, -20),
		Members: []model.User{
			sd.users["sarah"], sd.users["emily"], sd.users["david"],
		},
	}

	for _, p := range []model.Project{alpha, beta} {
		if err := sd.s.InsertProject(ctx, p); err != nil {
			return fmt.Errorf("seeding project %s: %w", p.Name, err)
		}
	}

	alphaTasks := []taskSpec{
		{"Design user interface mockups", model.StatusDone, "emily", 7, model.PriorityHigh, true, true},
		{"Implement authentication system", model.StatusProgress, "marcus", 3, model.PriorityHigh, true, false},
		{"Set up database schema", model.StatusDone, "david", 5, model.PriorityMedium, false, false},
		{"Create API endpoints", model.StatusProgress, "david", 2, model.PriorityMedium, true, false},
		{"Write unit tests", model.StatusTodo, "marcus", 1, model.PriorityLow, false, false},
		{"Deploy to staging", model.StatusTodo, "david", -1, model.PriorityHigh, false, false},
		{"Conduct user testing", model.StatusTodo, "emily", -2, model.PriorityMedium, true, false},
	}
	betaTasks := []taskSpec{
		{"Research mobile frameworks", model.StatusDone, "marcus", 10, model.PriorityMedium, false, false},
		{"Create wireframes", model.StatusDone, "emily", 8, model.PriorityHigh, true, true},
		{"Develop core components", model.StatusProgress, "marcus", 4, model.PriorityHigh, true, false},
		{"Implement push notifications", model.StatusProgress, "david", 1, model.PriorityMedium, false, false},
		{"Optimize for iOS", model.StatusTodo, "marcus", -3, model.PriorityLow, false, false},
		{"Android testing", model.StatusTodo, "david", -1, model.PriorityMedium, false, false},
		{"App store submission", model.StatusTodo, "sarah", -5, model.PriorityLow, false, false},
	}

	if err := sd.seedTasks(ctx, alpha.ID, alphaTasks); err != nil {
		return err
	}
	if err := sd.seedTasks(ctx, beta.ID, betaTasks); err != nil {
		return err
	}

	alphaComments := []struct {
		author   string
		body     string
		hoursAgo int
	}{
		{"sarah", "Great progress on the authentication system! The JWT implementation looks solid.", 2},
		{"marcus", "Thanks Sarah! I'll have the OAuth integration ready by tomorrow.", 1},
		{"emily", "The UI mockups are approved by the client. Moving to development phase.", 4},
		{"david", "Database performance looks good after the recent optimizations.", 6},
	}
	betaComments := []struct {
		author   string
		body     string
		hoursAgo int
	}{
		{"marcus", "The React Native setup is complete. Ready for component development.", 3},
		{"david", "Push notification service is integrated with Firebase.", 1},
		{"sarah", "Wireframes look fantastic! The user flow is very intuitive.", 5},
	}

	for _, c := range alphaComments {
		if err := sd.seedComment(ctx, alpha.ID, c.author, c.body, c.hoursAgo); err != nil {
			return err
		}
	}
	for _, c := range betaComments {
		if err := sd.seedComment(ctx, beta.ID, c.author, c.body, c.hoursAgo); err != nil {
			return err
		}
	}

	return nil
}

func (sd *seeder) seedTasks(ctx context.Context, projectID string, specs []taskSpec) error {
	for _, spec := range specs {
		created := sd.now.Add(-time.Duration(sd.rng.Intn(7*24)) * time.Hour)
		task := model.Task{
			ID:          uuid.New().String(),
			ProjectID:   projectID,
			Title:       spec.title,
			Description: "Description for " + spec.title,
			Status:      spec.status,
			Priority:    spec.priority,
			AssigneeID:  sd.users[spec.assignee].ID,
			DueDate:     timePtr(sd.now.AddDate(0, 0, spec.dueInDays)),
			CreatedAt:   created,
			UpdatedAt:   created,
		}
		if spec.attachment {
			task.Attachments = []string{"design-mockup.figma", "requirements.pdf"}
		}
		if err := sd.s.InsertTask(ctx, task); err != nil {
			return fmt.Errorf("seeding task %s: %w", spec.title, err)
		}
		if spec.checklist {
			items := []struct {
				text string
				done bool
			}{
				{"Review requirements", true},
				{"Design mockups", false},
				{"Get stakeholder approval", false},
			}
			for i, item := range items {
				err := sd.s.InsertChecklistItem(ctx, model.ChecklistItem{
					TaskID:    task.ID,
					Text:      item.text,
					Completed: item.done,
					SortOrder: i + 1,
					CreatedAt: created,
				})
				if err != nil {
					return fmt.Errorf("seeding checklist for %s: %w", spec.title, err)
				}
			}
		}
	}
	return nil
}

func (sd *seeder) seedComment(ctx context.Context, projectID, author, body string, hoursAgo int) error {
	err := sd.s.InsertComment(ctx, model.Comment{
		ProjectID: projectID,
		UserID:    sd.users[author].ID,
		Body:      body,
		CreatedAt: sd.now.Add(-time.Duration(hoursAgo) * time.Hour),
	})
	if err != nil {
		return fmt.Errorf("seeding comment: %w", err)
	}
	return nil
}

func (sd *seeder) seedNotifications(ctx context.Context) error {
	specs := []struct {
		title, message, typ string
		read                bool
		minutesAgo          int
	}{
		{"Task Overdue", `Task "Deploy to staging" is overdue`, model.NotificationTask, false, 120},
		{"New Comment", "New comment in Project Alpha discussion", model.NotificationComment, false, 60},
		{"Task Assigned", `You have been assigned "Optimize for iOS"`, model.NotificationTask, true, 30},
		{"Project Update", "Project Beta milestone completed", model.NotificationProject, true, 240},
	}

	for _, spec := range specs {
		err := sd.s.CreateNotification(ctx, model.Notification{
			Title:     spec.title,
			Message:   spec.message,
			Type:      spec.typ,
			Read:      spec.read,
			CreatedAt: sd.now.Add(-time.Duration(spec.minutesAgo) * time.Minute),
		})
		if err != nil {
			return fmt.Errorf("seeding notification %s: %w", spec.title, err)
		}
	}
	return nil
}

func timePtr(t time.Time) *time.Time { return &t }
