// Package seed loads development data: one user per role, a published
// template, a plan materialized from it and a few ad-hoc weeks.
package seed

import (
	"context"
	"errors"
	"time"

	"go-onboarding/internal/assignment"
	"go-onboarding/internal/domain"
	"go-onboarding/internal/messaging/kafka"
	"go-onboarding/internal/notification"
	"go-onboarding/internal/template"
	"go-onboarding/internal/user"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrAlreadySeeded = errors.New("database already has users; use reset to reseed")

type Options struct {
	// Today anchors every seeded date. Zero means time.Now.
	Today time.Time
	// Password is set on the admin, manager and builder accounts.
	Password string
	// Reset deletes existing rows first.
	Reset bool
}

type Summary struct {
	Users     int64
	Templates int64
	Plans     int64
	Weeks     int64
	Tasks     int64
}

func Run(ctx context.Context, db *gorm.DB, opts Options, logger *zap.Logger) (Summary, error) {
	if logger == nil {
		logger = zap.L()
	}
	log := logger.Named("seed")

	today := opts.Today
	if today.IsZero() {
		today = time.Now()
	}
	today = domain.DateOnly(today)

	var hash string
	if opts.Password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
		if err != nil {
			return Summary{}, err
		}
		hash = string(b)
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Reset {
			if err := reset(tx); err != nil {
				return err
			}
		}

		var n int64
		if err := tx.Model(&user.User{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadySeeded
		}

		people, err := seedUsers(tx, hash)
		if err != nil {
			return err
		}

		tpl := engineeringTemplate(people.builder.ID, today)
		if err := tx.Create(&tpl).Error; err != nil {
			return err
		}

		// plans start on the Monday of the current week
		start := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
		p, _ := assignment.Materialize(tpl, people.sam, start)
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		if err := tx.Model(&people.sam).Update("onboarding_plan_id", p.ID).Error; err != nil {
			return err
		}

		weeks := adHocWeeks(people.alex, today)
		return tx.Create(&weeks).Error
	})
	if err != nil {
		return Summary{}, err
	}

	sum, err := count(ctx, db)
	if err != nil {
		return Summary{}, err
	}
	log.Info("seed complete",
		zap.Int64("users", sum.Users),
		zap.Int64("templates", sum.Templates),
		zap.Int64("plans", sum.Plans),
		zap.Int64("weeks", sum.Weeks),
		zap.Int64("tasks", sum.Tasks),
	)
	return sum, nil
}

// reset deletes children before parents so foreign keys hold on every
// driver.
func reset(tx *gorm.DB) error {
	models := []any{
		&notification.Notification{},
		&kafka.OutboxEvent{},
		&domain.Task{},
		&domain.Week{},
		&user.User{},
		&domain.OnboardingPlan{},
		&template.TemplateTask{},
		&template.Section{},
		&template.Template{},
	}
	for _, m := range models {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
			return err
		}
	}
	return nil
}

type people struct {
	admin, manager, builder, sam, alex user.User
}

func seedUsers(tx *gorm.DB, hash string) (people, error) {
	var p people
	p.admin = user.User{Email: "admin@example.com", FullName: "Avery Admin", Role: "admin", PasswordHash: hash}
	p.manager = user.User{Email: "morgan@example.com", FullName: "Morgan Manager", Role: "manager", PasswordHash: hash}
	p.builder = user.User{Email: "blake@example.com", FullName: "Blake Builder", Role: "builder", PasswordHash: hash}

	for _, u := range []*user.User{&p.admin, &p.manager, &p.builder} {
		if err := tx.Create(u).Error; err != nil {
			return people{}, err
		}
	}

	p.sam = user.User{Email: "sam@example.com", FullName: "Sam New", Role: "user", ManagerID: &p.manager.ID}
	p.alex = user.User{Email: "alex@example.com", FullName: "Alex New", Role: "user", ManagerID: &p.manager.ID}
	for _, u := range []*user.User{&p.sam, &p.alex} {
		if err := tx.Create(u).Error; err != nil {
			return people{}, err
		}
	}
	return p, nil
}

func intPtr(v int) *int { return &v }

func engineeringTemplate(builderID uint, today time.Time) template.Template {
	published := today
	return template.Template{
		Name:        "Engineering Onboarding",
		Description: "First three weeks for new engineers",
		Status:      template.StatusPublished,
		TargetRole:  "Engineer",
		Department:  "Engineering",
		Tags:        []byte(`["engineering","default"]`),
		CreatedByID: &builderID,
		PublishedAt: &published,
		Sections: []template.Section{
			{
				Title:      "Week 1: Getting set up",
				OrderIndex: intPtr(1),
				OffsetDays: intPtr(0),
				Tasks: []template.TemplateTask{
					{Title: "Collect laptop and badge", ResponsibleParty: template.PartyNewHire,
						DueType: template.DueDaysFromStart, OffsetDays: intPtr(0), IsRequired: true, OrderIndex: intPtr(1)},
					{Title: "Welcome meeting", Description: "Team introductions and goals", ResponsibleParty: template.PartyManager,
						DueType: template.DueDayWithinSection, SectionDay: intPtr(2), OrderIndex: intPtr(2)},
					{Title: "Security awareness course", Category: "Compliance", ResponsibleParty: template.PartyNewHire,
						DueType: template.DueDaysFromStart, OffsetDays: intPtr(4), IsRequired: true,
						DefaultEstimatedMinutes: intPtr(45), OrderIndex: intPtr(3)},
				},
			},
			{
				Title:      "Week 2: Shadowing",
				OrderIndex: intPtr(2),
				OffsetDays: intPtr(7),
				Tasks: []template.TemplateTask{
					{Title: "Shadow on-call engineer", Description: "Incident flow and alarms", ResponsibleParty: template.PartyNewHire,
						DueType: template.DueDayWithinSection, SectionDay: intPtr(1), OrderIndex: intPtr(1)},
					{Title: "First code review", ResponsibleParty: template.PartyOther,
						DueType: template.DueDayWithinSection, SectionDay: intPtr(4), OrderIndex: intPtr(2)},
				},
			},
			{
				Title:      "Week 3: First project",
				OrderIndex: intPtr(3),
				OffsetDays: intPtr(14),
				Tasks: []template.TemplateTask{
					{Title: "Ship a small change", ResponsibleParty: template.PartyNewHire,
						DueType: template.DueDayWithinSection, SectionDay: intPtr(5), IsRequired: true, OrderIndex: intPtr(1)},
					{Title: "Thirty-day check-in", ResponsibleParty: template.PartyManager,
						DueType: template.DueDaysFromStart, OffsetDays: intPtr(30), OrderIndex: intPtr(2)},
				},
			},
		},
	}
}

func adHocWeeks(owner user.User, today time.Time) []domain.Week {
	span := func(from, to int) (*time.Time, *time.Time) {
		s, e := today.AddDate(0, 0, from), today.AddDate(0, 0, to)
		return &s, &e
	}

	s1, e1 := span(0, 4)
	s2, e2 := span(7, 11)
	s3, e3 := span(14, 18)

	return []domain.Week{
		{
			Title: "Week 1", StartDate: s1, EndDate: e1,
			OwnerUserID: &owner.ID, ManagerUserID: owner.ManagerID,
			Tasks: []domain.Task{
				{Title: "Job shadow Joel", Goal: "Job shadow Joel (his desk)",
					Topic: "Topic: Communication/outage alarms", Status: domain.StatusNotStarted,
					Notes: "Schedule meetings and catchups, if possible.", SortOrder: intPtr(0)},
				{Title: "Job shadow Jennifer", Goal: "Job shadow Jennifer (her desk)",
					Topic:  "Topics:\n Overview of flow of an incident\n Organizations\n Facilities\n Call Reports\n Service Orders\n Test systems",
					Status: domain.StatusInProgress, SortOrder: intPtr(1)},
				{Title: "Learning portal", Goal: "Learning portal:",
					Topic:  "Introduction to the learning portal\n Basic terms\n Email account and phishing awareness",
					Status: domain.StatusComplete,
					Notes:  "Select your session for the in-person classes.", SortOrder: intPtr(2)},
			},
		},
		{Title: "Week 2", StartDate: s2, EndDate: e2, OwnerUserID: &owner.ID, ManagerUserID: owner.ManagerID},
		{Title: "Week 3", StartDate: s3, EndDate: e3, OwnerUserID: &owner.ID, ManagerUserID: owner.ManagerID},
	}
}

func count(ctx context.Context, db *gorm.DB) (Summary, error) {
	var s Summary
	counts := []struct {
		model any
		dst   *int64
	}{
		{&user.User{}, &s.Users},
		{&template.Template{}, &s.Templates},
		{&domain.OnboardingPlan{}, &s.Plans},
		{&domain.Week{}, &s.Weeks},
		{&domain.Task{}, &s.Tasks},
	}
	for _, c := range counts {
		if err := db.WithContext(ctx).Model(c.model).Count(c.dst).Error; err != nil {
			return Summary{}, err
		}
	}
	return s, nil
}
