package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"volunteerhub/internal/utils"
	"volunteerhub/pkg/types"

	"github.com/sirupsen/logrus"
)

// DemoTitlePrefix marks seeded projects so they can be reset.
const DemoTitlePrefix = "[demo] "

type ProjectRepository interface {
	Projects(ctx context.Context, filter types.ProjectFilter) ([]*types.Project, error)
	CreateProject(ctx context.Context, project *types.Project) error
	DeleteProject(ctx context.Context, projectID string) error
}

type ModerationRepository interface {
	Moderate(ctx context.Context, moderation *types.ProjectModeration) error
}

type TaskRepository interface {
	CreateTask(ctx context.Context, task *types.Task) error
}

type ApplicationRepository interface {
	CreateApplication(ctx context.Context, application *types.Application) error
	SetApplicationStatus(ctx context.Context, applicationID string, status types.ReviewStatus) error
}

type DonationRepository interface {
	Donate(ctx context.Context, donation *types.Donation) (*types.Project, error)
}

type DemoRepositories struct {
	Projects     ProjectRepository
	Moderations  ModerationRepository
	Tasks        TaskRepository
	Applications ApplicationRepository
	Donations    DonationRepository
}

var demoProjectTitles = []string{
	"Riverside cleanup",
	"Winter clothes drive",
	"Reading club for kids",
	"Animal shelter repairs",
	"Community garden",
	"Park bench restoration",
	"Meals for seniors",
	"Youth football league",
}

var demoDescriptions = []string{
	"Volunteers gather every weekend to collect litter and sort recyclables.",
	"Collecting warm clothes and delivering them to families who need them.",
	"Weekly reading sessions with volunteers at the public library.",
	"Fixing the roof and fences of the local animal shelter before winter.",
	"Turning an empty lot into a shared vegetable garden for the block.",
	"Sanding, painting and reinstalling old benches in the central park.",
	"Cooking and delivering hot meals to elderly neighbours twice a week.",
	"Equipment and coaching for a free youth league in the district.",
}

var demoTaskTitles = []string{
	"Buy supplies",
	"Coordinate volunteers",
	"Prepare the site",
	"Print flyers",
	"Deliver materials",
}

type weightedModeration struct {
	Status types.ModerationStatus
	Weight int
}

var weightedModerations = []weightedModeration{
	{Status: types.ModerationStatusPending, Weight: 25},
	{Status: types.ModerationStatusApproved, Weight: 65},
	{Status: types.ModerationStatusRejected, Weight: 10},
}

func pickModeration(rng *rand.Rand) types.ModerationStatus {
	total := 0
	for _, w := range weightedModerations {
		total += w.Weight
	}
	n := rng.Intn(total)
	for _, w := range weightedModerations {
		if n < w.Weight {
			return w.Status
		}
		n -= w.Weight
	}
	return types.ModerationStatusPending
}

// ResetDemoProjects deletes every project created by SeedDemoProjects.
func ResetDemoProjects(ctx context.Context, repo ProjectRepository) (int, error) {
	deleted := 0
	for {
		projects, err := repo.Projects(ctx, types.ProjectFilter{Query: DemoTitlePrefix, Limit: 200})
		if err != nil {
			return deleted, fmt.Errorf("failed to list demo projects: %w", err)
		}

		batch := 0
		for _, project := range projects {
			if !strings.HasPrefix(project.Title, DemoTitlePrefix) {
				continue
			}
			if err := repo.DeleteProject(ctx, project.ID); err != nil {
				return deleted, fmt.Errorf("failed to delete demo project %s: %w", project.ID, err)
			}
			batch++
		}
		deleted += batch

		if batch == 0 {
			return deleted, nil
		}
	}
}

// SeedDemoProjects creates count projects owned by the demo coordinators,
// moderates them, books some donations and adds tasks to the approved ones.
// Demo users must exist.
func SeedDemoProjects(ctx context.Context, repos DemoRepositories, rng *rand.Rand, count int, logger logrus.FieldLogger) error {
	if count <= 0 {
		logger.Info("skipping demo projects because count <= 0")
		return nil
	}

	coordinators := demoUserIDs(types.RoleCoordinator)
	volunteers := demoUserIDs(types.RoleVolunteer)
	donors := demoUserIDs(types.RoleDonor)
	moderators := demoUserIDs(types.RoleModerator)
	if len(coordinators) == 0 || len(volunteers) == 0 || len(donors) == 0 || len(moderators) == 0 {
		return errors.New("demo users are missing a role; seed demo users first")
	}

	created := 0
	for i := 0; i < count; i++ {
		pick := rng.Intn(len(demoProjectTitles))
		category := Categories[rng.Intn(len(Categories))]
		start := time.Now().AddDate(0, 0, rng.Intn(30))

		project := &types.Project{
			CoordinatorID:     coordinators[i%len(coordinators)],
			CategoryID:        utils.StringPtr(category.ID),
			Title:             DemoTitlePrefix + demoProjectTitles[pick],
			Description:       demoDescriptions[pick],
			Location:          utils.StringPtr(DemoUsers[rng.Intn(len(DemoUsers))].City),
			TargetAmountCents: int64(rng.Intn(4900)+100) * 100,
			StartDate:         utils.TimePtr(start),
			EndDate:           utils.TimePtr(start.AddDate(0, 2, 0)),
		}
		if err := repos.Projects.CreateProject(ctx, project); err != nil {
			return fmt.Errorf("failed to create demo project %d: %w", i+1, err)
		}
		created++

		decision := pickModeration(rng)
		if decision == types.ModerationStatusPending {
			continue
		}

		moderation := &types.ProjectModeration{
			ProjectID:   project.ID,
			ModeratorID: moderators[rng.Intn(len(moderators))],
			Decision:    decision,
		}
		if decision == types.ModerationStatusRejected {
			moderation.Comment = utils.StringPtr("Please add a budget breakdown.")
		}
		if err := repos.Moderations.Moderate(ctx, moderation); err != nil {
			return fmt.Errorf("failed to moderate demo project %s: %w", project.ID, err)
		}
		if decision != types.ModerationStatusApproved {
			continue
		}
		project.ModerationStatus = decision

		if err := seedDonations(ctx, repos.Donations, rng, project, donors); err != nil {
			return err
		}
		if err := seedTasks(ctx, repos, rng, project, volunteers); err != nil {
			return err
		}
	}

	logger.WithField("created", created).Info("demo projects seeded")
	return nil
}

func seedDonations(ctx context.Context, repo DonationRepository, rng *rand.Rand, project *types.Project, donors []string) error {
	for n := rng.Intn(4); n > 0; n-- {
		remaining := project.RemainingCents()
		if remaining == 0 {
			return nil
		}
		amount := min(int64(rng.Intn(50)+1)*1000, remaining)

		donation := &types.Donation{
			ProjectID:   project.ID,
			DonorID:     utils.StringPtr(donors[rng.Intn(len(donors))]),
			AmountCents: amount,
			IsAnonymous: rng.Intn(4) == 0,
		}
		updated, err := repo.Donate(ctx, donation)
		if err != nil {
			return fmt.Errorf("failed to donate to demo project %s: %w", project.ID, err)
		}
		*project = *updated
	}
	return nil
}

func seedTasks(ctx context.Context, repos DemoRepositories, rng *rand.Rand, project *types.Project, volunteers []string) error {
	volunteerID := volunteers[rng.Intn(len(volunteers))]

	application := &types.Application{
		ProjectID:   project.ID,
		VolunteerID: volunteerID,
		Message:     utils.StringPtr("Happy to help on weekends."),
	}
	if err := repos.Applications.CreateApplication(ctx, application); err != nil {
		return fmt.Errorf("failed to create demo application for %s: %w", project.ID, err)
	}
	if err := repos.Applications.SetApplicationStatus(ctx, application.ID, types.ReviewStatusApproved); err != nil {
		return fmt.Errorf("failed to approve demo application %s: %w", application.ID, err)
	}

	for n := rng.Intn(3) + 1; n > 0; n-- {
		task := &types.Task{
			ProjectID:   project.ID,
			Title:       demoTaskTitles[rng.Intn(len(demoTaskTitles))],
			Description: "Created by the demo seed.",
			Deadline:    utils.TimePtr(time.Now().AddDate(0, 0, rng.Intn(60)+7)),
			BudgetCents: utils.Int64Ptr(int64(rng.Intn(20)+1) * 500),
		}
		if rng.Intn(2) == 0 {
			task.VolunteerID = utils.StringPtr(volunteerID)
		}
		if err := repos.Tasks.CreateTask(ctx, task); err != nil {
			return fmt.Errorf("failed to create demo task for %s: %w", project.ID, err)
		}
	}
	return nil
}
