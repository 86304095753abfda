package project

import (
	"context"
	"fmt"
	"time"

	"opscrm/internal/common/models"
	"opscrm/internal/features/activity"
	"opscrm/internal/features/notification"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ProjectService interface {
	ListProjects(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]Project, int64, error)
	GetProjectByID(ctx context.Context, id string) (*Project, error)
	CreateProject(ctx context.Context, project *Project) error
	UpdateProject(ctx context.Context, id string, project *Project) error
	DeleteProject(ctx context.Context, id string) error
}

type ProjectServiceImpl struct {
	ProjectRepo     ProjectRepository
	ActivityService activity.ActivityService
	Emitter         notification.Emitter
}

func NewProjectService(projectRepo ProjectRepository, activityService activity.ActivityService, emitter notification.Emitter) ProjectService {
	return &ProjectServiceImpl{
		ProjectRepo:     projectRepo,
		ActivityService: activityService,
		Emitter:         emitter,
	}
}

func actorID(ctx context.Context) string {
	if user, ok := ctx.Value(models.AuthedUserKey).(*models.AuthedUser); ok && user != nil {
		return user.ID
	}
	return ""
}

func (s *ProjectServiceImpl) ListProjects(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]Project, int64, error) {
	if filter == nil {
		filter = make(map[string]interface{})
	}

	offset := (page - 1) * limit
	return s.ProjectRepo.List(ctx, filter, limit, offset)
}

func (s *ProjectServiceImpl) GetProjectByID(ctx context.Context, id string) (*Project, error) {
	project, err := s.ProjectRepo.FindByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	}
	return project, err
}

func (s *ProjectServiceImpl) CreateProject(ctx context.Context, project *Project) error {
	if project.Name == "" {
		return fmt.Errorf("name is required")
	}

	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	if project.Status == "" {
		project.Status = StatusPlanned
	}
	if project.Members == nil {
		project.Members = []string{}
	}
	project.CreatedBy = actorID(ctx)
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()

	if err := s.ProjectRepo.Create(ctx, project); err != nil {
		return err
	}

	s.ActivityService.LogSafe(ctx, "project", project.ID.Hex(), fmt.Sprintf("Project %q created", project.Name))

	return nil
}

func (s *ProjectServiceImpl) UpdateProject(ctx context.Context, id string, incoming *Project) error {
	// Snapshot before the write; the diff runs against pre-write state
	existing, err := s.ProjectRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ErrNotFound
		}
		return err
	}

	changes := &activity.ChangeSet{}
	changes.Field("Name", existing.Name, incoming.Name)
	changes.Status(string(existing.Status), string(incoming.Status))
	changes.Assignees(existing.Members, incoming.Members)

	incoming.UpdatedAt = time.Now()

	if err := s.ProjectRepo.Update(ctx, id, incoming); err != nil {
		return err
	}

	if changes.Empty() {
		return nil
	}

	s.ActivityService.LogSafe(ctx, "project", id, changes.Note())

	if changes.ShouldNotify() {
		eventType := notification.EventTypeStatusChange
		if !notification.AreSameRecipientSets(existing.Members, incoming.Members) {
			eventType = notification.EventTypeAssignment
		}

		actor := actorID(ctx)
		audience := append(append([]string{}, existing.Members...), incoming.Members...)
		s.Emitter.EmitSafe(ctx, &notification.Event{
			Type:       eventType,
			Title:      fmt.Sprintf("Project %q updated", existing.Name),
			Body:       changes.Note(),
			ActorID:    actor,
			Recipients: notification.BuildRecipientList(existing.CreatedBy, audience, actor),
			EntityType: "project",
			EntityID:   id,
		})
	}

	return nil
}

func (s *ProjectServiceImpl) DeleteProject(ctx context.Context, id string) error {
	project, err := s.ProjectRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ErrNotFound
		}
		return err
	}

	if err := s.ProjectRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.ActivityService.LogSafe(ctx, "project", id, fmt.Sprintf("Project %q deleted", project.Name))

	return nil
}
