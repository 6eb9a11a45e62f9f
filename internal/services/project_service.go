package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vantahq/pulseboard/internal/models"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrInvalidInput    = errors.New("invalid input")
)

type ProjectRepository interface {
	Create(project *models.Project) error
	Save(project *models.Project) error
	FindInOrganization(projectID string, organizationID string) (models.Project, error)
	ListByOrganization(organizationID string, status string) ([]models.Project, error)
	DeleteWithTasks(projectID string, organizationID string) error
	AddTrackedHours(projectID string, organizationID string, hours float64) error
}

type TaskRepository interface {
	Create(task *models.Task) error
	FindInOrganization(taskID string, organizationID string) (models.Task, error)
	ListByProject(projectID string, organizationID string) ([]models.Task, error)
	ListAssignedTo(userID string, organizationID string) ([]models.Task, error)
	UpdateInOrganization(taskID string, organizationID string, updates map[string]any) error
	DeleteInOrganization(taskID string, organizationID string) error
}

type ProjectMemberRepository interface {
	FindByIDInOrganization(userID string, organizationID string) (models.User, error)
}

type ProjectService struct {
	projects ProjectRepository
	tasks    TaskRepository
	members  ProjectMemberRepository
}

func NewProjectService(projects ProjectRepository, tasks TaskRepository, members ProjectMemberRepository) *ProjectService {
	return &ProjectService{projects: projects, tasks: tasks, members: members}
}

type ProjectInput struct {
	Name          string
	Description   string
	TeamMemberIDs []string
}

// CreateProject binds the project to the caller's organization; any
// referenced team member has to resolve inside that organization too.
func (service *ProjectService) CreateProject(actor *models.User, input ProjectInput) (models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Project{}, ErrInvalidInput
	}
	for _, memberID := range input.TeamMemberIDs {
		if _, err := service.members.FindByIDInOrganization(memberID, actor.OrganizationID); err != nil {
			return models.Project{}, ErrUserNotFound
		}
	}

	project := models.Project{
		ID:             uuid.NewString(),
		OrganizationID: actor.OrganizationID,
		Name:           name,
		Description:    strings.TrimSpace(input.Description),
		Status:         models.ProjectStatusActive,
		TeamMemberIDs:  input.TeamMemberIDs,
		CreatedBy:      actor.ID,
	}
	if err := service.projects.Create(&project); err != nil {
		return models.Project{}, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

func (service *ProjectService) ListProjects(organizationID string, status string) ([]models.Project, error) {
	return service.projects.ListByOrganization(organizationID, status)
}

func (service *ProjectService) GetProject(projectID string, organizationID string) (models.Project, error) {
	project, err := service.projects.FindInOrganization(projectID, organizationID)
	if err != nil {
		return models.Project{}, ErrProjectNotFound
	}
	return project, nil
}

type ProjectUpdate struct {
	Name          *string
	Description   *string
	Status        *string
	TeamMemberIDs *[]string
}

func (service *ProjectService) UpdateProject(actor *models.User, projectID string, update ProjectUpdate) (models.Project, error) {
	project, err := service.GetProject(projectID, actor.OrganizationID)
	if err != nil {
		return models.Project{}, err
	}

	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return models.Project{}, ErrInvalidInput
		}
		project.Name = strings.TrimSpace(*update.Name)
	}
	if update.Description != nil {
		project.Description = strings.TrimSpace(*update.Description)
	}
	if update.Status != nil {
		project.Status = *update.Status
	}
	if update.TeamMemberIDs != nil {
		for _, memberID := range *update.TeamMemberIDs {
			if _, err := service.members.FindByIDInOrganization(memberID, actor.OrganizationID); err != nil {
				return models.Project{}, ErrUserNotFound
			}
		}
		project.TeamMemberIDs = *update.TeamMemberIDs
	}

	// The organization binding never changes, whatever the payload said.
	project.OrganizationID = actor.OrganizationID
	if err := service.projects.Save(&project); err != nil {
		return models.Project{}, fmt.Errorf("update project: %w", err)
	}
	return project, nil
}

func (service *ProjectService) DeleteProject(projectID string, organizationID string) error {
	if err := service.projects.DeleteWithTasks(projectID, organizationID); err != nil {
		return ErrProjectNotFound
	}
	return nil
}

type TaskInput struct {
	Title       string
	Description string
	Priority    string
	AssignedTo  string
	DueDate     *time.Time
}

func (service *ProjectService) CreateTask(actor *models.User, projectID string, input TaskInput) (models.Task, error) {
	if _, err := service.GetProject(projectID, actor.OrganizationID); err != nil {
		return models.Task{}, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return models.Task{}, ErrInvalidInput
	}
	if input.AssignedTo != "" {
		if _, err := service.members.FindByIDInOrganization(input.AssignedTo, actor.OrganizationID); err != nil {
			return models.Task{}, ErrUserNotFound
		}
	}
	priority := input.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}

	task := models.Task{
		ID:             uuid.NewString(),
		ProjectID:      projectID,
		OrganizationID: actor.OrganizationID,
		Title:          title,
		Description:    strings.TrimSpace(input.Description),
		Status:         models.TaskStatusTodo,
		Priority:       priority,
		AssignedTo:     input.AssignedTo,
		CreatedBy:      actor.ID,
		DueDate:        input.DueDate,
	}
	if err := service.tasks.Create(&task); err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (service *ProjectService) ListTasks(projectID string, organizationID string) ([]models.Task, error) {
	if _, err := service.GetProject(projectID, organizationID); err != nil {
		return nil, err
	}
	return service.tasks.ListByProject(projectID, organizationID)
}

func (service *ProjectService) ListMyTasks(user *models.User) ([]models.Task, error) {
	return service.tasks.ListAssignedTo(user.ID, user.OrganizationID)
}

type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	AssignedTo  *string
	DueDate     *time.Time
}

// UpdateTask lets managers change everything; an assignee may only move
// the status of their own task.
func (service *ProjectService) UpdateTask(actor *models.User, taskID string, update TaskUpdate) (models.Task, error) {
	task, err := service.tasks.FindInOrganization(taskID, actor.OrganizationID)
	if err != nil {
		return models.Task{}, ErrTaskNotFound
	}

	updates := map[string]any{}
	if actor.CanManageMembers() {
		if update.Title != nil {
			if strings.TrimSpace(*update.Title) == "" {
				return models.Task{}, ErrInvalidInput
			}
			updates["title"] = strings.TrimSpace(*update.Title)
		}
		if update.Description != nil {
			updates["description"] = strings.TrimSpace(*update.Description)
		}
		if update.Priority != nil {
			updates["priority"] = *update.Priority
		}
		if update.AssignedTo != nil {
			if *update.AssignedTo != "" {
				if _, err := service.members.FindByIDInOrganization(*update.AssignedTo, actor.OrganizationID); err != nil {
					return models.Task{}, ErrUserNotFound
				}
			}
			updates["assigned_to"] = *update.AssignedTo
		}
		if update.DueDate != nil {
			updates["due_date"] = *update.DueDate
		}
	} else if task.AssignedTo != actor.ID {
		return models.Task{}, ErrTaskNotFound
	}
	if update.Status != nil {
		status := *update.Status
		if status != models.TaskStatusTodo && status != models.TaskStatusInProgress && status != models.TaskStatusDone {
			return models.Task{}, ErrInvalidInput
		}
		updates["status"] = status
	}
	if len(updates) > 0 {
		if err := service.tasks.UpdateInOrganization(taskID, actor.OrganizationID, updates); err != nil {
			return models.Task{}, ErrTaskNotFound
		}
	}
	task, err = service.tasks.FindInOrganization(taskID, actor.OrganizationID)
	if err != nil {
		return models.Task{}, ErrTaskNotFound
	}
	return task, nil
}

func (service *ProjectService) DeleteTask(taskID string, organizationID string) error {
	if err := service.tasks.DeleteInOrganization(taskID, organizationID); err != nil {
		return ErrTaskNotFound
	}
	return nil
}
