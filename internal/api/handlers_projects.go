package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vantahq/pulseboard/internal/services"
)

type projectInput struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	TeamMemberIDs []string `json:"team_member_ids"`
}

type projectUpdateInput struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Status        *string   `json:"status"`
	TeamMemberIDs *[]string `json:"team_member_ids"`
}

type taskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	AssignedTo  string     `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}

type taskUpdateInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	AssignedTo  *string    `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}

func (handler *Handler) CreateProject(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	var input projectInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	project, err := handler.projects.CreateProject(user, services.ProjectInput{
		Name:          input.Name,
		Description:   input.Description,
		TeamMemberIDs: input.TeamMemberIDs,
	})
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(projectView(project))
}

func (handler *Handler) ListProjects(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	projects, err := handler.projects.ListProjects(user.OrganizationID, c.Query("status"))
	if err != nil {
		return handler.serviceError(c, err)
	}
	views := make([]fiber.Map, 0, len(projects))
	for _, project := range projects {
		views = append(views, projectView(project))
	}
	return c.JSON(fiber.Map{"projects": views})
}

func (handler *Handler) GetProject(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	project, err := handler.projects.GetProject(c.Params("id"), user.OrganizationID)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(projectView(project))
}

func (handler *Handler) UpdateProject(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	var input projectUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	project, err := handler.projects.UpdateProject(user, c.Params("id"), services.ProjectUpdate{
		Name:          input.Name,
		Description:   input.Description,
		Status:        input.Status,
		TeamMemberIDs: input.TeamMemberIDs,
	})
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(projectView(project))
}

func (handler *Handler) DeleteProject(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	if err := handler.projects.DeleteProject(c.Params("id"), user.OrganizationID); err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) CreateTask(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	var input taskInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	task, err := handler.projects.CreateTask(user, c.Params("id"), services.TaskInput{
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		AssignedTo:  input.AssignedTo,
		DueDate:     input.DueDate,
	})
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(taskView(task))
}

func (handler *Handler) ListTasks(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	tasks, err := handler.projects.ListTasks(c.Params("id"), user.OrganizationID)
	if err != nil {
		return handler.serviceError(c, err)
	}
	views := make([]fiber.Map, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, taskView(task))
	}
	return c.JSON(fiber.Map{"tasks": views})
}

func (handler *Handler) ListMyTasks(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	tasks, err := handler.projects.ListMyTasks(user)
	if err != nil {
		return handler.serviceError(c, err)
	}
	views := make([]fiber.Map, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, taskView(task))
	}
	return c.JSON(fiber.Map{"tasks": views})
}

func (handler *Handler) UpdateTask(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	var input taskUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	task, err := handler.projects.UpdateTask(user, c.Params("taskId"), services.TaskUpdate{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		AssignedTo:  input.AssignedTo,
		DueDate:     input.DueDate,
	})
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(taskView(task))
}

func (handler *Handler) DeleteTask(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.unauthorized(c, "missing_principal", "unauthorized")
	}
	if err := handler.projects.DeleteTask(c.Params("taskId"), user.OrganizationID); err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
