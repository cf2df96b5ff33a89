package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"team-task-backend/internal/api/handlers"
	"team-task-backend/internal/database/models"
	apperrors "team-task-backend/internal/errors"
	"team-task-backend/internal/mocks"
	"team-task-backend/internal/service"
	"team-task-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *mocks.MockTaskServiceInterface
	httpSuite   *testutils.HTTPTestSuite
	actor       uuid.UUID
}

// SetupTest sets up the test suite
func (suite *TaskHandlerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockService = mocks.NewMockTaskServiceInterface(suite.ctrl)
	suite.actor = uuid.New()

	handler := handlers.NewTaskHandler(suite.mockService)
	suite.httpSuite = testutils.SetupAuthenticatedHTTPTest(suite.actor)
	tasks := suite.httpSuite.Router.Group("/api/tasks")
	{
		tasks.GET("", handler.ListTasks)
		tasks.POST("", handler.CreateTask)
		tasks.GET("/:id", handler.GetTask)
		tasks.PUT("/:id", handler.UpdateTask)
		tasks.PATCH("/:id/status", handler.UpdateTaskStatus)
		tasks.DELETE("/:id", handler.DeleteTask)
	}
}

// TearDownTest cleans up after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *TaskHandlerTestSuite) TestCreateTask() {
	teamID := uuid.New()

	suite.T().Run("Success", func(t *testing.T) {
		suite.mockService.EXPECT().
			CreateTask(gomock.Any(), suite.actor, gomock.Any()).
			DoAndReturn(func(_ interface{}, _ uuid.UUID, req *service.CreateTaskRequest) (*service.TaskResponse, error) {
				assert.Equal(t, teamID, req.TeamID)
				assert.Equal(t, "Fix bug", req.Title)
				assert.Equal(t, models.TaskPriorityHigh, req.Priority)
				return &service.TaskResponse{ID: uuid.New(), Title: "Fix bug", Status: models.TaskStatusTodo}, nil
			})

		recorder := suite.httpSuite.MakeRequest(http.MethodPost, "/api/tasks", map[string]interface{}{
			"team_id":  teamID.String(),
			"title":    "Fix bug",
			"priority": "high",
		})

		var response service.TaskResponse
		testutils.AssertJSONResponse(t, recorder, http.StatusCreated, &response)
		assert.Equal(t, models.TaskStatusTodo, response.Status)
	})

	suite.T().Run("Invalid assignee", func(t *testing.T) {
		suite.mockService.EXPECT().
			CreateTask(gomock.Any(), suite.actor, gomock.Any()).
			Return(nil, apperrors.ErrInvalidAssignee)

		recorder := suite.httpSuite.MakeRequest(http.MethodPost, "/api/tasks", map[string]interface{}{
			"team_id":     teamID.String(),
			"title":       "Fix bug",
			"assigned_to": uuid.NewString(),
		})
		testutils.AssertErrorResponse(t, recorder, http.StatusBadRequest, "not a member of this team")
	})

	suite.T().Run("Malformed team ID", func(t *testing.T) {
		recorder := suite.httpSuite.MakeRawRequest(http.MethodPost, "/api/tasks", `{"team_id": "eng", "title": "x"}`)
		testutils.AssertErrorResponse(t, recorder, http.StatusBadRequest, "invalid request body")
	})
}

func (suite *TaskHandlerTestSuite) TestListTasks() {
	teamID := uuid.New()
	assignee := uuid.New()

	suite.T().Run("Filters from query", func(t *testing.T) {
		suite.mockService.EXPECT().ListTasks(gomock.Any(), suite.actor, service.TaskListFilter{
			TeamID:     &teamID,
			AssignedTo: &assignee,
			Status:     "review",
			Priority:   "urgent",
			Search:     "bug",
		}).Return([]service.TaskResponse{{ID: uuid.New()}}, nil)

		url := fmt.Sprintf("/api/tasks?team_id=%s&assigned_to=%s&status=review&priority=urgent&search=bug", teamID, assignee)
		recorder := suite.httpSuite.MakeRequest(http.MethodGet, url, nil)

		var response []service.TaskResponse
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Len(t, response, 1)
	})

	suite.T().Run("Empty result is an empty array", func(t *testing.T) {
		suite.mockService.EXPECT().ListTasks(gomock.Any(), suite.actor, service.TaskListFilter{}).Return([]service.TaskResponse{}, nil)

		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/api/tasks", nil)
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, "[]", recorder.Body.String())
	})

	suite.T().Run("Invalid team filter", func(t *testing.T) {
		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/api/tasks?team_id=eng", nil)
		testutils.AssertErrorResponse(t, recorder, http.StatusBadRequest, "invalid team ID")
	})

	suite.T().Run("Invalid status filter", func(t *testing.T) {
		suite.mockService.EXPECT().ListTasks(gomock.Any(), suite.actor, gomock.Any()).
			Return(nil, apperrors.NewValidationError("status", "must be one of: todo in_progress review completed"))

		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/api/tasks?status=pending", nil)
		testutils.AssertErrorResponse(t, recorder, http.StatusBadRequest, "status")
	})
}

func (suite *TaskHandlerTestSuite) TestGetTask() {
	taskID := uuid.New()
	suite.mockService.EXPECT().GetTask(gomock.Any(), suite.actor, taskID).Return(nil, apperrors.ErrTaskNotFound)

	recorder := suite.httpSuite.MakeRequest(http.MethodGet, fmt.Sprintf("/api/tasks/%s", taskID), nil)
	testutils.AssertErrorResponse(suite.T(), recorder, http.StatusNotFound, "task not found")
}

func (suite *TaskHandlerTestSuite) TestUpdateTask() {
	taskID := uuid.New()

	suite.T().Run("Explicit nulls and omitted fields", func(t *testing.T) {
		suite.mockService.EXPECT().
			UpdateTask(gomock.Any(), suite.actor, taskID, gomock.Any()).
			DoAndReturn(func(_ interface{}, _, _ uuid.UUID, req *service.UpdateTaskRequest) (*service.TaskResponse, error) {
				assert.True(t, req.AssignedTo.Set)
				assert.Nil(t, req.AssignedTo.Value)
				assert.False(t, req.DueDate.Set)
				assert.False(t, req.Description.Set)
				assert.Equal(t, "Renamed", *req.Title)
				return &service.TaskResponse{ID: taskID, Title: "Renamed"}, nil
			})

		recorder := suite.httpSuite.MakeRawRequest(http.MethodPut, fmt.Sprintf("/api/tasks/%s", taskID),
			`{"title": "Renamed", "assigned_to": null}`)
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, nil)
	})

	suite.T().Run("Not found", func(t *testing.T) {
		suite.mockService.EXPECT().
			UpdateTask(gomock.Any(), suite.actor, taskID, gomock.Any()).
			Return(nil, apperrors.ErrTaskNotFound)

		recorder := suite.httpSuite.MakeRawRequest(http.MethodPut, fmt.Sprintf("/api/tasks/%s", taskID), `{"title": "x"}`)
		testutils.AssertErrorResponse(t, recorder, http.StatusNotFound, "task not found")
	})
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskStatus() {
	taskID := uuid.New()
	suite.mockService.EXPECT().
		UpdateTaskStatus(gomock.Any(), suite.actor, taskID, &service.UpdateTaskStatusRequest{Status: models.TaskStatusCompleted}).
		Return(&service.TaskResponse{ID: taskID, Status: models.TaskStatusCompleted}, nil)

	recorder := suite.httpSuite.MakeRequest(http.MethodPatch, fmt.Sprintf("/api/tasks/%s/status", taskID),
		map[string]interface{}{"status": "completed"})

	var response service.TaskResponse
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusOK, &response)
	suite.Equal(models.TaskStatusCompleted, response.Status)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	taskID := uuid.New()

	suite.T().Run("Forbidden for other members", func(t *testing.T) {
		suite.mockService.EXPECT().DeleteTask(gomock.Any(), suite.actor, taskID).Return(apperrors.ErrCannotDeleteTask)

		recorder := suite.httpSuite.MakeRequest(http.MethodDelete, fmt.Sprintf("/api/tasks/%s", taskID), nil)
		testutils.AssertErrorResponse(t, recorder, http.StatusForbidden, "task creator")
	})

	suite.T().Run("Success", func(t *testing.T) {
		suite.mockService.EXPECT().DeleteTask(gomock.Any(), suite.actor, taskID).Return(nil)

		recorder := suite.httpSuite.MakeRequest(http.MethodDelete, fmt.Sprintf("/api/tasks/%s", taskID), nil)
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, nil)
	})
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
