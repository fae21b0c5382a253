package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"fiftytwo-go/app/controllers"
)

// RegisterRoutes sets up all routes for the application.
func RegisterRoutes(router *mux.Router, taskController *controllers.TaskController, stateController *controllers.StateController) {
	router.HandleFunc("/tasks", taskController.GetTasks).Methods(http.MethodGet)
	router.HandleFunc("/tasks", taskController.CreateTask).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{taskID}", taskController.DeleteTask).Methods(http.MethodDelete)
	router.HandleFunc("/tasks/{taskID}/toggle", taskController.ToggleTask).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{taskID}/subtasks", taskController.CreateSubtask).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{taskID}/subtasks/{subtaskID}/toggle", taskController.ToggleSubtask).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{taskID}/subtasks/{subtaskID}", taskController.DeleteSubtask).Methods(http.MethodDelete)

	router.HandleFunc("/metrics", taskController.GetMetrics).Methods(http.MethodGet)

	router.HandleFunc("/rollover", stateController.GetRollover).Methods(http.MethodGet)
	router.HandleFunc("/rollover/{choice}", stateController.ResolveRollover).Methods(http.MethodPost)
	router.HandleFunc("/summaries", stateController.GetSummaries).Methods(http.MethodGet)
	router.HandleFunc("/checkin", stateController.GetCheckin).Methods(http.MethodGet)
	router.HandleFunc("/checkin", stateController.AcknowledgeCheckin).Methods(http.MethodPost)
	router.HandleFunc("/theme", stateController.GetTheme).Methods(http.MethodGet)
	router.HandleFunc("/theme", stateController.SetTheme).Methods(http.MethodPut)
}
