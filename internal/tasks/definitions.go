package tasks

// DefineTasks registers all available tasks
func DefineTasks() {
	RegisterHandler(LogInfoTask.TaskID(), LogInfoTask.HandleExecution)
	RegisterHandler(ScanOverdueInstallmentsTask.TaskID(), ScanOverdueInstallmentsTask.HandleExecution)
	RegisterHandler(SendReminderTask.TaskID(), SendReminderTask.HandleExecution)
}
