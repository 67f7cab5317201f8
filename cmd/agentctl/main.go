package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"agent_console/internal/agentclient"
	"agent_console/internal/model"
)

const usage = `Usage: agentctl <command> [args]

Commands:
  start    <agent> <title> [description]
  progress <agent> <taskId> <text>
  complete <agent> <taskId> <title> <result> [outputFile] [outputType]
  fail     <agent> <taskId> <title> <error>
  block    <taskId> <reason>
  state    <mode> <decision> [confidence]
  status   <agent>

Environment:
  CONSOLE_URL    API base URL (default http://localhost:3000)
  CONSOLE_TOKEN  bearer token when the server runs with auth
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	baseURL := os.Getenv("CONSOLE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	client := agentclient.NewClient(baseURL, os.Getenv("CONSOLE_TOKEN"))

	var (
		result interface{}
		err    error
	)

	switch cmd := os.Args[1]; cmd {
	case "start":
		result, err = runStart(client, os.Args[2:])
	case "progress":
		result, err = runProgress(client, os.Args[2:])
	case "complete":
		result, err = runComplete(client, os.Args[2:], true)
	case "fail":
		result, err = runComplete(client, os.Args[2:], false)
	case "block":
		result, err = runBlock(client, os.Args[2:])
	case "state":
		result, err = runState(client, os.Args[2:])
	case "status":
		result, err = runStatus(client, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	if err != nil {
		fail(err)
	}
	print1(result)
}

// print1 writes the result as a single JSON line.
func print1(v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		fail(err)
	}
	fmt.Println(string(raw))
}

func fail(err error) {
	raw, _ := json.Marshal(map[string]string{"error": err.Error()})
	fmt.Fprintln(os.Stderr, string(raw))
	os.Exit(1)
}

func runStart(client *agentclient.Client, args []string) (interface{}, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: start <agent> <title> [description]")
	}
	agentName, title := args[0], args[1]
	description := ""
	if len(args) > 2 {
		description = args[2]
	}

	task, err := client.CreateTask(agentclient.CreateTaskRequest{
		Title:       title,
		Description: description,
		Status:      model.TaskStatusActive,
		Source:      model.TaskSourceCore,
		AssignedTo:  agentName,
	})
	if err != nil {
		return nil, err
	}

	agent, err := client.AssignTask(agentName, task.ID, title)
	if err != nil {
		return nil, err
	}

	mode := model.ModeExecuting
	if _, err := client.UpdateState(agentclient.StatePatch{
		CurrentMode:  &mode,
		ActiveTaskID: &task.ID,
	}); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"taskId":      task.ID,
		"agentStatus": agent.Status,
		"success":     true,
	}, nil
}

func runProgress(client *agentclient.Client, args []string) (interface{}, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("usage: progress <agent> <taskId> <text>")
	}
	taskID, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, fmt.Errorf("taskId must be numeric")
	}
	task, err := client.AddProgress(taskID, args[2])
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"taskId":   task.ID,
		"progress": len(task.ProgressUpdates),
		"success":  true,
	}, nil
}

func runComplete(client *agentclient.Client, args []string, success bool) (interface{}, error) {
	if len(args) < 4 {
		verb := "complete"
		tail := "<result> [outputFile] [outputType]"
		if !success {
			verb = "fail"
			tail = "<error>"
		}
		return nil, fmt.Errorf("usage: %s <agent> <taskId> <title> %s", verb, tail)
	}
	agentName := args[0]
	taskID, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, fmt.Errorf("taskId must be numeric")
	}
	outcome := args[3]

	var agent *agentclient.Agent
	if success {
		agent, err = client.CompleteTask(agentName, taskID, outcome, true, "")
	} else {
		agent, err = client.CompleteTask(agentName, taskID, "", false, outcome)
	}
	if err != nil {
		return nil, err
	}

	if success && len(args) > 4 {
		outputType := ""
		if len(args) > 5 {
			outputType = args[5]
		}
		if _, err := client.SetTaskOutput(taskID, args[4], outputType, agentName); err != nil {
			return nil, err
		}
	}

	return map[string]interface{}{
		"taskId":      taskID,
		"agentStatus": agent.Status,
		"successRate": agent.Metrics.SuccessRate,
		"success":     true,
	}, nil
}

func runBlock(client *agentclient.Client, args []string) (interface{}, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: block <taskId> <reason>")
	}
	taskID, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("taskId must be numeric")
	}
	reason := args[1]

	task, err := client.SetTaskStatus(taskID, model.TaskStatusBlocked, reason)
	if err != nil {
		return nil, err
	}

	mode := model.ModeBlocked
	if _, err := client.UpdateState(agentclient.StatePatch{CurrentMode: &mode}); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"taskId":  task.ID,
		"status":  task.Status,
		"success": true,
	}, nil
}

func runState(client *agentclient.Client, args []string) (interface{}, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: state <mode> <decision> [confidence]")
	}
	mode, decision := args[0], args[1]
	patch := agentclient.StatePatch{
		CurrentMode:  &mode,
		CoreDecision: &decision,
	}
	if len(args) > 2 {
		confidence, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, fmt.Errorf("confidence must be numeric")
		}
		patch.Confidence = &confidence
	}

	state, err := client.UpdateState(patch)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"mode":    state.CurrentMode,
		"success": true,
	}, nil
}

func runStatus(client *agentclient.Client, args []string) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: status <agent>")
	}
	return client.GetAgent(args[0])
}
