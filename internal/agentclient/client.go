package agentclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a typed HTTP client for the console API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new API client. The token may be empty when the
// server runs without auth.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("unexpected response (%d): %s", resp.StatusCode, raw)
	}
	if env.Code != 0 {
		return fmt.Errorf("%s (code=%d)", env.Message, env.Code)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// CreateTask creates a task.
func (c *Client) CreateTask(req CreateTaskRequest) (*Task, error) {
	var task Task
	if err := c.do(http.MethodPost, "/api/tasks", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// SetTaskStatus overwrites a task's status.
func (c *Client) SetTaskStatus(taskID int, status, reason string) (*Task, error) {
	var task Task
	body := map[string]string{"status": status, "reason": reason}
	if err := c.do(http.MethodPatch, fmt.Sprintf("/api/tasks/%d/status", taskID), body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// AddProgress appends a progress entry to a task.
func (c *Client) AddProgress(taskID int, text string) (*Task, error) {
	var task Task
	body := map[string]string{"text": text}
	if err := c.do(http.MethodPost, fmt.Sprintf("/api/tasks/%d/progress", taskID), body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// SetTaskOutput records the output artifacts of a task.
func (c *Client) SetTaskOutput(taskID int, outputFile, outputType, agentName string) (*Task, error) {
	var task Task
	body := map[string]string{
		"outputFile": outputFile,
		"outputType": outputType,
		"agentName":  agentName,
	}
	if err := c.do(http.MethodPut, fmt.Sprintf("/api/tasks/%d/output", taskID), body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetAgent fetches an agent by id or name.
func (c *Client) GetAgent(idOrName string) (*Agent, error) {
	var agent Agent
	if err := c.do(http.MethodGet, "/api/agents/"+idOrName, nil, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// AssignTask hands a task to an agent.
func (c *Client) AssignTask(idOrName string, taskID int, taskTitle string) (*Agent, error) {
	var agent Agent
	body := map[string]interface{}{"taskId": taskID, "taskTitle": taskTitle}
	if err := c.do(http.MethodPost, "/api/agents/"+idOrName+"/assign-task", body, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// CompleteTask closes an agent's engagement with the given task. A zero
// taskID closes the agent's most recent open engagement.
func (c *Client) CompleteTask(idOrName string, taskID int, output string, success bool, errMsg string) (*Agent, error) {
	var agent Agent
	body := map[string]interface{}{"output": output, "success": success, "error": errMsg}
	if taskID != 0 {
		body["taskId"] = taskID
	}
	if err := c.do(http.MethodPost, "/api/agents/"+idOrName+"/complete-task", body, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// UpdateState patches the singleton system state.
func (c *Client) UpdateState(patch StatePatch) (*SystemState, error) {
	var state SystemState
	if err := c.do(http.MethodPut, "/api/system", patch, &state); err != nil {
		return nil, err
	}
	return &state, nil
}
