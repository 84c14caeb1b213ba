package batch

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Result represents the result of a single operation in a batch
type Result struct {
	ID     string `json:"id"`
	Status string `json:"status"` // "success" or "error"
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// BatchResult represents the aggregated results of a batch operation
type BatchResult struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// ParseTaskIDs parses a parameter that can be a single task ID or an array
// of task IDs. IDs may arrive as JSON numbers or as numeric strings.
func ParseTaskIDs(param interface{}, paramName string) ([]int64, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	switch v := param.(type) {
	case float64, string:
		id, err := parseOneID(v, paramName)
		if err != nil {
			return nil, err
		}
		return []int64{id}, nil
	case []interface{}:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		result := make([]int64, 0, len(v))
		for i, item := range v {
			id, err := parseOneID(item, fmt.Sprintf("%s[%d]", paramName, i))
			if err != nil {
				return nil, err
			}
			result = append(result, id)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("%s must be a task ID or array of task IDs", paramName)
	}
}

func parseOneID(item interface{}, name string) (int64, error) {
	switch v := item.(type) {
	case float64:
		return int64(v), nil
	case string:
		if v == "" {
			return 0, fmt.Errorf("%s cannot be empty", name)
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be a numeric task ID: %q", name, v)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("%s must be a number or numeric string", name)
	}
}

// FormatResults creates a formatted JSON string from batch results
func FormatResults(results []Result) string {
	br := BatchResult{
		Total:   len(results),
		Results: results,
	}

	for _, r := range results {
		if r.Status == "success" {
			br.Successful++
		} else {
			br.Failed++
		}
	}

	jsonBytes, _ := json.MarshalIndent(br, "", "  ")
	return string(jsonBytes)
}

// ProcessBatch executes a function on each task ID and collects results
// fn should return (result string, error) for each task
func ProcessBatch(ids []int64, fn func(id int64) (string, error)) []Result {
	results := make([]Result, 0, len(ids))

	for _, id := range ids {
		res, err := fn(id)
		if err != nil {
			results = append(results, NewErrorResult(id, err))
			continue
		}
		results = append(results, NewSuccessResult(id, res))
	}

	return results
}

// NewSuccessResult creates a success result
func NewSuccessResult(id int64, message string) Result {
	return Result{
		ID:     strconv.FormatInt(id, 10),
		Status: "success",
		Result: message,
	}
}

// NewErrorResult creates an error result
func NewErrorResult(id int64, err error) Result {
	return Result{
		ID:     strconv.FormatInt(id, 10),
		Status: "error",
		Error:  err.Error(),
	}
}
