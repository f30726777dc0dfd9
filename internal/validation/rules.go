package validation

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/orionvision/orion/internal/domain"
)

// resolveParams merges rule parameters with values harvested from the
// scenario. Built-in criteria carry no file path of their own, so file
// rules inherit it from the first step that names one; performance rules
// default their ceiling to the scenario timeout.
func resolveParams(rule domain.ValidationRule, scenario *domain.Scenario, _ *domain.ScenarioResult) map[string]any {
	params := make(map[string]any, len(rule.Parameters)+2)
	for k, v := range rule.Parameters {
		params[k] = v
	}

	if scenario == nil {
		return params
	}

	if _, ok := params["filename"]; !ok {
		for _, step := range scenario.Steps {
			if fp, ok := step.Parameters["filename"].(string); ok && fp != "" {
				params["filename"] = fp
				break
			}
		}
	}
	if _, ok := params["expected_content"]; !ok {
		for _, step := range scenario.Steps {
			if c, ok := step.Parameters["content"].(string); ok && c != "" {
				params["expected_content"] = c
				break
			}
		}
	}
	if _, ok := params["max_execution_time"]; !ok && scenario.Timeout > 0 {
		params["max_execution_time"] = scenario.Timeout
	}
	return params
}

func checkFileExists(params map[string]any) domain.ValidationResult {
	filePath, _ := params["filename"].(string)
	if filePath == "" {
		return domain.ValidationResult{Success: false, Message: "file_exists rule has no filename"}
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return domain.ValidationResult{
			Success: false,
			Message: fmt.Sprintf("file %s does not exist", filePath),
		}
	}
	return domain.ValidationResult{
		Success: true,
		Message: fmt.Sprintf("file %s exists", filePath),
		Details: map[string]any{"size": info.Size()},
	}
}

// checkContentMatch reads the file and checks substring containment of the
// expected content. Containment, not equality, matches how editors append
// trailing newlines.
func checkContentMatch(params map[string]any) domain.ValidationResult {
	filePath, _ := params["filename"].(string)
	expected, _ := params["expected_content"].(string)
	if filePath == "" {
		return domain.ValidationResult{Success: false, Message: "content_match rule has no filename"}
	}

	data, err := os.ReadFile(filePath) //nolint:gosec // path comes from the scenario definition
	if err != nil {
		return domain.ValidationResult{
			Success: false,
			Message: fmt.Sprintf("cannot read %s: %v", filePath, err),
		}
	}

	if !strings.Contains(string(data), expected) {
		return domain.ValidationResult{
			Success: false,
			Message: fmt.Sprintf("file %s does not contain expected content", filePath),
			Details: map[string]any{"expected": expected, "actual_length": len(data)},
		}
	}
	return domain.ValidationResult{
		Success: true,
		Message: fmt.Sprintf("file %s contains expected content", filePath),
	}
}

// checkVisual delegates to the screen controller and succeeds when a
// matching element was found.
func (e *Engine) checkVisual(ctx context.Context, params map[string]any) domain.ValidationResult {
	if e.screen == nil {
		return domain.ValidationResult{Success: false, Message: "no screen controller configured"}
	}

	res := e.screen.CaptureAndAnalyze(ctx, params)
	if !res.Success {
		return domain.ValidationResult{Success: false, Message: res.Error}
	}

	found, _ := res.Details["found"].(bool)
	elementType, _ := params["element_type"].(string)
	if elementType == "" {
		elementType = "any"
	}
	if !found {
		return domain.ValidationResult{
			Success: false,
			Message: fmt.Sprintf("no %s element visible", elementType),
			Details: res.Details,
		}
	}
	return domain.ValidationResult{
		Success: true,
		Message: fmt.Sprintf("%s element visible", elementType),
		Details: res.Details,
	}
}

// checkOutput scans the step records for terminal output and compares it
// against expected values. No terminal output anywhere is a normal failure,
// not an error.
func checkOutput(params map[string]any, result *domain.ScenarioResult) domain.ValidationResult {
	if result == nil {
		return domain.ValidationResult{Success: false, Message: "output_verification needs a scenario result"}
	}

	expectedOutput, _ := params["expected_output"].(string)
	expectedCode, hasCode := intValue(params["expected_return_code"])

	sawOutput := false
	for _, record := range result.StepRecords {
		if record.Output == "" {
			continue
		}
		sawOutput = true

		if expectedOutput != "" && !strings.Contains(record.Output, expectedOutput) {
			continue
		}
		if hasCode && record.ReturnCode != expectedCode {
			continue
		}
		return domain.ValidationResult{
			Success: true,
			Message: fmt.Sprintf("step %s output matched", record.StepID),
			Details: map[string]any{"step_id": record.StepID, "return_code": record.ReturnCode},
		}
	}

	if !sawOutput {
		return domain.ValidationResult{
			Success: false,
			Message: "no step produced terminal output",
		}
	}
	return domain.ValidationResult{
		Success: false,
		Message: "no step output matched the expected values",
	}
}

func checkPerformance(params map[string]any, result *domain.ScenarioResult) domain.ValidationResult {
	if result == nil {
		return domain.ValidationResult{Success: false, Message: "performance_check needs a scenario result"}
	}

	maxTime := durationValue(params["max_execution_time"])
	if maxTime <= 0 {
		return domain.ValidationResult{Success: false, Message: "performance_check has no max_execution_time"}
	}

	if result.ExecutionTime > maxTime {
		return domain.ValidationResult{
			Success: false,
			Message: fmt.Sprintf("execution took %s, limit is %s", result.ExecutionTime, maxTime),
			Details: map[string]any{"execution_time": result.ExecutionTime.String(), "limit": maxTime.String()},
		}
	}
	return domain.ValidationResult{
		Success: true,
		Message: fmt.Sprintf("execution finished within %s", maxTime),
	}
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func durationValue(v any) time.Duration {
	switch d := v.(type) {
	case time.Duration:
		return d
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0
		}
		return parsed
	case int:
		return time.Duration(d) * time.Second
	case int64:
		return time.Duration(d) * time.Second
	case float64:
		return time.Duration(d * float64(time.Second))
	default:
		return 0
	}
}
