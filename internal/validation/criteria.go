package validation

import "github.com/orionvision/orion/internal/domain"

// builtinCriteria is the default criteria table. File rules resolve their
// file path from the scenario's steps; the performance rule defaults its
// ceiling to the scenario timeout.
func builtinCriteria() map[string][]domain.ValidationRule {
	return map[string][]domain.ValidationRule{
		"file_creation": {
			{ID: "file_exists_check", Type: domain.ValidationFileExists},
			{ID: "file_content_check", Type: domain.ValidationContentMatch},
		},
		"ui_interaction": {
			{ID: "ui_visible_check", Type: domain.ValidationVisual},
		},
		"command_output": {
			{ID: "command_output_check", Type: domain.ValidationOutput},
		},
		"performance": {
			{ID: "performance_check", Type: domain.ValidationPerformance},
		},
	}
}
