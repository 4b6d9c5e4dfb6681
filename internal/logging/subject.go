package logging

import "strings"

// formatSubject builds the component/stage subject string used in console output.
func formatSubject(component, stage string) string {
	component = strings.TrimSpace(component)
	stage = strings.TrimSpace(stage)
	switch {
	case component != "" && stage != "":
		return component + " (" + stage + ")"
	case component != "":
		return component
	default:
		return stage
	}
}
