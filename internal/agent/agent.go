// Package agent applies editor actions sent as JSON by remote tools (the editor bridge)
// to the live scene.
package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Handler applies one action. Payload is the action object (e.g. {"action":"spawn", "type":"Pawn", ...}).
// Returns an error to report to the caller; the agent will still process remaining actions.
type Handler func(payload map[string]any) error

// Agent dispatches actions to registered handlers by their "action" field.
type Agent struct {
	handlers map[string]Handler
}

// New returns an Agent without handlers. Register handlers with RegisterHandler before calling Apply.
func New() *Agent {
	return &Agent{handlers: make(map[string]Handler)}
}

// RegisterHandler adds a handler for the given action type (e.g. "spawn", "run_cmd").
func (a *Agent) RegisterHandler(actionType string, h Handler) {
	a.handlers[actionType] = h
}

// Apply parses message and applies each action in order.
// Returns a short summary for the caller, or an error when message holds no actions.
func (a *Agent) Apply(message []byte) (summary string, err error) {
	actions, err := parseActions(message)
	if err != nil {
		return "", err
	}
	var applied int
	var messages []string
	for i, raw := range actions {
		payload, ok := raw.(map[string]any)
		if !ok {
			messages = append(messages, fmt.Sprintf("action %d: invalid object", i+1))
			continue
		}
		actionType, _ := payload["action"].(string)
		if actionType == "" {
			messages = append(messages, fmt.Sprintf("action %d: missing action", i+1))
			continue
		}
		h, ok := a.handlers[actionType]
		if !ok {
			messages = append(messages, fmt.Sprintf("action %d: unknown action %q", i+1, actionType))
			continue
		}
		if err := h(payload); err != nil {
			messages = append(messages, fmt.Sprintf("action %d (%s): %v", i+1, actionType, err))
			continue
		}
		applied++
	}
	if len(messages) > 0 {
		return strings.Join(messages, "; "), nil
	}
	if applied > 0 {
		return fmt.Sprintf("Done. Applied %d action(s).", applied), nil
	}
	return "No actions to apply.", nil
}

// parseActions accepts {"actions":[...]}, {"actions":{...}} or a single top-level action object.
func parseActions(message []byte) ([]any, error) {
	var raw map[string]any
	if err := json.Unmarshal(message, &raw); err != nil {
		return nil, fmt.Errorf("agent: invalid message: %w", err)
	}
	if arr, ok := raw["actions"].([]any); ok {
		return arr, nil
	}
	if obj, ok := raw["actions"].(map[string]any); ok {
		return []any{obj}, nil
	}
	if _, hasAction := raw["action"]; hasAction {
		return []any{raw}, nil
	}
	return nil, fmt.Errorf("agent: message has no \"actions\" or \"action\"")
}
