package state

import "fmt"

// Validation error codes. These identify rule violations a caller can
// act on, as opposed to data problems in the campaign itself.
const (
	CodeExitNotFound           = "exit_not_found"
	CodeConditionNotMet        = "condition_not_met"
	CodeActionNotFound         = "action_not_found"
	CodeRequirementNotMet      = "requirement_not_met"
	CodeAlreadyCompleted       = "already_completed"
	CodeNotInCombat            = "not_in_combat"
	CodeCombatAlreadyActive    = "combat_already_active"
	CodeInvalidQuestTransition = "invalid_quest_transition"
)

// ValidationError reports a game action that the rules reject. The
// session state is unchanged when one is returned.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(code, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// DataIntegrityError reports a reference to something the campaign
// never defined, e.g. a relationship change for an unknown NPC. It
// points at broken campaign data rather than a bad player action.
type DataIntegrityError struct {
	Kind string `json:"kind"` // "npc", "node", "encounter", "quest", "monster"
	Ref  string `json:"ref"`
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("undefined %s %q", e.Kind, e.Ref)
}
