package cleanup

// Action is what a run does with the matches it found
type Action int

const (
	// ActionNone means nothing was found
	ActionNone Action = iota
	// ActionList shows the matches without deleting anything
	ActionList
	// ActionConfirm asks the user before deleting
	ActionConfirm
	// ActionDelete deletes without asking
	ActionDelete
)

// ClassifyAction decides the action for a run that found count matches
func ClassifyAction(count int, dryRun, assumeYes bool) Action {
	switch {
	case count == 0:
		return ActionNone
	case dryRun:
		return ActionList
	case assumeYes:
		return ActionDelete
	default:
		return ActionConfirm
	}
}

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionList:
		return "list"
	case ActionConfirm:
		return "confirm"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}
