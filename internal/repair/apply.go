package repair

import (
	"fmt"
	"os"
	"path/filepath"
)

// FailedAction pairs an action with the error that prevented applying it.
type FailedAction struct {
	Action FixAction `json:"action"`
	Err    string    `json:"error"`
}

// FixResult reports the outcome of applying a plan.
type FixResult struct {
	Applied []FixAction    `json:"applied"`
	Failed  []FailedAction `json:"failed"`
}

// Apply writes a plan's proposed contents under root. Each action is
// applied independently: a failure is recorded and processing continues
// with the remaining actions. Writes go through a temp-file rename so a
// failed write never leaves a half-written document.
func Apply(root string, plan *FixPlan) *FixResult {
	result := &FixResult{}
	for _, action := range plan.Actions {
		if err := applyOne(root, action); err != nil {
			result.Failed = append(result.Failed, FailedAction{Action: action, Err: err.Error()})
			continue
		}
		result.Applied = append(result.Applied, action)
	}
	return result
}

func applyOne(root string, action FixAction) error {
	abs := filepath.Join(root, filepath.FromSlash(action.Path))

	if action.Create {
		if _, err := os.Stat(abs); err == nil {
			return fmt.Errorf("stub target already exists: %s", action.Path)
		}
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
		return atomicWrite(abs, action.Proposed)
	}

	if err := atomicWrite(abs, action.Proposed); err != nil {
		return fmt.Errorf("write %s: %w", action.Path, err)
	}
	return nil
}

// atomicWrite writes content to a file via a temp file rename.
func atomicWrite(path, content string) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
