package command

import (
	"github.com/ergomake/layeredit/internal/editing"
	"github.com/ergomake/layeredit/internal/persistence"
)

// PromptDialog answers both lifecycle questions and save path requests.
type PromptDialog interface {
	editing.PromptService
	persistence.FileDialogService
}
