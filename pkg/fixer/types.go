//go:generate mockgen -destination=./mocks/fixer.go . Chowner

package fixer

import (
	"os"

	"github.com/glorpus-work/permfix/pkg/classify"
	"github.com/glorpus-work/permfix/pkg/owner"
	"github.com/glorpus-work/permfix/pkg/policy"
	"github.com/spf13/afero"
)

// Chowner changes ownership of a single path.
type Chowner interface {
	Chown(name string, uid, gid int) error
}

// LchownChowner changes ownership on the local filesystem without
// following a symlink that replaced the entry after it was listed.
type LchownChowner struct{}

// Chown calls os.Lchown.
func (LchownChowner) Chown(name string, uid, gid int) error {
	return os.Lchown(name, uid, gid)
}

// Fixer normalizes permissions below a root. Nil fields fall back to
// defaults: the OS filesystem, the default classifier and policy, and the
// filesystem itself as Chowner.
type Fixer struct {
	Fs         afero.Fs
	Classifier *classify.Classifier
	Policy     *policy.Policy
	Chowner    Chowner
	Hooks      Hooks // Hooks for progress and event notifications
}

// Options control one run.
type Options struct {
	DryRun        bool
	PruneExcluded bool
	// Owner enables the ownership pass when non-nil.
	Owner *owner.IDs
}

// Event phases.
const (
	PhaseStart     = "start"
	PhaseSpecial   = "special-files"
	PhaseOwnership = "ownership"
	PhaseChange    = "change"
	PhaseChown     = "chown"
	PhaseSkip      = "skip"
	PhaseError     = "error"
	PhaseDone      = "done"
)

// Event represents a simple progress notification.
type Event struct {
	Phase string
	Path  string
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}
