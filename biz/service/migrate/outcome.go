package migrate

import (
	"fmt"

	"github.com/yi-nology/satimage_bridge/pkg/config"
)

// Outcome tells the scene processor what to do after a stage.
type Outcome int

const (
	// Continue moves on to the next stage of the same record.
	Continue Outcome = iota
	// SkipRecord drops the current record and moves to the next one.
	SkipRecord
	// AbortArchive stops processing the remaining records of the archive.
	AbortArchive
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case SkipRecord:
		return "skip_record"
	case AbortArchive:
		return "abort_archive"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// StopPolicy decides what happens when a product is already in the store.
type StopPolicy interface {
	OnDuplicate(productID string) Outcome
}

// StopPolicyFunc adapts a plain function to StopPolicy.
type StopPolicyFunc func(productID string) Outcome

func (f StopPolicyFunc) OnDuplicate(productID string) Outcome { return f(productID) }

var (
	// AbortOnDuplicate treats an existing product as the point where a previous run got to
	// and leaves the rest of the archive untouched.
	AbortOnDuplicate StopPolicy = StopPolicyFunc(func(string) Outcome { return AbortArchive })
	// SkipDuplicates ignores existing products and keeps going.
	SkipDuplicates StopPolicy = StopPolicyFunc(func(string) Outcome { return SkipRecord })
)

// PolicyFor maps migration.on_duplicate to a StopPolicy.
func PolicyFor(onDuplicate string) (StopPolicy, error) {
	switch onDuplicate {
	case "", config.OnDuplicateAbortArchive:
		return AbortOnDuplicate, nil
	case config.OnDuplicateSkipRecord:
		return SkipDuplicates, nil
	default:
		return nil, fmt.Errorf("unsupported duplicate policy %q", onDuplicate)
	}
}
