package build

import "fmt"

// Stage names.
const (
	StagePrepare  = "prepare"
	StageTraverse = "traverse"
	StageSort     = "sort"
	StageArchive  = "archive"
	StageFeed     = "feed"
	StageNews     = "news"
)

// StageError records which stage a build failed in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
