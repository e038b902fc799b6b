package player

import (
	"time"

	"github.com/abhisek/lessonscript/internal/lessons"
)

// advanceMsg completes the presenting event when its play time is over.
// seq ties the tick to the event it was scheduled for.
type advanceMsg struct {
	seq int
}

// pollMsg asks the loading screen to check for a generated lesson.
type pollMsg time.Time

// lessonReadyMsg carries the background generation result.
type lessonReadyMsg struct {
	Result lessons.Result
}
