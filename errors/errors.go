package errors

import "fmt"

var (
	ErrWorkerPanic     = fmt.Errorf("worker panic")
	ErrDuplicateStroke = fmt.Errorf("stroke id already active")
	ErrUnknownEvent    = fmt.Errorf("unknown event kind")
)
