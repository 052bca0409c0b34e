package courier

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

type Status int

const (
	StatusUnknown Status = iota
	Available
	Busy
	Offline
	Emergency
)

var statusNames = map[Status]string{
	Available: "available",
	Busy:      "busy",
	Offline:   "offline",
	Emergency: "emergency",
}

func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a courier status", s))
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}
