// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Error kinds shared by every stage. Stages wrap these with fmt.Errorf so
// callers can classify failures with errors.Is.
var (
	// ErrConfig reports a missing or malformed topic list or configuration.
	ErrConfig = errors.New("config error")

	// ErrService reports a failed chat-completion call or an unusable reply.
	ErrService = errors.New("service error")

	// ErrParse reports that expected structured content was not found in a
	// reply.
	ErrParse = errors.New("parse error")
)
