package models

// TransitionPolicy decides whether an application may move between statuses.
//
// Permissive (the default) lets any status follow any other, including
// moving an accepted or rejected application back to applied.
//
// Strict is forward-only:
//
//	applied ──► reviewed ──► accepted
//	   │            │
//	   └────────────┴──────► rejected
//
// applied may also jump straight to accepted. accepted and rejected are terminal.
//
// In both policies a self-transition is allowed; callers treat it as a no-op.
type TransitionPolicy interface {
	Allowed(from, to ApplicationStatus) bool
}

type permissive struct{}

func (permissive) Allowed(_, _ ApplicationStatus) bool { return true }

type strict struct{}

var forwardTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusApplied:  {StatusReviewed, StatusAccepted, StatusRejected},
	StatusReviewed: {StatusAccepted, StatusRejected},
}

func (strict) Allowed(from, to ApplicationStatus) bool {
	if from == to {
		return true
	}
	for _, s := range forwardTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

var (
	PermissiveTransitions TransitionPolicy = permissive{}
	StrictTransitions     TransitionPolicy = strict{}
)

// TransitionPolicyFor maps the APPLICATION_STRICT_TRANSITIONS flag to a policy.
func TransitionPolicyFor(strictMode bool) TransitionPolicy {
	if strictMode {
		return StrictTransitions
	}
	return PermissiveTransitions
}
