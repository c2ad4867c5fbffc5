// Package permission decides access as composable predicates over the
// acting user, the HTTP method and, optionally, the targeted resource.
// Predicates return a structured decision instead of a bare bool so
// denial reasons survive all the way to the response.
package permission

import (
	"net/http"

	"github.com/google/uuid"

	"reviewhub/internal/entity"
	"reviewhub/pkg/apperror"
)

// Resource is anything with an owning author.
type Resource interface {
	OwnerID() uuid.UUID
}

type Request struct {
	Actor    *entity.User // nil for anonymous requests
	Method   string
	Resource Resource // nil when no object is targeted
}

type Decision struct {
	Allowed bool
	Reason  error
}

func Admit() Decision {
	return Decision{Allowed: true}
}

func Deny(reason error) Decision {
	return Decision{Reason: reason}
}

type Predicate func(Request) Decision

// SafeMethod admits read-only requests unconditionally.
func SafeMethod(req Request) Decision {
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return Admit()
	}
	return Deny(apperror.ErrForbidden)
}

func Admin(req Request) Decision {
	if req.Actor == nil {
		return Deny(apperror.ErrUnauthorized)
	}
	if req.Actor.Role != entity.RoleAdmin {
		return Deny(apperror.ErrForbidden)
	}
	return Admit()
}

func Moderator(req Request) Decision {
	if req.Actor == nil {
		return Deny(apperror.ErrUnauthorized)
	}
	if req.Actor.Role != entity.RoleModerator {
		return Deny(apperror.ErrForbidden)
	}
	return Admit()
}

// Author admits the owner of the targeted resource. Requests without a
// target (collection-level, e.g. creation) pass; ownership only exists
// per object.
func Author(req Request) Decision {
	if req.Actor == nil {
		return Deny(apperror.ErrUnauthorized)
	}
	if req.Resource == nil {
		return Admit()
	}
	if req.Resource.OwnerID() != req.Actor.ID {
		return Deny(apperror.ErrForbidden)
	}
	return Admit()
}

// HasUsername gates creation: a user must pick a username before
// posting reviews or comments.
func HasUsername(req Request) Decision {
	if req.Method != http.MethodPost {
		return Admit()
	}
	if req.Actor == nil {
		return Deny(apperror.ErrUnauthorized)
	}
	if !req.Actor.HasUsername() {
		return Deny(apperror.ErrUsernameRequired)
	}
	return Admit()
}

// AnyOf admits if at least one predicate admits; evaluation stops at
// the first admission. Otherwise the first denial reason is surfaced.
func AnyOf(preds ...Predicate) Predicate {
	return func(req Request) Decision {
		var first Decision
		for i, p := range preds {
			d := p(req)
			if d.Allowed {
				return d
			}
			if i == 0 {
				first = d
			}
		}
		return first
	}
}

// AllOf admits only if every predicate admits; evaluation stops at the
// first denial.
func AllOf(preds ...Predicate) Predicate {
	return func(req Request) Decision {
		for _, p := range preds {
			if d := p(req); !d.Allowed {
				return d
			}
		}
		return Admit()
	}
}

// Policies, matching the resource surfaces they guard.
var (
	// AdminOnly guards user administration.
	AdminOnly = Predicate(Admin)

	// AdminOrReadOnly guards category, genre and title mutation.
	AdminOrReadOnly = AnyOf(Admin, SafeMethod)

	// ContentPolicy guards review and comment mutation.
	ContentPolicy = AllOf(
		AnyOf(Admin, Moderator, Author, SafeMethod),
		HasUsername,
	)
)

// Check evaluates a predicate and converts a denial into its reason.
func Check(p Predicate, req Request) error {
	if d := p(req); !d.Allowed {
		return d.Reason
	}
	return nil
}
