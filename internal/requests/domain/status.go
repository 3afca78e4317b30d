// Package domain provides core business rules for the requests bounded context:
// the request status machine, actor roles, and the commission ledger arithmetic.
package domain

// Status is the canonical lifecycle state of a service request.
type Status string

const (
	StatusSubmitted                Status = "Submitted"
	StatusUnderReview              Status = "UnderReview"
	StatusQuoted                   Status = "Quoted"
	StatusAccepted                 Status = "Accepted"
	StatusInProgress               Status = "InProgress"
	StatusFinishedByProfessional   Status = "FinishedByProfessional"
	StatusCompleted                Status = "Completed"
	StatusCancelled                Status = "Cancelled"
)

// Role identifies the kind of actor driving a transition.
type Role string

const (
	RoleCustomer     Role = "customer"
	RoleProfessional Role = "professional"
	RoleAdmin        Role = "admin"
)

// ProfessionalKind selects the payment-gate policy applied to a professional.
type ProfessionalKind string

const (
	KindProfessional ProfessionalKind = "professional"
	KindSupplier     ProfessionalKind = "supplier"
)

// Rule describes who may perform a transition and whether the payment gate
// must be consulted first.
type Rule struct {
	// Assignee allows the assigned professional. For Submitted -> UnderReview
	// an unclaimed request is claimable by any professional, which the engine
	// resolves via the claim compare-and-swap.
	Assignee bool
	// Customer allows the owning customer.
	Customer bool
	// Admin allows platform administrators.
	Admin bool
	// Gated requires PaymentGate clearance for the acting professional.
	Gated bool
}

// transitions is the closed allowed-transition table. A (from, to) pair absent
// from this table is invalid for every actor.
var transitions = map[Status]map[Status]Rule{
	StatusSubmitted: {
		StatusUnderReview: {Assignee: true, Gated: true},
		StatusCancelled:   {Assignee: true, Admin: true},
	},
	StatusUnderReview: {
		StatusQuoted:    {Assignee: true, Gated: true},
		StatusCancelled: {Assignee: true, Admin: true},
	},
	StatusQuoted: {
		StatusAccepted:  {Customer: true, Admin: true},
		StatusCancelled: {Assignee: true, Customer: true, Admin: true},
	},
	StatusAccepted: {
		StatusInProgress: {Assignee: true},
	},
	StatusInProgress: {
		StatusFinishedByProfessional: {Assignee: true},
	},
	StatusFinishedByProfessional: {
		StatusCompleted: {Customer: true, Admin: true},
		// Corrective downgrade: lets an admin reopen a finished request so it
		// can be re-quoted. The downgrade clears quote and ledger fields.
		StatusUnderReview: {Admin: true},
	},
}

// RuleFor returns the guard rule for a (from, to) transition.
// ok is false when the transition is not in the table.
func RuleFor(from, to Status) (Rule, bool) {
	targets, ok := transitions[from]
	if !ok {
		return Rule{}, false
	}
	rule, ok := targets[to]
	return rule, ok
}

// Allows reports whether the rule admits the given role.
func (r Rule) Allows(role Role) bool {
	switch role {
	case RoleProfessional:
		return r.Assignee
	case RoleCustomer:
		return r.Customer
	case RoleAdmin:
		return r.Admin
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions exist from the status.
func IsTerminal(s Status) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// HasQuote reports whether a request in this status has passed through the
// quoting transition without regressing. Quote fields must be set exactly in
// these states.
func HasQuote(s Status) bool {
	switch s {
	case StatusQuoted, StatusAccepted, StatusInProgress, StatusFinishedByProfessional, StatusCompleted:
		return true
	default:
		return false
	}
}

// CarriesCommission reports whether the commission ledger entry may be
// populated in this status.
func CarriesCommission(s Status) bool {
	return s == StatusFinishedByProfessional || s == StatusCompleted
}

// ValidStatus reports whether the value is a member of the canonical enum.
func ValidStatus(s Status) bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusQuoted, StatusAccepted,
		StatusInProgress, StatusFinishedByProfessional, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// ValidKind reports whether the value is a known professional kind.
func ValidKind(k ProfessionalKind) bool {
	return k == KindProfessional || k == KindSupplier
}

// legacyStatuses maps the retired Spanish vocabulary still present in old
// records to the canonical enum. Used only by the one-time store migration;
// core logic never sees legacy values.
var legacyStatuses = map[string]Status{
	"Enviada":    StatusSubmitted,
	"Revisando":  StatusUnderReview,
	"Cotizada":   StatusQuoted,
	"Programada": StatusAccepted,
	"Completada": StatusCompleted,
	"Cancelada":  StatusCancelled,
}

// FromLegacy translates a legacy vocabulary value to the canonical enum.
func FromLegacy(value string) (Status, bool) {
	s, ok := legacyStatuses[value]
	return s, ok
}
