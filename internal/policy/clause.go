package policy

import (
	"sort"
	"strings"

	"github.com/medref/medref/internal/shared"
)

// Action is a named operation on a resource.
type Action string

// Canonical actions shared by every resource kind.
const (
	ActionViewAny Action = "viewAny"
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
)

// Ambulance actions.
const (
	ActionDispatch       Action = "dispatch"
	ActionUpdateLocation Action = "updateLocation"
	ActionViewTracking   Action = "viewTracking"
	ActionManageCrew     Action = "manageCrew"
)

// Referral actions.
const (
	ActionAccept            Action = "accept"
	ActionReject            Action = "reject"
	ActionDispatchAmbulance Action = "dispatchAmbulance"
)

// User actions.
const (
	ActionUpdateStatus     Action = "updateStatus"
	ActionResetPassword    Action = "resetPassword"
	ActionRestore          Action = "restore"
	ActionForceDelete      Action = "forceDelete"
	ActionBulkAction       Action = "bulkAction"
	ActionCreateSuperAdmin Action = "createSuperAdmin"
)

// Patient actions.
const (
	ActionViewMedicalRecords Action = "viewMedicalRecords"
)

// RoleSet is the role component of a clause.
type RoleSet struct {
	label  string
	anyone bool
	roles  map[string]struct{}
}

// Roles matches exactly the listed role slugs.
func Roles(slugs ...string) RoleSet {
	set := RoleSet{roles: make(map[string]struct{}, len(slugs))}
	for _, s := range slugs {
		set.roles[s] = struct{}{}
	}
	set.label = strings.Join(slugs, ",")
	return set
}

// AllRolesExcept matches every known role except the listed ones. The
// complement is taken against shared.KnownRoles when the table is built, so
// a role slug added later is not matched until a rule names it.
func AllRolesExcept(excluded ...string) RoleSet {
	skip := make(map[string]struct{}, len(excluded))
	for _, e := range excluded {
		skip[e] = struct{}{}
	}
	var included []string
	for _, r := range shared.KnownRoles() {
		if _, ok := skip[r]; ok {
			continue
		}
		included = append(included, r)
	}
	set := Roles(included...)
	set.label = "*-" + strings.Join(excluded, ",")
	return set
}

// Anyone matches any actor that carries a role, known or not. It is only
// used together with a self-identity predicate.
func Anyone() RoleSet {
	return RoleSet{label: "*", anyone: true}
}

// Contains reports whether role is matched by the set.
func (s RoleSet) Contains(role string) bool {
	if role == "" {
		return false
	}
	if s.anyone {
		return true
	}
	_, ok := s.roles[role]
	return ok
}

// String renders the set for rule listings.
func (s RoleSet) String() string {
	return s.label
}

// Predicate is a named relationship test between an actor and a resource.
type Predicate struct {
	Name string
	Test func(Resolver, Actor, Resource) bool
}

func (p *Predicate) eval(rel Resolver, a Actor, r Resource) bool {
	if p == nil {
		return true
	}
	if p.Test == nil {
		return false
	}
	return p.Test(rel, a, r)
}

// And is satisfied when every predicate is.
func And(preds ...*Predicate) *Predicate {
	return &Predicate{
		Name: "and(" + joinNames(preds) + ")",
		Test: func(rel Resolver, a Actor, r Resource) bool {
			for _, p := range preds {
				if p == nil || !p.eval(rel, a, r) {
					return false
				}
			}
			return len(preds) > 0
		},
	}
}

// Or is satisfied when any predicate is.
func Or(preds ...*Predicate) *Predicate {
	return &Predicate{
		Name: "or(" + joinNames(preds) + ")",
		Test: func(rel Resolver, a Actor, r Resource) bool {
			for _, p := range preds {
				if p != nil && p.eval(rel, a, r) {
					return true
				}
			}
			return false
		},
	}
}

// Not negates a predicate.
// A nil predicate makes the result fail closed.
func Not(p *Predicate) *Predicate {
	return &Predicate{
		Name: "not(" + joinNames([]*Predicate{p}) + ")",
		Test: func(rel Resolver, a Actor, r Resource) bool {
			if p == nil {
				return false
			}
			return !p.eval(rel, a, r)
		},
	}
}

func joinNames(preds []*Predicate) string {
	names := make([]string, 0, len(preds))
	for _, p := range preds {
		if p == nil {
			names = append(names, "nil")
			continue
		}
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}

// Clause grants an action when the role matches, the predicate (if any)
// holds and the resource status (if gated) is allowed.
type Clause struct {
	Roles     RoleSet
	Predicate *Predicate
	Statuses  []Status
}

// statusCarrier is implemented by resources with a lifecycle status.
type statusCarrier interface {
	currentStatus() Status
}

func (r Referral) currentStatus() Status { return r.Status }

func (c Clause) matches(rel Resolver, a Actor, r Resource) bool {
	if !c.Roles.Contains(a.Role) {
		return false
	}
	if !c.Predicate.eval(rel, a, r) {
		return false
	}
	if c.Statuses != nil {
		sc, ok := r.(statusCarrier)
		if !ok || !statusIn(sc.currentStatus(), c.Statuses) {
			return false
		}
	}
	return true
}

// Table holds the ordered clauses for every action of one resource kind.
type Table struct {
	kind    Kind
	order   []Action
	clauses map[Action][]Clause
}

func newTable(kind Kind) *Table {
	return &Table{kind: kind, clauses: make(map[Action][]Clause)}
}

func (t *Table) on(action Action, clauses ...Clause) *Table {
	if _, exists := t.clauses[action]; !exists {
		t.order = append(t.order, action)
	}
	t.clauses[action] = append(t.clauses[action], clauses...)
	return t
}

// Kind returns the resource kind this table governs.
func (t *Table) Kind() Kind { return t.kind }

// Actions lists the actions in declaration order.
func (t *Table) Actions() []Action {
	return append([]Action(nil), t.order...)
}

// Has reports whether the table declares action.
func (t *Table) Has(action Action) bool {
	_, ok := t.clauses[action]
	return ok
}

// evaluate returns the index of the first matching clause, or -1. known is
// false when the action is missing from the table.
func (t *Table) evaluate(rel Resolver, a Actor, action Action, r Resource) (matched int, known bool) {
	clauses, ok := t.clauses[action]
	if !ok {
		return -1, false
	}
	for i, c := range clauses {
		if c.matches(rel, a, r) {
			return i, true
		}
	}
	return -1, true
}

// Row is one clause rendered for listings and diffs.
type Row struct {
	Kind      Kind
	Action    Action
	Index     int
	Roles     string
	Predicate string
	Statuses  string
}

func (t *Table) rows() []Row {
	var rows []Row
	for _, action := range t.order {
		for i, c := range t.clauses[action] {
			row := Row{Kind: t.kind, Action: action, Index: i, Roles: c.Roles.String(), Predicate: "-", Statuses: "-"}
			if c.Predicate != nil {
				row.Predicate = c.Predicate.Name
			}
			if c.Statuses != nil {
				names := make([]string, 0, len(c.Statuses))
				for _, s := range c.Statuses {
					names = append(names, string(s))
				}
				sort.Strings(names)
				row.Statuses = strings.Join(names, ",")
			}
			rows = append(rows, row)
		}
	}
	return rows
}
