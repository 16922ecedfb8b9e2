// Package engine is the club's rule engine. A signed-in session opens the
// desk for its role; each desk exposes only what that role may do and
// combines the catalog, subscription and booking ledgers behind it.
package engine

import (
	"errors"

	"formfitness/internal/apperr"
	"formfitness/internal/booking"
	"formfitness/internal/catalog"
	"formfitness/internal/clock"
	"formfitness/internal/events"
	"formfitness/internal/session"
	"formfitness/internal/subscription"
	"formfitness/internal/user"
	"formfitness/internal/wallet"
)

var (
	ErrWrongDesk   = errors.New("this action is not available for your role")
	ErrUnknownRole = errors.New("unknown role")
)

type Deps struct {
	Users         user.Service
	Catalog       catalog.Service
	Subscriptions subscription.Ledger
	Bookings      booking.Ledger
	Wallets       wallet.Repository
	Sessions      session.Store
	Events        events.Publisher
	Clock         clock.Clock
	// BookingRequiresSubscription rejects bookings from members without a
	// subscription that counts as active.
	BookingRequiresSubscription bool
}

type Engine struct {
	users               user.Service
	catalog             catalog.Service
	subs                subscription.Ledger
	bookings            booking.Ledger
	wallets             wallet.Repository
	sessions            session.Store
	events              events.Publisher
	clock               clock.Clock
	requireSubscription bool
}

func New(d Deps) *Engine {
	clk := d.Clock
	if clk == nil {
		clk = clock.NewSystem(nil)
	}
	return &Engine{
		users:               d.Users,
		catalog:             d.Catalog,
		subs:                d.Subscriptions,
		bookings:            d.Bookings,
		wallets:             d.Wallets,
		sessions:            d.Sessions,
		events:              d.Events,
		clock:               clk,
		requireSubscription: d.BookingRequiresSubscription,
	}
}

// Desk is one of MemberDesk, StaffDesk or AdminDesk.
type Desk interface {
	Session() *session.Session
	desk()
}

// Open returns the desk matching the session's role.
func (e *Engine) Open(sess *session.Session) (Desk, error) {
	switch user.Role(sess.Role) {
	case user.RoleMember:
		return &MemberDesk{e: e, sess: sess}, nil
	case user.RoleStaff:
		return &StaffDesk{e: e, sess: sess}, nil
	case user.RoleAdmin:
		return &AdminDesk{StaffDesk: StaffDesk{e: e, sess: sess}}, nil
	}
	return nil, apperr.Forbidden("unknown_role", ErrUnknownRole)
}

// Member opens the member desk or fails with Forbidden.
func (e *Engine) Member(sess *session.Session) (*MemberDesk, error) {
	d, err := e.Open(sess)
	if err != nil {
		return nil, err
	}
	if m, ok := d.(*MemberDesk); ok {
		return m, nil
	}
	return nil, apperr.Forbidden("wrong_desk", ErrWrongDesk)
}

// Staff opens the staff desk. Administrators get the staff part of their desk.
func (e *Engine) Staff(sess *session.Session) (*StaffDesk, error) {
	d, err := e.Open(sess)
	if err != nil {
		return nil, err
	}
	switch v := d.(type) {
	case *StaffDesk:
		return v, nil
	case *AdminDesk:
		return &v.StaffDesk, nil
	}
	return nil, apperr.Forbidden("wrong_desk", ErrWrongDesk)
}

func (e *Engine) Admin(sess *session.Session) (*AdminDesk, error) {
	d, err := e.Open(sess)
	if err != nil {
		return nil, err
	}
	if a, ok := d.(*AdminDesk); ok {
		return a, nil
	}
	return nil, apperr.Forbidden("wrong_desk", ErrWrongDesk)
}
