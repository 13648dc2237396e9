// internal/errors/errors.go
package appErrors

import "fmt"

// ErrAnnouncementNotFound is a sentinel error
type ErrAnnouncementNotFound struct {
	AnnouncementID int
}

func (e *ErrAnnouncementNotFound) Error() string {
	return fmt.Sprintf("announcement with ID %d not found", e.AnnouncementID)
}

// Helper constructor
func NewAnnouncementNotFound(id int) error {
	return &ErrAnnouncementNotFound{AnnouncementID: id}
}

type ErrCommunityNotFound struct {
	CommunityID int
}

func (e *ErrCommunityNotFound) Error() string {
	return fmt.Sprintf("community with ID %d not found", e.CommunityID)
}

func NewCommunityNotFound(id int) error {
	return &ErrCommunityNotFound{CommunityID: id}
}

type ErrCommunityNotApproved struct {
	CommunityID int
}

func (e *ErrCommunityNotApproved) Error() string {
	return fmt.Sprintf("community with ID %d is not approved for announcements", e.CommunityID)
}

func NewCommunityNotApproved(id int) error {
	return &ErrCommunityNotApproved{CommunityID: id}
}

type ErrPaymentNotFound struct {
	Ref string
}

func (e *ErrPaymentNotFound) Error() string {
	return fmt.Sprintf("payment %s not found", e.Ref)
}

func NewPaymentNotFound(ref string) error {
	return &ErrPaymentNotFound{Ref: ref}
}

// ErrInvalidTransition is returned when an announcement is moved to a status
// the state machine does not allow from its current one.
type ErrInvalidTransition struct {
	From string
	To   string
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("cannot move announcement from %s to %s", e.From, e.To)
}

func NewInvalidTransition(from, to string) error {
	return &ErrInvalidTransition{From: from, To: to}
}
