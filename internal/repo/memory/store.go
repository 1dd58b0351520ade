package memory

import (
	"sync"

	"github.com/geocoder89/leavetrack/internal/domain/leave"
	"github.com/geocoder89/leavetrack/internal/domain/user"
)

// Store holds both tables so leave rows can resolve usernames the way a join would.
type Store struct {
	mu     sync.RWMutex
	users  []user.User
	leaves []leave.LeaveRequest
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Users() *UsersRepo {
	return &UsersRepo{s: s}
}

func (s *Store) LeaveRequests() *LeaveRequestsRepo {
	return &LeaveRequestsRepo{s: s}
}

// usernameLocked expects s.mu to be held.
func (s *Store) usernameLocked(id int64) string {
	for _, u := range s.users {
		if u.ID == id {
			return u.Username
		}
	}
	return ""
}
