// Package campaign implements campaign lifecycle management.
//
// The service layer contains the business logic for creating, scheduling
// and transitioning outbound assistant campaigns. Actually placing calls is
// the dispatcher's job and stays outside this package. It depends on the
// repository interface defined here and never imports from api/.
//
// Repository implementations live in repository/postgres/.
package campaign
