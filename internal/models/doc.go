// Package models defines the core domain types for PerfectPlan.
//
// # Entities
//
//   - User: a registered account; its ID is the opaque subject identifier
//     used everywhere else
//   - Group: a scheduling group with two invite codes and two independent
//     membership sets (members and guests)
//   - Event: a scheduled meeting owned by a group
//   - Poll: a vote between proposed time slots, with a global
//     one-vote-per-user constraint
//   - Message: an append-only chat message in a group channel
//
// # Errors
//
// The package also defines the shared error taxonomy: ValidationError,
// AuthorizationError, NotFoundError and ConflictError. These are the four
// expected, recoverable failure categories; services return them and
// handlers map them to HTTP status codes. Anything else is an
// infrastructure failure.
//
// # Design principles
//
//  1. Relationships use ID strings, never pointers, to avoid circular
//     references between entities.
//  2. Roles are never stored: Group.RoleOf derives the role from the
//     creator identity plus the two membership sets, so a stored role can
//     never drift from the underlying data.
//  3. View types (GroupDetail, EventView, MessageView) carry display
//     context such as usernames; they are assembled by the service layer,
//     not persisted.
package models
