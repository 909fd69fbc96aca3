package models

import "fmt"

// ErrorKind classifies an APIError for transport mapping and retry decisions.
type ErrorKind string

const (
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindNotFound        ErrorKind = "not_found"
	KindForbidden       ErrorKind = "forbidden"
	KindConflict        ErrorKind = "conflict"
	KindInvalidArgument ErrorKind = "invalid_argument"
	KindInternal        ErrorKind = "internal"
)

// APIError is the unified failure shape surfaced to callers. Anything that is
// not an APIError is treated as an opaque internal fault at the HTTP boundary.
type APIError struct {
	Code    string
	Kind    ErrorKind
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

const (
	ErrCodeNotAuthenticated     = "NOT_AUTHENTICATED"
	ErrCodeCurrentUserNotFound  = "CURRENT_USER_NOT_FOUND"
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
	ErrCodeRequestNotFound      = "REQUEST_NOT_FOUND"
	ErrCodeConversationNotFound = "CONVERSATION_NOT_FOUND"
	ErrCodeFriendshipNotFound   = "FRIENDSHIP_NOT_FOUND"
	ErrCodeNotMember            = "NOT_A_MEMBER"
	ErrCodeSelfRequest          = "SELF_REQUEST"
	ErrCodeRequestExists        = "REQUEST_ALREADY_SENT"
	ErrCodeRequestReceived      = "REQUEST_ALREADY_RECEIVED"
	ErrCodeAlreadyFriends       = "ALREADY_FRIENDS"
	ErrCodeNotEnoughMembers     = "NOT_ENOUGH_MEMBERS"
	ErrCodeInvalidGroup         = "INVALID_GROUP"
	ErrCodeEmptyMessage         = "EMPTY_MESSAGE"
)

func NewNotAuthenticatedError() *APIError {
	return &APIError{Code: ErrCodeNotAuthenticated, Kind: KindUnauthenticated, Message: "not authenticated"}
}

func NewCurrentUserNotFoundError() *APIError {
	return &APIError{Code: ErrCodeCurrentUserNotFound, Kind: KindNotFound, Message: "current user not found"}
}

func NewUserNotFoundError(ref string) *APIError {
	return &APIError{Code: ErrCodeUserNotFound, Kind: KindNotFound, Message: fmt.Sprintf("user not found: %s", ref)}
}

func NewEmptyMessageError() *APIError {
	return &APIError{Code: ErrCodeEmptyMessage, Kind: KindInvalidArgument, Message: "message content is required"}
}

func NewRequestNotFoundError() *APIError {
	return &APIError{Code: ErrCodeRequestNotFound, Kind: KindNotFound, Message: "friend request not found"}
}

func NewConversationNotFoundError() *APIError {
	return &APIError{Code: ErrCodeConversationNotFound, Kind: KindNotFound, Message: "conversation not found"}
}

func NewFriendshipNotFoundError() *APIError {
	return &APIError{Code: ErrCodeFriendshipNotFound, Kind: KindNotFound, Message: "friendship not found"}
}

func NewNotMemberError() *APIError {
	return &APIError{Code: ErrCodeNotMember, Kind: KindForbidden, Message: "you are not a member of this conversation"}
}

func NewSelfRequestError() *APIError {
	return &APIError{Code: ErrCodeSelfRequest, Kind: KindInvalidArgument, Message: "you cannot send a friend request to yourself"}
}

func NewRequestExistsError() *APIError {
	return &APIError{Code: ErrCodeRequestExists, Kind: KindConflict, Message: "request already sent to this user"}
}

func NewRequestReceivedError() *APIError {
	return &APIError{Code: ErrCodeRequestReceived, Kind: KindConflict, Message: "this user has already sent you a request"}
}

func NewAlreadyFriendsError() *APIError {
	return &APIError{Code: ErrCodeAlreadyFriends, Kind: KindConflict, Message: "you are already friends with this user"}
}

func NewNotEnoughMembersError() *APIError {
	return &APIError{Code: ErrCodeNotEnoughMembers, Kind: KindConflict, Message: "this conversation does not have enough members"}
}

func NewInvalidGroupError(reason string) *APIError {
	return &APIError{Code: ErrCodeInvalidGroup, Kind: KindInvalidArgument, Message: reason}
}
