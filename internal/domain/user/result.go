package user

// DeleteStatus tags the outcome of a delete against the store.
type DeleteStatus int

const (
	// DeleteStatusDeleted means the record existed and was removed.
	DeleteStatusDeleted DeleteStatus = iota + 1
	// DeleteStatusNotFound means no record matched the id.
	DeleteStatusNotFound
)

// String implements fmt.Stringer
func (s DeleteStatus) String() string {
	switch s {
	case DeleteStatusDeleted:
		return "deleted"
	case DeleteStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// DeleteResult is returned by a repository delete. Failures other than
// "not found" are reported through the accompanying error, never here.
type DeleteResult struct {
	Status DeleteStatus
	User   *User // the removed record, set only when Status is DeleteStatusDeleted
}

// Deleted builds the result for a removed record.
func Deleted(u *User) DeleteResult {
	return DeleteResult{Status: DeleteStatusDeleted, User: u}
}

// NotFound builds the result for a missing record.
func NotFound() DeleteResult {
	return DeleteResult{Status: DeleteStatusNotFound}
}
