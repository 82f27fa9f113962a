package errors

// Error is a string which can be declared as a constant error value
//
//	const ErrSomething = errors.Error("something happened")
type Error string

func (e Error) Error() string {
	return string(e)
}
