package search

// Status tags a Result.
type Status string

const (
	StatusOK          Status = "ok"
	StatusUnavailable Status = "unavailable"
)

// Result is either Ok(ResultSet) or Unavailable(reason).
type Result struct {
	status Status
	set    ResultSet
	reason string
}

// Ok wraps a retrieved result set.
func Ok(set ResultSet) Result {
	return Result{status: StatusOK, set: set}
}

// Unavailable marks a retrieval that produced no grounding.
func Unavailable(reason string) Result {
	return Result{status: StatusUnavailable, reason: reason}
}

// Status returns the tag. The zero Result is Unavailable.
func (r Result) Status() Status {
	if r.status == "" {
		return StatusUnavailable
	}
	return r.status
}

// Get returns the result set and true only for Ok results.
func (r Result) Get() (ResultSet, bool) {
	if r.status != StatusOK {
		return ResultSet{}, false
	}
	return r.set, true
}

// Reason explains an Unavailable result.
func (r Result) Reason() string {
	return r.reason
}
