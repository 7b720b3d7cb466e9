package board

// mutate runs the optimistic update protocol shared by status changes,
// drag-and-drop, and subtask toggles: apply the new value immediately, push
// it to the backend, and restore the previous value if the push fails. On
// success the optimistic state is left as final.
func mutate[T any](apply func(T), prev, next T, remote func() error) error {
	apply(next)
	if err := remote(); err != nil {
		apply(prev)
		return err
	}
	return nil
}
