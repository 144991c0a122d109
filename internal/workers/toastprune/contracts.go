package toastprune

type (
	Toasts interface {
		Prune() int
	}
)
