package view

type FlashKind string

const (
	FlashInfo    FlashKind = "info"
	FlashSuccess FlashKind = "success"
	FlashWarning FlashKind = "warning"
	FlashError   FlashKind = "error"
)

// Flash is a one-shot toast carried across a redirect.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// Class is the CSS modifier of the toast.
func (f Flash) Class() string {
	switch f.Kind {
	case FlashSuccess, FlashWarning, FlashError:
		return "toast-" + string(f.Kind)
	default:
		return "toast-info"
	}
}
