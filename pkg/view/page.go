package view

// Header is the navigation context shared by every page.
type Header struct {
	SignedIn      bool
	Name          string
	Email         string
	IsAdmin       bool
	IsVendor      bool
	CartCount     int
	WishlistCount int
	Path          string
}

// Page wraps the data of one rendered screen.
type Page struct {
	Title     string
	Header    Header
	Flash     *Flash
	RequestID string
	Data      any
}

type PageLink struct {
	Number  int
	Label   string
	URL     string
	Current bool
}

// Pager is the numbered page navigation under a list.
type Pager struct {
	Page          int
	TotalPages    int
	TotalElements int64
	Prev          string
	Next          string
	Links         []PageLink
}

func (p Pager) Show() bool { return p.TotalPages > 1 }
