package templates

import (
	"time"

	"countries_app_echo/internal/countries"
	"countries_app_echo/internal/models"
)

// Layout is shared by every page rendered inside the base layout.
type Layout struct {
	Title   string
	Refresh bool // ask script-less browsers to reload while loading
	Year    int
}

// NewLayout fills the footer year from now.
func NewLayout(title string, now time.Time) Layout {
	return Layout{Title: title, Year: now.Year()}
}

type LoginProps struct {
	Layout
	Username string
	Remember bool
	Error    string
}

// RegionLink is one region filter entry in the navbar.
type RegionLink struct {
	Region string
	Action string
	Active bool
}

type HomeProps struct {
	Layout
	PageID      string
	RegionLinks []RegionLink
	Loading     bool
	Slider      *models.Country
	Featured    *models.Country
	Visible     []models.Country
	HasMore     bool
	WaitURL     string
	MoreURL     string
	SelectURL   string
}

// NewHomeProps builds the home screen props for a page snapshot.
func NewHomeProps(layout Layout, pageID string, snap countries.Snapshot) HomeProps {
	base := "/home/" + pageID
	links := make([]RegionLink, 0, len(countries.Regions))
	for _, region := range countries.Regions {
		links = append(links, RegionLink{
			Region: region,
			Action: base + "/region",
			Active: region == snap.Region,
		})
	}

	loading := snap.Phase == countries.PhaseLoading
	layout.Refresh = loading
	return HomeProps{
		Layout:      layout,
		PageID:      pageID,
		RegionLinks: links,
		Loading:     loading,
		Slider:      snap.Slider,
		Featured:    snap.Featured,
		Visible:     snap.Visible,
		HasMore:     !loading && snap.HasMore,
		WaitURL:     base + "/wait",
		MoreURL:     base + "/more",
		SelectURL:   base + "/select",
	}
}

type ErrorPageProps struct {
	Layout
	ErrorTitle   string
	ErrorMessage string
	BackLink     string
	BackText     string
}
